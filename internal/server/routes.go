package server

import (
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
	Webhook      *handler.WebhookHandler
}

// RegisterRoutes は /api 以下に全ルートを載せる
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	api := e.Group("/api")

	api.GET("/health", health)

	h.Auth.RegisterRoutes(api)
	h.Product.RegisterRoutes(api)
	h.AdminProduct.RegisterRoutes(api, cfg)
	h.Order.RegisterRoutes(api, cfg)
	h.AdminOrder.RegisterRoutes(api, cfg)
	h.Webhook.RegisterRoutes(api)
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
