package handler

import (
	"errors"
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var (
	errInvalidLimit  = errors.New("invalid limit")
	errInvalidOffset = errors.New("invalid offset")
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderCreateRequest struct {
	CustomerInfo   usecase.CustomerInfoInput `json:"customerInfo"`
	Items          []usecase.OrderItemInput  `json:"items"`
	DeliveryMethod string                    `json:"deliveryMethod"`
	PaymentMethod  string                    `json:"paymentMethod"`
	Notes          string                    `json:"notes"`

	//クライアント申告の合計。受けるが信用しない（サーバーで再計算）
	Total decimal.Decimal `json:"total"`
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group, cfg config.Config) {
	//注文作成と詳細はゲスト購入もあるので認証なし
	g.POST("/orders", h.create)
	g.GET("/orders/:id", h.detail)

	authed := g.Group("/orders")
	authed.Use(middleware.AuthJWT(cfg))
	authed.GET("", h.listMine)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), usecase.CreateOrderInput{
		Customer:       req.CustomerInfo,
		Items:          req.Items,
		DeliveryMethod: req.DeliveryMethod,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	email, ok := getUserEmailFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	limit, offset, err := parseLimitOffset(c, 50)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), email, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.uc.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// limit/offsetは数値として読んでから渡す。クエリへ素通しはしない
func parseLimitOffset(c echo.Context, defaultLimit int) (int, int, error) {
	limit := defaultLimit
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errInvalidLimit
		}
		limit = l
	}

	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errInvalidOffset
		}
		offset = o
	}

	return limit, offset, nil
}
