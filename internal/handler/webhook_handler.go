package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 署名を入れるヘッダ
const signatureHeader = "X-Webhook-Signature"

type WebhookHandler struct {
	uc       *usecase.PaymentUsecase
	verifier usecase.NotificationVerifier
	logger   *zap.Logger
}

func NewWebhookHandler(uc *usecase.PaymentUsecase, verifier usecase.NotificationVerifier, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{uc: uc, verifier: verifier, logger: logger}
}

type PaymentWebhookRequest struct {
	OrderID       string          `json:"orderId"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
}

func (h *WebhookHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/webhook/payment", h.payment)
}

// payment は決済通知を受ける。
// 署名NGだけ401。それ以外は受領を返して再送ループを避ける
func (h *WebhookHandler) payment(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//状態を触る前に署名検証
	if !h.verifier.Verify(body, c.Request().Header.Get(signatureHeader)) {
		h.logger.Warn("webhook signature mismatch")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid signature"})
	}

	var req PaymentWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Reconcile(c.Request().Context(), usecase.ReconcileInput{
		OrderID:       req.OrderID,
		Status:        req.Status,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		RawPayload:    string(body),
	})
	if err != nil {
		return writeError(c, err)
	}

	if !out.Applied && out.Reason != "" {
		h.logger.Info("webhook acknowledged without apply",
			zap.String("order_id", req.OrderID),
			zap.String("reason", out.Reason),
		)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook processed successfully"})
}
