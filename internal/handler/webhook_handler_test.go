package handler_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/webhook"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "webhook-test-secret"

// =====================
// stubs（handlerテストはHTTP境界が主役なので薄いスタブで済ます）
// =====================

type txStub struct{ repos repo.TxRepos }

func (s *txStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(s.repos)
}

type reposStub struct {
	orders   repo.OrderRepository
	payments repo.PaymentRepository
}

func (r *reposStub) Orders() repo.OrderRepository         { return r.orders }
func (r *reposStub) OrderItems() repo.OrderItemRepository { return nil }
func (r *reposStub) Payments() repo.PaymentRepository     { return r.payments }
func (r *reposStub) Products() repo.ProductRepository     { return nil }

// 未使用メソッドはembedでごまかす
type ordersStub struct {
	repo.OrderRepository
	order   model.Order
	findErr error

	appliedTx string
}

func (s *ordersStub) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	return s.order, s.findErr
}

func (s *ordersStub) ApplyPayment(ctx context.Context, orderID string, transactionID string) error {
	s.appliedTx = transactionID
	return nil
}

type paymentsStub struct {
	repo.PaymentRepository
	created []model.Payment
}

func (s *paymentsStub) Create(ctx context.Context, p model.Payment) error {
	s.created = append(s.created, p)
	return nil
}

type stubIDGen struct{}

func (stubIDGen) NewID() string { return "00000000-0000-0000-0000-000000000001" }

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookServer(orders *ordersStub, payments *paymentsStub) *echo.Echo {
	tm := &txStub{repos: &reposStub{orders: orders, payments: payments}}
	uc := usecase.NewPaymentUsecase(tm, stubIDGen{}, stubClock{}, zap.NewNop())

	h := handler.NewWebhookHandler(uc, webhook.NewHMACVerifier(testSecret), zap.NewNop())

	e := echo.New()
	h.RegisterRoutes(e.Group("/api"))
	return e
}

func postWebhook(e *echo.Echo, body string, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_ValidSignature_AppliesPayment(t *testing.T) {
	orders := &ordersStub{order: model.Order{ID: "o-1", Status: model.OrderStatusPending, PaymentMethod: "transfer"}}
	payments := &paymentsStub{}
	e := newWebhookServer(orders, payments)

	body := `{"orderId":"o-1","status":"approved","transactionId":"tx-9","amount":250}`
	rec := postWebhook(e, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Webhook processed successfully")

	assert.Equal(t, "tx-9", orders.appliedTx)
	if assert.Len(t, payments.created, 1) {
		assert.Equal(t, model.PaymentRecordStatusApproved, payments.created[0].Status)
		assert.Equal(t, body, payments.created[0].GatewayResponse)
	}
}

func TestWebhook_BadSignature_RejectedBeforeAnySideEffect(t *testing.T) {
	orders := &ordersStub{order: model.Order{ID: "o-1", Status: model.OrderStatusPending}}
	payments := &paymentsStub{}
	e := newWebhookServer(orders, payments)

	body := `{"orderId":"o-1","status":"approved","transactionId":"tx-9","amount":250}`
	rec := postWebhook(e, body, sign(body+"tampered"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid signature")
	assert.Empty(t, payments.created)
	assert.Empty(t, orders.appliedTx)
}

func TestWebhook_MissingSignature_Rejected(t *testing.T) {
	e := newWebhookServer(&ordersStub{}, &paymentsStub{})

	rec := postWebhook(e, `{"orderId":"o-1","transactionId":"tx-9"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhook_MalformedBody_BadRequest(t *testing.T) {
	payments := &paymentsStub{}
	e := newWebhookServer(&ordersStub{}, payments)

	body := `{"orderId": not-json`
	rec := postWebhook(e, body, sign(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, payments.created)
}

func TestWebhook_UnknownOrder_StillAcknowledged(t *testing.T) {
	orders := &ordersStub{findErr: repo.ErrNotFound}
	payments := &paymentsStub{}
	e := newWebhookServer(orders, payments)

	body := `{"orderId":"ghost","status":"approved","transactionId":"tx-9","amount":250}`
	rec := postWebhook(e, body, sign(body))

	// 再送ループを避けるため200で受領だけ返す
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, payments.created)
}

func TestWebhook_Replay_Idempotent(t *testing.T) {
	orders := &ordersStub{order: model.Order{
		ID:            "o-1",
		Status:        model.OrderStatusConfirmed,
		PaymentStatus: model.PaymentStatusPaid,
		TransactionID: "tx-9",
	}}
	payments := &paymentsStub{}
	e := newWebhookServer(orders, payments)

	body := `{"orderId":"o-1","status":"approved","transactionId":"tx-9","amount":250}`
	rec := postWebhook(e, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, payments.created)
	assert.Empty(t, orders.appliedTx)
}
