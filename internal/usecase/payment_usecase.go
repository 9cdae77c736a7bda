package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 通知の真正性チェック。状態を触る前に必ず通す
type NotificationVerifier interface {
	Verify(body []byte, signature string) bool
}

const externalStatusApproved = "approved"

type ReconcileInput struct {
	OrderID       string
	Status        string
	TransactionID string
	Amount        decimal.Decimal

	//ゲートウェイの生ペイロード。paymentsに控えを残す
	RawPayload string
}

type ReconcileOutput struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

type PaymentUsecase struct {
	tx     repo.TransactionManager
	idGen  IDGenerator
	clock  Clock
	logger *zap.Logger
}

func NewPaymentUsecase(tx repo.TransactionManager, idGen IDGenerator, clock Clock, logger *zap.Logger) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, idGen: idGen, clock: clock, logger: logger}
}

// Reconcile は外部決済の通知を注文へ反映する。
// 同じtransaction_idの再送は適用済み扱いで成功を返す（冪等）。
// 不明な注文はログに残して受領だけ返す。送信側の再送ループを起こさない
func (u *PaymentUsecase) Reconcile(ctx context.Context, in ReconcileInput) (ReconcileOutput, error) {
	if in.OrderID == "" || in.TransactionID == "" {
		return ReconcileOutput{}, NewHTTPError(http.StatusBadRequest, "orderId and transactionId are required")
	}

	var out ReconcileOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, in.OrderID)
		if errors.Is(err, repo.ErrNotFound) {
			u.logger.Warn("payment webhook for unknown order",
				zap.String("order_id", in.OrderID),
				zap.String("transaction_id", in.TransactionID),
			)
			out = ReconcileOutput{Applied: false, Reason: "order not found"}
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 再送検知。同じtransaction_idなら何もしない
		if o.TransactionID != "" && o.TransactionID == in.TransactionID {
			out = ReconcileOutput{Applied: false, Reason: "already applied"}
			return nil
		}

		status := model.PaymentRecordStatusFailed
		if in.Status == externalStatusApproved {
			status = model.PaymentRecordStatusApproved
		}

		now := u.clock.Now()
		payment := model.Payment{
			ID:              u.idGen.NewID(),
			OrderID:         o.ID,
			PaymentMethod:   o.PaymentMethod,
			TransactionID:   in.TransactionID,
			Amount:          in.Amount,
			Currency:        "ARS",
			Status:          status,
			PaymentDate:     &now,
			GatewayResponse: in.RawPayload,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		//unique制約が同時再送の二重適用を防ぐ
		if err := r.Payments().Create(ctx, payment); err != nil {
			if errors.Is(err, repo.ErrDuplicateTransaction) {
				out = ReconcileOutput{Applied: false, Reason: "already applied"}
				return nil
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//approved以外は記録だけ残して注文は触らない
		if status != model.PaymentRecordStatusApproved {
			u.logger.Info("payment not approved",
				zap.String("order_id", in.OrderID),
				zap.String("external_status", in.Status),
			)
			out = ReconcileOutput{Applied: false, Reason: "status not approved"}
			return nil
		}

		if err := r.Orders().ApplyPayment(ctx, o.ID, in.TransactionID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = ReconcileOutput{Applied: true}
		return nil
	})

	if err != nil {
		return ReconcileOutput{}, err
	}
	return out, nil
}
