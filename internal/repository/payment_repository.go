package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

// transaction_idのunique制約に当たったとき
var ErrDuplicateTransaction = errors.New("duplicate transaction")

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (model.Payment, bool, error)
	ListByOrderID(ctx context.Context, orderID string) ([]model.Payment, error)
}
