package repository

import (
	"context"

	"app/internal/domain/model"
)

// 管理者・顧客共通の注文一覧フィルタ
type OrderListFilter struct {
	CustomerEmail string
	Status        string
	Limit         int
	Offset        int
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	Create(ctx context.Context, order model.Order) error

	//ステータスとメモをまとめて更新する
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, notes string) error

	//支払い確定。status/payment_status/transaction_idを一度に反映する
	ApplyPayment(ctx context.Context, orderID string, transactionID string) error

	//作成日時の降順で返す
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
}
