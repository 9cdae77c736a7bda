package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error)

	//一覧表示用。注文IDのバッチで明細を一括取得する（N+1回避）
	ListByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]model.OrderItem, error)
}
