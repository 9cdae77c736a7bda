package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品はソフト参照。後で非公開になっても明細は名前・単価のスナップショットで残る
type OrderItem struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     string          `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   string          `gorm:"type:uuid;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Variety     string          `gorm:"type:varchar(255)" json:"variety"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
