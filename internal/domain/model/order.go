package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// キャンセルもステータス値。注文は物理削除しない
type Order struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName    string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"type:varchar(255);not null;index" json:"customer_email"`
	CustomerPhone   string          `gorm:"type:varchar(20)" json:"customer_phone"`
	CustomerAddress string          `gorm:"type:text" json:"customer_address"`
	DeliveryMethod  string          `gorm:"type:varchar(50)" json:"delivery_method"`
	PaymentMethod   string          `gorm:"type:varchar(50)" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(50);not null;default:'pending'" json:"payment_status"`
	TransactionID   string          `gorm:"type:varchar(255)" json:"transaction_id,omitempty"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(50);not null;default:'pending';index" json:"status"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
