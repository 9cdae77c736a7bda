package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentRecordStatus string

const (
	PaymentRecordStatusPending  PaymentRecordStatus = "pending"
	PaymentRecordStatusApproved PaymentRecordStatus = "approved"
	PaymentRecordStatusFailed   PaymentRecordStatus = "failed"
)

// transaction_idのuniqueIndexが再送の二重適用を防ぐ
type Payment struct {
	ID              string              `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         string              `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"order_id"`
	PaymentMethod   string              `gorm:"type:varchar(50);not null" json:"payment_method"`
	TransactionID   string              `gorm:"type:varchar(255);uniqueIndex" json:"transaction_id"`
	Amount          decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency        string              `gorm:"type:varchar(3);not null;default:'ARS'" json:"currency"`
	Status          PaymentRecordStatus `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	PaymentDate     *time.Time          `json:"payment_date,omitempty"`
	GatewayResponse string              `gorm:"type:text" json:"-"`
	CreatedAt       time.Time           `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
