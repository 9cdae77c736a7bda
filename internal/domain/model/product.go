package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 削除はactive=falseのソフト削除
type Product struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Varieties   []string        `gorm:"serializer:json;type:jsonb" json:"varieties"`
	Images      []string        `gorm:"serializer:json;type:jsonb" json:"images"`
	Active      bool            `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
