package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"app/internal/usecase"
)

var (
	// 明細が空
	ErrEmptyItems = errors.New("order must have at least one item")

	// email形式が不正
	ErrInvalidEmail = errors.New("invalid email")

	// 数量が0以下
	ErrInvalidQuantity = errors.New("quantity must be > 0")

	// 単価が負
	ErrNegativePrice = errors.New("unit price must be >= 0")

	// 商品参照がない
	ErrMissingProduct = errors.New("item product id is required")
)

// ざっくりしたemail形式チェック。厳密なRFCまでは追わない
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type orderValidator struct{}

// Usecaseは interface を依存注入
func NewOrderValidator() usecase.OrderValidator {
	return &orderValidator{}
}

func (v *orderValidator) ValidateCreate(ctx context.Context, email string, items []usecase.OrderItemInput) error {
	email = strings.TrimSpace(email)
	if email == "" || !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}

	if len(items) == 0 {
		return ErrEmptyItems
	}

	for _, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return ErrMissingProduct
		}
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if it.Price.IsNegative() {
			return ErrNegativePrice
		}
	}

	return nil
}
