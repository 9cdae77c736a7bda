package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// usecaseはID生成と現在時刻を注入してもらう
type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// usecaseがValidatorInterfaceに依存する約束
type OrderValidator interface {
	ValidateCreate(ctx context.Context, email string, items []OrderItemInput) error
}

type CustomerInfoInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type OrderItemInput struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Variety   string          `json:"variety"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CreateOrderInput struct {
	Customer       CustomerInfoInput
	Items          []OrderItemInput
	DeliveryMethod string
	PaymentMethod  string
	Notes          string
}

type OrderItemOutput struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Variety     string          `json:"variety,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID              string            `json:"id"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone,omitempty"`
	CustomerAddress string            `json:"customer_address,omitempty"`
	DeliveryMethod  string            `json:"delivery_method"`
	PaymentMethod   string            `json:"payment_method"`
	PaymentStatus   string            `json:"payment_status"`
	TransactionID   string            `json:"transaction_id,omitempty"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	Status          string            `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Items           []OrderItemOutput `json:"items"`
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	validator OrderValidator
	idGen     IDGenerator
	clock     Clock
}

func NewOrderUsecase(tx repo.TransactionManager, validator OrderValidator, idGen IDGenerator, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, validator: validator, idGen: idGen, clock: clock}
}

// CreateOrder は注文と明細をひとつのトランザクションで保存する。
// 合計はクライアントの申告値を使わずサーバー側で再計算する
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	if err := u.validator.ValidateCreate(ctx, in.Customer.Email, in.Items); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	//サーバー側で合計を計算
	total := decimal.Zero
	now := u.clock.Now()

	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		subtotal := it.Price.Mul(decimal.NewFromInt(it.Quantity))
		total = total.Add(subtotal)

		items = append(items, model.OrderItem{
			ID:          u.idGen.NewID(),
			ProductID:   it.ProductID,
			ProductName: it.Name,
			Variety:     it.Variety,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
			Subtotal:    subtotal,
			CreatedAt:   now,
		})
	}

	order := model.Order{
		ID:              u.idGen.NewID(),
		CustomerName:    in.Customer.FullName,
		CustomerEmail:   in.Customer.Email,
		CustomerPhone:   in.Customer.Phone,
		CustomerAddress: in.Customer.Address,
		DeliveryMethod:  in.DeliveryMethod,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	//注文と明細は全部入るか、全部入らないか
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	return toOrderOutput(order, items), nil
}

// GetOrder は注文1件を明細付きで返す
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID string) (OrderOutput, error) {
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ListMyOrders はログイン中の顧客の注文を新しい順で返す
func (u *OrderUsecase) ListMyOrders(ctx context.Context, email string, limit int, offset int) ([]OrderOutput, error) {
	if email == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if limit < 1 || limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if offset < 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().List(ctx, repo.OrderListFilter{
			CustomerEmail: email,
			Limit:         limit,
			Offset:        offset,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs, err = attachItems(ctx, r, orders)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 明細は注文IDのバッチで1回だけ引いて注文ごとに配る
func attachItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	grouped, err := r.OrderItems().ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o, grouped[o.ID]))
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Variety:     it.Variety,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		DeliveryMethod:  o.DeliveryMethod,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   string(o.PaymentStatus),
		TransactionID:   o.TransactionID,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           outItems,
	}
}
