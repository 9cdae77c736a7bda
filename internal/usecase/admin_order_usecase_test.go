package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdminOrderUsecaseForTest(orders *OrderRepoMock, items *OrderItemRepoMock, audit *AuditRepoMock) (*usecase.AdminOrderUsecase, *TxManagerMock) {
	tm := &TxManagerMock{
		Repos: &TxReposMock{
			orders:     orders,
			orderItems: items,
			payments:   &PaymentRepoMock{},
			products:   &ProductRepoMock{},
		},
	}
	return usecase.NewAdminOrderUsecase(tm, audit), tm
}

func TestAdminUpdateStatus_AllowedTransition(t *testing.T) {
	orders := &OrderRepoMock{}
	items := &OrderItemRepoMock{}
	audit := &AuditRepoMock{}
	uc, tm := newAdminOrderUsecaseForTest(orders, items, audit)

	order := model.Order{ID: "o-1", Status: model.OrderStatusPending, Notes: "old"}

	tm.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, "o-1").Return(order, nil)
	items.On("ListByOrderID", mock.Anything, "o-1").Return([]model.OrderItem{{ID: "i-1"}}, nil)
	orders.On("UpdateStatus", mock.Anything, "o-1", model.OrderStatusConfirmed, "old").Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateOrderStatus && l.ResourceID == "o-1"
	})).Return(nil)

	out, err := uc.UpdateStatus(context.Background(), "admin-1", "o-1",
		usecase.AdminUpdateOrderStatusInput{Status: "confirmed"})

	assert.NoError(t, err)
	assert.Equal(t, "confirmed", out.Status)
	orders.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestAdminUpdateStatus_TerminalStates_Rejected(t *testing.T) {
	cases := []struct {
		name string
		from model.OrderStatus
		to   string
	}{
		{"delivered is terminal", model.OrderStatusDelivered, "pending"},
		{"cancelled is terminal", model.OrderStatusCancelled, "confirmed"},
		{"no skipping ahead", model.OrderStatusPending, "delivered"},
		{"ready cannot cancel", model.OrderStatusReady, "cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := &OrderRepoMock{}
			items := &OrderItemRepoMock{}
			audit := &AuditRepoMock{}
			uc, tm := newAdminOrderUsecaseForTest(orders, items, audit)

			tm.On("WithinTx", mock.Anything).Return(nil)
			orders.On("FindByID", mock.Anything, "o-1").Return(model.Order{ID: "o-1", Status: tc.from}, nil)
			items.On("ListByOrderID", mock.Anything, "o-1").Return([]model.OrderItem{}, nil)

			_, err := uc.UpdateStatus(context.Background(), "admin-1", "o-1",
				usecase.AdminUpdateOrderStatusInput{Status: tc.to})

			assertErrContains(t, err, "invalid transition")
			orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAdminUpdateStatus_SameStatus_NoOp(t *testing.T) {
	orders := &OrderRepoMock{}
	items := &OrderItemRepoMock{}
	audit := &AuditRepoMock{}
	uc, tm := newAdminOrderUsecaseForTest(orders, items, audit)

	tm.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, "o-1").Return(model.Order{ID: "o-1", Status: model.OrderStatusConfirmed}, nil)
	items.On("ListByOrderID", mock.Anything, "o-1").Return([]model.OrderItem{}, nil)

	out, err := uc.UpdateStatus(context.Background(), "admin-1", "o-1",
		usecase.AdminUpdateOrderStatusInput{Status: "confirmed"})

	// 同じステータスなら更新もログも走らない（200）
	assert.NoError(t, err)
	assert.Equal(t, "confirmed", out.Status)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_UnknownStatus_Rejected(t *testing.T) {
	orders := &OrderRepoMock{}
	items := &OrderItemRepoMock{}
	audit := &AuditRepoMock{}
	uc, _ := newAdminOrderUsecaseForTest(orders, items, audit)

	_, err := uc.UpdateStatus(context.Background(), "admin-1", "o-1",
		usecase.AdminUpdateOrderStatusInput{Status: "shipped-to-the-moon"})

	assertErrContains(t, err, "invalid status")
	orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_OrderNotFound(t *testing.T) {
	orders := &OrderRepoMock{}
	items := &OrderItemRepoMock{}
	audit := &AuditRepoMock{}
	uc, tm := newAdminOrderUsecaseForTest(orders, items, audit)

	tm.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, "missing").Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.UpdateStatus(context.Background(), "admin-1", "missing",
		usecase.AdminUpdateOrderStatusInput{Status: "confirmed"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestAdminList_ValidatesPaging(t *testing.T) {
	orders := &OrderRepoMock{}
	items := &OrderItemRepoMock{}
	audit := &AuditRepoMock{}
	uc, _ := newAdminOrderUsecaseForTest(orders, items, audit)

	_, err := uc.List(context.Background(), repo.OrderListFilter{Limit: 0})
	assertErrContains(t, err, "invalid limit")

	_, err = uc.List(context.Background(), repo.OrderListFilter{Limit: 10, Offset: -1})
	assertErrContains(t, err, "invalid offset")

	_, err = uc.List(context.Background(), repo.OrderListFilter{Limit: 10, Status: "nope"})
	assertErrContains(t, err, "invalid status")
}

func TestAdminList_ReturnsOrdersWithItems(t *testing.T) {
	orders := &OrderRepoMock{}
	items := &OrderItemRepoMock{}
	audit := &AuditRepoMock{}
	uc, tm := newAdminOrderUsecaseForTest(orders, items, audit)

	listed := []model.Order{{ID: "o-9"}, {ID: "o-8"}}

	tm.On("WithinTx", mock.Anything).Return(nil)
	orders.On("List", mock.Anything, repo.OrderListFilter{Status: "pending", Limit: 50, Offset: 0}).
		Return(listed, int64(2), nil)
	items.On("ListByOrderIDs", mock.Anything, []string{"o-9", "o-8"}).
		Return(map[string][]model.OrderItem{"o-9": {{ID: "i-1"}}}, nil)

	out, err := uc.List(context.Background(), repo.OrderListFilter{Status: "pending", Limit: 50})

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, out[0].Items, 1)
	assert.Len(t, out[1].Items, 0)
}
