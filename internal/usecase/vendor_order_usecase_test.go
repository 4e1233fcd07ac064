package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	sellerA = "seller-a"
	sellerB = "seller-b"
)

func orderWithSellers(id string, status model.OrderStatus, sellers ...string) model.Order {
	o := model.Order{ID: id, Status: status}
	for _, s := range sellers {
		o.Lines = append(o.Lines, model.OrderLine{SellerID: s})
	}
	return o
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "err=%v", err) {
		assert.Equal(t, want, he.Status)
	}
}

func TestVendorOrderUsecase_List_InvalidPage(t *testing.T) {
	uc := usecase.NewVendorOrderUsecase(new(OrderRepoMock), new(AuditRepoMock), fixedClock{testNow})

	_, err := uc.List(context.Background(), sellerA, usecase.VendorOrderListInput{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")
}

func TestVendorOrderUsecase_List_InvalidStatus(t *testing.T) {
	uc := usecase.NewVendorOrderUsecase(new(OrderRepoMock), new(AuditRepoMock), fixedClock{testNow})

	_, err := uc.List(context.Background(), sellerA, usecase.VendorOrderListInput{Page: 1, Limit: 20, Status: "lost"})
	assertErrContains(t, err, "invalid status")
}

func TestVendorOrderUsecase_List_Success(t *testing.T) {
	orders := new(OrderRepoMock)
	q := repo.OrderListQuery{Page: 2, Limit: 10, Status: "pending"}
	orders.On("ListBySellerID", mock.Anything, sellerA, q).
		Return([]model.Order{orderWithSellers("o2", model.OrderStatusPending, sellerA)}, int64(11), nil)

	uc := usecase.NewVendorOrderUsecase(orders, new(AuditRepoMock), fixedClock{testNow})

	out, err := uc.List(context.Background(), sellerA, usecase.VendorOrderListInput{Page: 2, Limit: 10, Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(11), out.Total)
	orders.AssertExpectations(t)
}

func TestVendorOrderUsecase_List_EmptyIsNotNil(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("ListBySellerID", mock.Anything, sellerA, mock.Anything).Return(nil, int64(0), nil)

	uc := usecase.NewVendorOrderUsecase(orders, new(AuditRepoMock), fixedClock{testNow})

	out, err := uc.List(context.Background(), sellerA, usecase.VendorOrderListInput{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.NotNil(t, out.Items)
}

func TestVendorOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	uc := usecase.NewVendorOrderUsecase(new(OrderRepoMock), new(AuditRepoMock), fixedClock{testNow})

	_, err := uc.UpdateStatus(context.Background(), sellerA, "o1", usecase.UpdateOrderStatusInput{Status: "PAID"})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestVendorOrderUsecase_UpdateStatus_NotFound(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("FindByID", mock.Anything, "o1").Return(model.Order{}, repo.ErrNotFound)

	uc := usecase.NewVendorOrderUsecase(orders, new(AuditRepoMock), fixedClock{testNow})

	_, err := uc.UpdateStatus(context.Background(), sellerA, "o1", usecase.UpdateOrderStatusInput{Status: "confirmed"})
	assertStatus(t, err, http.StatusNotFound)
}

func TestVendorOrderUsecase_UpdateStatus_OtherSellersOrderIsHidden(t *testing.T) {
	orders := new(OrderRepoMock)
	orders.On("FindByID", mock.Anything, "o1").Return(orderWithSellers("o1", model.OrderStatusPending, sellerB), nil)

	uc := usecase.NewVendorOrderUsecase(orders, new(AuditRepoMock), fixedClock{testNow})

	_, err := uc.UpdateStatus(context.Background(), sellerA, "o1", usecase.UpdateOrderStatusInput{Status: "confirmed"})
	assertStatus(t, err, http.StatusNotFound)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestVendorOrderUsecase_UpdateStatus_SameStatus_NoOp(t *testing.T) {
	orders := new(OrderRepoMock)
	audit := new(AuditRepoMock)
	orders.On("FindByID", mock.Anything, "o1").Return(orderWithSellers("o1", model.OrderStatusShipped, sellerA), nil)

	uc := usecase.NewVendorOrderUsecase(orders, audit, fixedClock{testNow})

	o, err := uc.UpdateStatus(context.Background(), sellerA, "o1", usecase.UpdateOrderStatusInput{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, o.Status)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVendorOrderUsecase_UpdateStatus_TerminalStates(t *testing.T) {
	for _, st := range []model.OrderStatus{model.OrderStatusCanceled, model.OrderStatusDelivered} {
		t.Run(string(st), func(t *testing.T) {
			orders := new(OrderRepoMock)
			orders.On("FindByID", mock.Anything, "o1").Return(orderWithSellers("o1", st, sellerA), nil)

			uc := usecase.NewVendorOrderUsecase(orders, new(AuditRepoMock), fixedClock{testNow})

			_, err := uc.UpdateStatus(context.Background(), sellerA, "o1", usecase.UpdateOrderStatusInput{Status: "confirmed"})
			assertStatus(t, err, http.StatusConflict)
			assertErrContains(t, err, "cannot change "+string(st))
		})
	}
}

func TestVendorOrderUsecase_UpdateStatus_Success_WritesAudit(t *testing.T) {
	orders := new(OrderRepoMock)
	audit := new(AuditRepoMock)
	orders.On("FindByID", mock.Anything, "o1").Return(orderWithSellers("o1", model.OrderStatusPending, sellerB, sellerA), nil)
	orders.On("UpdateStatus", mock.Anything, "o1", model.OrderStatusConfirmed).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == sellerA &&
			l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceID == "o1" &&
			l.BeforeJSON == `{"status":"pending"}` &&
			l.AfterJSON == `{"status":"confirmed"}` &&
			l.CreatedAt.Equal(testNow)
	})).Return(nil)

	uc := usecase.NewVendorOrderUsecase(orders, audit, fixedClock{testNow})

	o, err := uc.UpdateStatus(context.Background(), sellerA, "o1", usecase.UpdateOrderStatusInput{Status: " Confirmed "})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, o.Status)
	orders.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestVendorOrderUsecase_UpdateStatus_AuditFailureDoesNotFail(t *testing.T) {
	orders := new(OrderRepoMock)
	audit := new(AuditRepoMock)
	orders.On("FindByID", mock.Anything, "o1").Return(orderWithSellers("o1", model.OrderStatusPending, sellerA), nil)
	orders.On("UpdateStatus", mock.Anything, "o1", model.OrderStatusCanceled).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	uc := usecase.NewVendorOrderUsecase(orders, audit, fixedClock{testNow})

	o, err := uc.UpdateStatus(context.Background(), sellerA, "o1", usecase.UpdateOrderStatusInput{Status: "canceled"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, o.Status)
}
