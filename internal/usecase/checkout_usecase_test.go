package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/djjoel12/talksellr/internal/checkout"
	"github.com/djjoel12/talksellr/internal/domain/model"
	"github.com/djjoel12/talksellr/internal/notify"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func placedOrder() model.Order {
	return model.Order{
		ID:           "order-1",
		CustomerName: "Awa",
		Phone:        "0700000000",
		Address:      "Cocody",
		ShopID:       "shop-1",
		SellerID:     sellerA,
		Currency:     "EUR",
		GrandTotal:   decimal.NewFromInt(20),
		Lines: []model.OrderLine{
			{ProductID: robeID, Name: "Robe", UnitPrice: decimal.NewFromInt(10), Currency: "EUR", Quantity: 2, LineTotal: decimal.NewFromInt(20), SellerID: sellerA, ShopID: "shop-1"},
		},
	}
}

func TestCheckoutUsecase_PlaceOrder_UsesShopPhone(t *testing.T) {
	cons := new(ConsolidatorMock)
	shops := new(ShopRepoMock)
	scope := newScope(t)

	cons.On("Consolidate", mock.Anything, mock.Anything, mock.MatchedBy(func(in checkout.Input) bool {
		return in.SessionID == scope.ID() && in.IdempotencyKey == "k1" && in.CustomerName == "Awa"
	})).Return(checkout.Result{Order: placedOrder()}, nil)
	shops.On("FindByID", mock.Anything, "shop-1").Return(model.Shop{ID: "shop-1", Phone: "+225 01 02 03 04"}, nil)

	uc := usecase.NewCheckoutUsecase(cons, shops, notify.NewComposer("wa.me"), "33600000000")

	out, err := uc.PlaceOrder(context.Background(), scope, usecase.PlaceOrderInput{
		CustomerName: "Awa", Phone: "0700000000", Address: "Cocody", IdempotencyKey: "k1",
	})
	require.NoError(t, err)
	assert.Equal(t, "+225 01 02 03 04", out.Destination)
	assert.True(t, strings.HasPrefix(out.MessageURL, "https://wa.me/22501020304?text="), out.MessageURL)
	assert.Contains(t, out.Message, "Robe x2 -> 20 EUR")
	assert.NotNil(t, out.Dropped)
	cons.AssertExpectations(t)
}

func TestCheckoutUsecase_PlaceOrder_FallsBackToMerchantPhone(t *testing.T) {
	cons := new(ConsolidatorMock)
	shops := new(ShopRepoMock)
	cons.On("Consolidate", mock.Anything, mock.Anything, mock.Anything).
		Return(checkout.Result{Order: placedOrder(), Dropped: []string{goneID}, Replayed: true}, nil)
	shops.On("FindByID", mock.Anything, "shop-1").Return(model.Shop{}, repo.ErrNotFound)

	uc := usecase.NewCheckoutUsecase(cons, shops, notify.NewComposer("wa.me"), "33600000000")

	out, err := uc.PlaceOrder(context.Background(), newScope(t), usecase.PlaceOrderInput{CustomerName: "Awa"})
	require.NoError(t, err)
	assert.Equal(t, "33600000000", out.Destination)
	assert.Equal(t, []string{goneID}, out.Dropped)
	assert.True(t, out.Replayed)
}

func TestCheckoutUsecase_PlaceOrder_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &checkout.ValidationError{Field: "phone", Reason: "invalid phone number"}, http.StatusBadRequest},
		{"empty", &checkout.EmptyCartError{}, http.StatusBadRequest},
		{"no valid", &checkout.NoValidProductsError{Dropped: []string{goneID}}, http.StatusUnprocessableEntity},
		{"persistence", &checkout.PersistenceError{Op: "insert order", Err: errors.New("timeout")}, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cons := new(ConsolidatorMock)
			cons.On("Consolidate", mock.Anything, mock.Anything, mock.Anything).Return(checkout.Result{}, tc.err)

			uc := usecase.NewCheckoutUsecase(cons, new(ShopRepoMock), notify.NewComposer(""), "")

			_, err := uc.PlaceOrder(context.Background(), newScope(t), usecase.PlaceOrderInput{})
			assertStatus(t, err, tc.want)
		})
	}
}
