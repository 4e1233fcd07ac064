package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/djjoel12/talksellr/internal/cart"
	"github.com/djjoel12/talksellr/internal/checkout"
	"github.com/djjoel12/talksellr/internal/domain/model"
	"github.com/djjoel12/talksellr/internal/logger"
	"github.com/djjoel12/talksellr/internal/notify"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/session"

	"go.uber.org/zap"
)

type OrderConsolidator interface {
	Consolidate(ctx context.Context, c checkout.Cart, in checkout.Input) (checkout.Result, error)
}

// POST /checkout の業務ロジック
type CheckoutUsecase struct {
	consolidator  OrderConsolidator
	shops         repo.ShopRepository
	composer      *notify.Composer
	merchantPhone string
}

func NewCheckoutUsecase(
	consolidator OrderConsolidator,
	shops repo.ShopRepository,
	composer *notify.Composer,
	merchantPhone string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		consolidator:  consolidator,
		shops:         shops,
		composer:      composer,
		merchantPhone: merchantPhone,
	}
}

type PlaceOrderInput struct {
	CustomerName   string `json:"customer_name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	IdempotencyKey string `json:"-"`
}

type PlaceOrderOutput struct {
	Order       model.Order `json:"order"`
	Message     string      `json:"message"`
	MessageURL  string      `json:"message_url"`
	Destination string      `json:"destination"`
	Dropped     []string    `json:"dropped_product_ids"`
	Replayed    bool        `json:"replayed"`
}

// 注文確定。同じ冪等キーなら最初の注文を返す
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, scope session.Scope, in PlaceOrderInput) (PlaceOrderOutput, error) {
	res, err := u.consolidator.Consolidate(ctx, cart.New(scope), checkout.Input{
		SessionID:      scope.ID(),
		CustomerName:   in.CustomerName,
		Phone:          in.Phone,
		Address:        in.Address,
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		return PlaceOrderOutput{}, checkoutError(err)
	}

	dest := u.destinationPhone(ctx, res.Order.ShopID)
	text := u.composer.Compose(res.Order)

	dropped := res.Dropped
	if dropped == nil {
		dropped = []string{}
	}
	return PlaceOrderOutput{
		Order:       res.Order,
		Message:     text,
		MessageURL:  u.composer.DeepLink(text, dest),
		Destination: dest,
		Dropped:     dropped,
		Replayed:    res.Replayed,
	}, nil
}

// 先頭明細のショップの電話番号。無ければMERCHANT_PHONE
func (u *CheckoutUsecase) destinationPhone(ctx context.Context, shopID string) string {
	if shopID == "" {
		return u.merchantPhone
	}
	s, err := u.shops.FindByID(ctx, shopID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			logger.FromContext(ctx).Warn("failed to load shop for order routing",
				zap.String("shop_id", shopID),
				zap.Error(err),
			)
		}
		return u.merchantPhone
	}
	if s.Phone == "" {
		return u.merchantPhone
	}
	return s.Phone
}

func checkoutError(err error) error {
	var ve *checkout.ValidationError
	if errors.As(err, &ve) {
		return NewHTTPError(http.StatusBadRequest, ve.Error())
	}
	if errors.Is(err, checkout.ErrEmptyCart) {
		return NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	if errors.Is(err, checkout.ErrNoValidProducts) {
		return NewHTTPError(http.StatusUnprocessableEntity, "no valid products in cart")
	}
	if errors.Is(err, checkout.ErrPersistence) {
		return NewHTTPError(http.StatusServiceUnavailable, "order store unavailable, please retry")
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
