package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/djjoel12/talksellr/internal/cart"
	"github.com/djjoel12/talksellr/internal/domain/model"
	"github.com/djjoel12/talksellr/internal/logger"
	"github.com/djjoel12/talksellr/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// カート表示用の商品取得
type CartCatalog interface {
	FindByIDs(ctx context.Context, ids []string) ([]model.ProductSnapshot, error)
}

// /cart の業務ロジック。カートはセッションに入っている
type CartUsecase struct {
	catalog CartCatalog
}

func NewCartUsecase(catalog CartCatalog) *CartUsecase {
	return &CartUsecase{catalog: catalog}
}

// 1行分。商品が消えていたらAvailable=false
type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Available bool            `json:"available"`
}

type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	Total    decimal.Decimal    `json:"total"`
	Currency string             `json:"currency"`
	Count    int64              `json:"count"`
}

// Quantityは省略時のみ1。明示の0は不正
type AddCartInput struct {
	ProductID string `json:"product_id"`
	Quantity  *int64 `json:"quantity"`
}

func (u *CartUsecase) GetCart(ctx context.Context, scope session.Scope) (CartResponse, error) {
	lines, err := cart.New(scope).ListLines(ctx)
	if err != nil {
		return CartResponse{}, sessionError(ctx, err)
	}
	return u.buildCartResponse(ctx, lines)
}

// 追加（同じ商品は数量加算）。数量省略時は1
func (u *CartUsecase) AddToCart(ctx context.Context, scope session.Scope, in AddCartInput) (CartResponse, error) {
	quantity := int64(1)
	if in.Quantity != nil {
		quantity = *in.Quantity
	}

	store := cart.New(scope)
	if err := store.AddLine(ctx, in.ProductID, quantity); err != nil {
		return CartResponse{}, sessionError(ctx, err)
	}
	return u.GetCart(ctx, scope)
}

func (u *CartUsecase) RemoveFromCart(ctx context.Context, scope session.Scope, productID string) (CartResponse, error) {
	store := cart.New(scope)
	if err := store.RemoveLine(ctx, productID); err != nil {
		return CartResponse{}, sessionError(ctx, err)
	}
	return u.GetCart(ctx, scope)
}

func (u *CartUsecase) buildCartResponse(ctx context.Context, lines []model.CartLine) (CartResponse, error) {
	out := CartResponse{Items: []CartItemResponse{}, Total: decimal.Zero}
	if len(lines) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	snaps, err := u.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	byID := make(map[string]model.ProductSnapshot, len(snaps))
	for _, s := range snaps {
		byID[s.ID] = s
	}

	for _, l := range lines {
		item := CartItemResponse{ProductID: l.ProductID, Quantity: l.Quantity, Price: decimal.Zero, LineTotal: decimal.Zero}
		out.Count += l.Quantity

		s, ok := byID[l.ProductID]
		if ok {
			item.Name = s.Name
			item.Price = s.UnitPrice
			item.Currency = s.Currency
			item.LineTotal = s.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
			item.Available = true

			out.Total = out.Total.Add(item.LineTotal)
			if out.Currency == "" {
				out.Currency = s.Currency
			}
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// カートの入力エラーは400、セッションストアの障害は503
func sessionError(ctx context.Context, err error) error {
	var ve *cart.ValidationError
	if errors.As(err, &ve) {
		return NewHTTPError(http.StatusBadRequest, ve.Error())
	}
	logger.FromContext(ctx).Error("session store error", zap.Error(err))
	return NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
}
