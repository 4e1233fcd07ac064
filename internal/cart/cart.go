package cart

import (
	"context"
	"fmt"

	"github.com/djjoel12/talksellr/internal/domain/model"
	"github.com/djjoel12/talksellr/internal/session"

	"github.com/google/uuid"
)

// セッション内のキー
const sessionKey = "cart"

// 1行あたりの数量上限
const MaxLineQuantity int64 = 10000

// 入力が不正
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// セッションに紐づくカート。DBには触らない
type Store struct {
	scope session.Scope
}

// DI
func New(scope session.Scope) *Store {
	return &Store{scope: scope}
}

// 同じ商品があれば数量を足す。無ければ末尾に追加
// 商品の存在確認はしない（注文確定時に見る）
func (s *Store) AddLine(ctx context.Context, productID string, quantity int64) error {
	id, ok := canonicalID(productID)
	if !ok {
		return &ValidationError{Field: "product_id", Reason: "must be a valid id"}
	}
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if quantity > MaxLineQuantity {
		return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be at most %d", MaxLineQuantity)}
	}

	lines, err := s.ListLines(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == id {
			// 合計も上限まで。超えたら何も変えない
			if lines[i].Quantity > MaxLineQuantity-quantity {
				return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("line total must be at most %d", MaxLineQuantity)}
			}
			lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, model.CartLine{ProductID: id, Quantity: quantity})
	}

	return s.scope.Set(ctx, sessionKey, lines)
}

// 無ければ何もしない
func (s *Store) RemoveLine(ctx context.Context, productID string) error {
	id, ok := canonicalID(productID)
	if !ok {
		return nil
	}

	lines, err := s.ListLines(ctx)
	if err != nil {
		return err
	}

	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(lines) {
		return nil
	}
	if len(kept) == 0 {
		return s.scope.Delete(ctx, sessionKey)
	}
	return s.scope.Set(ctx, sessionKey, kept)
}

// 追加順。空なら空スライス
func (s *Store) ListLines(ctx context.Context) ([]model.CartLine, error) {
	var lines []model.CartLine
	ok, err := s.scope.Get(ctx, sessionKey, &lines)
	if err != nil {
		return nil, err
	}
	if !ok || lines == nil {
		return []model.CartLine{}, nil
	}
	return lines, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.scope.Delete(ctx, sessionKey)
}

// 大文字や{}、urn:uuid:付きも同じ商品として小文字のハイフン区切りにそろえる
func canonicalID(productID string) (string, bool) {
	u, err := uuid.Parse(productID)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
