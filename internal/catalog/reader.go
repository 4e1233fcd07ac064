package catalog

import (
	"context"
	"fmt"

	"github.com/djjoel12/talksellr/internal/domain/model"
)

// 商品のまとめ取得だけを使う
type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// 商品をスナップショットとして読む
type Reader struct {
	products ProductFinder
}

// DI
func NewReader(products ProductFinder) *Reader {
	return &Reader{products: products}
}

// 存在する商品だけ返す。知らないIDは黙って捨てる
func (r *Reader) FindByIDs(ctx context.Context, ids []string) ([]model.ProductSnapshot, error) {
	distinct := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	//空ならクエリしない
	if len(distinct) == 0 {
		return []model.ProductSnapshot{}, nil
	}

	products, err := r.products.FindByIDs(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	out := make([]model.ProductSnapshot, 0, len(products))
	for _, p := range products {
		out = append(out, p.Snapshot())
	}
	return out, nil
}
