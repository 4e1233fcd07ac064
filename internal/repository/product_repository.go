package repository

import (
	"context"

	"github.com/djjoel12/talksellr/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	ShopID   string
	SellerID string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	// 存在するものだけ返す。見つからないIDは無視
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id string) error
}
