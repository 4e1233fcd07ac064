package repository

import (
	"context"

	"github.com/djjoel12/talksellr/internal/domain/model"
)

type OrderListQuery struct {
	Page   int
	Limit  int
	Status string
}

// 注文ストア。Postgres(GORM)とMongoの両方が実装する
type OrderRepository interface {
	// ID・作成時刻はストアが決める。同じ(session, key)があればErrDuplicate
	Create(ctx context.Context, order model.Order) (model.Order, error)
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, sessionID string, key string) (model.Order, bool, error)
	// 販売者の商品を含む注文。新しい順
	ListBySellerID(ctx context.Context, sellerID string, q OrderListQuery) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
}
