package repository

import (
	"context"

	"github.com/djjoel12/talksellr/internal/domain/model"
)

type ShopRepository interface {
	// 同じowner/slugがあればErrDuplicate
	Create(ctx context.Context, s model.Shop) (model.Shop, error)
	Update(ctx context.Context, s model.Shop) error
	FindByID(ctx context.Context, id string) (model.Shop, error)
	FindByOwnerID(ctx context.Context, ownerID string) (model.Shop, error)
	FindBySlug(ctx context.Context, slug string) (model.Shop, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}
