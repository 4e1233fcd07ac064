package repository

import (
	"context"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"

	"gorm.io/gorm"
)

type ShopGormRepository struct {
	db *gorm.DB
}

// DI
func NewShopGormRepository(db *gorm.DB) *ShopGormRepository {
	return &ShopGormRepository{db: db}
}

func (r *ShopGormRepository) Create(ctx context.Context, s model.Shop) (model.Shop, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Shop{}, mapErr(err)
	}
	return s, nil
}

// スラッグとオーナーは変更しない
func (r *ShopGormRepository) Update(ctx context.Context, s model.Shop) error {
	res := r.db.WithContext(ctx).Model(&model.Shop{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":                s.Name,
		"description":         s.Description,
		"logo_url":            s.LogoURL,
		"phone":               s.Phone,
		"address_street":      s.Address.Street,
		"address_city":        s.Address.City,
		"address_postal_code": s.Address.PostalCode,
		"address_country":     s.Address.Country,
	})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ShopGormRepository) FindByID(ctx context.Context, id string) (model.Shop, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *ShopGormRepository) FindByOwnerID(ctx context.Context, ownerID string) (model.Shop, error) {
	return r.findOne(ctx, "owner_id = ?", ownerID)
}

func (r *ShopGormRepository) FindBySlug(ctx context.Context, slug string) (model.Shop, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *ShopGormRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Shop{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ShopGormRepository) findOne(ctx context.Context, cond string, arg string) (model.Shop, error) {
	var s model.Shop
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&s).Error; err != nil {
		return model.Shop{}, mapErr(err)
	}
	return s, nil
}
