package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/validator"
)

// 公開ページに出す商品数
const shopPageProducts = 50

type ShopUsecase struct {
	shops     repo.ShopRepository
	products  repo.ProductRepository
	tx        repo.TransactionManager
	validator *validator.Validator
	idGen     IDGenerator
	clock     Clock
}

func NewShopUsecase(
	shops repo.ShopRepository,
	products repo.ProductRepository,
	tx repo.TransactionManager,
	v *validator.Validator,
	idGen IDGenerator,
	clock Clock,
) *ShopUsecase {
	return &ShopUsecase{
		shops:     shops,
		products:  products,
		tx:        tx,
		validator: v,
		idGen:     idGen,
		clock:     clock,
	}
}

type ShopAddressInput struct {
	Street     string `json:"street" validate:"max=255"`
	City       string `json:"city" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"max=100"`
}

type ShopInput struct {
	Name        string           `json:"name" validate:"required,min=3,max=100"`
	Description string           `json:"description" validate:"max=1000"`
	LogoURL     string           `json:"logo_url" validate:"omitempty,url,max=500"`
	Phone       string           `json:"phone" validate:"omitempty,phone"`
	Address     ShopAddressInput `json:"address"`
}

// 公開ページ（ショップと商品）
type ShopPageOutput struct {
	Shop     model.Shop      `json:"shop"`
	Products []model.Product `json:"products"`
}

// ショップ作成。1人1つまで
func (u *ShopUsecase) CreateShop(ctx context.Context, ownerID string, in ShopInput) (model.Shop, error) {
	if ownerID == "" {
		return model.Shop{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validate(&in); err != nil {
		return model.Shop{}, err
	}

	var created model.Shop
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		_, err := r.Shops().FindByOwnerID(ctx, ownerID)
		if err == nil {
			return NewHTTPError(http.StatusConflict, "shop already exists")
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		slug, err := uniqueSlug(ctx, r.Shops(), in.Name)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := u.clock.Now()
		s := model.Shop{
			ID:          u.idGen.NewID(),
			Name:        in.Name,
			Slug:        slug,
			Description: in.Description,
			LogoURL:     in.LogoURL,
			OwnerID:     ownerID,
			Address:     toShopAddress(in.Address),
			Phone:       in.Phone,
			Status:      model.ShopStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		created, err = r.Shops().Create(ctx, s)
		if errors.Is(err, repo.ErrDuplicate) {
			// 同時作成でowner/slugがぶつかった
			return NewHTTPError(http.StatusConflict, "shop already exists")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return model.Shop{}, err
	}
	return created, nil
}

// 自分のショップを更新。スラッグは変えない
func (u *ShopUsecase) UpdateMyShop(ctx context.Context, ownerID string, in ShopInput) (model.Shop, error) {
	if ownerID == "" {
		return model.Shop{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validate(&in); err != nil {
		return model.Shop{}, err
	}

	s, err := u.GetMyShop(ctx, ownerID)
	if err != nil {
		return model.Shop{}, err
	}

	s.Name = in.Name
	s.Description = in.Description
	s.LogoURL = in.LogoURL
	s.Phone = in.Phone
	s.Address = toShopAddress(in.Address)
	s.UpdatedAt = u.clock.Now()

	if err := u.shops.Update(ctx, s); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Shop{}, NewHTTPError(http.StatusNotFound, "shop not found")
		}
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *ShopUsecase) GetMyShop(ctx context.Context, ownerID string) (model.Shop, error) {
	if ownerID == "" {
		return model.Shop{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s, err := u.shops.FindByOwnerID(ctx, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Shop{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

// 公開ページ。activeなショップだけ
func (u *ShopUsecase) GetShopPage(ctx context.Context, slug string) (ShopPageOutput, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return ShopPageOutput{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	s, err := u.shops.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return ShopPageOutput{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return ShopPageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.Status != model.ShopStatusActive {
		return ShopPageOutput{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}

	products, _, err := u.products.List(ctx, repo.ProductListQuery{Page: 1, Limit: shopPageProducts, ShopID: s.ID})
	if err != nil {
		return ShopPageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ShopPageOutput{Shop: s, Products: products}, nil
}

func (u *ShopUsecase) validate(in *ShopInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := u.validator.Validate(in); err != nil {
		return badRequest(err)
	}
	return nil
}

func toShopAddress(a ShopAddressInput) model.ShopAddress {
	return model.ShopAddress{
		Street:     strings.TrimSpace(a.Street),
		City:       strings.TrimSpace(a.City),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}
