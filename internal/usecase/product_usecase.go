package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	products  repo.ProductRepository
	shops     repo.ShopRepository
	tx        repo.TransactionManager
	validator *validator.Validator
	idGen     IDGenerator
	clock     Clock
}

func NewProductUsecase(
	products repo.ProductRepository,
	shops repo.ShopRepository,
	tx repo.TransactionManager,
	v *validator.Validator,
	idGen IDGenerator,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		products:  products,
		shops:     shops,
		tx:        tx,
		validator: v,
		idGen:     idGen,
		clock:     clock,
	}
}

type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	ShopID   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 販売者が送ってくる商品の入力
type ProductInput struct {
	Name        string          `json:"name" validate:"required,min=2,max=255"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" validate:"omitempty,min=2,max=10,alpha"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url,max=500"`
	Category    string          `json:"category" validate:"max=100"`
	Stock       int64           `json:"stock" validate:"gte=0"`
	SKU         string          `json:"sku" validate:"max=100"`
}

// 公開の商品一覧
func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if err := checkPage(in.Page, in.Limit); err != nil {
		return ProductListOutput{}, err
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.products.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		ShopID:   in.ShopID,
		Category: in.Category,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// 商品詳細
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID string) (model.Product, error) {
	if uuid.Validate(productID) != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 自分の商品一覧
func (u *ProductUsecase) ListMyProducts(ctx context.Context, sellerID string, page, limit int) (ProductListOutput, error) {
	if sellerID == "" {
		return ProductListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := checkPage(page, limit); err != nil {
		return ProductListOutput{}, err
	}

	items, total, err := u.products.List(ctx, repo.ProductListQuery{Page: page, Limit: limit, SellerID: sellerID})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ProductListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// 商品作成。先にショップが必要
func (u *ProductUsecase) CreateProduct(ctx context.Context, sellerID string, in ProductInput) (model.Product, error) {
	if sellerID == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	price, err := u.validateInput(&in)
	if err != nil {
		return model.Product{}, err
	}

	shop, err := u.shops.FindByOwnerID(ctx, sellerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusConflict, "create your shop first")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	p := model.Product{
		ID:          u.idGen.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Currency:    in.Currency,
		ImageURL:    in.ImageURL,
		ShopID:      shop.ID,
		SellerID:    sellerID,
		Category:    in.Category,
		Stock:       in.Stock,
		SKU:         in.SKU,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// 商品更新。持ち主だけ
func (u *ProductUsecase) UpdateProduct(ctx context.Context, sellerID string, productID string, in ProductInput) (model.Product, error) {
	if sellerID == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if uuid.Validate(productID) != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	price, err := u.validateInput(&in)
	if err != nil {
		return model.Product{}, err
	}

	p, err := u.ownedProduct(ctx, u.products, sellerID, productID)
	if err != nil {
		return model.Product{}, err
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = price
	p.Currency = in.Currency
	p.ImageURL = in.ImageURL
	p.Category = in.Category
	p.Stock = in.Stock
	p.SKU = in.SKU
	p.UpdatedAt = u.clock.Now()

	if err := u.products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 商品削除（論理削除）と監査ログを同じTxで
func (u *ProductUsecase) DeleteProduct(ctx context.Context, sellerID string, productID string) error {
	if sellerID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if uuid.Validate(productID) != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := u.ownedProduct(ctx, r.Products(), sellerID, productID)
		if err != nil {
			return err
		}

		if err := r.Products().SoftDelete(ctx, p.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  sellerID,
			Action:       model.AuditActionDeleteProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   p.ID,
			BeforeJSON:   `{"name":` + quoteJSON(p.Name) + `}`,
			AfterJSON:    `{"deleted":true}`,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *ProductUsecase) validateInput(in *ProductInput) (decimal.Decimal, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := u.validator.Validate(in); err != nil {
		return decimal.Decimal{}, badRequest(err)
	}

	price := in.Price
	if !price.IsPositive() {
		return decimal.Decimal{}, NewHTTPError(http.StatusBadRequest, "price: must be > 0")
	}
	if in.Currency == "" {
		in.Currency = model.DefaultCurrency
	}
	return price.Round(2), nil
}

// 他人の商品は403
func (u *ProductUsecase) ownedProduct(ctx context.Context, products repo.ProductRepository, sellerID, productID string) (model.Product, error) {
	p, err := products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.SellerID != sellerID {
		return model.Product{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return p, nil
}
