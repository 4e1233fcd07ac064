package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultCurrency = "EUR"

type Product struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Currency    string          `gorm:"type:varchar(10);not null;default:'EUR'" json:"currency"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	ShopID      string          `gorm:"type:varchar(36);not null;index" json:"shop_id"`
	SellerID    string          `gorm:"type:varchar(36);not null;index" json:"seller_id"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	Stock       int64           `gorm:"not null;default:0" json:"stock"`
	SKU         string          `gorm:"column:sku;type:varchar(100)" json:"sku"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// 注文確定時に使う商品の写し
type ProductSnapshot struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
	SellerID  string          `json:"seller_id"`
	ShopID    string          `json:"shop_id"`
}

func (p Product) Snapshot() ProductSnapshot {
	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return ProductSnapshot{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Currency:  currency,
		SellerID:  p.SellerID,
		ShopID:    p.ShopID,
	}
}
