package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// 終端（これ以上変更できない）
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCanceled || s == OrderStatusDelivered
}

// 注文。SellerID/ShopIDは送信先（先頭明細の販売者）
type Order struct {
	ID             string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerName   string          `gorm:"type:varchar(100);not null" json:"customer_name"`
	Phone          string          `gorm:"type:varchar(30);not null" json:"phone"`
	Address        string          `gorm:"type:varchar(500);not null" json:"address"`
	Lines          []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"grand_total"`
	Currency       string          `gorm:"type:varchar(10);not null" json:"currency"`
	SellerID       string          `gorm:"type:varchar(36);not null;index" json:"seller_id"`
	ShopID         string          `gorm:"type:varchar(36);not null;index" json:"shop_id"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	SessionID      string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_session_idem" json:"-"`
	IdempotencyKey *string         `gorm:"type:varchar(255);uniqueIndex:idx_orders_session_idem" json:"-"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

// 注文明細。作成時の値で固定し、後から商品を見に行かない
type OrderLine struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"-"`
	Position  int             `gorm:"not null" json:"-"`
	ProductID string          `gorm:"type:varchar(36);not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Currency  string          `gorm:"type:varchar(10);not null" json:"currency"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	SellerID  string          `gorm:"type:varchar(36);not null;index" json:"seller_id"`
	ShopID    string          `gorm:"type:varchar(36);not null" json:"shop_id"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_total"`
}

// 販売者の商品が含まれているか
func (o Order) HasSeller(sellerID string) bool {
	for _, l := range o.Lines {
		if l.SellerID == sellerID {
			return true
		}
	}
	return false
}
