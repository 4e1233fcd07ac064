package model

import "time"

type ShopStatus string

const (
	ShopStatusActive    ShopStatus = "active"
	ShopStatusSuspended ShopStatus = "suspended"
	ShopStatusClosed    ShopStatus = "closed"
)

// ショップの住所
type ShopAddress struct {
	Street     string `gorm:"type:varchar(255)" json:"street"`
	City       string `gorm:"type:varchar(100)" json:"city"`
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code"`
	Country    string `gorm:"type:varchar(100)" json:"country"`
}

// 販売者のショップ。販売者1人につき1つ
type Shop struct {
	ID          string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`
	Slug        string      `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Description string      `gorm:"type:text" json:"description"`
	LogoURL     string      `gorm:"type:varchar(500)" json:"logo_url"`
	OwnerID     string      `gorm:"type:varchar(36);uniqueIndex;not null" json:"owner_id"`
	Address     ShopAddress `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Phone       string      `gorm:"type:varchar(30)" json:"phone"`
	Status      ShopStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
