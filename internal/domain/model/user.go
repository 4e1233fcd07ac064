package model

import "time"

type Role string

const (
	RoleClient Role = "client"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'client'" json:"role"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
