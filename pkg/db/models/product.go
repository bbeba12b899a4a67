package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the canonical catalog listing.
type Product struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	Unit       *string   `gorm:"column:unit"`
	Category   string    `gorm:"column:category;not null"`
	ImageURL   *string   `gorm:"column:image_url"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	IsNew      bool      `gorm:"column:is_new;not null;default:false"`
	IsFeatured bool      `gorm:"column:is_featured;not null;default:false"`
	IsDeal     bool      `gorm:"column:is_deal;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table naming explicit.
func (Product) TableName() string { return "products" }
