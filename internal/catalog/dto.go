package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/internal/cart"
	"github.com/oakmart/storefront-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients.
type ProductDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Unit       *string   `json:"unit,omitempty"`
	Category   string    `json:"category"`
	ImageURL   *string   `json:"image,omitempty"`
	Rating     float64   `json:"rating"`
	IsActive   bool      `json:"is_active"`
	IsNew      bool      `json:"is_new"`
	IsFeatured bool      `json:"is_featured"`
	IsDeal     bool      `json:"is_deal"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductListResult wraps one page of catalog listings.
type ProductListResult struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
}

func toProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:         product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Unit:       product.Unit,
		Category:   product.Category,
		ImageURL:   product.ImageURL,
		Rating:     DisplayRating(product.ID),
		IsActive:   product.IsActive,
		IsNew:      product.IsNew,
		IsFeatured: product.IsFeatured,
		IsDeal:     product.IsDeal,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

// Snapshot converts the listing into the denormalized form carts store.
func (p *ProductDTO) Snapshot() cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ID:         p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Unit:       p.Unit,
		Category:   p.Category,
		ImageURL:   p.ImageURL,
	}
}
