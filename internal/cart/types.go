package cart

import (
	"github.com/google/uuid"
)

// ProductSnapshot is the denormalized product captured at add time. Catalog
// edits after that moment never reach an existing line; a price change only
// affects future adds.
type ProductSnapshot struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Unit       *string   `json:"unit,omitempty"`
	Category   string    `json:"category,omitempty"`
	ImageURL   *string   `json:"image,omitempty"`
}

// LineItem is one cart line. Its identity is the snapshot's product id;
// there is no separate line id, so a product can appear at most once.
type LineItem struct {
	Product ProductSnapshot `json:"product"`
	Qty     int             `json:"qty"`
}

// Summary is the aggregate the badge and sticky-bar surfaces render.
type Summary struct {
	Count      int   `json:"count"`
	TotalCents int64 `json:"total_cents"`
}

// Topic returns the change-cue topic for one session's cart.
func Topic(sessionID string) string {
	return "cart:" + sessionID
}
