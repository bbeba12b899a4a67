package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oakmart/storefront-backend/internal/cart"
	"github.com/oakmart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/oakmart/storefront-backend/pkg/errors"
	"github.com/oakmart/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service turns a session's cart into a placed order.
type Service interface {
	Place(ctx context.Context, sessionID string, input PlaceInput) (*OrderDTO, error)
}

// PlaceInput is the validated checkout payload. Totals are never taken from
// the client; they are recomputed from the stored cart.
type PlaceInput struct {
	CustomerName  string
	CustomerEmail string
	ShippingLine  *string
}

// OrderDTO is the order payload returned after placement.
type OrderDTO struct {
	ID            uuid.UUID      `json:"id"`
	Status        string         `json:"status"`
	ItemCount     int            `json:"item_count"`
	SubtotalCents int64          `json:"subtotal_cents"`
	Items         []OrderItemDTO `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
}

// OrderItemDTO is one denormalized order line.
type OrderItemDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Unit           *string   `json:"unit,omitempty"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Qty            int       `json:"qty"`
	LineTotalCents int64     `json:"line_total_cents"`
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	DB     *gorm.DB
	Carts  cart.Service
	Logger *logger.Logger
}

type service struct {
	db    *gorm.DB
	carts cart.Service
	logg  *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "database handle is required")
	}
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	return &service{db: params.DB, carts: params.Carts, logg: params.Logger}, nil
}

// Place snapshots the session's cart into an order, commits it, then clears
// the cart. The clear fires the usual change cue, so mounted observers see
// the emptied cart as soon as checkout lands.
func (s *service) Place(ctx context.Context, sessionID string, input PlaceInput) (*OrderDTO, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if input.CustomerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}

	lines, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := &models.Order{
		ID:            uuid.New(),
		SessionID:     sessionID,
		Status:        models.OrderStatusPlaced,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		ShippingLine:  input.ShippingLine,
	}
	for _, line := range lines {
		lineTotal := int64(line.Qty) * int64(line.Product.PriceCents)
		order.ItemCount += line.Qty
		order.SubtotalCents += lineTotal
		order.Items = append(order.Items, models.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      line.Product.ID,
			ProductName:    line.Product.Name,
			Unit:           line.Product.Unit,
			UnitPriceCents: line.Product.PriceCents,
			Qty:            line.Qty,
			LineTotalCents: lineTotal,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	// the order is committed; a failed clear leaves a stale cart, not a
	// lost order
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "clearing cart after checkout", err)
		}
	}

	return toOrderDTO(order), nil
}

func toOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:            order.ID,
		Status:        order.Status,
		ItemCount:     order.ItemCount,
		SubtotalCents: order.SubtotalCents,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Unit:           item.Unit,
			UnitPriceCents: item.UnitPriceCents,
			Qty:            item.Qty,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return dto
}
