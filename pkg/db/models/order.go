package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPlaced = "placed"
)

// Order is the record written at checkout. Line items are denormalized from
// the cart snapshot; catalog edits after placement do not touch them.
type Order struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID     string      `gorm:"column:session_id;not null;index"`
	Status        string      `gorm:"column:status;not null;default:placed"`
	ItemCount     int         `gorm:"column:item_count;not null"`
	SubtotalCents int64       `gorm:"column:subtotal_cents;not null"`
	CustomerName  string      `gorm:"column:customer_name;not null"`
	CustomerEmail string      `gorm:"column:customer_email;not null"`
	ShippingLine  *string     `gorm:"column:shipping_line"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the table naming explicit.
func (Order) TableName() string { return "orders" }

// OrderItem is one denormalized order line.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string    `gorm:"column:product_name;not null"`
	Unit           *string   `gorm:"column:unit"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Qty            int       `gorm:"column:qty;not null"`
	LineTotalCents int64     `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the table naming explicit.
func (OrderItem) TableName() string { return "order_items" }
