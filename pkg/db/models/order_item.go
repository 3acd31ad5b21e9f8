package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem captures the snapshot of each cart line inside a seller order.
type OrderItem struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID  `gorm:"column:order_id;type:uuid;not null"`
	ProductID        *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name             string     `gorm:"column:name;not null"`
	CategoryID       *uuid.UUID `gorm:"column:category_id;type:uuid"`
	UnitPriceCents   int        `gorm:"column:unit_price_cents;not null"`
	Qty              int        `gorm:"column:qty;not null"`
	VATCents         int        `gorm:"column:vat_cents;not null;default:0"`
	PlatformFeeCents int        `gorm:"column:platform_fee_cents;not null;default:0"`
	TotalCents       int        `gorm:"column:total_cents;not null"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
