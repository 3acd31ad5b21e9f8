package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	"github.com/adewalecodes/buildbazaar-backend/pkg/types"
)

// Order is the per-seller order created from one checkout sub-order.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber      string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID       uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	SellerID         uuid.UUID           `gorm:"column:seller_id;type:uuid;not null"`
	SellerName       string              `gorm:"column:seller_name;not null"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	SubtotalCents    int                 `gorm:"column:subtotal_cents;not null"`
	VATCents         int                 `gorm:"column:vat_cents;not null;default:0"`
	PlatformFeeCents int                 `gorm:"column:platform_fee_cents;not null;default:0"`
	TotalCents       int                 `gorm:"column:total_cents;not null"`
	AdvanceCents     int                 `gorm:"column:advance_cents;not null"`
	RemainingCents   int                 `gorm:"column:remaining_cents;not null"`
	Milestones       types.MilestoneList `gorm:"column:milestones;type:jsonb;serializer:json"`
	Notes            *string             `gorm:"column:notes"`
	DeliveredAt      *time.Time          `gorm:"column:delivered_at"`
	CancelledAt      *time.Time          `gorm:"column:cancelled_at"`
	Items            []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
