package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	"github.com/adewalecodes/buildbazaar-backend/pkg/types"
)

// DesignBooking is a customer's design-service engagement. Pricing is settled
// through the quotation_history negotiation log; quotation_version guards the
// log against concurrent appends.
type DesignBooking struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID        uuid.UUID              `gorm:"column:customer_id;type:uuid;not null"`
	ServiceType       string                 `gorm:"column:service_type;not null"`
	Status            enums.BookingStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	AssignedSellerID  *uuid.UUID             `gorm:"column:assigned_seller_id;type:uuid"`
	StylePreferences  pq.StringArray         `gorm:"column:style_preferences;type:text[]"`
	Brief             *string                `gorm:"column:brief"`
	QuotationHistory  types.QuotationHistory `gorm:"column:quotation_history;type:jsonb;serializer:json"`
	QuotationVersion  int                    `gorm:"column:quotation_version;not null;default:0"`
	AgreedAmountCents *int                   `gorm:"column:agreed_amount_cents"`
	Milestones        types.MilestoneList    `gorm:"column:milestones;type:jsonb;serializer:json"`
	CompletedAt       *time.Time             `gorm:"column:completed_at"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
