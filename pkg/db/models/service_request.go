package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
)

// ServiceRequest is a customer's general service enquiry (plumbing,
// electricals, surveys). Amounts stay unset until a quotation is finalized.
type ServiceRequest struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequestNumber     string              `gorm:"column:request_number;not null;uniqueIndex"`
	CustomerID        uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	ServiceType       string              `gorm:"column:service_type;not null"`
	Description       *string             `gorm:"column:description"`
	Status            enums.RequestStatus `gorm:"column:status;type:text;not null;default:'submitted'"`
	QuotedAmountCents *int                `gorm:"column:quoted_amount_cents"`
	QuoteFinalized    bool                `gorm:"column:quote_finalized;not null;default:false"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
