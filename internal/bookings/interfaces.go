package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
	"github.com/adewalecodes/buildbazaar-backend/pkg/types"
)

// Repository defines persistence operations for design bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.DesignBooking) (*models.DesignBooking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DesignBooking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.DesignBooking, error)
	ListByAssignedSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) ([]models.DesignBooking, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// ReplaceQuotation writes the new history only when the stored
	// quotation_version still matches expectedVersion, bumping the version on
	// success. It reports whether the conditional write landed.
	ReplaceQuotation(ctx context.Context, id uuid.UUID, expectedVersion int, history types.QuotationHistory, extra map[string]any) (bool, error)
}
