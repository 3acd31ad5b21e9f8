package requests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
)

// Repository defines persistence operations for service requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.ServiceRequest) (*models.ServiceRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.ServiceRequest, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
