package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
)

// Repository defines persistence operations for seller orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, extra map[string]any) error
	UpdateMilestones(ctx context.Context, id uuid.UUID, milestones any) error
}
