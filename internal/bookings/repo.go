package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/internal/repo"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
	"github.com/adewalecodes/buildbazaar-backend/pkg/types"
)

type repository struct {
	base repo.Base
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, booking *models.DesignBooking) (*models.DesignBooking, error) {
	if err := r.base.DB(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DesignBooking, error) {
	var booking models.DesignBooking
	err := r.base.DB(ctx).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.DesignBooking, error) {
	return r.list(ctx, "customer_id = ?", customerID, params)
}

func (r *repository) ListByAssignedSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) ([]models.DesignBooking, error) {
	return r.list(ctx, "assigned_seller_id = ?", sellerID, params)
}

func (r *repository) list(ctx context.Context, cond string, id uuid.UUID, params pagination.Params) ([]models.DesignBooking, error) {
	var rows []models.DesignBooking
	query := r.base.DB(ctx).
		Where(cond, id).
		Order("created_at DESC").
		Order("id DESC")
	err := repo.Page(query, params).Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.base.DB(ctx).
		Model(&models.DesignBooking{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ReplaceQuotation(ctx context.Context, id uuid.UUID, expectedVersion int, history types.QuotationHistory, extra map[string]any) (bool, error) {
	updates := map[string]any{
		"quotation_history": history,
		"quotation_version": expectedVersion + 1,
	}
	for key, value := range extra {
		updates[key] = value
	}
	result := r.base.DB(ctx).
		Model(&models.DesignBooking{}).
		Where("id = ? AND quotation_version = ?", id, expectedVersion).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
