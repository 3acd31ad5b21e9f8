package requests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/internal/repo"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
)

type repository struct {
	base repo.Base
}

// NewRepository builds a service request repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, request *models.ServiceRequest) (*models.ServiceRequest, error) {
	if err := r.base.DB(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := r.base.DB(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.ServiceRequest, error) {
	var rows []models.ServiceRequest
	query := r.base.DB(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Order("id DESC")
	err := repo.Page(query, params).Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.base.DB(ctx).
		Model(&models.ServiceRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}
