package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/internal/repo"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
)

type repository struct {
	base repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.base.DB(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.base.DB(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return r.list(ctx, "customer_id = ?", customerID, params)
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return r.list(ctx, "seller_id = ?", sellerID, params)
}

func (r *repository) list(ctx context.Context, cond string, id uuid.UUID, params pagination.Params) ([]models.Order, error) {
	var rows []models.Order
	query := r.base.DB(ctx).
		Preload("Items").
		Where(cond, id).
		Order("created_at DESC").
		Order("id DESC")
	err := repo.Page(query, params).Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, extra map[string]any) error {
	updates := map[string]any{"status": status}
	for key, value := range extra {
		updates[key] = value
	}
	return r.base.DB(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateMilestones(ctx context.Context, id uuid.UUID, milestones any) error {
	return r.base.DB(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("milestones", milestones).Error
}
