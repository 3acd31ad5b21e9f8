package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/internal/repo"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
)

// Repository defines read operations over the catalog sections.
type Repository interface {
	ListCategories(ctx context.Context, categoryType *enums.CategoryType) ([]models.Category, error)
}

type repository struct {
	base repo.Base
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) ListCategories(ctx context.Context, categoryType *enums.CategoryType) ([]models.Category, error) {
	query := r.base.DB(ctx).Model(&models.Category{})
	if categoryType != nil {
		query = query.Where("type = ?", *categoryType)
	}
	var rows []models.Category
	err := query.
		Order("sort_order ASC").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}
