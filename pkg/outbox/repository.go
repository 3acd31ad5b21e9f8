package outbox

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(tx *gorm.DB, event models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(&event).Error
}

func (r *Repository) FetchPending(limit int) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	err := r.db.Where("status = ?", enums.OutboxEventStatusPending).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) MarkPublished(id uuid.UUID) error {
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.OutboxEventStatusPublished,
			"published_at": time.Now(),
		}).Error
}

// MarkFailed records the publish failure. Rows stay pending until the attempt
// count reaches maxAttempts, after which they are parked as failed.
func (r *Repository) MarkFailed(id uuid.UUID, cause error, maxAttempts int) error {
	updates := map[string]any{
		"last_error": cause.Error(),
		"attempts":   gorm.Expr("attempts + 1"),
	}
	if err := r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return err
	}
	if maxAttempts <= 0 {
		return nil
	}
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ? AND attempts >= ?", id, maxAttempts).
		Update("status", enums.OutboxEventStatusFailed).Error
}
