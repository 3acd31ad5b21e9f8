package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
)

// Category is a read-only catalog section entry.
type Category struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	Slug      string             `gorm:"column:slug;not null;uniqueIndex"`
	Type      enums.CategoryType `gorm:"column:type;type:text;not null"`
	SortOrder int                `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
