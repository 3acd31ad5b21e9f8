package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`DROP TABLE IF EXISTS categories`).Error)
	require.NoError(t, conn.Exec(`
		CREATE TABLE categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error)
	return conn
}

func seedCategory(t *testing.T, conn *gorm.DB, name, slug string, categoryType enums.CategoryType, sortOrder int) {
	t.Helper()
	require.NoError(t, conn.Create(&models.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		Type:      categoryType,
		SortOrder: sortOrder,
	}).Error)
}

func TestListCategoriesOrdersBySortOrder(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)

	seedCategory(t, conn, "Tiles", "tiles", enums.CategoryTypeMaterial, 2)
	seedCategory(t, conn, "Cement", "cement", enums.CategoryTypeMaterial, 1)
	seedCategory(t, conn, "Interior", "interior", enums.CategoryTypeDesign, 1)

	rows, err := repo.ListCategories(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Cement", rows[0].Name)
}

func TestListCategoriesFiltersByType(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)

	seedCategory(t, conn, "Cement", "cement", enums.CategoryTypeMaterial, 1)
	seedCategory(t, conn, "Interior", "interior", enums.CategoryTypeDesign, 1)
	seedCategory(t, conn, "Plumbing", "plumbing", enums.CategoryTypeService, 1)

	design := enums.CategoryTypeDesign
	rows, err := repo.ListCategories(context.Background(), &design)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Interior", rows[0].Name)
}
