package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
	"github.com/adewalecodes/buildbazaar-backend/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`DROP TABLE IF EXISTS design_bookings`).Error)
	require.NoError(t, conn.Exec(`
		CREATE TABLE design_bookings (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			service_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			assigned_seller_id TEXT,
			style_preferences TEXT,
			brief TEXT,
			quotation_history TEXT,
			quotation_version INTEGER NOT NULL DEFAULT 0,
			agreed_amount_cents INTEGER,
			milestones TEXT,
			completed_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error)
	return conn
}

func seedBooking(t *testing.T, repo Repository, customerID uuid.UUID, createdAt time.Time) *models.DesignBooking {
	t.Helper()
	booking := &models.DesignBooking{
		ID:               uuid.New(),
		CustomerID:       customerID,
		ServiceType:      "interior",
		Status:           enums.BookingStatusPending,
		StylePreferences: pq.StringArray{"modern", "minimal"},
		CreatedAt:        createdAt,
	}
	created, err := repo.Create(context.Background(), booking)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFindBooking(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)

	created := seedBooking(t, repo, uuid.New(), time.Now())

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "interior", found.ServiceType)
	require.Equal(t, enums.BookingStatusPending, found.Status)
	require.Equal(t, 0, found.QuotationVersion)
	require.Equal(t, pq.StringArray{"modern", "minimal"}, found.StylePreferences)
}

func TestRepositoryListByCustomerNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	customerID := uuid.New()

	older := seedBooking(t, repo, customerID, time.Now().Add(-time.Hour))
	newer := seedBooking(t, repo, customerID, time.Now())
	seedBooking(t, repo, uuid.New(), time.Now())

	rows, err := repo.ListByCustomer(context.Background(), customerID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, newer.ID, rows[0].ID)
	require.Equal(t, older.ID, rows[1].ID)
}

func TestRepositoryListByAssignedSeller(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	sellerID := uuid.New()

	assigned := seedBooking(t, repo, uuid.New(), time.Now())
	require.NoError(t, repo.Update(context.Background(), assigned.ID, map[string]any{
		"assigned_seller_id": sellerID,
		"status":             enums.BookingStatusAssigned,
	}))
	seedBooking(t, repo, uuid.New(), time.Now())

	rows, err := repo.ListByAssignedSeller(context.Background(), sellerID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, assigned.ID, rows[0].ID)
	require.Equal(t, enums.BookingStatusAssigned, rows[0].Status)
}

func TestReplaceQuotationBumpsVersion(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)

	created := seedBooking(t, repo, uuid.New(), time.Now())

	history := types.QuotationHistory{
		{Role: enums.QuoteRoleAdmin, AmountCents: 50000, Date: time.Now()},
	}
	ok, err := repo.ReplaceQuotation(context.Background(), created.ID, 0, history, map[string]any{
		"status": enums.BookingStatusQuotation,
	})
	require.NoError(t, err)
	require.True(t, ok)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, found.QuotationVersion)
	require.Equal(t, enums.BookingStatusQuotation, found.Status)
	require.Len(t, found.QuotationHistory, 1)
	require.Equal(t, 50000, found.QuotationHistory[0].AmountCents)
}

func TestReplaceQuotationRejectsStaleVersion(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)

	created := seedBooking(t, repo, uuid.New(), time.Now())

	first := types.QuotationHistory{
		{Role: enums.QuoteRoleAdmin, AmountCents: 50000, Date: time.Now()},
	}
	ok, err := repo.ReplaceQuotation(context.Background(), created.ID, 0, first, nil)
	require.NoError(t, err)
	require.True(t, ok)

	// a writer still holding version 0 must lose
	stale := append(first, types.QuotationOffer{Role: enums.QuoteRoleCustomer, AmountCents: 40000, Date: time.Now()})
	ok, err = repo.ReplaceQuotation(context.Background(), created.ID, 0, stale, nil)
	require.NoError(t, err)
	require.False(t, ok)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, found.QuotationVersion)
	require.Len(t, found.QuotationHistory, 1)
}

func TestRepositoryUpdateWritesMilestones(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)

	created := seedBooking(t, repo, uuid.New(), time.Now())

	list := types.NewMilestoneList([]string{"Brief Review", "Concept Draft"})
	require.NoError(t, repo.Update(context.Background(), created.ID, map[string]any{"milestones": list}))

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, found.Milestones, 2)
	require.Equal(t, "Brief Review", found.Milestones[0].Name)
	require.Equal(t, enums.MilestoneStatusPending, found.Milestones[1].Status)
}
