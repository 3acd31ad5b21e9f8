package outbox

import (
	"context"
	"encoding/json"
	"errors"
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

	require.NoError(t, conn.Exec(`DROP TABLE IF EXISTS outbox_events`).Error)
	require.NoError(t, conn.Exec(`
		CREATE TABLE outbox_events (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			attempts INTEGER NOT NULL DEFAULT 0,
			last_error TEXT,
			published_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		)
	`).Error)
	return conn
}

func insertEvent(t *testing.T, conn *gorm.DB, repo *Repository) models.OutboxEvent {
	t.Helper()
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
		Status:        enums.OutboxEventStatusPending,
	}
	require.NoError(t, repo.Insert(conn, event))
	return event
}

func TestRepositoryFetchPendingAndMarkPublished(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)

	event := insertEvent(t, conn, repo)

	rows, err := repo.FetchPending(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, event.ID, rows[0].ID)

	require.NoError(t, repo.MarkPublished(event.ID))

	rows, err = repo.FetchPending(10)
	require.NoError(t, err)
	require.Empty(t, rows)

	var stored models.OutboxEvent
	require.NoError(t, conn.First(&stored, "id = ?", event.ID).Error)
	require.Equal(t, enums.OutboxEventStatusPublished, stored.Status)
	require.NotNil(t, stored.PublishedAt)
}

func TestRepositoryMarkFailedParksAfterMaxAttempts(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)

	event := insertEvent(t, conn, repo)
	cause := errors.New("publish timeout")

	require.NoError(t, repo.MarkFailed(event.ID, cause, 2))

	var stored models.OutboxEvent
	require.NoError(t, conn.First(&stored, "id = ?", event.ID).Error)
	require.Equal(t, enums.OutboxEventStatusPending, stored.Status)
	require.Equal(t, 1, stored.Attempts)
	require.NotNil(t, stored.LastError)

	require.NoError(t, repo.MarkFailed(event.ID, cause, 2))

	require.NoError(t, conn.First(&stored, "id = ?", event.ID).Error)
	require.Equal(t, enums.OutboxEventStatusFailed, stored.Status)
	require.Equal(t, 2, stored.Attempts)
}

func TestServiceEmitWrapsPayloadInEnvelope(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)

	aggregateID := uuid.New()
	err := svc.Emit(context.Background(), conn, DomainEvent{
		EventType:     enums.EventBookingCompleted,
		AggregateType: enums.AggregateBooking,
		AggregateID:   aggregateID,
		Version:       1,
		Data:          map[string]string{"booking_id": aggregateID.String()},
	})
	require.NoError(t, err)

	var stored models.OutboxEvent
	require.NoError(t, conn.First(&stored, "aggregate_id = ?", aggregateID).Error)
	require.Equal(t, enums.EventBookingCompleted, stored.EventType)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(stored.Payload, &envelope))
	require.Equal(t, 1, envelope.Version)
	require.NotEmpty(t, envelope.EventID)
	require.False(t, envelope.OccurredAt.IsZero())
}

func TestServiceEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{})
	require.Error(t, err)
}
