package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
	"github.com/adewalecodes/buildbazaar-backend/pkg/session"
)

type stubOrders struct {
	rows []models.Order
	err  error
}

func (s *stubOrders) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return s.rows, s.err
}

type stubBookings struct {
	rows []models.DesignBooking
	err  error
}

func (s *stubBookings) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.DesignBooking, error) {
	return s.rows, s.err
}

type stubRequests struct {
	rows []models.ServiceRequest
	err  error
}

func (s *stubRequests) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.ServiceRequest, error) {
	return s.rows, s.err
}

func customerActor() session.Actor {
	return session.Actor{UserID: uuid.New(), Role: enums.ActorRoleCustomer}
}

func newFeedService(t *testing.T, orders *stubOrders, bookings *stubBookings, requests *stubRequests) Service {
	t.Helper()
	svc, err := NewService(orders, bookings, requests, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRecordsMergesAllSources(t *testing.T) {
	now := time.Now()
	orders := &stubOrders{rows: []models.Order{{
		ID:          uuid.New(),
		OrderNumber: "ORD-20250601-AAAAAA",
		Status:      enums.OrderStatusShipped,
		TotalCents:  21900,
		CreatedAt:   now.Add(-2 * time.Hour),
	}}}
	bookings := &stubBookings{rows: []models.DesignBooking{{
		ID:          uuid.New(),
		ServiceType: "interior",
		Status:      enums.BookingStatusQuotation,
		CreatedAt:   now.Add(-time.Hour),
	}}}
	requests := &stubRequests{rows: []models.ServiceRequest{{
		ID:            uuid.New(),
		RequestNumber: "REQ-20250601-AAAAAA",
		ServiceType:   "plumbing",
		Status:        enums.RequestStatusSubmitted,
		CreatedAt:     now,
	}}}
	svc := newFeedService(t, orders, bookings, requests)

	feed, err := svc.Records(context.Background(), customerActor(), Query{}, pagination.Params{})
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(feed.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(feed.Records))
	}
	if feed.Records[0].Type != enums.RecordTypeService {
		t.Fatalf("expected newest record first, got %s", feed.Records[0].Type)
	}
	if len(feed.FailedSources) != 0 {
		t.Fatalf("unexpected failed sources %v", feed.FailedSources)
	}
}

func TestRecordsDegradesWhenOneSourceFails(t *testing.T) {
	orders := &stubOrders{err: errors.New("orders db down")}
	bookings := &stubBookings{rows: []models.DesignBooking{{
		ID:          uuid.New(),
		ServiceType: "interior",
		Status:      enums.BookingStatusVerified,
		CreatedAt:   time.Now(),
	}}}
	requests := &stubRequests{}
	svc := newFeedService(t, orders, bookings, requests)

	feed, err := svc.Records(context.Background(), customerActor(), Query{}, pagination.Params{})
	if err != nil {
		t.Fatalf("a single failing source must not break the feed: %v", err)
	}
	if len(feed.Records) != 1 {
		t.Fatalf("expected the surviving booking record, got %d", len(feed.Records))
	}
	if len(feed.FailedSources) != 1 || feed.FailedSources[0] != "orders" {
		t.Fatalf("expected orders flagged as failed, got %v", feed.FailedSources)
	}
}

func TestRecordsErrorsWhenAllSourcesFail(t *testing.T) {
	down := errors.New("db down")
	svc := newFeedService(t, &stubOrders{err: down}, &stubBookings{err: down}, &stubRequests{err: down})

	_, err := svc.Records(context.Background(), customerActor(), Query{}, pagination.Params{})
	if err == nil {
		t.Fatalf("expected error when every source fails")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected CodeDependency, got %s", appErr.Code())
	}
}

func TestRecordsSkipsMalformedRows(t *testing.T) {
	orders := &stubOrders{rows: []models.Order{
		{ID: uuid.New(), OrderNumber: "", Status: enums.OrderStatusPending, CreatedAt: time.Now()},
		{ID: uuid.New(), OrderNumber: "ORD-20250601-BBBBBB", Status: enums.OrderStatusPending, CreatedAt: time.Now()},
	}}
	svc := newFeedService(t, orders, &stubBookings{}, &stubRequests{})

	feed, err := svc.Records(context.Background(), customerActor(), Query{}, pagination.Params{})
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(feed.Records) != 1 {
		t.Fatalf("expected the malformed row skipped, got %d records", len(feed.Records))
	}
}

func TestRecordsStatusGroupFilter(t *testing.T) {
	now := time.Now()
	orders := &stubOrders{rows: []models.Order{{
		ID:          uuid.New(),
		OrderNumber: "ORD-20250601-CCCCCC",
		Status:      enums.OrderStatusDelivered,
		CreatedAt:   now,
	}}}
	bookings := &stubBookings{rows: []models.DesignBooking{{
		ID:          uuid.New(),
		ServiceType: "interior",
		Status:      enums.BookingStatusPending,
		CreatedAt:   now,
	}}}
	requests := &stubRequests{rows: []models.ServiceRequest{{
		ID:            uuid.New(),
		RequestNumber: "REQ-20250601-CCCCCC",
		ServiceType:   "plumbing",
		Status:        enums.RequestStatusProcessing,
		CreatedAt:     now,
	}}}
	svc := newFeedService(t, orders, bookings, requests)

	feed, err := svc.Records(context.Background(), customerActor(), Query{StatusGroup: enums.StatusGroupInProgress}, pagination.Params{})
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(feed.Records) != 1 {
		t.Fatalf("expected only the processing request, got %d", len(feed.Records))
	}
	if feed.Records[0].Type != enums.RecordTypeService {
		t.Fatalf("expected the service request, got %s", feed.Records[0].Type)
	}
}

func TestRecordsRejectsSellers(t *testing.T) {
	svc := newFeedService(t, &stubOrders{}, &stubBookings{}, &stubRequests{})

	seller := session.Actor{UserID: uuid.New(), Role: enums.ActorRoleSeller}
	_, err := svc.Records(context.Background(), seller, Query{}, pagination.Params{})
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected CodeForbidden, got %v", err)
	}
}
