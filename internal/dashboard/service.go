package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
	"github.com/adewalecodes/buildbazaar-backend/pkg/metrics"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
	"github.com/adewalecodes/buildbazaar-backend/pkg/session"
)

const (
	sourceOrders   = "orders"
	sourceBookings = "bookings"
	sourceRequests = "requests"
)

// feed sources pull at most this many rows each before the merged sort
var sourceWindow = pagination.Params{Limit: pagination.MaxLimit}

// OrderSource feeds product orders into the unified dashboard.
type OrderSource interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error)
}

// BookingSource feeds design bookings into the unified dashboard.
type BookingSource interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.DesignBooking, error)
}

// RequestSource feeds service requests into the unified dashboard.
type RequestSource interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.ServiceRequest, error)
}

// Feed is one aggregated dashboard page. FailedSources names sources that
// could not be reached; their records are simply absent.
type Feed struct {
	Records       []UnifiedRecord `json:"records"`
	FailedSources []string        `json:"failed_sources,omitempty"`
}

// Service assembles the unified activity feed.
type Service interface {
	Records(ctx context.Context, actor session.Actor, query Query, params pagination.Params) (*Feed, error)
}

type service struct {
	orders   OrderSource
	bookings BookingSource
	requests RequestSource
	logg     *logger.Logger
	metrics  *metrics.DashboardMetrics
}

// NewService builds the dashboard service.
func NewService(orders OrderSource, bookings BookingSource, requests RequestSource, logg *logger.Logger, dashMetrics *metrics.DashboardMetrics) (Service, error) {
	if orders == nil || bookings == nil || requests == nil {
		return nil, fmt.Errorf("all three record sources are required")
	}
	return &service{
		orders:   orders,
		bookings: bookings,
		requests: requests,
		logg:     logg,
		metrics:  dashMetrics,
	}, nil
}

// Records merges the three record sources into one normalized feed. A failing
// source degrades the feed instead of breaking it; only when every source
// fails does the call error.
func (s *service) Records(ctx context.Context, actor session.Actor, query Query, params pagination.Params) (*Feed, error) {
	if err := actor.RequireRole(enums.ActorRoleCustomer, enums.ActorRoleAdmin); err != nil {
		return nil, err
	}

	var records []UnifiedRecord
	var failed []string

	orders, err := s.orders.ListByCustomer(ctx, actor.UserID, sourceWindow)
	if err != nil {
		failed = append(failed, sourceOrders)
		s.reportSourceFailure(ctx, sourceOrders, err)
	} else {
		for _, order := range orders {
			record, ok := normalizeOrder(order)
			if !ok {
				s.reportSkipped(ctx, sourceOrders, order.ID)
				continue
			}
			records = append(records, record)
		}
	}

	bookings, err := s.bookings.ListByCustomer(ctx, actor.UserID, sourceWindow)
	if err != nil {
		failed = append(failed, sourceBookings)
		s.reportSourceFailure(ctx, sourceBookings, err)
	} else {
		for _, booking := range bookings {
			record, ok := normalizeBooking(booking)
			if !ok {
				s.reportSkipped(ctx, sourceBookings, booking.ID)
				continue
			}
			records = append(records, record)
		}
	}

	requests, err := s.requests.ListByCustomer(ctx, actor.UserID, sourceWindow)
	if err != nil {
		failed = append(failed, sourceRequests)
		s.reportSourceFailure(ctx, sourceRequests, err)
	} else {
		for _, request := range requests {
			record, ok := normalizeRequest(request)
			if !ok {
				s.reportSkipped(ctx, sourceRequests, request.ID)
				continue
			}
			records = append(records, record)
		}
	}

	if len(failed) == 3 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "no record source is reachable")
	}

	filtered := records[:0]
	for _, record := range records {
		if matchesQuery(record, query) {
			filtered = append(filtered, record)
		}
	}
	sortRecords(filtered)

	return &Feed{
		Records:       pagination.Window(filtered, params),
		FailedSources: failed,
	}, nil
}

func (s *service) reportSourceFailure(ctx context.Context, source string, err error) {
	s.metrics.IncSourceFailure(source)
	if s.logg != nil {
		logCtx := s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(logCtx, fmt.Sprintf("record source %s failed", source))
	}
}

func (s *service) reportSkipped(ctx context.Context, source string, id uuid.UUID) {
	s.metrics.IncRecordSkipped(source)
	if s.logg != nil {
		logCtx := s.logg.WithField(ctx, "record_id", id.String())
		s.logg.Warn(logCtx, fmt.Sprintf("malformed %s record skipped", source))
	}
}
