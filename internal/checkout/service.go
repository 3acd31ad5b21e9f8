package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/internal/orders"
	"github.com/adewalecodes/buildbazaar-backend/pkg/config"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
	"github.com/adewalecodes/buildbazaar-backend/pkg/metrics"
	"github.com/adewalecodes/buildbazaar-backend/pkg/outbox"
	"github.com/adewalecodes/buildbazaar-backend/pkg/session"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, actor session.Actor, input CheckoutInput) (*PlacementResult, error)
}

// CheckoutInput carries the cart being finalized.
type CheckoutInput struct {
	Items []LineItem
	Notes *string
}

// SellerFailure reports one sub-order that could not be placed.
type SellerFailure struct {
	SellerID    uuid.UUID `json:"seller_id"`
	SellerName  string    `json:"seller_name"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
	Err         error     `json:"-"`
}

// PlacementResult reports the per-seller outcome of a checkout. Orders that
// were placed before a later sub-order failed stay placed; there is no
// cross-sub-order rollback.
type PlacementResult struct {
	Orders   []models.Order  `json:"orders"`
	Failures []SellerFailure `json:"failures,omitempty"`
}

type service struct {
	tx         txRunner
	ordersRepo orders.Repository
	outbox     outboxPublisher
	rates      config.CheckoutRates
	metrics    *metrics.CheckoutMetrics
	logg       *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	ordersRepo orders.Repository,
	publisher outboxPublisher,
	rates config.CheckoutRates,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:         tx,
		ordersRepo: ordersRepo,
		outbox:     publisher,
		rates:      rates,
		metrics:    checkoutMetrics,
		logg:       logg,
	}, nil
}

// OrderPlacedEvent is emitted for each sub-order written during checkout.
type OrderPlacedEvent struct {
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	CustomerID   uuid.UUID `json:"customer_id"`
	SellerID     uuid.UUID `json:"seller_id"`
	TotalCents   int       `json:"total_cents"`
	AdvanceCents int       `json:"advance_cents"`
}

// Execute partitions the cart and places one order per seller, sequentially,
// each in its own transaction. A failure on sub-order k does not roll back
// orders already placed for sellers 1..k-1. The returned error combines the
// individual placement failures; the result always reports both sides.
func (s *service) Execute(ctx context.Context, actor session.Actor, input CheckoutInput) (*PlacementResult, error) {
	if err := actor.RequireRole(enums.ActorRoleCustomer); err != nil {
		return nil, err
	}

	subOrders, err := Partition(input.Items, s.rates)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result := &PlacementResult{Orders: make([]models.Order, 0, len(subOrders))}
	var placementErr error

	for _, sub := range subOrders {
		order, err := s.placeSubOrder(ctx, actor, sub, input.Notes)
		if err != nil {
			s.metrics.IncFailed(sub.SellerName)
			if s.logg != nil {
				logCtx := s.logg.WithFields(ctx, map[string]any{
					"seller_id":    sub.SellerID.String(),
					"order_number": sub.OrderNumber,
				})
				s.logg.Warn(logCtx, "sub-order placement failed")
			}
			result.Failures = append(result.Failures, SellerFailure{
				SellerID:    sub.SellerID,
				SellerName:  sub.SellerName,
				OrderNumber: sub.OrderNumber,
				Reason:      err.Error(),
				Err:         err,
			})
			placementErr = multierr.Append(placementErr,
				fmt.Errorf("seller %s (%s): %w", sub.SellerName, sub.SellerID, err))
			continue
		}
		s.metrics.IncPlaced(sub.SellerName)
		result.Orders = append(result.Orders, *order)
	}

	s.metrics.ObserveDuration(placementOutcome(result), time.Since(started))

	if len(result.Orders) == 0 && placementErr != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, placementErr, "all sub-orders failed to place")
	}
	return result, placementErr
}

func (s *service) placeSubOrder(ctx context.Context, actor session.Actor, sub SubOrder, notes *string) (*models.Order, error) {
	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)

		items := make([]models.OrderItem, 0, len(sub.Items))
		for _, item := range sub.Items {
			items = append(items, models.OrderItem{
				ProductID:        item.ProductID,
				Name:             item.Name,
				CategoryID:       item.CategoryID,
				UnitPriceCents:   item.UnitPriceCents,
				Qty:              item.Qty,
				VATCents:         item.VATCents,
				PlatformFeeCents: item.PlatformFeeCents,
				TotalCents:       item.TotalCents,
			})
		}

		order := &models.Order{
			OrderNumber:      sub.OrderNumber,
			CustomerID:       actor.UserID,
			SellerID:         sub.SellerID,
			SellerName:       sub.SellerName,
			Status:           enums.OrderStatusPending,
			SubtotalCents:    sub.SubtotalCents,
			VATCents:         sub.VATCents,
			PlatformFeeCents: sub.PlatformFeeCents,
			TotalCents:       sub.TotalCents,
			AdvanceCents:     sub.AdvanceCents,
			RemainingCents:   sub.RemainingCents,
			Notes:            notes,
			Items:            items,
		}
		created, err := repo.Create(ctx, order)
		if err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   created.ID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role.String()},
			Data: OrderPlacedEvent{
				OrderID:      created.ID,
				OrderNumber:  created.OrderNumber,
				CustomerID:   created.CustomerID,
				SellerID:     created.SellerID,
				TotalCents:   created.TotalCents,
				AdvanceCents: created.AdvanceCents,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		placed = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func placementOutcome(result *PlacementResult) string {
	switch {
	case len(result.Failures) == 0:
		return "complete"
	case len(result.Orders) == 0:
		return "failed"
	default:
		return "partial"
	}
}
