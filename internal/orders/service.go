package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/outbox"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
	"github.com/adewalecodes/buildbazaar-backend/pkg/session"
	"github.com/adewalecodes/buildbazaar-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines order operations beyond repository reads.
type Service interface {
	Get(ctx context.Context, actor session.Actor, orderID uuid.UUID) (*models.Order, error)
	ListForCustomer(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.Order, error)
	ListForSeller(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.Order, error)
	UpdateStatus(ctx context.Context, actor session.Actor, orderID uuid.UUID, target enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds the orders service.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher}, nil
}

// Delivery tracking stages shown to customers. Materialized the first time an
// order is read with no milestone list.
var orderMilestoneTemplate = []string{
	"Order Confirmed",
	"Materials Sourced",
	"Dispatched",
	"Delivered",
}

// OrderStatusEvent is emitted when an order transitions status.
type OrderStatusEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	From        enums.OrderStatus `json:"from"`
	To          enums.OrderStatus `json:"to"`
}

func (s *service) Get(ctx context.Context, actor session.Actor, orderID uuid.UUID) (*models.Order, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, order) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another party")
	}
	if len(order.Milestones) == 0 {
		order.Milestones = types.NewMilestoneList(orderMilestoneTemplate)
		if err := s.repo.UpdateMilestones(ctx, order.ID, order.Milestones); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (s *service) ListForCustomer(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.Order, error) {
	if err := actor.RequireRole(enums.ActorRoleCustomer, enums.ActorRoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, actor.UserID, params)
}

func (s *service) ListForSeller(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.Order, error) {
	if err := actor.RequireRole(enums.ActorRoleSeller, enums.ActorRoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListBySeller(ctx, actor.UserID, params)
}

func (s *service) UpdateStatus(ctx context.Context, actor session.Actor, orderID uuid.UUID, target enums.OrderStatus) (*models.Order, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", target))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}

		if !order.Status.CanTransition(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot transition order from %s to %s", order.Status, target))
		}

		extra := map[string]any{}
		now := time.Now()
		switch target {
		case enums.OrderStatusDelivered:
			extra["delivered_at"] = now
		case enums.OrderStatusCancelled:
			extra["cancelled_at"] = now
		}
		if err := repo.UpdateStatus(ctx, order.ID, target, extra); err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatus,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role.String()},
			Data: OrderStatusEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				From:        order.Status,
				To:          target,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		updated, err = repo.FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	return order, nil
}

func canView(actor session.Actor, order *models.Order) bool {
	switch actor.Role {
	case enums.ActorRoleAdmin:
		return true
	case enums.ActorRoleCustomer:
		return order.CustomerID == actor.UserID
	case enums.ActorRoleSeller:
		return order.SellerID == actor.UserID
	}
	return false
}
