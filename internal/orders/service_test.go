package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/outbox"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
	"github.com/adewalecodes/buildbazaar-backend/pkg/session"
)

type stubRepo struct {
	orders        map[uuid.UUID]*models.Order
	statusUpdates []enums.OrderStatus
	milestoneSets int
}

func newStubRepo(orders ...*models.Order) *stubRepo {
	repo := &stubRepo{orders: map[uuid.UUID]*models.Order{}}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func (s *stubRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range s.orders {
		if order.SellerID == sellerID {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, extra map[string]any) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

func (s *stubRepo) UpdateMilestones(ctx context.Context, id uuid.UUID, milestones any) error {
	s.milestoneSets++
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func adminActor() session.Actor {
	return session.Actor{UserID: uuid.New(), Role: enums.ActorRoleAdmin}
}

func TestUpdateStatusFollowsChain(t *testing.T) {
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20250601-TEST01",
		CustomerID:  uuid.New(),
		SellerID:    uuid.New(),
		Status:      enums.OrderStatusPending,
	}
	repo := newStubRepo(order)
	publisher := &stubOutbox{}
	svc, err := NewService(repo, stubTx{}, publisher)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), adminActor(), order.ID, enums.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != enums.EventOrderStatus {
		t.Fatalf("unexpected event type %s", publisher.events[0].EventType)
	}
}

func TestUpdateStatusRejectsSkippingAhead(t *testing.T) {
	order := &models.Order{
		ID:     uuid.New(),
		Status: enums.OrderStatusPending,
	}
	repo := newStubRepo(order)
	svc, err := NewService(repo, stubTx{}, &stubOutbox{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), adminActor(), order.ID, enums.OrderStatusShipped)
	if err == nil {
		t.Fatalf("expected state conflict")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected CodeStateConflict, got %s", appErr.Code())
	}
	if repo.orders[order.ID].Status != enums.OrderStatusPending {
		t.Fatalf("record must stay untouched after rejected transition")
	}
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}
	svc, err := NewService(newStubRepo(order), stubTx{}, &stubOutbox{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	customer := session.Actor{UserID: uuid.New(), Role: enums.ActorRoleCustomer}
	_, err = svc.UpdateStatus(context.Background(), customer, order.ID, enums.OrderStatusConfirmed)
	if err == nil {
		t.Fatalf("expected forbidden")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected CodeForbidden, got %s", appErr.Code())
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, err := NewService(newStubRepo(), stubTx{}, &stubOutbox{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), adminActor(), uuid.New(), enums.OrderStatusConfirmed)
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestGetMaterializesMilestones(t *testing.T) {
	customerID := uuid.New()
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		SellerID:   uuid.New(),
		Status:     enums.OrderStatusConfirmed,
	}
	repo := newStubRepo(order)
	svc, err := NewService(repo, stubTx{}, &stubOutbox{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	actor := session.Actor{UserID: customerID, Role: enums.ActorRoleCustomer}
	got, err := svc.Get(context.Background(), actor, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Milestones) != len(orderMilestoneTemplate) {
		t.Fatalf("expected %d template milestones, got %d", len(orderMilestoneTemplate), len(got.Milestones))
	}
	if repo.milestoneSets != 1 {
		t.Fatalf("expected milestones persisted once, got %d", repo.milestoneSets)
	}
}

func TestGetDeniesForeignCustomer(t *testing.T) {
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		SellerID:   uuid.New(),
	}
	svc, err := NewService(newStubRepo(order), stubTx{}, &stubOutbox{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	other := session.Actor{UserID: uuid.New(), Role: enums.ActorRoleCustomer}
	if _, err := svc.Get(context.Background(), other, order.ID); err == nil {
		t.Fatalf("expected forbidden for foreign customer")
	}
}
