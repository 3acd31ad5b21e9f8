package bookings

import (
	"context"
	"testing"
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

type stubRepo struct {
	bookings map[uuid.UUID]*models.DesignBooking
	// when set, ReplaceQuotation reports a lost conditional write once
	staleOnce bool
}

func newStubRepo(bookings ...*models.DesignBooking) *stubRepo {
	repo := &stubRepo{bookings: map[uuid.UUID]*models.DesignBooking{}}
	for _, booking := range bookings {
		repo.bookings[booking.ID] = booking
	}
	return repo
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, booking *models.DesignBooking) (*models.DesignBooking, error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	s.bookings[booking.ID] = booking
	return booking, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.DesignBooking, error) {
	booking, ok := s.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *booking
	return &copied, nil
}

func (s *stubRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.DesignBooking, error) {
	var rows []models.DesignBooking
	for _, booking := range s.bookings {
		if booking.CustomerID == customerID {
			rows = append(rows, *booking)
		}
	}
	return rows, nil
}

func (s *stubRepo) ListByAssignedSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) ([]models.DesignBooking, error) {
	var rows []models.DesignBooking
	for _, booking := range s.bookings {
		if booking.AssignedSellerID != nil && *booking.AssignedSellerID == sellerID {
			rows = append(rows, *booking)
		}
	}
	return rows, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	booking, ok := s.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	applyUpdates(booking, updates)
	return nil
}

func (s *stubRepo) ReplaceQuotation(ctx context.Context, id uuid.UUID, expectedVersion int, history types.QuotationHistory, extra map[string]any) (bool, error) {
	if s.staleOnce {
		s.staleOnce = false
		return false, nil
	}
	booking, ok := s.bookings[id]
	if !ok || booking.QuotationVersion != expectedVersion {
		return false, nil
	}
	booking.QuotationHistory = history
	booking.QuotationVersion = expectedVersion + 1
	applyUpdates(booking, extra)
	return true, nil
}

func applyUpdates(booking *models.DesignBooking, updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "status":
			booking.Status = value.(enums.BookingStatus)
		case "assigned_seller_id":
			id := value.(uuid.UUID)
			booking.AssignedSellerID = &id
		case "agreed_amount_cents":
			amount := value.(int)
			booking.AgreedAmountCents = &amount
		case "milestones":
			booking.Milestones = value.(types.MilestoneList)
		case "completed_at":
			at := value.(time.Time)
			booking.CompletedAt = &at
		}
	}
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

func newTestService(t *testing.T, repo Repository) (Service, *stubOutbox) {
	t.Helper()
	publisher := &stubOutbox{}
	svc, err := NewService(repo, stubTx{}, publisher)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, publisher
}

func verifiedBooking(customerID uuid.UUID) *models.DesignBooking {
	return &models.DesignBooking{
		ID:          uuid.New(),
		CustomerID:  customerID,
		ServiceType: "interior",
		Status:      enums.BookingStatusVerified,
	}
}

func TestSendQuoteOpensNegotiation(t *testing.T) {
	booking := verifiedBooking(uuid.New())
	repo := newStubRepo(booking)
	svc, _ := newTestService(t, repo)

	updated, err := svc.SendQuote(context.Background(), adminActor(), booking.ID, QuoteInput{AmountCents: 50000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != enums.BookingStatusQuotation {
		t.Fatalf("expected quotation status, got %s", updated.Status)
	}
	if len(updated.QuotationHistory) != 1 {
		t.Fatalf("expected one offer, got %d", len(updated.QuotationHistory))
	}
	if updated.QuotationVersion != 1 {
		t.Fatalf("expected version 1, got %d", updated.QuotationVersion)
	}
}

func TestSendQuoteRejectsConsecutiveAdminOffers(t *testing.T) {
	booking := verifiedBooking(uuid.New())
	repo := newStubRepo(booking)
	svc, _ := newTestService(t, repo)

	if _, err := svc.SendQuote(context.Background(), adminActor(), booking.ID, QuoteInput{AmountCents: 50000}); err != nil {
		t.Fatalf("initial quote: %v", err)
	}
	_, err := svc.SendQuote(context.Background(), adminActor(), booking.ID, QuoteInput{AmountCents: 45000})
	if err == nil {
		t.Fatalf("expected rejection of a second admin offer in a row")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected CodeStateConflict, got %s", appErr.Code())
	}
	if len(repo.bookings[booking.ID].QuotationHistory) != 1 {
		t.Fatalf("history must stay untouched after rejected offer")
	}
}

func TestCounterAlternatesRoles(t *testing.T) {
	customerID := uuid.New()
	booking := verifiedBooking(customerID)
	repo := newStubRepo(booking)
	svc, _ := newTestService(t, repo)

	if _, err := svc.SendQuote(context.Background(), adminActor(), booking.ID, QuoteInput{AmountCents: 50000}); err != nil {
		t.Fatalf("initial quote: %v", err)
	}

	customer := session.Actor{UserID: customerID, Role: enums.ActorRoleCustomer}
	updated, err := svc.Counter(context.Background(), customer, booking.ID, QuoteInput{AmountCents: 42000})
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	if len(updated.QuotationHistory) != 2 {
		t.Fatalf("expected two offers, got %d", len(updated.QuotationHistory))
	}
	if updated.QuotationHistory[1].Role != enums.QuoteRoleCustomer {
		t.Fatalf("expected customer offer last, got %s", updated.QuotationHistory[1].Role)
	}

	// admin may respond again once the customer has countered
	if _, err := svc.SendQuote(context.Background(), adminActor(), booking.ID, QuoteInput{AmountCents: 46000}); err != nil {
		t.Fatalf("follow-up admin offer: %v", err)
	}
}

func TestCounterRequiresAdminOfferFirst(t *testing.T) {
	customerID := uuid.New()
	booking := verifiedBooking(customerID)
	svc, _ := newTestService(t, newStubRepo(booking))

	customer := session.Actor{UserID: customerID, Role: enums.ActorRoleCustomer}
	_, err := svc.Counter(context.Background(), customer, booking.ID, QuoteInput{AmountCents: 42000})
	if err == nil {
		t.Fatalf("expected rejection before the initial admin quote")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected CodeStateConflict, got %s", appErr.Code())
	}
}

func TestAcceptPinsAgreedAmount(t *testing.T) {
	customerID := uuid.New()
	booking := verifiedBooking(customerID)
	repo := newStubRepo(booking)
	svc, _ := newTestService(t, repo)

	if _, err := svc.SendQuote(context.Background(), adminActor(), booking.ID, QuoteInput{AmountCents: 50000}); err != nil {
		t.Fatalf("initial quote: %v", err)
	}

	customer := session.Actor{UserID: customerID, Role: enums.ActorRoleCustomer}
	accepted, err := svc.Accept(context.Background(), customer, booking.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != enums.BookingStatusInProgress {
		t.Fatalf("expected in_progress, got %s", accepted.Status)
	}
	if accepted.AgreedAmountCents == nil || *accepted.AgreedAmountCents != 50000 {
		t.Fatalf("expected agreed amount 50000, got %v", accepted.AgreedAmountCents)
	}
	if len(accepted.QuotationHistory) != 1 {
		t.Fatalf("acceptance must not append an offer, got %d entries", len(accepted.QuotationHistory))
	}
}

func TestAcceptRejectsOwnPendingCounter(t *testing.T) {
	customerID := uuid.New()
	booking := verifiedBooking(customerID)
	repo := newStubRepo(booking)
	svc, _ := newTestService(t, repo)

	if _, err := svc.SendQuote(context.Background(), adminActor(), booking.ID, QuoteInput{AmountCents: 50000}); err != nil {
		t.Fatalf("initial quote: %v", err)
	}
	customer := session.Actor{UserID: customerID, Role: enums.ActorRoleCustomer}
	if _, err := svc.Counter(context.Background(), customer, booking.ID, QuoteInput{AmountCents: 42000}); err != nil {
		t.Fatalf("counter: %v", err)
	}

	_, err := svc.Accept(context.Background(), customer, booking.ID)
	if err == nil {
		t.Fatalf("expected rejection while own counter is pending")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected CodeStateConflict, got %s", appErr.Code())
	}
}

func TestConcurrentQuotationWriteConflicts(t *testing.T) {
	booking := verifiedBooking(uuid.New())
	repo := newStubRepo(booking)
	repo.staleOnce = true
	svc, _ := newTestService(t, repo)

	_, err := svc.SendQuote(context.Background(), adminActor(), booking.ID, QuoteInput{AmountCents: 50000})
	if err == nil {
		t.Fatalf("expected conflict when the conditional write loses")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CodeConflict, got %s", appErr.Code())
	}
}

func TestAssignPartnerAdvancesVerified(t *testing.T) {
	booking := verifiedBooking(uuid.New())
	repo := newStubRepo(booking)
	svc, _ := newTestService(t, repo)
	sellerID := uuid.New()

	assigned, err := svc.AssignPartner(context.Background(), adminActor(), booking.ID, sellerID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Status != enums.BookingStatusAssigned {
		t.Fatalf("expected assigned, got %s", assigned.Status)
	}
	if assigned.AssignedSellerID == nil || *assigned.AssignedSellerID != sellerID {
		t.Fatalf("expected seller %s, got %v", sellerID, assigned.AssignedSellerID)
	}
}

func TestAssignPartnerKeepsLaterStatus(t *testing.T) {
	booking := verifiedBooking(uuid.New())
	booking.Status = enums.BookingStatusInProgress
	repo := newStubRepo(booking)
	svc, _ := newTestService(t, repo)

	assigned, err := svc.AssignPartner(context.Background(), adminActor(), booking.ID, uuid.New())
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Status != enums.BookingStatusInProgress {
		t.Fatalf("reassignment must not rewind status, got %s", assigned.Status)
	}
}

func TestAssignPartnerRejectsPending(t *testing.T) {
	booking := verifiedBooking(uuid.New())
	booking.Status = enums.BookingStatusPending
	svc, _ := newTestService(t, newStubRepo(booking))

	_, err := svc.AssignPartner(context.Background(), adminActor(), booking.ID, uuid.New())
	if err == nil {
		t.Fatalf("expected rejection for pending booking")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected CodeStateConflict, got %s", appErr.Code())
	}
}

func TestCompleteEmitsEvent(t *testing.T) {
	booking := verifiedBooking(uuid.New())
	booking.Status = enums.BookingStatusInProgress
	agreed := 50000
	booking.AgreedAmountCents = &agreed
	repo := newStubRepo(booking)
	svc, publisher := newTestService(t, repo)

	completed, err := svc.Complete(context.Background(), adminActor(), booking.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != enums.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Fatalf("expected completed_at stamped")
	}
	if len(publisher.events) != 1 || publisher.events[0].EventType != enums.EventBookingCompleted {
		t.Fatalf("expected one booking.completed event, got %+v", publisher.events)
	}
}

func TestToggleMilestoneIsIdempotentPerIndex(t *testing.T) {
	sellerID := uuid.New()
	booking := verifiedBooking(uuid.New())
	booking.Status = enums.BookingStatusInProgress
	booking.AssignedSellerID = &sellerID
	repo := newStubRepo(booking)
	svc, _ := newTestService(t, repo)

	seller := session.Actor{UserID: sellerID, Role: enums.ActorRoleSeller}
	toggled, err := svc.ToggleMilestone(context.Background(), seller, booking.ID, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.Milestones[1].Status != enums.MilestoneStatusCompleted {
		t.Fatalf("expected completed, got %s", toggled.Milestones[1].Status)
	}
	if toggled.Milestones[1].CompletedAt == nil {
		t.Fatalf("expected completed_at stamped")
	}
	if toggled.Milestones[0].Status != enums.MilestoneStatusPending {
		t.Fatalf("other milestones must stay pending")
	}

	reverted, err := svc.ToggleMilestone(context.Background(), seller, booking.ID, 1)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if reverted.Milestones[1].Status != enums.MilestoneStatusPending {
		t.Fatalf("double toggle must restore pending, got %s", reverted.Milestones[1].Status)
	}
	if reverted.Milestones[1].CompletedAt != nil {
		t.Fatalf("completed_at must clear when reverted")
	}
}

func TestToggleMilestoneDeniesForeignSeller(t *testing.T) {
	assignedTo := uuid.New()
	booking := verifiedBooking(uuid.New())
	booking.Status = enums.BookingStatusInProgress
	booking.AssignedSellerID = &assignedTo
	svc, _ := newTestService(t, newStubRepo(booking))

	other := session.Actor{UserID: uuid.New(), Role: enums.ActorRoleSeller}
	_, err := svc.ToggleMilestone(context.Background(), other, booking.ID, 0)
	if err == nil {
		t.Fatalf("expected forbidden for unassigned seller")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected CodeForbidden, got %s", appErr.Code())
	}
}

func TestToggleMilestoneRejectsOutOfRange(t *testing.T) {
	booking := verifiedBooking(uuid.New())
	svc, _ := newTestService(t, newStubRepo(booking))

	_, err := svc.ToggleMilestone(context.Background(), adminActor(), booking.ID, 99)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected CodeValidation, got %s", appErr.Code())
	}
}

func TestCreateRequiresCustomer(t *testing.T) {
	svc, _ := newTestService(t, newStubRepo())

	_, err := svc.Create(context.Background(), adminActor(), CreateBookingInput{ServiceType: "interior"})
	if err == nil {
		t.Fatalf("expected forbidden for admin")
	}
	if appErr := pkgerrors.As(err); appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected CodeForbidden, got %s", appErr.Code())
	}
}
