package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
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

// CreateBookingInput captures a customer's design enquiry.
type CreateBookingInput struct {
	ServiceType      string
	StylePreferences []string
	Brief            *string
}

// QuoteInput carries one negotiation offer.
type QuoteInput struct {
	AmountCents int
	Notes       *string
}

// Service defines design booking operations.
type Service interface {
	Create(ctx context.Context, actor session.Actor, input CreateBookingInput) (*models.DesignBooking, error)
	Get(ctx context.Context, actor session.Actor, bookingID uuid.UUID) (*models.DesignBooking, error)
	ListForCustomer(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.DesignBooking, error)
	ListForSeller(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.DesignBooking, error)
	Verify(ctx context.Context, actor session.Actor, bookingID uuid.UUID) (*models.DesignBooking, error)
	SendQuote(ctx context.Context, actor session.Actor, bookingID uuid.UUID, input QuoteInput) (*models.DesignBooking, error)
	Counter(ctx context.Context, actor session.Actor, bookingID uuid.UUID, input QuoteInput) (*models.DesignBooking, error)
	Accept(ctx context.Context, actor session.Actor, bookingID uuid.UUID) (*models.DesignBooking, error)
	AssignPartner(ctx context.Context, actor session.Actor, bookingID, sellerID uuid.UUID) (*models.DesignBooking, error)
	Complete(ctx context.Context, actor session.Actor, bookingID uuid.UUID) (*models.DesignBooking, error)
	ToggleMilestone(ctx context.Context, actor session.Actor, bookingID uuid.UUID, index int) (*models.DesignBooking, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds the bookings service.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher}, nil
}

// Design engagement stages. Materialized the first time a booking is read
// with no milestone list.
var bookingMilestoneTemplate = []string{
	"Brief Reviewed",
	"Concept Draft",
	"Revisions",
	"Final Handover",
}

// BookingCompletedEvent is emitted when an engagement finishes.
type BookingCompletedEvent struct {
	BookingID         uuid.UUID  `json:"booking_id"`
	CustomerID        uuid.UUID  `json:"customer_id"`
	AssignedSellerID  *uuid.UUID `json:"assigned_seller_id,omitempty"`
	AgreedAmountCents *int       `json:"agreed_amount_cents,omitempty"`
}

func (s *service) Create(ctx context.Context, actor session.Actor, input CreateBookingInput) (*models.DesignBooking, error) {
	if err := actor.RequireRole(enums.ActorRoleCustomer); err != nil {
		return nil, err
	}
	if input.ServiceType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service type required")
	}

	booking := &models.DesignBooking{
		CustomerID:       actor.UserID,
		ServiceType:      input.ServiceType,
		Status:           enums.BookingStatusPending,
		StylePreferences: pq.StringArray(input.StylePreferences),
		Brief:            input.Brief,
	}
	return s.repo.Create(ctx, booking)
}

func (s *service) Get(ctx context.Context, actor session.Actor, bookingID uuid.UUID) (*models.DesignBooking, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	booking, err := s.findBooking(ctx, s.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, booking) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another party")
	}
	if len(booking.Milestones) == 0 {
		booking.Milestones = types.NewMilestoneList(bookingMilestoneTemplate)
		if err := s.repo.Update(ctx, booking.ID, map[string]any{"milestones": booking.Milestones}); err != nil {
			return nil, err
		}
	}
	return booking, nil
}

func (s *service) ListForCustomer(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.DesignBooking, error) {
	if err := actor.RequireRole(enums.ActorRoleCustomer, enums.ActorRoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, actor.UserID, params)
}

func (s *service) ListForSeller(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.DesignBooking, error) {
	if err := actor.RequireRole(enums.ActorRoleSeller, enums.ActorRoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListByAssignedSeller(ctx, actor.UserID, params)
}

func (s *service) Verify(ctx context.Context, actor session.Actor, bookingID uuid.UUID) (*models.DesignBooking, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.transition(ctx, bookingID, enums.BookingStatusVerified, nil)
}

// SendQuote appends an admin offer. The initial quote is allowed while the
// booking is exactly verified; afterwards a new admin offer requires the
// customer to have responded to the previous one.
func (s *service) SendQuote(ctx context.Context, actor session.Actor, bookingID uuid.UUID, input QuoteInput) (*models.DesignBooking, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.appendOffer(ctx, bookingID, enums.QuoteRoleAdmin, input)
}

// Counter appends a customer counter-offer to an admin quote.
func (s *service) Counter(ctx context.Context, actor session.Actor, bookingID uuid.UUID, input QuoteInput) (*models.DesignBooking, error) {
	if err := actor.RequireRole(enums.ActorRoleCustomer); err != nil {
		return nil, err
	}
	booking, err := s.findBooking(ctx, s.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
	}
	return s.appendOffer(ctx, bookingID, enums.QuoteRoleCustomer, input)
}

// Accept pins the last admin offer as the agreed amount and moves the booking
// into progress. Acceptance is not modeled as a separate history entry.
func (s *service) Accept(ctx context.Context, actor session.Actor, bookingID uuid.UUID) (*models.DesignBooking, error) {
	if err := actor.RequireRole(enums.ActorRoleCustomer); err != nil {
		return nil, err
	}

	var accepted *models.DesignBooking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := s.findBooking(ctx, repo, bookingID)
		if err != nil {
			return err
		}
		if booking.CustomerID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
		}
		if !booking.Status.CanTransition(enums.BookingStatusInProgress) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot accept a quote while booking is %s", booking.Status))
		}
		last := booking.QuotationHistory.Last()
		if last == nil || last.Role != enums.QuoteRoleAdmin {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "no admin offer awaiting acceptance")
		}

		agreed := last.AmountCents
		ok, err := repo.ReplaceQuotation(ctx, booking.ID, booking.QuotationVersion, booking.QuotationHistory, map[string]any{
			"status":              enums.BookingStatusInProgress,
			"agreed_amount_cents": agreed,
		})
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "quotation changed concurrently, retry")
		}

		accepted, err = repo.FindByID(ctx, booking.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

func (s *service) AssignPartner(ctx context.Context, actor session.Actor, bookingID, sellerID uuid.UUID) (*models.DesignBooking, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}

	var assigned *models.DesignBooking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := s.findBooking(ctx, repo, bookingID)
		if err != nil {
			return err
		}
		if !booking.Status.AllowsAssignment() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot assign a partner while booking is %s", booking.Status))
		}

		updates := map[string]any{"assigned_seller_id": sellerID}
		// assignment only advances status from verified
		if booking.Status == enums.BookingStatusVerified {
			updates["status"] = enums.BookingStatusAssigned
		}
		if err := repo.Update(ctx, booking.ID, updates); err != nil {
			return err
		}

		assigned, err = repo.FindByID(ctx, booking.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

func (s *service) Complete(ctx context.Context, actor session.Actor, bookingID uuid.UUID) (*models.DesignBooking, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}

	var completed *models.DesignBooking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := s.findBooking(ctx, repo, bookingID)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransition(enums.BookingStatusCompleted) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot complete a booking that is %s", booking.Status))
		}

		now := time.Now()
		updates := map[string]any{
			"status":       enums.BookingStatusCompleted,
			"completed_at": now,
		}
		if err := repo.Update(ctx, booking.ID, updates); err != nil {
			return err
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventBookingCompleted,
			AggregateType: enums.AggregateBooking,
			AggregateID:   booking.ID,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, Role: actor.Role.String()},
			Data: BookingCompletedEvent{
				BookingID:         booking.ID,
				CustomerID:        booking.CustomerID,
				AssignedSellerID:  booking.AssignedSellerID,
				AgreedAmountCents: booking.AgreedAmountCents,
			},
			Version: 1,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return err
		}

		completed, err = repo.FindByID(ctx, booking.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (s *service) ToggleMilestone(ctx context.Context, actor session.Actor, bookingID uuid.UUID, index int) (*models.DesignBooking, error) {
	if err := actor.RequireRole(enums.ActorRoleAdmin, enums.ActorRoleSeller); err != nil {
		return nil, err
	}

	var toggled *models.DesignBooking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := s.findBooking(ctx, repo, bookingID)
		if err != nil {
			return err
		}
		if actor.Role == enums.ActorRoleSeller &&
			(booking.AssignedSellerID == nil || *booking.AssignedSellerID != actor.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "booking is assigned to another partner")
		}

		milestones := booking.Milestones
		if len(milestones) == 0 {
			milestones = types.NewMilestoneList(bookingMilestoneTemplate)
		}
		if !milestones.Toggle(index, time.Now()) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("milestone index %d out of range", index))
		}
		if err := repo.Update(ctx, booking.ID, map[string]any{"milestones": milestones}); err != nil {
			return err
		}

		toggled, err = repo.FindByID(ctx, booking.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

// appendOffer enforces the alternating-role rule and performs the guarded
// append. Consecutive same-role offers are rejected, except the initial admin
// quote while the booking is exactly verified.
func (s *service) appendOffer(ctx context.Context, bookingID uuid.UUID, role enums.QuoteRole, input QuoteInput) (*models.DesignBooking, error) {
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer amount must be positive")
	}

	var updated *models.DesignBooking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := s.findBooking(ctx, repo, bookingID)
		if err != nil {
			return err
		}

		if err := checkOfferAllowed(booking, role); err != nil {
			return err
		}

		history := append(types.QuotationHistory{}, booking.QuotationHistory...)
		history = append(history, types.QuotationOffer{
			Role:        role,
			AmountCents: input.AmountCents,
			Notes:       input.Notes,
			Date:        time.Now(),
		})

		extra := map[string]any{}
		if booking.Status != enums.BookingStatusQuotation {
			extra["status"] = enums.BookingStatusQuotation
		}

		ok, err := repo.ReplaceQuotation(ctx, booking.ID, booking.QuotationVersion, history, extra)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "quotation changed concurrently, retry")
		}

		updated, err = repo.FindByID(ctx, booking.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func checkOfferAllowed(booking *models.DesignBooking, role enums.QuoteRole) error {
	switch booking.Status {
	case enums.BookingStatusVerified:
		// initial quote: only the admin opens the negotiation
		if role != enums.QuoteRoleAdmin {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "awaiting the initial admin quote")
		}
		return nil
	case enums.BookingStatusQuotation, enums.BookingStatusAssigned:
		if booking.QuotationHistory.TurnOf() != role {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("waiting for the %s to respond", role.Opponent()))
		}
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot negotiate while booking is %s", booking.Status))
}

func (s *service) findBooking(ctx context.Context, repo Repository, bookingID uuid.UUID) (*models.DesignBooking, error) {
	booking, err := repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, err
	}
	return booking, nil
}

func canView(actor session.Actor, booking *models.DesignBooking) bool {
	switch actor.Role {
	case enums.ActorRoleAdmin:
		return true
	case enums.ActorRoleCustomer:
		return booking.CustomerID == actor.UserID
	case enums.ActorRoleSeller:
		return booking.AssignedSellerID != nil && *booking.AssignedSellerID == actor.UserID
	}
	return false
}

func (s *service) transition(ctx context.Context, bookingID uuid.UUID, target enums.BookingStatus, extra map[string]any) (*models.DesignBooking, error) {
	var updated *models.DesignBooking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := s.findBooking(ctx, repo, bookingID)
		if err != nil {
			return err
		}
		if !booking.Status.CanTransition(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot transition booking from %s to %s", booking.Status, target))
		}

		updates := map[string]any{"status": target}
		for key, value := range extra {
			updates[key] = value
		}
		if err := repo.Update(ctx, booking.ID, updates); err != nil {
			return err
		}

		updated, err = repo.FindByID(ctx, booking.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
