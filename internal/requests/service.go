package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/pagination"
	"github.com/adewalecodes/buildbazaar-backend/pkg/session"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateRequestInput captures a customer's general service enquiry.
type CreateRequestInput struct {
	ServiceType string
	Description *string
}

// Service defines service request operations.
type Service interface {
	Create(ctx context.Context, actor session.Actor, input CreateRequestInput) (*models.ServiceRequest, error)
	Get(ctx context.Context, actor session.Actor, requestID uuid.UUID) (*models.ServiceRequest, error)
	ListForCustomer(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, actor session.Actor, requestID uuid.UUID, target enums.RequestStatus) (*models.ServiceRequest, error)
	FinalizeQuote(ctx context.Context, actor session.Actor, requestID uuid.UUID, amountCents int) (*models.ServiceRequest, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the requests service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

const requestNumberPrefix = "REQ"

// NewRequestNumber produces a human-readable request number.
func NewRequestNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("%s-%s-%s", requestNumberPrefix, time.Now().UTC().Format("20060102"), suffix)
}

func (s *service) Create(ctx context.Context, actor session.Actor, input CreateRequestInput) (*models.ServiceRequest, error) {
	if err := actor.RequireRole(enums.ActorRoleCustomer); err != nil {
		return nil, err
	}
	if input.ServiceType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service type required")
	}

	request := &models.ServiceRequest{
		RequestNumber: NewRequestNumber(),
		CustomerID:    actor.UserID,
		ServiceType:   input.ServiceType,
		Description:   input.Description,
		Status:        enums.RequestStatusSubmitted,
	}
	return s.repo.Create(ctx, request)
}

func (s *service) Get(ctx context.Context, actor session.Actor, requestID uuid.UUID) (*models.ServiceRequest, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	request, err := s.findRequest(ctx, s.repo, requestID)
	if err != nil {
		return nil, err
	}
	if actor.Role != enums.ActorRoleAdmin && request.CustomerID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request belongs to another customer")
	}
	return request, nil
}

func (s *service) ListForCustomer(ctx context.Context, actor session.Actor, params pagination.Params) ([]models.ServiceRequest, error) {
	if err := actor.RequireRole(enums.ActorRoleCustomer, enums.ActorRoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, actor.UserID, params)
}

func (s *service) UpdateStatus(ctx context.Context, actor session.Actor, requestID uuid.UUID, target enums.RequestStatus) (*models.ServiceRequest, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid request status %q", target))
	}

	var updated *models.ServiceRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := s.findRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}
		if !request.Status.CanTransition(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot transition request from %s to %s", request.Status, target))
		}
		if err := repo.Update(ctx, request.ID, map[string]any{"status": target}); err != nil {
			return err
		}

		updated, err = repo.FindByID(ctx, request.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FinalizeQuote pins the billed amount for a request. Until this call the
// request carries no amount and reporting treats it as unpriced.
func (s *service) FinalizeQuote(ctx context.Context, actor session.Actor, requestID uuid.UUID, amountCents int) (*models.ServiceRequest, error) {
	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quoted amount must be positive")
	}

	var updated *models.ServiceRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := s.findRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}
		if request.Status == enums.RequestStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot quote a cancelled request")
		}
		if request.QuoteFinalized {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quote already finalized")
		}

		updates := map[string]any{
			"quoted_amount_cents": amountCents,
			"quote_finalized":     true,
		}
		if err := repo.Update(ctx, request.ID, updates); err != nil {
			return err
		}

		updated, err = repo.FindByID(ctx, request.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) findRequest(ctx context.Context, repo Repository, requestID uuid.UUID) (*models.ServiceRequest, error) {
	request, err := repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, err
	}
	return request, nil
}
