package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/api/middleware"
	"github.com/adewalecodes/buildbazaar-backend/api/responses"
	"github.com/adewalecodes/buildbazaar-backend/api/validators"
	bookingssvc "github.com/adewalecodes/buildbazaar-backend/internal/bookings"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
	"github.com/adewalecodes/buildbazaar-backend/pkg/types"
)

// CreateBooking opens a design engagement for the calling customer.
func CreateBooking(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		booking, err := svc.Create(r.Context(), actor, bookingssvc.CreateBookingInput{
			ServiceType:      payload.ServiceType,
			StylePreferences: payload.StylePreferences,
			Brief:            payload.Brief,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newBookingResponse(*booking))
	}
}

// ListMyBookings returns the calling customer's design bookings.
func ListMyBookings(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		rows, err := svc.ListForCustomer(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingListResponse(rows))
	}
}

// ListAssignedBookings returns bookings assigned to the calling partner.
func ListAssignedBookings(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		rows, err := svc.ListForSeller(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingListResponse(rows))
	}
}

// GetBooking returns one booking with its negotiation log and milestones.
func GetBooking(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		booking, err := svc.Get(r.Context(), actor, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingResponse(*booking))
	}
}

// AdminVerifyBooking confirms a pending enquiry is actionable.
func AdminVerifyBooking(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		booking, err := svc.Verify(r.Context(), actor, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingResponse(*booking))
	}
}

// AdminSendQuote submits an admin offer on a booking.
func AdminSendQuote(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		booking, err := svc.SendQuote(r.Context(), actor, bookingID, bookingssvc.QuoteInput{
			AmountCents: payload.AmountCents,
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingResponse(*booking))
	}
}

// CounterQuote submits a customer counter-offer.
func CounterQuote(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		booking, err := svc.Counter(r.Context(), actor, bookingID, bookingssvc.QuoteInput{
			AmountCents: payload.AmountCents,
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingResponse(*booking))
	}
}

// AcceptQuote locks in the pending admin offer and starts the engagement.
func AcceptQuote(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		booking, err := svc.Accept(r.Context(), actor, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingResponse(*booking))
	}
}

// AdminAssignPartner attaches a design partner to the booking.
func AdminAssignPartner(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignPartnerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		booking, err := svc.AssignPartner(r.Context(), actor, bookingID, payload.SellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingResponse(*booking))
	}
}

// AdminCompleteBooking finishes an in-progress engagement.
func AdminCompleteBooking(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		booking, err := svc.Complete(r.Context(), actor, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingResponse(*booking))
	}
}

// ToggleBookingMilestone flips one checklist stage on a booking.
func ToggleBookingMilestone(svc bookingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := bookingIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "milestone index must be numeric"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		booking, err := svc.ToggleMilestone(r.Context(), actor, bookingID, index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBookingResponse(*booking))
	}
}

func bookingIDFromPath(r *http.Request) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, "bookingId"), "bookingId")
}

type createBookingRequest struct {
	ServiceType      string   `json:"service_type" validate:"required,max=100"`
	StylePreferences []string `json:"style_preferences,omitempty" validate:"omitempty,max=20,dive,max=100"`
	Brief            *string  `json:"brief,omitempty" validate:"omitempty,max=5000"`
}

type quoteRequest struct {
	AmountCents int     `json:"amount_cents" validate:"required,gt=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type assignPartnerRequest struct {
	SellerID uuid.UUID `json:"seller_id" validate:"required,uuid4"`
}

type bookingResponse struct {
	ID                uuid.UUID              `json:"id"`
	CustomerID        uuid.UUID              `json:"customer_id"`
	ServiceType       string                 `json:"service_type"`
	Status            string                 `json:"status"`
	AssignedSellerID  *uuid.UUID             `json:"assigned_seller_id,omitempty"`
	StylePreferences  []string               `json:"style_preferences,omitempty"`
	Brief             *string                `json:"brief,omitempty"`
	QuotationHistory  types.QuotationHistory `json:"quotation_history"`
	QuotationVersion  int                    `json:"quotation_version"`
	AgreedAmountCents *int                   `json:"agreed_amount_cents,omitempty"`
	Milestones        types.MilestoneList    `json:"milestones"`
	CompletedAt       *time.Time             `json:"completed_at,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
}

func newBookingResponse(booking models.DesignBooking) bookingResponse {
	return bookingResponse{
		ID:                booking.ID,
		CustomerID:        booking.CustomerID,
		ServiceType:       booking.ServiceType,
		Status:            string(booking.Status),
		AssignedSellerID:  booking.AssignedSellerID,
		StylePreferences:  []string(booking.StylePreferences),
		Brief:             booking.Brief,
		QuotationHistory:  booking.QuotationHistory,
		QuotationVersion:  booking.QuotationVersion,
		AgreedAmountCents: booking.AgreedAmountCents,
		Milestones:        booking.Milestones,
		CompletedAt:       booking.CompletedAt,
		CreatedAt:         booking.CreatedAt,
	}
}

func newBookingListResponse(rows []models.DesignBooking) []bookingResponse {
	out := make([]bookingResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, newBookingResponse(row))
	}
	return out
}
