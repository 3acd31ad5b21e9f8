package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/api/middleware"
	"github.com/adewalecodes/buildbazaar-backend/api/responses"
	"github.com/adewalecodes/buildbazaar-backend/api/validators"
	requestssvc "github.com/adewalecodes/buildbazaar-backend/internal/requests"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
)

// CreateRequest files a general service enquiry for the calling customer.
func CreateRequest(svc requestssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createRequestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		request, err := svc.Create(r.Context(), actor, requestssvc.CreateRequestInput{
			ServiceType: payload.ServiceType,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newRequestResponse(*request))
	}
}

// ListMyRequests returns the calling customer's service requests.
func ListMyRequests(svc requestssvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		out := make([]requestResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, newRequestResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminUpdateRequestStatus advances a service request lifecycle.
func AdminUpdateRequestStatus(svc requestssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID(chi.URLParam(r, "requestId"), "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateRequestStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseRequestStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		request, err := svc.UpdateStatus(r.Context(), actor, requestID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRequestResponse(*request))
	}
}

// AdminFinalizeRequestQuote pins the billed amount on a request.
func AdminFinalizeRequestQuote(svc requestssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParsePathUUID(chi.URLParam(r, "requestId"), "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload finalizeQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		request, err := svc.FinalizeQuote(r.Context(), actor, requestID, payload.AmountCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRequestResponse(*request))
	}
}

type createRequestRequest struct {
	ServiceType string  `json:"service_type" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

type updateRequestStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type finalizeQuoteRequest struct {
	AmountCents int `json:"amount_cents" validate:"required,gt=0"`
}

type requestResponse struct {
	ID                uuid.UUID `json:"id"`
	RequestNumber     string    `json:"request_number"`
	CustomerID        uuid.UUID `json:"customer_id"`
	ServiceType       string    `json:"service_type"`
	Description       *string   `json:"description,omitempty"`
	Status            string    `json:"status"`
	QuotedAmountCents *int      `json:"quoted_amount_cents,omitempty"`
	QuoteFinalized    bool      `json:"quote_finalized"`
	CreatedAt         time.Time `json:"created_at"`
}

func newRequestResponse(request models.ServiceRequest) requestResponse {
	return requestResponse{
		ID:                request.ID,
		RequestNumber:     request.RequestNumber,
		CustomerID:        request.CustomerID,
		ServiceType:       request.ServiceType,
		Description:       request.Description,
		Status:            string(request.Status),
		QuotedAmountCents: request.QuotedAmountCents,
		QuoteFinalized:    request.QuoteFinalized,
		CreatedAt:         request.CreatedAt,
	}
}
