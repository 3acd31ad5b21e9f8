package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adewalecodes/buildbazaar-backend/api/middleware"
	"github.com/adewalecodes/buildbazaar-backend/api/responses"
	"github.com/adewalecodes/buildbazaar-backend/api/validators"
	orderssvc "github.com/adewalecodes/buildbazaar-backend/internal/orders"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
	"github.com/adewalecodes/buildbazaar-backend/pkg/types"
)

// ListMyOrders returns the calling customer's product orders, newest first.
func ListMyOrders(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteSuccess(w, newOrderListResponse(rows))
	}
}

// ListSellerOrders returns orders addressed to the calling seller.
func ListSellerOrders(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteSuccess(w, newOrderListResponse(rows))
	}
}

// GetOrder returns one order with its items and milestone checklist.
func GetOrder(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.Get(r.Context(), actor, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderDetailResponse(*order))
	}
}

// AdminUpdateOrderStatus advances an order along the fulfilment chain.
func AdminUpdateOrderStatus(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.UpdateStatus(r.Context(), actor, orderID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderDetailResponse(*order))
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderDetailResponse struct {
	orderResponse
	Milestones types.MilestoneList `json:"milestones"`
	Notes      *string             `json:"notes,omitempty"`
}

func newOrderDetailResponse(order models.Order) orderDetailResponse {
	return orderDetailResponse{
		orderResponse: newOrderResponse(order),
		Milestones:    order.Milestones,
		Notes:         order.Notes,
	}
}

func newOrderListResponse(rows []models.Order) []orderResponse {
	out := make([]orderResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, newOrderResponse(row))
	}
	return out
}
