package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/api/middleware"
	"github.com/adewalecodes/buildbazaar-backend/api/responses"
	"github.com/adewalecodes/buildbazaar-backend/api/validators"
	checkoutsvc "github.com/adewalecodes/buildbazaar-backend/internal/checkout"
	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
)

// Checkout splits the submitted cart into per-seller orders and places them.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]checkoutsvc.LineItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, checkoutsvc.LineItem{
				ProductID:        item.ProductID,
				Name:             item.Name,
				SellerID:         item.SellerID,
				SellerName:       item.SellerName,
				CategoryID:       item.CategoryID,
				UnitPriceCents:   item.UnitPriceCents,
				Qty:              item.Qty,
				VATCents:         item.VATCents,
				PlatformFeeCents: item.PlatformFeeCents,
			})
		}

		actor := middleware.ActorFromContext(r.Context())
		result, err := svc.Execute(r.Context(), actor, checkoutsvc.CheckoutInput{
			Items: items,
			Notes: payload.Notes,
		})
		if err != nil && (result == nil || len(result.Orders) == 0) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// partial placements still return the orders that landed
		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(result))
	}
}

type checkoutRequest struct {
	Items []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes *string               `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type checkoutItemRequest struct {
	ProductID        *uuid.UUID `json:"product_id,omitempty" validate:"omitempty,uuid4"`
	Name             string     `json:"name" validate:"required,max=255"`
	SellerID         uuid.UUID  `json:"seller_id" validate:"required,uuid4"`
	SellerName       string     `json:"seller_name" validate:"omitempty,max=255"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	UnitPriceCents   int        `json:"unit_price_cents" validate:"min=0"`
	Qty              int        `json:"qty" validate:"required,gt=0"`
	VATCents         *int       `json:"vat_cents,omitempty" validate:"omitempty,min=0"`
	PlatformFeeCents *int       `json:"platform_fee_cents,omitempty" validate:"omitempty,min=0"`
}

type checkoutResponse struct {
	Orders   []orderResponse           `json:"orders"`
	Failures []checkoutFailureResponse `json:"failures,omitempty"`
}

type checkoutFailureResponse struct {
	SellerID   uuid.UUID `json:"seller_id"`
	SellerName string    `json:"seller_name"`
	Reason     string    `json:"reason"`
}

func newCheckoutResponse(result *checkoutsvc.PlacementResult) checkoutResponse {
	resp := checkoutResponse{Orders: make([]orderResponse, 0, len(result.Orders))}
	for _, order := range result.Orders {
		resp.Orders = append(resp.Orders, newOrderResponse(order))
	}
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, checkoutFailureResponse{
			SellerID:   failure.SellerID,
			SellerName: failure.SellerName,
			Reason:     failure.Reason,
		})
	}
	return resp
}

type orderResponse struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	SellerID         uuid.UUID           `json:"seller_id"`
	SellerName       string              `json:"seller_name"`
	Status           string              `json:"status"`
	SubtotalCents    int                 `json:"subtotal_cents"`
	VATCents         int                 `json:"vat_cents"`
	PlatformFeeCents int                 `json:"platform_fee_cents"`
	TotalCents       int                 `json:"total_cents"`
	AdvanceCents     int                 `json:"advance_cents"`
	RemainingCents   int                 `json:"remaining_cents"`
	Items            []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Name           string     `json:"name"`
	UnitPriceCents int        `json:"unit_price_cents"`
	Qty            int        `json:"qty"`
	TotalCents     int        `json:"total_cents"`
}

func newOrderResponse(order models.Order) orderResponse {
	resp := orderResponse{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		SellerID:         order.SellerID,
		SellerName:       order.SellerName,
		Status:           string(order.Status),
		SubtotalCents:    order.SubtotalCents,
		VATCents:         order.VATCents,
		PlatformFeeCents: order.PlatformFeeCents,
		TotalCents:       order.TotalCents,
		AdvanceCents:     order.AdvanceCents,
		RemainingCents:   order.RemainingCents,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Qty:            item.Qty,
			TotalCents:     item.TotalCents,
		})
	}
	return resp
}
