package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adewalecodes/buildbazaar-backend/pkg/config"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
)

// LineItem is one cart row entering checkout. Amount fields are integer
// minor units. VATCents/PlatformFeeCents are optional pre-attached amounts;
// when any item in a seller group lacks them the group's amounts are derived
// from the configured rates instead.
type LineItem struct {
	ProductID        *uuid.UUID
	Name             string
	SellerID         uuid.UUID
	SellerName       string
	CategoryID       *uuid.UUID
	UnitPriceCents   int
	Qty              int
	VATCents         *int
	PlatformFeeCents *int
}

// SubOrderItem is a line item with its settled per-line amounts.
type SubOrderItem struct {
	ProductID        *uuid.UUID
	Name             string
	CategoryID       *uuid.UUID
	UnitPriceCents   int
	Qty              int
	VATCents         int
	PlatformFeeCents int
	TotalCents       int
}

// SubOrder is the slice of a cart belonging to one seller, with its full
// financial breakdown.
type SubOrder struct {
	SellerID         uuid.UUID
	SellerName       string
	OrderNumber      string
	Items            []SubOrderItem
	SubtotalCents    int
	VATCents         int
	PlatformFeeCents int
	TotalCents       int
	AdvanceCents     int
	RemainingCents   int
}

const orderNumberPrefix = "ORD"

// Partition splits a cart into one sub-order per seller, preserving the
// first-seen seller order and the relative item order within each group.
// It has no side effects beyond generating order numbers.
func Partition(items []LineItem, rates config.CheckoutRates) ([]SubOrder, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	for i, item := range items {
		if item.SellerID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d missing seller id", i))
		}
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d quantity must be positive", i))
		}
		if item.UnitPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d unit price must not be negative", i))
		}
	}

	sellerOrder := make([]uuid.UUID, 0, len(items))
	grouped := make(map[uuid.UUID][]LineItem, len(items))
	for _, item := range items {
		if _, seen := grouped[item.SellerID]; !seen {
			sellerOrder = append(sellerOrder, item.SellerID)
		}
		grouped[item.SellerID] = append(grouped[item.SellerID], item)
	}

	subOrders := make([]SubOrder, 0, len(sellerOrder))
	for _, sellerID := range sellerOrder {
		subOrders = append(subOrders, buildSubOrder(sellerID, grouped[sellerID], rates))
	}
	return subOrders, nil
}

func buildSubOrder(sellerID uuid.UUID, items []LineItem, rates config.CheckoutRates) SubOrder {
	attached := true
	for _, item := range items {
		if item.VATCents == nil || item.PlatformFeeCents == nil {
			attached = false
			break
		}
	}

	sub := SubOrder{
		SellerID:    sellerID,
		SellerName:  items[0].SellerName,
		OrderNumber: NewOrderNumber(),
		Items:       make([]SubOrderItem, 0, len(items)),
	}

	for _, item := range items {
		lineSubtotal := item.UnitPriceCents * item.Qty
		var vat, fee int
		if attached {
			vat = *item.VATCents
			fee = *item.PlatformFeeCents
		} else {
			vat = applyRate(lineSubtotal, rates.VAT)
			fee = applyRate(lineSubtotal, rates.PlatformFee)
		}
		sub.Items = append(sub.Items, SubOrderItem{
			ProductID:        item.ProductID,
			Name:             item.Name,
			CategoryID:       item.CategoryID,
			UnitPriceCents:   item.UnitPriceCents,
			Qty:              item.Qty,
			VATCents:         vat,
			PlatformFeeCents: fee,
			TotalCents:       lineSubtotal + vat + fee,
		})
		sub.SubtotalCents += lineSubtotal
		sub.VATCents += vat
		sub.PlatformFeeCents += fee
	}

	sub.TotalCents = sub.SubtotalCents + sub.VATCents + sub.PlatformFeeCents
	sub.AdvanceCents = applyRate(sub.TotalCents, rates.Advance)
	// remaining is derived, never independently rounded, so the two always
	// sum back to the total.
	sub.RemainingCents = sub.TotalCents - sub.AdvanceCents
	return sub
}

// applyRate multiplies an integer cent amount by a decimal rate, rounding
// half away from zero to the nearest cent.
func applyRate(cents int, rate decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(cents)).Mul(rate).Round(0).IntPart())
}

// NewOrderNumber produces a human-readable order number. Uniqueness only
// needs to hold within the practical collision window.
func NewOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, time.Now().UTC().Format("20060102"), suffix)
}
