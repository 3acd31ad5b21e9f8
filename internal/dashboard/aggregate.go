package dashboard

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/pkg/db/models"
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
)

// UnifiedRecord is the normalized row every dashboard screen renders,
// regardless of which domain the record came from.
type UnifiedRecord struct {
	ID          uuid.UUID         `json:"id"`
	Type        enums.RecordType  `json:"type"`
	Number      string            `json:"number"`
	Title       string            `json:"title"`
	Status      string            `json:"status"`
	StatusGroup enums.StatusGroup `json:"status_group"`
	AmountCents *int              `json:"amount_cents,omitempty"`
	Date        time.Time         `json:"date"`
	Link        string            `json:"link"`
}

// Query narrows the unified feed. Zero values mean no filtering.
type Query struct {
	Type        enums.RecordType
	StatusGroup enums.StatusGroup
	Search      string
}

func normalizeOrder(order models.Order) (UnifiedRecord, bool) {
	if order.ID == uuid.Nil || order.OrderNumber == "" {
		return UnifiedRecord{}, false
	}
	amount := order.TotalCents
	return UnifiedRecord{
		ID:          order.ID,
		Type:        enums.RecordTypeProduct,
		Number:      order.OrderNumber,
		Title:       "Product Purchase",
		Status:      order.Status.String(),
		StatusGroup: enums.StatusGroupFor(order.Status.String()),
		AmountCents: &amount,
		Date:        order.CreatedAt,
		Link:        "/orders/" + order.ID.String(),
	}, true
}

func normalizeBooking(booking models.DesignBooking) (UnifiedRecord, bool) {
	if booking.ID == uuid.Nil || booking.ServiceType == "" {
		return UnifiedRecord{}, false
	}
	// bookings carry no human number, the id prefix stands in
	number := strings.ToUpper(strings.ReplaceAll(booking.ID.String(), "-", ""))[:8]
	record := UnifiedRecord{
		ID:          booking.ID,
		Type:        enums.RecordTypeDesign,
		Number:      number,
		Title:       titleCase(booking.ServiceType) + " Design",
		Status:      booking.Status.String(),
		StatusGroup: enums.StatusGroupFor(booking.Status.String()),
		Date:        booking.CreatedAt,
		Link:        "/bookings/" + booking.ID.String(),
	}
	// amounts stay hidden until the negotiation settles
	if booking.AgreedAmountCents != nil {
		amount := *booking.AgreedAmountCents
		record.AmountCents = &amount
	}
	return record, true
}

func normalizeRequest(request models.ServiceRequest) (UnifiedRecord, bool) {
	if request.ID == uuid.Nil || request.RequestNumber == "" {
		return UnifiedRecord{}, false
	}
	record := UnifiedRecord{
		ID:          request.ID,
		Type:        enums.RecordTypeService,
		Number:      request.RequestNumber,
		Title:       titleCase(request.ServiceType),
		Status:      request.Status.String(),
		StatusGroup: enums.StatusGroupFor(request.Status.String()),
		Date:        request.CreatedAt,
		Link:        "/requests/" + request.ID.String(),
	}
	if request.QuoteFinalized && request.QuotedAmountCents != nil {
		amount := *request.QuotedAmountCents
		record.AmountCents = &amount
	}
	return record, true
}

// sortRecords orders the feed newest first. Records with equal dates keep
// the order their sources returned them in.
func sortRecords(records []UnifiedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

func matchesQuery(record UnifiedRecord, query Query) bool {
	if query.Type != "" && query.Type != enums.RecordTypeAll && record.Type != query.Type {
		return false
	}
	if query.StatusGroup != "" && query.StatusGroup != enums.StatusGroupAll && record.StatusGroup != query.StatusGroup {
		return false
	}
	if query.Search != "" {
		needle := strings.ToLower(query.Search)
		if !strings.Contains(strings.ToLower(record.Number), needle) &&
			!strings.Contains(strings.ToLower(record.Status), needle) &&
			!strings.Contains(strings.ToLower(record.Title), needle) {
			return false
		}
	}
	return true
}

func titleCase(value string) string {
	words := strings.Fields(strings.ReplaceAll(value, "_", " "))
	for i, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(first)) + word[size:]
	}
	return strings.Join(words, " ")
}
