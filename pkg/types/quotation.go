package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
)

// QuotationOffer is one entry in a booking's append-only negotiation log.
// Offers are never mutated or removed once appended.
type QuotationOffer struct {
	Role        enums.QuoteRole `json:"role"`
	AmountCents int             `json:"amount_cents"`
	Notes       *string         `json:"notes,omitempty"`
	Date        time.Time       `json:"date"`
}

// QuotationHistory is the jsonb-persisted offer log of a booking.
type QuotationHistory []QuotationOffer

// Value marshals the offer log into JSON for Postgres.
func (q QuotationHistory) Value() (driver.Value, error) {
	if q == nil {
		return nil, nil
	}
	return json.Marshal(q)
}

// Scan decodes JSONB into the offer log.
func (q *QuotationHistory) Scan(value interface{}) error {
	if value == nil {
		*q = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("quotation history: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, q)
}

// Last returns the most recent offer, or nil when no offer exists yet.
func (q QuotationHistory) Last() *QuotationOffer {
	if len(q) == 0 {
		return nil
	}
	return &q[len(q)-1]
}

// TurnOf reports whose turn it is to respond. With no offers yet the admin
// opens the negotiation.
func (q QuotationHistory) TurnOf() enums.QuoteRole {
	last := q.Last()
	if last == nil {
		return enums.QuoteRoleAdmin
	}
	return last.Role.Opponent()
}
