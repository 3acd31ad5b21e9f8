package enums

import "fmt"

// QuoteRole identifies which side of a quotation negotiation authored an offer.
type QuoteRole string

const (
	QuoteRoleAdmin    QuoteRole = "admin"
	QuoteRoleCustomer QuoteRole = "customer"
)

// String implements fmt.Stringer.
func (q QuoteRole) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuoteRole.
func (q QuoteRole) IsValid() bool {
	return q == QuoteRoleAdmin || q == QuoteRoleCustomer
}

// Opponent returns the role expected to respond to an offer from this role.
func (q QuoteRole) Opponent() QuoteRole {
	if q == QuoteRoleAdmin {
		return QuoteRoleCustomer
	}
	return QuoteRoleAdmin
}

// ParseQuoteRole converts raw input into a QuoteRole.
func ParseQuoteRole(value string) (QuoteRole, error) {
	switch QuoteRole(value) {
	case QuoteRoleAdmin, QuoteRoleCustomer:
		return QuoteRole(value), nil
	}
	return "", fmt.Errorf("invalid quote role %q", value)
}
