package session

import (
	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	"github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/google/uuid"
)

// Actor is the authenticated caller for a request. Services receive it
// explicitly rather than fishing it out of the request context.
type Actor struct {
	UserID uuid.UUID
	Role   enums.ActorRole
}

// IsZero reports whether no authenticated actor is present.
func (a Actor) IsZero() bool {
	return a.UserID == uuid.Nil
}

// Require returns an unauthorized error when no actor is present.
func (a Actor) Require() error {
	if a.IsZero() {
		return errors.New(errors.CodeUnauthorized, "authentication required")
	}
	if !a.Role.IsValid() {
		return errors.New(errors.CodeUnauthorized, "unknown actor role")
	}
	return nil
}

// RequireRole ensures the actor holds one of the allowed roles.
func (a Actor) RequireRole(allowed ...enums.ActorRole) error {
	if err := a.Require(); err != nil {
		return err
	}
	for _, role := range allowed {
		if a.Role == role {
			return nil
		}
	}
	return errors.New(errors.CodeForbidden, "insufficient role")
}

// RequireAdmin ensures the actor is a platform admin.
func (a Actor) RequireAdmin() error {
	return a.RequireRole(enums.ActorRoleAdmin)
}

// QuoteRole maps the actor to its side of a quotation negotiation.
// Sellers do not participate in quotations.
func (a Actor) QuoteRole() (enums.QuoteRole, error) {
	switch a.Role {
	case enums.ActorRoleAdmin:
		return enums.QuoteRoleAdmin, nil
	case enums.ActorRoleCustomer:
		return enums.QuoteRoleCustomer, nil
	}
	return "", errors.New(errors.CodeForbidden, "role cannot participate in quotations")
}
