package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/adewalecodes/buildbazaar-backend/pkg/enums"
	"github.com/adewalecodes/buildbazaar-backend/pkg/session"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the authenticated identity into the context.
func WithActor(ctx context.Context, userID string, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxRole, role)
}

// ActorFromContext rebuilds the session actor controllers hand to services.
// The zero actor is returned when the request is unauthenticated.
func ActorFromContext(ctx context.Context) session.Actor {
	userID, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return session.Actor{}
	}
	role, err := enums.ParseActorRole(RoleFromContext(ctx))
	if err != nil {
		return session.Actor{}
	}
	return session.Actor{UserID: userID, Role: role}
}
