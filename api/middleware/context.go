package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxRole     contextKey = "actor_role"
	ctxUsername contextKey = "username"
	ctxAccessID contextKey = "access_id"
)

func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUserID)
}

// UserUUIDFromContext returns the authenticated user id, or false for
// anonymous requests.
func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	return enums.UserRole(stringValue(ctx, ctxRole))
}

func UsernameFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUsername)
}

// AccessIDFromContext returns the session id (jti) of the bearer token.
func AccessIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxAccessID)
}

// IsStaff reports whether the caller is an admin or a veterinarian.
func IsStaff(ctx context.Context) bool {
	role := RoleFromContext(ctx)
	return role == enums.UserRoleAdmin || role == enums.UserRoleVeterinarian
}

// WithIdentity seeds the context the way Auth does. Tests use it directly.
func WithIdentity(ctx context.Context, userID uuid.UUID, role enums.UserRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID.String())
	return context.WithValue(ctx, ctxRole, string(role))
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
