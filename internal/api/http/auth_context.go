package httpapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/team-portal/portal/internal/domain/user"
)

type authContextKey string

const authUserKey authContextKey = "authUser"

// AuthUser represents the authenticated member in context.
type AuthUser struct {
	UserID uuid.UUID
	Email  string
	Roles  []user.Role
}

func (u AuthUser) HasAnyRole(roles map[user.Role]struct{}) bool {
	for _, r := range u.Roles {
		if _, ok := roles[r]; ok {
			return true
		}
	}
	return false
}

func withAuthUser(ctx context.Context, u *AuthUser) context.Context {
	if u == nil {
		return ctx
	}
	return context.WithValue(ctx, authUserKey, u)
}

func authUserFromContext(ctx context.Context) *AuthUser {
	val := ctx.Value(authUserKey)
	if v, ok := val.(*AuthUser); ok {
		return v
	}
	return nil
}
