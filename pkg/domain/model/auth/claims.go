package auth

import (
	"context"
	"time"

	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// Claims identifies the authenticated operator of a request
type Claims struct {
	UserID    types.UserID
	Email     string
	Name      string
	Role      types.Role
	ExpiresAt time.Time
}

// NewClaims builds claims for a user, valid until expiresAt
func NewClaims(user *model.User, expiresAt time.Time) *Claims {
	return &Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role.Normalize(),
		ExpiresAt: expiresAt,
	}
}

// IsAdmin reports whether the operator has the admin role
func (c *Claims) IsAdmin() bool {
	return c.Role == types.RoleAdmin
}

// IsExpired reports whether the claims are no longer valid at now
func (c *Claims) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type ctxClaimsKey struct{}

// ContextWithClaims stores claims in the context
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxClaimsKey{}, claims)
}

// ClaimsFromContext retrieves claims stored by ContextWithClaims
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ctxClaimsKey{}).(*Claims)
	return claims, ok && claims != nil
}
