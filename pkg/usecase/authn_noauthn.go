package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/auth"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// NoAuthnUseCase authenticates every request as a fixed operator (for development/testing)
type NoAuthnUseCase struct {
	user *model.User
}

// NewNoAuthnUseCase creates a new NoAuthnUseCase acting as the given operator with admin role
func NewNoAuthnUseCase(email, name string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		user: &model.User{
			ID:    types.UserID("00000000-0000-0000-0000-000000000000"),
			Email: email,
			Name:  name,
			Role:  types.RoleAdmin,
		},
	}
}

// Login accepts any credentials and returns an empty token
func (uc *NoAuthnUseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	return &LoginResult{User: uc.copyUser()}, nil
}

// ValidateToken always returns claims of the configured operator
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return auth.NewClaims(uc.user, time.Time{}), nil
}

func (uc *NoAuthnUseCase) Me(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	return uc.copyUser(), nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}

func (uc *NoAuthnUseCase) copyUser() *model.User {
	u := *uc.user
	return &u
}
