package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
)

func TestNoAuthnUseCase(t *testing.T) {
	ctx := context.Background()
	email := "dev@example.com"
	name := "Dev User"

	uc := usecase.NewNoAuthnUseCase(email, name)

	t.Run("ValidateToken returns configured user", func(t *testing.T) {
		claims, err := uc.ValidateToken(ctx, "")
		gt.NoError(t, err).Required()
		gt.V(t, claims.Email).Equal(email)
		gt.V(t, claims.Name).Equal(name)
		gt.V(t, claims.Role).Equal(types.RoleAdmin)
	})

	t.Run("Login accepts any credentials", func(t *testing.T) {
		result, err := uc.Login(ctx, "someone@else.com", "whatever")
		gt.NoError(t, err).Required()
		gt.V(t, result.User.Email).Equal(email)
		gt.V(t, result.Token).Equal("")
	})

	t.Run("Me returns configured user", func(t *testing.T) {
		user, err := uc.Me(ctx, nil)
		gt.NoError(t, err).Required()
		gt.V(t, user.Name).Equal(name)
	})

	t.Run("IsNoAuthn returns true", func(t *testing.T) {
		gt.Bool(t, uc.IsNoAuthn()).True()
	})
}

func TestNoAuthnUseCaseImplementsInterface(t *testing.T) {
	var _ usecase.AuthUseCaseInterface = usecase.NewNoAuthnUseCase("e", "n")
	var _ usecase.AuthUseCaseInterface = &usecase.AuthUseCase{}
}
