package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
	"golang.org/x/crypto/bcrypt"
)

func TestUserUseCase_CreateUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	user, err := env.uc.User.CreateUser(ctx, usecase.UserInput{
		Email:    " Officer@Example.com ",
		Password: "s3cret",
		Name:     "Officer",
	})
	gt.NoError(t, err).Required()
	gt.V(t, user.Email).Equal("officer@example.com")
	gt.V(t, user.Role).Equal(types.RoleComplianceOfficer)
	gt.V(t, user.PasswordHash).NotEqual("s3cret")
	gt.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))

	_, err = env.uc.User.CreateUser(ctx, usecase.UserInput{Email: "officer@example.com", Password: "other"})
	gt.Error(t, err).Is(usecase.ErrEmailTaken)

	_, err = env.uc.User.CreateUser(ctx, usecase.UserInput{Email: "x@example.com"})
	gt.Error(t, err).Is(model.ErrMissingRequired)

	_, err = env.uc.User.CreateUser(ctx, usecase.UserInput{Email: "y@example.com", Password: "p", Role: "ROOT"})
	gt.Error(t, err)
}

func TestUserUseCase_EnsureUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	in := usecase.UserInput{Email: "admin@kyclytics.com", Password: "admin123", Name: "Admin", Role: types.RoleAdmin}

	first, created, err := env.uc.User.EnsureUser(ctx, in)
	gt.NoError(t, err).Required()
	gt.B(t, created).True()

	in.Password = "changed"
	second, created, err := env.uc.User.EnsureUser(ctx, in)
	gt.NoError(t, err).Required()
	gt.B(t, created).False()
	gt.V(t, second.ID).Equal(first.ID)
	gt.V(t, second.PasswordHash).Equal(first.PasswordHash)
}
