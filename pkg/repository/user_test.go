package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

func runUserRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create Get and GetByEmail", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		u := &model.User{
			ID:           types.NewUserID(),
			Email:        "Officer@Example.com",
			PasswordHash: "$2a$10$hash",
			Name:         "Officer",
			Role:         types.RoleComplianceOfficer,
		}
		created, err := repo.User().Create(ctx, u)
		gt.NoError(t, err).Required()
		gt.Value(t, created.Email).Equal("officer@example.com")

		got, err := repo.User().Get(ctx, u.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Officer")
		gt.Value(t, got.Role).Equal(types.RoleComplianceOfficer)

		byEmail, err := repo.User().GetByEmail(ctx, "OFFICER@example.com")
		gt.NoError(t, err).Required()
		gt.Value(t, byEmail.ID).Equal(u.ID)
		gt.Value(t, byEmail.PasswordHash).Equal("$2a$10$hash")
	})

	t.Run("Create rejects duplicate email", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.User().Create(ctx, &model.User{ID: types.NewUserID(), Email: "admin@kyclytics.com", Role: types.RoleAdmin})
		gt.NoError(t, err).Required()

		_, err = repo.User().Create(ctx, &model.User{ID: types.NewUserID(), Email: "ADMIN@kyclytics.com", Role: types.RoleAdmin})
		gt.Error(t, err).Is(interfaces.ErrAlreadyExists)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.User().Get(ctx, types.NewUserID())
		gt.Error(t, err).Is(interfaces.ErrNotFound)

		_, err = repo.User().GetByEmail(ctx, "nobody@example.com")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("List", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, email := range []string{"b@example.com", "a@example.com"} {
			_, err := repo.User().Create(ctx, &model.User{ID: types.NewUserID(), Email: email, Role: types.RoleComplianceOfficer})
			gt.NoError(t, err).Required()
		}

		users, err := repo.User().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, users).Length(2)
		gt.Value(t, users[0].Email).Equal("a@example.com")
	})
}

func TestUserRepository(t *testing.T) {
	runBothBackends(t, runUserRepositoryTest)
}
