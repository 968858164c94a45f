package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"golang.org/x/crypto/bcrypt"
)

// UserInput describes an operator account to create
type UserInput struct {
	Email    string
	Password string `masq:"secret"`
	Name     string
	Role     types.Role
}

type UserUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewUserUseCase(repo interfaces.Repository, now func() time.Time) *UserUseCase {
	return &UserUseCase{
		repo: repo,
		now:  now,
	}
}

// CreateUser hashes the password with bcrypt and stores the account
func (uc *UserUseCase) CreateUser(ctx context.Context, in UserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, goerr.Wrap(model.ErrMissingRequired, "email is required", goerr.V(model.FieldKey, "email"))
	}
	if in.Password == "" {
		return nil, goerr.Wrap(model.ErrMissingRequired, "password is required", goerr.V(model.FieldKey, "password"))
	}
	role := in.Role.Normalize()
	if !role.IsValid() {
		return nil, goerr.New("invalid role", goerr.V("role", in.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	user := &model.User{
		ID:           types.NewUserID(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
		CreatedAt:    uc.now().UTC(),
	}

	created, err := uc.repo.User().Create(ctx, user)
	if errors.Is(err, interfaces.ErrAlreadyExists) {
		return nil, goerr.Wrap(ErrEmailTaken, "failed to create user", goerr.V(EmailKey, email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V(EmailKey, email))
	}
	return created, nil
}

// EnsureUser returns the account registered under the email, creating it when absent.
// The password of an existing account is left unchanged.
func (uc *UserUseCase) EnsureUser(ctx context.Context, in UserInput) (*model.User, bool, error) {
	existing, err := uc.repo.User().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, false, goerr.Wrap(err, "failed to look up user", goerr.V(EmailKey, in.Email))
	}

	created, err := uc.CreateUser(ctx, in)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
