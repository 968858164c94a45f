package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

type userRepository struct {
	mu      sync.RWMutex
	users   map[types.UserID]*model.User
	byEmail map[string]types.UserID
}

func newUserRepository() *userRepository {
	return &userRepository{
		users:   make(map[types.UserID]*model.User),
		byEmail: make(map[string]types.UserID),
	}
}

func copyUser(u *model.User) *model.User {
	copied := *u
	return &copied
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if err := user.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "user email already registered", goerr.V("email", user.Email))
	}
	if _, exists := r.users[user.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "user already exists", goerr.V("id", user.ID))
	}

	created := copyUser(user)
	created.Email = email
	created.CreatedAt = time.Now().UTC()

	r.users[created.ID] = created
	r.byEmail[email] = created.ID

	return copyUser(created), nil
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	return copyUser(user), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[strings.ToLower(email)]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("email", email))
	}
	return copyUser(r.users[id]), nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, copyUser(u))
	}
	slices.SortFunc(users, func(a, b *model.User) int {
		return cmp.Compare(a.Email, b.Email)
	})
	return users, nil
}
