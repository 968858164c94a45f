package interfaces

import (
	"context"

	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

type UserRepository interface {
	// Create stores a new user. Emails are unique.
	Create(ctx context.Context, user *model.User) (*model.User, error)
	Get(ctx context.Context, id types.UserID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}
