package interfaces

import (
	"context"

	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

type ClientRepository interface {
	// Create stores a new client. The ID must already be set.
	Create(ctx context.Context, client *model.Client) (*model.Client, error)

	// Get retrieves a client by ID
	Get(ctx context.Context, id types.ClientID) (*model.Client, error)

	// List retrieves clients matching the filter, ordered by last name then first name
	List(ctx context.Context, filter model.ClientFilter) ([]*model.Client, error)

	// Update replaces an existing client
	Update(ctx context.Context, client *model.Client) (*model.Client, error)

	// Delete deletes a client by ID
	Delete(ctx context.Context, id types.ClientID) error
}
