package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

type clientRepository struct {
	mu      sync.RWMutex
	clients map[types.ClientID]*model.Client
}

func newClientRepository() *clientRepository {
	return &clientRepository{
		clients: make(map[types.ClientID]*model.Client),
	}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) (*model.Client, error) {
	if err := client.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid client ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[client.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "client already exists", goerr.V("id", client.ID))
	}

	now := time.Now().UTC()
	created := client.Clone()
	created.CreatedAt = now
	created.LastUpdated = now

	r.clients[created.ID] = created
	return created.Clone(), nil
}

func (r *clientRepository) Get(ctx context.Context, id types.ClientID) (*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, exists := r.clients[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "client not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return client.Clone(), nil
}

func (r *clientRepository) List(ctx context.Context, filter model.ClientFilter) ([]*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*model.Client, 0, len(r.clients))
	for _, client := range r.clients {
		if !filter.Match(client) {
			continue
		}
		clients = append(clients, client.Clone())
	}

	slices.SortFunc(clients, func(a, b *model.Client) int {
		return cmp.Or(
			cmp.Compare(a.LastName, b.LastName),
			cmp.Compare(a.FirstName, b.FirstName),
			cmp.Compare(a.ID, b.ID),
		)
	})

	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) (*model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.clients[client.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "client not found", goerr.V("id", client.ID))
	}

	updated := client.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.LastUpdated = time.Now().UTC()

	r.clients[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *clientRepository) Delete(ctx context.Context, id types.ClientID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[id]; !exists {
		return goerr.Wrap(ErrNotFound, "client not found", goerr.V("id", id))
	}

	delete(r.clients, id)
	return nil
}
