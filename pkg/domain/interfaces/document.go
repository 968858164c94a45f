package interfaces

import (
	"context"

	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)
	Get(ctx context.Context, clientID types.ClientID, id types.DocumentID) (*model.Document, error)

	// ListByClient returns documents of a client, newest upload first
	ListByClient(ctx context.Context, clientID types.ClientID) ([]*model.Document, error)

	Delete(ctx context.Context, clientID types.ClientID, id types.DocumentID) error

	// DeleteByClient removes every document record of a client and returns the removed records.
	// On a partial failure it returns the records that were removed together with the error.
	DeleteByClient(ctx context.Context, clientID types.ClientID) ([]*model.Document, error)
}
