package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
)

type Firestore struct {
	client     *firestore.Client
	clientRepo *clientRepository
	document   *documentRepository
	riskConfig *riskConfigRepository
	user       *userRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix isolates every collection under a prefix, e.g. for tests
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.clientRepo.collectionPrefix = prefix
		f.document.collectionPrefix = prefix
		f.riskConfig.collectionPrefix = prefix
		f.user.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var (
		client *firestore.Client
		err    error
	)
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		clientRepo: newClientRepository(client),
		document:   newDocumentRepository(client),
		riskConfig: newRiskConfigRepository(client),
		user:       newUserRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Client() interfaces.ClientRepository {
	return f.clientRepo
}

func (f *Firestore) Document() interfaces.DocumentRepository {
	return f.document
}

func (f *Firestore) RiskConfig() interfaces.RiskConfigRepository {
	return f.riskConfig
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// CollectionName returns the collection name under an optional prefix
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}
