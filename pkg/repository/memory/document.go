package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

type documentRepository struct {
	mu        sync.RWMutex
	documents map[types.ClientID]map[types.DocumentID]*model.Document
}

func newDocumentRepository() *documentRepository {
	return &documentRepository{
		documents: make(map[types.ClientID]map[types.DocumentID]*model.Document),
	}
}

func copyDocument(doc *model.Document) *model.Document {
	copied := *doc
	return &copied
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := doc.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid document ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byClient, ok := r.documents[doc.ClientID]
	if !ok {
		byClient = make(map[types.DocumentID]*model.Document)
		r.documents[doc.ClientID] = byClient
	}
	if _, exists := byClient[doc.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "document already exists", goerr.V("id", doc.ID))
	}

	created := copyDocument(doc)
	if created.UploadedAt.IsZero() {
		created.UploadedAt = time.Now().UTC()
	}
	byClient[created.ID] = created

	return copyDocument(created), nil
}

func (r *documentRepository) Get(ctx context.Context, clientID types.ClientID, id types.DocumentID) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.documents[clientID][id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "document not found",
			goerr.V("client_id", clientID), goerr.V("id", id))
	}

	return copyDocument(doc), nil
}

func (r *documentRepository) ListByClient(ctx context.Context, clientID types.ClientID) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*model.Document, 0, len(r.documents[clientID]))
	for _, doc := range r.documents[clientID] {
		docs = append(docs, copyDocument(doc))
	}

	slices.SortFunc(docs, func(a, b *model.Document) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})

	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, clientID types.ClientID, id types.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.documents[clientID][id]; !exists {
		return goerr.Wrap(ErrNotFound, "document not found",
			goerr.V("client_id", clientID), goerr.V("id", id))
	}

	delete(r.documents[clientID], id)
	return nil
}

func (r *documentRepository) DeleteByClient(ctx context.Context, clientID types.ClientID) ([]*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := make([]*model.Document, 0, len(r.documents[clientID]))
	for _, doc := range r.documents[clientID] {
		removed = append(removed, doc)
	}
	delete(r.documents, clientID)

	return removed, nil
}
