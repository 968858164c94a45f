package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CollectionDocuments is the base name of the documents collection
const CollectionDocuments = "documents"

type documentDoc struct {
	ID          string    `firestore:"ID"`
	ClientID    string    `firestore:"ClientID"`
	Name        string    `firestore:"Name"`
	ContentType string    `firestore:"ContentType"`
	Size        int64     `firestore:"Size"`
	StorageKey  string    `firestore:"StorageKey"`
	UploadedAt  time.Time `firestore:"UploadedAt"`
}

func toDocumentDoc(d *model.Document) *documentDoc {
	return &documentDoc{
		ID:          d.ID.String(),
		ClientID:    d.ClientID.String(),
		Name:        d.Name,
		ContentType: d.ContentType,
		Size:        d.Size,
		StorageKey:  d.StorageKey,
		UploadedAt:  d.UploadedAt,
	}
}

func (d *documentDoc) toModel() *model.Document {
	return &model.Document{
		ID:          types.DocumentID(d.ID),
		ClientID:    types.ClientID(d.ClientID),
		Name:        d.Name,
		ContentType: d.ContentType,
		Size:        d.Size,
		StorageKey:  d.StorageKey,
		UploadedAt:  d.UploadedAt,
	}
}

type documentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDocumentRepository(client *firestore.Client) *documentRepository {
	return &documentRepository{
		client: client,
	}
}

func (r *documentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, CollectionDocuments))
}

func (r *documentRepository) Create(ctx context.Context, d *model.Document) (*model.Document, error) {
	if err := d.ID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid document ID")
	}

	created := *d
	if created.UploadedAt.IsZero() {
		created.UploadedAt = time.Now().UTC()
	}

	if _, err := r.collection().Doc(created.ID.String()).Create(ctx, toDocumentDoc(&created)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(ErrAlreadyExists, "document already exists", goerr.V("id", d.ID))
		}
		return nil, goerr.Wrap(err, "failed to create document", goerr.V("id", d.ID))
	}

	return &created, nil
}

func (r *documentRepository) Get(ctx context.Context, clientID types.ClientID, id types.DocumentID) (*model.Document, error) {
	docSnap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "document not found",
				goerr.V("client_id", clientID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	var doc documentDoc
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode document", goerr.V("id", id))
	}

	// a document of another client is reported as absent
	if doc.ClientID != clientID.String() {
		return nil, goerr.Wrap(ErrNotFound, "document not found",
			goerr.V("client_id", clientID), goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *documentRepository) ListByClient(ctx context.Context, clientID types.ClientID) ([]*model.Document, error) {
	iter := r.collection().
		Where("ClientID", "==", clientID.String()).
		OrderBy("UploadedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	docs := []*model.Document{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents", goerr.V("client_id", clientID))
		}

		var doc documentDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("doc_id", docSnap.Ref.ID))
		}
		docs = append(docs, doc.toModel())
	}

	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, clientID types.ClientID, id types.DocumentID) error {
	if _, err := r.Get(ctx, clientID, id); err != nil {
		return err
	}

	if _, err := r.collection().Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("id", id))
	}
	return nil
}

func (r *documentRepository) DeleteByClient(ctx context.Context, clientID types.ClientID) ([]*model.Document, error) {
	docs, err := r.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return docs, nil
	}

	bw := r.client.BulkWriter(ctx)
	jobs := make([]bulkJob, 0, len(docs))
	for _, d := range docs {
		job, err := bw.Delete(r.collection().Doc(d.ID.String()))
		if err != nil {
			bw.End()
			return nil, goerr.Wrap(err, "failed to enqueue document deletion", goerr.V("id", d.ID))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	return deletedDocuments(docs, jobs)
}

type bulkJob interface {
	Results() (*firestore.WriteResult, error)
}

// deletedDocuments keeps the documents whose bulk delete succeeded. When any
// delete failed it returns them along with the first error, so the caller can
// still clean up after the part that went through.
func deletedDocuments(docs []*model.Document, jobs []bulkJob) ([]*model.Document, error) {
	deleted := make([]*model.Document, 0, len(docs))
	var firstErr error
	failed := 0
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			failed++
			if firstErr == nil {
				firstErr = goerr.Wrap(err, "failed to delete document", goerr.V("id", docs[i].ID))
			}
			continue
		}
		deleted = append(deleted, docs[i])
	}
	if firstErr != nil {
		return deleted, goerr.Wrap(firstErr, "bulk document deletion incomplete", goerr.V("failed", failed))
	}
	return deleted, nil
}
