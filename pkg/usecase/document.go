package usecase

import (
	"context"
	"errors"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/utils/errutil"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
)

// MaxDocumentSize is the upload limit of a single document (15 MB)
const MaxDocumentSize int64 = 15 * 1024 * 1024

var allowedContentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/jpg",
}

// IsAllowedContentType reports whether documents of the MIME type may be uploaded
func IsAllowedContentType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return slices.Contains(allowedContentTypes, strings.ToLower(strings.TrimSpace(mediaType)))
}

// DocumentUpload describes an incoming file. Size may be -1 when unknown;
// the limit is then enforced while reading Body.
type DocumentUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type DocumentUseCase struct {
	repo  interfaces.Repository
	blobs interfaces.BlobStorage
	now   func() time.Time
}

func NewDocumentUseCase(repo interfaces.Repository, blobs interfaces.BlobStorage, now func() time.Time) *DocumentUseCase {
	return &DocumentUseCase{
		repo:  repo,
		blobs: blobs,
		now:   now,
	}
}

// Upload stores the file contents and records the document. When the record
// cannot be written the stored blob is removed again.
func (uc *DocumentUseCase) Upload(ctx context.Context, clientID types.ClientID, in DocumentUpload) (*model.Document, error) {
	if uc.blobs == nil {
		return nil, goerr.Wrap(ErrStorageNotConfigured, "cannot upload document")
	}
	if err := uc.ensureClient(ctx, clientID); err != nil {
		return nil, err
	}

	name := path.Base(strings.ReplaceAll(in.Name, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil, goerr.Wrap(model.ErrMissingRequired, "document name is required", goerr.V(model.FieldKey, "name"))
	}
	if !IsAllowedContentType(in.ContentType) {
		return nil, goerr.Wrap(ErrUnsupportedFileType, "only PDF, JPEG and PNG documents are accepted",
			goerr.V(ContentTypeKey, in.ContentType))
	}
	if in.Size > MaxDocumentSize {
		return nil, goerr.Wrap(ErrFileTooLarge, "document is too large",
			goerr.V("size", in.Size), goerr.V("limit", MaxDocumentSize))
	}

	doc := &model.Document{
		ID:          types.NewDocumentID(),
		ClientID:    clientID,
		Name:        name,
		ContentType: in.ContentType,
		UploadedAt:  uc.now().UTC(),
	}
	doc.StorageKey = model.DocumentStorageKey(clientID, doc.ID, name)

	body := &limitedCounter{r: in.Body, limit: MaxDocumentSize}
	if err := uc.blobs.Put(ctx, doc.StorageKey, doc.ContentType, body); err != nil {
		if body.exceeded {
			return nil, goerr.Wrap(ErrFileTooLarge, "document is too large", goerr.V("limit", MaxDocumentSize))
		}
		return nil, goerr.Wrap(err, "failed to store document", goerr.V(ClientIDKey, clientID))
	}
	doc.Size = body.n

	created, err := uc.repo.Document().Create(ctx, doc)
	if err != nil {
		if delErr := uc.blobs.Delete(ctx, doc.StorageKey); delErr != nil {
			errutil.Handle(ctx, delErr, "failed to remove orphaned document blob")
		}
		return nil, goerr.Wrap(err, "failed to record document", goerr.V(ClientIDKey, clientID))
	}

	logging.From(ctx).Info("document uploaded",
		"client_id", clientID,
		"document_id", created.ID,
		"size", created.Size,
	)
	return created, nil
}

func (uc *DocumentUseCase) List(ctx context.Context, clientID types.ClientID) ([]*model.Document, error) {
	if err := uc.ensureClient(ctx, clientID); err != nil {
		return nil, err
	}

	docs, err := uc.repo.Document().ListByClient(ctx, clientID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents", goerr.V(ClientIDKey, clientID))
	}
	return docs, nil
}

// Open returns the document record and a reader over its contents. The caller closes the reader.
func (uc *DocumentUseCase) Open(ctx context.Context, clientID types.ClientID, id types.DocumentID) (*model.Document, io.ReadCloser, error) {
	if uc.blobs == nil {
		return nil, nil, goerr.Wrap(ErrStorageNotConfigured, "cannot open document")
	}

	doc, err := uc.get(ctx, clientID, id)
	if err != nil {
		return nil, nil, err
	}

	r, err := uc.blobs.Get(ctx, doc.StorageKey)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, nil, goerr.Wrap(ErrDocumentNotFound, "document contents are missing",
			goerr.V(DocumentIDKey, id), goerr.V("key", doc.StorageKey))
	}
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open document", goerr.V(DocumentIDKey, id))
	}
	return doc, r, nil
}

func (uc *DocumentUseCase) Delete(ctx context.Context, clientID types.ClientID, id types.DocumentID) error {
	doc, err := uc.get(ctx, clientID, id)
	if err != nil {
		return err
	}

	// blob first, so a failure leaves a record to retry with
	if uc.blobs != nil {
		if err := uc.blobs.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(err, "failed to delete document blob", goerr.V(DocumentIDKey, id))
		}
	}

	if err := uc.repo.Document().Delete(ctx, clientID, id); err != nil {
		return wrapDocumentErr(err, "failed to delete document", id)
	}
	return nil
}

func (uc *DocumentUseCase) get(ctx context.Context, clientID types.ClientID, id types.DocumentID) (*model.Document, error) {
	doc, err := uc.repo.Document().Get(ctx, clientID, id)
	if err != nil {
		return nil, wrapDocumentErr(err, "failed to get document", id)
	}
	return doc, nil
}

func (uc *DocumentUseCase) ensureClient(ctx context.Context, clientID types.ClientID) error {
	if _, err := uc.repo.Client().Get(ctx, clientID); err != nil {
		return wrapClientErr(err, "failed to get client", clientID)
	}
	return nil
}

func wrapDocumentErr(err error, msg string, id types.DocumentID) error {
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrDocumentNotFound, msg, goerr.V(DocumentIDKey, id))
	}
	return goerr.Wrap(err, msg, goerr.V(DocumentIDKey, id))
}

// limitedCounter counts bytes read and fails once more than limit bytes arrive
type limitedCounter struct {
	r        io.Reader
	limit    int64
	n        int64
	exceeded bool
}

func (l *limitedCounter) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.limit {
		l.exceeded = true
		return n, ErrFileTooLarge
	}
	return n, err
}
