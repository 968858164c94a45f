package usecase

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/risk"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// ClientQuery filters a client listing. Status is derived at query time, so it
// is applied here rather than in the repository.
type ClientQuery struct {
	model.ClientFilter
	Status types.ReviewStatus
}

type ClientUseCase struct {
	repo       interfaces.Repository
	riskConfig *RiskConfigUseCase
	blobs      interfaces.BlobStorage
	now        func() time.Time
}

func NewClientUseCase(repo interfaces.Repository, riskConfig *RiskConfigUseCase, blobs interfaces.BlobStorage, now func() time.Time) *ClientUseCase {
	return &ClientUseCase{
		repo:       repo,
		riskConfig: riskConfig,
		blobs:      blobs,
		now:        now,
	}
}

func (uc *ClientUseCase) CreateClient(ctx context.Context, in model.ClientInput) (*model.Client, error) {
	if err := in.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid client input")
	}

	client := &model.Client{ID: types.NewClientID()}
	client.ApplyInput(in)
	if err := uc.assess(ctx, client); err != nil {
		return nil, err
	}

	created, err := uc.repo.Client().Create(ctx, client)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create client")
	}

	logging.From(ctx).Info("client created",
		"client_id", created.ID,
		"band", created.Band,
		"score", created.Score,
	)
	return created, nil
}

// UpdateClient replaces the editable fields and re-scores the client
func (uc *ClientUseCase) UpdateClient(ctx context.Context, id types.ClientID, in model.ClientInput) (*model.Client, error) {
	if err := in.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid client input", goerr.V(ClientIDKey, id))
	}

	client, err := uc.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	client.ApplyInput(in)
	if err := uc.assess(ctx, client); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Client().Update(ctx, client)
	if err != nil {
		return nil, wrapClientErr(err, "failed to update client", id)
	}
	return updated, nil
}

func (uc *ClientUseCase) GetClient(ctx context.Context, id types.ClientID) (*model.Client, error) {
	client, err := uc.repo.Client().Get(ctx, id)
	if err != nil {
		return nil, wrapClientErr(err, "failed to get client", id)
	}
	return client, nil
}

func (uc *ClientUseCase) ListClients(ctx context.Context, q ClientQuery) ([]*model.Client, error) {
	clients, err := uc.repo.Client().List(ctx, q.ClientFilter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list clients")
	}
	if q.Status == "" {
		return clients, nil
	}

	now := uc.now()
	return slices.DeleteFunc(clients, func(c *model.Client) bool {
		return risk.DeriveStatus(c.NextReview, now) != q.Status
	}), nil
}

// DeleteClient removes the client together with its document records and blobs.
// Each record outlives its blob, so a failed run can be retried without orphaning blobs.
func (uc *ClientUseCase) DeleteClient(ctx context.Context, id types.ClientID) error {
	if _, err := uc.GetClient(ctx, id); err != nil {
		return err
	}

	docs, err := uc.repo.Document().ListByClient(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list client documents", goerr.V(ClientIDKey, id))
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for _, doc := range docs {
		eg.Go(func() error {
			if err := uc.deleteBlob(egCtx, doc); err != nil {
				return err
			}
			if err := uc.repo.Document().Delete(egCtx, id, doc.ID); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(err, "failed to delete document record", goerr.V(DocumentIDKey, doc.ID))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return goerr.Wrap(err, "failed to delete client documents", goerr.V(ClientIDKey, id))
	}

	// documents uploaded while the cascade was running
	late, sweepErr := uc.repo.Document().DeleteByClient(ctx, id)
	for _, doc := range late {
		if err := uc.deleteBlob(ctx, doc); err != nil {
			return goerr.Wrap(err, "failed to delete late document blob", goerr.V(ClientIDKey, id))
		}
	}
	if sweepErr != nil {
		return goerr.Wrap(sweepErr, "failed to delete client documents", goerr.V(ClientIDKey, id))
	}

	if err := uc.repo.Client().Delete(ctx, id); err != nil {
		return wrapClientErr(err, "failed to delete client", id)
	}

	logging.From(ctx).Info("client deleted", "client_id", id, "documents", len(docs)+len(late))
	return nil
}

func (uc *ClientUseCase) deleteBlob(ctx context.Context, doc *model.Document) error {
	if uc.blobs == nil {
		return nil
	}
	if err := uc.blobs.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(err, "failed to delete document blob",
			goerr.V(DocumentIDKey, doc.ID), goerr.V("key", doc.StorageKey))
	}
	return nil
}

// Status derives the review status of the client at the current time
func (uc *ClientUseCase) Status(client *model.Client) types.ReviewStatus {
	return risk.DeriveStatus(client.NextReview, uc.now())
}

// Rescore re-evaluates the client against the current config. Profile fields are not changed.
func (uc *ClientUseCase) Rescore(ctx context.Context, id types.ClientID) (*model.Client, error) {
	client, err := uc.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.assess(ctx, client); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Client().Update(ctx, client)
	if err != nil {
		return nil, wrapClientErr(err, "failed to rescore client", id)
	}
	return updated, nil
}

func (uc *ClientUseCase) assess(ctx context.Context, client *model.Client) error {
	cfg, err := uc.riskConfig.Get(ctx)
	if err != nil {
		return err
	}

	assessment := risk.Evaluate(client.Profile(), cfg)
	client.ApplyAssessment(assessment, risk.NextReviewDate(uc.now(), assessment.NextReviewMonths))
	return nil
}

func wrapClientErr(err error, msg string, id types.ClientID) error {
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrClientNotFound, msg, goerr.V(ClientIDKey, id))
	}
	return goerr.Wrap(err, msg, goerr.V(ClientIDKey, id))
}
