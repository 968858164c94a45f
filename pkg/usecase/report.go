package usecase

import (
	"context"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/risk"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/service/report"
	"golang.org/x/sync/errgroup"
)

type ReportUseCase struct {
	repo       interfaces.Repository
	riskConfig *RiskConfigUseCase
	renderer   *report.Renderer
	now        func() time.Time
}

func NewReportUseCase(repo interfaces.Repository, riskConfig *RiskConfigUseCase, now func() time.Time) *ReportUseCase {
	return &ReportUseCase{
		repo:       repo,
		riskConfig: riskConfig,
		renderer:   report.New(),
		now:        now,
	}
}

// Prepare collects the client, its documents and a fresh assessment against the current config
func (uc *ReportUseCase) Prepare(ctx context.Context, clientID types.ClientID) (*report.Data, error) {
	var (
		client *model.Client
		docs   []*model.Document
		cfg    *config.RiskConfig
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		c, err := uc.repo.Client().Get(egCtx, clientID)
		if err != nil {
			return wrapClientErr(err, "failed to get client for report", clientID)
		}
		client = c
		return nil
	})
	eg.Go(func() error {
		d, err := uc.repo.Document().ListByClient(egCtx, clientID)
		if err != nil {
			return goerr.Wrap(err, "failed to list documents for report", goerr.V(ClientIDKey, clientID))
		}
		docs = d
		return nil
	})
	eg.Go(func() error {
		c, err := uc.riskConfig.Get(egCtx)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	now := uc.now()
	return &report.Data{
		Client:      client,
		Current:     risk.Evaluate(client.Profile(), cfg),
		Status:      risk.DeriveStatus(client.NextReview, now),
		Documents:   docs,
		GeneratedAt: now.UTC(),
	}, nil
}

// Generate writes the PDF report of the client to w
func (uc *ReportUseCase) Generate(ctx context.Context, clientID types.ClientID, w io.Writer) (*report.Data, error) {
	data, err := uc.Prepare(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if err := uc.renderer.Render(w, data); err != nil {
		return nil, goerr.Wrap(err, "failed to render report", goerr.V(ClientIDKey, clientID))
	}
	return data, nil
}
