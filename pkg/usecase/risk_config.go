package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/risk"
)

// RiskConfigUseCase manages the single operator-editable ruleset.
// Until a config is persisted, reads return the bootstrap config and the
// first mutation persists it.
type RiskConfigUseCase struct {
	repo      interfaces.Repository
	bootstrap *config.RiskConfig
	now       func() time.Time
}

func NewRiskConfigUseCase(repo interfaces.Repository, bootstrap *config.RiskConfig, now func() time.Time) *RiskConfigUseCase {
	if bootstrap == nil {
		bootstrap = config.DefaultRiskConfig()
	}
	return &RiskConfigUseCase{
		repo:      repo,
		bootstrap: bootstrap.Clone(),
		now:       now,
	}
}

// Get returns the current config
func (uc *RiskConfigUseCase) Get(ctx context.Context) (*config.RiskConfig, error) {
	cfg, err := uc.repo.RiskConfig().Get(ctx)
	if errors.Is(err, interfaces.ErrNotFound) {
		return uc.bootstrap.Clone(), nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk config")
	}
	return cfg, nil
}

// Update merges the patch over the current config. The merged config must
// pass validation, otherwise nothing is stored.
func (uc *RiskConfigUseCase) Update(ctx context.Context, patch *config.RiskConfigPatch) (*config.RiskConfig, error) {
	updated, err := uc.mutate(ctx, func(cfg *config.RiskConfig) error {
		merged := patch.Apply(cfg)
		if err := merged.Validate(); err != nil {
			return err
		}
		*cfg = *merged
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk config")
	}
	return updated, nil
}

func (uc *RiskConfigUseCase) AddHighRiskCountry(ctx context.Context, country string) (*config.RiskConfig, error) {
	return uc.addToList(ctx, country, (*config.RiskConfig).AddHighRiskCountry)
}

func (uc *RiskConfigUseCase) RemoveHighRiskCountry(ctx context.Context, country string) (*config.RiskConfig, error) {
	return uc.removeFromList(ctx, country, (*config.RiskConfig).RemoveHighRiskCountry)
}

func (uc *RiskConfigUseCase) AddHighRiskIndustry(ctx context.Context, industry string) (*config.RiskConfig, error) {
	return uc.addToList(ctx, industry, (*config.RiskConfig).AddHighRiskIndustry)
}

func (uc *RiskConfigUseCase) RemoveHighRiskIndustry(ctx context.Context, industry string) (*config.RiskConfig, error) {
	return uc.removeFromList(ctx, industry, (*config.RiskConfig).RemoveHighRiskIndustry)
}

func (uc *RiskConfigUseCase) AddCashIntensiveJob(ctx context.Context, job string) (*config.RiskConfig, error) {
	return uc.addToList(ctx, job, (*config.RiskConfig).AddCashIntensiveJob)
}

func (uc *RiskConfigUseCase) RemoveCashIntensiveJob(ctx context.Context, job string) (*config.RiskConfig, error) {
	return uc.removeFromList(ctx, job, (*config.RiskConfig).RemoveCashIntensiveJob)
}

// Reset replaces the persisted config with the bootstrap config
func (uc *RiskConfigUseCase) Reset(ctx context.Context) (*config.RiskConfig, error) {
	cfg := uc.bootstrap.Clone()
	cfg.UpdatedAt = uc.now().UTC()

	stored, err := uc.repo.RiskConfig().Put(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to reset risk config")
	}
	return stored, nil
}

// Preview evaluates a profile against the current config without persisting anything
func (uc *RiskConfigUseCase) Preview(ctx context.Context, profile model.ClientProfile) (*model.RiskAssessment, error) {
	cfg, err := uc.Get(ctx)
	if err != nil {
		return nil, err
	}
	assessment := risk.Evaluate(profile, cfg)
	return &assessment, nil
}

func (uc *RiskConfigUseCase) addToList(ctx context.Context, value string, add func(*config.RiskConfig, string) (bool, error)) (*config.RiskConfig, error) {
	updated, err := uc.mutate(ctx, func(cfg *config.RiskConfig) error {
		_, err := add(cfg, value)
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to add list entry", goerr.V(config.ValueKey, value))
	}
	return updated, nil
}

func (uc *RiskConfigUseCase) removeFromList(ctx context.Context, value string, remove func(*config.RiskConfig, string) bool) (*config.RiskConfig, error) {
	updated, err := uc.mutate(ctx, func(cfg *config.RiskConfig) error {
		remove(cfg, value)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to remove list entry", goerr.V(config.ValueKey, value))
	}
	return updated, nil
}

func (uc *RiskConfigUseCase) mutate(ctx context.Context, fn func(cfg *config.RiskConfig) error) (*config.RiskConfig, error) {
	return uc.repo.RiskConfig().Update(ctx, uc.bootstrap, fn)
}
