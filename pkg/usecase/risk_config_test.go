package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/interfaces"
	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
	"github.com/secmon-lab/kyclytics/pkg/usecase"
)

func TestRiskConfigUseCase_GetFallsBackToBootstrap(t *testing.T) {
	ctx := context.Background()
	bootstrap := config.DefaultRiskConfig()
	bootstrap.Weights.PEP = 40
	env := newTestEnv(t, usecase.WithRiskConfig(bootstrap))

	cfg, err := env.uc.RiskConfig.Get(ctx)
	gt.NoError(t, err).Required()
	gt.V(t, cfg.Weights.PEP).Equal(40)

	// nothing is persisted by a read
	_, err = env.repo.RiskConfig().Get(ctx)
	gt.Error(t, err).Is(interfaces.ErrNotFound)
}

func TestRiskConfigUseCase_Update(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	updated, err := env.uc.RiskConfig.Update(ctx, &config.RiskConfigPatch{
		Weights: &config.Weights{PEP: 50, HighRiskCountry: 25},
	})
	gt.NoError(t, err).Required()
	gt.V(t, updated.Weights).Equal(config.Weights{PEP: 50, HighRiskCountry: 25})
	gt.V(t, updated.Thresholds).Equal(config.DefaultRiskConfig().Thresholds)

	stored, err := env.repo.RiskConfig().Get(ctx)
	gt.NoError(t, err).Required()
	gt.V(t, stored.Weights.PEP).Equal(50)
	gt.V(t, stored.HighRiskCountries).Equal(config.DefaultRiskConfig().HighRiskCountries)
}

func TestRiskConfigUseCase_UpdateRejectsInvalidConfig(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.uc.RiskConfig.Update(ctx, &config.RiskConfigPatch{
		Thresholds: &config.Thresholds{Medium: 50, High: 40},
	})
	gt.Error(t, err).Is(config.ErrInvalidRiskConfig)

	cfg, err := env.uc.RiskConfig.Get(ctx)
	gt.NoError(t, err).Required()
	gt.V(t, cfg.Thresholds).Equal(config.Thresholds{Medium: 25, High: 45})
}

func TestRiskConfigUseCase_UpdateRejectsDuplicatedListEntries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	countries := []string{"Iran", "Iran"}
	_, err := env.uc.RiskConfig.Update(ctx, &config.RiskConfigPatch{HighRiskCountries: &countries})
	gt.Error(t, err).Is(config.ErrInvalidRiskConfig)

	// a single removal must stop the country from scoring
	_, err = env.uc.RiskConfig.RemoveHighRiskCountry(ctx, "Iran")
	gt.NoError(t, err).Required()
	assessment, err := env.uc.RiskConfig.Preview(ctx, model.ClientProfile{Country: "Iran"})
	gt.NoError(t, err).Required()
	gt.V(t, assessment.Score).Equal(0)
	gt.A(t, assessment.Factors).Length(0)
}

func TestRiskConfigUseCase_ListHelpers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	rc := env.uc.RiskConfig

	cfg, err := rc.AddHighRiskCountry(ctx, "Myanmar")
	gt.NoError(t, err).Required()
	gt.A(t, cfg.HighRiskCountries).Has("Myanmar")
	gt.A(t, cfg.HighRiskCountries).Length(7)

	cfg, err = rc.AddHighRiskCountry(ctx, "Myanmar")
	gt.NoError(t, err).Required()
	gt.A(t, cfg.HighRiskCountries).Length(7)

	cfg, err = rc.RemoveHighRiskCountry(ctx, "Cuba")
	gt.NoError(t, err).Required()
	gt.A(t, cfg.HighRiskCountries).Length(6)

	cfg, err = rc.RemoveHighRiskCountry(ctx, "Atlantis")
	gt.NoError(t, err).Required()
	gt.A(t, cfg.HighRiskCountries).Length(6)

	cfg, err = rc.AddHighRiskIndustry(ctx, "Pawn Shop")
	gt.NoError(t, err).Required()
	gt.A(t, cfg.HighRiskIndustries).Has("Pawn Shop")

	cfg, err = rc.RemoveHighRiskIndustry(ctx, "Casino")
	gt.NoError(t, err).Required()
	gt.A(t, cfg.HighRiskIndustries).Length(5)

	cfg, err = rc.AddCashIntensiveJob(ctx, "Bartender")
	gt.NoError(t, err).Required()
	gt.A(t, cfg.CashIntensiveJobs).Has("Bartender")

	cfg, err = rc.RemoveCashIntensiveJob(ctx, "Dealer")
	gt.NoError(t, err).Required()
	gt.A(t, cfg.CashIntensiveJobs).Length(5)

	_, err = rc.AddCashIntensiveJob(ctx, "")
	gt.Error(t, err).Is(config.ErrEmptyListValue)
}

func TestRiskConfigUseCase_Reset(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.uc.RiskConfig.AddHighRiskCountry(ctx, "Myanmar")
	gt.NoError(t, err).Required()

	cfg, err := env.uc.RiskConfig.Reset(ctx)
	gt.NoError(t, err).Required()
	gt.V(t, cfg.HighRiskCountries).Equal(config.DefaultRiskConfig().HighRiskCountries)

	stored, err := env.repo.RiskConfig().Get(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, stored.HighRiskCountries).Length(6)
}

func TestRiskConfigUseCase_Preview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	got, err := env.uc.RiskConfig.Preview(ctx, model.ClientProfile{Country: "United States", Industry: "Gambling", Job: "Dealer"})
	gt.NoError(t, err).Required()
	gt.V(t, got.Score).Equal(30)
	gt.V(t, got.Band).Equal(types.RiskBandYellow)
	gt.V(t, got.NextReviewMonths).Equal(12)

	// preview reflects the current config, and persists nothing
	_, err = env.uc.RiskConfig.RemoveHighRiskIndustry(ctx, "Gambling")
	gt.NoError(t, err).Required()
	got, err = env.uc.RiskConfig.Preview(ctx, model.ClientProfile{Country: "United States", Industry: "Gambling", Job: "Dealer"})
	gt.NoError(t, err).Required()
	gt.V(t, got.Score).Equal(10)
	gt.V(t, got.Band).Equal(types.RiskBandGreen)

	clients, err := env.repo.Client().List(ctx, model.ClientFilter{})
	gt.NoError(t, err).Required()
	gt.A(t, clients).Length(0)
}
