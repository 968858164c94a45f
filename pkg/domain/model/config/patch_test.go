package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

func TestRiskConfigPatch_Apply(t *testing.T) {
	t.Run("nil fields keep the base", func(t *testing.T) {
		base := config.DefaultRiskConfig()
		merged := (&config.RiskConfigPatch{}).Apply(base)

		gt.V(t, merged.Weights).Equal(base.Weights)
		gt.V(t, merged.Thresholds).Equal(base.Thresholds)
		gt.V(t, merged.HighRiskCountries).Equal(base.HighRiskCountries)
	})

	t.Run("thresholds are replaced as a whole", func(t *testing.T) {
		base := config.DefaultRiskConfig()
		patch := &config.RiskConfigPatch{
			Thresholds: &config.Thresholds{Medium: 10, High: 20},
		}
		merged := patch.Apply(base)

		gt.V(t, merged.Thresholds).Equal(config.Thresholds{Medium: 10, High: 20})
		gt.V(t, merged.Weights).Equal(base.Weights)
	})

	t.Run("weights are replaced as a whole, not merged per field", func(t *testing.T) {
		base := config.DefaultRiskConfig()
		patch := &config.RiskConfigPatch{
			Weights: &config.Weights{PEP: 50},
		}
		merged := patch.Apply(base)

		gt.V(t, merged.Weights.PEP).Equal(50)
		gt.V(t, merged.Weights.HighRiskCountry).Equal(0)
		gt.V(t, merged.Weights.CashIntensiveJob).Equal(0)
	})

	t.Run("empty list clears the list", func(t *testing.T) {
		base := config.DefaultRiskConfig()
		empty := []string{}
		merged := (&config.RiskConfigPatch{CashIntensiveJobs: &empty}).Apply(base)

		gt.A(t, merged.CashIntensiveJobs).Length(0)
		gt.A(t, merged.HighRiskCountries).Length(len(base.HighRiskCountries))
	})

	t.Run("base is not modified", func(t *testing.T) {
		base := config.DefaultRiskConfig()
		countries := []string{"Atlantis"}
		patch := &config.RiskConfigPatch{
			HighRiskCountries: &countries,
			ReviewMonths:      config.ReviewMonths{types.RiskBandRed: 1, types.RiskBandYellow: 2, types.RiskBandGreen: 3},
		}
		merged := patch.Apply(base)

		gt.V(t, merged.HighRiskCountries).Equal([]string{"Atlantis"})
		gt.V(t, merged.ReviewMonths.For(types.RiskBandRed)).Equal(1)
		gt.A(t, base.HighRiskCountries).Has("Iran")
		gt.V(t, base.ReviewMonths.For(types.RiskBandRed)).Equal(6)

		countries[0] = "Mutated"
		gt.V(t, merged.HighRiskCountries[0]).Equal("Atlantis")
	})

	t.Run("merged result may be invalid and is caught by Validate", func(t *testing.T) {
		patch := &config.RiskConfigPatch{
			Thresholds: &config.Thresholds{Medium: 45, High: 25},
		}
		merged := patch.Apply(config.DefaultRiskConfig())
		gt.Error(t, merged.Validate()).Is(config.ErrInvalidRiskConfig)
	})
}

func TestRiskConfigPatch_IsEmpty(t *testing.T) {
	var nilPatch *config.RiskConfigPatch
	gt.B(t, nilPatch.IsEmpty()).True()
	gt.B(t, (&config.RiskConfigPatch{}).IsEmpty()).True()
	gt.B(t, (&config.RiskConfigPatch{Weights: &config.Weights{}}).IsEmpty()).False()
}
