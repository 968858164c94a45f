package config

import (
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// Weights holds the score points added by each triggered rule
type Weights struct {
	PEP              int
	HighRiskCountry  int
	HighRiskIndustry int
	CashIntensiveJob int
}

// Thresholds delimit the three risk bands. A score at or above Medium is
// YELLOW, at or above High is RED.
type Thresholds struct {
	Medium int
	High   int
}

// ReviewMonths maps each risk band to the number of months until the next review
type ReviewMonths map[types.RiskBand]int

// RiskConfig is the operator-editable ruleset used by the risk engine
type RiskConfig struct {
	Weights            Weights
	Thresholds         Thresholds
	ReviewMonths       ReviewMonths
	HighRiskCountries  []string
	HighRiskIndustries []string
	CashIntensiveJobs  []string
	UpdatedAt          time.Time
}

// defaultReviewMonths is also the engine's fallback when a config lacks a band entry
var defaultReviewMonths = ReviewMonths{
	types.RiskBandRed:    6,
	types.RiskBandYellow: 12,
	types.RiskBandGreen:  24,
}

// DefaultReviewMonths returns a copy of the built-in band to review-interval table
func DefaultReviewMonths() ReviewMonths {
	return defaultReviewMonths.Clone()
}

// DefaultRiskConfig returns the bootstrap ruleset
func DefaultRiskConfig() *RiskConfig {
	return &RiskConfig{
		Weights: Weights{
			PEP:              30,
			HighRiskCountry:  20,
			HighRiskIndustry: 20,
			CashIntensiveJob: 10,
		},
		Thresholds: Thresholds{
			Medium: 25,
			High:   45,
		},
		ReviewMonths: DefaultReviewMonths(),
		HighRiskCountries: []string{
			"Iran", "North Korea", "Syria", "Cuba", "Russia", "Afghanistan",
		},
		HighRiskIndustries: []string{
			"Cryptocurrency", "Gambling", "Arms Dealer", "Precious Metals", "Casino",
		},
		CashIntensiveJobs: []string{
			"Taxi Driver", "Waiter", "Construction Worker", "Street Vendor", "Dealer",
		},
	}
}

// Clone returns a deep copy of the config
func (c *RiskConfig) Clone() *RiskConfig {
	if c == nil {
		return nil
	}
	return &RiskConfig{
		Weights:            c.Weights,
		Thresholds:         c.Thresholds,
		ReviewMonths:       c.ReviewMonths.Clone(),
		HighRiskCountries:  slices.Clone(c.HighRiskCountries),
		HighRiskIndustries: slices.Clone(c.HighRiskIndustries),
		CashIntensiveJobs:  slices.Clone(c.CashIntensiveJobs),
		UpdatedAt:          c.UpdatedAt,
	}
}

// Clone returns a copy of the table. A nil table stays nil.
func (m ReviewMonths) Clone() ReviewMonths {
	if m == nil {
		return nil
	}
	copied := make(ReviewMonths, len(m))
	for band, months := range m {
		copied[band] = months
	}
	return copied
}

// For returns the review interval of the band, falling back to the built-in table
func (m ReviewMonths) For(band types.RiskBand) int {
	if months, ok := m[band]; ok {
		return months
	}
	return defaultReviewMonths[band]
}

// Validate checks the invariants enforced at the config update boundary:
// non-negative weights, 0 <= medium < high and a positive interval per band.
func (c *RiskConfig) Validate() error {
	if c == nil {
		return goerr.Wrap(ErrInvalidRiskConfig, "risk config is nil")
	}

	weights := []struct {
		name  string
		value int
	}{
		{"pep", c.Weights.PEP},
		{"high_risk_country", c.Weights.HighRiskCountry},
		{"high_risk_industry", c.Weights.HighRiskIndustry},
		{"cash_intensive_job", c.Weights.CashIntensiveJob},
	}
	for _, w := range weights {
		if w.value < 0 {
			return goerr.Wrap(ErrInvalidRiskConfig, "weight must not be negative",
				goerr.V(WeightKey, w.name), goerr.V(ValueKey, w.value))
		}
	}

	if c.Thresholds.Medium < 0 {
		return goerr.Wrap(ErrInvalidRiskConfig, "medium threshold must not be negative",
			goerr.V(ValueKey, c.Thresholds.Medium))
	}
	if c.Thresholds.Medium >= c.Thresholds.High {
		return goerr.Wrap(ErrInvalidRiskConfig, "medium threshold must be lower than high threshold",
			goerr.V("medium", c.Thresholds.Medium), goerr.V("high", c.Thresholds.High))
	}

	for band, months := range c.ReviewMonths {
		if !band.IsValid() {
			return goerr.Wrap(ErrInvalidRiskConfig, "unknown risk band in review months",
				goerr.V(BandKey, band))
		}
		if months <= 0 {
			return goerr.Wrap(ErrInvalidRiskConfig, "review months must be positive",
				goerr.V(BandKey, band), goerr.V(ValueKey, months))
		}
	}
	for _, band := range types.AllRiskBands() {
		if _, ok := c.ReviewMonths[band]; !ok {
			return goerr.Wrap(ErrInvalidRiskConfig, "review months missing for band",
				goerr.V(BandKey, band))
		}
	}

	lists := []struct {
		name   string
		values []string
	}{
		{"high_risk_countries", c.HighRiskCountries},
		{"high_risk_industries", c.HighRiskIndustries},
		{"cash_intensive_jobs", c.CashIntensiveJobs},
	}
	for _, l := range lists {
		seen := make(map[string]struct{}, len(l.values))
		for _, v := range l.values {
			if v == "" {
				return goerr.Wrap(ErrInvalidRiskConfig, "list entry must not be empty",
					goerr.V(ListKey, l.name))
			}
			if _, dup := seen[v]; dup {
				return goerr.Wrap(ErrInvalidRiskConfig, "list entry is duplicated",
					goerr.V(ListKey, l.name), goerr.V(ValueKey, v))
			}
			seen[v] = struct{}{}
		}
	}

	return nil
}
