// Package risk scores client profiles against a RiskConfig and derives review
// schedules. Everything here is pure: no I/O, no clock, no shared state.
package risk

import (
	"fmt"
	"slices"
	"strings"

	"github.com/secmon-lab/kyclytics/pkg/domain/model"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
	"github.com/secmon-lab/kyclytics/pkg/domain/types"
)

// Evaluate computes the risk assessment of a profile. Rules are applied in a
// fixed order (PEP, country, industry, job) and each fires at most once. The
// config is used as given; a malformed config yields a deterministic but
// possibly inverted band boundary.
func Evaluate(profile model.ClientProfile, cfg *config.RiskConfig) model.RiskAssessment {
	if cfg == nil {
		cfg = config.DefaultRiskConfig()
	}

	score := 0
	factors := []string{}

	if profile.PEP {
		score += cfg.Weights.PEP
		factors = append(factors, fmt.Sprintf("Politically Exposed Person (+%d)", cfg.Weights.PEP))
	}

	if profile.Country != "" && slices.Contains(cfg.HighRiskCountries, profile.Country) {
		score += cfg.Weights.HighRiskCountry
		factors = append(factors, fmt.Sprintf("High Risk Country: %s (+%d)", profile.Country, cfg.Weights.HighRiskCountry))
	}

	if profile.Industry != "" && slices.Contains(cfg.HighRiskIndustries, profile.Industry) {
		score += cfg.Weights.HighRiskIndustry
		factors = append(factors, fmt.Sprintf("High Risk Industry: %s (+%d)", profile.Industry, cfg.Weights.HighRiskIndustry))
	}

	if matchCashIntensiveJob(profile.Job, cfg.CashIntensiveJobs) {
		score += cfg.Weights.CashIntensiveJob
		factors = append(factors, fmt.Sprintf("Cash Intensive Job: %s (+%d)", profile.Job, cfg.Weights.CashIntensiveJob))
	}

	band := Classify(score, cfg.Thresholds)

	return model.RiskAssessment{
		Score:            score,
		Band:             band,
		Factors:          factors,
		NextReviewMonths: cfg.ReviewMonths.For(band),
	}
}

// Classify maps a score to a band. RED is checked first so that the high
// threshold wins when the thresholds are inverted.
func Classify(score int, th config.Thresholds) types.RiskBand {
	switch {
	case score >= th.High:
		return types.RiskBandRed
	case score >= th.Medium:
		return types.RiskBandYellow
	default:
		return types.RiskBandGreen
	}
}

func matchCashIntensiveJob(job string, keywords []string) bool {
	if job == "" {
		return false
	}
	lowered := strings.ToLower(job)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
