package config

import "slices"

// RiskConfigPatch is a partial update of a RiskConfig. Nil fields are left
// untouched. Weights, Thresholds and ReviewMonths replace the whole
// sub-object when present; they are never merged field by field.
type RiskConfigPatch struct {
	Weights            *Weights
	Thresholds         *Thresholds
	ReviewMonths       ReviewMonths
	HighRiskCountries  *[]string
	HighRiskIndustries *[]string
	CashIntensiveJobs  *[]string
}

// IsEmpty reports whether the patch changes nothing
func (p *RiskConfigPatch) IsEmpty() bool {
	return p == nil || (p.Weights == nil &&
		p.Thresholds == nil &&
		p.ReviewMonths == nil &&
		p.HighRiskCountries == nil &&
		p.HighRiskIndustries == nil &&
		p.CashIntensiveJobs == nil)
}

// Apply returns a new config with the patch merged over base. The base is not
// modified and the result is not validated.
func (p *RiskConfigPatch) Apply(base *RiskConfig) *RiskConfig {
	merged := base.Clone()
	if p == nil {
		return merged
	}

	if p.Weights != nil {
		merged.Weights = *p.Weights
	}
	if p.Thresholds != nil {
		merged.Thresholds = *p.Thresholds
	}
	if p.ReviewMonths != nil {
		merged.ReviewMonths = p.ReviewMonths.Clone()
	}
	if p.HighRiskCountries != nil {
		merged.HighRiskCountries = slices.Clone(*p.HighRiskCountries)
	}
	if p.HighRiskIndustries != nil {
		merged.HighRiskIndustries = slices.Clone(*p.HighRiskIndustries)
	}
	if p.CashIntensiveJobs != nil {
		merged.CashIntensiveJobs = slices.Clone(*p.CashIntensiveJobs)
	}

	return merged
}
