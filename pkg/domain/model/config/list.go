package config

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// AddHighRiskCountry adds a country to the high-risk list.
// It returns false without change when the country is already listed.
func (c *RiskConfig) AddHighRiskCountry(country string) (bool, error) {
	return addUnique(&c.HighRiskCountries, country, "high_risk_countries")
}

// RemoveHighRiskCountry removes a country from the high-risk list.
// It returns false without change when the country is not listed.
func (c *RiskConfig) RemoveHighRiskCountry(country string) bool {
	return removeValue(&c.HighRiskCountries, country)
}

// AddHighRiskIndustry adds an industry to the high-risk list
func (c *RiskConfig) AddHighRiskIndustry(industry string) (bool, error) {
	return addUnique(&c.HighRiskIndustries, industry, "high_risk_industries")
}

// RemoveHighRiskIndustry removes an industry from the high-risk list
func (c *RiskConfig) RemoveHighRiskIndustry(industry string) bool {
	return removeValue(&c.HighRiskIndustries, industry)
}

// AddCashIntensiveJob adds a job keyword to the cash-intensive list
func (c *RiskConfig) AddCashIntensiveJob(job string) (bool, error) {
	return addUnique(&c.CashIntensiveJobs, job, "cash_intensive_jobs")
}

// RemoveCashIntensiveJob removes a job keyword from the cash-intensive list
func (c *RiskConfig) RemoveCashIntensiveJob(job string) bool {
	return removeValue(&c.CashIntensiveJobs, job)
}

// Lists use exact, case-sensitive comparison, matching how the engine compares
// countries and industries.
func addUnique(list *[]string, value, name string) (bool, error) {
	if value == "" {
		return false, goerr.Wrap(ErrEmptyListValue, "cannot add empty value", goerr.V(ListKey, name))
	}
	if slices.Contains(*list, value) {
		return false, nil
	}
	*list = append(*list, value)
	return true, nil
}

// removeValue drops every occurrence of value
func removeValue(list *[]string, value string) bool {
	before := len(*list)
	*list = slices.DeleteFunc(*list, func(v string) bool { return v == value })
	return len(*list) != before
}
