package types

import "fmt"

// RiskBand is the categorical risk classification derived from a score
type RiskBand string

const (
	RiskBandGreen  RiskBand = "GREEN"
	RiskBandYellow RiskBand = "YELLOW"
	RiskBandRed    RiskBand = "RED"
)

// AllRiskBands returns all valid risk bands, from lowest to highest
func AllRiskBands() []RiskBand {
	return []RiskBand{
		RiskBandGreen,
		RiskBandYellow,
		RiskBandRed,
	}
}

// IsValid checks if the risk band is valid
func (b RiskBand) IsValid() bool {
	switch b {
	case RiskBandGreen,
		RiskBandYellow,
		RiskBandRed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk band
func (b RiskBand) String() string {
	return string(b)
}

// ParseRiskBand parses a string into a RiskBand
func ParseRiskBand(s string) (RiskBand, error) {
	band := RiskBand(s)
	if !band.IsValid() {
		return "", fmt.Errorf("invalid risk band: %s", s)
	}
	return band, nil
}
