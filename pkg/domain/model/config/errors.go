package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for risk configuration
var (
	ErrInvalidRiskConfig = goerr.New("invalid risk configuration")
	ErrEmptyListValue    = goerr.New("list value must not be empty")
)

// Context keys for error values
const (
	WeightKey = "weight"
	BandKey   = "band"
	ListKey   = "list"
	ValueKey  = "value"
)
