package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrMissingRequired = goerr.New("required field is missing")
	ErrInvalidDate     = goerr.New("invalid date")
)

// Context keys for error values
const (
	FieldKey = "field"
)
