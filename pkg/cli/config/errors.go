package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound    = goerr.New("configuration file not found")
	ErrInvalidConfig     = goerr.New("invalid configuration")
	ErrMissingJWTSecret  = goerr.New("JWT secret is required unless --no-auth is set")
	ErrMissingSlackToken = goerr.New("slack bot token is required when a review channel is set")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	BackendKey    = "backend"
)
