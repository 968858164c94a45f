package interfaces

import (
	"context"

	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
)

// RiskConfigRepository owns the single persisted RiskConfig
type RiskConfigRepository interface {
	// Get returns the persisted config, or an error wrapping ErrNotFound when none exists
	Get(ctx context.Context) (*config.RiskConfig, error)

	// Put overwrites the persisted config
	Put(ctx context.Context, cfg *config.RiskConfig) (*config.RiskConfig, error)

	// Update runs fn against the current config (or initial when none is persisted)
	// and stores the result atomically. If fn returns an error nothing is written.
	Update(ctx context.Context, initial *config.RiskConfig, fn func(cfg *config.RiskConfig) error) (*config.RiskConfig, error)
}
