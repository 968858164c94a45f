package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kyclytics/pkg/domain/model/config"
)

type riskConfigRepository struct {
	mu     sync.RWMutex
	config *config.RiskConfig
}

func newRiskConfigRepository() *riskConfigRepository {
	return &riskConfigRepository{}
}

func (r *riskConfigRepository) Get(ctx context.Context) (*config.RiskConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.config == nil {
		return nil, goerr.Wrap(ErrNotFound, "risk config not found")
	}
	return r.config.Clone(), nil
}

func (r *riskConfigRepository) Put(ctx context.Context, cfg *config.RiskConfig) (*config.RiskConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cfg.Clone()
	stored.UpdatedAt = time.Now().UTC()
	r.config = stored

	return stored.Clone(), nil
}

func (r *riskConfigRepository) Update(ctx context.Context, initial *config.RiskConfig, fn func(cfg *config.RiskConfig) error) (*config.RiskConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var working *config.RiskConfig
	switch {
	case r.config != nil:
		working = r.config.Clone()
	case initial != nil:
		working = initial.Clone()
	default:
		return nil, goerr.Wrap(ErrNotFound, "risk config not found and no initial config given")
	}

	if err := fn(working); err != nil {
		return nil, err
	}

	working.UpdatedAt = time.Now().UTC()
	r.config = working

	return working.Clone(), nil
}
