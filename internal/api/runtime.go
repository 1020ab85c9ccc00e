package api

import (
	"time"

	"github.com/JaimeStill/sibyl/internal/config"
	"github.com/JaimeStill/sibyl/internal/infrastructure"
	"github.com/JaimeStill/sibyl/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination     pagination.Config
	RequestTimeout time.Duration
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Search:    infra.Search,
			Agent:     infra.Agent,
		},
		Pagination:     cfg.API.Pagination,
		RequestTimeout: cfg.API.RequestTimeoutDuration(),
	}
}
