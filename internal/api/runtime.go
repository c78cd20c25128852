package api

import (
	"github.com/JaimeStill/mandate/internal/config"
	"github.com/JaimeStill/mandate/internal/infrastructure"
	"github.com/JaimeStill/mandate/pkg/agent"
	"github.com/JaimeStill/mandate/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agents        agent.Agents
	Comparisons   config.ComparisonsConfig
	Prompts       config.PromptsConfig
	Pagination    pagination.Config
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     infra.Logger.With("module", "api"),
			Database:   infra.Database,
			Storage:    infra.Storage,
			Cache:      infra.Cache,
			Agent:      infra.Agent,
			Extraction: infra.Extraction,
		},
		Agents:        cfg.Agent.Agents,
		Comparisons:   cfg.Comparisons,
		Prompts:       cfg.Prompts,
		Pagination:    cfg.API.Pagination,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
	}
}
