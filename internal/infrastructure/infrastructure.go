// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JaimeStill/mandate/internal/config"
	"github.com/JaimeStill/mandate/pkg/agent"
	"github.com/JaimeStill/mandate/pkg/cache"
	"github.com/JaimeStill/mandate/pkg/database"
	"github.com/JaimeStill/mandate/pkg/extraction"
	"github.com/JaimeStill/mandate/pkg/lifecycle"
	"github.com/JaimeStill/mandate/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Cache is nil when comparison jobs are kept in memory.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Storage    storage.System
	Cache      cache.System
	Agent      *agent.Client
	Extraction *extraction.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(os.Stderr, cfg.LogFormat, cfg.Level())

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	var c cache.System
	if cfg.Comparisons.Store == config.StoreRedis {
		c = cache.New(&cfg.Cache, logger)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Storage:    store,
		Cache:      c,
		Agent:      agent.New(&cfg.Agent, logger),
		Extraction: extraction.New(&cfg.Extraction, logger),
	}, nil
}

// NewLogger builds a slog logger writing to w in the given format ("text" or "json").
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.Cache != nil {
		if err := i.Cache.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("cache start failed: %w", err)
		}
	}
	return nil
}
