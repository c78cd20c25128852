// Package config loads the service configuration from TOML files and
// MANDATE_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/mandate/pkg/agent"
	"github.com/JaimeStill/mandate/pkg/cache"
	"github.com/JaimeStill/mandate/pkg/database"
	"github.com/JaimeStill/mandate/pkg/extraction"
	"github.com/JaimeStill/mandate/pkg/settings"
	"github.com/JaimeStill/mandate/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvMandateEnv             = "MANDATE_ENV"
	EnvMandateShutdownTimeout = "MANDATE_SHUTDOWN_TIMEOUT"
	EnvMandateVersion         = "MANDATE_VERSION"
	EnvMandateLogLevel        = "MANDATE_LOG_LEVEL"
	EnvMandateLogFormat       = "MANDATE_LOG_FORMAT"
)

var databaseEnv = &database.Env{
	Host:             "MANDATE_DB_HOST",
	Port:             "MANDATE_DB_PORT",
	Name:             "MANDATE_DB_NAME",
	User:             "MANDATE_DB_USER",
	Password:         "MANDATE_DB_PASSWORD",
	SSLMode:          "MANDATE_DB_SSL_MODE",
	ApplicationName:  "MANDATE_DB_APPLICATION_NAME",
	StatementTimeout: "MANDATE_DB_STATEMENT_TIMEOUT",
	MaxOpenConns:     "MANDATE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:     "MANDATE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime:  "MANDATE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:      "MANDATE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "MANDATE_STORAGE_CONTAINER_NAME",
	ConnectionString: "MANDATE_STORAGE_CONNECTION_STRING",
	ServiceURL:       "MANDATE_STORAGE_SERVICE_URL",
}

var cacheEnv = &cache.Env{
	Addr:        "MANDATE_CACHE_ADDR",
	Username:    "MANDATE_CACHE_USERNAME",
	Password:    "MANDATE_CACHE_PASSWORD",
	DB:          "MANDATE_CACHE_DB",
	KeyPrefix:   "MANDATE_CACHE_KEY_PREFIX",
	DialTimeout: "MANDATE_CACHE_DIAL_TIMEOUT",
}

// Config is the root configuration for the mandate service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	Cache           cache.Config      `toml:"cache"`
	API             APIConfig         `toml:"api"`
	Agent           agent.Config      `toml:"agent"`
	Extraction      extraction.Config `toml:"extraction"`
	Comparisons     ComparisonsConfig `toml:"comparisons"`
	Prompts         PromptsConfig     `toml:"prompts"`
	LogLevel        string            `toml:"log_level"`
	LogFormat       string            `toml:"log_format"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the MANDATE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvMandateEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return settings.Duration(c.ShutdownTimeout)
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.LogLevel, overlay.LogLevel)
	settings.Overlay(&c.LogFormat, overlay.LogFormat)
	settings.Overlay(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	settings.Overlay(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.Extraction.Merge(&overlay.Extraction)
	c.Comparisons.Merge(&overlay.Comparisons)
	c.Prompts.Merge(&overlay.Prompts)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Agent.Finalize(agentEnv); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Extraction.Finalize(extractionEnv); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Comparisons.Finalize(); err != nil {
		return fmt.Errorf("comparisons: %w", err)
	}
	c.Prompts.Finalize()
	return nil
}

func (c *Config) loadDefaults() {
	settings.Default(&c.LogLevel, "info")
	settings.Default(&c.LogFormat, "text")
	settings.Default(&c.ShutdownTimeout, "30s")
	settings.Default(&c.Version, "0.1.0")
}

func (c *Config) loadEnv() {
	settings.String(&c.LogLevel, EnvMandateLogLevel)
	settings.String(&c.LogFormat, EnvMandateLogFormat)
	settings.String(&c.ShutdownTimeout, EnvMandateShutdownTimeout)
	settings.String(&c.Version, EnvMandateVersion)
}

func (c *Config) validate() error {
	if err := settings.CheckDuration("shutdown_timeout", c.ShutdownTimeout); err != nil {
		return err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: want text or json", c.LogFormat)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvMandateEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
