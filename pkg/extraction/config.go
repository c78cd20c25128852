package extraction

import (
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/mandate/pkg/settings"
)

// Config holds connection settings for the PDF extraction service.
type Config struct {
	BaseURL string `toml:"base_url"`
	Path    string `toml:"path"`
	Timeout string `toml:"timeout"`
}

// Env names the environment variables that override each Config field.
type Env struct {
	BaseURL string
	Path    string
	Timeout string
}

func (c *Config) TimeoutDuration() time.Duration {
	return settings.Duration(c.Timeout)
}

func (c *Config) Finalize(env *Env) error {
	settings.Default(&c.Path, "/extract")
	settings.Default(&c.Timeout, "2m")
	if env != nil {
		settings.String(&c.BaseURL, env.BaseURL)
		settings.String(&c.Path, env.Path)
		settings.String(&c.Timeout, env.Timeout)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.BaseURL, overlay.BaseURL)
	settings.Overlay(&c.Path, overlay.Path)
	settings.Overlay(&c.Timeout, overlay.Timeout)
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return settings.CheckDuration("timeout", c.Timeout)
}
