package pagination

import (
	"fmt"

	"github.com/JaimeStill/mandate/pkg/settings"
)

// Config bounds the page sizes a list request may ask for.
type Config struct {
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`
}

// Env names the environment variables that override each Config field.
type Env struct {
	DefaultPageSize string
	MaxPageSize     string
}

func (c *Config) Finalize(env *Env) error {
	settings.Default(&c.DefaultPageSize, 20)
	settings.Default(&c.MaxPageSize, 100)
	if env != nil {
		settings.Int(&c.DefaultPageSize, env.DefaultPageSize)
		settings.Int(&c.MaxPageSize, env.MaxPageSize)
	}

	switch {
	case c.DefaultPageSize < 1 || c.MaxPageSize < 1:
		return fmt.Errorf("page sizes must be positive: default=%d max=%d", c.DefaultPageSize, c.MaxPageSize)
	case c.DefaultPageSize > c.MaxPageSize:
		return fmt.Errorf("default_page_size %d exceeds max_page_size %d", c.DefaultPageSize, c.MaxPageSize)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.DefaultPageSize, overlay.DefaultPageSize)
	settings.Overlay(&c.MaxPageSize, overlay.MaxPageSize)
}
