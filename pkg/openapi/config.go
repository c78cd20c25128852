package openapi

import "github.com/JaimeStill/mandate/pkg/settings"

// Config holds OpenAPI metadata for spec generation.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	settings.Default(&c.Title, "Mandate API")
	settings.Default(&c.Description, "Ruleset extraction and version comparison for customer guideline documents.")
	if env != nil {
		settings.String(&c.Title, env.Title)
		settings.String(&c.Description, env.Description)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.Title, overlay.Title)
	settings.Overlay(&c.Description, overlay.Description)
}
