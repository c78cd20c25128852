package middleware

import (
	"fmt"

	"github.com/JaimeStill/mandate/pkg/settings"
)

// CORSConfig holds the cross-origin policy. An origin of "*" allows any
// origin but cannot be combined with credentials.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables that override each CORSConfig field.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

func (c *CORSConfig) Finalize(env *CORSEnv) error {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	settings.Default(&c.MaxAge, 3600)

	if env != nil {
		settings.Bool(&c.Enabled, env.Enabled)
		settings.List(&c.Origins, env.Origins)
		settings.List(&c.AllowedMethods, env.AllowedMethods)
		settings.List(&c.AllowedHeaders, env.AllowedHeaders)
		settings.Bool(&c.AllowCredentials, env.AllowCredentials)
		settings.Int(&c.MaxAge, env.MaxAge)
	}

	if c.AllowCredentials && c.allowsAny() {
		return fmt.Errorf("allow_credentials cannot be combined with origin \"*\"")
	}
	return nil
}

// Merge applies overlay. The boolean switches always take the overlay's
// value so an environment file can turn CORS off.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	settings.OverlaySlice(&c.Origins, overlay.Origins)
	settings.OverlaySlice(&c.AllowedMethods, overlay.AllowedMethods)
	settings.OverlaySlice(&c.AllowedHeaders, overlay.AllowedHeaders)
	settings.Overlay(&c.MaxAge, overlay.MaxAge)
}

func (c *CORSConfig) allowsAny() bool {
	for _, o := range c.Origins {
		if o == "*" {
			return true
		}
	}
	return false
}
