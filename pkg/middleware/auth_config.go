package middleware

import (
	"fmt"

	"github.com/JaimeStill/mandate/pkg/settings"
)

// AuthConfig holds the OIDC bearer token settings. Requests are not
// authenticated when Enabled is false.
type AuthConfig struct {
	Enabled  bool   `toml:"enabled"`
	Issuer   string `toml:"issuer"`
	Audience string `toml:"audience"`
}

// AuthEnv names the environment variables that override each AuthConfig field.
type AuthEnv struct {
	Enabled  string
	Issuer   string
	Audience string
}

func (c *AuthConfig) Finalize(env *AuthEnv) error {
	if env != nil {
		settings.Bool(&c.Enabled, env.Enabled)
		settings.String(&c.Issuer, env.Issuer)
		settings.String(&c.Audience, env.Audience)
	}

	if c.Enabled && (c.Issuer == "" || c.Audience == "") {
		return fmt.Errorf("issuer and audience required when auth is enabled")
	}
	return nil
}

// Merge applies overlay. Enabled always takes the overlay's value.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled
	settings.Overlay(&c.Issuer, overlay.Issuer)
	settings.Overlay(&c.Audience, overlay.Audience)
}
