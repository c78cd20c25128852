package storage

import (
	"fmt"
	"net/url"

	"github.com/JaimeStill/mandate/pkg/settings"
)

// Config selects the blob container holding uploaded guideline documents.
// A connection string wins over ServiceURL; ServiceURL alone authenticates
// through the default Azure credential chain.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
}

// Env names the environment variables that override each Config field.
type Env struct {
	ContainerName    string
	ConnectionString string
	ServiceURL       string
}

func (c *Config) UsesCredential() bool {
	return c.ConnectionString == ""
}

func (c *Config) Finalize(env *Env) error {
	settings.Default(&c.ContainerName, "guidelines")
	if env != nil {
		settings.String(&c.ContainerName, env.ContainerName)
		settings.String(&c.ConnectionString, env.ConnectionString)
		settings.String(&c.ServiceURL, env.ServiceURL)
	}

	if c.ConnectionString == "" && c.ServiceURL == "" {
		return fmt.Errorf("connection_string or service_url required")
	}
	if c.UsesCredential() {
		if _, err := url.ParseRequestURI(c.ServiceURL); err != nil {
			return fmt.Errorf("invalid service_url: %w", err)
		}
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.ContainerName, overlay.ContainerName)
	settings.Overlay(&c.ConnectionString, overlay.ConnectionString)
	settings.Overlay(&c.ServiceURL, overlay.ServiceURL)
}
