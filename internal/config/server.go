package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/JaimeStill/mandate/pkg/settings"
)

const (
	EnvServerHost              = "MANDATE_SERVER_HOST"
	EnvServerPort              = "MANDATE_SERVER_PORT"
	EnvServerReadHeaderTimeout = "MANDATE_SERVER_READ_HEADER_TIMEOUT"
	EnvServerReadTimeout       = "MANDATE_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout      = "MANDATE_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "MANDATE_SERVER_IDLE_TIMEOUT"
)

// ServerConfig holds the HTTP listener settings.
// write_timeout must cover a synchronous rule-mapping run.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	ReadTimeout       string `toml:"read_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return settings.Duration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return settings.Duration(c.ReadTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return settings.Duration(c.WriteTimeout)
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return settings.Duration(c.IdleTimeout)
}

func (c *ServerConfig) Finalize() error {
	settings.Default(&c.Host, "0.0.0.0")
	settings.Default(&c.Port, 8080)
	settings.Default(&c.ReadHeaderTimeout, "10s")
	settings.Default(&c.ReadTimeout, "1m")
	settings.Default(&c.WriteTimeout, "15m")
	settings.Default(&c.IdleTimeout, "2m")

	settings.String(&c.Host, EnvServerHost)
	settings.Int(&c.Port, EnvServerPort)
	settings.String(&c.ReadHeaderTimeout, EnvServerReadHeaderTimeout)
	settings.String(&c.ReadTimeout, EnvServerReadTimeout)
	settings.String(&c.WriteTimeout, EnvServerWriteTimeout)
	settings.String(&c.IdleTimeout, EnvServerIdleTimeout)

	return c.validate()
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	settings.Overlay(&c.Host, overlay.Host)
	settings.Overlay(&c.Port, overlay.Port)
	settings.Overlay(&c.ReadHeaderTimeout, overlay.ReadHeaderTimeout)
	settings.Overlay(&c.ReadTimeout, overlay.ReadTimeout)
	settings.Overlay(&c.WriteTimeout, overlay.WriteTimeout)
	settings.Overlay(&c.IdleTimeout, overlay.IdleTimeout)
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	durations := []struct{ field, value string }{
		{"read_header_timeout", c.ReadHeaderTimeout},
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
	}
	for _, d := range durations {
		if err := settings.CheckDuration(d.field, d.value); err != nil {
			return err
		}
	}
	return nil
}
