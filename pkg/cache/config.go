package cache

import (
	"fmt"
	"time"

	"github.com/JaimeStill/mandate/pkg/settings"
)

// Config holds Redis connection parameters.
type Config struct {
	Addr        string `toml:"addr"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	KeyPrefix   string `toml:"key_prefix"`
	DialTimeout string `toml:"dial_timeout"`
}

// Env names the environment variables that override each Config field.
type Env struct {
	Addr        string
	Username    string
	Password    string
	DB          string
	KeyPrefix   string
	DialTimeout string
}

func (c *Config) DialTimeoutDuration() time.Duration {
	return settings.Duration(c.DialTimeout)
}

func (c *Config) Finalize(env *Env) error {
	settings.Default(&c.Addr, "localhost:6379")
	settings.Default(&c.KeyPrefix, "mandate:")
	settings.Default(&c.DialTimeout, "5s")
	if env != nil {
		settings.String(&c.Addr, env.Addr)
		settings.String(&c.Username, env.Username)
		settings.String(&c.Password, env.Password)
		settings.Int(&c.DB, env.DB)
		settings.String(&c.KeyPrefix, env.KeyPrefix)
		settings.String(&c.DialTimeout, env.DialTimeout)
	}

	if c.DB < 0 {
		return fmt.Errorf("db must be non-negative")
	}
	return settings.CheckDuration("dial_timeout", c.DialTimeout)
}

func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.Addr, overlay.Addr)
	settings.Overlay(&c.Username, overlay.Username)
	settings.Overlay(&c.Password, overlay.Password)
	settings.Overlay(&c.DB, overlay.DB)
	settings.Overlay(&c.KeyPrefix, overlay.KeyPrefix)
	settings.Overlay(&c.DialTimeout, overlay.DialTimeout)
}
