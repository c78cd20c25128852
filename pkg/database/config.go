package database

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JaimeStill/mandate/pkg/settings"
)

// Config holds PostgreSQL connection and pool parameters.
type Config struct {
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	Name             string `toml:"name"`
	User             string `toml:"user"`
	Password         string `toml:"password"`
	SSLMode          string `toml:"ssl_mode"`
	ApplicationName  string `toml:"application_name"`
	StatementTimeout string `toml:"statement_timeout"`
	MaxOpenConns     int    `toml:"max_open_conns"`
	MaxIdleConns     int    `toml:"max_idle_conns"`
	ConnMaxLifetime  string `toml:"conn_max_lifetime"`
	ConnTimeout      string `toml:"conn_timeout"`
}

// Env names the environment variables that override each Config field.
type Env struct {
	Host             string
	Port             string
	Name             string
	User             string
	Password         string
	SSLMode          string
	ApplicationName  string
	StatementTimeout string
	MaxOpenConns     string
	MaxIdleConns     string
	ConnMaxLifetime  string
	ConnTimeout      string
}

func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	return settings.Duration(c.ConnMaxLifetime)
}

func (c *Config) ConnTimeoutDuration() time.Duration {
	return settings.Duration(c.ConnTimeout)
}

// URL returns the connection as a postgres:// URL. migrate and pgx both accept it.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// ConnConfig parses URL into a pgx connection config carrying the connect
// timeout and the session parameters every pooled connection starts with.
func (c *Config) ConnConfig() (*pgx.ConnConfig, error) {
	cc, err := pgx.ParseConfig(c.URL())
	if err != nil {
		return nil, fmt.Errorf("parse connection config: %w", err)
	}

	cc.ConnectTimeout = c.ConnTimeoutDuration()
	cc.RuntimeParams["application_name"] = c.ApplicationName
	if d := settings.Duration(c.StatementTimeout); d > 0 {
		cc.RuntimeParams["statement_timeout"] = strconv.FormatInt(d.Milliseconds(), 10)
	}
	return cc, nil
}

func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.Host, overlay.Host)
	settings.Overlay(&c.Port, overlay.Port)
	settings.Overlay(&c.Name, overlay.Name)
	settings.Overlay(&c.User, overlay.User)
	settings.Overlay(&c.Password, overlay.Password)
	settings.Overlay(&c.SSLMode, overlay.SSLMode)
	settings.Overlay(&c.ApplicationName, overlay.ApplicationName)
	settings.Overlay(&c.StatementTimeout, overlay.StatementTimeout)
	settings.Overlay(&c.MaxOpenConns, overlay.MaxOpenConns)
	settings.Overlay(&c.MaxIdleConns, overlay.MaxIdleConns)
	settings.Overlay(&c.ConnMaxLifetime, overlay.ConnMaxLifetime)
	settings.Overlay(&c.ConnTimeout, overlay.ConnTimeout)
}

func (c *Config) loadDefaults() {
	settings.Default(&c.Host, "localhost")
	settings.Default(&c.Port, 5432)
	settings.Default(&c.SSLMode, "disable")
	settings.Default(&c.ApplicationName, "mandate")
	settings.Default(&c.MaxOpenConns, 25)
	settings.Default(&c.MaxIdleConns, 5)
	settings.Default(&c.ConnMaxLifetime, "15m")
	settings.Default(&c.ConnTimeout, "5s")
}

func (c *Config) loadEnv(env *Env) {
	settings.String(&c.Host, env.Host)
	settings.Int(&c.Port, env.Port)
	settings.String(&c.Name, env.Name)
	settings.String(&c.User, env.User)
	settings.String(&c.Password, env.Password)
	settings.String(&c.SSLMode, env.SSLMode)
	settings.String(&c.ApplicationName, env.ApplicationName)
	settings.String(&c.StatementTimeout, env.StatementTimeout)
	settings.Int(&c.MaxOpenConns, env.MaxOpenConns)
	settings.Int(&c.MaxIdleConns, env.MaxIdleConns)
	settings.String(&c.ConnMaxLifetime, env.ConnMaxLifetime)
	settings.String(&c.ConnTimeout, env.ConnTimeout)
}

func (c *Config) validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("name required")
	case c.User == "":
		return fmt.Errorf("user required")
	case c.MaxIdleConns > c.MaxOpenConns:
		return fmt.Errorf("max_idle_conns (%d) exceeds max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}

	if err := settings.CheckDuration("conn_max_lifetime", c.ConnMaxLifetime); err != nil {
		return err
	}
	if err := settings.CheckDuration("conn_timeout", c.ConnTimeout); err != nil {
		return err
	}
	if c.StatementTimeout != "" {
		return settings.CheckDuration("statement_timeout", c.StatementTimeout)
	}
	return nil
}
