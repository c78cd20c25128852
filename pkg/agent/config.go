package agent

import (
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/mandate/pkg/settings"
)

// Config holds the connection settings for the external agent service and the
// identifiers of the agents each pipeline stage talks to.
type Config struct {
	BaseURL  string `toml:"base_url"`
	ChatPath string `toml:"chat_path"`
	APIKey   string `toml:"api_key"`
	UserID   string `toml:"user_id"`
	Timeout  string `toml:"timeout"`
	Agents   Agents `toml:"agents"`
}

// Agents maps pipeline stages to agent identifiers.
type Agents struct {
	Rules       string `toml:"rules"`
	Mapping     string `toml:"mapping"`
	GapAnalysis string `toml:"gap_analysis"`
	Comparison  string `toml:"comparison"`
}

// Env names the environment variables that override each Config field.
type Env struct {
	BaseURL          string
	ChatPath         string
	APIKey           string
	UserID           string
	Timeout          string
	RulesAgent       string
	MappingAgent     string
	GapAnalysisAgent string
	ComparisonAgent  string
}

func (c *Config) TimeoutDuration() time.Duration {
	return settings.Duration(c.Timeout)
}

// Endpoint returns the absolute chat endpoint URL.
func (c *Config) Endpoint() string {
	return c.BaseURL + c.ChatPath
}

func (c *Config) Finalize(env *Env) error {
	settings.Default(&c.ChatPath, "/v3/inference/chat/")
	settings.Default(&c.UserID, "mandate")
	settings.Default(&c.Timeout, "5m")

	if env != nil {
		settings.String(&c.BaseURL, env.BaseURL)
		settings.String(&c.ChatPath, env.ChatPath)
		settings.String(&c.APIKey, env.APIKey)
		settings.String(&c.UserID, env.UserID)
		settings.String(&c.Timeout, env.Timeout)
		settings.String(&c.Agents.Rules, env.RulesAgent)
		settings.String(&c.Agents.Mapping, env.MappingAgent)
		settings.String(&c.Agents.GapAnalysis, env.GapAnalysisAgent)
		settings.String(&c.Agents.Comparison, env.ComparisonAgent)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	settings.Overlay(&c.BaseURL, overlay.BaseURL)
	settings.Overlay(&c.ChatPath, overlay.ChatPath)
	settings.Overlay(&c.APIKey, overlay.APIKey)
	settings.Overlay(&c.UserID, overlay.UserID)
	settings.Overlay(&c.Timeout, overlay.Timeout)
	settings.Overlay(&c.Agents.Rules, overlay.Agents.Rules)
	settings.Overlay(&c.Agents.Mapping, overlay.Agents.Mapping)
	settings.Overlay(&c.Agents.GapAnalysis, overlay.Agents.GapAnalysis)
	settings.Overlay(&c.Agents.Comparison, overlay.Agents.Comparison)
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	if err := settings.CheckDuration("timeout", c.Timeout); err != nil {
		return err
	}
	if c.Agents.Rules == "" || c.Agents.Mapping == "" || c.Agents.GapAnalysis == "" || c.Agents.Comparison == "" {
		return fmt.Errorf("agents.rules, agents.mapping, agents.gap_analysis, and agents.comparison required")
	}
	return nil
}
