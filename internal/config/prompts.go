package config

import (
	"strings"

	"github.com/JaimeStill/mandate/pkg/settings"
)

const (
	EnvPromptsRules       = "MANDATE_PROMPTS_RULES"
	EnvPromptsMapping     = "MANDATE_PROMPTS_MAPPING"
	EnvPromptsGapAnalysis = "MANDATE_PROMPTS_GAP_ANALYSIS"
	EnvPromptsComparison  = "MANDATE_PROMPTS_COMPARISON"
)

// PromptsConfig overrides the instructions sent to each agent.
// Empty fields keep the built-in instructions.
type PromptsConfig struct {
	Rules       string `toml:"rules"`
	Mapping     string `toml:"mapping"`
	GapAnalysis string `toml:"gap_analysis"`
	Comparison  string `toml:"comparison"`
}

// Finalize applies environment overrides and trims surrounding whitespace,
// so a blank override falls back to the built-in text.
func (c *PromptsConfig) Finalize() {
	for _, f := range c.fields() {
		settings.String(f.dst, f.env)
		*f.dst = strings.TrimSpace(*f.dst)
	}
}

func (c *PromptsConfig) Merge(overlay *PromptsConfig) {
	settings.Overlay(&c.Rules, overlay.Rules)
	settings.Overlay(&c.Mapping, overlay.Mapping)
	settings.Overlay(&c.GapAnalysis, overlay.GapAnalysis)
	settings.Overlay(&c.Comparison, overlay.Comparison)
}

func (c *PromptsConfig) fields() []struct {
	dst *string
	env string
} {
	return []struct {
		dst *string
		env string
	}{
		{&c.Rules, EnvPromptsRules},
		{&c.Mapping, EnvPromptsMapping},
		{&c.GapAnalysis, EnvPromptsGapAnalysis},
		{&c.Comparison, EnvPromptsComparison},
	}
}
