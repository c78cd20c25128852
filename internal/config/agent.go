package config

import (
	"github.com/JaimeStill/mandate/pkg/agent"
	"github.com/JaimeStill/mandate/pkg/extraction"
)

var agentEnv = &agent.Env{
	BaseURL:          "MANDATE_AGENT_BASE_URL",
	ChatPath:         "MANDATE_AGENT_CHAT_PATH",
	APIKey:           "MANDATE_AGENT_API_KEY",
	UserID:           "MANDATE_AGENT_USER_ID",
	Timeout:          "MANDATE_AGENT_TIMEOUT",
	RulesAgent:       "MANDATE_AGENT_RULES",
	MappingAgent:     "MANDATE_AGENT_MAPPING",
	GapAnalysisAgent: "MANDATE_AGENT_GAP_ANALYSIS",
	ComparisonAgent:  "MANDATE_AGENT_COMPARISON",
}

var extractionEnv = &extraction.Env{
	BaseURL: "MANDATE_EXTRACTION_BASE_URL",
	Path:    "MANDATE_EXTRACTION_PATH",
	Timeout: "MANDATE_EXTRACTION_TIMEOUT",
}
