package workflow

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Section is one constraint of a guidelines document with the rule lines
// the rules agent extracted for it.
type Section struct {
	Title string   `json:"title"`
	Rules []string `json:"rules"`
}

// Result is the output of one workflow execution. MappedRules and GapAnalysis
// are produced by agents and kept opaque.
type Result struct {
	DocumentID  uuid.UUID       `json:"document_id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	CustomerID  string          `json:"customer_id"`
	Pages       int             `json:"pages"`
	Sections    []Section       `json:"raw_rules"`
	MappedRules json.RawMessage `json:"mapped_rules"`
	GapAnalysis json.RawMessage `json:"gap_analysis"`
}

type rulesResponse struct {
	Sections []Section `json:"sections"`
}
