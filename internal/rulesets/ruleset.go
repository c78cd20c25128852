// Package rulesets stores the append-only ruleset versions of a project.
// Versions are numbered per project starting at 1 and are never modified.
package rulesets

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/internal/workflow"
)

// Version is one immutable ruleset version.
type Version struct {
	ID          uuid.UUID          `json:"id"`
	ProjectID   uuid.UUID          `json:"project_id"`
	CustomerID  string             `json:"customer_id"`
	DocumentID  *uuid.UUID         `json:"document_id,omitempty"`
	Version     int                `json:"version"`
	VersionName string             `json:"versionName"`
	RawRules    []workflow.Section `json:"raw_rules"`
	MappedRules json.RawMessage    `json:"mapped_rules,omitempty"`
	GapAnalysis json.RawMessage    `json:"gap_analysis,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// CreateCommand appends a version to a project.
// An empty VersionName defaults to "v{version}".
type CreateCommand struct {
	ProjectID   uuid.UUID          `json:"-"`
	DocumentID  *uuid.UUID         `json:"-"`
	VersionName string             `json:"versionName"`
	RawRules    []workflow.Section `json:"raw_rules"`
	MappedRules json.RawMessage    `json:"mapped_rules,omitempty"`
	GapAnalysis json.RawMessage    `json:"gap_analysis,omitempty"`
}

// Validate reports ErrInvalidRuleset when the command carries no usable rules
// or malformed agent output.
func (c CreateCommand) Validate() error {
	if len(c.RawRules) == 0 {
		return fmt.Errorf("%w: raw_rules required", ErrInvalidRuleset)
	}
	for i, s := range c.RawRules {
		if s.Title == "" {
			return fmt.Errorf("%w: raw_rules[%d] has no title", ErrInvalidRuleset, i)
		}
	}
	if len(c.MappedRules) > 0 && !json.Valid(c.MappedRules) {
		return fmt.Errorf("%w: mapped_rules is not valid JSON", ErrInvalidRuleset)
	}
	if len(c.GapAnalysis) > 0 && !json.Valid(c.GapAnalysis) {
		return fmt.Errorf("%w: gap_analysis is not valid JSON", ErrInvalidRuleset)
	}
	return nil
}

// GenerateCommand runs the rule-mapping workflow over a document and appends
// the result as a version of the document's project.
type GenerateCommand struct {
	DocumentID  uuid.UUID `json:"-"`
	VersionName string    `json:"versionName"`
}

func defaultVersionName(version int) string {
	return fmt.Sprintf("v%d", version)
}
