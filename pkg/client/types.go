package client

import (
	"encoding/json"
	"time"

	"github.com/JaimeStill/mandate/pkg/reconcile"
)

// Status is the lifecycle state of a comparison job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Running reports whether the job has not reached a terminal state.
func (s Status) Running() bool {
	return s == StatusPending || s == StatusProcessing
}

// VersionPayload is one ruleset version submitted for comparison.
type VersionPayload struct {
	Version     int             `json:"version"`
	VersionName string          `json:"versionName"`
	CreatedAt   time.Time       `json:"createdAt"`
	RawRules    json.RawMessage `json:"raw_rules"`
}

// SubmitRequest asks the service to compare an ordered list of versions.
// Versions must be ordered oldest first; the last entry is treated as the latest.
type SubmitRequest struct {
	ProjectID  string           `json:"projectId"`
	CustomerID string           `json:"customerId"`
	Versions   []VersionPayload `json:"versions"`
}

// Submission is the immediate answer to a SubmitRequest.
type Submission struct {
	JobID  string `json:"jobId"`
	Status Status `json:"status"`
}

// ComparisonResult holds one pairwise comparison per adjacent version pair.
type ComparisonResult struct {
	Versions    []reconcile.VersionInfo `json:"versions"`
	Comparisons []reconcile.Comparison  `json:"comparisons"`
}

// Job is the polled state of a comparison job.
type Job struct {
	JobID      string            `json:"jobId"`
	ProjectID  string            `json:"projectId"`
	CustomerID string            `json:"customerId"`
	Status     Status            `json:"status"`
	Result     *ComparisonResult `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Ruleset is a stored ruleset version as returned by the service.
type Ruleset struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	CustomerID  string          `json:"customer_id"`
	DocumentID  *string         `json:"document_id,omitempty"`
	Version     int             `json:"version"`
	VersionName string          `json:"versionName"`
	RawRules    json.RawMessage `json:"raw_rules"`
	MappedRules json.RawMessage `json:"mapped_rules,omitempty"`
	GapAnalysis json.RawMessage `json:"gap_analysis,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Payload converts the ruleset into a comparison submission entry.
func (r Ruleset) Payload() VersionPayload {
	return VersionPayload{
		Version:     r.Version,
		VersionName: r.VersionName,
		CreatedAt:   r.CreatedAt,
		RawRules:    r.RawRules,
	}
}

// TableQuery carries the display toggles for a reconciled table request.
type TableQuery = reconcile.Query
