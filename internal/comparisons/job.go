// Package comparisons runs version comparison jobs in the background and
// serves their status and reconciled results.
//
// A job is created pending, moved to processing by its runner goroutine, and
// ends completed or failed. Records expire a fixed TTL after creation.
package comparisons

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/pkg/reconcile"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition will occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// VersionPayload is one ruleset version submitted for comparison.
type VersionPayload struct {
	Version     int             `json:"version"`
	VersionName string          `json:"versionName"`
	CreatedAt   time.Time       `json:"createdAt"`
	RawRules    json.RawMessage `json:"raw_rules"`
}

// SubmitRequest asks for a comparison of versions ordered oldest first.
type SubmitRequest struct {
	ProjectID  string           `json:"projectId"`
	CustomerID string           `json:"customerId"`
	Versions   []VersionPayload `json:"versions"`
}

// Validate rejects requests that could never produce a comparison.
func (r SubmitRequest) Validate() error {
	if r.ProjectID == "" {
		return fmt.Errorf("%w: projectId required", ErrInvalidRequest)
	}
	if r.CustomerID == "" {
		return fmt.Errorf("%w: customerId required", ErrInvalidRequest)
	}
	if len(r.Versions) < 2 {
		return fmt.Errorf("%w: got %d", ErrVersionsRequired, len(r.Versions))
	}

	seen := make(map[string]bool, len(r.Versions))
	for i, v := range r.Versions {
		if v.VersionName == "" {
			return fmt.Errorf("%w: versions[%d] missing versionName", ErrInvalidRequest, i)
		}
		if seen[v.VersionName] {
			return fmt.Errorf("%w: duplicate versionName %q", ErrInvalidRequest, v.VersionName)
		}
		seen[v.VersionName] = true
		if len(v.RawRules) == 0 || !json.Valid(v.RawRules) {
			return fmt.Errorf("%w: versions[%d] raw_rules must be JSON", ErrInvalidRequest, i)
		}
	}
	return nil
}

// Infos returns the identifying fields of the versions in submission order.
func (r SubmitRequest) Infos() []reconcile.VersionInfo {
	infos := make([]reconcile.VersionInfo, len(r.Versions))
	for i, v := range r.Versions {
		infos[i] = reconcile.VersionInfo{
			Version:     v.Version,
			VersionName: v.VersionName,
			CreatedAt:   v.CreatedAt,
		}
	}
	return infos
}

// Result holds one pairwise comparison per adjacent version pair.
type Result struct {
	Versions    []reconcile.VersionInfo `json:"versions"`
	Comparisons []reconcile.Comparison  `json:"comparisons"`
}

// Table reconciles the comparisons into a per-constraint table.
func (r Result) Table() reconcile.Table {
	return reconcile.Reconcile(r.Versions, r.Comparisons)
}

// Job is the persisted record of a comparison job.
type Job struct {
	JobID      uuid.UUID `json:"jobId"`
	ProjectID  string    `json:"projectId"`
	CustomerID string    `json:"customerId"`
	Status     Status    `json:"status"`
	Result     *Result   `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Submission is the immediate response to a SubmitRequest.
type Submission struct {
	JobID  uuid.UUID `json:"jobId"`
	Status Status    `json:"status"`
}
