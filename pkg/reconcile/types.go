// Package reconcile merges the pairwise diffs of an ordered list of ruleset versions
// into a single per-constraint, per-version table, and derives the filtered and
// sorted views rendered from it.
//
// A Table is query-only. It is rebuilt from scratch whenever the comparison list
// changes and carries no identity across rebuilds.
package reconcile

import (
	"errors"
	"time"
)

// ErrSequence indicates that a comparison list does not line up with the version
// list it is reconciled against.
var ErrSequence = errors.New("comparisons do not match version sequence")

// Status is the state of a constraint within a version.
type Status string

// Constraint and cell statuses. StatusNotPresent only appears on reconciled cells.
const (
	StatusUnchanged  Status = "unchanged"
	StatusModified   Status = "modified"
	StatusAdded      Status = "added"
	StatusRemoved    Status = "removed"
	StatusNotPresent Status = "not-present"
)

// IsChange reports whether s records a change relative to the previous version.
func (s Status) IsChange() bool {
	return s == StatusModified || s == StatusAdded || s == StatusRemoved
}

// Tag classifies a single line of a constraint diff.
// Modification is never a line tag; it is expressed as a mix of tags under one constraint.
type Tag string

// Line-level diff tags.
const (
	TagUnchanged Tag = "unchanged"
	TagAdded     Tag = "added"
	TagRemoved   Tag = "removed"
)

// Change is one line of a constraint diff.
type Change struct {
	Tag  Tag    `json:"tag"`
	Text string `json:"text"`
}

// ConstraintDiff is the diff of a single constraint between two versions.
type ConstraintDiff struct {
	ConstraintTitle string   `json:"constraint_title"`
	Status          Status   `json:"status"`
	Changes         []Change `json:"changes"`
}

// Comparison is the diff of two adjacent versions, identified by version name.
type Comparison struct {
	From                string           `json:"from"`
	To                  string           `json:"to"`
	ChangesByConstraint []ConstraintDiff `json:"changes_by_constraint"`
}

// VersionInfo identifies a ruleset version participating in a comparison.
type VersionInfo struct {
	Version     int       `json:"version"`
	VersionName string    `json:"versionName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Line is a tagged line of constraint text held by a cell.
type Line struct {
	Text string `json:"text"`
	Tag  Tag    `json:"tag"`
}

// Cell is the content of one constraint at one version.
type Cell struct {
	Status Status `json:"status"`
	Lines  []Line `json:"lines"`
}

// Row holds one constraint across every version, keyed by version name.
type Row struct {
	Title string          `json:"constraint_title"`
	Cells map[string]Cell `json:"cells"`
}

// Stats counts distinct constraints having at least one cell in each change status.
type Stats struct {
	Total    int `json:"total"`
	Modified int `json:"modified"`
	Added    int `json:"added"`
	Removed  int `json:"removed"`
}

// Table is the reconciled result of a version list and its comparisons.
// Rows are ordered alphabetically by constraint title.
type Table struct {
	Versions []VersionInfo `json:"versions"`
	Rows     []Row         `json:"rows"`
	Stats    Stats         `json:"stats"`
}

// Names returns the version names in table order, oldest first.
func (t Table) Names() []string {
	names := make([]string, len(t.Versions))
	for i, v := range t.Versions {
		names[i] = v.VersionName
	}
	return names
}
