package rulesets

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/mandate/pkg/query"
	"github.com/JaimeStill/mandate/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "ruleset_versions", "r").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("customer_id", "CustomerID").
	Project("document_id", "DocumentID").
	Project("version", "Version").
	Project("version_name", "VersionName").
	Project("raw_rules", "RawRules").
	Project("mapped_rules", "MappedRules").
	Project("gap_analysis", "GapAnalysis").
	Project("created_at", "CreatedAt")

var (
	oldestFirst = query.SortField{Field: "Version"}
	newestFirst = query.SortField{Field: "CreatedAt", Descending: true}
)

var errorMap = repository.ErrorMap{
	NotFound:         ErrNotFound,
	Duplicate:        ErrDuplicate,
	MissingReference: ErrProjectNotFound,
}

func scanVersion(s repository.Scanner) (Version, error) {
	var (
		v        Version
		rawRules []byte
		mapped   []byte
		gaps     []byte
	)

	if err := s.Scan(
		&v.ID,
		&v.ProjectID,
		&v.CustomerID,
		&v.DocumentID,
		&v.Version,
		&v.VersionName,
		&rawRules,
		&mapped,
		&gaps,
		&v.CreatedAt,
	); err != nil {
		return v, err
	}

	if err := json.Unmarshal(rawRules, &v.RawRules); err != nil {
		return v, fmt.Errorf("decode raw_rules of version %d: %w", v.Version, err)
	}
	v.MappedRules = mapped
	v.GapAnalysis = gaps

	return v, nil
}
