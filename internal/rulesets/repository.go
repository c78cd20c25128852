package rulesets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/internal/workflow"
	"github.com/JaimeStill/mandate/pkg/query"
	"github.com/JaimeStill/mandate/pkg/repository"
)

type repo struct {
	db     *sql.DB
	rt     *workflow.Runtime
	logger *slog.Logger
}

// New creates a ruleset repository implementing the System interface.
// rt supplies the dependencies of the rule-mapping workflow used by Generate.
func New(db *sql.DB, rt *workflow.Runtime, logger *slog.Logger) System {
	return &repo{
		db:     db,
		rt:     rt,
		logger: logger.With("system", "rulesets"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, projectID uuid.UUID) ([]Version, error) {
	q, args := query.
		NewBuilder(projection, oldestFirst).
		WhereEquals("ProjectID", projectID).
		Build()

	versions, err := repository.QueryMany(ctx, r.db, q, args, scanVersion)
	if err != nil {
		return nil, fmt.Errorf("query ruleset versions: %w", err)
	}
	return versions, nil
}

func (r *repo) Find(ctx context.Context, projectID uuid.UUID, version int) (*Version, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("ProjectID", projectID).
		WhereEquals("Version", version).
		First()

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVersion)
	if err != nil {
		return nil, errorMap.Map(err)
	}
	return &v, nil
}

func (r *repo) FindByCustomer(ctx context.Context, customerID string, version int) (*Version, error) {
	q, args := query.
		NewBuilder(projection, newestFirst).
		WhereEquals("CustomerID", customerID).
		WhereEquals("Version", version).
		First()

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVersion)
	if err != nil {
		return nil, errorMap.Map(err)
	}
	return &v, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Version, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Version, error) {
		return r.insert(ctx, tx, cmd)
	})
	if err != nil {
		return nil, errorMap.Map(err)
	}

	r.logger.Info(
		"ruleset version created",
		"project_id", v.ProjectID,
		"version", v.Version,
		"version_name", v.VersionName,
		"sections", len(v.RawRules),
	)
	return &v, nil
}

func (r *repo) Generate(ctx context.Context, cmd GenerateCommand) (*Version, error) {
	result, err := workflow.Execute(ctx, r.rt, cmd.DocumentID)
	if err != nil {
		return nil, err
	}

	return r.Create(ctx, CreateCommand{
		ProjectID:   result.ProjectID,
		DocumentID:  &result.DocumentID,
		VersionName: cmd.VersionName,
		RawRules:    result.Sections,
		MappedRules: result.MappedRules,
		GapAnalysis: result.GapAnalysis,
	})
}

// insert locks the project row so concurrent appends to the same project
// receive consecutive version numbers.
func (r *repo) insert(ctx context.Context, tx *sql.Tx, cmd CreateCommand) (Version, error) {
	customerID, err := repository.QueryScalar[string](
		ctx, tx,
		"SELECT customer_id FROM projects WHERE id = $1 FOR UPDATE",
		cmd.ProjectID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Version{}, ErrProjectNotFound
		}
		return Version{}, err
	}

	next, err := repository.QueryScalar[int](
		ctx, tx,
		"SELECT COALESCE(MAX(version), 0) + 1 FROM ruleset_versions WHERE project_id = $1",
		cmd.ProjectID,
	)
	if err != nil {
		return Version{}, err
	}

	name := cmd.VersionName
	if name == "" {
		name = defaultVersionName(next)
	}

	rawRules, err := json.Marshal(cmd.RawRules)
	if err != nil {
		return Version{}, fmt.Errorf("encode raw_rules: %w", err)
	}

	q := `
		INSERT INTO ruleset_versions(id, project_id, customer_id, document_id, version, version_name, raw_rules, mapped_rules, gap_analysis)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, project_id, customer_id, document_id, version, version_name, raw_rules, mapped_rules, gap_analysis, created_at`

	args := []any{
		uuid.New(),
		cmd.ProjectID,
		customerID,
		cmd.DocumentID,
		next,
		name,
		string(rawRules),
		nullableJSON(cmd.MappedRules),
		nullableJSON(cmd.GapAnalysis),
	}

	return repository.QueryOne(ctx, tx, q, args, scanVersion)
}

func nullableJSON(data json.RawMessage) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}
