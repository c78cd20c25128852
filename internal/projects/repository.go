package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/mandate/pkg/pagination"
	"github.com/JaimeStill/mandate/pkg/query"
	"github.com/JaimeStill/mandate/pkg/repository"
)

const returning = "RETURNING id, customer_id, name, catalog, created_at, updated_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a project repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "projects"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Project], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "CustomerID")

	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanProject)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Project, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, errorMap.Map(err)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Project, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	catalog := cmd.Catalog
	if len(catalog) == 0 {
		catalog = json.RawMessage("{}")
	}

	q := `
		INSERT INTO projects(id, customer_id, name, catalog)
		VALUES ($1, $2, $3, $4)
		` + returning

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), cmd.CustomerID, cmd.Name, string(catalog)}, scanProject)
	})
	if err != nil {
		return nil, errorMap.Map(err)
	}

	r.logger.Info("project created", "id", p.ID, "customer_id", p.CustomerID)
	return &p, nil
}

func (r *repo) UpdateCatalog(ctx context.Context, id uuid.UUID, catalog json.RawMessage) (*Project, error) {
	if len(catalog) == 0 || !json.Valid(catalog) {
		return nil, ErrInvalidCatalog
	}

	q := `
		UPDATE projects SET catalog = $2, updated_at = NOW()
		WHERE id = $1
		` + returning

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Project, error) {
		return repository.QueryOne(ctx, tx, q, []any{id, string(catalog)}, scanProject)
	})
	if err != nil {
		return nil, errorMap.Map(err)
	}

	r.logger.Info("project catalog updated", "id", id, "bytes", len(catalog))
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM projects WHERE id = $1", id)
	})
	if err != nil {
		return repository.ErrorMap{NotFound: ErrNotFound, MissingReference: ErrInUse}.Map(err)
	}

	r.logger.Info("project deleted", "id", id)
	return nil
}
