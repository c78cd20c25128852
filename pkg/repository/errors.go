package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ErrorMap translates database errors to the domain errors of one package.
// Nil fields leave the matching database error unchanged.
type ErrorMap struct {
	NotFound         error
	Duplicate        error
	MissingReference error
}

// Map translates err. sql.ErrNoRows becomes NotFound, a unique violation becomes
// Duplicate, and a foreign key violation becomes MissingReference.
func (m ErrorMap) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && m.NotFound != nil {
		return m.NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && m.Duplicate != nil:
			return m.Duplicate
		case pgErr.Code == pgForeignKeyViolation && m.MissingReference != nil:
			return m.MissingReference
		}
	}

	return err
}

// MapError maps sql.ErrNoRows to notFoundErr and unique violations to duplicateErr.
func MapError(err error, notFoundErr, duplicateErr error) error {
	return ErrorMap{NotFound: notFoundErr, Duplicate: duplicateErr}.Map(err)
}
