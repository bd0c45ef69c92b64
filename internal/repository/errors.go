package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateKey is returned when a unique constraint rejects a write.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrHasDependents is returned when a row is still referenced by another table.
	ErrHasDependents = errors.New("row is still referenced")
	// ErrConnection is returned when the database cannot be reached.
	ErrConnection = errors.New("database connection failed")
)

// classify tags driver errors with the sentinel that callers branch on.
// Unrecognized errors are returned unchanged.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w (%s): %w", ErrDuplicateKey, pgErr.ConstraintName, err)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w (%s): %w", ErrHasDependents, pgErr.ConstraintName, err)
		}
		if pgerrcode.IsConnectionException(pgErr.Code) {
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return err
}
