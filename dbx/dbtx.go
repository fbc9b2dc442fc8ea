// Package dbx provides the tiny database abstraction shared by repositories:
// a minimal interface (DBTX) implemented by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
// Repositories depend on it instead of the concrete pool so they can run inside
// a transaction or against a mock.
package dbx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx used by our repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgreSQL error codes the repositories translate into application errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint violation and, if so,
// returns the name of the violated constraint.
func IsUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return "", false
	}
	return pgErr.ConstraintName, true
}

// IsForeignKeyViolation reports whether err is a foreign key violation, e.g. a
// task inserted for a user that was deleted in the meantime.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
