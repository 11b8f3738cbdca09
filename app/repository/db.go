package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrRoleNotFound is returned when a role type has no row in the roles table.
var ErrRoleNotFound = errors.New("role not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner func(dest ...interface{}) error
