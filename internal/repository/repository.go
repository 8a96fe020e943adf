package repository

import (
	"context"
	"database/sql"
	"errors"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
// Queries are written with ? placeholders and passed through Rebind for the active driver.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// isNoRows keeps not-found handling uniform across repositories.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
