// Package memory provides in-memory repository implementations used by
// tests and local development.
package memory

import (
	"context"
	"database/sql"

	"github.com/petprotect/hub/internal/database"
)

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }
func (noopTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

type baseRepo struct{}

func (baseRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return noopTx{}, nil
}
