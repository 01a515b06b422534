// internal/repository/db_executor.go
package repository

import (
	"context"
	"database/sql"
)

// DBExecutor is what the row-level helpers need to read and write a single record.
// *sqlx.DB satisfies it for plain calls; *sqlx.Tx satisfies it inside UpdateWithLock,
// where the row is read FOR UPDATE and written back before commit.
type DBExecutor interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
