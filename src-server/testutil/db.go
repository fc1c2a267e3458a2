// Package testutil opens throwaway databases with the production schema.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"dndbot/src-server/model"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// MustOpenDB opens an in-memory sqlite database, creates the schema and
// closes it on test cleanup. The pool is pinned to a single connection since
// every sqlite :memory: connection is a separate database.
func MustOpenDB(t *testing.T) *bun.DB {
	t.Helper()

	rawDB, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)
	rawDB.SetConnMaxLifetime(0)

	db := bun.NewDB(rawDB, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, err = db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, model.CreateSchema(context.Background(), db))

	return db
}

// MustExec runs raw SQL for fixtures that the public API deliberately
// cannot produce (e.g. sessions dated in the past).
func MustExec(t *testing.T, db bun.IDB, query string, args ...any) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}
