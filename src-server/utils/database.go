package utils

import (
	"context"
	"database/sql"
	"fmt"

	"dndbot/src-server/model"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// OpenDB opens the sqlite database at path and creates the schema. The pool
// holds a single connection: sqlite allows one writer, and a transaction
// holding it would otherwise deadlock against statements issued on the pool.
func OpenDB(ctx context.Context, path string) (*bun.DB, error) {
	rawDB, err := sql.Open(sqliteshim.ShimName, path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("OpenDB: can't open sqlite database: %w", err)
	}
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)
	rawDB.SetConnMaxLifetime(0)

	bunDB := bun.NewDB(rawDB, sqlitedialect.New())
	bunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	if _, err := bunDB.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = bunDB.Close()
		return nil, fmt.Errorf("OpenDB: can't enable foreign keys: %w", err)
	}
	if err := model.CreateSchema(ctx, bunDB); err != nil {
		_ = bunDB.Close()
		return nil, fmt.Errorf("OpenDB: %w", err)
	}
	return bunDB, nil
}
