package database

import (
	"context"
	"fmt"

	"github.com/eleven-am/bulldoggy/internal/logger"
)

const (
	TableLists    = "reminder_lists"
	TableItems    = "reminder_items"
	TableSelected = "selected_lists"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS reminder_lists (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		owner TEXT NOT NULL,
		name  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reminder_items (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		list_id     INTEGER NOT NULL,
		description TEXT NOT NULL,
		completed   BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS selected_lists (
		owner   TEXT PRIMARY KEY,
		list_id INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reminder_lists_owner ON reminder_lists (owner)`,
	`CREATE INDEX IF NOT EXISTS idx_reminder_items_list_id ON reminder_items (list_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS reminder_lists (
		id    BIGSERIAL PRIMARY KEY,
		owner TEXT NOT NULL,
		name  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reminder_items (
		id          BIGSERIAL PRIMARY KEY,
		list_id     BIGINT NOT NULL,
		description TEXT NOT NULL,
		completed   BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS selected_lists (
		owner   TEXT PRIMARY KEY,
		list_id BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reminder_lists_owner ON reminder_lists (owner)`,
	`CREATE INDEX IF NOT EXISTS idx_reminder_items_list_id ON reminder_items (list_id)`,
}

// SchemaFor returns the DDL statements for a driver.
func SchemaFor(driver string) ([]string, error) {
	switch driver {
	case DriverSQLite:
		return sqliteSchema, nil
	case DriverPostgres:
		return postgresSchema, nil
	}
	return nil, fmt.Errorf("no schema for driver %q", driver)
}

// EnsureSchema creates the reminder tables if they do not exist yet.
// Items and selections carry no foreign keys: cascades are done by the store
// and a dangling selection is healed on read.
func EnsureSchema(ctx context.Context, exec DBExecutor) error {
	stmts, err := SchemaFor(exec.DriverName())
	if err != nil {
		return err
	}

	return WithTx(ctx, exec, func(tx DBExecutor) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return ParseError(fmt.Errorf("failed to apply schema: %w", err), "migrate", "")
			}
		}
		logger.DB().Debug("schema ensured", "driver", exec.DriverName(), "statements", len(stmts))
		return nil
	})
}
