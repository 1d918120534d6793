// Package testing provides a throwaway SQLite database for package tests.
package testing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/eleven-am/bulldoggy/internal/database"
)

// TestDB provides a test database connection
type TestDB struct {
	DB   *sqlx.DB
	Path string
	t    *testing.T
}

// NewTestDB creates a fresh SQLite database with the reminder schema in a
// temp directory. It is closed automatically when the test ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "bulldoggy_test.sqlite")
	db, err := database.NewDBConfig(database.DriverSQLite, path).Connect(ctx)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	tdb := &TestDB{DB: db, Path: path, t: t}
	t.Cleanup(tdb.Cleanup)
	return tdb
}

// Cleanup closes the connection. The file goes with the temp directory.
func (tdb *TestDB) Cleanup() {
	if err := tdb.DB.Close(); err != nil {
		tdb.t.Logf("Failed to close test database: %v", err)
	}
}

// ExecuteSQL executes SQL statements
func (tdb *TestDB) ExecuteSQL(sql string) error {
	statements := strings.Split(sql, ";")
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tdb.DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute SQL: %w\nStatement: %s", err, stmt)
		}
	}
	return nil
}

// TableExists checks if a table exists
func (tdb *TestDB) TableExists(tableName string) (bool, error) {
	var n int
	err := tdb.DB.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, tableName)
	return n > 0, err
}

// ColumnExists checks if a column exists in a table
func (tdb *TestDB) ColumnExists(tableName, columnName string) (bool, error) {
	var n int
	err := tdb.DB.Get(&n, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, tableName, columnName)
	return n > 0, err
}

// IndexExists checks if an index exists
func (tdb *TestDB) IndexExists(indexName string) (bool, error) {
	var n int
	err := tdb.DB.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?`, indexName)
	return n > 0, err
}

// Count returns the number of rows in a table, optionally filtered by a
// WHERE clause.
func (tdb *TestDB) Count(tableName, where string, args ...interface{}) int {
	tdb.t.Helper()

	query := "SELECT COUNT(*) FROM " + tableName
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := tdb.DB.Get(&n, query, args...); err != nil {
		tdb.t.Fatalf("Failed to count %s: %v", tableName, err)
	}
	return n
}
