// Package database opens the SQL connection Bulldoggy stores reminders in and
// owns the schema, transaction helper and driver error normalization.
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, the default,
// no cgo) and "postgres" (github.com/lib/pq).
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/eleven-am/bulldoggy/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DBConfig struct {
	Driver          string
	URL             string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

func NewDBConfig(driver, url string) *DBConfig {
	return &DBConfig{
		Driver:          driver,
		URL:             url,
		ConnMaxLifetime: 10 * time.Minute,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
	}
}

// Connect opens and pings the database.
func (cfg *DBConfig) Connect(ctx context.Context) (*sqlx.DB, error) {
	dsn := cfg.URL
	switch cfg.Driver {
	case DriverSQLite:
		dsn = sqliteDSN(cfg.URL)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY
		// and keeps ":memory:" databases shared across the pool.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, ParseError(fmt.Errorf("failed to ping database: %w", err), "connect", "")
	}

	logger.DB().Debug("database connected", "driver", cfg.Driver)
	return db, nil
}

func sqliteDSN(url string) string {
	if strings.Contains(url, "_pragma=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Placeholder returns the bind-variable style for a driver name.
func Placeholder(driver string) squirrel.PlaceholderFormat {
	if driver == DriverPostgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}
