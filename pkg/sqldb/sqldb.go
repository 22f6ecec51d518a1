// Package sqldb opens sqlx connection pools and applies migrations for the
// SQL drivers the service supports.
package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverPgx    = "pgx"
	DriverSQLite = "sqlite"
)

// Option tunes the connection pool.
type Option func(*sqlx.DB)

// WithConnMaxIdleTime wraps sql.DB.SetConnMaxIdleTime.
func WithConnMaxIdleTime(d time.Duration) Option {
	return func(db *sqlx.DB) {
		db.SetConnMaxIdleTime(d)
	}
}

// WithConnMaxLifetime wraps sql.DB.SetConnMaxLifetime.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *sqlx.DB) {
		db.SetConnMaxLifetime(d)
	}
}

// WithMaxIdleConns wraps sql.DB.SetMaxIdleConns.
func WithMaxIdleConns(n int) Option {
	return func(db *sqlx.DB) {
		db.SetMaxIdleConns(n)
	}
}

// WithMaxOpenConns wraps sql.DB.SetMaxOpenConns.
func WithMaxOpenConns(n int) Option {
	return func(db *sqlx.DB) {
		db.SetMaxOpenConns(n)
	}
}

// Open connects to the database behind dsn using the registered driver
// and applies opts to the resulting pool.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*sqlx.DB, error) {
	const op = "sqldb.Open"

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to %s database: %w", op, driver, err)
	}

	for _, opt := range opts {
		opt(db)
	}

	return db, nil
}
