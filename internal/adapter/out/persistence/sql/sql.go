// Package sql implements the agent, deployment, config-request, and
// registration persistence ports on top of a relational store, reached via
// jmoiron/sqlx over the jackc/pgx/v5 stdlib driver. Each aggregate is
// stored as a JSONB blob alongside the handful of columns queries actually
// filter or order on, the same opaque-payload/indexed-key split an
// etcd-backed adapter would draw between a value and its key.
package sql

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	// registers the "pgx" driver with database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Config is the subset of connection settings the adapter needs.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB wraps the sqlx handle shared by every persistence adapter in this
// package.
type DB struct {
	*sqlx.DB
}

// Open connects to the configured Postgres instance and applies schema.sql.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	conn, err := sqlx.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{DB: conn}

	if err := db.migrate(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}
