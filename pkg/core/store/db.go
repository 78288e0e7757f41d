package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// schema is applied by EnsureSchema.
const schema = `
CREATE TABLE IF NOT EXISTS fincast_analysis (
	id          TEXT PRIMARY KEY,
	label       TEXT NOT NULL DEFAULT '',
	result_json JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

// InitDB initializes the database connection pool for dbURL.
// Later calls are no-ops and return the first call's error.
func InitDB(ctx context.Context, dbURL string) error {
	var err error
	once.Do(func() {
		if dbURL == "" {
			err = fmt.Errorf("database URL not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
	})
	return err
}

// EnsureSchema creates the analysis table if it does not exist.
func EnsureSchema(ctx context.Context) error {
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// GetPool returns the database connection pool
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool
func Close() {
	if pool != nil {
		pool.Close()
	}
}
