// Package postgres persists the ledger snapshot as a single jsonb row,
// for setups that already run PostgreSQL and want wallet state in their
// regular backup path.
package postgres

import (
	"context"
	"fmt"

	"shamsi-wallet/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Pool is the subset of pgxpool.Pool the snapshot store needs; pgxmock
// implements it for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool creates a PostgreSQL connection pool and ensures the snapshot
// table exists.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Msg("PostgreSQL connection pool established")

	return pool, nil
}

// EnsureSchema creates the single-row snapshot table if it is missing.
func EnsureSchema(ctx context.Context, pool Pool) error {
	query := `CREATE TABLE IF NOT EXISTS snapshots (
		id smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		data jsonb NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`

	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensuring snapshot table: %w", err)
	}
	return nil
}
