package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const pgKVSchema = `CREATE TABLE IF NOT EXISTS concierge_kv (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresKV implements KV on a PostgreSQL table. Values are stored as
// JSONB, so they must be JSON documents.
type PostgresKV struct {
	pool *pgxpool.Pool
}

// NewPostgresKV connects to connURL and creates the table if it is missing.
func NewPostgresKV(ctx context.Context, connURL string) (*PostgresKV, error) {
	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := pool.Exec(ctx, pgKVSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply kv schema: %w", err)
	}

	cfg := pool.Config().ConnConfig
	log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Postgres store opened")
	return &PostgresKV{pool: pool}, nil
}

func (s *PostgresKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value::text FROM concierge_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO concierge_kv (key, value, updated_at) VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *PostgresKV) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresKV) Close() error {
	s.pool.Close()
	log.Info().Msg("Postgres store closed")
	return nil
}
