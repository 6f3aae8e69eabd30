package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"garage-tracker/internal/entity"
)

// PostgresStore keeps the snapshot as one row in a key/document table.
// Still a wholesale-overwritten single record, not a relational schema.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return pool, nil
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, key string) (*PostgresStore, error) {
	const q = `
CREATE TABLE IF NOT EXISTS snapshots (
    key        text PRIMARY KEY,
    payload    jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
);
`
	if _, err := pool.Exec(ctx, q); err != nil {
		return nil, fmt.Errorf("ensure snapshots table: %w", err)
	}
	return &PostgresStore{pool: pool, key: key}, nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]entity.Job, error) {
	const q = `SELECT payload FROM snapshots WHERE key = $1;`

	var raw []byte
	if err := s.pool.QueryRow(ctx, q, s.key).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var jobs []entity.Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return jobs, nil
}

func (s *PostgresStore) Save(ctx context.Context, jobs []entity.Job) error {
	raw, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	const q = `
INSERT INTO snapshots (key, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now();
`
	if _, err := s.pool.Exec(ctx, q, s.key, raw); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
