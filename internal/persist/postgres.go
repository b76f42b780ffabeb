/*
Package persist
File: postgres.go
Description:
    Postgres-backed BlobStore for deployments where the save should live in
    a shared database instead of a local file. Selected by passing a DSN to
    `serve --postgres-dsn`.
*/

package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ BlobStore = (*PostgresStore)(nil)

// PostgresStore stores blobs in a `saves` table via a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and ensures the saves table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS saves (
		key        TEXT PRIMARY KEY,
		blob       BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Get(key string) ([]byte, bool, error) {
	var blob []byte
	err := p.pool.QueryRow(context.Background(),
		`SELECT blob FROM saves WHERE key = $1`, key).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("postgres get: %w", err)
	}
	return blob, true, nil
}

func (p *PostgresStore) Set(key string, blob []byte) error {
	_, err := p.pool.Exec(context.Background(),
		`INSERT INTO saves (key, blob, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at`,
		key, blob,
	)
	if err != nil {
		return fmt.Errorf("postgres set: %w", err)
	}
	return nil
}

func (p *PostgresStore) Delete(key string) error {
	if _, err := p.pool.Exec(context.Background(),
		`DELETE FROM saves WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres delete: %w", err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
