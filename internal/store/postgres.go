package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

// Postgres keeps documents in the local_storage table created by
// internal/migrate. Values are text so a corrupt document can still be read
// back and reported as malformed.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Get(ctx context.Context, origin, key string) ([]byte, error) {
	const q = `
SELECT value
FROM local_storage
WHERE origin = $1 AND key = $2
`
	var value string
	if err := p.pool.QueryRow(ctx, q, origin, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (p *Postgres) Set(ctx context.Context, origin, key string, value []byte) error {
	const q = `
INSERT INTO local_storage (origin, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (origin, key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	_, err := p.pool.Exec(ctx, q, origin, key, string(value))
	return err
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
