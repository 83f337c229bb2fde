// Package replicate persists collection snapshots to Postgres and fans
// them out to the remote sheet endpoint through background jobs. All of
// it is best effort: callers never block on, or fail because of, the
// replication path.
package replicate

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salescope/salescope/internal/shared"
)

// SnapshotStore persists and loads whole-collection snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, collection string, payload []byte) error
	Load(ctx context.Context, collection string) ([]byte, error)
}

// PGStore keeps one jsonb snapshot row per collection.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// EnsureSchema creates the snapshot table when missing.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS collection_snapshots (
			collection TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

// Save upserts the snapshot for collection.
func (s *PGStore) Save(ctx context.Context, collection string, payload []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO collection_snapshots (collection, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (collection)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		collection, payload)
	return err
}

// Load returns the latest snapshot for collection.
func (s *PGStore) Load(ctx context.Context, collection string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM collection_snapshots WHERE collection = $1`,
		collection).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}
