package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petrijr/flowgraph/pkg/api"
)

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS definition_snapshots (
    name         TEXT NOT NULL,
    version      TEXT NOT NULL,
    id           TEXT NOT NULL,
    fingerprint  TEXT NOT NULL,
    payload      JSONB NOT NULL,
    published_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (name, version)
);

CREATE INDEX IF NOT EXISTS idx_definition_snapshots_fingerprint ON definition_snapshots(fingerprint);
`

// PostgresSnapshotStore is a SnapshotStore backed by PostgreSQL via a pgx
// connection pool. Snapshots are stored as JSONB.
type PostgresSnapshotStore struct {
	db *pgxpool.Pool
}

var _ SnapshotStore = (*PostgresSnapshotStore)(nil)

// NewPostgresSnapshotStore creates the schema if needed and returns a store
// using pool.
func NewPostgresSnapshotStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresSnapshotStore, error) {
	s := &PostgresSnapshotStore{db: pool}
	if _, err := s.db.Exec(ctx, postgresSchemaSQL); err != nil {
		return nil, fmt.Errorf("postgres snapshot store: create schema: %w", err)
	}
	return s, nil
}

// DropSchema drops the snapshot table. Intended for tests.
func (s *PostgresSnapshotStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS definition_snapshots`)
	return err
}

func (s *PostgresSnapshotStore) SaveSnapshot(ctx context.Context, snap *api.Snapshot) error {
	payload, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO definition_snapshots (name, version, id, fingerprint, payload, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name, version) DO NOTHING`,
		snap.Name, snap.Version, snap.ID, snap.Fingerprint, payload, snap.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres snapshot store: insert %q %q: %w", snap.Name, snap.Version, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSnapshotExists
	}
	return nil
}

func (s *PostgresSnapshotStore) GetSnapshot(ctx context.Context, name, version string) (*api.Snapshot, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT payload FROM definition_snapshots WHERE name = $1 AND version = $2`,
		name, version,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres snapshot store: get %q %q: %w", name, version, err)
	}
	return DecodeSnapshot(payload)
}

func (s *PostgresSnapshotStore) ListVersions(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT version FROM definition_snapshots WHERE name = $1 ORDER BY version COLLATE "C"`, name)
	if err != nil {
		return nil, fmt.Errorf("postgres snapshot store: list versions: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres snapshot store: scan versions: %w", err)
	}
	if versions == nil {
		versions = []string{}
	}
	return versions, nil
}

func (s *PostgresSnapshotStore) ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]*api.Snapshot, error) {
	query := `SELECT payload FROM definition_snapshots`
	var args []any
	if filter.Name != "" {
		query += ` WHERE name = $1`
		args = append(args, filter.Name)
	}
	query += ` ORDER BY name COLLATE "C", version COLLATE "C"`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres snapshot store: list: %w", err)
	}
	payloads, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("postgres snapshot store: scan: %w", err)
	}

	snaps := make([]*api.Snapshot, 0, len(payloads))
	for _, p := range payloads {
		snap, err := DecodeSnapshot(p)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}
