package flowgraph

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/petrijr/flowgraph/internal/persistence"
)

type (
	SnapshotStore  = persistence.SnapshotStore
	SnapshotFilter = persistence.SnapshotFilter
)

var (
	ErrSnapshotNotFound = persistence.ErrSnapshotNotFound
	ErrSnapshotExists   = persistence.ErrSnapshotExists
)

// Store constructors
// These wrap the internal/persistence package so external callers
// never need to import internal packages.

// NewInMemoryStore returns a non-durable SnapshotStore, best for tests.
func NewInMemoryStore() SnapshotStore {
	return persistence.NewInMemoryStore()
}

// NewSQLiteStore returns a SnapshotStore persisting snapshots in a SQLite
// database. The caller imports the driver, e.g. _ "modernc.org/sqlite".
func NewSQLiteStore(db *sql.DB) (SnapshotStore, error) {
	s, err := persistence.NewSQLiteSnapshotStore(db)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewPostgresStore returns a SnapshotStore persisting snapshots as JSONB in
// PostgreSQL.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (SnapshotStore, error) {
	s, err := persistence.NewPostgresSnapshotStore(ctx, pool)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewRedisStore returns a SnapshotStore persisting snapshots in Redis under
// prefix.
func NewRedisStore(client *redis.Client, prefix string) SnapshotStore {
	return persistence.NewRedisSnapshotStore(client, prefix)
}
