package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/petrijr/flowgraph/internal/persistence"
)

// openStore connects the configured backend. The returned close function
// is never nil.
func openStore(ctx context.Context, cfg *Config) (persistence.SnapshotStore, func(), error) {
	noop := func() {}

	switch cfg.Store {
	case StoreMemory:
		return persistence.NewInMemoryStore(), noop, nil

	case StoreSQLite:
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite %q: %w", cfg.DSN, err)
		}
		store, err := persistence.NewSQLiteSnapshotStore(db)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return store, func() { _ = db.Close() }, nil

	case StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		store, err := persistence.NewPostgresSnapshotStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return store, pool.Close, nil

	case StoreRedis:
		opts, err := redis.ParseURL(cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("connect redis: %w", err)
		}
		return persistence.NewRedisSnapshotStore(client, ""), func() { _ = client.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unknown store %q", cfg.Store)
}
