package persistence

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/petrijr/flowgraph/internal/testutil"
)

func TestPostgresStoreSuite(t *testing.T) {
	dsn := testutil.GetPostgresDSN(t)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	suite.Run(t, &SnapshotStoreSuite{
		newStore: func() SnapshotStore {
			store, err := NewPostgresSnapshotStore(ctx, pool)
			require.NoError(t, err)
			require.NoError(t, store.DropSchema(ctx))
			store, err = NewPostgresSnapshotStore(ctx, pool)
			require.NoError(t, err)
			return store
		},
	})
}
