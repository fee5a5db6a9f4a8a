package persistence

import (
	"context"
	"errors"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/flowgraph/pkg/api"
)

// RedisSnapshotStore is a SnapshotStore backed by Redis.
// It uses a simple key structure:
//
//	<prefix>snap:<name>:<version>  => JSON-encoded snapshot
//	<prefix>idx:names              => SET of definition names
//	<prefix>idx:versions:<name>    => SET of versions for a name
//
// Snapshots are written with SETNX, so an existing name and version is never
// overwritten. The indexes are updated after the payload.
type RedisSnapshotStore struct {
	client *redis.Client
	prefix string
}

var _ SnapshotStore = (*RedisSnapshotStore)(nil)

// NewRedisSnapshotStore creates a RedisSnapshotStore.
// prefix is optional but recommended (e.g. "flowgraph:").
func NewRedisSnapshotStore(client *redis.Client, prefix string) *RedisSnapshotStore {
	if prefix == "" {
		prefix = "flowgraph:"
	}
	return &RedisSnapshotStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisSnapshotStore) keySnapshot(name, version string) string {
	return s.prefix + "snap:" + name + ":" + version
}

func (s *RedisSnapshotStore) keyNames() string {
	return s.prefix + "idx:names"
}

func (s *RedisSnapshotStore) keyVersions(name string) string {
	return s.prefix + "idx:versions:" + name
}

func (s *RedisSnapshotStore) SaveSnapshot(ctx context.Context, snap *api.Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, s.keySnapshot(snap.Name, snap.Version), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSnapshotExists
	}

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, s.keyNames(), snap.Name)
	pipe.SAdd(ctx, s.keyVersions(snap.Name), snap.Version)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisSnapshotStore) GetSnapshot(ctx context.Context, name, version string) (*api.Snapshot, error) {
	data, err := s.client.Get(ctx, s.keySnapshot(name, version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return DecodeSnapshot(data)
}

func (s *RedisSnapshotStore) ListVersions(ctx context.Context, name string) ([]string, error) {
	versions, err := s.client.SMembers(ctx, s.keyVersions(name)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	if versions == nil {
		versions = []string{}
	}
	slices.Sort(versions)
	return versions, nil
}

func (s *RedisSnapshotStore) ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]*api.Snapshot, error) {
	var names []string
	if filter.Name != "" {
		names = []string{filter.Name}
	} else {
		var err error
		names, err = s.client.SMembers(ctx, s.keyNames()).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, err
		}
	}

	var keys []string
	for _, name := range names {
		versions, err := s.ListVersions(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, v := range versions {
			keys = append(keys, s.keySnapshot(name, v))
		}
	}
	if len(keys) == 0 {
		return []*api.Snapshot{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	var snaps []*api.Snapshot
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		snap, err := DecodeSnapshot(data)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	sortSnapshots(snaps)
	return snaps, nil
}
