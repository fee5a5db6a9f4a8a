package persistence

import (
	"context"
	"slices"
	"sync"

	"github.com/petrijr/flowgraph/pkg/api"
)

// InMemoryStore is a simple, goroutine-safe SnapshotStore backed by maps.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]map[string]*api.Snapshot
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		snapshots: make(map[string]map[string]*api.Snapshot),
	}
}

var _ SnapshotStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveSnapshot(ctx context.Context, snap *api.Snapshot) error {
	stored, err := cloneSnapshot(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	versions := s.snapshots[snap.Name]
	if versions == nil {
		versions = make(map[string]*api.Snapshot)
		s.snapshots[snap.Name] = versions
	}
	if _, ok := versions[snap.Version]; ok {
		return ErrSnapshotExists
	}
	versions[snap.Version] = stored
	return nil
}

func (s *InMemoryStore) GetSnapshot(ctx context.Context, name, version string) (*api.Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[name][version]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return cloneSnapshot(snap)
}

func (s *InMemoryStore) ListVersions(ctx context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.snapshots[name]))
	for v := range s.snapshots[name] {
		out = append(out, v)
	}
	slices.Sort(out)
	return out, nil
}

func (s *InMemoryStore) ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]*api.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*api.Snapshot
	for name, versions := range s.snapshots {
		if filter.Name != "" && name != filter.Name {
			continue
		}
		for _, snap := range versions {
			c, err := cloneSnapshot(snap)
			if err != nil {
				return nil, err
			}
			result = append(result, c)
		}
	}
	sortSnapshots(result)
	return result, nil
}
