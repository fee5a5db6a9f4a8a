package persistence

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/petrijr/flowgraph/pkg/api"
)

var (
	// ErrSnapshotNotFound is returned when no snapshot exists for a
	// name and version.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSnapshotExists is returned when a name and version is saved twice.
	// Published snapshots are immutable.
	ErrSnapshotExists = errors.New("snapshot already exists")
)

// SnapshotFilter is used to select snapshots from a store.
// Empty string means "no filter" for that field.
type SnapshotFilter struct {
	Name string
}

// SnapshotStore persists the topology of published definitions.
type SnapshotStore interface {
	// SaveSnapshot stores snap. It returns ErrSnapshotExists if the name and
	// version is already stored.
	SaveSnapshot(ctx context.Context, snap *api.Snapshot) error
	GetSnapshot(ctx context.Context, name, version string) (*api.Snapshot, error)
	// ListVersions returns the stored versions of name, sorted.
	ListVersions(ctx context.Context, name string) ([]string, error)
	// ListSnapshots returns matching snapshots ordered by name, then version.
	ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]*api.Snapshot, error)
}

func sortSnapshots(snaps []*api.Snapshot) {
	slices.SortFunc(snaps, func(a, b *api.Snapshot) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Version, b.Version))
	})
}
