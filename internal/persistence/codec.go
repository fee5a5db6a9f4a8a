package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/petrijr/flowgraph/pkg/api"
)

// EncodeSnapshot serializes a snapshot as JSON. JSON keeps stored
// topologies readable from SQL consoles and lets Postgres store them as
// JSONB.
func EncodeSnapshot(snap *api.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("encode snapshot: nil snapshot")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %q: %w", snap.Name, err)
	}
	return data, nil
}

// DecodeSnapshot is the inverse of EncodeSnapshot.
func DecodeSnapshot(data []byte) (*api.Snapshot, error) {
	if len(data) == 0 {
		return nil, ErrSnapshotNotFound
	}
	var snap api.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// cloneSnapshot deep-copies snap through the codec so stores never share
// memory with callers.
func cloneSnapshot(snap *api.Snapshot) (*api.Snapshot, error) {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(data)
}
