package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/petrijr/flowgraph/pkg/api"
)

// SQLiteSnapshotStore is a SnapshotStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteSnapshotStore struct {
	db *sql.DB
}

// Ensure SQLiteSnapshotStore implements SnapshotStore.
var _ SnapshotStore = (*SQLiteSnapshotStore)(nil)

// NewSQLiteSnapshotStore initializes the required schema in the given
// database and returns a new SQLiteSnapshotStore.
func NewSQLiteSnapshotStore(db *sql.DB) (*SQLiteSnapshotStore, error) {
	s := &SQLiteSnapshotStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSnapshotStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS definition_snapshots (
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			id TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (name, version)
		);`,
	)
	return err
}

func (s *SQLiteSnapshotStore) SaveSnapshot(ctx context.Context, snap *api.Snapshot) error {
	payload, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO definition_snapshots (name, version, id, fingerprint, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name, version) DO NOTHING`,
		snap.Name,
		snap.Version,
		snap.ID,
		snap.Fingerprint,
		payload,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSnapshotExists
	}
	return nil
}

func (s *SQLiteSnapshotStore) GetSnapshot(ctx context.Context, name, version string) (*api.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT payload
		FROM definition_snapshots
		WHERE name = ? AND version = ?`,
		name, version,
	)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return DecodeSnapshot(payload)
}

func (s *SQLiteSnapshotStore) ListVersions(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT version
		FROM definition_snapshots
		WHERE name = ?
		ORDER BY version`,
		name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *SQLiteSnapshotStore) ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]*api.Snapshot, error) {
	query := `SELECT payload FROM definition_snapshots`
	var args []any
	if filter.Name != "" {
		query += ` WHERE name = ?`
		args = append(args, filter.Name)
	}
	query += ` ORDER BY name, version`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*api.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		snap, err := DecodeSnapshot(payload)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snaps, nil
}
