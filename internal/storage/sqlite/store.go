package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/sitegrid/internal/effects"
	"github.com/banshee-data/sitegrid/internal/monitoring"
)

// ErrSnapshotNotFound is returned when no snapshot matches a query.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store is a SQLite-backed effects.SnapshotStore.
type Store struct {
	*sql.DB
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

// Open opens (creating if needed) the database at path and migrates it to
// the latest schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases coherent across calls.
	db.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	s := &Store{DB: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	monitoring.Logf("[store] opened snapshot database %s", path)
	return s, nil
}

// InsertSnapshot persists s and returns its new snapshot_id. s.SnapshotID is
// updated on success.
func (s *Store) InsertSnapshot(snap *effects.Snapshot) (int64, error) {
	if snap == nil {
		return 0, nil
	}
	res, err := s.Exec(`INSERT INTO site_snapshot (effect_id, kind, taken_unix_nanos, capacity, element_count, snapshot_reason, blob)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.EffectID, snap.Kind, snap.TakenUnixNanos, snap.Capacity, snap.ElementCount, snap.Reason, snap.Blob)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	snap.SnapshotID = id
	return id, nil
}

const snapshotColumns = `snapshot_id, effect_id, kind, taken_unix_nanos, capacity, element_count, snapshot_reason, blob`

func scanSnapshot(row interface{ Scan(...any) error }) (*effects.Snapshot, error) {
	var snap effects.Snapshot
	err := row.Scan(
		&snap.SnapshotID,
		&snap.EffectID,
		&snap.Kind,
		&snap.TakenUnixNanos,
		&snap.Capacity,
		&snap.ElementCount,
		&snap.Reason,
		&snap.Blob,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// LatestSnapshot returns the most recent snapshot for effectID.
func (s *Store) LatestSnapshot(effectID string) (*effects.Snapshot, error) {
	row := s.QueryRow(`SELECT `+snapshotColumns+` FROM site_snapshot
		WHERE effect_id = ? ORDER BY taken_unix_nanos DESC, snapshot_id DESC LIMIT 1`, effectID)
	return latestFrom(row, "effect "+effectID)
}

// LatestSnapshotByKind returns the most recent snapshot of any effect of kind.
func (s *Store) LatestSnapshotByKind(kind string) (*effects.Snapshot, error) {
	row := s.QueryRow(`SELECT `+snapshotColumns+` FROM site_snapshot
		WHERE kind = ? ORDER BY taken_unix_nanos DESC, snapshot_id DESC LIMIT 1`, kind)
	return latestFrom(row, "kind "+kind)
}

func latestFrom(row *sql.Row, what string) (*effects.Snapshot, error) {
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, what)
	}
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns up to limit snapshots for effectID, newest first.
// limit <= 0 returns all of them.
func (s *Store) ListSnapshots(effectID string, limit int) ([]*effects.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.Query(`SELECT `+snapshotColumns+` FROM site_snapshot
		WHERE effect_id = ? ORDER BY taken_unix_nanos DESC, snapshot_id DESC LIMIT ?`, effectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*effects.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// PruneSnapshots deletes all but the newest keep snapshots for effectID and
// returns how many were removed.
func (s *Store) PruneSnapshots(effectID string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.Exec(`DELETE FROM site_snapshot
		WHERE effect_id = ? AND snapshot_id NOT IN (
			SELECT snapshot_id FROM site_snapshot WHERE effect_id = ?
			ORDER BY taken_unix_nanos DESC, snapshot_id DESC LIMIT ?
		)`, effectID, effectID, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}
