// Package sqlite persists effect snapshots in a SQLite database.
//
// The schema is owned by the embedded golang-migrate migrations and is
// brought up to date on Open. Domain packages only see the
// effects.SnapshotStore interface.
package sqlite
