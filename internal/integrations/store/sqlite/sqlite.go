// Package sqlite implements a store.Snapshotter backed by an embedded,
// pure-Go SQLite database — the single-file alternative to the Postgres
// backend for deployments with no external database to reach.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS state_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	body        TEXT NOT NULL,
	recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Store persists marshaled states to a "state_history" table in a local
// SQLite file.
type Store[S any] struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and ensures
// its schema exists.
func Open[S any](path string) (*Store[S], error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("actomaton/store/sqlite: open %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("actomaton/store/sqlite: create schema: %w", err)
	}
	return &Store[S]{db: db}, nil
}

// Save persists one state as a new row in the history table.
func (s *Store[S]) Save(ctx context.Context, state S) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("actomaton/store/sqlite: marshal state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO state_history (body) VALUES (?)`, string(body))
	if err != nil {
		return fmt.Errorf("actomaton/store/sqlite: insert: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store[S]) Close() error {
	return s.db.Close()
}
