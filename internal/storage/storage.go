// Package storage persists parsed matches (header, teams, players, events and
// qualifiers) in SQLite so that queries can be rerun without the source feed.
package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrMatchNotFound is returned when no stored match has the requested id.
var ErrMatchNotFound = errors.New("match not found")

// DB wraps a sql.DB for the match store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent across calls.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// matchTables lists every table keyed by match_id, children first.
var matchTables = []string{"qualifiers", "events", "players", "teams", "matches"}

// clearMatch removes every row of a match inside tx and reports whether a
// match header was present.
func clearMatch(tx *sql.Tx, matchID int) (bool, error) {
	var found bool
	for _, table := range matchTables {
		res, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", matchID)
		if err != nil {
			return false, fmt.Errorf("clear %s: %w", table, err)
		}
		if table == "matches" {
			n, _ := res.RowsAffected()
			found = n > 0
		}
	}
	return found, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
