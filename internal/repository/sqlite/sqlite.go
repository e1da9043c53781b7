// Package sqlite implements the repository interfaces on SQLite.
//
// The store is deliberately document-shaped: one flat table per entity,
// addressed by primary key, with a small number of secondary indexes for
// foreign-key-like lookups (memberships by user, by artist). List-valued
// fields (genres, tags, links, permissions) are stored as JSON text.
//
// The driver is modernc.org/sqlite — a pure-Go translation of SQLite, so
// no CGo and no C toolchain needed for cross-compilation.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface. One struct for all entities keeps wiring simple; the service
// layer still only sees the narrow interface it asked for.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight — required
	// for a web server sharing one database file.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"venues", `
			CREATE TABLE IF NOT EXISTS venues (
				id         TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				address    TEXT NOT NULL DEFAULT '',
				city       TEXT NOT NULL DEFAULT '',
				lat        REAL NOT NULL DEFAULT 0,
				lng        REAL NOT NULL DEFAULT 0,
				capacity   INTEGER NOT NULL DEFAULT 0,
				website    TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);
		`},
		{"artists", `
			CREATE TABLE IF NOT EXISTS artists (
				id                 TEXT PRIMARY KEY,
				name               TEXT NOT NULL,
				bio                TEXT NOT NULL DEFAULT '',
				genres             TEXT NOT NULL DEFAULT '[]',
				hometown           TEXT NOT NULL DEFAULT '',
				owner_user_id      TEXT NOT NULL DEFAULT '',
				claimed_by_user_id TEXT NOT NULL DEFAULT '',
				member_count       INTEGER NOT NULL DEFAULT 0,
				created_at         DATETIME NOT NULL,
				updated_at         DATETIME NOT NULL
			);
		`},
		{"songs", `
			CREATE TABLE IF NOT EXISTS songs (
				id            TEXT PRIMARY KEY,
				title         TEXT NOT NULL,
				artist        TEXT NOT NULL DEFAULT '',
				album         TEXT NOT NULL DEFAULT '',
				duration_secs INTEGER NOT NULL DEFAULT 0,
				links         TEXT NOT NULL DEFAULT '{}',
				tags          TEXT NOT NULL DEFAULT '[]',
				created_at    DATETIME NOT NULL,
				updated_at    DATETIME NOT NULL
			);
		`},
		{"issues", `
			CREATE TABLE IF NOT EXISTS issues (
				id          TEXT PRIMARY KEY,
				title       TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				type        TEXT NOT NULL,
				priority    TEXT NOT NULL,
				status      TEXT NOT NULL,
				reporter_id TEXT NOT NULL DEFAULT '',
				created_at  DATETIME NOT NULL,
				updated_at  DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status);
		`},
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				cognito_id       TEXT PRIMARY KEY,
				email            TEXT NOT NULL DEFAULT '',
				username         TEXT NOT NULL DEFAULT '',
				display_name     TEXT NOT NULL DEFAULT '',
				avatar_url       TEXT NOT NULL DEFAULT '',
				instrument       TEXT NOT NULL DEFAULT '',
				bio              TEXT NOT NULL DEFAULT '',
				profile_complete INTEGER NOT NULL DEFAULT 0,
				created_at       DATETIME NOT NULL,
				updated_at       DATETIME NOT NULL
			);
		`},
		{"memberships", `
			CREATE TABLE IF NOT EXISTS memberships (
				id           TEXT PRIMARY KEY,
				user_id      TEXT NOT NULL,
				artist_id    TEXT NOT NULL,
				role         TEXT NOT NULL,
				display_name TEXT,
				avatar_url   TEXT,
				instrument   TEXT,
				permissions  TEXT NOT NULL DEFAULT '[]',
				created_at   DATETIME NOT NULL,
				updated_at   DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_memberships_user_id ON memberships(user_id);
			CREATE INDEX IF NOT EXISTS idx_memberships_artist_id ON memberships(artist_id);
		`},
		{"oauth_states", `
			CREATE TABLE IF NOT EXISTS oauth_states (
				state      TEXT PRIMARY KEY,
				created_at DATETIME NOT NULL,
				expires_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_oauth_states_expires_at ON oauth_states(expires_at);
		`},
	}

	for _, m := range stmts {
		if _, err := db.conn.Exec(m.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", m.name, err)
		}
	}

	return nil
}

// marshalJSON encodes a list/map column, normalising nil to the given
// empty literal so the column never stores SQL NULL or the string "null".
func marshalJSON(v any, empty string) (string, error) {
	if v == nil {
		return empty, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func unmarshalStringMap(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
