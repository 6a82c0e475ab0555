// Package store persists users, drafts, posts and platform tokens in a
// single-file SQLite database.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// Sentinel errors mapped from driver errors by the repositories.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT UNIQUE,
	password TEXT,
	api_key TEXT UNIQUE,
	tier TEXT DEFAULT 'free',
	api_calls INTEGER DEFAULT 0,
	monthly_posts INTEGER DEFAULT 0,
	is_admin BOOLEAN DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	content TEXT,
	platforms TEXT,
	status TEXT DEFAULT 'pending',
	post_ids TEXT,
	created_at TEXT
);
CREATE TABLE IF NOT EXISTS platform_tokens (
	user_id TEXT,
	platform TEXT,
	access_token TEXT,
	refresh_token TEXT,
	expiry INTEGER,
	PRIMARY KEY (user_id, platform)
);
CREATE TABLE IF NOT EXISTS drafts (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	content TEXT,
	platform TEXT,
	created_at TEXT
);
`

// Store wraps the database handle and exposes the repositories.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at path, creating the parent
// directory and the schema when missing. ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite serializes writes; a single connection avoids table locks.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }
