// Package store is the embedded single-writer relational engine: schema
// management, issue/dependency/label/comment CRUD, the dirty-set and
// export-hash anchors used by sync, the materialized blocked-issues
// cache, and the ready/blocked query engine.
//
// All of it runs through one *sql.DB opened with a one-connection pool,
// so the process itself enforces the single-writer model described by
// the concurrency design rather than relying on caller discipline.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store is a SQLite-backed embedded issue store.
type Store struct {
	db     *sql.DB
	dbPath string
	prefix string
	mu     sync.RWMutex
}

// Open creates or opens the database at dbPath, ensuring the schema is
// current, and seeds the issue-ID prefix used by the identifier module.
func Open(dbPath, prefix string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal=WAL&_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// SQLite allows exactly one writer; capping the pool at one connection
	// makes that a property of the process, not just of the file lock.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath, prefix: prefix}

	if prefix != "" {
		if _, err := db.Exec(
			`INSERT OR IGNORE INTO config (key, value) VALUES ('issue_prefix', ?)`, prefix,
		); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed issue prefix: %w", err)
		}
	}

	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// DB exposes the underlying *sql.DB for callers that need raw access
// (migrations tooling, diagnostics); regular callers should prefer the
// typed Store methods.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database file path Open was called with.
func (s *Store) Path() string { return s.dbPath }

// Prefix returns the issue-ID prefix this store was opened with.
func (s *Store) Prefix() string { return s.prefix }
