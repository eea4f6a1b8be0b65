package tracking

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteSchema holds one row per applied migration. applied_at is epoch
// millis; checksum is written as NULL and never read back (reserved for
// content-drift detection, which this engine does not perform).
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS _applied_migrations (
    version     TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    applied_at  INTEGER NOT NULL,
    checksum    TEXT
);
`

// SQLiteStore keeps the ledger in its own SQLite file, lazily created on
// first Initialize.
type SQLiteStore struct {
	path string
	conn *sql.DB
}

// NewSQLite creates a store backed by the SQLite file at path. No I/O
// happens until Initialize.
func NewSQLite(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Initialize creates parent directories, opens the database and ensures the
// ledger table exists. Idempotent.
func (s *SQLiteStore) Initialize() error {
	if s.conn != nil {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create tracking store directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open tracking store: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable WAL mode on tracking store: %w", err)
	}
	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	s.conn = conn
	return nil
}

// RecordApplied implements Store.
func (s *SQLiteStore) RecordApplied(version, description string) error {
	if s.conn == nil {
		return ErrNotInitialized
	}

	_, err := s.conn.Exec(
		"INSERT INTO _applied_migrations (version, description, applied_at, checksum) VALUES (?, ?, ?, NULL)",
		version, description, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}
	return nil
}

// RemoveApplied implements Store.
func (s *SQLiteStore) RemoveApplied(version string) error {
	if s.conn == nil {
		return ErrNotInitialized
	}

	if _, err := s.conn.Exec("DELETE FROM _applied_migrations WHERE version = ?", version); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", version, err)
	}
	return nil
}

// GetApplied implements Store. Ordering is by application time, with rowid
// breaking ties for records applied within the same millisecond.
func (s *SQLiteStore) GetApplied() ([]string, error) {
	if s.conn == nil {
		return nil, ErrNotInitialized
	}

	rows, err := s.conn.Query("SELECT version FROM _applied_migrations ORDER BY applied_at ASC, rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	defer rows.Close()

	versions := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to read applied migrations: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// GetStatus implements Store.
func (s *SQLiteStore) GetStatus(allVersions []string) (Status, error) {
	applied, err := s.GetApplied()
	if err != nil {
		return Status{}, err
	}
	return partition(applied, allVersions), nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
