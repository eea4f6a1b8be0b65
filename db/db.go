// Package db provides the executable connection that migrations run against.
// It wraps database/sql with the small prepare/exec surface migration units
// receive, plus map-based row access for callers that don't know their
// column set at compile time.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Conn is the capability handed to migration units and repositories.
type Conn interface {
	// Exec runs a statement without returning rows.
	Exec(query string, args ...any) error
	// Prepare compiles a statement for repeated parameterized execution.
	Prepare(query string) (Statement, error)
	// Close releases the underlying connection.
	Close() error
}

// Statement is a prepared statement with positional parameters.
type Statement interface {
	// Run executes the statement without returning rows.
	Run(args ...any) error
	// Get executes the statement and returns the first row as a column map,
	// or nil if no row matched.
	Get(args ...any) (map[string]any, error)
	// All executes the statement and returns every row as a column map.
	All(args ...any) ([]map[string]any, error)
	// Close releases the prepared statement.
	Close() error
}

// DB is the SQLite-backed Conn used for both the target data store and tests.
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) a SQLite database at path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{conn}, nil
}

// Exec implements Conn.
func (d *DB) Exec(query string, args ...any) error {
	if _, err := d.DB.Exec(query, args...); err != nil {
		return fmt.Errorf("exec failed: %w", err)
	}
	return nil
}

// Prepare implements Conn.
func (d *DB) Prepare(query string) (Statement, error) {
	stmt, err := d.DB.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare failed: %w", err)
	}
	return &statement{stmt: stmt}, nil
}

type statement struct {
	stmt *sql.Stmt
}

func (s *statement) Run(args ...any) error {
	if _, err := s.stmt.Exec(args...); err != nil {
		return fmt.Errorf("statement failed: %w", err)
	}
	return nil
}

func (s *statement) Get(args ...any) (map[string]any, error) {
	rows, err := s.All(args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *statement) All(args ...any) ([]map[string]any, error) {
	rows, err := s.stmt.Query(args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (s *statement) Close() error {
	return s.stmt.Close()
}

// scanRows reads every row into a column-name keyed map.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// database/sql hands back []byte for text columns with some
			// drivers; normalize to string so callers can compare values.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
