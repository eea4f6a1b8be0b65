package tracking

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// MySQLConfig names the database and table holding the ledger.
type MySQLConfig struct {
	DatabaseName string
	TableName    string
}

// MySQLStore keeps the ledger in a MySQL table, for deployments where the
// migrator has no writable filesystem. The connection is injected and owned
// by the store once passed in.
type MySQLStore struct {
	conn        *sql.DB
	config      MySQLConfig
	initialized bool
}

// NewMySQL creates a store over an already-open MySQL connection.
func NewMySQL(conn *sql.DB, config MySQLConfig) *MySQLStore {
	return &MySQLStore{conn: conn, config: config}
}

// Initialize ensures the ledger table exists. Idempotent. A store whose
// connection was released by Close cannot be reopened; the connection was
// injected and the store has no way to dial a new one.
func (s *MySQLStore) Initialize() error {
	if s.initialized {
		return nil
	}
	if s.conn == nil {
		return ErrClosed
	}

	_, err := s.conn.Exec(fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s ("+
			"id          int not null auto_increment, "+
			"version     varchar(15) not null, "+
			"description varchar(255) not null, "+
			"applied_at  bigint not null, "+
			"checksum    varchar(64) null, "+
			"primary key (id), "+
			"unique key (version)"+
			") default charset utf8mb4",
		s.escapedTableName(),
	))
	if err != nil {
		return fmt.Errorf("failed to create tracking table %s: %w", s.escapedTableName(), err)
	}

	s.initialized = true
	return nil
}

// RecordApplied implements Store.
func (s *MySQLStore) RecordApplied(version, description string) error {
	if !s.initialized {
		return ErrNotInitialized
	}

	_, err := s.conn.Exec(fmt.Sprintf(
		"INSERT INTO %s (version, description, applied_at, checksum) VALUES (?, ?, ?, NULL)",
		s.escapedTableName(),
	), version, description, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}
	return nil
}

// RemoveApplied implements Store.
func (s *MySQLStore) RemoveApplied(version string) error {
	if !s.initialized {
		return ErrNotInitialized
	}

	if _, err := s.conn.Exec(fmt.Sprintf(
		"DELETE FROM %s WHERE version = ?", s.escapedTableName(),
	), version); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", version, err)
	}
	return nil
}

// GetApplied implements Store. The auto-increment id breaks applied_at ties.
func (s *MySQLStore) GetApplied() ([]string, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	rows, err := s.conn.Query(fmt.Sprintf(
		"SELECT version FROM %s ORDER BY applied_at ASC, id ASC", s.escapedTableName(),
	))
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
func (s *MySQLStore) GetStatus(allVersions []string) (Status, error) {
	applied, err := s.GetApplied()
	if err != nil {
		return Status{}, err
	}
	return partition(applied, allVersions), nil
}

// Close implements Store.
func (s *MySQLStore) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.initialized = false
	return err
}

func (s *MySQLStore) escapedTableName() string {
	return fmt.Sprintf("%s.%s",
		escapeIdent(s.config.DatabaseName),
		escapeIdent(s.config.TableName),
	)
}

// escapeIdent quotes a MySQL identifier. Inside backtick quoting the only
// escape MySQL honors is a doubled backtick.
func escapeIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
