// Package repo provides a generic CRUD repository over a single table,
// for callers whose row shapes are only known at runtime.
package repo

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dnl-fm/litebase/db"
	"github.com/dnl-fm/litebase/internal/namedparams"
)

// identRegex limits table and column names to plain identifiers; anything
// else would have to be interpolated into SQL text unescaped.
var identRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrNotFound          = errors.New("row not found")
	ErrEmptyRow          = errors.New("row has no columns")
)

// Repository is a map-based CRUD wrapper around one table.
type Repository struct {
	conn     db.Conn
	table    string
	idColumn string
}

// New creates a repository for table keyed by idColumn.
func New(conn db.Conn, table, idColumn string) (*Repository, error) {
	if !identRegex.MatchString(table) {
		return nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	if !identRegex.MatchString(idColumn) {
		return nil, fmt.Errorf("%w: id column %q", ErrInvalidIdentifier, idColumn)
	}
	return &Repository{conn: conn, table: table, idColumn: idColumn}, nil
}

// Insert adds one row. Column order is normalized so the generated SQL is
// deterministic for identical row shapes.
func (r *Repository) Insert(row map[string]any) error {
	columns, err := sortedColumns(row)
	if err != nil {
		return err
	}

	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)
	return r.run(query, row)
}

// Get returns the row with the given id, or ErrNotFound.
func (r *Repository) Get(id any) (map[string]any, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = :id", r.table, r.idColumn)
	bound, args, err := namedparams.Bind(query, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}

	stmt, err := r.conn.Prepare(bound)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	row, err := stmt.Get(args...)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s = %v", ErrNotFound, r.idColumn, id)
	}
	return row, nil
}

// Update applies changes to the row with the given id.
func (r *Repository) Update(id any, changes map[string]any) error {
	columns, err := sortedColumns(changes)
	if err != nil {
		return err
	}

	assignments := make([]string, len(columns))
	for i, col := range columns {
		assignments[i] = fmt.Sprintf("%s = :%s", col, col)
	}

	// The id travels under a bind name that cannot shadow a changed column,
	// so a column literally named litebase_row_id still updates correctly.
	idParam := "litebase_row_id"
	for {
		if _, used := changes[idParam]; !used {
			break
		}
		idParam += "_"
	}

	args := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		args[k] = v
	}
	args[idParam] = id

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = :%s",
		r.table, strings.Join(assignments, ", "), r.idColumn, idParam,
	)
	return r.run(query, args)
}

// Delete removes the row with the given id. Deleting an absent row is not
// an error.
func (r *Repository) Delete(id any) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = :id", r.table, r.idColumn)
	return r.run(query, map[string]any{"id": id})
}

// List returns every row, ordered by the id column.
func (r *Repository) List() ([]map[string]any, error) {
	stmt, err := r.conn.Prepare(fmt.Sprintf("SELECT * FROM %s ORDER BY %s", r.table, r.idColumn))
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	return stmt.All()
}

func (r *Repository) run(query string, args map[string]any) error {
	bound, positional, err := namedparams.Bind(query, args)
	if err != nil {
		return err
	}

	stmt, err := r.conn.Prepare(bound)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.Run(positional...)
}

func sortedColumns(row map[string]any) ([]string, error) {
	if len(row) == 0 {
		return nil, ErrEmptyRow
	}

	columns := make([]string, 0, len(row))
	for col := range row {
		if !identRegex.MatchString(col) {
			return nil, fmt.Errorf("%w: column %q", ErrInvalidIdentifier, col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns, nil
}
