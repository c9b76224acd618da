// Package schema provides table column introspection for dbmover.
package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier abstracts the query surface shared by *sql.DB and *sql.Conn so the
// inspector can run against either a pool or a checked-out session.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Column describes a single table column as reported by the catalog.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  sql.NullString
	Key      string // PRI, UNI, MUL, or empty
}

// Schema is an immutable snapshot of a table's columns in ordinal position
// order. It is recomputed on every migration attempt and never cached across
// tables.
type Schema struct {
	Table   string
	Columns []Column
	byName  map[string]Column
}

// NewSchema builds a schema from an explicit column list, in the order given.
func NewSchema(table string, columns []Column) *Schema {
	s := &Schema{
		Table:   table,
		Columns: columns,
		byName:  make(map[string]Column, len(columns)),
	}
	for _, c := range columns {
		s.byName[c.Name] = c
	}
	return s
}

// Has reports whether the schema contains a column with the given name.
func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Column returns the descriptor for a column name.
func (s *Schema) Column(name string) (Column, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// FetchError is returned when a table's column metadata cannot be read.
// It is table-scoped: the caller must attribute the failure to that table
// only and must not retry.
type FetchError struct {
	Table string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch schema for table %q: %v", e.Table, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// columnsQuery reads column metadata for a table in the connection's current
// database. Ordinal position order keeps the column list deterministic.
const columnsQuery = `SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_KEY ` +
	`FROM information_schema.COLUMNS ` +
	`WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ` +
	`ORDER BY ORDINAL_POSITION`

// Inspect reads the column metadata for a table from the given connection.
// A table with no columns in the catalog is treated as missing.
func Inspect(ctx context.Context, q Querier, table string) (*Schema, error) {
	rows, err := q.QueryContext(ctx, columnsQuery, table)
	if err != nil {
		return nil, &FetchError{Table: table, Err: err}
	}
	defer rows.Close()

	s := &Schema{
		Table:  table,
		byName: make(map[string]Column),
	}

	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Default, &col.Key); err != nil {
			return nil, &FetchError{Table: table, Err: err}
		}
		col.Nullable = nullable == "YES"
		s.Columns = append(s.Columns, col)
		s.byName[col.Name] = col
	}

	if err := rows.Err(); err != nil {
		return nil, &FetchError{Table: table, Err: err}
	}

	if len(s.Columns) == 0 {
		return nil, &FetchError{Table: table, Err: fmt.Errorf("table does not exist in current database")}
	}

	return s, nil
}
