// Package migrator implements the per-table migration state machine and the
// run orchestration for dbmover.
package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Execer abstracts the statement surface shared by *sql.DB and *sql.Conn.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Options holds the per-run migration options. They are immutable for the
// duration of a run and the same options apply to every table.
type Options struct {
	Truncate      bool     // clear target rows after backup, before transfer
	ChunkSize     int      // rows per transfer batch, must be positive
	IgnoreColumns []string // columns excluded from the common-column intersection
	ForeignKeys   string   // "disable" or "preserve"
	DryRun        bool     // inspect and count without any target mutation
	SkipVerify    bool     // skip post-transfer row count verification
}

// Validate checks option values that the engine depends on.
func (o Options) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", o.ChunkSize)
	}
	if o.ForeignKeys != "disable" && o.ForeignKeys != "preserve" {
		return fmt.Errorf("foreign key strategy must be 'disable' or 'preserve', got %q", o.ForeignKeys)
	}
	return nil
}

// ignoreSet returns the ignored column names as a lookup set.
func (o Options) ignoreSet() map[string]bool {
	set := make(map[string]bool, len(o.IgnoreColumns))
	for _, col := range o.IgnoreColumns {
		set[col] = true
	}
	return set
}

// Result records the outcome of one table's migration attempt. It is created
// at the start of the attempt, finalized exactly once, and never mutated
// after the engine returns it.
type Result struct {
	Table        string
	Success      bool
	RowsMigrated int64
	Errors       []string
}

// appendError records a failure message on the result.
func (r *Result) appendError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Results aggregates per-table results, preserving the order in which tables
// were processed.
type Results struct {
	m *orderedmap.OrderedMap[string, *Result]
}

// NewResults creates an empty result collection.
func NewResults() *Results {
	return &Results{m: orderedmap.NewOrderedMap[string, *Result]()}
}

// Add stores a table's result. A table appears at most once per run.
func (r *Results) Add(res *Result) {
	r.m.Set(res.Table, res)
}

// Get returns the result for a table, or nil if the table was not processed.
func (r *Results) Get(table string) *Result {
	res, ok := r.m.Get(table)
	if !ok {
		return nil
	}
	return res
}

// Tables returns the processed table names in processing order.
func (r *Results) Tables() []string {
	return r.m.Keys()
}

// All returns every result in processing order.
func (r *Results) All() []*Result {
	out := make([]*Result, 0, r.m.Len())
	for el := r.m.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Len returns the number of processed tables.
func (r *Results) Len() int {
	return r.m.Len()
}

// AllSucceeded reports whether every table migrated successfully. This is the
// logical AND the external caller uses for its exit-code decision.
func (r *Results) AllSucceeded() bool {
	for el := r.m.Front(); el != nil; el = el.Next() {
		if !el.Value.Success {
			return false
		}
	}
	return true
}

// TotalRows returns the sum of rows migrated across all tables.
func (r *Results) TotalRows() int64 {
	var total int64
	for el := r.m.Front(); el != nil; el = el.Next() {
		total += el.Value.RowsMigrated
	}
	return total
}
