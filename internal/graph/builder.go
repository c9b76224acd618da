package graph

import (
	"context"
	"fmt"

	"github.com/dbsmedya/dbmover/internal/schema"
)

// foreignKeysQuery finds foreign keys in the current database that reference
// the given table.
const foreignKeysQuery = `SELECT TABLE_NAME, COLUMN_NAME, REFERENCED_COLUMN_NAME ` +
	`FROM information_schema.KEY_COLUMN_USAGE ` +
	`WHERE TABLE_SCHEMA = DATABASE() AND REFERENCED_TABLE_NAME = ?`

// Build constructs the dependency graph for a working set of tables by
// querying the source database's constraint catalog.
//
// For each table in the set it finds the foreign keys referencing that table
// and adds a parent -> child edge when the child table is also in the set.
// Edges to or from tables outside the set are discarded: those tables are not
// migrated and cannot be depended upon for ordering. Self-referencing foreign
// keys impose no cross-table ordering constraint and are skipped.
func Build(ctx context.Context, q schema.Querier, tables []string) (*Graph, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("working set is empty")
	}

	g := NewGraph(tables)

	for _, parent := range tables {
		rows, err := q.QueryContext(ctx, foreignKeysQuery, parent)
		if err != nil {
			return nil, fmt.Errorf("failed to query foreign keys referencing table %q: %w", parent, err)
		}

		for rows.Next() {
			var child, childColumn, parentColumn string
			if err := rows.Scan(&child, &childColumn, &parentColumn); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan foreign key row for table %q: %w", parent, err)
			}

			if child == parent {
				continue
			}
			if !g.HasNode(child) {
				continue
			}

			g.AddEdge(Edge{
				ChildTable:   child,
				ParentTable:  parent,
				ChildColumn:  childColumn,
				ParentColumn: parentColumn,
			})
		}

		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to read foreign keys for table %q: %w", parent, err)
		}
		rows.Close()
	}

	return g, nil
}
