package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/dbmover/internal/graph"
	"github.com/dbsmedya/dbmover/internal/logger"
)

// Orchestrator resolves the table processing order and drives the per-table
// engine over the working set, strictly one table at a time. A child table's
// rows may reference rows just inserted into its parent, so tables are never
// migrated in parallel.
type Orchestrator struct {
	source *sql.DB
	target *sql.DB
	opts   Options
	log    *logger.Logger
}

// NewOrchestrator creates an orchestrator for one run. The options are fixed
// for the lifetime of the run and applied to every table.
func NewOrchestrator(source, target *sql.DB, opts Options, log *logger.Logger) (*Orchestrator, error) {
	if source == nil {
		return nil, fmt.Errorf("source database is nil")
	}
	if target == nil {
		return nil, fmt.Errorf("target database is nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Orchestrator{
		source: source,
		target: target,
		opts:   opts,
		log:    log,
	}, nil
}

// Plan builds the dependency graph from the source database's constraint
// catalog and computes the processing order. Both failure modes are
// run-scoped: without an order, no table may be touched.
func (o *Orchestrator) Plan(ctx context.Context, tables []string) (*graph.Graph, []string, error) {
	g, err := graph.Build(ctx, o.source, tables)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}

	order, err := g.Order(tables)
	if err != nil {
		return nil, nil, err
	}

	return g, order, nil
}

// Run migrates the working set in dependency order and returns one result
// per table. A table's failure never prevents subsequent tables from being
// attempted. Run returns an error only for run-scoped failures: graph
// construction, a dependency cycle, or context cancellation between tables;
// in the cancellation case the partial results are returned alongside the
// error.
func (o *Orchestrator) Run(ctx context.Context, tables []string) (*Results, error) {
	_, order, err := o.Plan(ctx, tables)
	if err != nil {
		return nil, err
	}

	o.log.Infow("Starting migration run",
		"tables", len(order),
		"order", order,
		"chunk_size", o.opts.ChunkSize,
		"truncate", o.opts.Truncate,
		"foreign_keys", o.opts.ForeignKeys,
		"dry_run", o.opts.DryRun,
	)

	engine := NewEngine(o.source, o.target, o.opts, o.log)
	results := NewResults()

	for _, table := range order {
		if err := ctx.Err(); err != nil {
			o.log.Warnw("Run interrupted before table", "table", table)
			return results, err
		}

		res := engine.Migrate(ctx, table)
		results.Add(res)

		if res.Success {
			o.log.Infow("Table migration succeeded", "table", table, "rows", res.RowsMigrated)
		} else {
			o.log.Errorw("Table migration failed", "table", table, "errors", res.Errors)
		}
	}

	o.log.Infow("Migration run complete",
		"tables", results.Len(),
		"rows", results.TotalRows(),
		"success", results.AllSucceeded(),
	)

	return results, nil
}
