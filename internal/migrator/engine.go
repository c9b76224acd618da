package migrator

import (
	"context"
	"database/sql"
	"time"

	"github.com/dbsmedya/dbmover/internal/logger"
	"github.com/dbsmedya/dbmover/internal/schema"
	"github.com/dbsmedya/dbmover/internal/sqlutil"
	"github.com/dbsmedya/dbmover/internal/verifier"
)

// Engine runs the per-table migration state machine:
//
//	Init -> SchemaCompare -> Backup -> Truncate -> Transfer -> Success
//
// Backup is skipped in dry runs, Truncate only runs when requested. Any step
// can fail the table; Failed and Success are terminal. The foreign-key
// restore hook runs on every exit path. Migrate always returns a Result and
// never lets an error escape its own boundary.
type Engine struct {
	source *sql.DB
	target *sql.DB
	opts   Options
	policy fkPolicy
	log    *logger.Logger
	now    func() time.Time
}

// NewEngine creates a migration engine. The foreign-key policy is selected
// once from the options and reused for every table.
func NewEngine(source, target *sql.DB, opts Options, log *logger.Logger) *Engine {
	return &Engine{
		source: source,
		target: target,
		opts:   opts,
		policy: policyFor(opts),
		log:    log,
		now:    time.Now,
	}
}

// fkRestoreTimeout bounds the best-effort foreign-key restore so a dead
// connection cannot hang the run after a failed table.
const fkRestoreTimeout = 5 * time.Second

// Migrate runs the state machine for a single table. All errors are caught,
// recorded on the result, and the result finalized exactly once.
func (e *Engine) Migrate(ctx context.Context, table string) (res *Result) {
	res = &Result{Table: table}
	log := e.log.WithTable(table)

	defer func() {
		if p := recover(); p != nil {
			res.Success = false
			res.appendError("panic during migration of table %q: %v", table, p)
			log.Errorw("Recovered from panic during table migration", "panic", p)
		}
	}()

	// Each table gets its own session checkout, released on every exit path.
	srcConn, err := e.source.Conn(ctx)
	if err != nil {
		res.appendError("failed to acquire source connection for table %q: %v", table, err)
		return res
	}
	defer srcConn.Close()

	tgtConn, err := e.target.Conn(ctx)
	if err != nil {
		res.appendError("failed to acquire target connection for table %q: %v", table, err)
		return res
	}
	defer tgtConn.Close()

	// SchemaCompare
	srcSchema, err := schema.Inspect(ctx, srcConn, table)
	if err != nil {
		res.appendError("%v", err)
		return res
	}
	tgtSchema, err := schema.Inspect(ctx, tgtConn, table)
	if err != nil {
		res.appendError("%v", err)
		return res
	}

	columns := commonColumns(srcSchema, tgtSchema, e.opts.ignoreSet())
	if len(columns) == 0 {
		res.appendError("%v", &NoCommonColumnsError{Table: table})
		return res
	}
	log.Debugw("Schema compared", "common_columns", len(columns))

	// The restore hook runs no matter which state fails, on a fresh context
	// so a cancelled run can still re-enable enforcement.
	if err := e.policy.beforeTable(ctx, tgtConn, log); err != nil {
		res.appendError("failed to disable foreign key checks for table %q: %v", table, err)
		return res
	}
	defer func() {
		restoreCtx, cancel := context.WithTimeout(context.Background(), fkRestoreTimeout)
		defer cancel()
		e.policy.afterTable(restoreCtx, tgtConn, log)
	}()

	// Backup
	if !e.opts.DryRun {
		backup, err := backupTable(ctx, tgtConn, table, e.now())
		if err != nil {
			res.appendError("%v", err)
			return res
		}
		log.Infow("Target table backed up", "backup_table", backup)
	}

	// Truncate
	if e.opts.Truncate && !e.opts.DryRun {
		quoted, err := sqlutil.QuoteIdentifierSafe(table)
		if err != nil {
			res.appendError("%v", err)
			return res
		}
		if _, err := tgtConn.ExecContext(ctx, "TRUNCATE TABLE "+quoted); err != nil {
			res.appendError("failed to truncate target table %q: %v", table, err)
			return res
		}
		log.Info("Target table truncated")
	}

	// Transfer
	rows, err := transfer(ctx, srcConn, tgtConn, table, columns, e.opts, log)
	res.RowsMigrated = rows
	if err != nil {
		res.appendError("%v", err)
		return res
	}

	if !e.opts.DryRun && !e.opts.SkipVerify {
		if err := verifier.CheckRowCount(ctx, srcConn, table, rows); err != nil {
			res.appendError("%v", err)
			return res
		}
	}

	res.Success = true
	log.Infow("Table migrated", "rows", rows, "dry_run", e.opts.DryRun)
	return res
}
