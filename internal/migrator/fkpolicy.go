package migrator

import (
	"context"

	"github.com/dbsmedya/dbmover/internal/logger"
)

// fkPolicy governs referential-integrity enforcement on the target session
// around one table's migration. The engine calls the hook pair uniformly;
// the concrete policy is selected once per run.
type fkPolicy interface {
	// beforeTable runs before any destructive work on the table.
	beforeTable(ctx context.Context, session Execer, log *logger.Logger) error
	// afterTable runs on every exit path, even after a failed migration.
	// Failures are logged but never escalated into the table's result.
	afterTable(ctx context.Context, session Execer, log *logger.Logger)
}

// policyFor selects the policy matching the configured strategy. Dry runs
// never touch the target, so they always get the preserve policy.
func policyFor(opts Options) fkPolicy {
	if opts.DryRun || opts.ForeignKeys == "preserve" {
		return preservePolicy{}
	}
	return disablePolicy{}
}

// disablePolicy suspends FOREIGN_KEY_CHECKS for the session so rows can be
// written while their references are still incomplete.
type disablePolicy struct{}

func (disablePolicy) beforeTable(ctx context.Context, session Execer, log *logger.Logger) error {
	log.Debug("Disabling foreign key checks on target session")
	_, err := session.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0")
	return err
}

func (disablePolicy) afterTable(ctx context.Context, session Execer, log *logger.Logger) {
	log.Debug("Re-enabling foreign key checks on target session")
	if _, err := session.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1"); err != nil {
		log.Errorw("Failed to re-enable foreign key checks", "error", err)
	}
}

// preservePolicy leaves referential-integrity enforcement untouched.
type preservePolicy struct{}

func (preservePolicy) beforeTable(context.Context, Execer, *logger.Logger) error { return nil }

func (preservePolicy) afterTable(context.Context, Execer, *logger.Logger) {}
