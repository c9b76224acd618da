package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dbmover/internal/database"
	"github.com/dbsmedya/dbmover/internal/lock"
	"github.com/dbsmedya/dbmover/internal/logger"
	"github.com/dbsmedya/dbmover/internal/migrator"
	"github.com/dbsmedya/dbmover/internal/report"
)

var migrateForce bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate table data from source to target database",
	Long: `Migrate copies the row data of the configured tables from the source
database to the target database in foreign-key dependency order.

For each table the process is:
  1. Compare source and target schemas and compute the common columns
  2. Back up the target table into a timestamped shadow table
  3. Optionally truncate the target table
  4. Stream rows across in bounded chunks
  5. Restore foreign key enforcement

One table's failure does not stop the remaining tables. The command exits
non-zero if any table failed.

Example:
  dbmover migrate --config dbmover.yaml --truncate`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false,
		"Force execution even if the run lock cannot be acquired (use with caution)")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Infow("Starting migration",
		"config", GetConfigFile(),
		"tables", cfg.Tables,
	)

	// Cancelled on SIGINT/SIGTERM; the run stops after the current table.
	ctx := database.SetupSignalHandler()

	dbManager := database.NewManager(cfg)
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to databases: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Ping(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	// Advisory lock against concurrent runs for the same source database.
	if !migrateForce {
		runLock := lock.NewRunLock(dbManager.Source, cfg.Source.Database)
		if err := runLock.AcquireOrFail(ctx); err != nil {
			if errors.Is(err, lock.ErrLockTimeout) {
				return fmt.Errorf("another migration is already running against %q (use --force to override)", cfg.Source.Database)
			}
			return fmt.Errorf("failed to acquire run lock: %w", err)
		}
		defer runLock.Release(context.Background())
		log.Infow("Acquired advisory run lock", "lock", runLock.LockName())
	} else {
		log.Warn("Skipping advisory lock acquisition (--force flag used)")
	}

	opts := migrator.Options{
		Truncate:      cfg.Migration.Truncate,
		ChunkSize:     cfg.Migration.ChunkSize,
		IgnoreColumns: cfg.Migration.IgnoreColumns,
		ForeignKeys:   cfg.Migration.ForeignKeys,
		DryRun:        cfg.Migration.DryRun,
		SkipVerify:    cfg.Verification.Skip,
	}

	orch, err := migrator.NewOrchestrator(dbManager.Source, dbManager.Target, opts, log)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	results, err := orch.Run(ctx, cfg.Tables)
	if err != nil {
		if errors.Is(err, context.Canceled) && results != nil {
			log.Warn("Migration cancelled; reporting completed tables")
			fmt.Print(report.Summary(results))
			return fmt.Errorf("migration cancelled")
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Print(report.Summary(results))

	if !results.AllSucceeded() {
		return fmt.Errorf("migration completed with failed tables")
	}
	return nil
}
