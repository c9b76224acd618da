package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dbmover/internal/database"
	"github.com/dbsmedya/dbmover/internal/graph"
	"github.com/dbsmedya/dbmover/internal/logger"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the table processing order without migrating",
	Long: `Plan builds the foreign-key dependency graph from the source database
and prints the order in which tables would be migrated, along with the
dependencies that produced it. No connection to the target is made and no
data is touched.

Example:
  dbmover plan --config dbmover.yaml`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()

	dbManager := database.NewManager(cfg)
	if err := dbManager.ConnectSource(ctx); err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	defer dbManager.Close()

	g, err := graph.Build(ctx, dbManager.Source, cfg.Tables)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}

	order, err := g.Order(cfg.Tables)
	if err != nil {
		return fmt.Errorf("failed to compute processing order: %w", err)
	}

	fmt.Printf("Tables: %d, dependencies: %d\n\n", g.NodeCount(), g.EdgeCount())

	fmt.Println("Processing order:")
	for i, table := range order {
		fmt.Printf("  %d. %s\n", i+1, table)
	}

	if len(g.Edges) > 0 {
		fmt.Println("\nForeign keys:")
		for _, e := range g.Edges {
			fmt.Printf("  %s.%s -> %s.%s\n", e.ChildTable, e.ChildColumn, e.ParentTable, e.ParentColumn)
		}
	}

	return nil
}
