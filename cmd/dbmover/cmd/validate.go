package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate loads the configuration file, applies CLI overrides, and checks
all required fields and option values without connecting to any database.

Example:
  dbmover validate --config dbmover.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Printf("Configuration is valid: %d tables, chunk size %d, foreign keys %q\n",
		len(cfg.Tables), cfg.Migration.ChunkSize, cfg.Migration.ForeignKeys)
	return nil
}
