package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/dbmover/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile       string
	logLevel      string
	logFormat     string
	chunkSize     int
	foreignKeys   string
	ignoreColumns []string
	tableList     string
	truncate      bool
	dryRun        bool
	skipVerify    bool
)

var rootCmd = &cobra.Command{
	Use:   "dbmover",
	Short: "MySQL table data migrator",
	Long: `A CLI tool for copying the row data of a set of tables from one MySQL
instance to another while respecting foreign-key dependencies.

Features:
  - Automatic table ordering from foreign-key constraint metadata
  - Disposable target backups before any destructive operation
  - Chunked row transfer with bounded concurrency
  - Per-table failure isolation with a per-table result record`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "dbmover.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Migration overrides
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0,
		"Override rows per transfer chunk")
	rootCmd.PersistentFlags().StringVar(&foreignKeys, "fk-checks", "",
		"Override foreign key strategy (disable, preserve)")
	rootCmd.PersistentFlags().StringSliceVar(&ignoreColumns, "ignore-columns", nil,
		"Columns excluded from the transfer even when present on both sides")
	rootCmd.PersistentFlags().StringVar(&tableList, "tables", "",
		"Override working table list (comma separated)")
	rootCmd.PersistentFlags().BoolVar(&truncate, "truncate", false,
		"Clear target tables after backup, before transfer")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"Inspect and count without mutating the target")
	rootCmd.PersistentFlags().BoolVar(&skipVerify, "skip-verify", false,
		"Skip row count verification after transfer")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetOverrides returns the CLI flag override values.
func GetOverrides() config.Overrides {
	var tables []string
	if tableList != "" {
		tables = config.ParseTableList(tableList)
	}
	return config.Overrides{
		LogLevel:      logLevel,
		LogFormat:     logFormat,
		ChunkSize:     chunkSize,
		ForeignKeys:   foreignKeys,
		IgnoreColumns: ignoreColumns,
		Tables:        tables,
		Truncate:      truncate,
		DryRun:        dryRun,
		SkipVerify:    skipVerify,
	}
}

// loadConfig loads the config file and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(GetOverrides())
	return cfg, nil
}
