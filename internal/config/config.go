// Package config provides configuration structures and loading for dbmover.
package config

// Config represents the complete application configuration.
type Config struct {
	Source       DatabaseConfig     `yaml:"source" mapstructure:"source"`
	Target       DatabaseConfig     `yaml:"target" mapstructure:"target"`
	Tables       []string           `yaml:"tables" mapstructure:"tables"`
	Migration    MigrationConfig    `yaml:"migration" mapstructure:"migration"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig represents a MySQL database connection configuration.
//
// WaitForConnections and QueueLimit are accepted for compatibility with
// pool-style connection descriptors. database/sql always queues callers when
// the pool is exhausted and has no queue bound, so these two fields carry no
// effect beyond validation.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	ConnectionLimit    int    `yaml:"connection_limit" mapstructure:"connection_limit"`
	ConnectTimeout     int    `yaml:"connect_timeout" mapstructure:"connect_timeout"` // seconds
	WaitForConnections bool   `yaml:"wait_for_connections" mapstructure:"wait_for_connections"`
	QueueLimit         int    `yaml:"queue_limit" mapstructure:"queue_limit"`
}

// MigrationConfig represents per-run migration options. The same options are
// applied to every table in the working set.
type MigrationConfig struct {
	Truncate      bool     `yaml:"truncate" mapstructure:"truncate"`
	ChunkSize     int      `yaml:"chunk_size" mapstructure:"chunk_size"`
	IgnoreColumns []string `yaml:"ignore_columns" mapstructure:"ignore_columns"`
	ForeignKeys   string   `yaml:"foreign_keys" mapstructure:"foreign_keys"` // "disable" or "preserve"
	DryRun        bool     `yaml:"dry_run" mapstructure:"dry_run"`
}

// VerificationConfig represents post-transfer row count verification settings.
type VerificationConfig struct {
	Skip bool `yaml:"skip" mapstructure:"skip"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// Foreign key strategies recognized in MigrationConfig.ForeignKeys.
const (
	ForeignKeysDisable  = "disable"
	ForeignKeysPreserve = "preserve"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: DatabaseConfig{
			Port:               3306,
			TLS:                "preferred",
			ConnectionLimit:    10,
			ConnectTimeout:     10,
			WaitForConnections: true,
		},
		Target: DatabaseConfig{
			Port:               3306,
			TLS:                "preferred",
			ConnectionLimit:    10,
			ConnectTimeout:     10,
			WaitForConnections: true,
		},
		Migration: MigrationConfig{
			Truncate:    false,
			ChunkSize:   1000,
			ForeignKeys: ForeignKeysDisable,
			DryRun:      false,
		},
		Verification: VerificationConfig{
			Skip: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}
