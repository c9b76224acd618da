package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/dbmover/internal/sqlutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
// Validation failures are fatal and abort the run before any table is attempted.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if err := c.validateDatabase("source", &c.Source); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateDatabase("target", &c.Target); err != nil {
		errors = append(errors, err...)
	}

	if len(c.Tables) == 0 {
		errors = append(errors, ValidationError{
			Field:   "tables",
			Message: "at least one table must be listed",
		})
	}
	seen := make(map[string]bool, len(c.Tables))
	for i, table := range c.Tables {
		field := fmt.Sprintf("tables[%d]", i)
		if !sqlutil.IsValidIdentifier(table) {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%q is not a valid table name", table),
			})
		}
		if seen[table] {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("table %q is listed more than once", table),
			})
		}
		seen[table] = true
	}

	if err := c.validateMigration(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateDatabase(prefix string, db *DatabaseConfig) ValidationErrors {
	var errors ValidationErrors

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.ConnectionLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".connection_limit",
			Message: "connection_limit cannot be negative",
		})
	}

	if db.ConnectTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".connect_timeout",
			Message: "connect_timeout cannot be negative",
		})
	}

	if db.QueueLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".queue_limit",
			Message: "queue_limit cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateMigration() ValidationErrors {
	var errors ValidationErrors

	if c.Migration.ChunkSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "migration.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	validStrategies := map[string]bool{ForeignKeysDisable: true, ForeignKeysPreserve: true}
	if !validStrategies[c.Migration.ForeignKeys] {
		errors = append(errors, ValidationError{
			Field:   "migration.foreign_keys",
			Message: "foreign_keys must be 'disable' or 'preserve'",
		})
	}

	for i, col := range c.Migration.IgnoreColumns {
		if !sqlutil.IsValidIdentifier(col) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("migration.ignore_columns[%d]", i),
				Message: fmt.Sprintf("%q is not a valid column name", col),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
