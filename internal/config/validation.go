package config

import (
	"fmt"
	"strings"
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
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateDatabase()...)
	errors = append(errors, c.validateMetadata()...)
	errors = append(errors, c.validateChecks()...)
	errors = append(errors, c.validateRun()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateDatabase() ValidationErrors {
	var errors ValidationErrors
	db := &c.Database

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "database.host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "database.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   "database.user",
			Message: "user is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   "database.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateMetadata() ValidationErrors {
	var errors ValidationErrors

	switch c.Metadata.Source {
	case MetadataSourceTdbQuery:
		if c.Metadata.TdbQueryProgram == "" {
			errors = append(errors, ValidationError{
				Field:   "metadata.tdbquery_program",
				Message: "tdbquery_program is required when source is 'tdbquery'",
			})
		}
	case MetadataSourceTrackDB:
		if c.Metadata.TrackDBTable == "" {
			errors = append(errors, ValidationError{
				Field:   "metadata.trackdb_table",
				Message: "trackdb_table is required when source is 'trackdb'",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "metadata.source",
			Message: "source must be 'tdbquery' or 'trackdb'",
		})
	}

	return errors
}

func (c *Config) validateChecks() ValidationErrors {
	var errors ValidationErrors

	if c.Checks.ShortLabelLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "checks.short_label_limit",
			Message: "short_label_limit must be positive",
		})
	}

	if c.Checks.LongLabelLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "checks.long_label_limit",
			Message: "long_label_limit must be positive",
		})
	}

	programs := []struct {
		field string
		value string
	}{
		{"checks.positional_tbl_check", c.Checks.PositionalTblCheck},
		{"checks.check_table_coords", c.Checks.CheckTableCoords},
		{"checks.feature_bits", c.Checks.FeatureBits},
	}
	for _, p := range programs {
		if p.value == "" {
			errors = append(errors, ValidationError{
				Field:   p.field,
				Message: "program name is required",
			})
		}
	}

	if c.Checks.GapTable == "" {
		errors = append(errors, ValidationError{
			Field:   "checks.gap_table",
			Message: "gap_table is required",
		})
	}

	return errors
}

func (c *Config) validateRun() ValidationErrors {
	var errors ValidationErrors

	if c.Run.Workers <= 0 {
		errors = append(errors, ValidationError{
			Field:   "run.workers",
			Message: "workers must be positive",
		})
	}

	if c.Run.OutputDir == "" {
		errors = append(errors, ValidationError{
			Field:   "run.output_dir",
			Message: "output_dir is required",
		})
	}

	// A locked table pins one connection for its whole run and queries on a
	// second one.
	if c.Run.LockTables && c.Run.Workers > 0 && c.Database.MaxConnections > 0 &&
		c.Database.MaxConnections < 2*c.Run.Workers {
		errors = append(errors, ValidationError{
			Field: "database.max_connections",
			Message: fmt.Sprintf("max_connections %d is too small for %d workers with lock_tables (need at least %d)",
				c.Database.MaxConnections, c.Run.Workers, 2*c.Run.Workers),
		})
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
