package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Database.Host = "localhost"
	cfg.Database.User = "qa"
	return cfg
}

func TestValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"bad port", func(c *Config) { c.Database.Port = 70000 }, "database.port"},
		{"missing user", func(c *Config) { c.Database.User = "" }, "database.user"},
		{"bad tls", func(c *Config) { c.Database.TLS = "sometimes" }, "database.tls"},
		{"negative connections", func(c *Config) { c.Database.MaxConnections = -1 }, "database.max_connections"},
		{"unknown metadata source", func(c *Config) { c.Metadata.Source = "hgsql" }, "metadata.source"},
		{"tdbquery without program", func(c *Config) { c.Metadata.TdbQueryProgram = "" }, "metadata.tdbquery_program"},
		{"trackdb without table", func(c *Config) {
			c.Metadata.Source = MetadataSourceTrackDB
			c.Metadata.TrackDBTable = ""
		}, "metadata.trackdb_table"},
		{"zero short limit", func(c *Config) { c.Checks.ShortLabelLimit = 0 }, "checks.short_label_limit"},
		{"zero long limit", func(c *Config) { c.Checks.LongLabelLimit = 0 }, "checks.long_label_limit"},
		{"missing featureBits", func(c *Config) { c.Checks.FeatureBits = "" }, "checks.feature_bits"},
		{"missing gap table", func(c *Config) { c.Checks.GapTable = "" }, "checks.gap_table"},
		{"zero workers", func(c *Config) { c.Run.Workers = 0 }, "run.workers"},
		{"missing output dir", func(c *Config) { c.Run.OutputDir = "" }, "run.output_dir"},
		{"pool too small for locking workers", func(c *Config) {
			c.Run.Workers = 10
			c.Database.MaxConnections = 10
		}, "database.max_connections"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			found := false
			for _, e := range verrs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidate_PoolSizeForWorkers(t *testing.T) {
	tests := []struct {
		name       string
		workers    int
		maxConns   int
		lockTables bool
		wantErr    bool
	}{
		{"two connections per worker", 5, 10, true, false},
		{"one short", 5, 9, true, true},
		{"unlimited pool", 10, 0, true, false},
		{"locks disabled", 10, 10, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Run.Workers = tt.workers
			cfg.Run.LockTables = tt.lockTables
			cfg.Database.MaxConnections = tt.maxConns

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no validation errors, got: %v", err)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "database.host", Message: "host is required"},
		{Field: "run.workers", Message: "workers must be positive"},
	}

	msg := errs.Error()
	if !strings.HasPrefix(msg, "validation failed:") {
		t.Errorf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "database.host: host is required") {
		t.Errorf("missing field message: %s", msg)
	}
	if (ValidationErrors{}).Error() != "" {
		t.Error("empty ValidationErrors should render as empty string")
	}
}
