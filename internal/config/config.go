// Package config provides configuration structures and loading for tableqa.
package config

// Config represents the complete application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Metadata MetadataConfig `yaml:"metadata" mapstructure:"metadata"`
	Checks   ChecksConfig   `yaml:"checks" mapstructure:"checks"`
	Run      RunConfig      `yaml:"run" mapstructure:"run"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig represents the genome database server connection.
// Database is the default assembly used for bare table names (e.g. "hg38").
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// Metadata sources for track attribute lookups.
const (
	MetadataSourceTdbQuery = "tdbquery"
	MetadataSourceTrackDB  = "trackdb"
)

// MetadataConfig selects how track attributes (parent, labels) are resolved.
type MetadataConfig struct {
	Source          string `yaml:"source" mapstructure:"source"` // tdbquery or trackdb
	TdbQueryProgram string `yaml:"tdbquery_program" mapstructure:"tdbquery_program"`
	TrackDBTable    string `yaml:"trackdb_table" mapstructure:"trackdb_table"`
}

// ChecksConfig holds check limits and the external programs to run.
type ChecksConfig struct {
	ShortLabelLimit    int    `yaml:"short_label_limit" mapstructure:"short_label_limit"`
	LongLabelLimit     int    `yaml:"long_label_limit" mapstructure:"long_label_limit"`
	PositionalTblCheck string `yaml:"positional_tbl_check" mapstructure:"positional_tbl_check"`
	CheckTableCoords   string `yaml:"check_table_coords" mapstructure:"check_table_coords"`
	FeatureBits        string `yaml:"feature_bits" mapstructure:"feature_bits"`
	GapTable           string `yaml:"gap_table" mapstructure:"gap_table"`
	GenbankTablesFile  string `yaml:"genbank_tables_file" mapstructure:"genbank_tables_file"`
}

// RunConfig controls how the driver schedules tables.
type RunConfig struct {
	Workers    int    `yaml:"workers" mapstructure:"workers"`
	OutputDir  string `yaml:"output_dir" mapstructure:"output_dir"`
	LockTables bool   `yaml:"lock_tables" mapstructure:"lock_tables"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Metadata: MetadataConfig{
			Source:          MetadataSourceTdbQuery,
			TdbQueryProgram: "tdbQuery",
			TrackDBTable:    "trackDb",
		},
		Checks: ChecksConfig{
			ShortLabelLimit:    17,
			LongLabelLimit:     80,
			PositionalTblCheck: "positionalTblCheck",
			CheckTableCoords:   "checkTableCoords",
			FeatureBits:        "featureBits",
			GapTable:           "gap",
			GenbankTablesFile:  "/cluster/data/genbank/etc/genbank.tbls",
		},
		Run: RunConfig{
			Workers:    1,
			OutputDir:  "qa-logs",
			LockTables: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
