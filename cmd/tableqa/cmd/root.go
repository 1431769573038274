package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
	outputDir string
	workers   int
)

var rootCmd = &cobra.Command{
	Use:   "tableqa",
	Short: "Genome browser table QA",
	Long: `Runs quality checks on genome annotation tables before release.

Every table gets the generic checks (description entry, indexes) and table
statistics. Tables with genomic coordinates additionally get label length
checks along the trackDb parent chain, positionalTblCheck, checkTableCoords
and featureBits coverage.

Each table writes a step-framed log; a summary table is printed at the end.`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tableqa.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Run overrides
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "",
		"Override directory for per-table logs")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0,
		"Override number of tables checked in parallel")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel  string
	LogFormat string
	OutputDir string
	Workers   int
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		OutputDir: outputDir,
		Workers:   workers,
	}
}
