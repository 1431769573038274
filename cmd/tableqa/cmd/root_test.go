package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigFile(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	tests := []struct {
		name     string
		cfgValue string
		want     string
	}{
		{name: "empty", cfgValue: "", want: ""},
		{name: "custom config file", cfgValue: "/etc/tableqa/hgwdev.yaml", want: "/etc/tableqa/hgwdev.yaml"},
		{name: "config file with spaces", cfgValue: "/path/to/my config.yaml", want: "/path/to/my config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgValue
			assert.Equal(t, tt.want, GetConfigFile())
		})
	}
}

func TestGetCLIOverrides(t *testing.T) {
	originalLogLevel := logLevel
	originalLogFormat := logFormat
	originalOutputDir := outputDir
	originalWorkers := workers
	defer func() {
		logLevel = originalLogLevel
		logFormat = originalLogFormat
		outputDir = originalOutputDir
		workers = originalWorkers
	}()

	logLevel = "debug"
	logFormat = "json"
	outputDir = "/tmp/qa"
	workers = 4

	assert.Equal(t, CLIOverrides{
		LogLevel:  "debug",
		LogFormat: "json",
		OutputDir: "/tmp/qa",
		Workers:   4,
	}, GetCLIOverrides())
}

func TestRootCommandFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	for _, name := range []string{"config", "log-level", "log-format", "output-dir", "workers"} {
		assert.NotNil(t, flags.Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "c", flags.Lookup("config").Shorthand)
	assert.Equal(t, "tableqa.yaml", flags.Lookup("config").DefValue)
}

func TestRootSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["check"])
	assert.True(t, names["labels"])
	assert.True(t, names["version"])
}
