package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dbsmedya/tableqa/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level := parseLevel(tt.input)
			if level.String() != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, level.String(), tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "qa.log")

	tests := []struct {
		name string
		cfg  *config.LoggingConfig
	}{
		{"json stderr", &config.LoggingConfig{Level: "info", Format: "json", Output: "stderr"}},
		{"text stdout", &config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"}},
		{"file output", &config.LoggingConfig{Level: "warn", Format: "json", Output: logFile}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)
			_ = logger.Sync()
		})
	}

	_, err := os.Stat(logFile)
	assert.NoError(t, err, "file output should create the log file")
}

func TestNew_UnwritableFile(t *testing.T) {
	_, err := New(&config.LoggingConfig{Output: filepath.Join(t.TempDir(), "missing", "dir", "qa.log")})
	assert.Error(t, err)
}

func TestNewDefaultAndNop(t *testing.T) {
	require.NotNil(t, NewDefault())

	nop := NewNop()
	require.NotNil(t, nop)
	nop.Info("discarded")
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core)

	log.WithRun("run-1").WithTable("hg38", "knownGene").WithStep("checkTableCoords").Info("step done")
	log.WithFields(map[string]interface{}{"passes": 3}).Debug("tally")

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "run-1", fields["run"])
	assert.Equal(t, "hg38", fields["db"])
	assert.Equal(t, "knownGene", fields["table"])
	assert.Equal(t, "checkTableCoords", fields["step"])

	assert.EqualValues(t, 3, entries[1].ContextMap()["passes"])
}

func TestWithReturnsNewInstance(t *testing.T) {
	log := NewNop()
	tableLog := log.WithTable("hg19", "refGene")
	assert.NotSame(t, log, tableLog)
}
