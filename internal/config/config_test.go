package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(20971520), cfg.Server.MaxUploadBytes)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "auto", cfg.Analysis.DefaultMode)
	assert.Equal(t, "DD-MMM-YYYY", cfg.Analysis.DateFormat)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  shutdown_timeout: 5s
logging:
  level: debug
analysis:
  default_mode: finance
cache:
  ttl: 1h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "finance", cfg.Analysis.DefaultMode)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	// Untouched sections keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadEnvironmentWinsOverFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 9090\n")
	t.Setenv("RAPIH_SERVER_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad log level", "logging:\n  level: loud\n"},
		{"bad mode", "analysis:\n  default_mode: everything\n"},
		{"bad port", "server:\n  port: 70000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfigFile(t, "server: [not a map"))
	assert.Error(t, err)
}
