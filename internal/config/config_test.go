package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, time.Second, cfg.Tracker.TickInterval)
	assert.True(t, cfg.Reminders.Enabled)
	assert.Equal(t, time.Hour, cfg.Reminders.Interval)
	assert.Equal(t, "tasks.csv", cfg.CSV.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "todue.db", filepath.Base(cfg.Database.Path))
	assert.False(t, cfg.UI.NoUI)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  path: /tmp/other.db
tracker:
  tick_interval: 500ms
reminders:
  enabled: false
  interval: 15m
ui:
  no_ui: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Tracker.TickInterval)
	assert.False(t, cfg.Reminders.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Reminders.Interval)
	assert.True(t, cfg.UI.NoUI)
	// untouched keys keep their defaults
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "tasks.csv", cfg.CSV.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TODUE_LOG_LEVEL", "debug")
	t.Setenv("TODUE_CSV_PATH", "backup.csv")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "backup.csv", cfg.CSV.Path)
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: ~/data/todue.db\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "todue.db"), cfg.Database.Path)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracker: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	assert.Error(t, WriteDefault(path), "existing file must not be overwritten")
}
