package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, Default(dir), cfg)
	require.Equal(t, "yaml", cfg.Storage.Backend)
	require.True(t, cfg.Audio.Enabled)
	require.True(t, cfg.Notifications.Enabled)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
storage:
  backend: SQLite
  path: /tmp/pomodoro.db
log:
  level: debug
  format: json
audio:
  enabled: false
notifications:
  enabled: false
sounds:
  rain:
    url: /music/rain.ogg
  fire:
    url: ""
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Storage.Backend)
	require.Equal(t, "/tmp/pomodoro.db", cfg.Storage.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.False(t, cfg.Audio.Enabled)
	require.False(t, cfg.Notifications.Enabled)
	require.Equal(t, map[string]string{"rain": "/music/rain.ogg"}, cfg.SoundURLs())
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "storage: [oops")

	cfg, err := Load(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), FileName)
	require.Equal(t, Default(dir), cfg)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "storage:\n  backend: yaml\n")
	t.Setenv("POMODORO_STORAGE_BACKEND", "memory")
	t.Setenv("POMODORO_LOG_LEVEL", "warn")
	t.Setenv("POMODORO_AUDIO_ENABLED", "false")
	t.Setenv("POMODORO_NOTIFICATIONS_ENABLED", "not-a-bool")
	t.Setenv("POMODORO_AUDIO_CACHE_DIR", "/var/cache/pomodoro")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Storage.Backend)
	require.Equal(t, "warn", cfg.Log.Level)
	require.False(t, cfg.Audio.Enabled)
	require.True(t, cfg.Notifications.Enabled)
	require.Equal(t, "/var/cache/pomodoro", cfg.AudioCacheDir())
}

func TestTickRateIsNotConfigurable(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tick_interval: 250ms\n")
	t.Setenv("POMODORO_TICK_INTERVAL", "2s")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, Default(dir), cfg)
}
