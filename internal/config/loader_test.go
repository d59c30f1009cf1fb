package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader() *Loader {
	return NewLoaderWith(viper.New())
}

func TestLoadDefaults(t *testing.T) {
	l := newTestLoader()
	// Run from a temp dir so a developer's rxscan.yaml is not picked up.
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.RegionTimeout)
	assert.InDelta(t, 0.15, cfg.Pipeline.MinWordConfidence, 0.001)
	assert.InDelta(t, 85.0, cfg.Lexicon.MatchThreshold, 0.001)
}

func TestLoadWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rxscan.yaml")
	content := `
log_level: debug
server:
  port: 9000
  max_upload_mb: 25
lexicon:
  match_threshold: 75
pipeline:
  min_med_name_len: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := newTestLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Server.MaxUploadMB)
	assert.InDelta(t, 75.0, cfg.Lexicon.MatchThreshold, 0.001)
	assert.Equal(t, 4, cfg.Pipeline.MinMedNameLen)

	// Unset values keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.InDelta(t, 0.15, cfg.Pipeline.MinWordConfidence, 0.001)
}

func TestLoadWithMissingFile(t *testing.T) {
	_, err := newTestLoader().LoadWithFile("/nonexistent/rxscan.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadWithInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rxscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o644))

	_, err := newTestLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadWithMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rxscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: valid\n"), 0o644))

	_, err := newTestLoader().LoadWithFile(path)
	require.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("RXSCAN_SERVER_PORT", "8123")
	t.Setenv("RXSCAN_LOG_LEVEL", "warn")
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	cfg, err := newTestLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rxscan.yaml")

	require.NoError(t, GenerateDefaultConfigFile(path))

	cfg, err := newTestLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/rxscan")
}
