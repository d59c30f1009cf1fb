package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.MaxUploadMB)
	assert.InDelta(t, 85.0, cfg.Lexicon.MatchThreshold, 0.001)

	require.NoError(t, cfg.Validate())
}

func TestValidateLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")

	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG"} {
		cfg.LogLevel = level
		assert.NoError(t, cfg.Validate(), level)
	}
}

func TestValidateServer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.MaxUploadMB = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.TimeoutSec = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.ShutdownTimeout = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateLexiconThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lexicon.MatchThreshold = 101
	assert.Error(t, cfg.Validate())

	cfg.Lexicon.MatchThreshold = -1
	assert.Error(t, cfg.Validate())

	cfg.Lexicon.MatchThreshold = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidateOutputFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}

func TestValidatePipelinePropagates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.MinWordConfidence = 2
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline")
}

func TestNewLexiconFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lexicon.MatchThreshold = 90

	lex, err := cfg.NewLexicon()
	require.NoError(t, err)
	require.NotNil(t, lex)

	m := lex.Match("Paracetamol")
	assert.Equal(t, "Paracetamol", m.Name)
}
