// Package config holds the complete application configuration and its
// loading from files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/clinicode/rxscan/internal/lexicon"
	"github.com/clinicode/rxscan/internal/pipeline"
)

// Config represents the complete configuration for the rxscan
// application. It covers the extract and serve commands and supports
// loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Extraction pipeline configuration
	Pipeline pipeline.Config `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// Medication lexicon configuration
	Lexicon LexiconConfig `mapstructure:"lexicon" yaml:"lexicon" json:"lexicon"`

	// Output configuration (for the extract command)
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for the serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// LexiconConfig controls medication list loading and fuzzy matching.
type LexiconConfig struct {
	// Dir holds medications_en.txt and medications_km.txt overriding
	// the embedded defaults. Empty means embedded lists only.
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir"`
	// MatchThreshold is the minimum fuzzy score (0-100) to accept a
	// lexicon match.
	MatchThreshold float64 `mapstructure:"match_threshold" yaml:"match_threshold" json:"match_threshold"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty" json:"pretty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Pipeline: pipeline.DefaultConfig(),
		Lexicon: LexiconConfig{
			Dir:            "",
			MatchThreshold: lexicon.DefaultThreshold,
		},
		Output: OutputConfig{
			Format: "json",
			Pretty: true,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			CORSOrigin:      "*",
			MaxUploadMB:     10,
			TimeoutSec:      120,
			ShutdownTimeout: 10,
		},
	}
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

var validOutputFormats = []string{"json", "text"}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q, must be one of %v", c.LogLevel, validLogLevels)
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if c.Lexicon.MatchThreshold < 0 || c.Lexicon.MatchThreshold > 100 {
		return fmt.Errorf("lexicon.match_threshold must be in [0, 100], got %v", c.Lexicon.MatchThreshold)
	}
	if !contains(validOutputFormats, strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("invalid output.format %q, must be one of %v", c.Output.Format, validOutputFormats)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec < 1 {
		return fmt.Errorf("server.timeout_sec must be positive, got %d", c.Server.TimeoutSec)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative, got %d", c.Server.ShutdownTimeout)
	}
	return nil
}

// NewLexicon builds the medication lexicon described by the
// configuration.
func (c *Config) NewLexicon(opts ...lexicon.Option) (*lexicon.Lexicon, error) {
	opts = append([]lexicon.Option{lexicon.WithThreshold(c.Lexicon.MatchThreshold)}, opts...)
	return lexicon.New(c.Lexicon.Dir, opts...)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
