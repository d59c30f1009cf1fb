package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "rxscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "RXSCAN"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader backed by the global
// viper instance, so cobra flag bindings are honored.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWith creates a loader backed by a dedicated viper instance.
// Used in tests to avoid global state.
func NewLoaderWith(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load loads configuration from files, environment variables, and
// defaults, then validates it. A missing configuration file is not an
// error; defaults and environment variables apply.
func (l *Loader) Load() (*Config, error) {
	config, err := l.load("")
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadWithFile loads configuration from a specific file path. An empty
// path falls back to the standard search.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}
	config, err := l.load(configFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func (l *Loader) load(configFile string) (*Config, error) {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	}

	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	l.v.AddConfigPath("/etc/rxscan")

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "rxscan"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "rxscan"))
	}
}

// setupEnvironmentVariables configures environment variable handling.
// RXSCAN_SERVER_PORT overrides server.port, and so on.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	l.v.SetDefault("pipeline.region_timeout", defaults.Pipeline.RegionTimeout)
	l.v.SetDefault("pipeline.min_word_confidence", defaults.Pipeline.MinWordConfidence)
	l.v.SetDefault("pipeline.min_med_name_len", defaults.Pipeline.MinMedNameLen)
	l.v.SetDefault("pipeline.base_confidence", defaults.Pipeline.BaseConfidence)
	l.v.SetDefault("pipeline.template_file", defaults.Pipeline.TemplateFile)
	l.v.SetDefault("pipeline.auto_accept_confidence", defaults.Pipeline.AutoAcceptConfidence)
	l.v.SetDefault("pipeline.review_confidence", defaults.Pipeline.ReviewConfidence)
	l.v.SetDefault("pipeline.whole_page_frac", defaults.Pipeline.WholePageFrac)

	l.v.SetDefault("pipeline.preprocess.max_dimension", defaults.Pipeline.Preprocess.MaxDimension)
	l.v.SetDefault("pipeline.preprocess.blur_threshold", defaults.Pipeline.Preprocess.BlurThreshold)
	l.v.SetDefault("pipeline.preprocess.brightness_min", defaults.Pipeline.Preprocess.BrightnessMin)
	l.v.SetDefault("pipeline.preprocess.brightness_max", defaults.Pipeline.Preprocess.BrightnessMax)
	l.v.SetDefault("pipeline.preprocess.denoise_sigma", defaults.Pipeline.Preprocess.DenoiseSigma)
	l.v.SetDefault("pipeline.preprocess.sharpen_sigma", defaults.Pipeline.Preprocess.SharpenSigma)
	l.v.SetDefault("pipeline.preprocess.contrast_amount", defaults.Pipeline.Preprocess.ContrastAmount)
	l.v.SetDefault("pipeline.preprocess.deskew_min_angle", defaults.Pipeline.Preprocess.DeskewMinAngle)

	l.v.SetDefault("pipeline.layout.min_horiz_lines", defaults.Pipeline.Layout.MinHorizLines)
	l.v.SetDefault("pipeline.layout.min_vert_lines", defaults.Pipeline.Layout.MinVertLines)
	l.v.SetDefault("pipeline.layout.horiz_line_min_frac", defaults.Pipeline.Layout.HorizLineMinFrac)
	l.v.SetDefault("pipeline.layout.vert_line_min_frac", defaults.Pipeline.Layout.VertLineMinFrac)
	l.v.SetDefault("pipeline.layout.estimated_data_rows", defaults.Pipeline.Layout.EstimatedDataRows)
	l.v.SetDefault("pipeline.layout.column_line_height_frac", defaults.Pipeline.Layout.ColumnLineHeightFrac)
	l.v.SetDefault("pipeline.layout.projection_peak_frac", defaults.Pipeline.Layout.ProjectionPeakFrac)
	l.v.SetDefault("pipeline.layout.boundary_merge_frac", defaults.Pipeline.Layout.BoundaryMergeFrac)
	l.v.SetDefault("pipeline.layout.min_boundaries", defaults.Pipeline.Layout.MinBoundaries)

	l.v.SetDefault("pipeline.rows.tolerance", defaults.Pipeline.Rows.Tolerance)
	l.v.SetDefault("pipeline.rows.adaptive", defaults.Pipeline.Rows.Adaptive)
	l.v.SetDefault("pipeline.rows.adaptive_factor", defaults.Pipeline.Rows.AdaptiveFactor)

	l.v.SetDefault("pipeline.marks.side_trim_frac", defaults.Pipeline.Marks.SideTrimFrac)
	l.v.SetDefault("pipeline.marks.min_side_trim", defaults.Pipeline.Marks.MinSideTrim)
	l.v.SetDefault("pipeline.marks.fixed_threshold", defaults.Pipeline.Marks.FixedThreshold)
	l.v.SetDefault("pipeline.marks.line_kernel_frac", defaults.Pipeline.Marks.LineKernelFrac)
	l.v.SetDefault("pipeline.marks.min_line_kernel", defaults.Pipeline.Marks.MinLineKernel)
	l.v.SetDefault("pipeline.marks.min_blob_area", defaults.Pipeline.Marks.MinBlobArea)
	l.v.SetDefault("pipeline.marks.min_blob_height", defaults.Pipeline.Marks.MinBlobHeight)
	l.v.SetDefault("pipeline.marks.edge_band_frac", defaults.Pipeline.Marks.EdgeBandFrac)
	l.v.SetDefault("pipeline.marks.row_match_window", defaults.Pipeline.Marks.RowMatchWindow)
	l.v.SetDefault("pipeline.marks.row_match_min_area", defaults.Pipeline.Marks.RowMatchMinArea)

	l.v.SetDefault("lexicon.dir", defaults.Lexicon.Dir)
	l.v.SetDefault("lexicon.match_threshold", defaults.Lexicon.MatchThreshold)

	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.pretty", defaults.Output.Pretty)

	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.cors_origin", defaults.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", defaults.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
}

// WriteConfigToFile writes the current configuration to a file.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// GenerateDefaultConfigFile generates a default configuration file.
func GenerateDefaultConfigFile(filename string) error {
	loader := NewLoaderWith(viper.New())
	loader.setDefaults()

	if filename == "" {
		filename = "rxscan.yaml"
	}
	return loader.WriteConfigToFile(filename)
}

// GetConfigSearchPaths returns the paths where configuration files are
// searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".config", "rxscan"))
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "rxscan"))
	}

	paths = append(paths, "/etc/rxscan")

	return paths
}
