// Package config provides unified configuration loading for saescope.
// It supports loading from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/saescope/internal/constants"
	"github.com/nvandessel/saescope/internal/logging"
)

// SaescopeConfig contains all saescope configuration settings.
type SaescopeConfig struct {
	// HiddenDim is the number of latent dimensions; the output has one row per dimension.
	HiddenDim int `json:"hidden_dim" yaml:"hidden_dim"`

	// InputDir holds one viz file per dimension.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives the feature table and decision log.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// RangeKey selects the activation range read from each viz file.
	RangeKey string `json:"range_key" yaml:"range_key"`

	// Formats lists the output encodings to write.
	Formats []constants.Format `json:"formats" yaml:"formats"`

	// Workers bounds parallel dimension aggregation. 1 runs serially.
	Workers int `json:"workers" yaml:"workers"`

	// Logging contains settings for operational and decision logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoggingConfig configures saescope's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables decision logging to <output_dir>/decisions.jsonl.
	// "trace" additionally logs every processed example.
	Level string `json:"level" yaml:"level"`
}

// Default returns a SaescopeConfig with sensible defaults.
func Default() *SaescopeConfig {
	return &SaescopeConfig{
		RangeKey: constants.DefaultRangeKey,
		Formats:  []constants.Format{constants.FormatParquet},
		Workers:  1,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.saescope/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".saescope", "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.saescope/config.yaml -> environment variables
func Load() (*SaescopeConfig, error) {
	config := Default()

	if configPath, err := DefaultPath(); err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadPath is Load with an explicit file. An empty path falls back to Load;
// a named file must exist.
func LoadPath(path string) (*SaescopeConfig, error) {
	if path == "" {
		return Load()
	}

	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*SaescopeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.InputDir = expandEnvVars(config.InputDir)
	config.OutputDir = expandEnvVars(config.OutputDir)

	return config, nil
}

// Save writes the configuration to path, creating its directory.
func Save(config *SaescopeConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is complete enough to run an analysis.
func (c *SaescopeConfig) Validate() error {
	var errs []error

	if c.HiddenDim <= 0 {
		errs = append(errs, fmt.Errorf("hidden_dim must be positive, got %d", c.HiddenDim))
	}
	if c.InputDir == "" {
		errs = append(errs, errors.New("input_dir is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}
	for _, f := range c.Formats {
		if !f.Valid() {
			errs = append(errs, fmt.Errorf("invalid format: %s (valid: parquet, csv, sqlite)", f))
		}
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("invalid log level: %s (valid: info, debug, trace, warn, error, or empty for default)", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// ParseFormats splits a comma-separated list such as "parquet,csv".
func ParseFormats(s string) ([]constants.Format, error) {
	var formats []constants.Format
	for _, part := range strings.Split(s, ",") {
		f := constants.Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if !f.Valid() {
			return nil, fmt.Errorf("invalid format: %s (valid: parquet, csv, sqlite)", f)
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *SaescopeConfig) {
	if v := os.Getenv("SAESCOPE_HIDDEN_DIM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.HiddenDim = n
		}
	}
	if v := os.Getenv("SAESCOPE_INPUT_DIR"); v != "" {
		config.InputDir = v
	}
	if v := os.Getenv("SAESCOPE_OUTPUT_DIR"); v != "" {
		config.OutputDir = v
	}
	if v := os.Getenv("SAESCOPE_RANGE_KEY"); v != "" {
		config.RangeKey = v
	}
	if v := os.Getenv("SAESCOPE_FORMATS"); v != "" {
		if formats, err := ParseFormats(v); err == nil {
			config.Formats = formats
		}
	}
	if v := os.Getenv("SAESCOPE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Workers = n
		}
	}
	if v := os.Getenv("SAESCOPE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
