package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nvandessel/saescope/internal/logging"
)

// Keys lists the dot-notation keys accepted by Get and Set.
var Keys = []string{
	"hidden_dim",
	"input_dir",
	"output_dir",
	"range_key",
	"formats",
	"workers",
	"logging.level",
}

// Get retrieves a configuration value by dot-notation key.
func (c *SaescopeConfig) Get(key string) (any, bool) {
	switch key {
	case "hidden_dim":
		return c.HiddenDim, true
	case "input_dir":
		return c.InputDir, true
	case "output_dir":
		return c.OutputDir, true
	case "range_key":
		return c.RangeKey, true
	case "formats":
		names := make([]string, len(c.Formats))
		for i, f := range c.Formats {
			names[i] = f.String()
		}
		return strings.Join(names, ","), true
	case "workers":
		return c.Workers, true
	case "logging.level":
		return c.Logging.Level, true
	default:
		return nil, false
	}
}

// Set assigns a configuration value by dot-notation key.
func (c *SaescopeConfig) Set(key, value string) error {
	switch key {
	case "hidden_dim":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid hidden_dim: %s (must be a positive integer)", value)
		}
		c.HiddenDim = n
	case "input_dir":
		c.InputDir = value
	case "output_dir":
		c.OutputDir = value
	case "range_key":
		if value == "" {
			return fmt.Errorf("range_key must not be empty")
		}
		c.RangeKey = value
	case "formats":
		formats, err := ParseFormats(value)
		if err != nil {
			return err
		}
		c.Formats = formats
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid workers: %s (must be a non-negative integer)", value)
		}
		c.Workers = n
	case "logging.level":
		if !logging.ValidLevel(value) {
			return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, warn, error)", value)
		}
		c.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
