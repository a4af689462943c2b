package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nvandessel/saescope/internal/constants"
)

func validConfig() *SaescopeConfig {
	c := Default()
	c.HiddenDim = 4096
	c.InputDir = "/data/viz"
	c.OutputDir = "/data/out"
	return c
}

func TestDefault(t *testing.T) {
	config := Default()

	if config.HiddenDim != 0 {
		t.Errorf("expected HiddenDim 0, got %d", config.HiddenDim)
	}
	if config.RangeKey != "0.75-1" {
		t.Errorf("expected RangeKey '0.75-1', got '%s'", config.RangeKey)
	}
	if !reflect.DeepEqual(config.Formats, []constants.Format{constants.FormatParquet}) {
		t.Errorf("expected parquet-only formats, got %v", config.Formats)
	}
	if config.Workers != 1 {
		t.Errorf("expected Workers 1, got %d", config.Workers)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
hidden_dim: 4096
input_dir: /data/viz
output_dir: /data/out
formats: [parquet, csv]
workers: 8
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.HiddenDim != 4096 {
		t.Errorf("expected HiddenDim 4096, got %d", config.HiddenDim)
	}
	if config.InputDir != "/data/viz" || config.OutputDir != "/data/out" {
		t.Errorf("unexpected dirs: %q %q", config.InputDir, config.OutputDir)
	}
	if !reflect.DeepEqual(config.Formats, []constants.Format{constants.FormatParquet, constants.FormatCSV}) {
		t.Errorf("unexpected formats: %v", config.Formats)
	}
	if config.Workers != 8 {
		t.Errorf("expected Workers 8, got %d", config.Workers)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}
	// Unset fields keep their defaults.
	if config.RangeKey != constants.DefaultRangeKey {
		t.Errorf("expected default RangeKey, got '%s'", config.RangeKey)
	}
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("SAESCOPE_TEST_ROOT", "/scratch")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "input_dir: ${SAESCOPE_TEST_ROOT}/viz\noutput_dir: ${SAESCOPE_TEST_ROOT}/out\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if config.InputDir != "/scratch/viz" || config.OutputDir != "/scratch/out" {
		t.Errorf("expected expanded dirs, got %q %q", config.InputDir, config.OutputDir)
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("hidden_dim: [oops"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_UsesHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	cfg := validConfig()
	cfg.Workers = 3
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Workers != 3 || loaded.HiddenDim != 4096 {
		t.Errorf("Load() = %+v, want the saved config", loaded)
	}
}

func TestLoadPath_Explicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saescope.yaml")
	if err := Save(validConfig(), path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadPath(path)
	if err != nil {
		t.Fatalf("LoadPath() error = %v", err)
	}
	if loaded.InputDir != "/data/viz" {
		t.Errorf("LoadPath() InputDir = %q", loaded.InputDir)
	}

	if _, err := LoadPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadPath() with a missing explicit file should fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SAESCOPE_HIDDEN_DIM", "512")
	t.Setenv("SAESCOPE_INPUT_DIR", "/env/in")
	t.Setenv("SAESCOPE_OUTPUT_DIR", "/env/out")
	t.Setenv("SAESCOPE_RANGE_KEY", "0.5-0.75")
	t.Setenv("SAESCOPE_FORMATS", "csv, sqlite")
	t.Setenv("SAESCOPE_WORKERS", "6")
	t.Setenv("SAESCOPE_LOG_LEVEL", "trace")

	config := Default()
	applyEnvOverrides(config)

	if config.HiddenDim != 512 {
		t.Errorf("expected HiddenDim 512, got %d", config.HiddenDim)
	}
	if config.InputDir != "/env/in" || config.OutputDir != "/env/out" {
		t.Errorf("unexpected dirs: %q %q", config.InputDir, config.OutputDir)
	}
	if config.RangeKey != "0.5-0.75" {
		t.Errorf("expected RangeKey '0.5-0.75', got '%s'", config.RangeKey)
	}
	if !reflect.DeepEqual(config.Formats, []constants.Format{constants.FormatCSV, constants.FormatSQLite}) {
		t.Errorf("unexpected formats: %v", config.Formats)
	}
	if config.Workers != 6 {
		t.Errorf("expected Workers 6, got %d", config.Workers)
	}
	if config.Logging.Level != "trace" {
		t.Errorf("expected Logging.Level 'trace', got '%s'", config.Logging.Level)
	}
}

func TestEnvOverrides_IgnoresMalformed(t *testing.T) {
	t.Setenv("SAESCOPE_HIDDEN_DIM", "lots")
	t.Setenv("SAESCOPE_FORMATS", "xlsx")

	config := Default()
	applyEnvOverrides(config)

	if config.HiddenDim != 0 {
		t.Errorf("malformed hidden dim should be ignored, got %d", config.HiddenDim)
	}
	if len(config.Formats) != 1 || config.Formats[0] != constants.FormatParquet {
		t.Errorf("malformed formats should be ignored, got %v", config.Formats)
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SaescopeConfig)
		want   string
	}{
		{"zero hidden dim", func(c *SaescopeConfig) { c.HiddenDim = 0 }, "hidden_dim"},
		{"negative hidden dim", func(c *SaescopeConfig) { c.HiddenDim = -3 }, "hidden_dim"},
		{"missing input", func(c *SaescopeConfig) { c.InputDir = "" }, "input_dir"},
		{"missing output", func(c *SaescopeConfig) { c.OutputDir = "" }, "output_dir"},
		{"negative workers", func(c *SaescopeConfig) { c.Workers = -1 }, "workers"},
		{"unknown format", func(c *SaescopeConfig) { c.Formats = []constants.Format{"xlsx"} }, "invalid format"},
		{"unknown level", func(c *SaescopeConfig) { c.Logging.Level = "verbose" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_ValidLogLevels(t *testing.T) {
	for _, level := range []string{"", "info", "debug", "trace"} {
		c := validConfig()
		c.Logging.Level = level
		if err := c.Validate(); err != nil {
			t.Errorf("level %q: unexpected error: %v", level, err)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats("Parquet, csv,,sqlite")
	if err != nil {
		t.Fatalf("ParseFormats() error = %v", err)
	}
	want := []constants.Format{constants.FormatParquet, constants.FormatCSV, constants.FormatSQLite}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFormats() = %v, want %v", got, want)
	}

	if _, err := ParseFormats("parquet,json"); err == nil {
		t.Error("ParseFormats() should reject json")
	}
}
