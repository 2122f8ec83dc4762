// Package config loads run configuration from YAML files, .env files and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical-ai/racecard/internal/domain"
	"github.com/spherical-ai/racecard/internal/observability"
)

// Config holds all configuration for an extraction run.
type Config struct {
	Input         InputConfig         `yaml:"input"`
	Output        OutputConfig        `yaml:"output"`
	Ingestion     IngestionConfig     `yaml:"ingestion"`
	Extraction    ExtractionConfig    `yaml:"extraction"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// InputConfig selects the source documents.
type InputConfig struct {
	Dir         string   `yaml:"dir"`
	Recursive   bool     `yaml:"recursive"`
	Extensions  []string `yaml:"extensions"`
	MaxFileSize int64    `yaml:"max_file_size"` // bytes, 0 for no limit
}

// OutputConfig controls the export artifacts.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Prefix   string `yaml:"prefix"`
	AuditDir string `yaml:"audit_dir"` // relative to Dir unless absolute
	XLSX     bool   `yaml:"xlsx"`
}

// IngestionConfig holds batch processing settings.
type IngestionConfig struct {
	MaxConcurrentJobs     int  `yaml:"max_concurrent_jobs"`
	SkipDuplicateDocument bool `yaml:"skip_duplicate_documents"`
}

// ExtractionConfig tunes the extractors.
type ExtractionConfig struct {
	ExtraTracks []string `yaml:"extra_tracks"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file, then a .env file in the working
// directory if present, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
		cfg.Input.Dir = ResolveRelativePath(path, cfg.Input.Dir)
		cfg.Output.Dir = ResolveRelativePath(path, cfg.Output.Dir)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, domain.ConfigError("load .env", err)
	}
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("validate config", err)
	}

	return cfg, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Dir:         "data",
			Extensions:  []string{".docx"},
			MaxFileSize: 50 << 20,
		},
		Output: OutputConfig{
			Dir:      "output",
			Prefix:   "racecard_summary",
			AuditDir: "audit",
			XLSX:     true,
		},
		Ingestion: IngestionConfig{
			MaxConcurrentJobs:     1,
			SkipDuplicateDocument: true,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input.Dir) == "" {
		return fmt.Errorf("input dir is required")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("output dir is required")
	}
	if strings.TrimSpace(c.Output.Prefix) == "" || strings.ContainsAny(c.Output.Prefix, `/\`) {
		return fmt.Errorf("invalid output prefix: %q", c.Output.Prefix)
	}
	if len(c.Input.Extensions) == 0 {
		return fmt.Errorf("at least one input extension is required")
	}
	for _, ext := range c.Input.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("input extension %q must start with a dot", ext)
		}
	}
	if c.Input.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative")
	}
	if c.Ingestion.MaxConcurrentJobs < 1 || c.Ingestion.MaxConcurrentJobs > 64 {
		return fmt.Errorf("max_concurrent_jobs must be between 1 and 64")
	}
	if !observability.ValidLevel(c.Observability.LogLevel) {
		return fmt.Errorf("invalid log level: %s", c.Observability.LogLevel)
	}
	if c.Observability.LogFormat != "json" && c.Observability.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s", c.Observability.LogFormat)
	}
	return nil
}

// AuditPath returns the audit directory.
func (c *Config) AuditPath() string {
	if filepath.IsAbs(c.Output.AuditDir) {
		return c.Output.AuditDir
	}
	return filepath.Join(c.Output.Dir, c.Output.AuditDir)
}

// AcceptsExtension reports whether files with ext are selected for the run.
func (c *Config) AcceptsExtension(ext string) bool {
	for _, e := range c.Input.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RACECARD_INPUT_DIR"); v != "" {
		cfg.Input.Dir = v
	}

	if v := os.Getenv("RACECARD_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}

	if v := os.Getenv("RACECARD_MAX_CONCURRENT_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ingestion.MaxConcurrentJobs = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if targetPath == "" || filepath.IsAbs(targetPath) {
		return targetPath
	}
	return filepath.Join(filepath.Dir(configPath), targetPath)
}
