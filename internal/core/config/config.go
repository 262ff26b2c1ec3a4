// Package config handles configuration loading and validation for curator.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Months   []string       `yaml:"months"` // default month scope; literals or globs
	Analysis AnalysisConfig `yaml:"analysis"`
	TUI      TUIConfig      `yaml:"tui"`
	Database DatabaseConfig `yaml:"database"`
	Journal  JournalConfig  `yaml:"journal"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// APIConfig configures the curation backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AnalysisConfig holds defaults for mismatch analysis requests.
type AnalysisConfig struct {
	Field       string `yaml:"field"`
	Threshold   int    `yaml:"threshold"`
	Limit       int    `yaml:"limit"` // 0 = backend default
	DisplayMode string `yaml:"display_mode"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DatabaseConfig holds SQLite connection settings for the local journal.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// JournalConfig controls local correction history.
type JournalConfig struct {
	Retention time.Duration `yaml:"retention"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Months: []string{},
		Analysis: AnalysisConfig{
			Field:       string(curation.FieldRazor),
			Threshold:   3,
			DisplayMode: "mismatches",
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
		Journal: JournalConfig{
			Retention: 30 * 24 * time.Hour,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.Analysis.Field == "" {
		c.Analysis.Field = defaults.Analysis.Field
	}
	if c.Analysis.DisplayMode == "" {
		c.Analysis.DisplayMode = defaults.Analysis.DisplayMode
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Journal.Retention == 0 {
		c.Journal.Retention = defaults.Journal.Retention
	}
}

// DefaultField returns the configured analysis field.
// Validate guarantees the name parses.
func (c *Config) DefaultField() curation.Field {
	f, _ := curation.ParseField(c.Analysis.Field)
	return f
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
