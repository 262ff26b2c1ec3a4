package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("api.base_url", c.API.BaseURL, validateBaseURL),
		c.validateTimeouts(),
		c.validateMonths(),
		criterio.Run("analysis.field", c.Analysis.Field, func(s string) error {
			_, err := curation.ParseField(s)
			return err
		}),
		c.validateAnalysisBounds(),
		criterio.Run("tui.theme", c.TUI.Theme, validateTheme),
		c.validateDatabase(),
		criterio.Run("data_dir", c.DataDir, func(s string) error {
			if s == "" {
				return fmt.Errorf("data directory cannot be empty")
			}
			return nil
		}),
	)
}

// ValidateDeep performs Validate plus filesystem checks on the config file and
// data directory. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func validateTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	var errs criterio.FieldErrorsBuilder
	if c.API.Timeout < 0 {
		errs = errs.Append("api.timeout", fmt.Errorf("must be positive"))
	}
	if c.Journal.Retention < 0 {
		errs = errs.Append("journal.retention", fmt.Errorf("must be positive"))
	}
	return errs.ToError()
}

func (c *Config) validateMonths() error {
	var errs criterio.FieldErrorsBuilder
	for i, m := range c.Months {
		if err := curation.ValidateMonthPattern(m); err != nil {
			errs = errs.Append(fmt.Sprintf("months[%d]", i), err)
		}
	}
	return errs.ToError()
}

func (c *Config) validateAnalysisBounds() error {
	var errs criterio.FieldErrorsBuilder
	if c.Analysis.Threshold < 0 {
		errs = errs.Append("analysis.threshold", fmt.Errorf("must not be negative"))
	}
	if c.Analysis.Limit < 0 {
		errs = errs.Append("analysis.limit", fmt.Errorf("must not be negative"))
	}
	if !slices.Contains(displayModes, c.Analysis.DisplayMode) {
		errs = errs.Append("analysis.display_mode", fmt.Errorf("must be one of %s", strings.Join(displayModes, ", ")))
	}
	return errs.ToError()
}

var displayModes = []string{"mismatches", "all", "unconfirmed", "regex", "intentionally_unmatched"}

func (c *Config) validateDatabase() error {
	var errs criterio.FieldErrorsBuilder
	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("must not be negative"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("must not be negative"))
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
