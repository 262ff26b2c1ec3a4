package initcmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/config"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
)

// ConfigOptions are the answers collected by the wizard.
type ConfigOptions struct {
	BaseURL string
	Field   string
	Months  []string
	Theme   string
	DataDir string // not written to the file, required by validation
}

// DefaultConfigOptions returns answers matching config.DefaultConfig.
func DefaultConfigOptions() ConfigOptions {
	def := config.DefaultConfig()
	return ConfigOptions{
		BaseURL: def.API.BaseURL,
		Field:   def.Analysis.Field,
		Months:  nil,
		Theme:   def.TUI.Theme,
	}
}

// GenerateConfig applies opts on top of the default configuration and
// validates the result.
func GenerateConfig(opts ConfigOptions) (config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.DataDir = opts.DataDir

	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}
	if opts.Field != "" {
		f, err := curation.ParseField(opts.Field)
		if err != nil {
			return cfg, err
		}
		cfg.Analysis.Field = string(f)
	}
	if months := curation.SplitMonths(opts.Months); len(months) > 0 {
		cfg.Months = months
	}
	if opts.Theme != "" {
		cfg.TUI.Theme = opts.Theme
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WriteConfig writes cfg as YAML to path, creating parent directories.
func WriteConfig(cfg config.Config, path string) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# curator configuration\n")
	buf.Write(data)
	return atomic.WriteFile(path, &buf)
}
