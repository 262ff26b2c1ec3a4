package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/config"
)

// ConfigCheck validates the config file and the loaded configuration.
type ConfigCheck struct {
	configPath string
	cfg        *config.Config
}

// NewConfigCheck creates a config check.
func NewConfigCheck(configPath string, cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{configPath: configPath, cfg: cfg}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := os.Stat(c.configPath); err != nil {
		result.Items = append(result.Items, warn("Config file", c.configPath+" not found, using defaults"))
	} else {
		result.Items = append(result.Items, pass("Config file", c.configPath))
	}

	err := c.cfg.ValidateDeep(c.configPath)
	if err == nil {
		result.Items = append(result.Items, pass("Values", "valid"))
		return result
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		result.Items = append(result.Items, fail("Values", err.Error()))
		return result
	}
	for _, fe := range fieldErrs {
		result.Items = append(result.Items, fail(fe.Field, fe.Err.Error()))
	}
	return result
}
