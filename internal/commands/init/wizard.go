// Package initcmd implements the interactive first-run setup for curator.
package initcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/config"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/doctor"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
	"github.com/nmrs/sotd-pipeline-sub004/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
	Preset     ConfigOptions
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := w.defaults()
	if !w.opts.Yes {
		if err := promptUser(&answers); err != nil {
			return err
		}
	}

	cfg, err := GenerateConfig(answers)
	if err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}

	backupPath, err := BackupConfig(w.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("backup config: %w", err)
	}
	if backupPath != "" {
		p.Successf("Backed up config to: %s", backupPath)
	}

	if err := WriteConfig(cfg, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	loaded, err := config.Load(w.opts.ConfigPath, w.opts.DataDir)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}

	p.Printf("")
	result := doctor.NewConfigCheck(w.opts.ConfigPath, loaded).Run(ctx)
	p.Section(result.Name)
	for _, item := range result.Items {
		switch item.Status {
		case doctor.StatusPass:
			p.Successf("%s: %s", item.Label, item.Detail)
		case doctor.StatusWarn:
			p.Warnf("%s: %s", item.Label, item.Detail)
		default:
			p.Errorf("%s: %s", item.Label, item.Detail)
		}
	}

	printNextSteps(p, cfg)
	return nil
}

// defaults merges preset answers from flags over the built-in defaults.
func (w *Wizard) defaults() ConfigOptions {
	answers := DefaultConfigOptions()
	answers.DataDir = w.opts.DataDir
	preset := w.opts.Preset
	if preset.BaseURL != "" {
		answers.BaseURL = preset.BaseURL
	}
	if preset.Field != "" {
		answers.Field = preset.Field
	}
	if len(preset.Months) > 0 {
		answers.Months = preset.Months
	}
	if preset.Theme != "" {
		answers.Theme = preset.Theme
	}
	return answers
}

func promptUser(answers *ConfigOptions) error {
	months := strings.Join(answers.Months, ", ")

	fieldOpts := make([]huh.Option[string], 0, len(curation.Fields))
	for _, f := range curation.Fields {
		fieldOpts = append(fieldOpts, huh.NewOption(string(f), string(f)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Pipeline API URL").
				Description("Base URL of the SOTD pipeline analysis service").
				Value(&answers.BaseURL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("URL is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Default field").
				Options(fieldOpts...).
				Value(&answers.Field),
			huh.NewInput().
				Title("Default months").
				Description("Comma-separated months or globs, e.g. 2025-01, 2024-*").
				Value(&months).
				Validate(func(s string) error {
					for _, m := range curation.SplitMonths([]string{s}) {
						if err := curation.ValidateMonthPattern(m); err != nil {
							return err
						}
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(styles.ThemeNames()...)...).
				Value(&answers.Theme),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	answers.Months = curation.SplitMonths([]string{months})
	return nil
}

func printNextSteps(p *printer.Printer, cfg config.Config) {
	p.Printf("")
	p.Section("Next Steps")

	step := 1
	p.Printf("  %d. Run 'curator doctor' to check the backend at %s", step, cfg.API.BaseURL)
	step++
	if len(cfg.Months) == 0 {
		p.Printf("  %d. Pass --months to commands or add months to the config", step)
		step++
	}
	p.Printf("  %d. Run 'curator' to start reviewing %s matches", step, cfg.Analysis.Field)
}
