package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/config"
	"github.com/nmrs/sotd-pipeline-sub004/internal/printer"
	"github.com/nmrs/sotd-pipeline-sub004/pkg/iojson"
)

type ConfigCmd struct {
	flags  *Flags
	format string
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "curator config validate [--format json]",
				Description: "Validates the configuration file, checking the backend URL, month patterns, theme and limits.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.runValidate,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration as YAML",
				Action: cmd.runShow,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: cmd.runPath,
			},
		},
	})

	return app
}

// configIssue is one invalid configuration value.
type configIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func configIssues(err error) []configIssue {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []configIssue{{Message: err.Error()}}
	}
	issues := make([]configIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, configIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return issues
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	issues := configIssues(cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath))

	if cmd.format == "json" {
		out := struct {
			Valid  bool          `json:"valid"`
			Path   string        `json:"path"`
			Errors []configIssue `json:"errors,omitempty"`
		}{
			Valid:  len(issues) == 0,
			Path:   cmd.flags.ConfigPath,
			Errors: issues,
		}
		if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
			return err
		}
		if len(issues) > 0 {
			return cli.Exit("", 1)
		}
		return nil
	}

	p := printer.Ctx(ctx)
	if len(issues) == 0 {
		p.Successf("Configuration is valid (%s)", cmd.flags.ConfigPath)
		return nil
	}

	for _, issue := range issues {
		if issue.Field == "" {
			p.Errorf("%s", issue.Message)
			continue
		}
		p.Errorf("%s: %s", issue.Field, issue.Message)
	}
	p.Printf("")
	p.Errorf("%d error(s) found", len(issues))
	return cli.Exit("", 1)
}

func (cmd *ConfigCmd) runShow(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = c.Root().Writer.Write(data)
	return err
}

func (cmd *ConfigCmd) runPath(_ context.Context, c *cli.Command) error {
	_, err := fmt.Fprintln(c.Root().Writer, cmd.flags.ConfigPath)
	return err
}
