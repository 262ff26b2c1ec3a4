package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/nmrs/sotd-pipeline-sub004/internal/commands/init"
)

type InitCmd struct {
	flags  *Flags
	yes    bool
	force  bool
	preset initcmd.ConfigOptions
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Create a curator configuration with an interactive wizard",
		UsageText: "curator init [options]",
		Description: `Sets up curator for first-time use.

The wizard asks for the pipeline API URL, the default field, the default
month scope and a theme, then writes ~/.config/curator/config.yaml and checks it.

Use --yes to accept defaults (and any flags given) without prompts.
Use --force to overwrite an existing configuration. A backup is kept as .bak.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "pipeline API base URL",
				Destination: &cmd.preset.BaseURL,
			},
			&cli.StringFlag{
				Name:        "field",
				Usage:       "default field (razor, blade, brush, soap)",
				Destination: &cmd.preset.Field,
			},
			&cli.StringSliceFlag{
				Name:        "months",
				Usage:       "default months or month globs",
				Destination: &cmd.preset.Months,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "TUI theme",
				Destination: &cmd.preset.Theme,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes,
		Force:      cmd.force,
		Preset:     cmd.preset,
	})
	return wizard.Run(ctx)
}
