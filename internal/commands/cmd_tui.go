package commands

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/internal/profiler"
	"github.com/nmrs/sotd-pipeline-sub004/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *curator.App
	build tui.BuildInfo

	field        string
	months       []string
	profilerPort int
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *curator.App, build tui.BuildInfo) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
		build: build,
	}
}

// Flags returns the TUI flags; they are registered on the root command so
// the TUI can run as the default action.
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "field",
			Usage:       "field to review first (razor, blade, brush, soap)",
			Sources:     cli.EnvVars("CURATOR_FIELD"),
			Destination: &cmd.field,
		},
		monthsFlag(&cmd.months),
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "serve pprof on localhost at this port while the TUI runs",
			Sources:     cli.EnvVars("CURATOR_PROFILER_PORT"),
			Hidden:      true,
			Destination: &cmd.profilerPort,
		},
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Browse analysis entries and their comments",
		UsageText: "curator tui [--field razor] [--months 2025-*]",
		Description: `Opens the interactive browser. Entries of the selected field are listed
with their match; enter opens the comments they were extracted from.

Running curator without a command does the same.`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	field, err := resolveField(cmd.app, cmd.field)
	if err != nil {
		return err
	}

	months, err := resolveMonths(ctx, cmd.app, cmd.months)
	if err != nil {
		return err
	}

	if cmd.profilerPort > 0 {
		prof := profiler.New(cmd.profilerPort)
		if err := prof.Start(ctx); err != nil {
			return fmt.Errorf("start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := prof.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
	}

	log.Debug().Str("field", string(field)).Strs("months", months).Msg("starting tui")

	m := tui.New(ctx, tui.Deps{App: cmd.app, BuildInfo: cmd.build}, tui.Opts{
		Field:  field,
		Months: months,
	})
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
