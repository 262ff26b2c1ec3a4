package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/pkg/iojson"
)

type MonthsCmd struct {
	flags *Flags
	app   *curator.App

	match  []string
	asJSON bool
}

// NewMonthsCmd creates a new months command
func NewMonthsCmd(flags *Flags, app *curator.App) *MonthsCmd {
	return &MonthsCmd{flags: flags, app: app}
}

// Register adds the months command to the application
func (cmd *MonthsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "months",
		Usage:     "List months the pipeline has data for",
		UsageText: "curator months [--match 2024-*]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "match",
				Usage:       "only list months matching these patterns",
				Destination: &cmd.match,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON array",
				Destination: &cmd.asJSON,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *MonthsCmd) run(ctx context.Context, c *cli.Command) error {
	months, err := cmd.app.Analyzer.AvailableMonths(ctx)
	if err != nil {
		return fmt.Errorf("list months: %w", err)
	}

	if patterns := curation.SplitMonths(cmd.match); len(patterns) > 0 {
		months, err = curation.ExpandMonths(patterns, months)
		if err != nil {
			return err
		}
	}

	if cmd.asJSON {
		if months == nil {
			months = []string{}
		}
		return iojson.WriteWith(c.Root().Writer, os.Stderr, months)
	}

	for _, m := range months {
		_, _ = fmt.Fprintln(c.Root().Writer, m)
	}
	return nil
}
