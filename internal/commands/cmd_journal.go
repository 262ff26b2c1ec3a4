package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/internal/printer"
	"github.com/nmrs/sotd-pipeline-sub004/pkg/iojson"
)

type JournalCmd struct {
	flags *Flags
	app   *curator.App

	limit     int
	asJSON    bool
	olderThan time.Duration
}

// NewJournalCmd creates a new journal command
func NewJournalCmd(flags *Flags, app *curator.App) *JournalCmd {
	return &JournalCmd{flags: flags, app: app}
}

// Register adds the journal command to the application
func (cmd *JournalCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "journal",
		Usage: "Inspect corrections submitted from this machine",
		Commands: []*cli.Command{
			{
				Name:    "ls",
				Aliases: []string{"list"},
				Usage:   "List recent corrections, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "limit",
						Aliases:     []string{"n"},
						Usage:       "maximum entries to show (0 for all)",
						Value:       50,
						Destination: &cmd.limit,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.asJSON,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:  "prune",
				Usage: "Remove journal entries older than the retention window",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "older-than",
						Usage:       "age cutoff (defaults to journal.retention from config)",
						Destination: &cmd.olderThan,
					},
				},
				Action: cmd.runPrune,
			},
		},
	})
	return app
}

func (cmd *JournalCmd) runList(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.app.Curation.History(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list journal: %w", err)
	}

	if cmd.asJSON {
		for _, e := range entries {
			if err := iojson.WriteLine(c.Root().Writer, e); err != nil {
				return err
			}
		}
		return nil
	}

	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("No corrections recorded")
		return nil
	}
	return writeJournalTable(c.Root().Writer, entries)
}

func writeJournalTable(w io.Writer, entries []curation.JournalEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "WHEN\tACTION\tFIELD\tORIGINAL\tRESULT")
	for _, e := range entries {
		result := "ok"
		if !e.Success {
			result = "failed"
			if e.Message != "" {
				result += ": " + e.Message
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Action,
			e.Field,
			truncate(e.Original, 40),
			result,
		)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (cmd *JournalCmd) runPrune(ctx context.Context, _ *cli.Command) error {
	olderThan := cmd.olderThan
	if olderThan == 0 {
		olderThan = cmd.app.Config.Journal.Retention
	}

	n, err := cmd.app.Curation.Prune(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("prune journal: %w", err)
	}

	printer.Ctx(ctx).Successf("Removed %d journal entries older than %s", n, olderThan)
	return nil
}
