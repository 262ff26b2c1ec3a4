package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/pkg/iojson"
)

type AnalyzeCmd struct {
	flags *Flags
	app   *curator.App

	fields      []string
	months      []string
	threshold   int
	limit       int
	displayMode string
	concurrency int
	format      string
}

// NewAnalyzeCmd creates a new analyze command
func NewAnalyzeCmd(flags *Flags, app *curator.App) *AnalyzeCmd {
	return &AnalyzeCmd{flags: flags, app: app}
}

// Register adds the analyze command to the application
func (cmd *AnalyzeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "analyze",
		Usage:     "Run the mismatch analysis for one or more fields",
		UsageText: "curator analyze [--field razor,blade] [--months 2025-*] [--format json|text]",
		Description: `Asks the backend for the mismatch analysis of each field over the month
scope. Fields are analyzed concurrently; the first failure aborts the run.

Threshold, limit and display mode default to the analysis section of the
config file.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "field",
				Usage:       "fields to analyze, comma separated (default: config analysis.field)",
				Destination: &cmd.fields,
			},
			monthsFlag(&cmd.months),
			&cli.IntFlag{
				Name:        "threshold",
				Usage:       "minimum occurrences for an entry to be reported (default: config)",
				Value:       -1,
				Destination: &cmd.threshold,
			},
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "maximum entries per field, 0 for no limit (default: config)",
				Value:       -1,
				Destination: &cmd.limit,
			},
			&cli.StringFlag{
				Name:        "display-mode",
				Usage:       "mismatches, all, unconfirmed, regex or intentionally_unmatched (default: config)",
				Destination: &cmd.displayMode,
			},
			&cli.IntFlag{
				Name:        "concurrency",
				Usage:       "fields analyzed in parallel",
				Value:       curator.DefaultConcurrency,
				Destination: &cmd.concurrency,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (json, text)",
				Value:       "json",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *AnalyzeCmd) run(ctx context.Context, c *cli.Command) error {
	fields, err := cmd.resolveFields()
	if err != nil {
		return err
	}

	months, err := resolveMonths(ctx, cmd.app, cmd.months)
	if err != nil {
		return err
	}

	req := cmd.app.DefaultRequest("", months)
	if cmd.threshold >= 0 {
		req.Threshold = cmd.threshold
	}
	if cmd.limit >= 0 {
		req.Limit = cmd.limit
	}
	if cmd.displayMode != "" {
		req.DisplayMode = cmd.displayMode
	}

	cmd.app.Analyzer.SetConcurrency(cmd.concurrency)
	analyses, err := cmd.app.Analyzer.AnalyzeFields(ctx, fields, req)
	if err != nil {
		return err
	}

	if cmd.format == "text" {
		return writeAnalysisTable(c.Root().Writer, analyses)
	}
	return iojson.WriteWith(c.Root().Writer, os.Stderr, analyses)
}

func (cmd *AnalyzeCmd) resolveFields() ([]curation.Field, error) {
	names := splitCSV(cmd.fields)
	if len(names) == 0 {
		return []curation.Field{cmd.app.Config.DefaultField()}, nil
	}
	return curation.ParseFields(names)
}

func writeAnalysisTable(out io.Writer, analyses []curation.Analysis) error {
	for i, a := range analyses {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		_, _ = fmt.Fprintf(out, "%s: %d mismatches of %d matches\n", a.Field, a.TotalMismatches, a.TotalMatches)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ORIGINAL\tMATCHED\tTYPE\tCOUNT\tCONFIRMED")
		for _, e := range a.Items {
			matchType := e.MatchType
			if matchType == "" {
				matchType = e.MismatchType
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\n", e.Original, e.MatchedLabel(), matchType, e.Count, e.IsConfirmed)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
