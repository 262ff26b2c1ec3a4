package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
)

var errNoMonths = errors.New("no months given; pass --months or set months in the config file")

func monthsFlag(dest *[]string) *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:        "months",
		Aliases:     []string{"m"},
		Usage:       "months or month globs to search, comma separated (e.g. 2025-01,2024-*)",
		Sources:     cli.EnvVars("CURATOR_MONTHS"),
		Destination: dest,
	}
}

// resolveMonths expands the --months patterns, falling back to the config
// file, into concrete months known to the backend.
func resolveMonths(ctx context.Context, app *curator.App, args []string) ([]string, error) {
	patterns := curation.SplitMonths(args)
	if len(patterns) == 0 {
		patterns = app.Config.Months
	}
	if len(patterns) == 0 {
		return nil, errNoMonths
	}

	months, err := app.Analyzer.ResolveMonths(ctx, patterns)
	if err != nil {
		return nil, fmt.Errorf("resolve months: %w", err)
	}
	return months, nil
}

// resolveField parses --field, falling back to the configured default.
func resolveField(app *curator.App, name string) (curation.Field, error) {
	if name == "" {
		return app.Config.DefaultField(), nil
	}
	return curation.ParseField(name)
}

// splitCSV splits repeated, comma separated flag values.
func splitCSV(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
