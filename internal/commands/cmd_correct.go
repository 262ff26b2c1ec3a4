package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/pkg/iojson"
)

type CorrectCmd struct {
	flags *Flags
	app   *curator.App

	input    iojson.FileReader[curation.Correction]
	action   string
	field    string
	original string
	matched  string
	reason   string
	months   []string
	dryRun   bool
}

// NewCorrectCmd creates a new correct command
func NewCorrectCmd(flags *Flags, app *curator.App) *CorrectCmd {
	return &CorrectCmd{flags: flags, app: app}
}

// Register adds the correct command to the application
func (cmd *CorrectCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "correct",
		Usage: "Submit corrections to the pipeline",
		UsageText: `curator correct --action mark_correct --field razor --original "Gem 1912" --matched '{"brand":"Gem","model":"1912"}'
curator correct -f corrections.json`,
		Description: `Submits one or more corrections. With --action a single correction is built
from flags. Otherwise a JSON object or array of objects is read from -f or stdin:

  [{"action": "mark_unmatched", "field": "blade", "original": "mystery blade"}]

Every correction is validated before anything is sent. Results are printed as
a JSON array in input order. The command exits non-zero if any correction failed.`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.StringFlag{
				Name:        "action",
				Usage:       "validate, override, mark_correct, mark_unmatched or remove_duplicate",
				Destination: &cmd.action,
			},
			&cli.StringFlag{
				Name:        "field",
				Usage:       "product field (razor, blade, brush, soap)",
				Destination: &cmd.field,
			},
			&cli.StringFlag{
				Name:        "original",
				Usage:       "original text as written in the comment",
				Destination: &cmd.original,
			},
			&cli.StringFlag{
				Name:        "matched",
				Usage:       "matched object as JSON",
				Destination: &cmd.matched,
			},
			&cli.StringFlag{
				Name:        "reason",
				Usage:       "free-form note stored with the correction",
				Destination: &cmd.reason,
			},
			monthsFlag(&cmd.months),
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "validate corrections without submitting them",
				Destination: &cmd.dryRun,
			},
		},
		Action: cmd.run,
	})
	return app
}

// CorrectOutput is one line of correct output.
type CorrectOutput struct {
	Correction curation.Correction        `json:"correction"`
	Result     *curation.CorrectionResult `json:"result,omitempty"`
	Error      string                     `json:"error,omitempty"`
}

func (cmd *CorrectCmd) run(ctx context.Context, c *cli.Command) error {
	corrections, err := cmd.corrections()
	if err != nil {
		return err
	}
	if len(corrections) == 0 {
		return fmt.Errorf("no corrections given")
	}

	months := curation.SplitMonths(cmd.months)
	if len(months) > 0 {
		months, err = resolveMonths(ctx, cmd.app, months)
		if err != nil {
			return err
		}
	}
	applyDefaultMonths(corrections, months)

	if i, err := validateCorrections(corrections); err != nil {
		_ = iojson.WriteError(err.Error(), map[string]any{
			"index":    i,
			"original": corrections[i].Original,
		})
		return cli.Exit("", 1)
	}

	out := make([]CorrectOutput, len(corrections))
	for i, corr := range corrections {
		out[i].Correction = corr
	}

	failed := false
	if !cmd.dryRun {
		results, errs := cmd.app.Curation.SubmitAll(ctx, corrections)
		for i := range corrections {
			if errs[i] != nil {
				out[i].Error = errs[i].Error()
				failed = true
				continue
			}
			res := results[i]
			out[i].Result = &res
		}
	}

	if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
		return err
	}
	if failed {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *CorrectCmd) corrections() ([]curation.Correction, error) {
	if cmd.action == "" {
		return cmd.input.ReadAll()
	}

	action, err := curation.ParseAction(cmd.action)
	if err != nil {
		return nil, err
	}
	field, err := resolveField(cmd.app, cmd.field)
	if err != nil {
		return nil, err
	}

	corr := curation.Correction{
		Action:   action,
		Field:    field,
		Original: cmd.original,
		Reason:   cmd.reason,
	}
	if cmd.matched != "" {
		if err := json.Unmarshal([]byte(cmd.matched), &corr.Matched); err != nil {
			return nil, fmt.Errorf("parse --matched: %w", err)
		}
	}
	return []curation.Correction{corr}, nil
}

// applyDefaultMonths sets months on corrections that carry none.
func applyDefaultMonths(cs []curation.Correction, months []string) {
	if len(months) == 0 {
		return
	}
	for i := range cs {
		if len(cs[i].Months) == 0 {
			cs[i].Months = months
		}
	}
}

// validateCorrections returns the index and error of the first invalid correction.
func validateCorrections(cs []curation.Correction) (int, error) {
	for i := range cs {
		if err := cs[i].Validate(); err != nil {
			return i, fmt.Errorf("invalid correction: %w", err)
		}
	}
	return -1, nil
}
