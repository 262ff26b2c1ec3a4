package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/doctor"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/pkg/iojson"
)

type DoctorCmd struct {
	flags  *Flags
	app    *curator.App
	format string
}

func NewDoctorCmd(flags *Flags, app *curator.App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your curator setup",
		UsageText:   "curator doctor [options]",
		Description: "Checks the configuration, the local journal database and the pipeline backend.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) checks() []doctor.Check {
	cfg := cmd.app.Config
	return []doctor.Check{
		doctor.NewConfigCheck(cmd.flags.ConfigPath, cfg),
		doctor.NewDatabaseCheck(cmd.app.DB),
		doctor.NewBackendCheck(cmd.app.Analyzer, cfg.API.BaseURL, cfg.Months, cfg.API.Timeout),
	}
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := doctor.RunAll(ctx, cmd.checks())

	var err error
	if cmd.format == "json" {
		err = writeDoctorJSON(c.Root().Writer, results)
	} else {
		writeDoctorText(os.Stderr, results)
	}
	if err != nil {
		return err
	}

	if !doctor.Summary(results).Healthy() {
		return cli.Exit("", 1)
	}
	return nil
}

func writeDoctorJSON(w io.Writer, results []doctor.Result) error {
	tally := doctor.Summary(results)
	out := struct {
		Healthy bool            `json:"healthy"`
		Summary doctor.Tally    `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{tally.Healthy(), tally, results}
	return iojson.WriteWith(w, os.Stderr, out)
}

func writeDoctorText(w io.Writer, results []doctor.Result) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render("Curator Doctor"))
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render(result.Name))
		for _, item := range result.Items {
			detail := ""
			if item.Detail != "" {
				detail = " " + styles.MutedTextStyle.Render(item.Detail)
			}
			_, _ = fmt.Fprintf(w, "  %s %s%s\n", statusIcon(item.Status), item.Label, detail)
		}
		_, _ = fmt.Fprintln(w)
	}

	tally := doctor.Summary(results)
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		styles.SuccessTextStyle.Render(fmt.Sprintf("%d passed", tally.Passed)),
		styles.WarningTextStyle.Render(fmt.Sprintf("%d warnings", tally.Warned)),
		styles.ErrorTextStyle.Render(fmt.Sprintf("%d failed", tally.Failed)),
	)
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusPass:
		return styles.SuccessTextStyle.Render("✔")
	case doctor.StatusWarn:
		return styles.WarningTextStyle.Render("●")
	default:
		return styles.ErrorTextStyle.Render("✘")
	}
}
