package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/comments"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/pkg/iojson"
)

type CommentCmd struct {
	flags *Flags
	app   *curator.App

	months []string
	format string
}

// NewCommentCmd creates a new comment command
func NewCommentCmd(flags *Flags, app *curator.App) *CommentCmd {
	return &CommentCmd{flags: flags, app: app}
}

// Register adds the comment command to the application
func (cmd *CommentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "comment",
		Usage: "Fetch the comments behind analysis entries",
		Commands: []*cli.Command{
			cmd.showCmd(),
			cmd.walkCmd(),
		},
	})
	return app
}

func (cmd *CommentCmd) commonFlags() []cli.Flag {
	return []cli.Flag{
		monthsFlag(&cmd.months),
		&cli.StringFlag{
			Name:        "format",
			Usage:       "output format (json, text)",
			Value:       "json",
			Destination: &cmd.format,
		},
	}
}

func (cmd *CommentCmd) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print one comment",
		UsageText: "curator comment show <id> [--months 2025-01]",
		Flags:     cmd.commonFlags(),
		Action:    cmd.runShow,
	}
}

func (cmd *CommentCmd) walkCmd() *cli.Command {
	return &cli.Command{
		Name:      "walk",
		Usage:     "Step through a set of comments in order",
		UsageText: "curator comment walk <id> [id...] [--months 2025-01]",
		Description: `Opens the first id and steps forward through the rest, fetching each
comment once. Duplicate ids are visited once. Comments that cannot be fetched
are skipped and reported.`,
		Flags:  cmd.commonFlags(),
		Action: cmd.runWalk,
	}
}

func (cmd *CommentCmd) runShow(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("comment id is required")
	}

	months, err := resolveMonths(ctx, cmd.app, cmd.months)
	if err != nil {
		return err
	}

	detail, err := cmd.app.Comments.GetCommentDetail(ctx, id, months)
	if err != nil {
		return fmt.Errorf("get comment %s: %w", id, err)
	}

	if cmd.format == "text" {
		writeCommentText(c.Root().Writer, detail, "")
		return nil
	}
	return iojson.WriteWith(c.Root().Writer, os.Stderr, detail)
}

// WalkResult is the output of comment walk.
type WalkResult struct {
	Comments []comments.Detail `json:"comments"`
	Skipped  []SkippedComment  `json:"skipped,omitempty"`
}

// SkippedComment is a comment that could not be fetched.
type SkippedComment struct {
	ID       string `json:"id"`
	NotFound bool   `json:"not_found"`
	Error    string `json:"error"`
}

func (cmd *CommentCmd) runWalk(ctx context.Context, c *cli.Command) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one comment id is required")
	}

	months, err := resolveMonths(ctx, cmd.app, cmd.months)
	if err != nil {
		return err
	}

	nav := cmd.app.NewNavigator(months)
	defer nav.Close()

	result, err := walkComments(ctx, nav, ids)
	if err != nil {
		return err
	}

	if cmd.format == "text" {
		out := c.Root().Writer
		total := len(result.Comments)
		for i, d := range result.Comments {
			writeCommentText(out, d, fmt.Sprintf("%d of %d", i+1, total))
		}
		for _, s := range result.Skipped {
			_, _ = fmt.Fprintf(os.Stderr, "skipped %s: %s\n", s.ID, s.Error)
		}
		return nil
	}
	return iojson.WriteWith(c.Root().Writer, os.Stderr, result)
}

// walkComments opens ids[0] and advances through the remaining ids until
// nothing is left. Failed fetches are collected as skipped.
func walkComments(ctx context.Context, nav *comments.Navigator, ids []string) (WalkResult, error) {
	var result WalkResult

	if err := nav.Open(ctx, ids[0], ids); err != nil {
		return result, err
	}
	result.Comments = append(result.Comments, *nav.Current())

	for nav.HasNext() {
		moved, err := nav.Navigate(ctx, comments.Next)
		if err != nil {
			var fe *comments.FetchError
			if !errors.As(err, &fe) {
				return result, err
			}
			result.Skipped = append(result.Skipped, SkippedComment{
				ID:       fe.ID,
				NotFound: fe.NotFound(),
				Error:    fe.Err.Error(),
			})
			continue
		}
		if !moved {
			break
		}
		result.Comments = append(result.Comments, *nav.Current())
	}
	return result, nil
}

func writeCommentText(w io.Writer, d comments.Detail, position string) {
	header := fmt.Sprintf("u/%s", d.Author)
	if !d.CreatedUTC.IsZero() {
		header += " · " + d.CreatedUTC.Format("2006-01-02 15:04 UTC")
	}
	if position != "" {
		header += " (" + position + ")"
	}
	_, _ = fmt.Fprintln(w, header)
	if d.ThreadTitle != "" {
		_, _ = fmt.Fprintln(w, d.ThreadTitle)
	}
	if d.URL != "" {
		_, _ = fmt.Fprintln(w, d.URL)
	}
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 40))
	_, _ = fmt.Fprintln(w, strings.TrimSpace(d.Body))
	_, _ = fmt.Fprintln(w)
}
