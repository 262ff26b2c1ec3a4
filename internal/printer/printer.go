// Package printer writes styled, human-oriented CLI output. Machine-readable
// output goes through pkg/iojson instead.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines to a writer, usually stderr.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext attaches p to ctx.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer attached to ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Successf writes a line prefixed with a check mark.
func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.SuccessTextStyle.Render("✔"), format, args...)
}

// Infof writes a line prefixed with an info marker.
func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.CommandHeaderStyle.Render("•"), format, args...)
}

// Warnf writes a line prefixed with a warning marker.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.WarningTextStyle.Render("●"), format, args...)
}

// Errorf writes a line prefixed with a cross.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorTextStyle.Render("✘"), format, args...)
}

// Section writes a bold title followed by a divider.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.w, styles.CommandHeaderStyle.Render(title))
	_, _ = fmt.Fprintln(p.w, styles.DividerStyle.Render(strings.Repeat("─", 40)))
}

func (p *Printer) line(icon, format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}
