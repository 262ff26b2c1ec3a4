// Package entries implements the TUI view that lists analysis entries for a
// field and opens the comments behind them.
package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog/log"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/comments"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/internal/tui/components"
)

type analysisLoadedMsg struct {
	field    curation.Field
	analysis curation.Analysis
	err      error
}

type commentOpenedMsg struct {
	nav   *comments.Navigator
	label string
	err   error
}

type correctionDoneMsg struct {
	correction curation.Correction
	result     curation.CorrectionResult
	err        error
}

// View is the Bubble Tea sub-model for the entry list.
type View struct {
	ctx    context.Context
	app    *curator.App
	ctrl   *Controller
	field  curation.Field
	months []string

	modal   *CommentModal
	opening *comments.Navigator
	confirm *components.ConfirmModal
	spinner spinner.Model
	copy    copyFunc

	loading   bool
	summary   string
	status    string
	statusErr bool
	width     int
	height    int
}

// New creates an entries View for field over months.
func New(ctx context.Context, app *curator.App, field curation.Field, months []string) View {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)

	return View{
		ctx:     ctx,
		app:     app,
		ctrl:    NewController(),
		field:   field,
		months:  months,
		spinner: s,
		loading: true,
		status:  fmt.Sprintf("Analyzing %s…", field),
	}
}

// Init loads the analysis for the current field.
func (v View) Init() tea.Cmd {
	return tea.Batch(loadAnalysis(v.ctx, v.app, v.field, v.months), v.spinner.Tick)
}

// Update handles messages for the entry view.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisLoadedMsg:
		return v.handleAnalysisLoaded(msg)
	case commentOpenedMsg:
		return v.handleCommentOpened(msg)
	case commentNavigatedMsg:
		if v.modal != nil {
			v.modal.HandleNavigated(msg)
		}
		return v, nil
	case correctionDoneMsg:
		return v.handleCorrectionDone(msg)
	case spinner.TickMsg:
		return v.handleSpinnerTick(msg)
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

// View renders the entry list.
func (v View) View() string {
	return v.renderList()
}

// Field returns the field being reviewed.
func (v View) Field() curation.Field {
	return v.field
}

// Months returns the month scope.
func (v View) Months() []string {
	return v.months
}

// HasEditorFocus returns true if the filter input is active.
func (v View) HasEditorFocus() bool {
	return v.ctrl.IsFiltering()
}

// IsModalActive returns true when a comment is open or opening, or a
// confirmation is pending.
func (v View) IsModalActive() bool {
	return v.modal != nil || v.opening != nil || v.confirm != nil
}

// SetSize updates the view dimensions.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.ctrl.SetSize(v.visibleLines())
	if v.modal != nil {
		v.modal.SetSize(width, height)
	}
}

// Overlay renders the comment modal over the given background, if open.
func (v View) Overlay(background string, width, height int) string {
	switch {
	case v.confirm != nil:
		return v.confirm.Overlay(background, width, height)
	case v.modal != nil:
		return v.modal.Overlay(background, width, height)
	default:
		return background
	}
}

// Close ends any open comment session.
func (v *View) Close() {
	if v.opening != nil {
		v.opening.Close()
		v.opening = nil
	}
	if v.modal != nil {
		v.modal.Close()
		v.modal = nil
	}
}

func (v *View) reload() tea.Cmd {
	v.loading = true
	v.setStatus(fmt.Sprintf("Analyzing %s…", v.field), false)
	return tea.Batch(loadAnalysis(v.ctx, v.app, v.field, v.months), v.spinner.Tick)
}

func loadAnalysis(ctx context.Context, app *curator.App, field curation.Field, months []string) tea.Cmd {
	return func() tea.Msg {
		analysis, err := app.Analyzer.Analyze(ctx, app.DefaultRequest(field, months))
		return analysisLoadedMsg{field: field, analysis: analysis, err: err}
	}
}

func (v View) handleAnalysisLoaded(msg analysisLoadedMsg) (View, tea.Cmd) {
	if msg.field != v.field {
		return v, nil
	}
	v.loading = false

	if msg.err != nil {
		log.Debug().Err(msg.err).Str("field", string(msg.field)).Msg("failed to load analysis")
		v.setStatus("Analysis failed: "+msg.err.Error(), true)
		return v, nil
	}

	v.ctrl.SetEntries(msg.analysis.Items)
	v.ctrl.SetSize(v.visibleLines())
	v.summary = fmt.Sprintf("%d mismatches of %d matches", msg.analysis.TotalMismatches, msg.analysis.TotalMatches)
	v.setStatus("", false)
	return v, nil
}

func (v View) handleCommentOpened(msg commentOpenedMsg) (View, tea.Cmd) {
	if msg.nav != v.opening {
		return v, nil
	}
	v.opening = nil

	if msg.err != nil {
		if !errors.Is(msg.err, comments.ErrSessionClosed) {
			v.setStatus(describeFetchError(msg.err), true)
		}
		return v, nil
	}

	v.setStatus("", false)
	modal := NewCommentModal(msg.nav, msg.label, v.width, v.height)
	if v.copy != nil {
		modal.copy = v.copy
	}
	v.modal = &modal
	return v, nil
}

func (v View) handleCorrectionDone(msg correctionDoneMsg) (View, tea.Cmd) {
	c := msg.correction
	if msg.err != nil {
		v.setStatus(msg.err.Error(), true)
		return v, nil
	}
	v.ctrl.Apply(c.Original, c.Action)
	v.setStatus(fmt.Sprintf("%s %q %s", c.Field, c.Original, c.Action.Label()), false)
	return v, nil
}

func (v View) handleSpinnerTick(msg spinner.TickMsg) (View, tea.Cmd) {
	if v.modal != nil {
		return v, v.modal.UpdateSpinner(msg)
	}
	if !v.loading && v.opening == nil {
		return v, nil
	}
	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(msg)
	return v, cmd
}

func (v View) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	if v.confirm != nil {
		return v.handleConfirmKey(msg)
	}
	if v.modal != nil {
		return v.handleModalKey(msg)
	}
	if v.opening != nil {
		if msg.String() == "esc" {
			v.opening.Close()
			v.opening = nil
			v.setStatus("", false)
		}
		return v, nil
	}
	if v.ctrl.IsFiltering() {
		return v.handleFilterKey(msg)
	}
	return v.handleNormalKey(msg)
}

func (v View) handleConfirmKey(msg tea.KeyMsg) (View, tea.Cmd) {
	confirm, _ := v.confirm.Update(msg)
	switch {
	case confirm.Confirmed():
		v.confirm = nil
		return v.correctSelected(curation.ActionRemoveDuplicate)
	case confirm.Cancelled():
		v.confirm = nil
	default:
		v.confirm = &confirm
	}
	return v, nil
}

func (v View) handleModalKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		v.modal.Close()
		v.modal = nil
		return v, nil
	case "left", "h":
		if !v.modal.Navigator().IsLoading() {
			v.modal.Previous()
		}
		return v, nil
	case "right", "l":
		return v, v.modal.Next(v.ctx)
	case "up", "k":
		v.modal.ScrollUp()
		return v, nil
	case "down", "j":
		v.modal.ScrollDown()
		return v, nil
	case "c", "y":
		v.modal.CopyLink()
		return v, nil
	default:
		v.modal.UpdateViewport(msg)
		return v, nil
	}
}

func (v View) handleFilterKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.ctrl.CancelFilter()
	case "enter":
		v.ctrl.ConfirmFilter()
	case "backspace":
		v.ctrl.DeleteFilterRune()
	default:
		if text := msg.Key().Text; text != "" {
			for _, r := range text {
				v.ctrl.AddFilterRune(r)
			}
		}
	}
	v.ctrl.SetSize(v.visibleLines())
	return v, nil
}

func (v View) handleNormalKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.ctrl.MoveUp(v.visibleLines())
	case "down", "j":
		v.ctrl.MoveDown(v.visibleLines())
	case "/":
		v.ctrl.StartFilter()
	case "esc":
		if v.ctrl.Filter() != "" {
			v.ctrl.CancelFilter()
		}
	case "enter":
		return v.openSelected()
	case "tab":
		v.field = v.field.Next()
		v.ctrl.SetEntries(nil)
		v.summary = ""
		return v, v.reload()
	case "r":
		if v.loading {
			return v, nil
		}
		return v, v.reload()
	case "m":
		return v.correctSelected(curation.ActionMarkCorrect)
	case "u":
		return v.correctSelected(curation.ActionMarkUnmatched)
	case "v":
		return v.correctSelected(curation.ActionValidate)
	case "x":
		if sel := v.ctrl.Selected(); sel != nil {
			confirm := components.NewConfirmModal(
				"Remove duplicate",
				fmt.Sprintf("Remove %q from the %s catalog?", sel.Original, v.field),
			)
			v.confirm = &confirm
		}
	}
	return v, nil
}

func (v View) openSelected() (View, tea.Cmd) {
	sel := v.ctrl.Selected()
	if sel == nil {
		return v, nil
	}
	if !sel.HasComments() {
		v.setStatus("No comments for this entry", true)
		return v, nil
	}

	nav := v.app.NewNavigator(v.months)
	v.opening = nav
	v.setStatus("Loading comment…", false)

	ctx := v.ctx
	label := sel.Original
	first := sel.CommentIDs[0]
	all := append([]string(nil), sel.CommentIDs...)
	open := func() tea.Msg {
		err := nav.Open(ctx, first, all)
		return commentOpenedMsg{nav: nav, label: label, err: err}
	}
	return v, tea.Batch(open, v.spinner.Tick)
}

func (v View) correctSelected(action curation.Action) (View, tea.Cmd) {
	sel := v.ctrl.Selected()
	if sel == nil {
		return v, nil
	}

	c := curation.CorrectionFromEntry(action, v.field, sel, v.months)
	v.setStatus(fmt.Sprintf("Submitting %s…", action), false)

	ctx, svc := v.ctx, v.app.Curation
	return v, func() tea.Msg {
		res, err := svc.Submit(ctx, c)
		return correctionDoneMsg{correction: c, result: res, err: err}
	}
}

func (v *View) setStatus(s string, isErr bool) {
	v.status = s
	v.statusErr = isErr
}

func (v View) visibleLines() int {
	// column header, status line, help line
	reserved := 3
	if v.ctrl.IsFiltering() || v.ctrl.Filter() != "" {
		reserved++
	}
	return max(v.height-reserved, 1)
}

const (
	countWidth = 5
	typeWidth  = 10
	markWidth  = 2
)

func (v View) columnWidths() (int, int) {
	rest := max(v.width-countWidth-typeWidth-markWidth-6, 30)
	originalW := rest * 45 / 100
	return originalW, rest - originalW
}

func (v View) renderList() string {
	var b strings.Builder

	if v.ctrl.IsFiltering() {
		b.WriteString(" ")
		b.WriteString(styles.FilterPromptStyle.Render("Filter: "))
		b.WriteString(v.ctrl.Filter())
		b.WriteString("▎\n")
	} else if v.ctrl.Filter() != "" {
		b.WriteString(" ")
		b.WriteString(styles.HelpStyle.Render("Filter: " + v.ctrl.Filter()))
		b.WriteString("\n")
	}

	originalW, matchedW := v.columnWidths()
	header := fmt.Sprintf("%*s %s %s %s %*s",
		markWidth, "",
		runewidth.FillRight("Original", originalW),
		runewidth.FillRight("Matched", matchedW),
		runewidth.FillRight("Type", typeWidth),
		countWidth, "Count",
	)
	b.WriteString(styles.HeaderStyle.Render(header))
	b.WriteString("\n")

	visible := v.visibleLines()
	rendered := 0
	entries := v.ctrl.Visible()

	switch {
	case v.loading && v.ctrl.Len() == 0:
		b.WriteString("  " + v.spinner.View() + " " + styles.HelpStyle.Render("Loading entries"))
		b.WriteString("\n")
		rendered = 1
	case len(entries) == 0:
		msg := "  No entries"
		if v.ctrl.Len() > 0 {
			msg = "  No matching entries"
		}
		b.WriteString(styles.HelpStyle.Render(msg))
		b.WriteString("\n")
		rendered = 1
	default:
		offset := v.ctrl.Offset()
		end := min(offset+visible, len(entries))
		cursor := v.ctrl.Cursor()
		for i := offset; i < end; i++ {
			b.WriteString(renderEntryLine(entries[i], i == cursor, originalW, matchedW))
			b.WriteString("\n")
			rendered++
		}
	}

	for i := rendered; i < visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString(v.renderStatus())
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ navigate • enter comments • / filter • m correct • u unmatched • v validate • x duplicate • tab field • r reload"))

	return b.String()
}

func (v View) renderStatus() string {
	status := v.status
	if v.opening != nil {
		status = v.spinner.View() + " " + status
	}
	switch {
	case v.status == "":
		return styles.StatusBarStyle.Render(v.summary)
	case v.statusErr:
		return styles.ErrorTextStyle.Render(status)
	default:
		return styles.StatusBarStyle.Render(status)
	}
}

func renderEntryLine(e *curation.Entry, selected bool, originalW, matchedW int) string {
	var b strings.Builder

	if selected {
		b.WriteString(styles.EntrySelectedStyle.Render("┃"))
	} else {
		b.WriteString(" ")
	}
	if e.IsConfirmed {
		b.WriteString(styles.ConfirmedBadgeStyle.Render(styles.IconConfirmed))
	} else {
		b.WriteString(" ")
	}
	b.WriteString(" ")

	original := runewidth.FillRight(runewidth.Truncate(e.Original, originalW, "…"), originalW)
	if selected {
		b.WriteString(styles.EntrySelectedStyle.Render(original))
	} else {
		b.WriteString(styles.EntryNormalStyle.Render(original))
	}
	b.WriteString(" ")

	matched := runewidth.FillRight(runewidth.Truncate(e.MatchedLabel(), matchedW, "…"), matchedW)
	b.WriteString(styles.EntryMatchedStyle.Render(matched))
	b.WriteString(" ")

	matchType := e.MatchType
	if matchType == "" {
		matchType = e.MismatchType
	}
	typeCell := runewidth.FillRight(runewidth.Truncate(matchType, typeWidth, "…"), typeWidth)
	if matchType != "" {
		typeCell = lipgloss.NewStyle().Foreground(styles.ColorForString(matchType)).Render(typeCell)
	}
	b.WriteString(typeCell)
	b.WriteString(" ")

	b.WriteString(styles.EntryCountStyle.Render(fmt.Sprintf("%*d", countWidth, e.Count)))
	return b.String()
}
