package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/comments"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
)

const (
	iconDot             = "•"
	commentModalMaxW    = 100
	commentModalMaxH    = 32
	commentModalMargin  = 4
	commentModalChrome  = 10
	commentModalPadding = 4
)

// copyFunc writes text to the system clipboard.
type copyFunc func(string) error

// commentNavigatedMsg carries the result of a Navigate call run off the
// update loop.
type commentNavigatedMsg struct {
	nav   *comments.Navigator
	moved bool
	err   error
}

// CommentModal presents one navigator session: the comment under the cursor
// rendered as markdown, its metadata and the position within the entry.
type CommentModal struct {
	nav        *comments.Navigator
	entryLabel string
	viewport   viewport.Model
	spinner    spinner.Model
	copy       copyFunc

	renderedID string
	width      int
	height     int
	errText    string
	copyStatus string
}

// NewCommentModal wraps an opened navigator.
func NewCommentModal(nav *comments.Navigator, entryLabel string, width, height int) CommentModal {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)

	m := CommentModal{
		nav:        nav,
		entryLabel: entryLabel,
		spinner:    s,
		copy:       clipboard.WriteAll,
	}
	m.SetSize(width, height)
	return m
}

// SetSize resizes the modal and re-renders the current comment.
func (m *CommentModal) SetSize(width, height int) {
	m.width = width
	m.height = height

	modalW, modalH := m.dimensions()
	m.viewport = viewport.New(
		viewport.WithWidth(modalW-commentModalPadding),
		viewport.WithHeight(max(modalH-commentModalChrome, 3)),
	)
	m.renderedID = ""
	m.Refresh()
}

func (m CommentModal) dimensions() (int, int) {
	w := max(min(m.width-commentModalMargin, commentModalMaxW), 20)
	h := max(min(m.height-commentModalMargin, commentModalMaxH), commentModalChrome+3)
	return w, h
}

// Navigator returns the session the modal presents.
func (m *CommentModal) Navigator() *comments.Navigator {
	return m.nav
}

// Refresh re-renders the body when the comment under the cursor changed.
func (m *CommentModal) Refresh() {
	current := m.nav.Current()
	if current == nil {
		m.renderedID = ""
		m.viewport.SetContent("")
		return
	}
	if current.ID == m.renderedID {
		return
	}

	modalW, _ := m.dimensions()
	m.viewport.SetContent(renderMarkdown(current.Body, modalW-commentModalPadding))
	m.viewport.GotoTop()
	m.renderedID = current.ID
}

// Previous moves back synchronously; backward moves never fetch.
func (m *CommentModal) Previous() {
	m.errText = ""
	m.copyStatus = ""
	if _, err := m.nav.Navigate(context.Background(), comments.Previous); err != nil {
		m.errText = err.Error()
	}
	m.Refresh()
}

// Next returns a command that advances the navigator, fetching if needed.
// It returns nil while a fetch is already in flight or nothing is ahead.
func (m *CommentModal) Next(ctx context.Context) tea.Cmd {
	state := m.nav.Snapshot()
	if state.Loading || !state.HasNext() {
		return nil
	}
	m.errText = ""
	m.copyStatus = ""

	nav := m.nav
	navigate := func() tea.Msg {
		moved, err := nav.Navigate(ctx, comments.Next)
		return commentNavigatedMsg{nav: nav, moved: moved, err: err}
	}

	// Only a move past the loaded window fetches and needs the spinner.
	if state.Cursor < state.Loaded-1 {
		return navigate
	}
	return tea.Batch(navigate, m.spinner.Tick)
}

// HandleNavigated applies a navigation result. Results for another session
// or for a closed one are dropped.
func (m *CommentModal) HandleNavigated(msg commentNavigatedMsg) {
	if msg.nav != m.nav || errors.Is(msg.err, comments.ErrSessionClosed) {
		return
	}
	if msg.err != nil {
		m.errText = describeFetchError(msg.err) + ", skipped"
	}
	m.Refresh()
}

// UpdateSpinner advances the spinner while a fetch is running.
func (m *CommentModal) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	if !m.nav.IsLoading() {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// Close ends the navigator session.
func (m *CommentModal) Close() {
	m.nav.Close()
}

// ScrollUp scrolls the viewport up.
func (m *CommentModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (m *CommentModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// UpdateViewport forwards paging keys to the viewport.
func (m *CommentModal) UpdateViewport(msg tea.Msg) {
	m.viewport, _ = m.viewport.Update(msg)
}

// CopyLink copies the permalink of the current comment.
func (m *CommentModal) CopyLink() {
	current := m.nav.Current()
	if current == nil || current.URL == "" {
		m.copyStatus = "No link to copy"
		return
	}
	if err := m.copy(current.URL); err != nil {
		m.copyStatus = "Copy failed: " + err.Error()
		return
	}
	m.copyStatus = "Copied link!"
}

// ErrorText is the message of the last failed fetch, if any.
func (m CommentModal) ErrorText() string {
	return m.errText
}

func describeFetchError(err error) string {
	var fe *comments.FetchError
	if errors.As(err, &fe) {
		if fe.NotFound() {
			return fmt.Sprintf("Comment %s not found", fe.ID)
		}
		return fmt.Sprintf("Could not load comment %s: %v", fe.ID, fe.Err)
	}
	return err.Error()
}

// Overlay renders the modal centered over the background.
func (m CommentModal) Overlay(background string, width, height int) string {
	modalW, modalH := m.dimensions()
	state := m.nav.Snapshot()

	title := "Comment"
	if pos := state.Position(); pos != "" {
		title += " " + styles.CommentPositionStyle.Render(pos)
	}
	if state.Loading {
		title += " " + m.spinner.View()
	}
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		title += styles.CommentScrollStyle.Render(fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100))
	}

	var meta []string
	if m.entryLabel != "" {
		meta = append(meta, styles.CommentThreadStyle.Render(ansi.Truncate(m.entryLabel, modalW-commentModalPadding, "…")))
	}
	if c := state.Current; c != nil {
		line := styles.CommentAuthorStyle.Render("u/" + c.Author)
		if !c.CreatedUTC.IsZero() {
			line += " " + iconDot + " " + styles.CommentTimeStyle.Render(c.CreatedUTC.Format("2006-01-02 15:04 UTC"))
		}
		meta = append(meta, line)
		if c.ThreadTitle != "" {
			meta = append(meta, styles.CommentThreadStyle.Render(ansi.Truncate(c.ThreadTitle, modalW-commentModalPadding, "…")))
		}
		if c.URL != "" {
			meta = append(meta, styles.CommentURLStyle.Render(ansi.Truncate(c.URL, modalW-commentModalPadding, "…")))
		}
	}

	footer := m.helpLine(state)
	switch {
	case m.copyStatus != "":
		footer = styles.CommentCopiedStyle.Render(m.copyStatus)
	case m.errText != "":
		footer = styles.ErrorTextStyle.Render(m.errText)
	}

	divider := styles.CommentDividerStyle.Render(strings.Repeat("─", max(modalW-commentModalPadding-2, 1)))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		strings.Join(meta, "\n"),
		divider,
		m.viewport.View(),
		styles.ModalHelpStyle.Render(footer),
	)

	modal := styles.ModalStyle.
		Width(modalW).
		Height(modalH).
		Render(content)

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	x := (width - lipgloss.Width(modal)) / 2
	y := (height - lipgloss.Height(modal)) / 2
	modalLayer.X(max(x, 0)).Y(max(y, 0)).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}

func (m CommentModal) helpLine(state comments.State) string {
	prev := styles.CommentNavOffStyle.Render(styles.IconArrowLeft + "/h prev")
	if state.HasPrevious() {
		prev = styles.CommentNavOnStyle.Render(styles.IconArrowLeft + "/h prev")
	}
	next := styles.CommentNavOffStyle.Render("next " + styles.IconArrowRight + "/l")
	if state.HasNext() && !state.Loading {
		next = styles.CommentNavOnStyle.Render("next " + styles.IconArrowRight + "/l")
	}
	return prev + "  " + next + "  " + styles.HelpStyle.Render("↑/↓ scroll  c copy link  esc close")
}

// renderMarkdown renders a reddit comment body for the terminal. Reddit
// escapes a few markdown characters as HTML entities; those are undone first.
func renderMarkdown(body string, width int) string {
	body = htmlEntities.Replace(body)

	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return body
	}

	rendered, err := renderer.Render(body)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return body
	}

	return trimDecorative(strings.TrimSpace(rendered))
}

var htmlEntities = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&#x200B;", "")

func isDecorativeLine(line string) bool {
	stripped := strings.TrimSpace(ansi.Strip(line))
	for _, r := range stripped {
		if r != '─' && r != '━' && r != '-' && r != '=' {
			return false
		}
	}
	return true
}

// trimDecorative drops blank and rule-only lines around the rendered body.
func trimDecorative(content string) string {
	lines := strings.Split(content, "\n")
	start, end := 0, len(lines)
	for start < end && isDecorativeLine(lines[start]) {
		start++
	}
	for end > start && isDecorativeLine(lines[end-1]) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
