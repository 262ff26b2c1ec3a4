// Package tui implements the interactive curation browser.
package tui

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/curation"
	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
	"github.com/nmrs/sotd-pipeline-sub004/internal/curator"
	"github.com/nmrs/sotd-pipeline-sub004/internal/tui/components"
	"github.com/nmrs/sotd-pipeline-sub004/internal/tui/views/entries"
)

// Deps are the services the TUI consumes.
type Deps struct {
	App       *curator.App
	BuildInfo BuildInfo
}

// Opts select what the TUI shows on start.
type Opts struct {
	Field  curation.Field
	Months []string
}

// Model is the root Bubble Tea model.
type Model struct {
	entries   entries.View
	buildInfo BuildInfo
	help      *components.HelpDialog
	width     int
	height    int
	quitting  bool
}

// New creates the root model. ctx bounds every backend call made from the TUI.
func New(ctx context.Context, deps Deps, opts Opts) Model {
	return Model{
		entries:   entries.New(ctx, deps.App, opts.Field, opts.Months),
		buildInfo: deps.BuildInfo,
	}
}

// Init starts loading the first analysis.
func (m Model) Init() tea.Cmd {
	return m.entries.Init()
}

// Update routes messages to the entry view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.entries.SetSize(msg.Width, max(msg.Height-headerHeight, 1))
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.help != nil {
			switch msg.String() {
			case "esc", "?", "q":
				m.help = nil
			}
			return m, nil
		}
		if !m.entries.HasEditorFocus() && !m.entries.IsModalActive() {
			switch msg.String() {
			case "q":
				return m.quit()
			case "?":
				m.help = newHelpDialog()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.entries, cmd = m.entries.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.entries.Close()
	m.quitting = true
	return m, tea.Quit
}

const headerHeight = 2

// View renders the header, the entry list and any open comment.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if m.quitting {
		return ""
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	mainView := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(w), m.entries.View())
	content := m.entries.Overlay(mainView, w, h)
	if m.help != nil {
		content = m.help.Overlay(content, w, h)
	}
	return content
}

func (m Model) renderHeader(width int) string {
	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("curator"))
	b.WriteString("  ")

	for i, f := range curation.Fields {
		if i > 0 {
			b.WriteString(styles.DividerStyle.Render(" │ "))
		}
		if f == m.entries.Field() {
			b.WriteString(styles.EntrySelectedStyle.Render(string(f)))
		} else {
			b.WriteString(styles.HelpStyle.Render(string(f)))
		}
	}

	months := strings.Join(m.entries.Months(), ", ")
	if months == "" {
		months = "no months"
	}
	b.WriteString("  ")
	b.WriteString(styles.HelpStyle.Render(months))

	if m.buildInfo.Version != "" {
		b.WriteString("  ")
		b.WriteString(styles.HelpStyle.Render(m.buildInfo.Version))
	}

	line := lipgloss.NewStyle().MaxWidth(width).Render(b.String())
	return line + "\n" + styles.DividerStyle.Render(strings.Repeat("─", width))
}

func newHelpDialog() *components.HelpDialog {
	return components.NewHelpDialog("Keyboard shortcuts",
		components.BindingGroup{
			Title: "Entries",
			Bindings: []components.Binding{
				{Keys: "↑/↓ j/k", Action: "move"},
				{Keys: "enter", Action: "open comments"},
				{Keys: "/", Action: "filter"},
				{Keys: "m", Action: "mark correct"},
				{Keys: "u", Action: "mark unmatched"},
				{Keys: "v", Action: "validate"},
				{Keys: "x", Action: "remove duplicate"},
				{Keys: "tab", Action: "next field"},
				{Keys: "r", Action: "reload"},
				{Keys: "q", Action: "quit"},
			},
		},
		components.BindingGroup{
			Title: "Comments",
			Bindings: []components.Binding{
				{Keys: "←/→ h/l", Action: "previous / next comment"},
				{Keys: "↑/↓ j/k", Action: "scroll"},
				{Keys: "c", Action: "copy link"},
				{Keys: "esc", Action: "close"},
			},
		},
	)
}
