// Package components provides reusable TUI components.
package components

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
)

// Binding is one row of the help dialog: the keys and what they do.
type Binding struct {
	Keys   string
	Action string
}

// BindingGroup is a titled set of bindings, usually one per screen.
type BindingGroup struct {
	Title    string
	Bindings []Binding
}

// HelpDialog lists key bindings grouped by screen.
type HelpDialog struct {
	title  string
	groups []BindingGroup
}

// NewHelpDialog creates a help dialog.
func NewHelpDialog(title string, groups ...BindingGroup) *HelpDialog {
	return &HelpDialog{title: title, groups: groups}
}

// keyColumn is the width of the widest key label plus a gap.
func (h *HelpDialog) keyColumn() int {
	w := 0
	for _, g := range h.groups {
		for _, b := range g.Bindings {
			w = max(w, runewidth.StringWidth(b.Keys))
		}
	}
	return w + 3
}

// View renders the dialog box.
func (h *HelpDialog) View() string {
	col := h.keyColumn()

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render(h.title))
	for _, g := range h.groups {
		b.WriteString("\n\n")
		if g.Title != "" {
			b.WriteString(styles.CommandHeaderStyle.Render(g.Title))
			b.WriteByte('\n')
		}
		for i, bind := range g.Bindings {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(styles.FilterPromptStyle.Render(runewidth.FillRight(bind.Keys, col)))
			b.WriteString(styles.CommandStyle.Render(bind.Action))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(styles.ModalHelpStyle.Render("esc/? close"))

	return styles.ModalStyle.Render(b.String())
}

// Overlay renders the dialog centered over the background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	return centerOver(background, h.View(), width, height)
}

// centerOver composites box in the middle of a width x height background.
func centerOver(background, box string, width, height int) string {
	x := max((width-lipgloss.Width(box))/2, 0)
	y := max((height-lipgloss.Height(box))/2, 0)

	return lipgloss.NewCompositor(
		lipgloss.NewLayer(background),
		lipgloss.NewLayer(box).X(x).Y(y).Z(1),
	).Render()
}
