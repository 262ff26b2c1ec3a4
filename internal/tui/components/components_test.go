package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestHelpDialog_View(t *testing.T) {
	h := NewHelpDialog("Keys",
		BindingGroup{Title: "List", Bindings: []Binding{{Keys: "enter", Action: "open comments"}}},
		BindingGroup{Title: "Comment", Bindings: []Binding{{Keys: "h/l", Action: "previous / next"}}},
	)

	out := ansi.Strip(h.View())
	assert.Contains(t, out, "Keys")
	assert.Contains(t, out, "List")
	assert.Contains(t, out, "enter   open comments")
	assert.Contains(t, out, "h/l     previous / next")
	assert.Contains(t, out, "esc/? close")
}

func TestHelpDialog_OverlayKeepsBackground(t *testing.T) {
	h := NewHelpDialog("Keys")
	bg := "background line"
	for range 20 {
		bg += "\n"
	}

	out := ansi.Strip(h.Overlay(bg, 80, 21))
	assert.Contains(t, out, "background line")
	assert.Contains(t, out, "Keys")
}

func TestConfirmModal(t *testing.T) {
	tests := []struct {
		key       tea.KeyPressMsg
		confirmed bool
		cancelled bool
	}{
		{tea.KeyPressMsg{Text: "y", Code: 'y'}, true, false},
		{tea.KeyPressMsg{Code: tea.KeyEnter}, true, false},
		{tea.KeyPressMsg{Text: "n", Code: 'n'}, false, true},
		{tea.KeyPressMsg{Code: tea.KeyEscape}, false, true},
		{tea.KeyPressMsg{Text: "x", Code: 'x'}, false, false},
	}
	for _, tt := range tests {
		m := NewConfirmModal("Remove duplicate", "Remove \"tech\"?")
		m, _ = m.Update(tt.key)
		assert.Equal(t, tt.confirmed, m.Confirmed(), tt.key.String())
		assert.Equal(t, tt.cancelled, m.Cancelled(), tt.key.String())
		assert.Equal(t, tt.confirmed || tt.cancelled, m.Done())
	}
}

func TestConfirmModal_View(t *testing.T) {
	m := NewConfirmModal("Remove duplicate", "Remove \"tech\"?")
	out := ansi.Strip(m.View())
	assert.Contains(t, out, "Remove duplicate")
	assert.Contains(t, out, "Remove \"tech\"?")
	assert.Contains(t, out, "y confirm")
}
