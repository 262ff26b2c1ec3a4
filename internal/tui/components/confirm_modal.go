package components

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/nmrs/sotd-pipeline-sub004/internal/core/styles"
)

type answer int

const (
	unanswered answer = iota
	answeredYes
	answeredNo
)

// ConfirmModal asks a yes/no question. It is a value type; Update returns the
// answered copy.
type ConfirmModal struct {
	title   string
	message string
	answer  answer
}

func NewConfirmModal(title, message string) ConfirmModal {
	return ConfirmModal{title: title, message: message}
}

// Update records an answer from y/enter or n/esc/q. Other input is ignored.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		m.answer = answeredYes
	case "n", "N", "esc", "q":
		m.answer = answeredNo
	}
	return m, nil
}

func (m ConfirmModal) View() string {
	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		m.message,
		styles.ModalHelpStyle.Render("y confirm • n cancel"),
	))
}

// Overlay draws the dialog centered on top of background.
func (m ConfirmModal) Overlay(background string, width, height int) string {
	return centerOver(background, m.View(), width, height)
}

func (m ConfirmModal) Confirmed() bool { return m.answer == answeredYes }
func (m ConfirmModal) Cancelled() bool { return m.answer == answeredNo }
func (m ConfirmModal) Done() bool      { return m.answer != unanswered }
