// Package styles holds the lipgloss styles shared by the CLI output and the TUI.
// Every style is derived from the active Palette and rebuilt by SetTheme.
package styles

import (
	"hash/fnv"
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette is the palette the styles were last built from.
var CurrentPalette Palette

// ColorPrimary is the accent color of the active palette, used for spinners.
var ColorPrimary color.Color

// CLI output.
var (
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	ErrorTextStyle     lipgloss.Style
	SuccessTextStyle   lipgloss.Style
	WarningTextStyle   lipgloss.Style
	MutedTextStyle     lipgloss.Style
)

// Entry list.
var (
	HeaderStyle         lipgloss.Style
	EntrySelectedStyle  lipgloss.Style
	EntryNormalStyle    lipgloss.Style
	EntryCountStyle     lipgloss.Style
	EntryMatchedStyle   lipgloss.Style
	ConfirmedBadgeStyle lipgloss.Style
	StatusBarStyle      lipgloss.Style
	HelpStyle           lipgloss.Style
	FilterPromptStyle   lipgloss.Style
)

// Dialogs.
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style
)

// Comment modal.
var (
	CommentAuthorStyle   lipgloss.Style
	CommentTimeStyle     lipgloss.Style
	CommentThreadStyle   lipgloss.Style
	CommentURLStyle      lipgloss.Style
	CommentDividerStyle  lipgloss.Style
	CommentScrollStyle   lipgloss.Style
	CommentCopiedStyle   lipgloss.Style
	CommentPositionStyle lipgloss.Style
	CommentNavOnStyle    lipgloss.Style
	CommentNavOffStyle   lipgloss.Style
)

// ColorPool is the set ColorForString picks from.
var ColorPool []color.Color

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c color.Color) lipgloss.Style {
	return fg(c).Bold(true)
}

// SetTheme makes p the active palette and rebuilds every style from it.
func SetTheme(p Palette) {
	CurrentPalette = p
	ColorPrimary = p.Primary

	CommandHeaderStyle = bold(p.Primary)
	CommandStyle = fg(p.Foreground)
	DividerStyle = fg(p.Muted)
	ErrorTextStyle = fg(p.Error)
	SuccessTextStyle = fg(p.Success)
	WarningTextStyle = fg(p.Warning)
	MutedTextStyle = fg(p.Muted)

	HeaderStyle = bold(p.Primary).PaddingLeft(1)
	EntrySelectedStyle = bold(p.Primary).Background(p.Surface)
	EntryNormalStyle = fg(p.Foreground)
	EntryCountStyle = fg(p.Muted)
	EntryMatchedStyle = fg(p.Secondary)
	ConfirmedBadgeStyle = fg(p.Success)
	StatusBarStyle = fg(p.Muted).PaddingLeft(1)
	HelpStyle = fg(p.Muted)
	FilterPromptStyle = bold(p.Warning)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	ModalTitleStyle = bold(p.Foreground)
	ModalHelpStyle = fg(p.Muted).MarginTop(1)

	CommentAuthorStyle = bold(p.Success)
	CommentTimeStyle = fg(p.Muted)
	CommentThreadStyle = fg(p.Primary)
	CommentURLStyle = fg(p.Secondary).Underline(true)
	CommentDividerStyle = fg(p.Surface)
	CommentScrollStyle = fg(p.Muted)
	CommentCopiedStyle = fg(p.Success)
	CommentPositionStyle = bold(p.Warning)
	CommentNavOnStyle = fg(p.Primary)
	CommentNavOffStyle = fg(p.Surface)

	ColorPool = []color.Color{p.Primary, p.Secondary, p.Success, p.Warning, p.Error}
}

// ColorForString maps s to a member of ColorPool. Equal strings get equal colors.
func ColorForString(s string) color.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return ColorPool[h.Sum32()%uint32(len(ColorPool))]
}

// nolint:gochecknoinits // styles must be usable before any theme is chosen.
func init() {
	SetTheme(themes[DefaultTheme])
}
