package styles

import (
	"image/color"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// hexTheme lists palette colors in Palette field order.
type hexTheme [9]string

func (h hexTheme) palette() Palette {
	c := func(i int) color.Color { return lipgloss.Color(h[i]) }
	return Palette{
		Primary:    c(0),
		Secondary:  c(1),
		Foreground: c(2),
		Muted:      c(3),
		Background: c(4),
		Surface:    c(5),
		Success:    c(6),
		Warning:    c(7),
		Error:      c(8),
	}
}

var themes = func() map[string]Palette {
	defs := map[string]hexTheme{
		//                  primary    secondary  fg         muted      bg         surface    success    warning    error
		"tokyo-night":     {"#7aa2f7", "#7dcfff", "#c0caf5", "#565f89", "#1a1b26", "#3b4261", "#9ece6a", "#e0af68", "#f7768e"},
		"gruvbox":         {"#83a598", "#8ec07c", "#ebdbb2", "#665c54", "#282828", "#3c3836", "#b8bb26", "#fabd2f", "#fb4934"},
		"catppuccin":      {"#89b4fa", "#94e2d5", "#cdd6f4", "#6c7086", "#1e1e2e", "#313244", "#a6e3a1", "#f9e2af", "#f38ba8"},
		"nord":            {"#88c0d0", "#81a1c1", "#eceff4", "#616e88", "#2e3440", "#3b4252", "#a3be8c", "#ebcb8b", "#bf616a"},
		"solarized-light": {"#268bd2", "#2aa198", "#586e75", "#93a1a1", "#fdf6e3", "#eee8d5", "#859900", "#b58900", "#dc322f"},
	}
	out := make(map[string]Palette, len(defs))
	for name, def := range defs {
		out[name] = def.palette()
	}
	return out
}()

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// UseTheme activates the named theme. Unknown names fall back to DefaultTheme
// and report false.
func UseTheme(name string) bool {
	p, ok := GetPalette(name)
	if !ok {
		p = themes[DefaultTheme]
	}
	SetTheme(p)
	return ok
}

func hexOf(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	s := cc.Hex()
	return &s
}

// isLight reports whether the palette background is a light color.
func isLight(p Palette) bool {
	cc, ok := colorful.MakeColor(p.Background)
	if !ok {
		return false
	}
	_, _, l := cc.Hcl()
	return l > 0.6
}

// GlamourStyle derives a markdown style for comment bodies from the active
// palette. Quotes are muted and links use the secondary color.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	if isLight(CurrentPalette) {
		cfg = glamourstyles.LightStyleConfig
	}

	p := CurrentPalette
	text, accent, link, dim := hexOf(p.Foreground), hexOf(p.Primary), hexOf(p.Secondary), hexOf(p.Muted)

	for _, b := range []*glamouransi.StyleBlock{&cfg.Document, &cfg.Paragraph, &cfg.Table.StyleBlock} {
		b.Color = text
	}
	for _, b := range []*glamouransi.StyleBlock{&cfg.Heading, &cfg.H1, &cfg.H2, &cfg.H3} {
		b.Color = accent
	}
	cfg.H1.BackgroundColor = nil

	cfg.BlockQuote.Color = dim
	cfg.HorizontalRule.Color = dim
	cfg.CodeBlock.Color = dim

	cfg.Link.Color = link
	cfg.LinkText.Color = link
	cfg.Code.Color = link

	return cfg
}
