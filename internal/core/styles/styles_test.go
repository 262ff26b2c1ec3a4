package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames_Sorted(t *testing.T) {
	names := ThemeNames()
	require.NotEmpty(t, names)
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestUseTheme(t *testing.T) {
	t.Cleanup(func() { UseTheme(DefaultTheme) })

	assert.True(t, UseTheme("gruvbox"))
	assert.Equal(t, themes["gruvbox"].Primary, ColorPrimary)

	assert.False(t, UseTheme("no-such-theme"))
	assert.Equal(t, themes[DefaultTheme].Primary, ColorPrimary)
}

func TestColorForString_Deterministic(t *testing.T) {
	a := ColorForString("regex")
	b := ColorForString("regex")
	assert.Equal(t, a, b)
	assert.Contains(t, ColorPool, a)
}

func TestGlamourStyle_UsesPalette(t *testing.T) {
	t.Cleanup(func() { UseTheme(DefaultTheme) })

	UseTheme("tokyo-night")
	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, "#c0caf5", *cfg.Document.Color)

	UseTheme("solarized-light")
	assert.True(t, isLight(CurrentPalette))
	cfg = GlamourStyle()
	require.NotNil(t, cfg.Link.Color)
	assert.Equal(t, "#2aa198", *cfg.Link.Color)
}
