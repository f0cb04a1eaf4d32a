package colors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeDark(t *testing.T) {
	night, ok := Preset("night")
	require.True(t, ok)
	assert.True(t, night.Dark())

	light, ok := Preset("Light")
	require.True(t, ok)
	assert.False(t, light.Dark())
}

func TestThemeGradientEndpoints(t *testing.T) {
	theme, err := ParseTheme("#1a1a1a", "#e0e0e0")
	require.NoError(t, err)

	assert.Equal(t, theme.Background, theme.Gradient(0))
	assert.Equal(t, theme.Foreground, theme.Gradient(1))
	mid := theme.Gradient(0.5)
	assert.Greater(t, mid.Lightness(), theme.Background.Lightness())
	assert.Less(t, mid.Lightness(), theme.Foreground.Lightness())
}

func TestParseThemeErrors(t *testing.T) {
	_, err := ParseTheme("nope", "#ffffff")
	assert.True(t, errors.Is(err, ErrInvalidHex))
	assert.Contains(t, err.Error(), "background")

	_, err = ParseTheme("#000000", "#12")
	assert.True(t, errors.Is(err, ErrInvalidHex))
	assert.Contains(t, err.Error(), "foreground")
}

func TestPresetNames(t *testing.T) {
	names := PresetNames()
	assert.Equal(t, []string{"light", "night", "sepia", "solarized"}, names)
	_, ok := Preset("missing")
	assert.False(t, ok)
}
