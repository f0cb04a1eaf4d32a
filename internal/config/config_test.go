package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xdraw "golang.org/x/image/draw"

	"sqshade/pkg/blend"
	"sqshade/pkg/canvas"
	"sqshade/pkg/colors"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("shade", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultTheme, cfg.ThemeName)
	assert.Equal(t, blend.DefaultTuning(), cfg.Tuning)
	assert.Equal(t, DefaultWidth, cfg.Preview.Width)
	assert.Equal(t, DefaultHeight, cfg.Preview.Height)
	assert.Empty(t, cfg.Preview.Out)
	assert.False(t, cfg.Debug)
	assert.Equal(t, xdraw.ApproxBiLinear, cfg.Interpolator())

	theme, err := cfg.Theme()
	require.NoError(t, err)
	night, _ := colors.Preset("night")
	assert.Equal(t, night, theme)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shade.yaml")
	writeFile(t, path, `
theme:
  name: sepia
  foreground: "#202020"
tuning:
  photo-opacity: 0.6
  photo-composite: multiply
  sample-text-always: true
  figure-color-limit: 4
preview:
  width: 400
  interpolator: catmullrom
`)

	cfg, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Tuning.PhotoOpacity)
	assert.Equal(t, canvas.Multiply, cfg.Tuning.PhotoComposite)
	assert.True(t, cfg.Tuning.SampleTextAlways)
	assert.Equal(t, 4, cfg.Tuning.FigureColorLimit)
	assert.Equal(t, 400, cfg.Preview.Width)
	assert.Equal(t, DefaultHeight, cfg.Preview.Height)
	assert.Equal(t, xdraw.CatmullRom, cfg.Interpolator())

	theme, err := cfg.Theme()
	require.NoError(t, err)
	sepia, _ := colors.Preset("sepia")
	assert.Equal(t, sepia.Background, theme.Background)
	assert.Equal(t, "#202020", theme.Foreground.Hex())
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shade.toml")
	writeFile(t, path, `
[theme]
name = "solarized"

[tuning]
min-text-contrast = 40.0
`)
	cfg, err := Load(WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, "solarized", cfg.ThemeName)
	assert.Equal(t, 40.0, cfg.Tuning.MinTextContrast)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml")))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "\n  \n")
	cfg, err := Load(WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, blend.DefaultTuning(), cfg.Tuning)
}

func TestPrecedenceFileEnvFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shade.yaml")
	writeFile(t, path, `
theme:
  name: sepia
preview:
  width: 300
  height: 200
tuning:
  white-level: 190
`)
	t.Setenv("SHADE_THEME_NAME", "solarized")
	t.Setenv("SHADE_PREVIEW_WIDTH", "500")
	t.Setenv("SHADE_TUNING_WHITE_LEVEL", "220")

	fs := newFlags(t, "--config", path, "--width", "640", "--debug")
	cfg, err := Load(WithFlags(fs))
	require.NoError(t, err)

	assert.Equal(t, "solarized", cfg.ThemeName, "env beats file")
	assert.Equal(t, 220.0, cfg.Tuning.WhiteLevel, "env beats file")
	assert.Equal(t, 640, cfg.Preview.Width, "flag beats env")
	assert.Equal(t, 200, cfg.Preview.Height, "file beats default")
	assert.True(t, cfg.Debug)
}

func TestUnchangedFlagsDoNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shade.yaml")
	writeFile(t, path, "preview:\n  width: 300\n")

	cfg, err := Load(WithConfigFile(path), WithFlags(newFlags(t)))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Preview.Width)
}

func TestThemeFlags(t *testing.T) {
	fs := newFlags(t, "-t", "light", "--background", "#fafafa")
	cfg, err := Load(WithFlags(fs))
	require.NoError(t, err)

	theme, err := cfg.Theme()
	require.NoError(t, err)
	assert.Equal(t, "#fafafa", theme.Background.Hex())
	assert.Equal(t, colors.Black, theme.Foreground)
}

func TestThemeErrors(t *testing.T) {
	_, err := Config{ThemeName: "neon"}.Theme()
	assert.ErrorIs(t, err, ErrUnknownTheme)

	_, err = Config{ThemeName: "night", Background: "#12"}.Theme()
	assert.ErrorIs(t, err, colors.ErrInvalidHex)

	_, err = Config{Foreground: "zzzzzz"}.Theme()
	assert.ErrorIs(t, err, colors.ErrInvalidHex)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"opacity":      "tuning:\n  photo-opacity: 1.5\n",
		"composite":    "tuning:\n  photo-composite: screen\n",
		"limit":        "tuning:\n  page-color-limit: 0\n",
		"deviation":    "tuning:\n  neutral-deviation: 0\n",
		"levels":       "tuning:\n  black-level: 220\n  white-level: 100\n",
		"size":         "preview:\n  height: -1\n",
		"interpolator": "preview:\n  interpolator: lanczos\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "shade.yaml")
			writeFile(t, path, body)
			_, err := Load(WithConfigFile(path))
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shade.yaml")
	writeFile(t, path, "theme: [unclosed\n")
	_, err := Load(WithConfigFile(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}
