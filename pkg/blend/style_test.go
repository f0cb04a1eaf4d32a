package blend

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"sqshade/pkg/colors"
)

func night(t *testing.T) colors.Theme {
	t.Helper()
	theme, err := colors.ParseTheme("#1a1a1a", "#e0e0e0")
	if err != nil {
		t.Fatal(err)
	}
	return theme
}

func TestRecolorGrayBoundaries(t *testing.T) {
	tuning := DefaultTuning()
	themes := []colors.Theme{night(t)}
	for _, name := range colors.PresetNames() {
		th, _ := colors.Preset(name)
		themes = append(themes, th)
	}
	for _, theme := range themes {
		assert.Equal(t, theme.Foreground.Hex(), tuning.Recolor(theme, colors.Black).Hex(), theme.String())
		assert.Equal(t, theme.Background.Hex(), tuning.Recolor(theme, colors.White).Hex(), theme.String())
	}
}

func TestRecolorKeepsGrayOrdering(t *testing.T) {
	tuning := DefaultTuning()
	theme := night(t)
	prev := math.Inf(1)
	for v := 0.0; v <= 1.0; v += 0.1 {
		got := tuning.Recolor(theme, colors.FromRGB(v, v, v))
		// lighter input maps to darker output in a dark theme
		assert.Less(t, got.Lightness(), prev+1e-9)
		prev = got.Lightness()
	}
}

func TestRecolorPreservesAlpha(t *testing.T) {
	tuning := DefaultTuning()
	theme := night(t)
	for _, c := range []colors.Color{
		colors.Black.WithAlpha(0.3),
		colors.MustParseHex("#ff0000").WithAlpha(0.5),
	} {
		assert.Equal(t, c.Alpha(), tuning.Recolor(theme, c).Alpha())
	}
	light, _ := colors.Preset("light")
	red := colors.MustParseHex("#cc2200").WithAlpha(0.7)
	assert.Equal(t, red, tuning.Recolor(light, red))
}

func TestRecolorSaturatedInDarkTheme(t *testing.T) {
	tuning := DefaultTuning()
	theme := night(t)
	blue := colors.MustParseHex("#1f4e9a")
	got := tuning.Recolor(theme, blue)

	assert.InDelta(t, blue.Hue(), got.Hue(), 0.01)
	// foreground is light, so the target lightness is 25 + L*0.3
	assert.InDelta(t, 25+theme.Foreground.Lightness()*0.3, got.Lightness(), 0.5)
	assert.GreaterOrEqual(t, got.Chroma(), 20.0-0.5)
}

func TestAdjustForVisibilityMargin(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 1000; i++ {
		bg := colors.FromRGB(rng.Float64(), rng.Float64(), rng.Float64())
		c := colors.FromRGB(rng.Float64(), rng.Float64(), rng.Float64())
		got := AdjustForVisibility(bg, c)
		assert.Greater(t, got.DeltaE(bg), 9.0, "bg=%s c=%s got=%s", bg, c, got)
	}
}

func TestAdjustForVisibilityTargets(t *testing.T) {
	dark := colors.MustParseHex("#101010")
	got := AdjustForVisibility(dark, colors.MustParseHex("#00aa00"))
	assert.InDelta(t, 50+(100-dark.Lightness())*0.3, got.Lightness(), 0.5)

	light := colors.MustParseHex("#f0f0f0")
	got = AdjustForVisibility(light, colors.MustParseHex("#00aa00"))
	assert.InDelta(t, 25+light.Lightness()*0.3, got.Lightness(), 0.5)
}

func TestTextColorSwitchesWhenTooClose(t *testing.T) {
	tuning := DefaultTuning()
	theme := night(t)
	under := colors.MustParseHex("#d8e0e8")

	got := tuning.TextColor(theme, theme.Foreground, under)
	assert.Equal(t, theme.Background.Hex(), got.Hex())
	assert.GreaterOrEqual(t, math.Abs(got.Lightness()-under.Lightness()), 30.0)
}

func TestTextColorKeepsCandidate(t *testing.T) {
	tuning := DefaultTuning()
	theme := night(t)

	// on the theme background nothing changes
	assert.Equal(t, theme.Foreground, tuning.TextColor(theme, theme.Foreground, theme.Background))

	// enough contrast already
	under := colors.MustParseHex("#404040")
	assert.Equal(t, theme.Foreground, tuning.TextColor(theme, theme.Foreground, under))
}
