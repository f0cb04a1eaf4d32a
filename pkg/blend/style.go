package blend

import (
	"math"

	"sqshade/pkg/colors"
)

// Recolor maps a paint color authored for a light page onto theme.
// Grays slide along the theme gradient (black to foreground, white to
// background); saturated colors keep their hue and, in dark themes, are
// moved to a lightness that stays visible. Alpha is preserved.
func (t Tuning) Recolor(theme colors.Theme, c colors.Color) colors.Color {
	if c.Chroma() > t.ChromaThreshold {
		if theme.Dark() {
			return t.AdjustForVisibility(theme.Foreground, c).WithAlpha(c.Alpha())
		}
		return c
	}
	return theme.Gradient(1 - c.Lightness()/colors.White.Lightness()).WithAlpha(c.Alpha())
}

// AdjustForVisibility keeps the hue of c and picks a lightness and chroma
// that stand out against background.
func (t Tuning) AdjustForVisibility(background, c colors.Color) colors.Color {
	bgL := background.Lightness()
	var targetL float64
	if bgL < 50 {
		targetL = 50 + (100-bgL)*0.3
	} else {
		targetL = 25 + bgL*0.3
	}
	targetC := math.Max(c.Chroma()*t.VisibilityChromaGain, t.VisibilityMinChroma)
	return colors.FromLCh(targetL, targetC, c.Hue())
}

// AdjustForVisibility applies the default tuning.
func AdjustForVisibility(background, c colors.Color) colors.Color {
	return DefaultTuning().AdjustForVisibility(background, c)
}

// TextColor picks the color for a glyph whose recolored paint is candidate
// and which lands on the sampled pixel under. When under is a painted
// region (not the theme background) and too close in lightness, the most
// distant of candidate, theme background and theme foreground wins.
func (t Tuning) TextColor(theme colors.Theme, candidate, under colors.Color) colors.Color {
	diff := func(c colors.Color) float64 {
		return math.Abs(c.Lightness() - under.Lightness())
	}
	if theme.Background.DeltaE(under) <= t.BackgroundDeltaE || diff(candidate) >= t.MinTextContrast {
		return candidate
	}
	best := candidate
	for _, c := range []colors.Color{theme.Background, theme.Foreground} {
		if diff(c) > diff(best) {
			best = c
		}
	}
	return best.WithAlpha(candidate.Alpha())
}
