// Package colors implements the perceptual color model used for theme recoloring.
//
// A Color is an immutable value carrying sRGB channels in [0,1], the matching
// CIE Lab coordinates (D65 white point) and an alpha value. Lab lightness runs
// from 0 (black) to 100 (white); a and b use the usual CIE scale, so chroma and
// DeltaE come out in the units the recoloring thresholds are written in.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned when a hex color string cannot be parsed.
var ErrInvalidHex = errors.New("invalid hex color")

var (
	Black = FromRGB(0, 0, 0)
	White = FromRGB(1, 1, 1)
)

// Color is an immutable RGB color with its Lab view and alpha.
// The zero Color is transparent black.
type Color struct {
	rgb     colorful.Color
	l, a, b float64
	alpha   float64
}

func fromColorful(c colorful.Color, alpha float64) Color {
	c = c.Clamped()
	l, a, b := c.Lab()
	return Color{rgb: c, l: l * 100, a: a * 100, b: b * 100, alpha: clamp01(alpha)}
}

// FromRGB builds an opaque color from channels in [0,1]. Out-of-range
// channels are clamped.
func FromRGB(r, g, b float64) Color {
	return fromColorful(colorful.Color{R: r, G: g, B: b}, 1)
}

// FromLab builds an opaque color from CIE Lab coordinates. Coordinates
// outside the sRGB gamut are clamped channel-wise.
func FromLab(l, a, b float64) Color {
	return fromColorful(colorful.Lab(l/100, a/100, b/100), 1)
}

// FromLCh builds an opaque color from lightness, chroma and hue angle
// (radians, as returned by Hue). When the requested chroma falls outside
// sRGB the chroma is reduced until it fits, so lightness and hue survive.
func FromLCh(l, c, h float64) Color {
	l = math.Max(0, math.Min(100, l))
	at := func(c float64) colorful.Color {
		return colorful.Lab(l/100, c*math.Cos(h)/100, c*math.Sin(h)/100)
	}
	col := at(c)
	if !inGamut(col) {
		lo, hi := 0.0, c
		for i := 0; i < 32; i++ {
			mid := (lo + hi) / 2
			if inGamut(at(mid)) {
				lo = mid
			} else {
				hi = mid
			}
		}
		col = at(lo)
	}
	return fromColorful(col, 1)
}

// FromColor converts any image/color value, undoing alpha premultiplication.
func FromColor(c color.Color) Color {
	switch v := c.(type) {
	case Color:
		return v
	case nil:
		return Color{}
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return fromColorful(colorful.Color{
		R: float64(n.R) / 0xffff,
		G: float64(n.G) / 0xffff,
		B: float64(n.B) / 0xffff,
	}, float64(n.A)/0xffff)
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	alpha := 1.0
	switch len(hex) {
	case 3, 6:
	case 8:
		v, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
		alpha = float64(v) / 255
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidHex, s, err)
	}
	return fromColorful(c, alpha), nil
}

// MustParseHex is ParseHex for package-level literals. It panics on bad input.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) RGB() (r, g, b float64) { return c.rgb.R, c.rgb.G, c.rgb.B }
func (c Color) Lab() (l, a, b float64) { return c.l, c.a, c.b }
func (c Color) Alpha() float64         { return c.alpha }
func (c Color) Lightness() float64     { return c.l }

// Chroma is the colorfulness sqrt(a²+b²); near zero means gray.
func (c Color) Chroma() float64 { return math.Hypot(c.a, c.b) }

// Hue is the Lab hue angle in radians, 0 for achromatic colors.
func (c Color) Hue() float64 {
	if c.Chroma() == 0 {
		return 0
	}
	return math.Atan2(c.b, c.a)
}

// DeltaE is the CIE76 color difference (Euclidean distance in Lab).
func (c Color) DeltaE(o Color) float64 {
	dl, da, db := c.l-o.l, c.a-o.a, c.b-o.b
	return math.Sqrt(dl*dl + da*da + db*db)
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(alpha float64) Color {
	c.alpha = clamp01(alpha)
	return c
}

// Range returns a gradient from c (t=0) to o (t=1) that interpolates L, a and b
// independently. The endpoints are returned exactly and carry their own alpha;
// intermediate colors take the alpha of c.
func (c Color) Range(o Color) func(t float64) Color {
	return func(t float64) Color {
		switch {
		case t <= 0:
			return c
		case t >= 1:
			return o
		}
		mix := FromLab(c.l+(o.l-c.l)*t, c.a+(o.a-c.a)*t, c.b+(o.b-c.b)*t)
		return mix.WithAlpha(c.alpha)
	}
}

// Hex formats the RGB channels as "#rrggbb".
func (c Color) Hex() string { return c.rgb.Hex() }

// HexAlpha formats the color as "#rrggbb", or "#rrggbbaa" when alpha < 1.
func (c Color) HexAlpha(alpha float64) string {
	if alpha >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("%s%02x", c.Hex(), uint8(clamp01(alpha)*255+0.5))
}

func (c Color) String() string { return c.HexAlpha(c.alpha) }

// NRGBA quantizes c to 8 bits per channel.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.rgb.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(c.alpha*255 + 0.5)}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func inGamut(c colorful.Color) bool {
	const eps = 1e-9
	return c.R >= -eps && c.R <= 1+eps &&
		c.G >= -eps && c.G <= 1+eps &&
		c.B >= -eps && c.B <= 1+eps
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
