package colors

import (
	"errors"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		want := color.NRGBA{R: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), B: uint8(rng.IntN(256)), A: uint8(rng.IntN(256))}
		hex := hexOf(want)
		c, err := ParseHex(hex)
		require.NoError(t, err, hex)

		alpha := float64(want.A) / 255
		assert.InDelta(t, alpha, c.Alpha(), 1e-12)
		if want.A == 255 {
			assert.Equal(t, hex[:7], c.HexAlpha(c.Alpha()))
		} else {
			assert.Equal(t, hex, c.HexAlpha(c.Alpha()))
		}
		got := c.NRGBA()
		assert.Equal(t, want.R, got.R)
		assert.Equal(t, want.G, got.G)
		assert.Equal(t, want.B, got.B)
	}
}

// hexOf formats an 8-bit color as #rrggbbaa for table generation.
func hexOf(c color.NRGBA) string {
	const digits = "0123456789abcdef"
	out := []byte{'#'}
	for _, v := range []uint8{c.R, c.G, c.B, c.A} {
		out = append(out, digits[v>>4], digits[v&0xf])
	}
	return string(out)
}

func TestParseHexForms(t *testing.T) {
	short, err := ParseHex("#fff")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", short.Hex())

	bare, err := ParseHex("1A1A1A")
	require.NoError(t, err)
	assert.Equal(t, "#1a1a1a", bare.Hex())
	assert.Equal(t, 1.0, bare.Alpha())

	for _, bad := range []string{"", "#12", "#12345", "#gggggg", "#1234567", "#123456zz"} {
		_, err := ParseHex(bad)
		assert.True(t, errors.Is(err, ErrInvalidHex), "expected ErrInvalidHex for %q, got %v", bad, err)
	}
}

func TestLabRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 500; i++ {
		c := FromRGB(rng.Float64(), rng.Float64(), rng.Float64())
		back := FromLab(c.Lab())
		r1, g1, b1 := c.RGB()
		r2, g2, b2 := back.RGB()
		assert.InDelta(t, r1, r2, 1e-6)
		assert.InDelta(t, g1, g2, 1e-6)
		assert.InDelta(t, b1, b2, 1e-6)
	}
}

func TestLightnessAndChroma(t *testing.T) {
	assert.InDelta(t, 0, Black.Lightness(), 1e-6)
	assert.InDelta(t, 100, White.Lightness(), 1e-3)
	assert.InDelta(t, 0, White.Chroma(), 1e-3)
	assert.InDelta(t, 0, MustParseHex("#808080").Chroma(), 1e-3)
	assert.Greater(t, MustParseHex("#ff0000").Chroma(), 50.0)
	assert.InDelta(t, 100, Black.DeltaE(White), 1e-3)
	assert.Zero(t, White.DeltaE(White))
}

func TestRangeEndpointsAreExact(t *testing.T) {
	bg := MustParseHex("#1a1a1a")
	fg := MustParseHex("#e0e0e0").WithAlpha(0.5)
	g := bg.Range(fg)

	assert.Equal(t, bg, g(0))
	assert.Equal(t, fg, g(1))
	assert.Equal(t, bg, g(-3))
	assert.Equal(t, fg, g(7))

	mid := g(0.5)
	assert.InDelta(t, (bg.Lightness()+fg.Lightness())/2, mid.Lightness(), 1e-6)
	assert.Equal(t, bg.Alpha(), mid.Alpha())
}

func TestRangeKeepsGraysGray(t *testing.T) {
	g := Black.Range(White)
	prev := -1.0
	for i := 0; i <= 10; i++ {
		c := g(float64(i) / 10)
		assert.Less(t, c.Chroma(), 1e-3)
		assert.Greater(t, c.Lightness(), prev)
		prev = c.Lightness()
	}
}

func TestFromLChPreservesHueAndLightness(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 200; i++ {
		l := 20 + rng.Float64()*60
		h := rng.Float64()*2*math.Pi - math.Pi
		c := FromLCh(l, 150, h)

		r, g, b := c.RGB()
		for _, ch := range []float64{r, g, b} {
			assert.GreaterOrEqual(t, ch, 0.0)
			assert.LessOrEqual(t, ch, 1.0)
		}
		assert.InDelta(t, l, c.Lightness(), 0.05)
		if c.Chroma() > 5 {
			dh := math.Remainder(c.Hue()-h, 2*math.Pi)
			assert.InDelta(t, 0, dh, 0.01)
		}
	}
}

func TestFromColorUnpremultiplies(t *testing.T) {
	c := FromColor(color.RGBA{R: 0x40, G: 0x20, B: 0x00, A: 0x80})
	assert.InDelta(t, 0x80/255.0, c.Alpha(), 1e-9)
	got := c.NRGBA()
	assert.InDelta(t, 0x80, int(got.R), 1)
	assert.InDelta(t, 0x40, int(got.G), 1)
	assert.Equal(t, uint8(0), got.B)

	same := MustParseHex("#123456")
	assert.Equal(t, same, FromColor(same))
}

func TestWithAlphaLeavesChannelsAlone(t *testing.T) {
	c := MustParseHex("#336699")
	d := c.WithAlpha(0.25)
	assert.Equal(t, c.Hex(), d.Hex())
	assert.Equal(t, 0.25, d.Alpha())
	assert.Equal(t, "#33669940", d.String())
}
