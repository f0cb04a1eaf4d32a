package canvas

import (
	"image"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the size in pixels of DefaultFace.
const DefaultFontSize = 13

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// DefaultFace is the Go Regular face at DefaultFontSize, or basicfont's 7x13
// face if the embedded font cannot be parsed.
var DefaultFace = sync.OnceValue(func() font.Face {
	face, err := NewFace(DefaultFontSize)
	if err != nil {
		return basicfont.Face7x13
	}
	return face
})

// NewFace returns Go Regular at the given pixel size. It is safe to call
// from several goroutines.
func NewFace(size float64) (font.Face, error) {
	f, err := goRegular()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// MeasureText reports the advance width and the inked extent of text.
func (fb *FrameBuffer) MeasureText(text string) TextMetrics {
	return measure(fb.cur.face, text)
}

func measure(face font.Face, text string) TextMetrics {
	if face == nil || text == "" {
		return TextMetrics{}
	}
	bounds, adv := font.BoundString(face, text)
	return TextMetrics{
		Width:   fixedToFloat(adv),
		Ascent:  -fixedToFloat(bounds.Min.Y),
		Descent: fixedToFloat(bounds.Max.Y),
	}
}

// FillText draws text with its baseline origin at (x, y). Only the
// translation part of the transform moves glyphs; they are not scaled.
func (fb *FrameBuffer) FillText(text string, x, y float64) {
	if text == "" || fb.cur.face == nil {
		return
	}
	dx, dy := Apply(fb.cur.tf, x, y)
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return
	}
	dot := fixed.Point26_6{X: floatToFixed(dx), Y: floatToFixed(dy)}
	bounds, _ := font.BoundString(fb.cur.face, text)
	r := image.Rect(
		(dot.X+bounds.Min.X).Floor(), (dot.Y+bounds.Min.Y).Floor(),
		(dot.X+bounds.Max.X).Ceil(), (dot.Y+bounds.Max.Y).Ceil(),
	).Intersect(fb.img.Rect)
	if r.Empty() {
		return
	}

	mask := image.NewAlpha(r)
	d := font.Drawer{Dst: mask, Src: image.Opaque, Face: fb.cur.face, Dot: dot}
	d.DrawString(text)
	fb.composite(r, fb.cur.fill, mask, image.Point{})
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
