// Package page paints a sample document authored for a white page. It only
// talks to canvas.Surface, so the same calls can go to a bare FrameBuffer or
// through a recoloring decorator.
package page

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"sync"

	"golang.org/x/image/font"

	"sqshade/pkg/canvas"
)

// Authored colors. They are what a light-themed document would use.
var (
	Paper     = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	Ink       = color.NRGBA{0x00, 0x00, 0x00, 0xff}
	Muted     = color.NRGBA{0x55, 0x55, 0x55, 0xff}
	Heading   = color.NRGBA{0x1f, 0x4e, 0x9a, 0xff}
	Rule      = color.NRGBA{0xc0, 0x39, 0x2b, 0xff}
	Highlight = color.NRGBA{0xff, 0xf0, 0x8a, 0xff}
	Grid      = color.NRGBA{0x99, 0x99, 0x99, 0xff}
	Callout   = color.NRGBA{0xe8, 0xee, 0xf4, 0xff}
)

const margin = 48

var body = []string{
	"Pages are authored on white paper with black ink. A theme swaps the",
	"paper and ink for its own background and foreground, keeps the gray",
	"ramp in between ordered, and lifts saturated colors until they read.",
}

var table = [][]string{
	{"Input", "Rule", "Result"},
	{"black, white", "gradient ends", "foreground, background"},
	{"gray", "gradient by lightness", "ramp position"},
	{"saturated", "visibility target", "hue kept"},
	{"photo", "reduced opacity", "tinted"},
}

var headingFace = sync.OnceValue(func() font.Face { return face(22) })

func face(size float64) font.Face {
	f, err := canvas.NewFace(size)
	if err != nil {
		return canvas.DefaultFace()
	}
	return f
}

// Paint draws the sample page into area. extra, when non-nil, is placed
// below the body scaled to the text width.
func Paint(s canvas.Surface, area image.Rectangle, extra image.Image) {
	if area.Empty() {
		return
	}
	s.Save()
	defer s.Restore()
	canvas.Translate(s, float64(area.Min.X), float64(area.Min.Y))

	w := float64(area.Dx())
	textW := w - 2*margin
	if textW < 80 {
		textW = w
	}

	s.SetFillStyle(image.NewUniform(Paper))
	s.FillRect(0, 0, w, float64(area.Dy()))

	y := float64(margin)

	// a figure early on, so the text below is checked against what is
	// already painted
	formula := Formula(int(textW/2), 40)
	s.DrawImage(formula, margin, y)
	y += float64(formula.Bounds().Dy()) + 28

	base := s.Font()
	s.SetFont(headingFace())
	s.SetFillStyle(image.NewUniform(Heading))
	s.FillText("Theme-adaptive rendering", margin, y)
	s.SetFont(base)
	y += 10

	s.SetFillStyle(image.NewUniform(Rule))
	s.FillRect(margin, y, textW, 3)
	y += 28

	s.SetFillStyle(image.NewUniform(Ink))
	for _, line := range body {
		s.FillText(line, margin, y)
		y += 20
	}

	y += 6
	paintHighlight(s, margin, y)
	y += 34

	y = paintTable(s, margin, y, textW)
	y += 24

	photoH := 140.0
	photo := Photo(int(textW), int(photoH), 1)
	s.DrawImage(photo, margin, y)
	s.SetFillStyle(image.NewUniform(Ink))
	s.FillText("Caption drawn over the photograph", margin+12, y+photoH-14)
	y += photoH + 28

	s.SetFillStyle(image.NewUniform(Callout))
	s.FillRect(margin, y, textW, 44)
	s.SetStrokeStyle(image.NewUniform(Heading))
	s.SetLineWidth(2)
	s.StrokeRect(margin, y, textW, 44)
	s.SetFillStyle(image.NewUniform(Muted))
	s.FillText("Note: gray text on a pale box stays on the gray ramp.", margin+12, y+27)
	y += 44 + 28

	if extra != nil {
		paintExtra(s, extra, margin, y, textW, float64(area.Dy())-y-margin)
	}
}

func paintHighlight(s canvas.Surface, x, y float64) {
	lead := "Highlighted runs keep their "
	word := "marker color"
	tail := " under dark themes."

	s.SetFillStyle(image.NewUniform(Ink))
	s.FillText(lead, x, y)
	x += s.MeasureText(lead).Width

	m := s.MeasureText(word)
	s.SetFillStyle(image.NewUniform(Highlight))
	s.FillRect(x-2, y-m.Ascent-3, m.Width+4, m.Ascent+m.Descent+6)
	s.SetFillStyle(image.NewUniform(Ink))
	s.FillText(word, x, y)
	x += m.Width

	s.FillText(tail, x, y)
}

func paintTable(s canvas.Surface, x, y, w float64) float64 {
	const rowH = 24
	cols := len(table[0])
	colW := w / float64(cols)

	s.SetStrokeStyle(image.NewUniform(Grid))
	s.SetLineWidth(1)
	grid := canvas.NewPath()
	for r := 0; r <= len(table); r++ {
		ry := y + float64(r*rowH)
		grid.MoveTo(x, ry)
		grid.LineTo(x+w, ry)
	}
	for c := 0; c <= cols; c++ {
		cx := x + float64(c)*colW
		grid.MoveTo(cx, y)
		grid.LineTo(cx, y+float64(len(table)*rowH))
	}
	s.Stroke(grid)

	for r, row := range table {
		if r == 0 {
			s.SetFillStyle(image.NewUniform(Ink))
		} else {
			s.SetFillStyle(image.NewUniform(Muted))
		}
		for c, cell := range row {
			s.FillText(cell, x+float64(c)*colW+6, y+float64(r*rowH)+17)
		}
	}
	return y + float64(len(table)*rowH)
}

func paintExtra(s canvas.Surface, img image.Image, x, y, maxW, maxH float64) {
	b := img.Bounds()
	if b.Empty() || maxW <= 0 || maxH <= 0 {
		return
	}
	scale := math.Min(maxW/float64(b.Dx()), maxH/float64(b.Dy()))
	if scale > 1 {
		scale = 1
	}
	s.DrawImage(img, x, y, float64(b.Dx())*scale, float64(b.Dy())*scale)
}

// Formula renders a black-on-white equation with exactly two colors, the
// way typeset math usually arrives as a raster.
func Formula(w, h int) *image.NRGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	fb := canvas.NewFrameBuffer(w, h)
	fb.Clear(Paper)
	fb.SetFont(face(float64(h) * 0.55))
	fb.SetFillStyle(image.NewUniform(Ink))
	fb.FillText("f(x) = ax² + bx + c", 4, float64(h)*0.7)
	fb.FillRect(4, float64(h)-4, float64(w)/2, 2)

	// threshold the antialiasing away
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := fb.Image()
	for i := 0; i < len(src.Pix); i += 4 {
		v := uint8(0xff)
		if int(src.Pix[i])+int(src.Pix[i+1])+int(src.Pix[i+2]) < 3*0x80 {
			v = 0
		}
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = v, v, v, 0xff
	}
	return out
}

// Photo renders a deterministic landscape-like gradient with grain. It has
// far more distinct colors than any diagram.
func Photo(w, h int, seed uint64) *image.NRGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	horizon := h * 3 / 5
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			if y < horizon {
				t := float64(y) / float64(horizon)
				r, g, b = 70+90*t, 130+80*t, 200+40*t
			} else {
				t := float64(y-horizon) / float64(h-horizon)
				r, g, b = 60-30*t, 120-50*t, 50-20*t
				r += 20 * math.Sin(float64(x)/9)
			}
			n := rng.Float64()*24 - 12
			img.SetNRGBA(x, y, color.NRGBA{channel(r + n), channel(g + n), channel(b + n), 0xff})
		}
	}
	return img
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
