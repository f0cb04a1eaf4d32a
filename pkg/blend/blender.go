// Package blend recolors drawing calls on the fly so that pages authored for
// a light background read correctly under any theme.
//
// A Blender decorates a canvas.Surface. Solid paints are swapped for theme
// colors as they are set, text is checked against the pixels it lands on, and
// images are either recolored pixel by pixel (diagrams, scanned pages) or
// tinted with reduced opacity (photographs). The renderer keeps issuing the
// same calls it would issue against the bare surface:
//
//	fb := canvas.NewFrameBuffer(w, h)
//	b := blend.New(fb, theme)
//	renderPage(b)
//	b.Unwrap()
//
// A Blender is not safe for concurrent use; it belongs to one surface and one
// render pass.
package blend

import (
	"image"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"

	"sqshade/pkg/canvas"
	"sqshade/pkg/colors"
)

type paints struct {
	fill   image.Image
	stroke image.Image
}

// Blender is a canvas.Surface that recolors everything drawn through it.
type Blender struct {
	surface canvas.Surface
	theme   colors.Theme
	tuning  Tuning
	logger  *log.Logger

	styles *styleCache
	sample *image.RGBA
	images bool

	// authored paints as set by the caller, mirrored across Save/Restore
	authored paints
	saved    []paints

	unwrapped bool
}

var _ canvas.Surface = (*Blender)(nil)

type Option func(*Blender)

func WithTuning(t Tuning) Option {
	return func(b *Blender) { b.tuning = t }
}

// WithLogger routes diagnostics to l. By default they are discarded.
func WithLogger(l *log.Logger) Option {
	return func(b *Blender) {
		if l != nil {
			b.logger = l
		}
	}
}

// New wraps surface. The surface's current fill and stroke paints are
// recolored immediately.
func New(surface canvas.Surface, theme colors.Theme, opts ...Option) *Blender {
	b := &Blender{
		surface: surface,
		theme:   theme,
		tuning:  DefaultTuning(),
		logger:  log.New(io.Discard),
		styles:  newStyleCache(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.authored = paints{fill: surface.FillStyle(), stroke: surface.StrokeStyle()}
	surface.SetFillStyle(b.substitute(b.authored.fill))
	surface.SetStrokeStyle(b.substitute(b.authored.stroke))
	return b
}

func (b *Blender) Theme() colors.Theme { return b.theme }

func (b *Blender) Tuning() Tuning { return b.tuning }

// Unwrap turns the Blender into a plain pass-through, puts the authored
// paints back on the underlying surface, drops every cached value and
// returns the underlying surface. Save levels still open on the surface are
// rebuilt with their authored paints, so a later Restore does not bring a
// theme color back.
func (b *Blender) Unwrap() canvas.Surface {
	if !b.unwrapped {
		b.unwindSaved()
		b.surface.SetFillStyle(b.authored.fill)
		b.surface.SetStrokeStyle(b.authored.stroke)
		b.unwrapped = true
		b.ClearCache()
		b.images = false
		b.saved = nil
		b.logger.Debug("blender unwrapped")
	}
	return b.surface
}

// surfaceState is everything Save pushes, read through the Surface getters.
type surfaceState struct {
	paints
	lineWidth float64
	face      font.Face
	alpha     float64
	op        canvas.CompositeOp
	tf        f64.Aff3
}

func (b *Blender) snapshot() surfaceState {
	s := b.surface
	return surfaceState{
		paints:    paints{fill: s.FillStyle(), stroke: s.StrokeStyle()},
		lineWidth: s.LineWidth(),
		face:      s.Font(),
		alpha:     s.GlobalAlpha(),
		op:        s.CompositeOp(),
		tf:        s.Transform(),
	}
}

func (b *Blender) apply(st surfaceState) {
	s := b.surface
	s.SetFillStyle(st.fill)
	s.SetStrokeStyle(st.stroke)
	s.SetLineWidth(st.lineWidth)
	s.SetFont(st.face)
	s.SetGlobalAlpha(st.alpha)
	s.SetCompositeOp(st.op)
	s.SetTransform(st.tf)
}

// unwindSaved pops every level pushed through the Blender and pushes it
// again with the recolored paints swapped for the authored ones. The current
// state is left as it was.
func (b *Blender) unwindSaved() {
	n := len(b.saved)
	if n == 0 {
		return
	}
	top := b.snapshot()
	levels := make([]surfaceState, n)
	for i := n - 1; i >= 0; i-- {
		b.surface.Restore()
		levels[i] = b.snapshot()
	}
	for i, st := range levels {
		st.paints = b.saved[i]
		b.apply(st)
		b.surface.Save()
	}
	b.apply(top)
}

// Unwrapped reports whether Unwrap has been called.
func (b *Blender) Unwrapped() bool { return b.unwrapped }

// ClearCache drops memoized substitutes and the pixel sample.
func (b *Blender) ClearCache() {
	b.styles.clear()
	b.sample = nil
}

func (b *Blender) CacheStats() CacheStats { return b.styles.stats() }

// substitute recolors solid paints and passes patterns through.
func (b *Blender) substitute(p image.Image) image.Image {
	u, ok := p.(*image.Uniform)
	if !ok {
		return p
	}
	return image.NewUniform(b.paintColor(colors.FromColor(u.C)).NRGBA())
}

func (b *Blender) paintColor(c colors.Color) colors.Color {
	sub := b.styles.get(styleKey{color: c.Hex()}, func() colors.Color {
		return b.tuning.Recolor(b.theme, c.WithAlpha(1))
	})
	return sub.WithAlpha(c.Alpha())
}

func (b *Blender) invalidate() { b.sample = nil }

func (b *Blender) Bounds() image.Rectangle { return b.surface.Bounds() }

// FillStyle returns the effective (recolored) fill paint.
func (b *Blender) FillStyle() image.Image { return b.surface.FillStyle() }

func (b *Blender) SetFillStyle(p image.Image) {
	if b.unwrapped {
		b.surface.SetFillStyle(p)
		return
	}
	if p == nil {
		return
	}
	b.authored.fill = p
	b.surface.SetFillStyle(b.substitute(p))
}

// StrokeStyle returns the effective (recolored) stroke paint.
func (b *Blender) StrokeStyle() image.Image { return b.surface.StrokeStyle() }

func (b *Blender) SetStrokeStyle(p image.Image) {
	if b.unwrapped {
		b.surface.SetStrokeStyle(p)
		return
	}
	if p == nil {
		return
	}
	b.authored.stroke = p
	b.surface.SetStrokeStyle(b.substitute(p))
}

func (b *Blender) LineWidth() float64                   { return b.surface.LineWidth() }
func (b *Blender) SetLineWidth(w float64)               { b.surface.SetLineWidth(w) }
func (b *Blender) Font() font.Face                      { return b.surface.Font() }
func (b *Blender) SetFont(f font.Face)                  { b.surface.SetFont(f) }
func (b *Blender) GlobalAlpha() float64                 { return b.surface.GlobalAlpha() }
func (b *Blender) SetGlobalAlpha(a float64)             { b.surface.SetGlobalAlpha(a) }
func (b *Blender) CompositeOp() canvas.CompositeOp      { return b.surface.CompositeOp() }
func (b *Blender) SetCompositeOp(op canvas.CompositeOp) { b.surface.SetCompositeOp(op) }
func (b *Blender) Transform() f64.Aff3                  { return b.surface.Transform() }
func (b *Blender) SetTransform(m f64.Aff3)              { b.surface.SetTransform(m) }

func (b *Blender) MeasureText(text string) canvas.TextMetrics {
	return b.surface.MeasureText(text)
}

func (b *Blender) ImageData(r image.Rectangle) *image.RGBA {
	return b.surface.ImageData(r)
}

func (b *Blender) Save() {
	if !b.unwrapped {
		b.saved = append(b.saved, b.authored)
	}
	b.surface.Save()
}

func (b *Blender) Restore() {
	if !b.unwrapped && len(b.saved) > 0 {
		b.authored = b.saved[len(b.saved)-1]
		b.saved = b.saved[:len(b.saved)-1]
	}
	b.surface.Restore()
}

func (b *Blender) Fill(p *canvas.Path) {
	b.surface.Fill(p)
	b.invalidate()
}

func (b *Blender) Stroke(p *canvas.Path) {
	b.surface.Stroke(p)
	b.invalidate()
}

func (b *Blender) FillRect(x, y, w, h float64) {
	b.surface.FillRect(x, y, w, h)
	b.invalidate()
}

func (b *Blender) StrokeRect(x, y, w, h float64) {
	b.surface.StrokeRect(x, y, w, h)
	b.invalidate()
}
