// Package canvas defines the 2D drawing surface that document renderers paint
// through, and a software implementation of it.
//
// The surface follows the HTML canvas 2D context: paints and drawing state are
// properties set before a drawing call, Save and Restore push and pop that
// state, and coordinates pass through an affine transform. Paints are
// image.Image values; an *image.Uniform is a solid color and anything else is
// treated as a pattern in device space.
//
//	fb := canvas.NewFrameBuffer(612, 792)
//	fb.SetFillStyle(image.NewUniform(color.Black))
//	fb.FillRect(72, 72, 200, 20)
//	fb.FillText("Hello", 72, 120)
//
// FrameBuffer is the CPU implementation over *image.RGBA. Anything that
// satisfies Surface, including decorators that rewrite colors on the way
// through, can stand in for it.
package canvas

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
)

// Surface is the drawing contract shared by FrameBuffer and its decorators.
type Surface interface {
	// Bounds is the pixel area of the surface, starting at (0,0).
	Bounds() image.Rectangle

	FillStyle() image.Image
	SetFillStyle(p image.Image)
	StrokeStyle() image.Image
	SetStrokeStyle(p image.Image)
	LineWidth() float64
	SetLineWidth(w float64)
	Font() font.Face
	SetFont(f font.Face)
	GlobalAlpha() float64
	SetGlobalAlpha(a float64)
	CompositeOp() CompositeOp
	SetCompositeOp(op CompositeOp)
	Transform() f64.Aff3
	SetTransform(m f64.Aff3)

	Save()
	Restore()

	Fill(p *Path)
	Stroke(p *Path)
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillText(text string, x, y float64)
	MeasureText(text string) TextMetrics

	// DrawImage takes (dx, dy), (dx, dy, dw, dh) or
	// (sx, sy, sw, sh, dx, dy, dw, dh). Source coordinates are relative to
	// img.Bounds().Min. Other argument counts draw nothing.
	DrawImage(img image.Image, args ...float64)

	// ImageData returns a copy of the pixels in r.
	ImageData(r image.Rectangle) *image.RGBA
}

// TextMetrics describes a measured string. Ascent is the distance from the
// baseline up to the top of the inked glyphs, Descent the distance down to
// their bottom; both are positive for ordinary text.
type TextMetrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// CompositeOp selects how drawn pixels combine with the surface.
type CompositeOp uint8

const (
	SourceOver CompositeOp = iota
	Copy
	Multiply
)

var compositeNames = [...]string{
	SourceOver: "source-over",
	Copy:       "copy",
	Multiply:   "multiply",
}

func (op CompositeOp) String() string {
	if int(op) < len(compositeNames) {
		return compositeNames[op]
	}
	return fmt.Sprintf("CompositeOp(%d)", op)
}

// ParseCompositeOp accepts the canvas names ("source-over", "copy", "multiply").
func ParseCompositeOp(s string) (CompositeOp, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for op, n := range compositeNames {
		if n == name {
			return CompositeOp(op), nil
		}
	}
	return SourceOver, fmt.Errorf("unknown composite operation %q", s)
}

// Identity is the identity transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Mul returns the transform that applies n first and then m.
func Mul(m, n f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

// Apply maps the point (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Translate moves the origin of s by (tx, ty) in user space.
func Translate(s Surface, tx, ty float64) {
	s.SetTransform(Mul(s.Transform(), f64.Aff3{1, 0, tx, 0, 1, ty}))
}

// Scale scales user space of s by (sx, sy).
func Scale(s Surface, sx, sy float64) {
	s.SetTransform(Mul(s.Transform(), f64.Aff3{sx, 0, 0, 0, sy, 0}))
}

// ImageArgs is the normalized form of a DrawImage argument list.
type ImageArgs struct {
	Shape  int // number of numeric arguments: 2, 4 or 8
	Source image.Rectangle
	DX, DY float64
	DW, DH float64
}

// ParseImageArgs normalizes the three DrawImage argument shapes. The source
// rectangle is in img's own coordinate space and may reach past its bounds;
// see Clip.
func ParseImageArgs(img image.Image, args []float64) (ImageArgs, bool) {
	if img == nil {
		return ImageArgs{}, false
	}
	b := img.Bounds()
	ia := ImageArgs{Shape: len(args), Source: b}
	switch len(args) {
	case 2:
		ia.DX, ia.DY = args[0], args[1]
		ia.DW, ia.DH = float64(b.Dx()), float64(b.Dy())
	case 4:
		ia.DX, ia.DY, ia.DW, ia.DH = args[0], args[1], args[2], args[3]
	case 8:
		sx, sy := int(math.Round(args[0])), int(math.Round(args[1]))
		sw, sh := int(math.Round(args[2])), int(math.Round(args[3]))
		ia.Source = image.Rect(sx, sy, sx+sw, sy+sh).Add(b.Min)
		ia.DX, ia.DY, ia.DW, ia.DH = args[4], args[5], args[6], args[7]
	default:
		return ImageArgs{}, false
	}
	for _, v := range args {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ImageArgs{}, false
		}
	}
	return ia, true
}

// Clip trims Source to bounds and shrinks the destination rectangle by the
// same proportion, so every remaining source pixel lands where it would
// have before. It reports false when no part of Source lies inside bounds.
func (ia ImageArgs) Clip(bounds image.Rectangle) (ImageArgs, bool) {
	c := ia.Source.Intersect(bounds)
	if c.Empty() {
		return ImageArgs{}, false
	}
	if c == ia.Source {
		return ia, true
	}
	sx := ia.DW / float64(ia.Source.Dx())
	sy := ia.DH / float64(ia.Source.Dy())
	ia.DX += float64(c.Min.X-ia.Source.Min.X) * sx
	ia.DY += float64(c.Min.Y-ia.Source.Min.Y) * sy
	ia.DW = float64(c.Dx()) * sx
	ia.DH = float64(c.Dy()) * sy
	ia.Source = c
	return ia, true
}

// Args rebuilds a DrawImage argument list of the same shape for an image
// whose pixels are the source region moved to the origin.
func (ia ImageArgs) Args() []float64 {
	switch ia.Shape {
	case 2:
		return []float64{ia.DX, ia.DY}
	case 4:
		return []float64{ia.DX, ia.DY, ia.DW, ia.DH}
	default:
		sw, sh := float64(ia.Source.Dx()), float64(ia.Source.Dy())
		return []float64{0, 0, sw, sh, ia.DX, ia.DY, ia.DW, ia.DH}
	}
}
