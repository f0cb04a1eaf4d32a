package canvas

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

type state struct {
	fill      image.Image
	stroke    image.Image
	lineWidth float64
	face      font.Face
	alpha     float64
	op        CompositeOp
	tf        f64.Aff3
}

// FrameBuffer is a software Surface backed by an *image.RGBA.
type FrameBuffer struct {
	W int
	H int

	// Interpolator resamples images drawn at a size other than their own.
	Interpolator xdraw.Interpolator

	img   *image.RGBA
	cur   state
	stack []state
	z     *vector.Rasterizer
}

var _ Surface = (*FrameBuffer)(nil)

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{
		W:            w,
		H:            h,
		Interpolator: xdraw.ApproxBiLinear,
		img:          image.NewRGBA(image.Rect(0, 0, w, h)),
		cur:          defaultState(),
	}
}

func defaultState() state {
	return state{
		fill:      image.NewUniform(color.Black),
		stroke:    image.NewUniform(color.Black),
		lineWidth: 1,
		face:      DefaultFace(),
		alpha:     1,
		op:        SourceOver,
		tf:        Identity,
	}
}

// Image exposes the backing image. Writes to it bypass the drawing state.
func (fb *FrameBuffer) Image() *image.RGBA { return fb.img }

// Pixels is the RGBA byte slice, laid out like image.RGBA.Pix.
func (fb *FrameBuffer) Pixels() []uint8 { return fb.img.Pix }

// Clear overwrites every pixel with c, ignoring transform, alpha and clip.
func (fb *FrameBuffer) Clear(c color.Color) {
	xdraw.Draw(fb.img, fb.img.Rect, image.NewUniform(c), image.Point{}, xdraw.Src)
}

func (fb *FrameBuffer) Bounds() image.Rectangle { return fb.img.Rect }

func (fb *FrameBuffer) FillStyle() image.Image { return fb.cur.fill }

func (fb *FrameBuffer) SetFillStyle(p image.Image) {
	if p != nil {
		fb.cur.fill = p
	}
}

func (fb *FrameBuffer) StrokeStyle() image.Image { return fb.cur.stroke }

func (fb *FrameBuffer) SetStrokeStyle(p image.Image) {
	if p != nil {
		fb.cur.stroke = p
	}
}

func (fb *FrameBuffer) LineWidth() float64 { return fb.cur.lineWidth }

func (fb *FrameBuffer) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) {
		fb.cur.lineWidth = w
	}
}

func (fb *FrameBuffer) Font() font.Face { return fb.cur.face }

func (fb *FrameBuffer) SetFont(f font.Face) {
	if f != nil {
		fb.cur.face = f
	}
}

func (fb *FrameBuffer) GlobalAlpha() float64 { return fb.cur.alpha }

func (fb *FrameBuffer) SetGlobalAlpha(a float64) {
	if a >= 0 && a <= 1 {
		fb.cur.alpha = a
	}
}

func (fb *FrameBuffer) CompositeOp() CompositeOp { return fb.cur.op }

func (fb *FrameBuffer) SetCompositeOp(op CompositeOp) {
	if int(op) < len(compositeNames) {
		fb.cur.op = op
	}
}

func (fb *FrameBuffer) Transform() f64.Aff3 { return fb.cur.tf }

func (fb *FrameBuffer) SetTransform(m f64.Aff3) { fb.cur.tf = m }

func (fb *FrameBuffer) Save() {
	fb.stack = append(fb.stack, fb.cur)
}

// Restore pops the last saved state. Unbalanced calls are ignored.
func (fb *FrameBuffer) Restore() {
	if len(fb.stack) == 0 {
		return
	}
	fb.cur = fb.stack[len(fb.stack)-1]
	fb.stack = fb.stack[:len(fb.stack)-1]
}

func (fb *FrameBuffer) Fill(p *Path) {
	if p.Empty() {
		return
	}
	z := fb.rasterizer()
	p.rasterize(z, fb.cur.tf)
	fb.paintRasterizer(z, fb.cur.fill)
}

func (fb *FrameBuffer) Stroke(p *Path) {
	if p.Empty() {
		return
	}
	lines, _ := p.polylines(fb.cur.tf)
	if len(lines) == 0 {
		return
	}
	z := fb.rasterizer()
	strokeOutline(z, lines, fb.cur.lineWidth*fb.transformScale())
	fb.paintRasterizer(z, fb.cur.stroke)
}

func (fb *FrameBuffer) FillRect(x, y, w, h float64) {
	if w == 0 || h == 0 {
		return
	}
	if r, ok := fb.deviceRect(x, y, w, h); ok {
		fb.composite(r, fb.cur.fill, nil, image.Point{})
		return
	}
	p := NewPath()
	p.Rect(x, y, w, h)
	fb.Fill(p)
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h float64) {
	p := NewPath()
	p.Rect(x, y, w, h)
	fb.Stroke(p)
}

// ImageData copies the pixels in r. Pixels outside the surface are
// transparent black.
func (fb *FrameBuffer) ImageData(r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(r)
	xdraw.Draw(out, r, fb.img, r.Min, xdraw.Src)
	return out
}

// deviceRect maps a user-space rectangle to whole device pixels when the
// transform is axis aligned and the corners land on pixel boundaries.
func (fb *FrameBuffer) deviceRect(x, y, w, h float64) (image.Rectangle, bool) {
	m := fb.cur.tf
	if m[1] != 0 || m[3] != 0 {
		return image.Rectangle{}, false
	}
	x0, y0 := Apply(m, x, y)
	x1, y1 := Apply(m, x+w, y+h)
	if x0 != math.Trunc(x0) || y0 != math.Trunc(y0) || x1 != math.Trunc(x1) || y1 != math.Trunc(y1) {
		return image.Rectangle{}, false
	}
	return image.Rect(int(x0), int(y0), int(x1), int(y1)).Intersect(fb.img.Rect), true
}

// transformScale is the factor by which the transform grows lengths on average.
func (fb *FrameBuffer) transformScale() float64 {
	m := fb.cur.tf
	return math.Sqrt(math.Abs(m[0]*m[4] - m[1]*m[3]))
}

func (fb *FrameBuffer) rasterizer() *vector.Rasterizer {
	if fb.z == nil {
		fb.z = vector.NewRasterizer(fb.W, fb.H)
	} else {
		fb.z.Reset(fb.W, fb.H)
	}
	fb.z.DrawOp = xdraw.Src
	return fb.z
}

func (fb *FrameBuffer) paintRasterizer(z *vector.Rasterizer, paint image.Image) {
	mask := image.NewAlpha(fb.img.Rect)
	z.Draw(mask, mask.Rect, image.Opaque, image.Point{})
	fb.composite(fb.img.Rect, paint, mask, image.Point{})
}

// composite blends paint into r through an optional coverage mask, honoring
// global alpha and the composite operation. The paint is sampled at
// device coordinates offset by sp.
func (fb *FrameBuffer) composite(r image.Rectangle, paint image.Image, mask *image.Alpha, sp image.Point) {
	r = r.Intersect(fb.img.Rect)
	if r.Empty() || paint == nil {
		return
	}
	ga := fb.cur.alpha
	if ga <= 0 {
		return
	}
	var m image.Image
	switch {
	case mask != nil && ga < 1:
		scaled := image.NewAlpha(r)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				scaled.SetAlpha(x, y, color.Alpha{A: uint8(float64(mask.AlphaAt(x, y).A)*ga + 0.5)})
			}
		}
		m = scaled
	case mask != nil:
		m = mask
	case ga < 1:
		m = image.NewUniform(color.Alpha{A: uint8(ga*255 + 0.5)})
	}

	switch fb.cur.op {
	case Copy:
		if m == nil {
			xdraw.Draw(fb.img, r, paint, r.Min.Add(sp), xdraw.Src)
		} else {
			xdraw.DrawMask(fb.img, r, paint, r.Min.Add(sp), m, r.Min, xdraw.Src)
		}
	case Multiply:
		fb.multiply(r, paint, m, sp)
	default:
		if m == nil {
			xdraw.Draw(fb.img, r, paint, r.Min.Add(sp), xdraw.Over)
		} else {
			xdraw.DrawMask(fb.img, r, paint, r.Min.Add(sp), m, r.Min, xdraw.Over)
		}
	}
}

// multiply darkens the destination by the paint color, weighted by the
// paint alpha and the mask coverage.
func (fb *FrameBuffer) multiply(r image.Rectangle, paint image.Image, mask image.Image, sp image.Point) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cov := 1.0
			if mask != nil {
				_, _, _, ma := mask.At(x, y).RGBA()
				cov = float64(ma) / 0xffff
			}
			src := color.NRGBAModel.Convert(paint.At(x+sp.X, y+sp.Y)).(color.NRGBA)
			w := cov * float64(src.A) / 255
			if w == 0 {
				continue
			}
			i := fb.img.PixOffset(x, y)
			px := fb.img.Pix[i : i+4 : i+4]
			for c, s := range [3]uint8{src.R, src.G, src.B} {
				d := float64(px[c])
				prod := d * float64(s) / 255
				px[c] = uint8(d + (prod-d)*w + 0.5)
			}
			px[3] = uint8(float64(px[3]) + (255-float64(px[3]))*w + 0.5)
		}
	}
}
