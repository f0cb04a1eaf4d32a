package canvas

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// DrawImage draws img using the canvas argument shapes. Integer-aligned
// draws at the source size are copied directly; anything else is resampled
// with fb.Interpolator.
func (fb *FrameBuffer) DrawImage(img image.Image, args ...float64) {
	ia, ok := ParseImageArgs(img, args)
	if ok {
		ia, ok = ia.Clip(img.Bounds())
	}
	if !ok || ia.DW == 0 || ia.DH == 0 {
		return
	}
	sw, sh := float64(ia.Source.Dx()), float64(ia.Source.Dy())

	// source pixel space -> device space
	s2d := Mul(fb.cur.tf, f64.Aff3{
		ia.DW / sw, 0, ia.DX - float64(ia.Source.Min.X)*ia.DW/sw,
		0, ia.DH / sh, ia.DY - float64(ia.Source.Min.Y)*ia.DH/sh,
	})

	if s2d[0] == 1 && s2d[1] == 0 && s2d[3] == 0 && s2d[4] == 1 &&
		s2d[2] == math.Trunc(s2d[2]) && s2d[5] == math.Trunc(s2d[5]) {
		off := image.Pt(int(s2d[2]), int(s2d[5]))
		r := ia.Source.Add(off)
		fb.composite(r, img, nil, off.Mul(-1))
		return
	}

	dr := deviceBounds(s2d, ia.Source).Intersect(fb.img.Rect)
	if dr.Empty() {
		return
	}
	scratch := image.NewRGBA(dr)
	interp := fb.Interpolator
	if interp == nil {
		interp = xdraw.ApproxBiLinear
	}
	interp.Transform(scratch, s2d, img, ia.Source, xdraw.Src, nil)
	fb.composite(dr, scratch, nil, image.Point{})
}

// deviceBounds is the pixel bounding box of r mapped through m.
func deviceBounds(m f64.Aff3, r image.Rectangle) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{
		{float64(r.Min.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Min.Y)},
		{float64(r.Min.X), float64(r.Max.Y)},
		{float64(r.Max.X), float64(r.Max.Y)},
	} {
		x, y := Apply(m, p[0], p[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}
