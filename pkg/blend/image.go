package blend

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"sqshade/pkg/canvas"
)

// DrawImage recolors monochrome-like images and tints photographs. Calls
// with an argument shape the surface does not know, or whose source
// rectangle misses the image, are passed through. Only the part of the
// source rectangle inside the image is copied.
func (b *Blender) DrawImage(img image.Image, args ...float64) {
	if b.unwrapped {
		b.surface.DrawImage(img, args...)
		return
	}
	b.images = true
	b.invalidate()
	defer b.invalidate()

	ia, ok := canvas.ParseImageArgs(img, args)
	if ok {
		ia, ok = ia.Clip(img.Bounds())
	}
	if !ok {
		b.surface.DrawImage(img, args...)
		return
	}

	page := b.surface.Bounds()
	limit := b.tuning.FigureColorLimit
	if ia.DW >= float64(page.Dx()) && ia.DH >= float64(page.Dy()) {
		limit = b.tuning.PageColorLimit
	}

	off, photo, err := b.recolorImage(img, ia.Source, limit)
	switch {
	case err != nil:
		b.logger.Warn("image recolor failed, drawing original", "err", err, "bounds", ia.Source)
		b.surface.DrawImage(img, args...)
	case photo:
		b.surface.Save()
		b.surface.SetCompositeOp(b.tuning.PhotoComposite)
		b.surface.SetGlobalAlpha(b.tuning.PhotoOpacity)
		b.surface.DrawImage(img, args...)
		b.surface.Restore()
	default:
		b.surface.DrawImage(off, ia.Args()...)
	}
}

// recolorImage copies src out of img and, unless it has more than limit
// distinct colors, swaps its neutral whites and blacks for the theme.
func (b *Blender) recolorImage(img image.Image, src image.Rectangle, limit int) (off *image.NRGBA, photo bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			off, photo, err = nil, false, fmt.Errorf("recolor %v: %v", src, r)
		}
	}()

	off = image.NewNRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	xdraw.Draw(off, off.Rect, img, src.Min, xdraw.Src)

	if countColors(off, limit) > limit {
		return nil, true, nil
	}
	b.recolorPixels(off)
	return off, false, nil
}

// countColors counts distinct RGB triples in img, stopping once the count
// passes limit.
func countColors(img *image.NRGBA, limit int) int {
	seen := make(map[uint32]struct{}, limit+1)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		key := uint32(img.Pix[i])<<16 | uint32(img.Pix[i+1])<<8 | uint32(img.Pix[i+2])
		seen[key] = struct{}{}
		if len(seen) > limit {
			break
		}
	}
	return len(seen)
}

func (b *Blender) recolorPixels(img *image.NRGBA) {
	bg := b.theme.Background.NRGBA()
	fg := b.theme.Foreground.NRGBA()
	dev := b.tuning.NeutralDeviation
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r, g, bl := int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2])
		if !neutral(r, g, bl, dev) {
			continue
		}
		avg := float64(r+g+bl) / 3
		switch {
		case avg > b.tuning.WhiteLevel:
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = bg.R, bg.G, bg.B
		case avg < b.tuning.BlackLevel:
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = fg.R, fg.G, fg.B
		}
	}
}

func neutral(r, g, b, dev int) bool {
	return abs(r-g) < dev && abs(r-b) < dev && abs(g-b) < dev
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
