package blend

import (
	"image"
	"math"

	"sqshade/pkg/canvas"
	"sqshade/pkg/colors"
)

// FillText draws text in a color that stays legible against whatever is
// already painted under the glyphs. The adjusted color applies to this call
// only.
func (b *Blender) FillText(text string, x, y float64) {
	if b.unwrapped {
		b.surface.FillText(text, x, y)
		return
	}
	u, ok := b.authored.fill.(*image.Uniform)
	if !ok || !(b.images || b.tuning.SampleTextAlways) {
		b.surface.FillText(text, x, y)
		return
	}

	authored := colors.FromColor(u.C)
	under := b.sampleUnder(text, x, y)
	c := b.textColor(authored, under)

	b.surface.Save()
	b.surface.SetFillStyle(image.NewUniform(c.NRGBA()))
	b.surface.FillText(text, x, y)
	b.surface.Restore()
}

func (b *Blender) textColor(authored, under colors.Color) colors.Color {
	key := styleKey{color: authored.Hex(), background: under.Hex()}
	sub := b.styles.get(key, func() colors.Color {
		candidate := b.paintColor(authored.WithAlpha(1))
		return b.tuning.TextColor(b.theme, candidate, under)
	})
	return sub.WithAlpha(authored.Alpha())
}

// sampleUnder reads the pixel at the visual center of text drawn at (x, y).
// Points off the surface yield black.
func (b *Blender) sampleUnder(text string, x, y float64) colors.Color {
	m := b.surface.MeasureText(text)
	px, py := canvas.Apply(b.surface.Transform(), x+m.Width/2, y-(m.Ascent-m.Descent)/2)
	ix, iy := int(math.Round(px)), int(math.Round(py))

	bounds := b.surface.Bounds()
	if !image.Pt(ix, iy).In(bounds) {
		b.logger.Debug("text sample out of bounds", "x", ix, "y", iy, "bounds", bounds)
		return colors.Black
	}
	if b.sample == nil {
		b.sample = b.surface.ImageData(bounds)
	}
	return colors.FromColor(b.sample.RGBAAt(ix, iy)).WithAlpha(1)
}
