package ui

import (
	"image"
	"image/color"

	"sqshade/pkg/canvas"
)

type Layout struct {
	MenuH     int
	ToolbarH  int
	StatusH   int
	CanvasY   int
	CanvasH   int
	PageX     int
	PageY     int
	PageW     int
	PageH     int
	StatusBar int
}

// Page is the page rectangle in window coordinates.
func (l Layout) Page() image.Rectangle {
	return image.Rect(l.PageX, l.PageY, l.PageX+l.PageW, l.PageY+l.PageH)
}

// Status is what the chrome reports about the preview.
type Status struct {
	Title    string
	Themes   []string
	Active   string
	Blending bool
	Message  string
}

func dp(v int, scale float32) int { return int(float32(v) * scale) }

// WindowSize is the window needed to show a pageW x pageH page with its
// chrome and margins.
func WindowSize(pageW, pageH int, theme Theme, scale float32) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	margin := dp(theme.PageMarginDp, scale)
	chrome := dp(theme.MenuHeightDp, scale) + dp(theme.ToolbarHeightDp, scale) + dp(theme.StatusHeightDp, scale)
	return pageW + 2*margin, pageH + 2*margin + chrome
}

// ComputeLayout places the chrome bands and centers a pageW x pageH page in
// the canvas region of a w x h window. The page keeps its size and may be
// clipped by a small window.
func ComputeLayout(w, h, pageW, pageH int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}

	menuH := dp(theme.MenuHeightDp, scale)
	toolbarH := dp(theme.ToolbarHeightDp, scale)
	statusH := dp(theme.StatusHeightDp, scale)
	margin := dp(theme.PageMarginDp, scale)

	canvasY := menuH + toolbarH
	canvasH := h - canvasY - statusH
	if canvasH < 0 {
		canvasH = 0
	}

	pageX := (w - pageW) / 2
	if pageX < margin {
		pageX = margin
	}
	pageY := canvasY + (canvasH-pageH)/2
	if pageY < canvasY+margin {
		pageY = canvasY + margin
	}

	return Layout{
		MenuH:     menuH,
		ToolbarH:  toolbarH,
		StatusH:   statusH,
		CanvasY:   canvasY,
		CanvasH:   canvasH,
		PageX:     pageX,
		PageY:     pageY,
		PageW:     pageW,
		PageH:     pageH,
		StatusBar: h - statusH,
	}
}

func fill(s canvas.Surface, c color.Color, x, y, w, h int) {
	s.SetFillStyle(image.NewUniform(c))
	s.FillRect(float64(x), float64(y), float64(w), float64(h))
}

func stroke(s canvas.Surface, c color.Color, x, y, w, h int) {
	s.SetStrokeStyle(image.NewUniform(c))
	s.SetLineWidth(1)
	s.StrokeRect(float64(x), float64(y), float64(w), float64(h))
}

func label(s canvas.Surface, c color.Color, text string, x, y int) {
	s.SetFillStyle(image.NewUniform(c))
	s.FillText(text, float64(x), float64(y))
}

// DrawShell paints the chrome around the page slot. The page itself is left
// to the caller.
func DrawShell(s canvas.Surface, status Status, theme Theme, pageW, pageH int, scale float32) Layout {
	b := s.Bounds()
	w, h := b.Dx(), b.Dy()
	layout := ComputeLayout(w, h, pageW, pageH, theme, scale)

	s.Save()
	defer s.Restore()

	fill(s, theme.AppBackground, 0, 0, w, h)

	// Menu + toolbar
	fill(s, theme.TopBar, 0, 0, w, layout.MenuH)
	label(s, theme.TopBarText, status.Title, dp(12, scale), layout.MenuH-dp(10, scale))
	fill(s, theme.Toolbar, 0, layout.MenuH, w, layout.ToolbarH)
	stroke(s, theme.Border, 0, 0, w, layout.MenuH+layout.ToolbarH)
	drawThemeChips(s, status, theme, layout, scale)

	// Canvas region
	fill(s, theme.Canvas, 0, layout.CanvasY, w, layout.CanvasH)

	// Page slot with shadow
	fill(s, theme.Shadow, layout.PageX+2, layout.PageY+2, layout.PageW, layout.PageH)
	stroke(s, theme.Border, layout.PageX-1, layout.PageY-1, layout.PageW+2, layout.PageH+2)

	// Status bar
	fill(s, theme.StatusBar, 0, layout.StatusBar, w, layout.StatusH)
	stroke(s, theme.Border, 0, layout.StatusBar, w, layout.StatusH)
	mode := "blend on"
	if !status.Blending {
		mode = "blend off"
	}
	label(s, theme.StatusText, "[ "+mode+" ] "+status.Message, dp(12, scale), h-dp(9, scale))

	return layout
}

func drawThemeChips(s canvas.Surface, status Status, theme Theme, layout Layout, scale float32) {
	pad := dp(8, scale)
	x := dp(12, scale)
	y := layout.MenuH + pad/2
	chipH := layout.ToolbarH - pad
	for _, name := range status.Themes {
		tw := int(s.MeasureText(name).Width + 0.5)
		bg := theme.Chip
		if name == status.Active {
			bg = theme.ChipActive
		}
		fill(s, bg, x, y, tw+2*pad, chipH)
		if name == status.Active {
			fill(s, theme.Accent, x, y+chipH-2, tw+2*pad, 2)
		}
		label(s, theme.ToolbarText, name, x+pad, y+chipH/2+dp(4, scale))
		x += tw + 3*pad
	}
}
