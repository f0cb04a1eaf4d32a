// Package render produces page rasters for the preview and for headless
// snapshots.
package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	xdraw "golang.org/x/image/draw"

	"sqshade/internal/config"
	"sqshade/internal/page"
	"sqshade/pkg/blend"
	"sqshade/pkg/canvas"
	"sqshade/pkg/colors"
)

var ErrNoOutput = errors.New("no output path")

// Renderer paints the demo page with fixed settings.
type Renderer struct {
	Theme        colors.Theme
	Tuning       blend.Tuning
	Interpolator xdraw.Interpolator
	Logger       *log.Logger
	// Extra is placed on the page under the body when set.
	Extra image.Image
}

// NewRenderer builds a Renderer from resolved configuration, loading the
// configured image if there is one.
func NewRenderer(cfg config.Config, logger *log.Logger) (Renderer, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	theme, err := cfg.Theme()
	if err != nil {
		return Renderer{}, err
	}
	r := Renderer{
		Theme:        theme,
		Tuning:       cfg.Tuning,
		Interpolator: cfg.Interpolator(),
		Logger:       logger,
	}
	if cfg.Preview.Image != "" {
		img, err := LoadImage(cfg.Preview.Image)
		if err != nil {
			return Renderer{}, err
		}
		r.Extra = img
	}
	return r, nil
}

// Render paints a w x h page. With blending off the page is drawn exactly as
// authored.
func (r Renderer) Render(w, h int, blending bool) *image.RGBA {
	fb := canvas.NewFrameBuffer(w, h)
	if r.Interpolator != nil {
		fb.Interpolator = r.Interpolator
	}
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var s canvas.Surface = fb
	if blending {
		b := blend.New(fb, r.Theme, blend.WithTuning(r.Tuning), blend.WithLogger(logger))
		defer func() {
			stats := b.CacheStats()
			b.Unwrap()
			logger.Debug("page rendered", "theme", r.Theme, "styles", stats.Entries, "hits", stats.Hits, "misses", stats.Misses)
		}()
		s = b
	}
	page.Paint(s, fb.Bounds(), r.Extra)
	return fb.Image()
}

// Snapshot renders the configured page through the blender.
func Snapshot(cfg config.Config, logger *log.Logger) (*image.RGBA, error) {
	r, err := NewRenderer(cfg, logger)
	if err != nil {
		return nil, err
	}
	return r.Render(cfg.Preview.Width, cfg.Preview.Height, true), nil
}

// SnapshotToFile renders the configured page and writes it to
// cfg.Preview.Out as PNG.
func SnapshotToFile(cfg config.Config, logger *log.Logger) error {
	if cfg.Preview.Out == "" {
		return ErrNoOutput
	}
	img, err := Snapshot(cfg, logger)
	if err != nil {
		return err
	}
	if err := WritePNG(cfg.Preview.Out, img); err != nil {
		return err
	}
	if logger != nil {
		logger.Info("snapshot written", "path", filepath.Clean(cfg.Preview.Out), "size", img.Rect.Size())
	}
	return nil
}

// Hex reports the color at (x, y) in img, or "" outside it.
func Hex(img image.Image, x, y int) string {
	if img == nil || !image.Pt(x, y).In(img.Bounds()) {
		return ""
	}
	return colors.FromColor(img.At(x, y)).Hex()
}

func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close %s: %w", f.Name(), cerr)
	}
}
