package app

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sqweek/dialog"

	"sqshade/internal/config"
	"sqshade/internal/render"
	"sqshade/internal/ui"
	"sqshade/pkg/canvas"
	"sqshade/pkg/colors"
)

const customTheme = "custom"

// App is the interactive preview: the demo page rendered through the
// blender inside a small window.
type App struct {
	cfg    config.Config
	logger *log.Logger
	theme  ui.Theme
	scale  float32

	renderer   render.Renderer
	themeNames []string
	themes     []colors.Theme
	themeIdx   int
	blending   bool

	chrome  *canvas.FrameBuffer
	canvas  *ebiten.Image
	pageImg *image.RGBA
	dirty   bool
	layout  ui.Layout
	status  string
}

// New prepares the preview. Theme and image errors surface here rather than
// in the game loop.
func New(cfg config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	renderer, err := render.NewRenderer(cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:      cfg,
		logger:   logger,
		theme:    ui.DefaultTheme(),
		scale:    1,
		renderer: renderer,
		blending: true,
		dirty:    true,
		status:   "T theme  B blend  O open image  C copy color  Esc quit",
	}

	// explicit colors come first as their own entry
	custom := cfg.Background != "" || cfg.Foreground != ""
	if custom {
		a.themeNames = append(a.themeNames, customTheme)
		a.themes = append(a.themes, renderer.Theme)
	}
	for _, name := range colors.PresetNames() {
		th, _ := colors.Preset(name)
		a.themeNames = append(a.themeNames, name)
		a.themes = append(a.themes, th)
		if !custom && strings.EqualFold(name, cfg.ThemeName) {
			a.themeIdx = len(a.themes) - 1
		}
	}
	return a, nil
}

func (a *App) Run() error {
	w, h := ui.WindowSize(a.cfg.Preview.Width, a.cfg.Preview.Height, a.theme, a.scale)
	ebiten.SetWindowTitle("shade - " + a.themeNames[a.themeIdx])
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		a.cycleTheme()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		a.toggleBlending()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := a.openImageDialog(); err != nil {
			a.logger.Warn("open image", "err", err)
			a.status = "Open failed: " + err.Error()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copyColorUnderCursor()
	}
	return nil
}

func (a *App) cycleTheme() {
	a.themeIdx = (a.themeIdx + 1) % len(a.themes)
	a.renderer.Theme = a.themes[a.themeIdx]
	a.dirty = true
	ebiten.SetWindowTitle("shade - " + a.themeNames[a.themeIdx])
	a.status = "Theme " + a.themeNames[a.themeIdx] + " " + a.renderer.Theme.String()
	a.logger.Debug("theme changed", "theme", a.themeNames[a.themeIdx])
}

func (a *App) toggleBlending() {
	a.blending = !a.blending
	a.dirty = true
	if a.blending {
		a.status = "Blending on"
	} else {
		a.status = "Blending off, page drawn as authored"
	}
}

func (a *App) openImageDialog() error {
	path, err := dialog.File().Filter("Images", render.ImageExtensions...).Load()
	if errors.Is(err, dialog.ErrCancelled) {
		a.status = "Open cancelled"
		return nil
	}
	if err != nil {
		return err
	}
	path = filepath.Clean(path)
	img, err := render.LoadImage(path)
	if err != nil {
		return err
	}
	a.renderer.Extra = img
	a.dirty = true
	a.status = "Opened " + filepath.Base(path)
	a.logger.Info("image placed", "path", path, "size", img.Bounds().Size())
	return nil
}

func (a *App) copyColorUnderCursor() {
	x, y := ebiten.CursorPosition()
	p := a.layout.Page()
	hex := render.Hex(a.pageImg, x-p.Min.X, y-p.Min.Y)
	if hex == "" {
		a.status = "Cursor is not over the page"
		return
	}
	if err := clipboard.WriteAll(hex); err != nil {
		a.logger.Warn("clipboard", "err", err)
		a.status = "Clipboard unavailable: " + hex
		return
	}
	a.status = "Copied " + hex
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.chrome == nil || a.chrome.W != w || a.chrome.H != h {
		a.chrome = canvas.NewFrameBuffer(w, h)
		a.canvas = ebiten.NewImage(w, h)
	}
	if a.dirty || a.pageImg == nil {
		a.pageImg = a.renderer.Render(a.cfg.Preview.Width, a.cfg.Preview.Height, a.blending)
		a.dirty = false
	}

	a.layout = ui.DrawShell(a.chrome, ui.Status{
		Title:    "shade",
		Themes:   a.themeNames,
		Active:   a.themeNames[a.themeIdx],
		Blending: a.blending,
		Message:  a.status,
	}, a.theme, a.cfg.Preview.Width, a.cfg.Preview.Height, a.scale)
	a.chrome.DrawImage(a.pageImg, float64(a.layout.PageX), float64(a.layout.PageY))

	a.canvas.WritePixels(a.chrome.Pixels())
	screen.DrawImage(a.canvas, nil)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if outsideWidth < 320 {
		outsideWidth = 320
	}
	if outsideHeight < 240 {
		outsideHeight = 240
	}
	return outsideWidth, outsideHeight
}
