// Package config loads preview and tuning settings. Values are layered as
// defaults < config file < SHADE_* environment variables < command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sqshade/pkg/blend"
	"sqshade/pkg/canvas"
	"sqshade/pkg/colors"
)

const (
	KeyThemeName       = "theme.name"
	KeyThemeBackground = "theme.background"
	KeyThemeForeground = "theme.foreground"

	KeyChromaThreshold      = "tuning.chroma-threshold"
	KeyVisibilityChromaGain = "tuning.visibility-chroma-gain"
	KeyVisibilityMinChroma  = "tuning.visibility-min-chroma"
	KeyMinTextContrast      = "tuning.min-text-contrast"
	KeyBackgroundDeltaE     = "tuning.background-delta-e"
	KeySampleTextAlways     = "tuning.sample-text-always"
	KeyPageColorLimit       = "tuning.page-color-limit"
	KeyFigureColorLimit     = "tuning.figure-color-limit"
	KeyNeutralDeviation     = "tuning.neutral-deviation"
	KeyWhiteLevel           = "tuning.white-level"
	KeyBlackLevel           = "tuning.black-level"
	KeyPhotoOpacity         = "tuning.photo-opacity"
	KeyPhotoComposite       = "tuning.photo-composite"

	KeyPreviewWidth        = "preview.width"
	KeyPreviewHeight       = "preview.height"
	KeyPreviewImage        = "preview.image"
	KeyPreviewOut          = "preview.out"
	KeyPreviewInterpolator = "preview.interpolator"

	KeyDebug = "debug"
)

const (
	DefaultTheme  = "night"
	DefaultWidth  = 720
	DefaultHeight = 960
	envPrefix     = "SHADE"
)

var (
	ErrUnknownTheme = errors.New("unknown theme")
	ErrInvalidValue = errors.New("invalid configuration value")
)

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"theme":      KeyThemeName,
	"background": KeyThemeBackground,
	"foreground": KeyThemeForeground,
	"image":      KeyPreviewImage,
	"out":        KeyPreviewOut,
	"width":      KeyPreviewWidth,
	"height":     KeyPreviewHeight,
	"debug":      KeyDebug,
}

// Preview holds the window and snapshot settings.
type Preview struct {
	Width  int
	Height int
	// Image is an optional raster placed on the demo page.
	Image string
	// Out, when set, switches to headless mode and names the PNG to write.
	Out          string
	Interpolator string
}

type Config struct {
	ThemeName  string
	Background string
	Foreground string
	Tuning     blend.Tuning
	Preview    Preview
	Debug      bool
}

type loadSettings struct {
	configFile string
	flags      *pflag.FlagSet
}

// Option configures Load. Useful for tests to override sources.
type Option func(*loadSettings)

// WithConfigFile reads path as a YAML or TOML config file. A missing file is
// an error.
func WithConfigFile(path string) Option {
	return func(s *loadSettings) {
		s.configFile = path
	}
}

// WithFlags binds flags registered by RegisterFlags. A --config flag in fs
// takes the place of WithConfigFile.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(s *loadSettings) {
		s.flags = fs
	}
}

// RegisterFlags adds the shade command-line flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (yaml or toml)")
	fs.StringP("theme", "t", "", "theme preset: "+strings.Join(colors.PresetNames(), ", "))
	fs.String("background", "", "theme background as hex, overrides the preset")
	fs.String("foreground", "", "theme foreground as hex, overrides the preset")
	fs.StringP("image", "i", "", "image to place on the page")
	fs.StringP("out", "o", "", "write a PNG snapshot instead of opening a window")
	fs.Int("width", DefaultWidth, "page width in pixels")
	fs.Int("height", DefaultHeight, "page height in pixels")
	fs.Bool("debug", false, "enable debug logging")
}

// Load resolves the configuration from all sources.
func Load(opts ...Option) (Config, error) {
	settings := loadSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configFile := settings.configFile
	if settings.flags != nil {
		if f := settings.flags.Lookup("config"); f != nil && f.Changed {
			configFile = f.Value.String()
		}
	}
	if err := mergeConfigFile(v, configFile); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := bindFlags(v, settings.flags); err != nil {
		return Config{}, err
	}
	return decode(v)
}

func setDefaults(v *viper.Viper) {
	t := blend.DefaultTuning()
	v.SetDefault(KeyThemeName, DefaultTheme)
	v.SetDefault(KeyThemeBackground, "")
	v.SetDefault(KeyThemeForeground, "")

	v.SetDefault(KeyChromaThreshold, t.ChromaThreshold)
	v.SetDefault(KeyVisibilityChromaGain, t.VisibilityChromaGain)
	v.SetDefault(KeyVisibilityMinChroma, t.VisibilityMinChroma)
	v.SetDefault(KeyMinTextContrast, t.MinTextContrast)
	v.SetDefault(KeyBackgroundDeltaE, t.BackgroundDeltaE)
	v.SetDefault(KeySampleTextAlways, t.SampleTextAlways)
	v.SetDefault(KeyPageColorLimit, t.PageColorLimit)
	v.SetDefault(KeyFigureColorLimit, t.FigureColorLimit)
	v.SetDefault(KeyNeutralDeviation, t.NeutralDeviation)
	v.SetDefault(KeyWhiteLevel, t.WhiteLevel)
	v.SetDefault(KeyBlackLevel, t.BlackLevel)
	v.SetDefault(KeyPhotoOpacity, t.PhotoOpacity)
	v.SetDefault(KeyPhotoComposite, t.PhotoComposite.String())

	v.SetDefault(KeyPreviewWidth, DefaultWidth)
	v.SetDefault(KeyPreviewHeight, DefaultHeight)
	v.SetDefault(KeyPreviewImage, "")
	v.SetDefault(KeyPreviewOut, "")
	v.SetDefault(KeyPreviewInterpolator, "bilinear")

	v.SetDefault(KeyDebug, false)
}

func mergeConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	//nolint:gosec // G304: the config path comes from the user
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		v.SetConfigType("toml")
	default:
		v.SetConfigType("yaml")
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func decode(v *viper.Viper) (Config, error) {
	op, err := canvas.ParseCompositeOp(v.GetString(KeyPhotoComposite))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidValue, KeyPhotoComposite, err)
	}
	cfg := Config{
		ThemeName:  strings.TrimSpace(v.GetString(KeyThemeName)),
		Background: strings.TrimSpace(v.GetString(KeyThemeBackground)),
		Foreground: strings.TrimSpace(v.GetString(KeyThemeForeground)),
		Tuning: blend.Tuning{
			ChromaThreshold:      v.GetFloat64(KeyChromaThreshold),
			VisibilityChromaGain: v.GetFloat64(KeyVisibilityChromaGain),
			VisibilityMinChroma:  v.GetFloat64(KeyVisibilityMinChroma),
			MinTextContrast:      v.GetFloat64(KeyMinTextContrast),
			BackgroundDeltaE:     v.GetFloat64(KeyBackgroundDeltaE),
			SampleTextAlways:     v.GetBool(KeySampleTextAlways),
			PageColorLimit:       v.GetInt(KeyPageColorLimit),
			FigureColorLimit:     v.GetInt(KeyFigureColorLimit),
			NeutralDeviation:     v.GetInt(KeyNeutralDeviation),
			WhiteLevel:           v.GetFloat64(KeyWhiteLevel),
			BlackLevel:           v.GetFloat64(KeyBlackLevel),
			PhotoOpacity:         v.GetFloat64(KeyPhotoOpacity),
			PhotoComposite:       op,
		},
		Preview: Preview{
			Width:        v.GetInt(KeyPreviewWidth),
			Height:       v.GetInt(KeyPreviewHeight),
			Image:        v.GetString(KeyPreviewImage),
			Out:          v.GetString(KeyPreviewOut),
			Interpolator: strings.ToLower(strings.TrimSpace(v.GetString(KeyPreviewInterpolator))),
		},
		Debug: v.GetBool(KeyDebug),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	t := c.Tuning
	switch {
	case t.PhotoOpacity < 0 || t.PhotoOpacity > 1:
		return fmt.Errorf("%w: %s %v outside [0,1]", ErrInvalidValue, KeyPhotoOpacity, t.PhotoOpacity)
	case t.PageColorLimit < 1:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidValue, KeyPageColorLimit)
	case t.FigureColorLimit < 1:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidValue, KeyFigureColorLimit)
	case t.NeutralDeviation < 1:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidValue, KeyNeutralDeviation)
	case t.BlackLevel > t.WhiteLevel:
		return fmt.Errorf("%w: %s above %s", ErrInvalidValue, KeyBlackLevel, KeyWhiteLevel)
	case c.Preview.Width <= 0 || c.Preview.Height <= 0:
		return fmt.Errorf("%w: page size %dx%d", ErrInvalidValue, c.Preview.Width, c.Preview.Height)
	}
	if _, ok := interpolators[c.Preview.Interpolator]; !ok {
		return fmt.Errorf("%w: %s %q", ErrInvalidValue, KeyPreviewInterpolator, c.Preview.Interpolator)
	}
	return nil
}

// Theme resolves the named preset, then applies any explicit background or
// foreground on top of it.
func (c Config) Theme() (colors.Theme, error) {
	name := c.ThemeName
	if name == "" {
		name = DefaultTheme
	}
	theme, ok := colors.Preset(name)
	if !ok {
		return colors.Theme{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownTheme, name, strings.Join(colors.PresetNames(), ", "))
	}
	if c.Background != "" {
		bg, err := colors.ParseHex(c.Background)
		if err != nil {
			return colors.Theme{}, fmt.Errorf("theme background: %w", err)
		}
		theme.Background = bg
	}
	if c.Foreground != "" {
		fg, err := colors.ParseHex(c.Foreground)
		if err != nil {
			return colors.Theme{}, fmt.Errorf("theme foreground: %w", err)
		}
		theme.Foreground = fg
	}
	return theme, nil
}
