package colors

import (
	"fmt"
	"sort"
	"strings"
)

// Theme is the target color scheme: a background and a foreground color.
type Theme struct {
	Background Color
	Foreground Color
}

func NewTheme(background, foreground Color) Theme {
	return Theme{Background: background, Foreground: foreground}
}

// ParseTheme builds a Theme from two hex strings.
func ParseTheme(background, foreground string) (Theme, error) {
	bg, err := ParseHex(background)
	if err != nil {
		return Theme{}, fmt.Errorf("theme background: %w", err)
	}
	fg, err := ParseHex(foreground)
	if err != nil {
		return Theme{}, fmt.Errorf("theme foreground: %w", err)
	}
	return NewTheme(bg, fg), nil
}

// Dark reports whether the background is darker than the foreground.
func (t Theme) Dark() bool {
	return t.Background.Lightness() < t.Foreground.Lightness()
}

// Gradient maps t in [0,1] onto the Lab line from background to foreground.
func (t Theme) Gradient(v float64) Color {
	return t.Background.Range(t.Foreground)(v)
}

func (t Theme) String() string {
	return t.Background.Hex() + "/" + t.Foreground.Hex()
}

var presets = map[string]Theme{
	"night":     NewTheme(MustParseHex("#1a1a1a"), MustParseHex("#e0e0e0")),
	"sepia":     NewTheme(MustParseHex("#f4ecd8"), MustParseHex("#5b4636")),
	"solarized": NewTheme(MustParseHex("#002b36"), MustParseHex("#93a1a1")),
	"light":     NewTheme(White, Black),
}

// Preset looks up a named theme. Names are case-insensitive.
func Preset(name string) (Theme, bool) {
	t, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
