package blend

import "sqshade/pkg/canvas"

// Tuning holds the empirically chosen thresholds of the recolorers.
type Tuning struct {
	// ChromaThreshold separates intentionally colored paints from grays.
	ChromaThreshold float64
	// VisibilityChromaGain and VisibilityMinChroma shape how colored paints
	// are made vivid again in dark themes.
	VisibilityChromaGain float64
	VisibilityMinChroma  float64

	// MinTextContrast is the lightness gap text must keep from what is
	// already painted under it.
	MinTextContrast float64
	// BackgroundDeltaE is how far a sampled pixel must be from the theme
	// background before text is checked against it.
	BackgroundDeltaE float64
	// SampleTextAlways samples under text even before any image was drawn.
	SampleTextAlways bool

	// PageColorLimit and FigureColorLimit are the distinct-color counts up to
	// which full-page and partial images are treated as monochrome.
	PageColorLimit   int
	FigureColorLimit int
	// NeutralDeviation is the largest channel spread, exclusive, of a gray pixel.
	NeutralDeviation int
	WhiteLevel       float64
	BlackLevel       float64

	// PhotoOpacity and PhotoComposite tint photographic images.
	PhotoOpacity   float64
	PhotoComposite canvas.CompositeOp
}

func DefaultTuning() Tuning {
	return Tuning{
		ChromaThreshold:      10,
		VisibilityChromaGain: 1.2,
		VisibilityMinChroma:  20,
		MinTextContrast:      30,
		BackgroundDeltaE:     2.3,
		PageColorLimit:       256,
		FigureColorLimit:     2,
		NeutralDeviation:     1,
		WhiteLevel:           200,
		BlackLevel:           50,
		PhotoOpacity:         0.8,
		PhotoComposite:       canvas.SourceOver,
	}
}
