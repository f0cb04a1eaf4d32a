package config

import xdraw "golang.org/x/image/draw"

var interpolators = map[string]xdraw.Interpolator{
	"nearest":    xdraw.NearestNeighbor,
	"bilinear":   xdraw.ApproxBiLinear,
	"catmullrom": xdraw.CatmullRom,
}

// Interpolator returns the resampler named by preview.interpolator.
func (c Config) Interpolator() xdraw.Interpolator {
	if in, ok := interpolators[c.Preview.Interpolator]; ok {
		return in
	}
	return xdraw.ApproxBiLinear
}
