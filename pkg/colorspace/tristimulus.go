package colorspace

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/lucasb-eyer/go-colorful"
)

// sumY is the integral of the Y matching function over all bins, used to
// normalize spectral-to-tristimulus conversion (spec.md §4.A: "scales by
// 1/(1.33 . N . sum_of_Y_bins)").
var sumY float64

func init() {
	for i := 0; i < SampleCount; i++ {
		sumY += cieY[i]
	}
}

// sampleBin performs the piecewise-linear lookup spec.md §4.A describes:
// "index = floor(v*(K-1)), blend with the fractional part".
func sampleBin(table [SampleCount]float64, v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	pos := v * float64(SampleCount-1)
	idx := int(math.Floor(pos))
	frac := pos - float64(idx)
	if idx >= SampleCount-1 {
		return table[SampleCount-1]
	}
	return table[idx]*(1-frac) + table[idx+1]*frac
}

// ToTristimulus converts a radiometric carrier to a tristimulus RGB color.
// In RGB mode (wl.N == 1 is the inert bundle convention) the carrier is
// already RGB-shaped and is returned unchanged. In spectral mode, each hero
// wavelength sample is weighted by the CIE X/Y/Z matching functions and the
// D65 illuminant, summed across the bundle, and normalized (spec.md §4.A).
func ToTristimulus(c core.RayColor, wl core.WavelengthBundle) core.Vec3 {
	if wl.N <= 1 || c.N <= 1 {
		return c.ToRGB()
	}

	var x, y, z float64
	for i := 0; i < wl.N; i++ {
		v := wl.Lambda[i]
		illum := sampleBin(d65, v) / 100.0
		radiance := c.Samples[i] * illum
		x += radiance * sampleBin(cieX, v)
		y += radiance * sampleBin(cieY, v)
		z += radiance * sampleBin(cieZ, v)
	}

	norm := 1.0 / (1.33 * float64(wl.N) * sumY)
	x *= norm
	y *= norm
	z *= norm

	col := colorful.Xyz(x, y, z)
	return core.Vec3{X: math.Max(0, col.R), Y: math.Max(0, col.G), Z: math.Max(0, col.B)}
}
