package core

import "math"

// MaxWavelengths is the widest hero-wavelength bundle the carrier supports
// (8-wide spectral mode, spec.md §9 "designed for an 8-wide vector").
const MaxWavelengths = 8

// LambdaMin, LambdaMax bound the visible range the wavelength bundle maps
// its normalized [0,1) samples into (spec.md §3).
const (
	LambdaMin = 380.0
	LambdaMax = 720.0
)

// WavelengthBundle is an ordered tuple of hero wavelengths. N is 1 when
// spectral rendering is disabled (the bundle is inert: materials never
// consult it) and 8 when spectral rendering is enabled. Single is latched
// true the moment dispersion collapses the bundle and must never flip back
// (spec.md §3 invariant).
type WavelengthBundle struct {
	Lambda [MaxWavelengths]float64 // normalized [0,1) samples
	N      int
	Single bool
}

// NewRGBBundle returns the inert, single-sample bundle used when spectral
// rendering is disabled.
func NewRGBBundle() WavelengthBundle {
	return WavelengthBundle{N: 1}
}

// NewSpectralBundle draws N hero wavelengths by stratifying a single [0,1)
// sample across the bundle, the standard hero-wavelength construction: the
// first sample is uniform, the rest are evenly offset from it mod 1.
func NewSpectralBundle(n int, u float64) WavelengthBundle {
	wl := WavelengthBundle{N: n}
	for i := 0; i < n; i++ {
		v := u + float64(i)/float64(n)
		if v >= 1 {
			v -= 1
		}
		wl.Lambda[i] = v
	}
	return wl
}

// NM returns the wavelength of bundle element i in nanometers.
func (wl WavelengthBundle) NM(i int) float64 {
	return LambdaMin + wl.Lambda[i]*(LambdaMax-LambdaMin)
}

// HeroNM returns the wavelength of the surviving hero sample.
func (wl WavelengthBundle) HeroNM() float64 { return wl.NM(0) }

// Collapse latches the bundle to single-wavelength mode. Per spec.md §3,
// once collapsed the remaining throughput of the discarded hero
// wavelengths must be rescaled by N elsewhere (WavelengthBundle.CollapseWeight)
// so total energy is preserved; this method only flips the flag, which is
// monotonic (false -> true, never back).
func (wl WavelengthBundle) Collapse() WavelengthBundle {
	if wl.Single {
		return wl
	}
	out := wl
	out.Single = true
	return out
}

// CollapseWeight returns the factor to multiply throughput by when a
// dispersive collapse occurs, preserving total energy across the N
// discarded hero wavelengths (spec.md §3, §4.D).
func (wl WavelengthBundle) CollapseWeight() float64 {
	if wl.N <= 1 {
		return 1.0
	}
	return float64(wl.N)
}

// RayColor is a radiometric carrier: a bundle of radiance samples across
// wavelengths (spectral mode) or a tristimulus RGB triple (RGB mode),
// spec.md §4.A. Callers always know which mode a given RayColor is in from
// the WavelengthBundle.N it was produced against (N=1 for RGB mode, whose
// carrier holds 3 color channels; N>1 for spectral-mode wavelength
// samples); see DESIGN.md for why
// the carrier's own channel count is fixed at 3 in RGB mode rather than
// literally following the bundle's N=1.
type RayColor struct {
	Samples [MaxWavelengths]float64
	N       int
}

func NewRGBColor(r, g, b float64) RayColor {
	c := RayColor{N: 3}
	c.Samples[0], c.Samples[1], c.Samples[2] = r, g, b
	return c
}

// FromRGB lifts a Vec3 RGB color into the carrier representation.
func FromRGB(v Vec3) RayColor { return NewRGBColor(v.X, v.Y, v.Z) }

// ToRGB reads back a carrier already in RGB mode (N==3) as a Vec3. For
// spectral-mode carriers use colorspace.ToTristimulus instead.
func (c RayColor) ToRGB() Vec3 {
	return Vec3{c.Samples[0], c.Samples[1], c.Samples[2]}
}

func ZeroColor() RayColor { return RayColor{N: 3} }

// NewSpectralColor builds an N-wide spectral-mode carrier from per-hero
// radiance samples.
func NewSpectralColor(n int, samples [MaxWavelengths]float64) RayColor {
	return RayColor{Samples: samples, N: n}
}

func (c RayColor) Add(o RayColor) RayColor {
	out := c
	n := max(c.N, o.N)
	for i := 0; i < n; i++ {
		out.Samples[i] = c.Samples[i] + o.Samples[i]
	}
	out.N = n
	return out
}

func (c RayColor) Multiply(o RayColor) RayColor {
	out := c
	n := max(c.N, o.N)
	for i := 0; i < n; i++ {
		out.Samples[i] = c.Samples[i] * o.Samples[i]
	}
	out.N = n
	return out
}

func (c RayColor) Scale(s float64) RayColor {
	out := c
	for i := 0; i < c.N; i++ {
		out.Samples[i] *= s
	}
	return out
}

func (c RayColor) Div(s float64) RayColor {
	if s == 0 {
		return ZeroColor()
	}
	return c.Scale(1.0 / s)
}

func LerpColor(a, b RayColor, t float64) RayColor {
	return a.Scale(1 - t).Add(b.Scale(t))
}

// AlmostZero reports whether every active component is within eps of zero
// (used by the random-walk termination check, spec.md §4.E).
func (c RayColor) AlmostZero(eps float64) bool {
	for i := 0; i < c.N; i++ {
		if math.Abs(c.Samples[i]) >= eps {
			return false
		}
	}
	return true
}

// IsValid reports false if any active component is NaN or infinite.
func (c RayColor) IsValid() bool {
	for i := 0; i < c.N; i++ {
		v := c.Samples[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Max returns the largest active component, used by the Russian-roulette
// survival-probability heuristic (spec.md §4.E).
func (c RayColor) Max() float64 {
	m := 0.0
	for i := 0; i < c.N; i++ {
		if c.Samples[i] > m {
			m = c.Samples[i]
		}
	}
	return m
}

// ThroughputScalar reduces the carrier to the scalar used by Russian
// roulette; in spectral mode with a collapsed bundle, divides by N so the
// single surviving wavelength's inflated throughput doesn't bias survival
// (spec.md §4.E).
func (c RayColor) ThroughputScalar(wl WavelengthBundle) float64 {
	m := c.Max()
	if wl.Single && wl.N > 1 {
		return m / float64(wl.N)
	}
	return m
}

// Luminance is the Rec.709 RGB luminance, valid only for RGB-mode carriers.
func (c RayColor) Luminance() float64 {
	return 0.2126*c.Samples[0] + 0.7152*c.Samples[1] + 0.0722*c.Samples[2]
}
