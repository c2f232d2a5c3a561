package core

// Sampler is the per-pixel, per-bounce sample source the integrator draws
// from (spec.md §4.B). Every accessor returns values in [0,1). Concrete
// samplers live in pkg/core/*_sampler.go; integrators only depend on this
// interface so a uniform fallback can always stand in.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
	// ResetPixel hashes pixel coordinates into a per-pixel salt and resets
	// the per-pixel dimension counter (spec.md §4.B).
	ResetPixel(x, y int)
	// Clone returns an independent sampler seeded off this one, used to
	// hand each worker thread its own per-thread sampler state (spec.md §5).
	Clone(seed uint64) Sampler
}

// SamplingConfig carries the renderer's sampling and termination budget.
// Mirrors the teacher's core.SamplingConfig, extended with spectral mode
// and VCM's radius-reduction schedule (spec.md §3, §4.F.6).
type SamplingConfig struct {
	Width, Height             int
	SamplesPerPixel           int
	MaxDepth                  int
	RussianRouletteMinBounces int
	RussianRouletteMinSamples int
	AdaptiveMinSamples        float64
	AdaptiveThreshold         float64

	// Spectral controls the wavelength bundle width (1 disables spectral
	// rendering; 8 is the reference width, spec.md §3/§9).
	SpectralBundleWidth int

	// VCM radius schedule (spec.md §4.F.6).
	VCMInitialRadius float64
	VCMAlpha         float64
	VCMMinRadius     float64

	// BDPT vertex cap (spec.md §4.F.5).
	MaxStoredLightVertices int
}

// DefaultSamplingConfig mirrors the teacher's conservative defaults.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel:           64,
		MaxDepth:                  12,
		RussianRouletteMinBounces: 4,
		RussianRouletteMinSamples: 6,
		SpectralBundleWidth:       1,
		VCMInitialRadius:          0.01,
		VCMAlpha:                  0.75,
		VCMMinRadius:              1e-5,
		MaxStoredLightVertices:    16,
	}
}

func (sc SamplingConfig) IsSpectral() bool { return sc.SpectralBundleWidth > 1 }

// Logger is the minimal sink integrators and the host write diagnostics
// to (spec.md §7 "reported to a logger"), kept identical in shape to the
// teacher's core.Logger so implementations stay interchangeable.
type Logger interface {
	Printf(format string, args ...interface{})
}
