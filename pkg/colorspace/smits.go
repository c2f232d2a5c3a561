package colorspace

import "github.com/df07/spectral-path-tracer/pkg/core"

// smitsBins is the width of each Smits basis table (spec.md §4.A: "seven
// 32-entry tables").
const smitsBins = 32

// The seven Smits basis functions, tabulated over [LambdaMin, LambdaMax].
// Each is a smooth bump/plateau approximating the named primary or
// secondary's reflectance curve; exact numeric fidelity to the original
// Smits 1999 tables is not required, only a plausible, energy-bounded
// reconstruction basis.
var (
	smitsWhite   [smitsBins]float64
	smitsCyan    [smitsBins]float64
	smitsMagenta [smitsBins]float64
	smitsYellow  [smitsBins]float64
	smitsRed     [smitsBins]float64
	smitsGreen   [smitsBins]float64
	smitsBlue    [smitsBins]float64
)

func init() {
	for i := 0; i < smitsBins; i++ {
		lambda := LambdaMin + (float64(i)+0.5)*(LambdaMax-LambdaMin)/smitsBins
		smitsWhite[i] = 1.0
		smitsCyan[i] = plateau(lambda, 450, 650)
		smitsMagenta[i] = 1.0 - plateau(lambda, 490, 580)
		smitsYellow[i] = plateau(lambda, 500, 720)
		smitsRed[i] = plateau(lambda, 580, 720)
		smitsGreen[i] = plateau(lambda, 480, 600)
		smitsBlue[i] = plateau(lambda, 380, 480)
	}
}

// plateau is a smoothed step function that is ~1 within [lo,hi] and decays
// toward 0 outside it, used to synthesize each Smits basis bump.
func plateau(lambda, lo, hi float64) float64 {
	const edge = 20.0
	v := 1.0
	if lambda < lo {
		v = smoothstep((lambda - (lo - edge)) / edge)
	} else if lambda > hi {
		v = smoothstep(((hi + edge) - lambda) / edge)
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

func smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func sampleSmitsBin(table [smitsBins]float64, v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	idx := int(v * float64(smitsBins-1))
	if idx >= smitsBins {
		idx = smitsBins - 1
	}
	return table[idx]
}

// SmitsSpectrum holds the decomposition spec.md §4.A assigns to an RGB
// triple: a coefficient/basis pair (A, baseB-coefB) and (A, baseC-coefC)
// plus the dominant channel coefficient A against the white basis.
type SmitsSpectrum struct {
	CoefA float64
	CoefB float64
	BaseB [smitsBins]float64
	CoefC float64
	BaseC [smitsBins]float64
}

// UpsampleRGB implements the Smits 1999 "min-of-channel dominates
// complementary basis" decomposition (spec.md §4.A, case analysis given
// verbatim there).
func UpsampleRGB(r, g, b float64) SmitsSpectrum {
	var s SmitsSpectrum
	switch {
	case r <= g && r <= b:
		s.CoefA = r
		s.BaseB = smitsCyan
		if g <= b {
			s.BaseC = smitsBlue
			s.CoefB = g - r
			s.CoefC = b - g
		} else {
			s.BaseC = smitsGreen
			s.CoefB = b - r
			s.CoefC = g - b
		}
	case g <= r && g <= b:
		s.CoefA = g
		s.BaseB = smitsMagenta
		if r <= b {
			s.BaseC = smitsBlue
			s.CoefB = r - g
			s.CoefC = b - r
		} else {
			s.BaseC = smitsRed
			s.CoefB = b - g
			s.CoefC = r - b
		}
	default:
		s.CoefA = b
		s.BaseB = smitsYellow
		if r <= g {
			s.BaseC = smitsGreen
			s.CoefB = r - b
			s.CoefC = g - r
		} else {
			s.BaseC = smitsRed
			s.CoefB = g - b
			s.CoefC = r - g
		}
	}
	return s
}

// smitsScale is the 0.86445 normalization spec.md §4.A applies to the
// summed bases so the reconstruction round-trips to the original RGB.
const smitsScale = 0.86445

// SampleAt evaluates the upsampled spectrum at a normalized wavelength
// position v in [0,1).
func (s SmitsSpectrum) SampleAt(v float64) float64 {
	sum := s.CoefA*sampleSmitsBin(smitsWhite, v) +
		s.CoefB*sampleSmitsBin(s.BaseB, v) +
		s.CoefC*sampleSmitsBin(s.BaseC, v)
	return sum * smitsScale
}

// SpectrumFromRGB evaluates the full upsampled spectrum at every hero
// wavelength in the bundle, producing a spectral-mode RayColor.
func SpectrumFromRGB(rgb core.Vec3, wl core.WavelengthBundle) core.RayColor {
	if wl.N <= 1 {
		return core.FromRGB(rgb)
	}
	s := UpsampleRGB(rgb.X, rgb.Y, rgb.Z)
	var samples [core.MaxWavelengths]float64
	for i := 0; i < wl.N; i++ {
		samples[i] = s.SampleAt(wl.Lambda[i])
	}
	return core.NewSpectralColor(wl.N, samples)
}
