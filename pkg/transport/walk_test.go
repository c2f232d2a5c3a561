package transport

import (
	"math"
	"testing"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// TestRussianRoulette_BelowMinBouncesAlwaysSurvives checks the early-out:
// before minBounces, the walk never terminates and the compensation is 1
// (no reweighting needed).
func TestRussianRoulette_BelowMinBouncesAlwaysSurvives(t *testing.T) {
	throughput := core.FromRGB(core.NewVec3(0.01, 0.01, 0.01))
	terminate, comp := RussianRoulette(0, 3, throughput, core.NewRGBBundle(), 0.999)
	if terminate {
		t.Error("expected no termination before minBounces")
	}
	if comp != 1.0 {
		t.Errorf("compensation = %v, want 1.0 before minBounces", comp)
	}
}

// TestRussianRoulette_MatchesAffineFormula checks spec.md §4.E's named
// survival probability, survival = 0.125 + 0.875*throughput.max, rather
// than a clamped-luminance test: the termination boundary must fall
// exactly where the affine formula predicts, not at some other clamp.
func TestRussianRoulette_MatchesAffineFormula(t *testing.T) {
	cases := []struct{ maxChannel float64 }{
		{1.0}, {0.5}, {0.1}, {0.0},
	}
	wl := core.NewRGBBundle()
	for _, c := range cases {
		throughput := core.FromRGB(core.NewVec3(c.maxChannel, c.maxChannel*0.5, 0))
		want := 0.125 + 0.875*throughput.ThroughputScalar(wl)

		justBelow, comp := RussianRoulette(10, 3, throughput, wl, want-1e-9)
		if justBelow {
			t.Errorf("maxChannel=%v: expected survival just below threshold %v", c.maxChannel, want)
		}
		if math.Abs(comp-1.0/want) > 1e-9 {
			t.Errorf("maxChannel=%v: compensation = %v, want 1/survival = %v", c.maxChannel, comp, 1.0/want)
		}

		justAbove, _ := RussianRoulette(10, 3, throughput, wl, want+1e-9)
		if !justAbove {
			t.Errorf("maxChannel=%v: expected termination just above threshold %v", c.maxChannel, want)
		}
	}
}

// TestRussianRoulette_SpectralCollapseDividesByN checks that a collapsed
// spectral bundle's throughput (single hero wavelength standing in for N
// wavelengths) is scaled by 1/N before the affine formula is applied, per
// RayColor.ThroughputScalar, matching the teacher's single-wavelength
// variance-compensation convention.
func TestRussianRoulette_SpectralCollapseDividesByN(t *testing.T) {
	wl := core.NewSpectralBundle(4, 0.0).Collapse()
	throughput := core.FromRGB(core.NewVec3(0.8, 0.8, 0.8))
	want := 0.125 + 0.875*(0.8/float64(wl.N))
	_, comp := RussianRoulette(10, 3, throughput, wl, want-1e-9)
	if math.Abs(comp-1.0/want) > 1e-9 {
		t.Errorf("compensation = %v, want 1/survival = %v (survival accounting for 1/N collapse)", comp, 1.0/want)
	}
}
