package lights

import (
	"math"
	"testing"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/materials"
)

// TestPoint_IlluminateDoesNotDoubleApplyInverseSquare is a regression test
// for a bug where Radiance was pre-scaled by 1/d^2 while DirectPdfW also
// carried d^2 (spec.md §4.C), so NEE consumers dividing by DirectPdfW
// applied the falloff twice. Radiance must be the raw, un-attenuated
// emission; DirectPdfW alone carries the d^2 term, matching
// Area.Illuminate's convention.
func TestPoint_IlluminateDoesNotDoubleApplyInverseSquare(t *testing.T) {
	emission := core.FromRGB(core.NewVec3(100, 100, 100))
	p := NewPoint(core.NewVec3(0, 5, 0), emission)

	sample := p.Illuminate(core.NewVec3(0, 0, 0), core.Vec2{}, core.NewRGBBundle())

	for i := 0; i < 3; i++ {
		if math.Abs(sample.Radiance.Samples[i]-emission.Samples[i]) > 1e-9 {
			t.Errorf("channel %d: Radiance = %v, want raw emission %v (no inverse-square pre-scale)", i, sample.Radiance.Samples[i], emission.Samples[i])
		}
	}
	const wantDistSq = 25.0
	if math.Abs(sample.DirectPdfW-wantDistSq) > 1e-9 {
		t.Errorf("DirectPdfW = %v, want d^2 = %v", sample.DirectPdfW, wantDistSq)
	}

	// The NEE estimator a caller builds is Radiance/DirectPdfW; undoing the
	// division must recover the exact inverse-square irradiance at the
	// shading point, not a d^4-attenuated value.
	irradiance := sample.Radiance.Scale(1.0 / sample.DirectPdfW)
	want := 100.0 / wantDistSq
	if math.Abs(irradiance.Samples[0]-want) > 1e-9 {
		t.Errorf("Radiance/DirectPdfW = %v, want %v", irradiance.Samples[0], want)
	}
}

// TestSpot_IlluminateAppliesConeFalloffOnceNotInverseSquare mirrors the
// Point regression for Spot: Radiance carries the cone-falloff attenuation
// only, never the inverse-square term, which DirectPdfW alone carries.
func TestSpot_IlluminateAppliesConeFalloffOnceNotInverseSquare(t *testing.T) {
	emission := core.FromRGB(core.NewVec3(100, 100, 100))
	s := NewSpot(core.NewVec3(0, 5, 0), core.NewVec3(0, 0, 0), emission, 30, 5)

	sample := s.Illuminate(core.NewVec3(0, 0, 0), core.Vec2{}, core.NewRGBBundle())

	// Straight down the cone axis: full falloff, atten == 1.
	for i := 0; i < 3; i++ {
		if math.Abs(sample.Radiance.Samples[i]-emission.Samples[i]) > 1e-9 {
			t.Errorf("channel %d: Radiance = %v, want atten*emission = %v (atten=1 on-axis)", i, sample.Radiance.Samples[i], emission.Samples[i])
		}
	}
	const wantDistSq = 25.0
	if math.Abs(sample.DirectPdfW-wantDistSq) > 1e-9 {
		t.Errorf("DirectPdfW = %v, want d^2 = %v", sample.DirectPdfW, wantDistSq)
	}
}

// TestArea_IlluminateConventionMatchesDelta cross-checks that Area's
// established raw-radiance-plus-d^2-in-pdf convention (which the delta
// lights above must match) indeed keeps Radiance independent of distance.
func TestArea_IlluminateConventionMatchesDelta(t *testing.T) {
	mat := materials.NewLambertianMaterial(core.NewVec3(0, 0, 0)).WithEmission(core.NewVec3(1, 1, 1), 1.0)
	area := NewAreaQuad(core.NewVec3(-0.5, 5, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), mat)

	near := area.Illuminate(core.NewVec3(0, 4, 0), core.Vec2{X: 0.5, Y: 0.5}, core.NewRGBBundle())
	far := area.Illuminate(core.NewVec3(0, 0, 0), core.Vec2{X: 0.5, Y: 0.5}, core.NewRGBBundle())

	if math.Abs(near.Radiance.Samples[0]-far.Radiance.Samples[0]) > 1e-9 {
		t.Errorf("Area.Illuminate's Radiance must not depend on distance: near=%v far=%v", near.Radiance.Samples[0], far.Radiance.Samples[0])
	}
	if near.DirectPdfW >= far.DirectPdfW {
		t.Errorf("closer query should have a smaller DirectPdfW (smaller d^2): near=%v far=%v", near.DirectPdfW, far.DirectPdfW)
	}
}
