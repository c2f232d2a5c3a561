package core

import (
	"math"
	"testing"
)

// TestPowerHeuristic_WeightsPartitionUnity checks spec.md §8's property 5
// (MIS weight partition): for any two sampling strategies that could both
// produce the same direction, the pair of power-heuristic weights for that
// direction (one from each strategy's point of view) must sum to exactly
// 1, the defining property that keeps a multi-strategy estimator unbiased.
func TestPowerHeuristic_WeightsPartitionUnity(t *testing.T) {
	cases := []struct{ fPdf, gPdf float64 }{
		{1.0, 1.0},
		{0.2, 4.0},
		{10.0, 0.001},
		{3.5, 3.5},
		{1e-6, 1e6},
	}
	for _, c := range cases {
		wf := PowerHeuristic(1, c.fPdf, 1, c.gPdf)
		wg := PowerHeuristic(1, c.gPdf, 1, c.fPdf)
		if math.Abs(wf+wg-1.0) > 1e-9 {
			t.Errorf("fPdf=%v gPdf=%v: weights %v + %v = %v, want 1", c.fPdf, c.gPdf, wf, wg, wf+wg)
		}
	}
}

// TestPowerHeuristic_ZeroPdfIsZeroWeight checks the degenerate case a
// strategy that could never have produced this direction must carry zero
// weight, never NaN from a 0/0 division.
func TestPowerHeuristic_ZeroPdfIsZeroWeight(t *testing.T) {
	if w := PowerHeuristic(1, 0, 1, 5); w != 0 {
		t.Errorf("expected zero weight for zero fPdf, got %v", w)
	}
}

// TestBalanceHeuristic_WeightsPartitionUnity mirrors the power-heuristic
// partition property for the balance heuristic (exponent 1), the variant
// spec.md §4.F's BDPT/VCM bookkeeping (core.Mis) is built on.
func TestBalanceHeuristic_WeightsPartitionUnity(t *testing.T) {
	cases := []struct{ fPdf, gPdf float64 }{
		{1.0, 1.0},
		{0.2, 4.0},
		{10.0, 0.001},
	}
	for _, c := range cases {
		wf := BalanceHeuristic(1, c.fPdf, 1, c.gPdf)
		wg := BalanceHeuristic(1, c.gPdf, 1, c.fPdf)
		if math.Abs(wf+wg-1.0) > 1e-9 {
			t.Errorf("fPdf=%v gPdf=%v: weights %v + %v = %v, want 1", c.fPdf, c.gPdf, wf, wg, wf+wg)
		}
	}
}

// TestCombine_PartitionUnity checks spec.md §4.F's combine(a,b)=a/(a+b)
// helper, used by the MIS path tracer to weight emitters reached by BSDF
// sampling, partitions unity
// the same way the MIS heuristics above do.
func TestCombine_PartitionUnity(t *testing.T) {
	cases := []struct{ a, b float64 }{
		{1, 1}, {0.3, 7.2}, {100, 1},
	}
	for _, c := range cases {
		ab := Combine(c.a, c.b)
		ba := Combine(c.b, c.a)
		if math.Abs(ab+ba-1.0) > 1e-9 {
			t.Errorf("a=%v b=%v: combine %v + %v = %v, want 1", c.a, c.b, ab, ba, ab+ba)
		}
	}
	if got := Combine(0, 0); got != 0 {
		t.Errorf("Combine(0,0) = %v, want 0 (degenerate case guarded)", got)
	}
}
