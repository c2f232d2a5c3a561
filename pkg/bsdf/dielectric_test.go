package bsdf

import (
	"math"
	"testing"
)

// TestFresnelDielectric_Bounded checks spec.md §8's energy-conservation
// property at the Fresnel-term level: reflectance must stay in [0,1] for
// every incidence angle and index-of-refraction ratio, entering and
// exiting glass alike.
func TestFresnelDielectric_Bounded(t *testing.T) {
	iors := []float64{1.0, 1.3, 1.5, 1.8, 2.4}
	for _, ior := range iors {
		for cosDeg := 0; cosDeg <= 89; cosDeg++ {
			cosTheta := math.Cos(float64(cosDeg) * math.Pi / 180)

			frEnter := FresnelDielectric(cosTheta, 1.0, ior)
			if frEnter < 0 || frEnter > 1 {
				t.Fatalf("ior=%v cos=%v: entering reflectance %v out of [0,1]", ior, cosTheta, frEnter)
			}

			frExit := FresnelDielectric(cosTheta, ior, 1.0)
			if frExit < 0 || frExit > 1 {
				t.Fatalf("ior=%v cos=%v: exiting reflectance %v out of [0,1]", ior, cosTheta, frExit)
			}
		}
	}
}

// TestFresnelDielectric_NormalIncidence checks the textbook closed form
// R(0) = ((n2-n1)/(n2+n1))^2 at normal incidence.
func TestFresnelDielectric_NormalIncidence(t *testing.T) {
	const ior = 1.5
	want := math.Pow((ior-1)/(ior+1), 2)
	got := FresnelDielectric(1.0, 1.0, ior)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("R(0) = %v, want %v", got, want)
	}
}

// TestFresnelConductor_Bounded mirrors the dielectric bound for conductors:
// the unpolarized reflectance must never leave [0,1] regardless of the
// complex index of refraction.
func TestFresnelConductor_Bounded(t *testing.T) {
	etas := []struct{ eta, k float64 }{
		{0.2, 3.0}, {1.0, 2.0}, {2.5, 4.5},
	}
	for _, e := range etas {
		for cosDeg := 1; cosDeg <= 89; cosDeg++ {
			cosTheta := math.Cos(float64(cosDeg) * math.Pi / 180)
			fr := FresnelConductor(cosTheta, e.eta, e.k)
			if fr < 0 || fr > 1 {
				t.Fatalf("eta=%v k=%v cos=%v: reflectance %v out of [0,1]", e.eta, e.k, cosTheta, fr)
			}
		}
	}
}
