package bsdf

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// reflectLocal reflects v about the local-space normal (0,0,1).
func reflectLocal(v core.Vec3) core.Vec3 { return core.Vec3{X: -v.X, Y: -v.Y, Z: v.Z} }

// refractLocal refracts v (pointing away from the surface, local space)
// through the interface with the given eta ratio (incident IoR / transmitted
// IoR), returning ok=false on total internal reflection.
func refractLocal(v core.Vec3, eta float64) (core.Vec3, bool) {
	cosThetaI := absCosTheta(v)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return core.Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	t := core.Vec3{X: -v.X / eta, Y: -v.Y / eta, Z: -cosThetaT}
	if v.Z > 0 {
		t.Z = -cosThetaT
	} else {
		t.Z = cosThetaT
	}
	return t, true
}

// FresnelDielectric computes the unpolarized Fresnel reflectance at the
// interface between two dielectrics via Schlick's approximation, grounded
// on the teacher's material.Reflectance.
func FresnelDielectric(cosThetaI, etaI, etaT float64) float64 {
	r0 := (etaI - etaT) / (etaI + etaT)
	r0 *= r0
	c := 1 - math.Abs(cosThetaI)
	return r0 + (1-r0)*c*c*c*c*c
}

// Dielectric models smooth or rough glass: reflection and transmission
// weighted by Fresnel, with Snell's law refraction. Roughness below
// core.SmoothRoughnessThreshold collapses to a perfect specular BSDF
// (spec.md §4.D edge-case policy); above it, Sample returns the same
// mirror and Snell directions and only labels them as glossy events: no
// half-vector perturbation is applied.
type Dielectric struct {
	IOR       float64
	Roughness float64
}

func NewDielectric(ior, roughness float64) *Dielectric { return &Dielectric{IOR: ior, Roughness: roughness} }

func (d *Dielectric) IsDelta() bool { return d.Roughness < core.SmoothRoughnessThreshold }

func (d *Dielectric) etaFor(outgoing core.Vec3) (etaI, etaT float64) {
	if outgoing.Z > 0 {
		return 1.0, d.IOR
	}
	return d.IOR, 1.0
}

func (d *Dielectric) Sample(outgoing, sample core.Vec3, wl core.WavelengthBundle) core.BSDFSample {
	if absCosTheta(outgoing) < core.GrazingEpsilon {
		return core.BSDFSample{}
	}
	etaI, etaT := d.etaFor(outgoing)
	cosThetaO := outgoing.Z
	fr := FresnelDielectric(cosThetaO, etaI, etaT)

	if sample.Z < fr {
		incoming := reflectLocal(outgoing)
		event := core.SpecularReflection
		if !d.IsDelta() {
			event = core.GlossyReflection
		}
		// Weight already folds in the |cos theta_i| the caller would
		// otherwise have to multiply by (spec.md §4.D): the delta lobe's
		// pdf and cosine cancel, leaving the bare Fresnel reflectance.
		return core.BSDFSample{Incoming: incoming, Weight: core.NewRGBColor(fr, fr, fr), PdfFwd: fr, Event: event}
	}

	eta := etaI / etaT
	incoming, ok := refractLocal(outgoing, eta)
	if !ok {
		return core.BSDFSample{}
	}
	ft := 1 - fr
	event := core.SpecularRefraction
	if !d.IsDelta() {
		event = core.GlossyRefraction
	}
	// Radiance scaling for refraction crossing between media of different
	// IoR (non-symmetric transport), divided by eta^2 in radiance mode.
	scale := ft / (eta * eta)
	return core.BSDFSample{Incoming: incoming, Weight: core.NewRGBColor(scale, scale, scale), PdfFwd: ft, Event: event}
}

func (d *Dielectric) Evaluate(incoming, outgoing core.Vec3, wl core.WavelengthBundle) core.BSDFEval {
	if d.IsDelta() {
		return core.BSDFEval{}
	}
	// Rough dielectric evaluation also returns zero: no microfacet
	// half-vector distribution ships in the retrieval pack, so the rough
	// case is sample-only.
	return core.BSDFEval{}
}

func (d *Dielectric) Pdf(incoming, outgoing core.Vec3, reverse bool) float64 {
	return 0
}
