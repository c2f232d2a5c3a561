// Package bsdf implements the concrete BSDF family of spec.md §4.D, working
// entirely in local tangent space (X = tangent, Z = normal) per the
// core.BSDF contract. Grounded on the teacher's pkg/material/lambertian.go
// and pkg/material/dielectric.go, generalized from the teacher's
// world-space Scatter(ray, hit, rand) shape to the spec's local-space
// sample/evaluate/pdf protocol.
package bsdf

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

func cosTheta(w core.Vec3) float64     { return w.Z }
func absCosTheta(w core.Vec3) float64  { return math.Abs(w.Z) }
func sameHemisphere(a, b core.Vec3) bool { return a.Z*b.Z > 0 }

// Lambertian is a perfectly diffuse reflector: f = albedo/pi, importance
// sampled by a cosine-weighted hemisphere direction.
type Lambertian struct {
	Albedo core.RayColor
}

func NewLambertian(albedo core.RayColor) *Lambertian { return &Lambertian{Albedo: albedo} }

func (l *Lambertian) IsDelta() bool { return false }

func (l *Lambertian) Sample(outgoing, sample core.Vec3, wl core.WavelengthBundle) core.BSDFSample {
	if absCosTheta(outgoing) < core.GrazingEpsilon {
		return core.BSDFSample{}
	}
	local := core.RandomCosineDirection(core.Vec3{Z: 1}, core.Vec2{X: sample.X, Y: sample.Y})
	incoming := core.Vec3{X: local.X, Y: local.Y, Z: local.Z}
	if outgoing.Z < 0 {
		incoming.Z = -incoming.Z
	}
	pdf := absCosTheta(incoming) / math.Pi
	if pdf <= 0 {
		return core.BSDFSample{}
	}
	weight := l.Albedo.Scale(1.0 / math.Pi).Scale(absCosTheta(incoming))
	return core.BSDFSample{Incoming: incoming, Weight: weight, PdfFwd: pdf, Event: core.DiffuseReflection}
}

func (l *Lambertian) Evaluate(incoming, outgoing core.Vec3, wl core.WavelengthBundle) core.BSDFEval {
	if !sameHemisphere(incoming, outgoing) || absCosTheta(incoming) < core.GrazingEpsilon || absCosTheta(outgoing) < core.GrazingEpsilon {
		return core.BSDFEval{}
	}
	pdf := absCosTheta(incoming) / math.Pi
	return core.BSDFEval{Weight: l.Albedo.Scale(1.0 / math.Pi), PdfFwd: pdf, PdfRev: absCosTheta(outgoing) / math.Pi}
}

func (l *Lambertian) Pdf(incoming, outgoing core.Vec3, reverse bool) float64 {
	if !sameHemisphere(incoming, outgoing) {
		return 0
	}
	if reverse {
		return absCosTheta(outgoing) / math.Pi
	}
	return absCosTheta(incoming) / math.Pi
}

// OrenNayar is the rough-diffuse microfacet approximation: Lambertian with
// a roughness-dependent A/B modulation of the reflectance.
type OrenNayar struct {
	Albedo    core.RayColor
	Roughness float64
}

func NewOrenNayar(albedo core.RayColor, roughness float64) *OrenNayar {
	return &OrenNayar{Albedo: albedo, Roughness: roughness}
}

func (o *OrenNayar) IsDelta() bool { return false }

func (o *OrenNayar) abFactors() (a, b float64) {
	sigma2 := o.Roughness * o.Roughness
	a = 1.0 - sigma2/(2*(sigma2+0.33))
	b = 0.45 * sigma2 / (sigma2 + 0.09)
	return
}

func (o *OrenNayar) orenNayarFactor(incoming, outgoing core.Vec3) float64 {
	a, b := o.abFactors()
	sinThetaI := math.Sqrt(math.Max(0, 1-incoming.Z*incoming.Z))
	sinThetaO := math.Sqrt(math.Max(0, 1-outgoing.Z*outgoing.Z))

	var maxCos float64
	if sinThetaI > 1e-4 && sinThetaO > 1e-4 {
		cosPhiI, sinPhiI := safeCosSin(incoming)
		cosPhiO, sinPhiO := safeCosSin(outgoing)
		dCos := cosPhiI*cosPhiO + sinPhiI*sinPhiO
		maxCos = math.Max(0, dCos)
	}

	var sinAlpha, tanBeta float64
	if absCosTheta(incoming) > absCosTheta(outgoing) {
		sinAlpha, tanBeta = sinThetaO, sinThetaI/math.Max(absCosTheta(incoming), 1e-6)
	} else {
		sinAlpha, tanBeta = sinThetaI, sinThetaO/math.Max(absCosTheta(outgoing), 1e-6)
	}
	return a + b*maxCos*sinAlpha*tanBeta
}

func safeCosSin(w core.Vec3) (cosPhi, sinPhi float64) {
	sinTheta := math.Sqrt(math.Max(0, 1-w.Z*w.Z))
	if sinTheta < 1e-9 {
		return 1, 0
	}
	return w.X / sinTheta, w.Y / sinTheta
}

func (o *OrenNayar) Sample(outgoing, sample core.Vec3, wl core.WavelengthBundle) core.BSDFSample {
	if absCosTheta(outgoing) < core.GrazingEpsilon {
		return core.BSDFSample{}
	}
	local := core.RandomCosineDirection(core.Vec3{Z: 1}, core.Vec2{X: sample.X, Y: sample.Y})
	incoming := local
	if outgoing.Z < 0 {
		incoming.Z = -incoming.Z
	}
	pdf := absCosTheta(incoming) / math.Pi
	if pdf <= 0 {
		return core.BSDFSample{}
	}
	f := o.orenNayarFactor(incoming, outgoing) / math.Pi
	weight := o.Albedo.Scale(f * absCosTheta(incoming))
	return core.BSDFSample{Incoming: incoming, Weight: weight, PdfFwd: pdf, Event: core.DiffuseReflection}
}

func (o *OrenNayar) Evaluate(incoming, outgoing core.Vec3, wl core.WavelengthBundle) core.BSDFEval {
	if !sameHemisphere(incoming, outgoing) || absCosTheta(incoming) < core.GrazingEpsilon || absCosTheta(outgoing) < core.GrazingEpsilon {
		return core.BSDFEval{}
	}
	f := o.orenNayarFactor(incoming, outgoing) / math.Pi
	return core.BSDFEval{
		Weight: o.Albedo.Scale(f),
		PdfFwd: absCosTheta(incoming) / math.Pi,
		PdfRev: absCosTheta(outgoing) / math.Pi,
	}
}

func (o *OrenNayar) Pdf(incoming, outgoing core.Vec3, reverse bool) float64 {
	if !sameHemisphere(incoming, outgoing) {
		return 0
	}
	if reverse {
		return absCosTheta(outgoing) / math.Pi
	}
	return absCosTheta(incoming) / math.Pi
}
