package bsdf

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// FresnelConductor computes the unpolarized Fresnel reflectance at a
// conductor interface given the complex index of refraction (eta, k).
func FresnelConductor(cosThetaI, eta, k float64) float64 {
	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2
	eta2, k2 := eta*eta, k*k
	t0 := eta2 - k2 - sin2
	a2plusb2 := math.Sqrt(math.Max(0, t0*t0+4*eta2*k2))
	t1 := a2plusb2 + cos2
	a := math.Sqrt(math.Max(0, 0.5*(a2plusb2+t0)))
	t2 := 2 * a * cosThetaI
	rs := (t1 - t2) / (t1 + t2)
	t3 := cos2*a2plusb2 + sin2*sin2
	t4 := t2 * sin2
	rp := rs * (t3 - t4) / (t3 + t4)
	return 0.5 * (rs + rp)
}

// Conductor is a smooth or rough metallic reflector: a specular lobe
// weighted by the conductor Fresnel term, tinted by a reflectance color
// that substitutes for a full per-wavelength complex IoR spectrum.
type Conductor struct {
	Eta, K     float64
	Tint       core.RayColor
	Roughness  float64
}

func NewConductor(eta, k float64, tint core.RayColor, roughness float64) *Conductor {
	return &Conductor{Eta: eta, K: k, Tint: tint, Roughness: roughness}
}

func (c *Conductor) IsDelta() bool { return c.Roughness < core.SmoothRoughnessThreshold }

func (c *Conductor) Sample(outgoing, sample core.Vec3, wl core.WavelengthBundle) core.BSDFSample {
	if absCosTheta(outgoing) < core.GrazingEpsilon {
		return core.BSDFSample{}
	}
	incoming := reflectLocal(outgoing)
	fr := FresnelConductor(absCosTheta(outgoing), c.Eta, c.K)
	event := core.SpecularReflection
	if !c.IsDelta() {
		event = core.GlossyReflection
	}
	return core.BSDFSample{Incoming: incoming, Weight: c.Tint.Scale(fr), PdfFwd: 1.0, Event: event}
}

func (c *Conductor) Evaluate(incoming, outgoing core.Vec3, wl core.WavelengthBundle) core.BSDFEval {
	if c.IsDelta() {
		return core.BSDFEval{}
	}
	return core.BSDFEval{}
}

func (c *Conductor) Pdf(incoming, outgoing core.Vec3, reverse bool) float64 { return 0 }

// Plastic layers a smooth dielectric clear coat over a Lambertian diffuse
// base: the teacher's pack has no direct analogue, so this is grounded
// structurally on how Dielectric and Lambertian above are each built,
// composed per spec.md §4.D's "layered dielectric-over-diffuse" note.
type Plastic struct {
	Diffuse  *Lambertian
	Specular *Dielectric
}

func NewPlastic(albedo core.RayColor, ior float64) *Plastic {
	return &Plastic{Diffuse: NewLambertian(albedo), Specular: NewDielectric(ior, 0)}
}

func (p *Plastic) IsDelta() bool { return false }

func (p *Plastic) specularWeight(outgoing core.Vec3) float64 {
	return FresnelDielectric(absCosTheta(outgoing), 1.0, p.Specular.IOR)
}

func (p *Plastic) Sample(outgoing, sample core.Vec3, wl core.WavelengthBundle) core.BSDFSample {
	if absCosTheta(outgoing) < core.GrazingEpsilon {
		return core.BSDFSample{}
	}
	specWeight := p.specularWeight(outgoing)
	if sample.Z < specWeight {
		incoming := reflectLocal(outgoing)
		return core.BSDFSample{Incoming: incoming, Weight: core.NewRGBColor(specWeight, specWeight, specWeight), PdfFwd: specWeight, Event: core.SpecularReflection}
	}
	remapped := core.Vec3{X: sample.X, Y: sample.Y, Z: (sample.Z - specWeight) / (1 - specWeight)}
	s := p.Diffuse.Sample(outgoing, remapped, wl)
	if s.IsNull() {
		return s
	}
	s.PdfFwd *= 1 - specWeight
	s.Weight = s.Weight.Scale(1 - specWeight)
	return s
}

func (p *Plastic) Evaluate(incoming, outgoing core.Vec3, wl core.WavelengthBundle) core.BSDFEval {
	specWeight := p.specularWeight(outgoing)
	eval := p.Diffuse.Evaluate(incoming, outgoing, wl)
	eval.Weight = eval.Weight.Scale(1 - specWeight)
	eval.PdfFwd *= 1 - specWeight
	eval.PdfRev *= 1 - specWeight
	return eval
}

func (p *Plastic) Pdf(incoming, outgoing core.Vec3, reverse bool) float64 {
	specWeight := p.specularWeight(outgoing)
	return (1 - specWeight) * p.Diffuse.Pdf(incoming, outgoing, reverse)
}
