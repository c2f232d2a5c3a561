package materials

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/bsdf"
	"github.com/df07/spectral-path-tracer/pkg/core"
)

// Kind selects which BSDF a Material's PrepareBSDF constructs.
type Kind int

const (
	KindLambertian Kind = iota
	KindOrenNayar
	KindDielectric
	KindConductor
	KindPlastic
)

// Dispersion holds the Sellmeier-style coefficients spec.md §4.D names
// ("IoR from the hero wavelength via a Sellmeier-style equation
// parameterized by coefficients C, D"): ior(lambda_um) = sqrt(1 + C /
// (lambda_um^2 - D)).
type Dispersion struct {
	C, D float64
}

func (d Dispersion) iorAt(nm float64) float64 {
	lambdaUm := nm / 1000.0
	v := 1 + d.C/(lambdaUm*lambdaUm-d.D)
	if v < 1 {
		v = 1
	}
	return math.Sqrt(v)
}

// Material is the textured-parameter container implementing core.Material.
// Grounded on the teacher's pkg/material package split (one struct per
// BSDF kind there); unified here into a single container per spec.md §4.D
// so textures/emission/dispersion are handled once regardless of lobe.
type Material struct {
	Kind      Kind
	Albedo    ColorSource
	Roughness ScalarSource
	Metalness ScalarSource
	IOR       float64
	ConductorEta, ConductorK float64

	EmissionColor ColorSource
	EmissionPower float64

	Dispersive bool
	Dispersion Dispersion
}

func NewLambertianMaterial(albedo core.Vec3) *Material {
	return &Material{Kind: KindLambertian, Albedo: Constant(albedo), Roughness: ConstantScalar(1)}
}

func NewOrenNayarMaterial(albedo core.Vec3, roughness float64) *Material {
	return &Material{Kind: KindOrenNayar, Albedo: Constant(albedo), Roughness: ConstantScalar(roughness)}
}

func NewDielectricMaterial(ior, roughness float64) *Material {
	return &Material{Kind: KindDielectric, IOR: ior, Roughness: ConstantScalar(roughness), Albedo: Constant(core.Vec3{X: 1, Y: 1, Z: 1})}
}

func NewDispersiveDielectricMaterial(ior, roughness float64, disp Dispersion) *Material {
	m := NewDielectricMaterial(ior, roughness)
	m.Dispersive = true
	m.Dispersion = disp
	return m
}

func NewConductorMaterial(eta, k float64, tint core.Vec3, roughness float64) *Material {
	return &Material{Kind: KindConductor, ConductorEta: eta, ConductorK: k, Albedo: Constant(tint), Roughness: ConstantScalar(roughness)}
}

func NewPlasticMaterial(albedo core.Vec3, ior float64) *Material {
	return &Material{Kind: KindPlastic, Albedo: Constant(albedo), IOR: ior, Roughness: ConstantScalar(0)}
}

func (m *Material) WithEmission(color core.Vec3, power float64) *Material {
	m.EmissionColor = Constant(color)
	m.EmissionPower = power
	return m
}

func (m *Material) IsEmissive() bool { return m.EmissionColor != nil && m.EmissionPower > 0 }

func (m *Material) IsDispersive() bool { return m.Dispersive }

// Emit implements core.Emitter, letting an area light delegate straight to
// its material's emission (spec.md §4.C: "Emit ... delegates to material's
// Emitter interface").
func (m *Material) Emit(rayIn core.Ray, hit *core.HitRecord) core.RayColor {
	return m.EmittedRadiance(rayIn, hit)
}

func (m *Material) EmittedRadiance(rayIn core.Ray, hit *core.HitRecord) core.RayColor {
	if !m.IsEmissive() || !hit.FrontFace {
		return core.ZeroColor()
	}
	c := m.EmissionColor.Sample(hit.UV).Multiply(m.EmissionPower)
	return core.FromRGB(c)
}

// PrepareBSDF builds the appropriately textured BSDF for this hit. For a
// dispersive dielectric, the IoR used for the Fresnel split is evaluated at
// the bundle's current hero wavelength; the bundle is only actually
// collapsed by the caller (pkg/transport/walk.go) once it observes the
// resulting BSDFSample's event is a refraction (spec.md §4.D: "when ... a
// refraction event fires, the material collapses the wavelength bundle").
func (m *Material) PrepareBSDF(hit *core.HitRecord, wl *core.WavelengthBundle) core.BSDF {
	roughness := 1.0
	if m.Roughness != nil {
		roughness = m.Roughness.Sample(hit.UV)
	}

	switch m.Kind {
	case KindLambertian:
		return bsdf.NewLambertian(core.FromRGB(m.Albedo.Sample(hit.UV)))
	case KindOrenNayar:
		return bsdf.NewOrenNayar(core.FromRGB(m.Albedo.Sample(hit.UV)), roughness)
	case KindDielectric:
		ior := m.IOR
		if m.Dispersive {
			ior = m.Dispersion.iorAt(wl.HeroNM())
		}
		return bsdf.NewDielectric(ior, roughness)
	case KindConductor:
		return bsdf.NewConductor(m.ConductorEta, m.ConductorK, core.FromRGB(m.Albedo.Sample(hit.UV)), roughness)
	case KindPlastic:
		return bsdf.NewPlastic(core.FromRGB(m.Albedo.Sample(hit.UV)), m.IOR)
	default:
		return bsdf.NewLambertian(core.FromRGB(m.Albedo.Sample(hit.UV)))
	}
}
