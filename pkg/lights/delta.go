package lights

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// Point is an isotropic point light; a pure delta light (spec.md §4.C).
// Grounded on the teacher's geometry.PointSpotLight with the cone removed.
type Point struct {
	Position core.Vec3
	Emission core.RayColor
}

func NewPoint(position core.Vec3, emission core.RayColor) *Point {
	return &Point{Position: position, Emission: emission}
}

func (p *Point) IsDelta() bool  { return true }
func (p *Point) IsFinite() bool { return true }

func (p *Point) Illuminate(point core.Vec3, sample core.Vec2, wl core.WavelengthBundle) core.LightSample {
	toLight := p.Position.Subtract(point)
	distance := toLight.Length()
	if distance < 1e-8 {
		return core.LightSample{}
	}
	direction := toLight.Multiply(1.0 / distance)
	return core.LightSample{
		Direction: direction, Distance: distance, Radiance: p.Emission,
		DirectPdfW: distance * distance, EmissionPdfW: 1.0 / (4 * math.Pi), IsDelta: true,
	}
}

func (p *Point) Emit(posSample, dirSample core.Vec2, wl core.WavelengthBundle) core.EmissionSample {
	dir := core.UniformSampleSphere(dirSample)
	return core.EmissionSample{
		Point: p.Position, Normal: dir, Direction: dir, Radiance: p.Emission,
		DirectPdfA: 1.0, EmissionPdfW: 1.0 / (4 * math.Pi), CosAtLight: 1.0,
	}
}

func (p *Point) Radiance(core.Ray, *core.HitRecord, core.WavelengthBundle) (core.RayColor, float64, float64) {
	return core.ZeroColor(), 0, 0
}

// Spot is a point light with a cone falloff (spec.md §4.C "Spot").
// Grounded on the teacher's geometry.PointSpotLight.
type Spot struct {
	Position        core.Vec3
	Direction       core.Vec3
	Emission        core.RayColor
	CosTotalWidth   float64
	CosFalloffStart float64
}

func NewSpot(from, to core.Vec3, emission core.RayColor, coneAngleDeg, falloffDeltaDeg float64) *Spot {
	dir := to.Subtract(from).Normalize()
	total := coneAngleDeg * math.Pi / 180
	start := (coneAngleDeg - falloffDeltaDeg) * math.Pi / 180
	return &Spot{
		Position: from, Direction: dir, Emission: emission,
		CosTotalWidth: math.Cos(total), CosFalloffStart: math.Cos(start),
	}
}

func (s *Spot) falloff(cosAngle float64) float64 {
	if cosAngle < s.CosTotalWidth {
		return 0
	}
	if cosAngle >= s.CosFalloffStart {
		return 1
	}
	delta := (cosAngle - s.CosTotalWidth) / (s.CosFalloffStart - s.CosTotalWidth)
	return delta * delta * delta * delta
}

func (s *Spot) IsDelta() bool  { return true }
func (s *Spot) IsFinite() bool { return true }

func (s *Spot) Illuminate(point core.Vec3, sample core.Vec2, wl core.WavelengthBundle) core.LightSample {
	toLight := s.Position.Subtract(point)
	distance := toLight.Length()
	if distance < 1e-8 {
		return core.LightSample{}
	}
	direction := toLight.Multiply(1.0 / distance)
	cosAngle := s.Direction.Dot(direction.Negate())
	atten := s.falloff(cosAngle)
	if atten <= 0 {
		return core.LightSample{}
	}
	cone := core.UniformConePDF(s.CosTotalWidth)
	return core.LightSample{
		Direction: direction, Distance: distance, Radiance: s.Emission.Scale(atten),
		DirectPdfW: distance * distance, EmissionPdfW: cone, IsDelta: true,
	}
}

func (s *Spot) Emit(posSample, dirSample core.Vec2, wl core.WavelengthBundle) core.EmissionSample {
	frame := core.NewShadingFrame(s.Position, s.Direction)
	dir := core.UniformSampleCone(dirSample, s.CosTotalWidth, frame)
	atten := s.falloff(dir.Dot(s.Direction))
	cone := core.UniformConePDF(s.CosTotalWidth)
	return core.EmissionSample{
		Point: s.Position, Normal: dir, Direction: dir, Radiance: s.Emission.Scale(atten),
		DirectPdfA: 1.0, EmissionPdfW: cone, CosAtLight: 1.0,
	}
}

func (s *Spot) Radiance(core.Ray, *core.HitRecord, core.WavelengthBundle) (core.RayColor, float64, float64) {
	return core.ZeroColor(), 0, 0
}

// Directional is a parallel-ray light with a small angular aperture (the
// sun); delta when aperture < epsilon (spec.md §4.C).
type Directional struct {
	Direction   core.Vec3 // direction the light travels (toward the scene)
	Emission    core.RayColor
	HalfAngle   float64
	WorldRadius float64
}

func NewDirectional(direction core.Vec3, emission core.RayColor, halfAngleRad, worldRadius float64) *Directional {
	return &Directional{Direction: direction.Normalize(), Emission: emission, HalfAngle: halfAngleRad, WorldRadius: worldRadius}
}

func (d *Directional) isDelta() bool { return d.HalfAngle < 1e-5 }
func (d *Directional) IsDelta() bool { return d.isDelta() }
func (d *Directional) IsFinite() bool { return false }

func (d *Directional) Illuminate(point core.Vec3, sample core.Vec2, wl core.WavelengthBundle) core.LightSample {
	toLight := d.Direction.Negate()
	cosThetaMax := math.Cos(d.HalfAngle)
	if !d.isDelta() {
		frame := core.NewShadingFrame(point, toLight)
		toLight = core.UniformSampleCone(sample, cosThetaMax, frame)
	}
	directPdfW := 1.0
	if !d.isDelta() {
		directPdfW = core.UniformConePDF(cosThetaMax)
	}
	emissionPdfW := directPdfW / (math.Pi * d.WorldRadius * d.WorldRadius)
	return core.LightSample{
		Direction: toLight, Distance: math.Inf(1), Radiance: d.Emission,
		DirectPdfW: directPdfW, EmissionPdfW: emissionPdfW, IsDelta: d.isDelta(),
	}
}

func (d *Directional) Emit(posSample, dirSample core.Vec2, wl core.WavelengthBundle) core.EmissionSample {
	disk := core.SampleUniformDiskConcentric(posSample).Multiply(d.WorldRadius)
	frame := core.NewShadingFrame(core.Vec3{}, d.Direction)
	origin := frame.Tangent.Multiply(disk.X).Add(frame.Bitangent.Multiply(disk.Y)).Subtract(d.Direction.Multiply(d.WorldRadius))
	directPdfA := 1.0 / (math.Pi * d.WorldRadius * d.WorldRadius)
	return core.EmissionSample{
		Point: origin, Normal: d.Direction, Direction: d.Direction, Radiance: d.Emission,
		DirectPdfA: directPdfA, EmissionPdfW: directPdfA, CosAtLight: 1.0,
	}
}

func (d *Directional) Radiance(core.Ray, *core.HitRecord, core.WavelengthBundle) (core.RayColor, float64, float64) {
	return core.ZeroColor(), 0, 0
}
