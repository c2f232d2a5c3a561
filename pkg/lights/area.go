// Package lights implements the core.Light protocol variants of spec.md
// §4.C: Area, Sphere (see sphere.go), Point, Directional, Spot, Background.
// Grounded on the teacher's pkg/lights/quad_light.go, generalized from its
// Sample/PDF/SampleEmission/EmissionPDF/PDF_Le four-method split to the
// spec's three-verb illuminate/emit/radiance protocol.
package lights

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/geometry"
)

// Area is a rectangular (quad) area light.
type Area struct {
	Quad     *geometry.Quad
	Emitter  core.Emitter
	Material core.Material
}

func NewAreaQuad(corner, u, v core.Vec3, mat core.Material) *Area {
	quad := geometry.NewQuad(corner, u, v)
	emitter, _ := mat.(core.Emitter)
	return &Area{Quad: quad, Emitter: emitter, Material: mat}
}

func (a *Area) IsDelta() bool  { return false }
func (a *Area) IsFinite() bool { return true }

func (a *Area) emit(ray core.Ray, hit *core.HitRecord) core.RayColor {
	if a.Emitter == nil {
		return core.ZeroColor()
	}
	return a.Emitter.Emit(ray, hit)
}

func (a *Area) Illuminate(point core.Vec3, sample core.Vec2, wl core.WavelengthBundle) core.LightSample {
	samplePoint := a.Quad.PointFromUV(sample.X, sample.Y)
	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance < 1e-8 {
		return core.LightSample{}
	}
	direction := toLight.Multiply(1.0 / distance)

	cosAtLight := math.Abs(a.Quad.Normal.Dot(direction.Negate()))
	if cosAtLight < 1e-8 {
		return core.LightSample{}
	}
	area := a.Quad.Area()
	directPdfW := distance * distance / (cosAtLight * area)
	emissionPdfW := cosAtLight / (math.Pi * area)

	isFrontFace := direction.Dot(a.Quad.Normal) < 0
	if !isFrontFace {
		return core.LightSample{}
	}
	hit := &core.HitRecord{Point: samplePoint, Normal: a.Quad.Normal, FrontFace: true}
	radiance := a.emit(core.NewRay(point, direction), hit)

	return core.LightSample{
		Direction: direction, Distance: distance, Radiance: radiance,
		DirectPdfW: directPdfW, EmissionPdfW: emissionPdfW, CosAtLight: cosAtLight,
	}
}

func (a *Area) Emit(posSample, dirSample core.Vec2, wl core.WavelengthBundle) core.EmissionSample {
	point := a.Quad.PointFromUV(posSample.X, posSample.Y)
	dir := core.RandomCosineDirection(a.Quad.Normal, dirSample)
	area := a.Quad.Area()
	directPdfA := 1.0 / area
	cosAtLight := dir.Dot(a.Quad.Normal)
	if cosAtLight < 0 {
		cosAtLight = 0
	}
	emissionPdfW := cosAtLight / math.Pi
	hit := &core.HitRecord{Point: point, Normal: a.Quad.Normal, FrontFace: true}
	radiance := a.emit(core.NewRay(point, dir), hit)
	return core.EmissionSample{
		Point: point, Normal: a.Quad.Normal, Direction: dir, Radiance: radiance,
		DirectPdfA: directPdfA, EmissionPdfW: emissionPdfW, CosAtLight: cosAtLight,
	}
}

func (a *Area) Radiance(rayIn core.Ray, hit *core.HitRecord, wl core.WavelengthBundle) (core.RayColor, float64, float64) {
	if !hit.FrontFace {
		return core.ZeroColor(), 0, 0
	}
	area := a.Quad.Area()
	directPdfA := 1.0 / area
	cosAtLight := math.Max(0, hit.Normal.Dot(rayIn.Direction.Negate()))
	emissionPdfW := cosAtLight / math.Pi
	return a.emit(rayIn, hit), directPdfA, emissionPdfW
}
