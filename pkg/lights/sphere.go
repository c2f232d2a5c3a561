package lights

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/geometry"
)

// Sphere is a spherical area light. For Illuminate it builds the cone
// subtended by the sphere from the shading point and samples uniformly
// within it (spec.md §4.C "For Sphere: build a cone ... and sample
// uniformly within it"), falling back to uniform sampling of the whole
// sphere surface when the point is inside the sphere.
type Sphere struct {
	Shape    *geometry.Sphere
	Emitter  core.Emitter
	Material core.Material
}

func NewSphereLight(center core.Vec3, radius float64, mat core.Material) *Sphere {
	emitter, _ := mat.(core.Emitter)
	return &Sphere{Shape: geometry.NewSphere(center, radius), Emitter: emitter, Material: mat}
}

func (s *Sphere) IsDelta() bool  { return false }
func (s *Sphere) IsFinite() bool { return true }

func (s *Sphere) area() float64 { return 4 * math.Pi * s.Shape.Radius * s.Shape.Radius }

func (s *Sphere) emit(ray core.Ray, hit *core.HitRecord) core.RayColor {
	if s.Emitter == nil {
		return core.ZeroColor()
	}
	return s.Emitter.Emit(ray, hit)
}

func (s *Sphere) Illuminate(point core.Vec3, sample core.Vec2, wl core.WavelengthBundle) core.LightSample {
	toCenter := s.Shape.Center.Subtract(point)
	distToCenter := toCenter.Length()
	radius := s.Shape.Radius

	if distToCenter <= radius {
		// Inside the sphere: fall back to uniform sampling of the full
		// surface rather than a cone (no cone exists).
		dir := core.UniformSampleSphere(sample)
		samplePoint := s.Shape.Center.Add(dir.Multiply(radius))
		toLight := samplePoint.Subtract(point)
		distance := toLight.Length()
		if distance < 1e-8 {
			return core.LightSample{}
		}
		direction := toLight.Multiply(1.0 / distance)
		normal := dir
		cosAtLight := math.Abs(normal.Dot(direction.Negate()))
		directPdfW := distance * distance / (cosAtLight * s.area())
		hit := &core.HitRecord{Point: samplePoint, Normal: normal, FrontFace: true}
		radiance := s.emit(core.NewRay(point, direction), hit)
		return core.LightSample{
			Direction: direction, Distance: distance, Radiance: radiance,
			DirectPdfW: directPdfW, EmissionPdfW: cosAtLight / (math.Pi * s.area()), CosAtLight: cosAtLight,
		}
	}

	sinThetaMax2 := (radius * radius) / (distToCenter * distToCenter)
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax2))
	frame := core.NewShadingFrame(point, toCenter.Multiply(1/distToCenter))
	direction := core.UniformSampleCone(sample, cosThetaMax, frame)

	// Find the actual intersection point on the sphere along this direction
	// so emission and normal are physically correct.
	ray := core.NewRay(point, direction)
	hit, ok := s.Shape.Hit(ray, 1e-6, math.Inf(1))
	if !ok {
		return core.LightSample{}
	}
	distance := hit.Distance
	cosAtLight := math.Abs(hit.Normal.Dot(direction.Negate()))
	directPdfW := core.UniformConePDF(cosThetaMax)
	radiance := s.emit(ray, hit)
	return core.LightSample{
		Direction: direction, Distance: distance, Radiance: radiance,
		DirectPdfW: directPdfW, EmissionPdfW: cosAtLight / (math.Pi * s.area()), CosAtLight: cosAtLight,
	}
}

func (s *Sphere) Emit(posSample, dirSample core.Vec2, wl core.WavelengthBundle) core.EmissionSample {
	normal := core.UniformSampleSphere(posSample)
	point := s.Shape.Center.Add(normal.Multiply(s.Shape.Radius))
	dir := core.RandomCosineDirection(normal, dirSample)
	cosAtLight := math.Max(0, dir.Dot(normal))
	hit := &core.HitRecord{Point: point, Normal: normal, FrontFace: true}
	radiance := s.emit(core.NewRay(point, dir), hit)
	return core.EmissionSample{
		Point: point, Normal: normal, Direction: dir, Radiance: radiance,
		DirectPdfA: 1.0 / s.area(), EmissionPdfW: cosAtLight / math.Pi, CosAtLight: cosAtLight,
	}
}

func (s *Sphere) Radiance(rayIn core.Ray, hit *core.HitRecord, wl core.WavelengthBundle) (core.RayColor, float64, float64) {
	if !hit.FrontFace {
		return core.ZeroColor(), 0, 0
	}
	directPdfA := 1.0 / s.area()
	cosAtLight := math.Max(0, hit.Normal.Dot(rayIn.Direction.Negate()))
	emissionPdfW := cosAtLight / math.Pi
	return s.emit(rayIn, hit), directPdfA, emissionPdfW
}
