package lights

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// Background is the infinite environment light a ray escapes to when it
// leaves the scene without hitting geometry (spec.md §4.C "Background").
// Three variants supported: a constant uniform color, a two-color vertical
// gradient (the teacher's sky model), and an equirectangular environment
// map sampled by direction.
type Background struct {
	Top, Bottom core.Vec3
	EnvMap      *EnvironmentMap
	WorldRadius float64
}

// EnvironmentMap is a lat-long HDR environment lookup table.
type EnvironmentMap struct {
	Width, Height int
	Pixels        []core.Vec3 // row-major, linear color
}

func (e *EnvironmentMap) sample(dir core.Vec3) core.Vec3 {
	if e == nil || e.Width == 0 || e.Height == 0 {
		return core.Vec3{}
	}
	u := 0.5 + math.Atan2(dir.X, -dir.Z)/(2*math.Pi)
	v := 0.5 - math.Asin(clamp(dir.Y, -1, 1))/math.Pi
	x := int(u * float64(e.Width))
	y := int(v * float64(e.Height))
	x = clampInt(x, 0, e.Width-1)
	y = clampInt(y, 0, e.Height-1)
	return e.Pixels[y*e.Width+x]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func NewUniformBackground(color core.Vec3, worldRadius float64) *Background {
	return &Background{Top: color, Bottom: color, WorldRadius: worldRadius}
}

func NewGradientBackground(top, bottom core.Vec3, worldRadius float64) *Background {
	return &Background{Top: top, Bottom: bottom, WorldRadius: worldRadius}
}

func NewEnvironmentBackground(env *EnvironmentMap, worldRadius float64) *Background {
	return &Background{EnvMap: env, WorldRadius: worldRadius}
}

func (b *Background) colorFor(dir core.Vec3) core.Vec3 {
	if b.EnvMap != nil {
		return b.EnvMap.sample(dir)
	}
	t := 0.5 * (dir.Y + 1.0)
	return b.Bottom.Multiply(1 - t).Add(b.Top.Multiply(t))
}

func (b *Background) IsDelta() bool  { return false }
func (b *Background) IsFinite() bool { return false }

func (b *Background) Illuminate(point core.Vec3, sample core.Vec2, wl core.WavelengthBundle) core.LightSample {
	dir := core.UniformSampleSphere(sample)
	radiance := core.FromRGB(b.colorFor(dir))
	directPdfW := 1.0 / (4 * math.Pi)
	emissionPdfW := directPdfW / (math.Pi * b.WorldRadius * b.WorldRadius)
	return core.LightSample{
		Direction: dir, Distance: math.Inf(1), Radiance: radiance,
		DirectPdfW: directPdfW, EmissionPdfW: emissionPdfW,
	}
}

func (b *Background) Emit(posSample, dirSample core.Vec2, wl core.WavelengthBundle) core.EmissionSample {
	dir := core.UniformSampleSphere(dirSample).Negate()
	disk := core.SampleUniformDiskConcentric(posSample).Multiply(b.WorldRadius)
	frame := core.NewShadingFrame(core.Vec3{}, dir)
	origin := frame.Tangent.Multiply(disk.X).Add(frame.Bitangent.Multiply(disk.Y)).Subtract(dir.Multiply(b.WorldRadius))
	directPdfA := 1.0 / (math.Pi * b.WorldRadius * b.WorldRadius)
	emissionPdfW := directPdfA * (1.0 / (4 * math.Pi))
	return core.EmissionSample{
		Point: origin, Normal: dir, Direction: dir, Radiance: core.FromRGB(b.colorFor(dir.Negate())),
		DirectPdfA: directPdfA, EmissionPdfW: emissionPdfW, CosAtLight: 1.0,
	}
}

// Radiance is called when an escaping ray resolves to the background
// (spec.md §4.C: background lights are never hit through Scene.Intersect,
// only queried directly by the integrator on a miss).
func (b *Background) Radiance(rayIn core.Ray, hit *core.HitRecord, wl core.WavelengthBundle) (core.RayColor, float64, float64) {
	dir := rayIn.Direction.Normalize()
	directPdfW := 1.0 / (4 * math.Pi)
	emissionPdfW := directPdfW / (math.Pi * b.WorldRadius * b.WorldRadius)
	return core.FromRGB(b.colorFor(dir)), directPdfW, emissionPdfW
}
