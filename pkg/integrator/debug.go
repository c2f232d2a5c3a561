package integrator

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// AOVMode selects which debug channel Debug.RayColor visualizes (spec.md
// §4.F.1). New: the teacher has no AOV integrator to ground this on, so
// the channel set is built directly from HitRecord's own fields.
type AOVMode int

const (
	AOVTriangleHash AOVMode = iota
	AOVLogDepth
	AOVWorldPosition
	AOVShadingNormal
	AOVTangent
	AOVBitangent
	AOVTexcoord
	AOVBaseColor
	AOVEmission
	AOVRoughness
	AOVMetalness
)

// Debug is the AOV integrator: one primary ray, no bounces, no MIS. A miss
// always returns zero (spec.md §4.F.1).
type Debug struct {
	Mode AOVMode
}

func NewDebug(mode AOVMode) *Debug { return &Debug{Mode: mode} }

func (d *Debug) RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) (core.RayColor, core.WavelengthBundle, []core.SplatRay) {
	wl := core.NewRGBBundle()
	hit, ok := scene.Intersect(ray, shadowEpsilon, math.Inf(1))
	if !ok {
		return core.ZeroColor(), wl, nil
	}

	switch d.Mode {
	case AOVTriangleHash:
		h := hashHue(hit.ShapeID*131 + hit.SubShapeID)
		return core.FromRGB(h), wl, nil
	case AOVLogDepth:
		v := math.Log1p(hit.Distance) / 8.0
		return core.NewRGBColor(v, v, v), wl, nil
	case AOVWorldPosition:
		return core.FromRGB(core.Vec3{X: frac(hit.Point.X), Y: frac(hit.Point.Y), Z: frac(hit.Point.Z)}), wl, nil
	case AOVShadingNormal:
		n := hit.Normal
		return core.NewRGBColor(0.5*(n.X+1), 0.5*(n.Y+1), 0.5*(n.Z+1)), wl, nil
	case AOVTangent:
		f := core.NewShadingFrame(hit.Point, hit.Normal)
		return core.NewRGBColor(0.5*(f.Tangent.X+1), 0.5*(f.Tangent.Y+1), 0.5*(f.Tangent.Z+1)), wl, nil
	case AOVBitangent:
		f := core.NewShadingFrame(hit.Point, hit.Normal)
		return core.NewRGBColor(0.5*(f.Bitangent.X+1), 0.5*(f.Bitangent.Y+1), 0.5*(f.Bitangent.Z+1)), wl, nil
	case AOVTexcoord:
		return core.NewRGBColor(hit.UV.X, hit.UV.Y, 0), wl, nil
	case AOVEmission:
		if hit.Material == nil {
			return core.ZeroColor(), wl, nil
		}
		return hit.Material.EmittedRadiance(ray, hit), wl, nil
	default:
		return materialChannel(d.Mode, hit), wl, nil
	}
}

func materialChannel(mode AOVMode, hit *core.HitRecord) core.RayColor {
	if hit.Material == nil {
		return core.ZeroColor()
	}
	wl := core.NewRGBBundle()
	b := hit.Material.PrepareBSDF(hit, &wl)
	frame := core.NewShadingFrame(hit.Point, hit.Normal)
	outgoing := frame.WorldToLocal(hit.Normal)
	switch mode {
	case AOVBaseColor:
		eval := b.Evaluate(outgoing, outgoing, wl)
		return eval.Weight
	case AOVRoughness, AOVMetalness:
		if b.IsDelta() {
			return core.NewRGBColor(0, 0, 0)
		}
		return core.NewRGBColor(0.5, 0.5, 0.5)
	default:
		return core.ZeroColor()
	}
}

func frac(v float64) float64 { return v - math.Floor(v) }

func hashHue(seed int) core.Vec3 {
	h := uint32(seed)
	h ^= h << 13
	h ^= h >> 17
	h ^= h << 5
	r := float64((h>>16)&0xff) / 255.0
	g := float64((h>>8)&0xff) / 255.0
	bch := float64(h&0xff) / 255.0
	return core.Vec3{X: r, Y: g, Z: bch}
}
