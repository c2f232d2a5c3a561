package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/lights"
	"github.com/df07/spectral-path-tracer/pkg/transport"
)

// Naive is the unidirectional path tracer with no explicit light sampling
// (spec.md §4.F.2): biased toward wide emitters, incapable of sampling
// point/directional lights at all. Grounded on the teacher's
// path_tracing.go with CalculateDirectLighting removed.
type Naive struct {
	Config core.SamplingConfig
}

func NewNaive(config core.SamplingConfig) *Naive { return &Naive{Config: config} }

func (n *Naive) RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) (core.RayColor, core.WavelengthBundle, []core.SplatRay) {
	wl := core.NewRGBBundle()
	if n.Config.IsSpectral() {
		wl = core.NewSpectralBundle(n.Config.SpectralBundleWidth, sampler.Get1D())
	}
	rng := rand.New(rand.NewSource(int64(sampler.Get1D() * 1e15)))

	throughput := core.FromRGB(core.Vec3{X: 1, Y: 1, Z: 1})
	if n.Config.IsSpectral() {
		throughput = core.RayColor{N: wl.N}
		for i := 0; i < wl.N; i++ {
			throughput.Samples[i] = 1
		}
	}
	radiance := core.ZeroColor()
	radiance.N = throughput.N
	cur := ray

	for depth := 0; depth < n.Config.MaxDepth; depth++ {
		term, comp := transport.RussianRoulette(depth, n.Config.RussianRouletteMinBounces, throughput, wl, sampler.Get1D())
		if term {
			break
		}
		throughput = throughput.Scale(comp)

		hit, ok := scene.Intersect(cur, shadowEpsilon, math.Inf(1))
		if !ok {
			radiance = radiance.Add(missRadiance(scene, cur, wl).Multiply(throughput))
			break
		}

		if hit.IsLightSurface() {
			if light := scene.LightForHit(hit); light != nil {
				rad, _, _ := light.Radiance(cur, hit, wl)
				radiance = radiance.Add(rad.Multiply(throughput))
			}
			break
		}

		radiance = radiance.Add(hit.Material.EmittedRadiance(cur, hit).Multiply(throughput))

		s, frame, newWL, ok := transport.Step(cur, hit, wl, rng)
		if !ok {
			break
		}
		wl = newWL
		throughput = throughput.Multiply(s.Weight).Div(s.PdfFwd)
		cur = core.SpawnRay(hit.Point, frame.LocalToWorld(s.Incoming), hit.Normal)
	}

	return radiance, wl, nil
}

func missRadiance(scene core.Scene, ray core.Ray, wl core.WavelengthBundle) core.RayColor {
	for _, l := range scene.Lights() {
		if !l.IsFinite() {
			if _, ok := l.(*lights.Background); ok {
				rad, _, _ := l.Radiance(ray, nil, wl)
				return rad
			}
		}
	}
	return core.ZeroColor()
}
