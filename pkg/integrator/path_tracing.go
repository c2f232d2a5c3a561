package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/transport"
)

// PathTracing is the MIS-weighted unidirectional path tracer, the primary
// integrator (spec.md §4.F.3). Grounded on the teacher's
// pkg/integrator/path_tracing.go, restructured from the teacher's
// recursive rayColorRecursive into an explicit loop carrying
// (lastPdfW, lastSpecular) the way the spec's per-path state names them,
// and generalized from a single EvaluateBRDF/PDF pair to the BSDF
// Sample/Evaluate/Pdf protocol plus the Light Illuminate/Radiance split.
type PathTracing struct {
	Config core.SamplingConfig
}

func NewPathTracing(config core.SamplingConfig) *PathTracing { return &PathTracing{Config: config} }

func (pt *PathTracing) RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) (core.RayColor, core.WavelengthBundle, []core.SplatRay) {
	wl := core.NewRGBBundle()
	if pt.Config.IsSpectral() {
		wl = core.NewSpectralBundle(pt.Config.SpectralBundleWidth, sampler.Get1D())
	}
	rng := rand.New(rand.NewSource(int64(sampler.Get1D()*4294967296) + 1))

	throughput := initThroughput(wl)
	radiance := core.RayColor{N: throughput.N}
	cur := ray
	lastPdfW := 0.0
	lastSpecular := true

	for depth := 0; depth < pt.Config.MaxDepth; depth++ {
		hit, hitOK := scene.Intersect(cur, shadowEpsilon, math.Inf(1))

		if !hitOK {
			bg := missRadiance(scene, cur, wl)
			weight := 1.0
			if !lastSpecular && depth > 0 {
				weight = backgroundMISWeight(scene, cur, wl, lastPdfW)
			}
			radiance = radiance.Add(bg.Scale(weight).Multiply(throughput))
			break
		}

		if hit.IsLightSurface() {
			light := scene.LightForHit(hit)
			if light != nil {
				rad, directPdfA, _ := light.Radiance(cur, hit, wl)
				weight := 1.0
				if !lastSpecular && depth > 0 {
					cosAtLight := math.Max(1e-8, hit.Normal.Dot(cur.Direction.Negate()))
					distSq := hit.Distance * hit.Distance
					directPdfW := core.PdfAtoW(directPdfA, distSq, cosAtLight) * pickProbability(scene, light)
					weight = core.Combine(lastPdfW, directPdfW)
				}
				radiance = radiance.Add(rad.Scale(weight).Multiply(throughput))
			}
			break
		}

		radiance = radiance.Add(hit.Material.EmittedRadiance(cur, hit).Multiply(throughput))

		frame := core.NewShadingFrame(hit.Point, hit.Normal)
		outgoingLocal := frame.WorldToLocal(cur.Direction.Negate().Normalize())
		if math.Abs(outgoingLocal.Z) < core.GrazingEpsilon {
			break
		}
		b := hit.Material.PrepareBSDF(hit, &wl)

		if !b.IsDelta() {
			contribution, _, _ := transport.SampleLightDirect(scene, hit, frame, outgoingLocal, b, wl, rng)
			radiance = radiance.Add(contribution.Multiply(throughput))
		}

		if depth >= pt.Config.MaxDepth-1 {
			break
		}
		term, comp := transport.RussianRoulette(depth, pt.Config.RussianRouletteMinBounces, throughput, wl, sampler.Get1D())
		if term {
			break
		}
		throughput = throughput.Scale(comp)

		s, frame2, newWL, ok := transport.Step(cur, hit, wl, rng)
		if !ok {
			break
		}
		wl = newWL
		throughput = throughput.Multiply(s.Weight).Div(s.PdfFwd)
		lastPdfW = s.PdfFwd
		lastSpecular = s.Event.IsSpecular()
		cur = core.SpawnRay(hit.Point, frame2.LocalToWorld(s.Incoming), hit.Normal)

		if !throughput.IsValid() || throughput.AlmostZero(1e-10) {
			break
		}
	}

	return radiance, wl, nil
}

func initThroughput(wl core.WavelengthBundle) core.RayColor {
	if wl.N <= 1 {
		return core.NewRGBColor(1, 1, 1)
	}
	t := core.RayColor{N: wl.N}
	for i := 0; i < wl.N; i++ {
		t.Samples[i] = 1
	}
	return t
}

func pickProbability(scene core.Scene, light core.Light) float64 {
	return scene.LightSampler().LightPDF(light)
}

// backgroundMISWeight evaluates the background light's own direct_pdf_w to
// combine against the BSDF-sampling pdf that produced this escaping ray
// (spec.md §4.F.3 step 1).
func backgroundMISWeight(scene core.Scene, ray core.Ray, wl core.WavelengthBundle, lastPdfW float64) float64 {
	for _, l := range scene.Lights() {
		if l.IsFinite() {
			continue
		}
		rad, directPdfA, _ := l.Radiance(ray, nil, wl)
		if rad.AlmostZero(1e-12) {
			continue
		}
		directPdfW := directPdfA * pickProbability(scene, l)
		return core.Combine(lastPdfW, directPdfW)
	}
	return 1.0
}
