package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/transport"
)

// LightTracer emits one light path per pixel and splats its contributions
// onto whatever film pixels it happens to connect to, rather than gathering
// radiance along the pixel's own camera ray (spec.md §4.F.4). It cannot
// render specular surfaces directly visible to the camera — a known,
// spec-documented limitation, not a bug. New: the teacher has no light
// tracer (its BDPT subsumes a "t=1" camera-connection strategy instead),
// so this is built directly from spec.md §4.F.4's three-step recipe using
// pkg/transport's Step helper for the walk itself.
type LightTracer struct {
	Config core.SamplingConfig
}

func NewLightTracer(config core.SamplingConfig) *LightTracer { return &LightTracer{Config: config} }

// RayColor ignores its own ray (the light tracer's primary contribution is
// always a splat) and returns zero for the pixel the camera ray belongs to.
func (lt *LightTracer) RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) (core.RayColor, core.WavelengthBundle, []core.SplatRay) {
	pixelWL := core.NewRGBBundle()
	wl := core.NewRGBBundle()
	if lt.Config.IsSpectral() {
		wl = core.NewSpectralBundle(lt.Config.SpectralBundleWidth, sampler.Get1D())
	}
	rng := rand.New(rand.NewSource(int64(sampler.Get1D()*4294967296) + 7))

	lsampler := scene.LightSampler()
	lightList := lsampler.Lights()
	if len(lightList) == 0 {
		return core.ZeroColor(), pixelWL, nil
	}
	light, pickPdf := lsampler.SampleLight(rng.Float64())
	if light == nil || pickPdf <= 0 {
		return core.ZeroColor(), pixelWL, nil
	}

	es := light.Emit(core.Vec2{X: rng.Float64(), Y: rng.Float64()}, core.Vec2{X: rng.Float64(), Y: rng.Float64()}, wl)
	if es.EmissionPdfW <= 0 || es.Radiance.AlmostZero(1e-12) {
		return core.ZeroColor(), pixelWL, nil
	}

	throughput := es.Radiance.Scale(es.CosAtLight / (es.DirectPdfA * pickPdf * es.EmissionPdfW))
	cur := core.NewRay(es.Point, es.Direction)

	var splats []core.SplatRay

	for depth := 0; depth < lt.Config.MaxDepth; depth++ {
		hit, ok := scene.Intersect(cur, shadowEpsilon, math.Inf(1))
		if !ok {
			break
		}
		if hit.IsLightSurface() {
			break
		}

		frame := core.NewShadingFrame(hit.Point, hit.Normal)
		outgoingLocal := frame.WorldToLocal(cur.Direction.Negate().Normalize())
		if math.Abs(outgoingLocal.Z) < core.GrazingEpsilon {
			break
		}
		b := hit.Material.PrepareBSDF(hit, &wl)

		if !b.IsDelta() {
			if splat, ok := lt.connectToCamera(scene, hit, frame, outgoingLocal, b, wl, throughput, rng); ok {
				splats = append(splats, splat)
			}
		}

		term, comp := transport.RussianRoulette(depth, lt.Config.RussianRouletteMinBounces, throughput, wl, rng.Float64())
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
		cur = core.SpawnRay(hit.Point, frame2.LocalToWorld(s.Incoming), hit.Normal)

		if !throughput.IsValid() || throughput.AlmostZero(1e-10) {
			break
		}
	}

	return core.ZeroColor(), pixelWL, splats
}

// connectToCamera implements spec.md §4.F.4's splat: project the hit onto
// the film, shadow-test against the lens, and weight by
// bsdf_factor * throughput * cameraPdfA / cos_to_camera.
func (lt *LightTracer) connectToCamera(scene core.Scene, hit *core.HitRecord, frame core.ShadingFrame, outgoingLocal core.Vec3, b core.BSDF, wl core.WavelengthBundle, throughput core.RayColor, rng *rand.Rand) (core.SplatRay, bool) {
	cam := scene.Camera()
	filmX, filmY, visible := cam.WorldToFilm(hit.Point)
	if !visible {
		return core.SplatRay{}, false
	}

	lensPoint, _ := cameraLensPoint(cam, rng)
	toCamera := lensPoint.Subtract(hit.Point)
	distance := toCamera.Length()
	if distance < 1e-6 {
		return core.SplatRay{}, false
	}
	dirToCamera := toCamera.Multiply(1.0 / distance)

	incomingLocal := frame.WorldToLocal(dirToCamera)
	if incomingLocal.Z <= core.GrazingEpsilon {
		return core.SplatRay{}, false
	}

	shadowOrigin := hit.Point.Add(hit.Normal.Multiply(shadowEpsilon))
	shadowRay := core.NewRay(shadowOrigin, dirToCamera)
	if scene.IntersectShadow(shadowRay, distance*(1-1e-3)) {
		return core.SplatRay{}, false
	}

	eval := b.Evaluate(incomingLocal, outgoingLocal, wl)
	if eval.PdfFwd <= 0 && eval.Weight.AlmostZero(1e-14) {
		return core.SplatRay{}, false
	}

	_, pdfDir := cam.PdfWe(core.NewRay(lensPoint, dirToCamera.Negate()))
	cosToCamera := math.Max(1e-8, cam.Forward().Dot(dirToCamera.Negate()))
	cameraPdfA := core.PdfWtoA(pdfDir, distance*distance, cosToCamera)

	contribution := eval.Weight.Multiply(throughput).Scale(cameraPdfA * incomingLocal.Z / cosToCamera)
	if !contribution.IsValid() {
		return core.SplatRay{}, false
	}
	return core.SplatRay{FilmX: filmX, FilmY: filmY, Contribution: contribution, WL: wl}, true
}
