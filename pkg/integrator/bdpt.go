package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/transport"
)

// BDPT is the bidirectional path tracer of spec.md §4.F.5: a light subpath
// and a camera subpath are each walked, accumulating dVCM/dVC MIS state at
// every vertex, then combined via next-event estimation, the light hit
// itself, and explicit connections between every stored light vertex and
// the current camera vertex. Grounded closely on the teacher's
// pkg/integrator/bdpt.go and bdpt_mis.go, restructured around
// pkg/transport.Vertex/Path instead of the teacher's own Vertex type so the
// same struct is shared with VCM (vcm.go embeds BDPT).
type BDPT struct {
	Config core.SamplingConfig
}

func NewBDPT(config core.SamplingConfig) *BDPT { return &BDPT{Config: config} }

func (bd *BDPT) RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) (core.RayColor, core.WavelengthBundle, []core.SplatRay) {
	wl := core.NewRGBBundle()
	if bd.Config.IsSpectral() {
		wl = core.NewSpectralBundle(bd.Config.SpectralBundleWidth, sampler.Get1D())
	}
	rng := rand.New(rand.NewSource(int64(sampler.Get1D()*4294967296) + 11))

	lightPath, splats := bd.traceLightPath(scene, wl, rng)
	radiance, camWL, camSplats := bd.traceCameraPath(ray, scene, wl, rng, lightPath)
	return radiance, camWL, append(splats, camSplats...)
}

const etaVC = 1.0 // connection-strategy normalization; merging disabled in plain BDPT (eta_VM = 0)

// traceLightPath builds the light subpath and opportunistically connects
// each non-specular vertex straight to the camera (the light-tracer
// contribution BDPT folds in, spec.md §4.F.5 "try direct camera
// connection").
func (bd *BDPT) traceLightPath(scene core.Scene, wl core.WavelengthBundle, rng *rand.Rand) (*transport.Path, []core.SplatRay) {
	path := &transport.Path{}
	lsampler := scene.LightSampler()
	lightList := lsampler.Lights()
	if len(lightList) == 0 {
		return path, nil
	}
	light, pickPdf := lsampler.SampleLight(rng.Float64())
	if light == nil || pickPdf <= 0 {
		return path, nil
	}

	es := light.Emit(core.Vec2{X: rng.Float64(), Y: rng.Float64()}, core.Vec2{X: rng.Float64(), Y: rng.Float64()}, wl)
	if es.EmissionPdfW <= 0 {
		return path, nil
	}
	directPdfA := es.DirectPdfA * pickPdf
	emissionPdfW := es.EmissionPdfW * pickPdf

	throughput := es.Radiance.Scale(es.CosAtLight / emissionPdfW)
	dVCM := core.Mis(directPdfA / emissionPdfW)
	dVC := 0.0
	if !light.IsDelta() {
		base := 1.0
		if light.IsFinite() {
			base = es.CosAtLight
		}
		dVC = core.Mis(base / emissionPdfW)
	}
	dVM := dVC * etaVC

	cur := core.NewRay(es.Point, es.Direction)
	var splats []core.SplatRay
	prevPoint := es.Point
	firstHop := true

	for depth := 0; depth < bd.Config.MaxDepth && len(path.Vertices) < bd.Config.MaxStoredLightVertices; depth++ {
		hit, ok := scene.Intersect(cur, shadowEpsilon, math.Inf(1))
		if !ok {
			break
		}
		if hit.IsLightSurface() {
			break
		}

		distSq := hit.Point.Subtract(prevPoint).LengthSquared()
		if !(firstHop && !light.IsFinite()) {
			dVCM *= core.Mis(distSq)
		}
		frame := core.NewShadingFrame(hit.Point, hit.Normal)
		outgoingLocal := frame.WorldToLocal(cur.Direction.Negate().Normalize())
		cosHere := math.Abs(outgoingLocal.Z)
		if cosHere < core.GrazingEpsilon {
			break
		}
		dVCM /= core.Mis(cosHere)
		dVC /= core.Mis(cosHere)
		dVM /= core.Mis(cosHere)
		firstHop = false

		b := hit.Material.PrepareBSDF(hit, &wl)
		if !b.IsDelta() {
			path.Vertices = append(path.Vertices, transport.Vertex{
				Point: hit.Point, Normal: hit.Normal, BSDF: b, OutgoingLocal: outgoingLocal, Throughput: throughput,
				Kind: transport.LightVertexKind, DVCM: dVCM, DVC: dVC, DVM: dVM,
			})
			if splat, ok := bd.connectLightVertexToCamera(scene, hit, frame, outgoingLocal, b, wl, throughput, rng); ok {
				splats = append(splats, splat)
			}
		}

		term, comp := transport.RussianRoulette(depth, bd.Config.RussianRouletteMinBounces, throughput, wl, rng.Float64())
		if term {
			break
		}
		throughput = throughput.Scale(comp)

		s, frame2, newWL, ok := transport.Step(cur, hit, wl, rng)
		if !ok {
			break
		}
		wl = newWL
		revPdf := b.Pdf(outgoingLocal, s.Incoming, true)
		dVC = core.Mis(cosHere/s.PdfFwd) * (dVC*core.Mis(revPdf) + dVCM)
		dVM = core.Mis(cosHere/s.PdfFwd) * (dVM*core.Mis(revPdf) + dVCM*etaVC)
		dVCM = core.Mis(1.0 / s.PdfFwd)
		if s.Event.IsSpecular() {
			dVC, dVM = 0, 0
		}

		throughput = throughput.Multiply(s.Weight).Div(s.PdfFwd)
		prevPoint = hit.Point
		cur = core.SpawnRay(hit.Point, frame2.LocalToWorld(s.Incoming), hit.Normal)

		if !throughput.IsValid() || throughput.AlmostZero(1e-10) {
			break
		}
	}

	return path, splats
}

func (bd *BDPT) connectLightVertexToCamera(scene core.Scene, hit *core.HitRecord, frame core.ShadingFrame, outgoingLocal core.Vec3, b core.BSDF, wl core.WavelengthBundle, throughput core.RayColor, rng *rand.Rand) (core.SplatRay, bool) {
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
	if scene.IntersectShadow(core.NewRay(shadowOrigin, dirToCamera), distance*(1-1e-3)) {
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

func (bd *BDPT) traceCameraPath(ray core.Ray, scene core.Scene, wl core.WavelengthBundle, rng *rand.Rand, lightPath *transport.Path) (core.RayColor, core.WavelengthBundle, []core.SplatRay) {
	nLightPaths := 1.0
	_, pdfDir := scene.Camera().PdfWe(ray)
	dVCM := core.Mis(nLightPaths / math.Max(pdfDir, 1e-12))
	dVC, dVM := 0.0, 0.0
	lastSpecular := true

	throughput := initThroughput(wl)
	radiance := core.RayColor{N: throughput.N}
	cur := ray
	var splats []core.SplatRay

	for depth := 0; depth < bd.Config.MaxDepth; depth++ {
		hit, ok := scene.Intersect(cur, shadowEpsilon, math.Inf(1))
		if !ok {
			break
		}

		if hit.IsLightSurface() {
			if light := scene.LightForHit(hit); light != nil {
				rad, directPdfA, emissionPdfW := light.Radiance(cur, hit, wl)
				weight := 1.0
				if depth > 0 && !lastSpecular {
					weight = 1.0 / (1.0 + core.Mis(directPdfA)*dVCM + core.Mis(emissionPdfW)*dVC)
				}
				radiance = radiance.Add(rad.Scale(weight).Multiply(throughput))
			}
			break
		}

		radiance = radiance.Add(hit.Material.EmittedRadiance(cur, hit).Multiply(throughput))

		frame := core.NewShadingFrame(hit.Point, hit.Normal)
		outgoingLocal := frame.WorldToLocal(cur.Direction.Negate().Normalize())
		cosHere := math.Abs(outgoingLocal.Z)
		if cosHere < core.GrazingEpsilon {
			break
		}
		if depth > 0 {
			distSq := hit.Distance * hit.Distance
			dVCM *= core.Mis(distSq)
			dVCM /= core.Mis(cosHere)
			dVC /= core.Mis(cosHere)
			dVM /= core.Mis(cosHere)
		}

		b := hit.Material.PrepareBSDF(hit, &wl)
		if !b.IsDelta() {
			radiance = radiance.Add(bd.nextEventEstimate(scene, hit, frame, outgoingLocal, b, wl, rng, dVCM, dVC).Multiply(throughput))
			for _, v := range lightPath.Vertices {
				c := bd.connectVertex(scene, hit, frame, outgoingLocal, b, wl, v, dVCM, dVC)
				radiance = radiance.Add(c.Multiply(throughput).Multiply(v.Throughput))
			}
		}

		term, comp := transport.RussianRoulette(depth, bd.Config.RussianRouletteMinBounces, throughput, wl, rng.Float64())
		if term {
			break
		}
		throughput = throughput.Scale(comp)

		s, frame2, newWL, ok := transport.Step(cur, hit, wl, rng)
		if !ok {
			break
		}
		wl = newWL
		revPdf := b.Pdf(outgoingLocal, s.Incoming, true)
		dVC = core.Mis(cosHere/s.PdfFwd) * (dVC*core.Mis(revPdf) + dVCM)
		dVM = core.Mis(cosHere/s.PdfFwd) * (dVM*core.Mis(revPdf) + dVCM*etaVC)
		dVCM = core.Mis(1.0 / s.PdfFwd)
		lastSpecular = s.Event.IsSpecular()
		if lastSpecular {
			dVC, dVM = 0, 0
		}

		throughput = throughput.Multiply(s.Weight).Div(s.PdfFwd)
		cur = core.SpawnRay(hit.Point, frame2.LocalToWorld(s.Incoming), hit.Normal)

		if !throughput.IsValid() || throughput.AlmostZero(1e-10) {
			break
		}
	}

	return radiance, wl, splats
}

// nextEventEstimate implements spec.md §4.F.5 bullet 2's NEE weight, which
// differs from plain PT-MIS's combine() by also folding the light subpath's
// dVCM/dVC state into the reverse term.
func (bd *BDPT) nextEventEstimate(scene core.Scene, hit *core.HitRecord, frame core.ShadingFrame, outgoingLocal core.Vec3, b core.BSDF, wl core.WavelengthBundle, rng *rand.Rand, dVCM, dVC float64) core.RayColor {
	lsampler := scene.LightSampler()
	lightList := lsampler.Lights()
	if len(lightList) == 0 {
		return core.ZeroColor()
	}
	light, pickPdf := lsampler.SampleLight(rng.Float64())
	if light == nil || pickPdf <= 0 {
		return core.ZeroColor()
	}
	ls := light.Illuminate(hit.Point, core.Vec2{X: rng.Float64(), Y: rng.Float64()}, wl)
	if ls.DirectPdfW <= 0 || ls.Radiance.AlmostZero(1e-12) {
		return core.ZeroColor()
	}
	incomingLocal := frame.WorldToLocal(ls.Direction)
	if incomingLocal.Z <= core.GrazingEpsilon {
		return core.ZeroColor()
	}
	shadowOrigin := hit.Point.Add(hit.Normal.Multiply(shadowEpsilon))
	if scene.IntersectShadow(core.NewRay(shadowOrigin, ls.Direction), ls.Distance-2e-4) {
		return core.ZeroColor()
	}
	eval := b.Evaluate(incomingLocal, outgoingLocal, wl)
	if eval.PdfFwd <= 0 {
		return core.ZeroColor()
	}

	directPdfW := ls.DirectPdfW * pickPdf
	weight := 1.0
	if !light.IsDelta() {
		wL := core.Mis(eval.PdfFwd / directPdfW)
		cosToLight := ls.CosAtLight
		if cosToLight < 1e-8 {
			cosToLight = 1e-8
		}
		wC := core.Mis(ls.EmissionPdfW*cosToLight/(directPdfW*math.Max(ls.CosAtLight, 1e-8))) * (dVCM + dVC*core.Mis(eval.PdfRev))
		weight = 1.0 / (wL + 1.0 + wC)
	}

	return eval.Weight.Multiply(ls.Radiance).Scale(incomingLocal.Z * weight / directPdfW)
}

// connectVertex implements spec.md §4.F.5 bullet 3 (vertex connection)
// between the current camera vertex and one stored light vertex.
func (bd *BDPT) connectVertex(scene core.Scene, hit *core.HitRecord, frame core.ShadingFrame, outgoingLocal core.Vec3, b core.BSDF, wl core.WavelengthBundle, v transport.Vertex, dVCM, dVC float64) core.RayColor {
	toLight := v.Point.Subtract(hit.Point)
	distSq := toLight.LengthSquared()
	if distSq < 1e-12 {
		return core.ZeroColor()
	}
	distance := math.Sqrt(distSq)
	dir := toLight.Multiply(1.0 / distance)

	incomingLocal := frame.WorldToLocal(dir)
	if incomingLocal.Z <= core.GrazingEpsilon {
		return core.ZeroColor()
	}
	lightFrame := core.NewShadingFrame(v.Point, v.Normal)
	lightIncomingLocal := lightFrame.WorldToLocal(dir.Negate())
	if lightIncomingLocal.Z <= core.GrazingEpsilon {
		return core.ZeroColor()
	}

	shadowOrigin := hit.Point.Add(hit.Normal.Multiply(shadowEpsilon))
	if scene.IntersectShadow(core.NewRay(shadowOrigin, dir), distance*(1-1e-3)) {
		return core.ZeroColor()
	}

	camEval := b.Evaluate(incomingLocal, outgoingLocal, wl)
	lightEval := v.BSDF.Evaluate(lightIncomingLocal, v.OutgoingLocal, wl)
	if camEval.PdfFwd <= 0 || lightEval.PdfFwd <= 0 {
		return core.ZeroColor()
	}

	aL := core.Mis(core.PdfWtoA(camEval.PdfFwd, distSq, lightIncomingLocal.Z))
	aC := core.Mis(core.PdfWtoA(lightEval.PdfFwd, distSq, incomingLocal.Z))
	wL := aL * (v.DVCM + v.DVC*core.Mis(lightEval.PdfRev))
	wC := aC * (dVCM + dVC*core.Mis(camEval.PdfRev))
	weight := 1.0 / (wL + 1.0 + wC)

	geometry := 1.0 / distSq
	return camEval.Weight.Multiply(lightEval.Weight).Scale(geometry * incomingLocal.Z * lightIncomingLocal.Z * weight)
}
