package transport

import (
	"math"
	"math/rand"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// RussianRoulette applies spec.md §4.E's affine survival probability,
// survival = 0.125 + 0.875*throughput.max, against RayColor's
// ThroughputScalar so it is correct for a collapsed spectral bundle (the
// 1/N factor) as well as RGB mode.
func RussianRoulette(bounce, minBounces int, throughput core.RayColor, wl core.WavelengthBundle, u float64) (terminate bool, compensation float64) {
	if bounce < minBounces {
		return false, 1.0
	}
	survival := 0.125 + 0.875*throughput.ThroughputScalar(wl)
	if u > survival {
		return true, 0
	}
	return false, 1.0 / survival
}

// Step advances a path one bounce: it evaluates emission at the hit,
// prepares the BSDF, samples a scattering direction, and — the one place
// the dispersion collapse decision spec.md §4.D describes actually fires —
// collapses the wavelength bundle if the material is dispersive and the
// sampled event is a refraction. Returns ok=false when the walk must
// terminate (null BSDF sample or grazing incidence).
func Step(rayIn core.Ray, hit *core.HitRecord, wl core.WavelengthBundle, rng *rand.Rand) (sample core.BSDFSample, frame core.ShadingFrame, newWL core.WavelengthBundle, ok bool) {
	frame = core.NewShadingFrame(hit.Point, hit.Normal)
	outgoingLocal := frame.WorldToLocal(rayIn.Direction.Negate().Normalize())

	if math.Abs(outgoingLocal.Z) < core.GrazingEpsilon {
		return core.BSDFSample{}, frame, wl, false
	}

	b := hit.Material.PrepareBSDF(hit, &wl)
	u := core.Vec3{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	s := b.Sample(outgoingLocal, u, wl)
	if s.IsNull() {
		return s, frame, wl, false
	}

	newWL = wl
	if hit.Material.IsDispersive() && s.Event.Has(core.Transmissive) {
		newWL = wl.Collapse()
		scale := newWL.CollapseWeight()
		s.Weight = s.Weight.Scale(scale)
	}

	return s, frame, newWL, true
}

// SampleLightDirect implements next-event estimation at a hit: pick a
// light, sample it, shadow-test, and return the MIS-weighted contribution
// plus the raw pieces (lightPdf, bsdfPdf) a bidirectional integrator needs
// to recompute the weight itself (spec.md §4.F.2's NEE term). Grounded on
// the teacher's CalculateDirectLighting, generalized to the BSDF's
// Evaluate/Pdf protocol instead of a single EvaluateBRDF call.
func SampleLightDirect(scene core.Scene, hit *core.HitRecord, frame core.ShadingFrame, outgoingLocal core.Vec3, b core.BSDF, wl core.WavelengthBundle, rng *rand.Rand) (contribution core.RayColor, lightPdf, bsdfPdf float64) {
	sampler := scene.LightSampler()
	lightList := sampler.Lights()
	if len(lightList) == 0 {
		return core.ZeroColor(), 0, 0
	}
	light, lightSelectPdf := sampler.SampleLight(rng.Float64())
	if light == nil || lightSelectPdf <= 0 {
		return core.ZeroColor(), 0, 0
	}

	ls := light.Illuminate(hit.Point, core.Vec2{X: rng.Float64(), Y: rng.Float64()}, wl)
	if ls.DirectPdfW <= 0 || ls.Radiance.AlmostZero(1e-12) {
		return core.ZeroColor(), 0, 0
	}

	incomingLocal := frame.WorldToLocal(ls.Direction)
	if incomingLocal.Z <= core.GrazingEpsilon {
		return core.ZeroColor(), 0, 0
	}

	shadowOrigin := hit.Point.Add(hit.Normal.Multiply(1e-4))
	shadowRay := core.NewRay(shadowOrigin, ls.Direction)
	if scene.IntersectShadow(shadowRay, ls.Distance-2e-4) {
		return core.ZeroColor(), 0, 0
	}

	eval := b.Evaluate(incomingLocal, outgoingLocal, wl)
	if eval.PdfFwd <= 0 {
		return core.ZeroColor(), 0, 0
	}

	lightPdf = ls.DirectPdfW * lightSelectPdf
	bsdfPdf = eval.PdfFwd
	misWeight := core.PowerHeuristic(1, lightPdf, 1, bsdfPdf)

	contribution = eval.Weight.Multiply(ls.Radiance).Scale(incomingLocal.Z * misWeight / lightPdf)
	return contribution, lightPdf, bsdfPdf
}
