// Package integrator implements the five light-transport strategies of
// spec.md §4.F: Debug (AOV), naive path tracing, MIS path tracing (the
// primary integrator), light tracing, bidirectional path tracing, and
// vertex connection and merging. All five share the core.Scene/BSDF/Light
// protocols and the pkg/transport random-walk helpers; only the MIS
// bookkeeping and subpath structure differ. Grounded throughout on the
// teacher's pkg/integrator package, generalized from RGB-only Vec3
// radiance to core.RayColor so the same integrator code runs in both RGB
// and spectral mode.
package integrator

import (
	"math/rand"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// Integrator is the per-pixel radiance estimator every strategy implements.
// RayColor returns the primary contribution for the pixel this ray belongs
// to, the wavelength bundle that contribution was computed against (needed
// to convert it to tristimulus outside the integrator, since a spectral
// carrier's samples are meaningless without the hero wavelengths that
// produced them), plus any splats destined for other pixels (light tracer,
// BDPT's camera-connection strategy; spec.md §4.F.4/§4.F.5).
type Integrator interface {
	RayColor(ray core.Ray, scene core.Scene, sampler core.Sampler) (core.RayColor, core.WavelengthBundle, []core.SplatRay)
}

// shadowEpsilon offsets shadow-ray origins off the surface and trims the
// far end of the occlusion test, shared by every integrator's NEE and
// camera-connection shadow rays.
const shadowEpsilon = 1e-4

// lensSampler is satisfied by cameras that support depth of field; checked
// with a type assertion rather than added to core.Camera so a pinhole-only
// camera implementation isn't forced to implement lens sampling.
type lensSampler interface {
	SampleLens(lensSample core.Vec2) (point core.Vec3, pdfArea float64)
}

// cameraLensPoint draws a point on the camera's lens for a light-subpath's
// t=1 camera-connection strategy, falling back to the camera's fixed
// position (pdf 1) when the camera has no aperture to sample.
func cameraLensPoint(cam core.Camera, rng *rand.Rand) (point core.Vec3, pdfArea float64) {
	if lc, ok := cam.(lensSampler); ok {
		return lc.SampleLens(core.Vec2{X: rng.Float64(), Y: rng.Float64()})
	}
	return cam.Position(), 1.0
}
