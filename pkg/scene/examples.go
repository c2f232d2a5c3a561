package scene

import (
	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/geometry"
	"github.com/df07/spectral-path-tracer/pkg/lights"
	"github.com/df07/spectral-path-tracer/pkg/materials"
	"github.com/df07/spectral-path-tracer/pkg/renderer"
)

// imageDims resolves a camera config's pixel width/height so the sampling
// config a built-in scene returns always matches what its own camera
// actually renders, the way the teacher's createScene derives
// SamplingConfig.Width/Height from the chosen scene's camera config.
func imageDims(width int, aspect float64) (int, int) {
	return width, int(float64(width) / aspect)
}

// NewCornellScene builds the classic 555-unit Cornell box (white walls,
// one red and one green side wall, a ceiling quad light, a metallic and a
// glass sphere), grounded on the teacher's NewCornellScene: same box
// dimensions, wall colors, and light placement, rebuilt against this
// module's Primitive/Material split instead of the teacher's
// material-on-shape construction.
func NewCornellScene(sampling core.SamplingConfig) *Scene {
	cam := renderer.NewCamera(renderer.CameraConfig{
		Center:      core.NewVec3(278, 278, -800),
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0,
		VFov:        40.0,
	})

	sampling.Width, sampling.Height = imageDims(400, 1.0)
	s := NewScene(cam, sampling)

	white := materials.NewLambertianMaterial(core.NewVec3(0.73, 0.73, 0.73))
	red := materials.NewLambertianMaterial(core.NewVec3(0.65, 0.05, 0.05))
	green := materials.NewLambertianMaterial(core.NewVec3(0.12, 0.45, 0.15))

	const boxSize = 555.0

	s.AddPrimitive(geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize)), white)          // floor
	s.AddPrimitive(geometry.NewQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize)), white)     // ceiling
	s.AddPrimitive(geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0)), white)     // back wall
	s.AddPrimitive(geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0)), red)             // left wall
	s.AddPrimitive(geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize)), green)     // right wall

	const lightSize = 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	lightMat := materials.NewLambertianMaterial(core.NewVec3(1, 1, 1)).WithEmission(core.NewVec3(1, 1, 1), 15.0)
	ceilingLight := lights.NewAreaQuad(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		lightMat,
	)
	s.AddLightPrimitive(ceilingLight.Quad, ceilingLight)

	metal := materials.NewConductorMaterial(0.2, 3.0, core.NewVec3(0.8, 0.8, 0.9), 0.0)
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5), metal)

	glass := materials.NewDielectricMaterial(1.5, 0.0)
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(370, 90, 351), 90), glass)

	s.Preprocess()
	return s
}

// NewFurnaceScene builds spec.md §8's S1: a uniform white emissive
// environment and one perfectly diffuse sphere, with no other lights.
// Every visible point of the sphere should converge to the albedo itself,
// since a Lambertian sphere in a uniform furnace reflects exactly what it
// receives.
func NewFurnaceScene(sampling core.SamplingConfig) *Scene {
	cam := renderer.NewCamera(renderer.CameraConfig{
		Center: core.NewVec3(0, 0, -4), LookAt: core.NewVec3(0, 0, 0), Up: core.NewVec3(0, 1, 0),
		Width: 256, AspectRatio: 1.0, VFov: 35,
	})
	sampling.Width, sampling.Height = imageDims(256, 1.0)
	s := NewScene(cam, sampling)
	diffuse := materials.NewLambertianMaterial(core.NewVec3(0.5, 0.5, 0.5))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0), diffuse)
	s.AddDeltaLight(lights.NewUniformBackground(core.NewVec3(0.5, 0.5, 0.5), 1000))
	s.Preprocess()
	return s
}

// NewPointLightFloorScene builds spec.md §8's S2: a point light at
// (0, 5, 0) with intensity (100,100,100) over an albedo-0.8 Lambertian
// floor, isolating a case naive path tracing cannot solve (it can never
// sample a delta light) while PT-MIS's explicit next-event estimation can.
func NewPointLightFloorScene(sampling core.SamplingConfig) *Scene {
	cam := renderer.NewCamera(renderer.CameraConfig{
		Center: core.NewVec3(0, 3, -8), LookAt: core.NewVec3(0, 0, 0), Up: core.NewVec3(0, 1, 0),
		Width: 256, AspectRatio: 1.0, VFov: 40,
	})
	sampling.Width, sampling.Height = imageDims(256, 1.0)
	s := NewScene(cam, sampling)
	floor := materials.NewLambertianMaterial(core.NewVec3(0.8, 0.8, 0.8))
	s.AddPrimitive(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), floor)
	s.AddDeltaLight(lights.NewPoint(core.NewVec3(0, 5, 0), core.FromRGB(core.NewVec3(100, 100, 100))))
	s.Preprocess()
	return s
}

// NewDispersionScene builds spec.md §8's S3: a Sellmeier-dispersive glass
// sphere over a white floor lit by a strong directional light, exercising
// the spectral rendering path's wavelength-dependent refraction.
func NewDispersionScene(sampling core.SamplingConfig) *Scene {
	sampling.SpectralBundleWidth = 8
	cam := renderer.NewCamera(renderer.CameraConfig{
		Center: core.NewVec3(0, 2, -6), LookAt: core.NewVec3(0, 0.5, 0), Up: core.NewVec3(0, 1, 0),
		Width: 256, AspectRatio: 1.0, VFov: 35,
	})
	sampling.Width, sampling.Height = imageDims(256, 1.0)
	s := NewScene(cam, sampling)
	floor := materials.NewLambertianMaterial(core.NewVec3(0.9, 0.9, 0.9))
	s.AddPrimitive(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), floor)
	glass := materials.NewDispersiveDielectricMaterial(1.5, 0.0, materials.Dispersion{C: 0.020, D: 1.0})
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0.75, 0), 0.75), glass)
	s.AddDeltaLight(lights.NewDirectional(core.NewVec3(-0.4, -1, 0.3), core.FromRGB(core.NewVec3(6, 6, 6)), 0.01, 1000))
	s.Preprocess()
	return s
}

// NewSlitSceneForBDPT builds spec.md §8's S4: a small area light hidden
// behind a panel with a single slit, so only bidirectional light transport
// reliably finds the illuminated region PT-MIS's unidirectional sampling
// struggles with.
func NewSlitSceneForBDPT(sampling core.SamplingConfig) *Scene {
	cam := renderer.NewCamera(renderer.CameraConfig{
		Center: core.NewVec3(0, 1, -6), LookAt: core.NewVec3(0, 1, 0), Up: core.NewVec3(0, 1, 0),
		Width: 256, AspectRatio: 1.0, VFov: 40,
	})
	sampling.Width, sampling.Height = imageDims(256, 1.0)
	s := NewScene(cam, sampling)
	floor := materials.NewLambertianMaterial(core.NewVec3(0.7, 0.7, 0.7))
	s.AddPrimitive(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), floor)

	panel := materials.NewLambertianMaterial(core.NewVec3(0.05, 0.05, 0.05))
	s.AddPrimitive(geometry.NewQuad(core.NewVec3(-2, 0, 1), core.NewVec3(1.4, 0, 0), core.NewVec3(0, 3, 0)), panel)
	s.AddPrimitive(geometry.NewQuad(core.NewVec3(0.6, 0, 1), core.NewVec3(1.4, 0, 0), core.NewVec3(0, 3, 0)), panel)

	lightMat := materials.NewLambertianMaterial(core.NewVec3(1, 1, 1)).WithEmission(core.NewVec3(1, 1, 1), 40)
	slitLight := lights.NewAreaQuad(core.NewVec3(-1, 1, 2), core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0), lightMat)
	s.AddLightPrimitive(slitLight.Quad, slitLight)
	s.Preprocess()
	return s
}

// NewCausticSceneForVCM builds spec.md §8's S5: a specular reflector
// focusing a point light onto a diffuse surface, the caustic case plain
// path tracing (even with NEE) cannot resolve but VCM's photon merging can.
func NewCausticSceneForVCM(sampling core.SamplingConfig) *Scene {
	cam := renderer.NewCamera(renderer.CameraConfig{
		Center: core.NewVec3(0, 2, -6), LookAt: core.NewVec3(0, 0, 0), Up: core.NewVec3(0, 1, 0),
		Width: 256, AspectRatio: 1.0, VFov: 35,
	})
	sampling.Width, sampling.Height = imageDims(256, 1.0)
	s := NewScene(cam, sampling)
	floor := materials.NewLambertianMaterial(core.NewVec3(0.8, 0.8, 0.8))
	s.AddPrimitive(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), floor)

	mirror := materials.NewConductorMaterial(0.15, 3.5, core.NewVec3(1, 1, 1), 0.0)
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(-0.8, 1, 0.5), 0.9), mirror)

	s.AddDeltaLight(lights.NewPoint(core.NewVec3(2, 3, -2), core.FromRGB(core.NewVec3(60, 60, 60))))
	s.Preprocess()
	return s
}
