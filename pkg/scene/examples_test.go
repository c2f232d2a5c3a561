package scene

import (
	"testing"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// TestBuiltinScenes_Preprocessed checks that every built-in scene builder
// returns a non-nil, already-preprocessed Scene whose camera/sampling
// resolution agree, the way the teacher's own scene constructors always
// leave a scene ready for immediate rendering.
func TestBuiltinScenes_Preprocessed(t *testing.T) {
	builders := map[string]func(core.SamplingConfig) *Scene{
		"cornell":      NewCornellScene,
		"furnace":      NewFurnaceScene,
		"point-floor":  NewPointLightFloorScene,
		"dispersion":   NewDispersionScene,
		"slit-bdpt":    NewSlitSceneForBDPT,
		"caustic-vcm":  NewCausticSceneForVCM,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			s := build(core.DefaultSamplingConfig())
			if s == nil {
				t.Fatal("builder returned nil scene")
			}
			if len(s.Primitives) == 0 {
				t.Error("expected at least one primitive")
			}
			if s.Sampler == nil {
				t.Error("expected Preprocess to have set a light sampler")
			}
			if s.Config.Width <= 0 || s.Config.Height <= 0 {
				t.Errorf("expected positive resolution, got %dx%d", s.Config.Width, s.Config.Height)
			}
		})
	}
}

// TestFurnaceScene_NoSurfaceLights checks S1's defining property: the only
// light in the furnace scene is the uniform background, so the sphere's
// appearance is driven entirely by its own albedo reflecting that
// background back, never by a surface emitter a camera ray could hit
// directly.
func TestFurnaceScene_NoSurfaceLights(t *testing.T) {
	s := NewFurnaceScene(core.DefaultSamplingConfig())
	for _, p := range s.Primitives {
		if p.Light != nil {
			t.Errorf("furnace scene should have no light-emitting primitives, found one")
		}
	}
	if len(s.LightList) != 1 {
		t.Errorf("expected exactly one light (the background), got %d", len(s.LightList))
	}
}

// TestPointLightFloorScene_DeltaLightOnly checks S2's defining property:
// the only light is a point light, which has no surface a BVH traversal
// could ever hit, so naive path tracing can never find it by chance.
func TestPointLightFloorScene_DeltaLightOnly(t *testing.T) {
	s := NewPointLightFloorScene(core.DefaultSamplingConfig())
	if len(s.LightList) != 1 {
		t.Fatalf("expected exactly one light, got %d", len(s.LightList))
	}
	for _, p := range s.Primitives {
		if p.Light != nil {
			t.Error("point-light-floor scene should have no light-emitting primitives")
		}
	}
}

// TestDispersionScene_SpectralBundleConfigured checks S3 forces a
// non-default spectral bundle width, since dispersion only shows up under
// wavelength-dependent rendering.
func TestDispersionScene_SpectralBundleConfigured(t *testing.T) {
	s := NewDispersionScene(core.DefaultSamplingConfig())
	if s.Config.SpectralBundleWidth <= 1 {
		t.Errorf("expected a spectral bundle width > 1, got %d", s.Config.SpectralBundleWidth)
	}
}

// TestSlitSceneForBDPT_LightOccluded checks S4's defining property: the
// area light sits behind two panel primitives with a gap between them, so
// a camera ray into the gap must bounce through the slit rather than
// seeing the light directly from most directions.
func TestSlitSceneForBDPT_LightOccluded(t *testing.T) {
	s := NewSlitSceneForBDPT(core.DefaultSamplingConfig())
	lightPrimitives := 0
	panelPrimitives := 0
	for _, p := range s.Primitives {
		if p.Light != nil {
			lightPrimitives++
		} else {
			panelPrimitives++
		}
	}
	if lightPrimitives != 1 {
		t.Errorf("expected exactly one light primitive, got %d", lightPrimitives)
	}
	if panelPrimitives < 3 {
		t.Errorf("expected floor plus two panel quads at minimum, got %d non-light primitives", panelPrimitives)
	}
}

// TestCausticSceneForVCM_MirrorAndPointLight checks S5's defining
// property: a specular (zero-roughness conductor) reflector is the only
// path from the point light to the diffuse floor, the caustic shape plain
// NEE path tracing cannot resolve.
func TestCausticSceneForVCM_MirrorAndPointLight(t *testing.T) {
	s := NewCausticSceneForVCM(core.DefaultSamplingConfig())
	if len(s.LightList) != 1 {
		t.Fatalf("expected exactly one light, got %d", len(s.LightList))
	}
	if len(s.Primitives) < 2 {
		t.Fatalf("expected at least a floor and a mirror sphere, got %d primitives", len(s.Primitives))
	}
}
