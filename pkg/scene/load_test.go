package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

const minimalSceneJSON = `{
  "materials": [
    {"name": "floor", "kind": "lambertian", "albedo": [0.7, 0.7, 0.7]},
    {"name": "glow", "kind": "lambertian", "albedo": [1, 1, 1], "emission_color": [1, 1, 1], "emission_power": 10}
  ],
  "objects": [
    {"type": "plane", "material": "floor", "point": [0, 0, 0], "normal": [0, 1, 0]},
    {"type": "sphere", "material": "floor", "center": [0, 1, 0], "radius": 1}
  ],
  "lights": [
    {"type": "area", "material": "glow", "corner": [-1, 3, -1], "u": [2, 0, 0], "v": [0, 0, 2]},
    {"type": "point", "position": [2, 2, -2], "emission": [50, 50, 50]}
  ],
  "camera": {
    "center": [0, 2, -6],
    "look_at": [0, 0, 0],
    "width": 128,
    "aspect_ratio": 1.5,
    "vfov": 40
  }
}`

func writeSceneFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing scene file: %v", err)
	}
	return path
}

func TestLoad_MinimalScene(t *testing.T) {
	path := writeSceneFile(t, minimalSceneJSON)

	s, err := Load(path, core.DefaultSamplingConfig())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(s.Primitives) != 3 {
		t.Errorf("expected 3 primitives (plane, sphere, area light), got %d", len(s.Primitives))
	}
	if len(s.LightList) != 2 {
		t.Errorf("expected 2 lights (area + point), got %d", len(s.LightList))
	}
	if s.Config.Width != 128 {
		t.Errorf("expected camera width 128 to drive SamplingConfig.Width, got %d", s.Config.Width)
	}
	wantHeight := int(128 / 1.5)
	if s.Config.Height != wantHeight {
		t.Errorf("expected height %d from aspect ratio, got %d", wantHeight, s.Config.Height)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), core.DefaultSamplingConfig()); err == nil {
		t.Error("expected an error for a missing scene file")
	}
}

func TestLoad_MissingCamera(t *testing.T) {
	path := writeSceneFile(t, `{"materials": [], "objects": [], "lights": []}`)
	if _, err := Load(path, core.DefaultSamplingConfig()); err == nil {
		t.Error("expected an error for a scene file with no camera")
	}
}

func TestLoad_UnknownMaterialReference(t *testing.T) {
	path := writeSceneFile(t, `{
		"materials": [],
		"objects": [{"type": "sphere", "material": "missing", "center": [0,0,0], "radius": 1}],
		"lights": [],
		"camera": {"center": [0,0,-5], "look_at": [0,0,0], "width": 64, "aspect_ratio": 1}
	}`)
	if _, err := Load(path, core.DefaultSamplingConfig()); err == nil {
		t.Error("expected an error for an object referencing an unknown material")
	}
}

func TestLoad_UnknownObjectType(t *testing.T) {
	path := writeSceneFile(t, `{
		"materials": [{"name": "m", "kind": "lambertian", "albedo": [1,1,1]}],
		"objects": [{"type": "torus", "material": "m"}],
		"lights": [],
		"camera": {"center": [0,0,-5], "look_at": [0,0,0], "width": 64, "aspect_ratio": 1}
	}`)
	if _, err := Load(path, core.DefaultSamplingConfig()); err == nil {
		t.Error("expected an error for an unknown object type")
	}
}
