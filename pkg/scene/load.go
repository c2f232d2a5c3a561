package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/geometry"
	"github.com/df07/spectral-path-tracer/pkg/lights"
	"github.com/df07/spectral-path-tracer/pkg/materials"
	"github.com/df07/spectral-path-tracer/pkg/renderer"
)

// sceneDoc is the top-level JSON schema of spec.md §6: "materials,
// objects, lights, and optional object camera; exact schema is the
// host's concern and out of core scope." This is the host's concrete
// choice of that schema.
type sceneDoc struct {
	Materials []materialDoc `json:"materials"`
	Objects   []objectDoc   `json:"objects"`
	Lights    []lightDoc    `json:"lights"`
	Camera    *cameraDoc    `json:"camera"`
}

type materialDoc struct {
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	Albedo    [3]float64 `json:"albedo"`
	Roughness float64    `json:"roughness"`
	IOR       float64    `json:"ior"`
	Eta       float64    `json:"eta"`
	K         float64    `json:"k"`
	// Dispersion coefficients (Sellmeier C, D); present only on
	// dispersive_dielectric materials.
	DispersionC float64 `json:"dispersion_c"`
	DispersionD float64 `json:"dispersion_d"`

	EmissionColor [3]float64 `json:"emission_color"`
	EmissionPower float64    `json:"emission_power"`
}

type objectDoc struct {
	Type     string     `json:"type"`
	Material string     `json:"material"`
	Center   [3]float64 `json:"center"`
	Radius   float64    `json:"radius"`
	Point    [3]float64 `json:"point"`
	Normal   [3]float64 `json:"normal"`
	Corner   [3]float64 `json:"corner"`
	U        [3]float64 `json:"u"`
	V        [3]float64 `json:"v"`
	V0       [3]float64 `json:"v0"`
	V1       [3]float64 `json:"v1"`
	V2       [3]float64 `json:"v2"`
}

type lightDoc struct {
	Type        string     `json:"type"`
	Corner      [3]float64 `json:"corner"`
	U           [3]float64 `json:"u"`
	V           [3]float64 `json:"v"`
	Material    string     `json:"material"`
	Center      [3]float64 `json:"center"`
	Radius      float64    `json:"radius"`
	Position    [3]float64 `json:"position"`
	From        [3]float64 `json:"from"`
	To          [3]float64 `json:"to"`
	Direction   [3]float64 `json:"direction"`
	Emission    [3]float64 `json:"emission"`
	ConeAngle   float64    `json:"cone_angle_deg"`
	FalloffEdge float64    `json:"falloff_delta_deg"`
	HalfAngle   float64    `json:"half_angle_rad"`
	Top         [3]float64 `json:"top"`
	Bottom      [3]float64 `json:"bottom"`
}

type cameraDoc struct {
	Center        [3]float64 `json:"center"`
	LookAt        [3]float64 `json:"look_at"`
	Up            [3]float64 `json:"up"`
	Width         int        `json:"width"`
	AspectRatio   float64    `json:"aspect_ratio"`
	VFov          float64    `json:"vfov"`
	Aperture      float64    `json:"aperture"`
	FocusDistance float64    `json:"focus_distance"`
}

// Load reads a scene description from path (spec.md §6's JSON scene file)
// and assembles it into a Scene ready for Preprocess. The sampling
// config is layered in by the caller (cmd/raytracer) since it comes from
// the CLI/config, not the scene file.
func Load(path string, sampling core.SamplingConfig) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "scene: reading %s", path)
	}

	var doc sceneDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "scene: parsing %s", path)
	}

	if doc.Camera == nil {
		return nil, errors.Errorf("scene: %s has no camera", path)
	}
	camWidth := doc.Camera.Width
	if camWidth <= 0 {
		camWidth = sampling.Width
	}
	aspect := defaultFloat(doc.Camera.AspectRatio, 16.0/9.0)
	cam := renderer.NewCamera(renderer.CameraConfig{
		Center:        vec3(doc.Camera.Center),
		LookAt:        vec3(doc.Camera.LookAt),
		Up:            defaultUp(doc.Camera.Up),
		Width:         camWidth,
		AspectRatio:   aspect,
		VFov:          defaultFloat(doc.Camera.VFov, 40),
		Aperture:      doc.Camera.Aperture,
		FocusDistance: doc.Camera.FocusDistance,
	})

	// The scene file's camera is the authority on output resolution (the
	// teacher's createScene does the same: "Get the width and height from
	// the scene's camera configuration"), overriding whatever the
	// CLI/config's width/height defaulted to.
	sampling.Width = camWidth
	sampling.Height = int(float64(camWidth) / aspect)

	s := NewScene(cam, sampling)

	matByName := make(map[string]core.Material, len(doc.Materials))
	for _, md := range doc.Materials {
		mat, err := buildMaterial(md)
		if err != nil {
			return nil, errors.Wrapf(err, "scene: material %q", md.Name)
		}
		matByName[md.Name] = mat
	}

	for i, od := range doc.Objects {
		shape, err := buildShape(od)
		if err != nil {
			return nil, errors.Wrapf(err, "scene: object %d", i)
		}
		mat, ok := matByName[od.Material]
		if !ok {
			return nil, errors.Errorf("scene: object %d references unknown material %q", i, od.Material)
		}
		s.AddPrimitive(shape, mat)
	}

	worldRadius := 1000.0
	for i, ld := range doc.Lights {
		if err := addLight(s, ld, matByName, worldRadius); err != nil {
			return nil, errors.Wrapf(err, "scene: light %d", i)
		}
	}

	return s, nil
}

func buildMaterial(md materialDoc) (core.Material, error) {
	var mat *materials.Material
	switch md.Kind {
	case "lambertian", "":
		mat = materials.NewLambertianMaterial(vec3(md.Albedo))
	case "oren_nayar":
		mat = materials.NewOrenNayarMaterial(vec3(md.Albedo), md.Roughness)
	case "dielectric":
		mat = materials.NewDielectricMaterial(defaultFloat(md.IOR, 1.5), md.Roughness)
	case "dispersive_dielectric":
		mat = materials.NewDispersiveDielectricMaterial(defaultFloat(md.IOR, 1.5), md.Roughness,
			materials.Dispersion{C: md.DispersionC, D: md.DispersionD})
	case "conductor":
		mat = materials.NewConductorMaterial(md.Eta, md.K, vec3(md.Albedo), md.Roughness)
	case "plastic":
		mat = materials.NewPlasticMaterial(vec3(md.Albedo), defaultFloat(md.IOR, 1.5))
	default:
		return nil, fmt.Errorf("unknown material kind %q", md.Kind)
	}
	if md.EmissionPower > 0 {
		mat = mat.WithEmission(vec3(md.EmissionColor), md.EmissionPower)
	}
	return mat, nil
}

func buildShape(od objectDoc) (core.Shape, error) {
	switch od.Type {
	case "sphere":
		return geometry.NewSphere(vec3(od.Center), od.Radius), nil
	case "plane":
		return geometry.NewPlane(vec3(od.Point), vec3(od.Normal)), nil
	case "quad":
		return geometry.NewQuad(vec3(od.Corner), vec3(od.U), vec3(od.V)), nil
	case "triangle":
		return geometry.NewTriangle(vec3(od.V0), vec3(od.V1), vec3(od.V2)), nil
	case "disc":
		return geometry.NewDisc(vec3(od.Center), vec3(od.Normal), od.Radius), nil
	default:
		return nil, fmt.Errorf("unknown object type %q", od.Type)
	}
}

func addLight(s *Scene, ld lightDoc, matByName map[string]core.Material, worldRadius float64) error {
	switch ld.Type {
	case "area":
		mat, ok := matByName[ld.Material]
		if !ok {
			return fmt.Errorf("area light references unknown material %q", ld.Material)
		}
		light := lights.NewAreaQuad(vec3(ld.Corner), vec3(ld.U), vec3(ld.V), mat)
		s.AddLightPrimitive(light.Quad, light)
	case "sphere":
		mat, ok := matByName[ld.Material]
		if !ok {
			return fmt.Errorf("sphere light references unknown material %q", ld.Material)
		}
		light := lights.NewSphereLight(vec3(ld.Center), ld.Radius, mat)
		s.AddLightPrimitive(light.Shape, light)
	case "point":
		s.AddDeltaLight(lights.NewPoint(vec3(ld.Position), core.FromRGB(vec3(ld.Emission))))
	case "spot":
		s.AddDeltaLight(lights.NewSpot(vec3(ld.From), vec3(ld.To), core.FromRGB(vec3(ld.Emission)), ld.ConeAngle, ld.FalloffEdge))
	case "directional":
		s.AddDeltaLight(lights.NewDirectional(vec3(ld.Direction), core.FromRGB(vec3(ld.Emission)), ld.HalfAngle, worldRadius))
	case "background":
		s.AddDeltaLight(lights.NewGradientBackground(vec3(ld.Top), vec3(ld.Bottom), worldRadius))
	default:
		return fmt.Errorf("unknown light type %q", ld.Type)
	}
	return nil
}

func vec3(v [3]float64) core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

func defaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func defaultUp(v [3]float64) core.Vec3 {
	if v == ([3]float64{}) {
		return core.NewVec3(0, 1, 0)
	}
	return vec3(v)
}
