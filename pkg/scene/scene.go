package scene

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/lights"
)

// Scene implements core.Scene over a flat list of primitives accelerated by
// a BVH, plus the set of lights and the sampler choosing among them.
// Grounded on the teacher's pkg/scene.Scene, generalized to resolve a light
// hit through Primitive.Light/LightForHit rather than a type assertion on
// the shape itself.
type Scene struct {
	Primitives   []*Primitive
	LightList    []core.Light
	Sampler      core.LightSampler
	Cam          core.Camera
	Config       core.SamplingConfig
	bvh          *core.BVH
	lightByShape map[int]core.Light
}

func NewScene(cam core.Camera, config core.SamplingConfig) *Scene {
	return &Scene{Cam: cam, Config: config, lightByShape: make(map[int]core.Light)}
}

// AddPrimitive registers a material-backed shape under the next ShapeID.
func (s *Scene) AddPrimitive(shape core.Shape, material core.Material) *Primitive {
	id := len(s.Primitives)
	p := NewPrimitive(id, shape, material)
	s.Primitives = append(s.Primitives, p)
	return p
}

// AddLightPrimitive registers a light's own emitting surface as a primitive
// so camera rays can hit it directly (spec.md §3: light surfaces are tagged
// with LightSubObjectSentinel, not a material).
func (s *Scene) AddLightPrimitive(shape core.Shape, light core.Light) *Primitive {
	id := len(s.Primitives)
	p := NewLightPrimitive(id, shape, light)
	s.Primitives = append(s.Primitives, p)
	s.LightList = append(s.LightList, light)
	s.lightByShape[id] = light
	return p
}

// AddDeltaLight registers a light with no surface of its own (point, spot,
// directional, background) that can never be hit by a traced ray.
func (s *Scene) AddDeltaLight(light core.Light) {
	s.LightList = append(s.LightList, light)
}

// Preprocess builds the BVH and the default light sampler once the scene is
// fully assembled (spec.md §4.C, mirroring the teacher's Scene.Preprocess).
func (s *Scene) Preprocess() {
	shapes := make([]core.Shape, len(s.Primitives))
	for i, p := range s.Primitives {
		shapes[i] = p
	}
	s.bvh = core.NewBVH(shapes)

	for _, light := range s.LightList {
		if pp, ok := light.(core.Preprocessor); ok {
			pp.Preprocess()
		}
	}

	if s.Sampler == nil {
		s.Sampler = lights.NewUniformSampler(s.LightList)
	}
}

func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if s.bvh == nil {
		return nil, false
	}
	return s.bvh.Hit(ray, tMin, tMax)
}

func (s *Scene) IntersectShadow(ray core.Ray, maxDistance float64) bool {
	if s.bvh == nil {
		return false
	}
	_, ok := s.bvh.Hit(ray, 1e-4, maxDistance-1e-4)
	return ok
}

func (s *Scene) Lights() []core.Light         { return s.LightList }
func (s *Scene) LightSampler() core.LightSampler { return s.Sampler }
func (s *Scene) Camera() core.Camera          { return s.Cam }

func (s *Scene) WorldBounds() (core.Vec3, float64) {
	if s.bvh == nil {
		return core.Vec3{}, 1.0
	}
	radius := s.bvh.FiniteWorldRadius
	if radius <= 0 || math.IsInf(radius, 1) {
		radius = 1.0
	}
	return s.bvh.FiniteWorldCenter, radius
}

func (s *Scene) LightForHit(hit *core.HitRecord) core.Light {
	if !hit.IsLightSurface() {
		return nil
	}
	return s.lightByShape[hit.ShapeID]
}
