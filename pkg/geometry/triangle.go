package geometry

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// Triangle is a single triangle given three world-space vertices. Grounded on
// the teacher's pkg/geometry/triangle.go (Moller-Trumbore intersection).
type Triangle struct {
	V0, V1, V2 core.Vec3
	Normal     core.Vec3
}

func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	n := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	return &Triangle{V0: v0, V1: v1, V2: v2, Normal: n}
}

func (t *Triangle) Area() float64 {
	return 0.5 * t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Length()
}

func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	const epsilon = 1e-8
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < epsilon {
		return nil, false
	}
	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return nil, false
	}
	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return nil, false
	}
	dist := f * edge2.Dot(q)
	if dist < tMin || dist > tMax {
		return nil, false
	}
	hit := &core.HitRecord{
		Distance: dist,
		Point:    ray.At(dist),
		UV:       core.NewVec2(u, v),
		Bary:     core.NewVec2(1-u-v, u),
	}
	hit.SetFaceNormal(ray, t.Normal)
	return hit, true
}

// SampleUniform draws a uniformly distributed barycentric point on the
// triangle from a 2D sample via the sqrt(u1) parameterization spec.md
// §4.C names for area-light sampling.
func (t *Triangle) SampleUniform(u core.Vec2) core.Vec3 {
	su0 := math.Sqrt(u.X)
	b0 := 1 - su0
	b1 := u.Y * su0
	return t.V0.Multiply(b0).Add(t.V1.Multiply(b1)).Add(t.V2.Multiply(1 - b0 - b1))
}

func (t *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}
