package geometry

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// Plane is an unbounded flat surface, used for ground planes and other
// backdrop geometry where a finite Quad would be inconvenient to size.
type Plane struct {
	Point  core.Vec3
	Normal core.Vec3
}

func NewPlane(point, normal core.Vec3) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize()}
}

func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denom := ray.Direction.Dot(p.Normal)
	if math.Abs(denom) < 1e-8 {
		return nil, false
	}
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denom
	if t < tMin || t > tMax {
		return nil, false
	}
	hit := &core.HitRecord{Distance: t, Point: ray.At(t)}
	hit.SetFaceNormal(ray, p.Normal)
	return hit, true
}

// BoundingBox returns a very large box; planes are excluded from the
// finite-world-radius computation by their size (core.calculateFiniteWorldBounds).
func (p *Plane) BoundingBox() core.AABB {
	const big = 1e6
	b := core.NewVec3(big, big, big)
	return core.NewAABB(p.Point.Subtract(b), p.Point.Add(b))
}
