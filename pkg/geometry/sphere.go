// Package geometry implements the core.Shape primitives: the pure
// ray-intersection math spec.md §1 calls "mesh/shape intersection
// primitives," consumed by the scene layer through the core.Shape
// interface. Shapes carry no material or light reference of their own --
// that association is made once, at the scene primitive that wraps a shape
// (spec.md §4.C separates geometry from Material/Light entirely).
package geometry

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// Sphere is a shape centered at Center with the given Radius.
type Sphere struct {
	Center core.Vec3
	Radius float64
}

func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	point := ray.At(root)
	outwardNormal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)

	theta := math.Acos(clamp(-outwardNormal.Y, -1, 1))
	phi := math.Atan2(-outwardNormal.Z, outwardNormal.X) + math.Pi
	uv := core.NewVec2(phi/(2.0*math.Pi), theta/math.Pi)

	hit := &core.HitRecord{Distance: root, Point: point, UV: uv}
	hit.SetFaceNormal(ray, outwardNormal)
	return hit, true
}

func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// SurfaceArea returns 4*pi*r^2.
func (s *Sphere) SurfaceArea() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
