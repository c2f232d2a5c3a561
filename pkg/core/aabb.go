package core

import "math"

// AABB is an axis-aligned bounding box. Grounded on the teacher's
// pkg/core/aabb.go; the slab test is rewritten to use Ray's cached
// reciprocal direction (spec.md §3: "derived origin ⊙ reciprocal cache").
type AABB struct {
	Min Vec3
	Max Vec3
}

func NewAABB(min, max Vec3) AABB { return AABB{Min: min, Max: max} }

func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Union(AABB{Min: p, Max: p})
	}
	return box
}

// Hit implements the slab method using the ray's precomputed reciprocal
// direction, avoiding a division per axis per test.
func (b AABB) Hit(ray Ray, tMin, tMax float64) bool {
	mins := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	maxs := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	invDir := [3]float64{ray.InvDir.X, ray.InvDir.Y, ray.InvDir.Z}
	originInv := [3]float64{ray.OriginInvDir.X, ray.OriginInvDir.Y, ray.OriginInvDir.Z}

	for axis := 0; axis < 3; axis++ {
		t1 := mins[axis]*invDir[axis] - originInv[axis]
		t2 := maxs[axis]*invDir[axis] - originInv[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}

func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

func (b AABB) Center() Vec3  { return b.Min.Add(b.Max).Multiply(0.5) }
func (b AABB) Size() Vec3    { return b.Max.Subtract(b.Min) }

func (b AABB) SurfaceArea() float64 {
	s := b.Size()
	return 2.0 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

func (b AABB) LongestAxis() int {
	s := b.Size()
	if s.X > s.Y && s.X > s.Z {
		return 0
	}
	if s.Y > s.Z {
		return 1
	}
	return 2
}

func (b AABB) Expand(amount float64) AABB {
	e := NewVec3(amount, amount, amount)
	return AABB{Min: b.Min.Subtract(e), Max: b.Max.Add(e)}
}

// BoundingSphere returns a sphere enclosing the box, used to derive the
// scene's finite-world radius for infinite-light sampling (spec.md §4.C).
func (b AABB) BoundingSphere() (center Vec3, radius float64) {
	center = b.Center()
	radius = b.Max.Subtract(center).Length()
	return
}
