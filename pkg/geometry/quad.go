package geometry

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

type axisAlignment int

const (
	notAxisAligned axisAlignment = iota
	xAxisAligned
	yAxisAligned
	zAxisAligned
)

func getAxisAlignment(normal core.Vec3) axisAlignment {
	const threshold, tolerance = 0.9999, 0.0001
	switch {
	case math.Abs(normal.X) > threshold && math.Abs(normal.Y) < tolerance && math.Abs(normal.Z) < tolerance:
		return xAxisAligned
	case math.Abs(normal.Y) > threshold && math.Abs(normal.X) < tolerance && math.Abs(normal.Z) < tolerance:
		return yAxisAligned
	case math.Abs(normal.Z) > threshold && math.Abs(normal.X) < tolerance && math.Abs(normal.Y) < tolerance:
		return zAxisAligned
	}
	return notAxisAligned
}

func findMinMax(corners []core.Vec3, accessor func(core.Vec3) float64) (float64, float64) {
	lo, hi := accessor(corners[0]), accessor(corners[0])
	for _, c := range corners[1:] {
		v := accessor(c)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Quad is a rectangular surface defined by a corner and two edge vectors.
type Quad struct {
	Corner core.Vec3
	U, V   core.Vec3
	Normal core.Vec3
	d      float64
	w      core.Vec3
	area   float64
}

func NewQuad(corner, u, v core.Vec3) *Quad {
	normal := u.Cross(v).Normalize()
	d := normal.Dot(corner)
	cross := u.Cross(v)
	w := normal.Multiply(1.0 / normal.Dot(cross))
	return &Quad{Corner: corner, U: u, V: v, Normal: normal, d: d, w: w, area: cross.Length()}
}

func (q *Quad) Area() float64 { return q.area }

func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denom := ray.Direction.Dot(q.Normal)
	if math.Abs(denom) < 1e-8 {
		return nil, false
	}
	t := (q.d - ray.Origin.Dot(q.Normal)) / denom
	if t < tMin || t > tMax {
		return nil, false
	}
	point := ray.At(t)
	hv := point.Subtract(q.Corner)
	alpha := q.w.Dot(hv.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hv))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}
	hit := &core.HitRecord{Distance: t, Point: point, UV: core.NewVec2(alpha, beta)}
	hit.SetFaceNormal(ray, q.Normal)
	return hit, true
}

// PointFromUV maps a (u,v) in [0,1]^2 back to a world position, used by area
// lights sampling uniformly on the quad's surface.
func (q *Quad) PointFromUV(u, v float64) core.Vec3 {
	return q.Corner.Add(q.U.Multiply(u)).Add(q.V.Multiply(v))
}

func (q *Quad) BoundingBox() core.AABB {
	corners := []core.Vec3{
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	}
	alignment := getAxisAlignment(q.Normal)
	if alignment == notAxisAligned {
		return core.NewAABBFromPoints(corners...)
	}
	const epsilon = 0.001
	switch alignment {
	case xAxisAligned:
		minY, maxY := findMinMax(corners, func(v core.Vec3) float64 { return v.Y })
		minZ, maxZ := findMinMax(corners, func(v core.Vec3) float64 { return v.Z })
		return core.NewAABB(core.NewVec3(corners[0].X-epsilon, minY, minZ), core.NewVec3(corners[0].X+epsilon, maxY, maxZ))
	case yAxisAligned:
		minX, maxX := findMinMax(corners, func(v core.Vec3) float64 { return v.X })
		minZ, maxZ := findMinMax(corners, func(v core.Vec3) float64 { return v.Z })
		return core.NewAABB(core.NewVec3(minX, corners[0].Y-epsilon, minZ), core.NewVec3(maxX, corners[0].Y+epsilon, maxZ))
	default:
		minX, maxX := findMinMax(corners, func(v core.Vec3) float64 { return v.X })
		minY, maxY := findMinMax(corners, func(v core.Vec3) float64 { return v.Y })
		return core.NewAABB(core.NewVec3(minX, minY, corners[0].Z-epsilon), core.NewVec3(maxX, maxY, corners[0].Z+epsilon))
	}
}
