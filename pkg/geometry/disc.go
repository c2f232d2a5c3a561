package geometry

import (
	"math"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

// Disc is a flat circular surface, built by the scene loader for "disc"
// objects. The lights do not use it: their bounding-disk sampling calls
// core.SampleUniformDiskConcentric directly.
type Disc struct {
	Center core.Vec3
	Normal core.Vec3
	Radius float64
}

func NewDisc(center, normal core.Vec3, radius float64) *Disc {
	return &Disc{Center: center, Normal: normal.Normalize(), Radius: radius}
}

func (d *Disc) Area() float64 { return math.Pi * d.Radius * d.Radius }

func (d *Disc) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denom := ray.Direction.Dot(d.Normal)
	if math.Abs(denom) < 1e-8 {
		return nil, false
	}
	t := d.Center.Subtract(ray.Origin).Dot(d.Normal) / denom
	if t < tMin || t > tMax {
		return nil, false
	}
	point := ray.At(t)
	if point.Subtract(d.Center).LengthSquared() > d.Radius*d.Radius {
		return nil, false
	}
	hit := &core.HitRecord{Distance: t, Point: point}
	hit.SetFaceNormal(ray, d.Normal)
	return hit, true
}

func (d *Disc) BoundingBox() core.AABB {
	frame := core.NewShadingFrame(d.Center, d.Normal)
	extent := frame.Tangent.Multiply(d.Radius).Add(frame.Bitangent.Multiply(d.Radius))
	half := core.NewVec3(math.Abs(extent.X)+1e-4, math.Abs(extent.Y)+1e-4, math.Abs(extent.Z)+1e-4)
	return core.NewAABB(d.Center.Subtract(half), d.Center.Add(half))
}

// SampleUniform returns a uniformly sampled point on the disc from a 2D
// sample in [0,1)^2, using Shirley's concentric mapping.
func (d *Disc) SampleUniform(u core.Vec2) core.Vec3 {
	local := core.SampleUniformDiskConcentric(u).Multiply(d.Radius)
	frame := core.NewShadingFrame(d.Center, d.Normal)
	return d.Center.Add(frame.Tangent.Multiply(local.X)).Add(frame.Bitangent.Multiply(local.Y))
}
