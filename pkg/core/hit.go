package core

import "math"

// LightSubObjectSentinel marks a HitRecord's SubShapeID as "this hit is on
// a light source surface; resolve through the light protocol, not the
// material" (spec.md §3 invariant).
const LightSubObjectSentinel = -1

// HitRecord is the result of a nearest-intersection query (spec.md §3).
type HitRecord struct {
	Distance    float64
	ShapeID     int
	SubShapeID  int
	Bary        Vec2
	Point       Vec3
	Normal      Vec3 // geometric, already flipped to face the incoming ray
	FrontFace   bool
	UV          Vec2
	Material    Material
	Shape       Shape
}

// IsLightSurface reports whether this hit must be resolved via the light
// protocol (Light.Radiance) instead of material evaluation.
func (h *HitRecord) IsLightSurface() bool { return h.SubShapeID == LightSubObjectSentinel }

// SetFaceNormal orients the normal to face the incoming ray and records
// which face was hit.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// ShadingFrame is the orthonormal (tangent, bitangent, normal) triple plus
// world position used to move directions between world and local (BSDF)
// space (spec.md §3).
type ShadingFrame struct {
	Position         Vec3
	Tangent, Bitangent, Normal Vec3
}

// NewShadingFrame builds an orthonormal frame around normal, picking an
// arbitrary tangent (Duff et al.'s branchless construction).
func NewShadingFrame(position, normal Vec3) ShadingFrame {
	n := normal.Normalize()
	sign := math.Copysign(1.0, n.Z)
	a := -1.0 / (sign + n.Z)
	b := n.X * n.Y * a
	tangent := Vec3{1.0 + sign*n.X*n.X*a, sign * b, -sign * n.X}
	bitangent := Vec3{b, sign + n.Y*n.Y*a, -n.Y}
	return ShadingFrame{Position: position, Tangent: tangent, Bitangent: bitangent, Normal: n}
}

func (f ShadingFrame) WorldToLocal(v Vec3) Vec3 {
	return Vec3{v.Dot(f.Tangent), v.Dot(f.Bitangent), v.Dot(f.Normal)}
}

func (f ShadingFrame) LocalToWorld(v Vec3) Vec3 {
	return f.Tangent.Multiply(v.X).Add(f.Bitangent.Multiply(v.Y)).Add(f.Normal.Multiply(v.Z))
}

// CosTheta returns the cosine of the angle between a world-space direction
// and the frame's normal.
func (f ShadingFrame) CosTheta(dir Vec3) float64 { return f.Normal.Dot(dir) }

// CosThetaLocal returns the Z component of a local-space direction, the
// cosine w.r.t. the local-space normal (0,0,1).
func CosThetaLocal(localDir Vec3) float64 { return localDir.Z }
