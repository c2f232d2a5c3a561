// Package core holds the math primitives and cross-cutting protocol
// interfaces shared by every other package in the renderer: vectors, rays,
// bounding volumes, the radiometric carrier, the sampler contract, and the
// Shape/Material/Light/Camera/Scene interfaces that the integrator drives.
package core

import (
	"fmt"
	"math"
)

// Vec3 represents a 3D vector, point, or RGB color.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 represents a 2D vector, typically a pair of [0,1) sampler values.
type Vec2 struct {
	X, Y float64
}

func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }
func NewVec2(x, y float64) Vec2    { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2          { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Multiply(s float64) Vec2  { return Vec2{v.X * s, v.Y * s} }

func (v Vec3) String() string {
	return fmt.Sprintf("{%.4g, %.4g, %.4g}", v.X, v.Y, v.Z)
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Subtract(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Multiply(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Negate() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Length() float64        { return math.Sqrt(v.LengthSquared()) }
func (v Vec3) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

func (v Vec3) Dot(o Vec3) float64    { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) AbsDot(o Vec3) float64 { return math.Abs(v.Dot(o)) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) MultiplyVec(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Multiply(1.0 / l)
}

// Clamp returns a vector with components clamped to [lo, hi].
func (v Vec3) Clamp(lo, hi float64) Vec3 {
	return Vec3{
		X: math.Max(lo, math.Min(hi, v.X)),
		Y: math.Max(lo, math.Min(hi, v.Y)),
		Z: math.Max(lo, math.Min(hi, v.Z)),
	}
}

// Luminance uses Rec.709 weights, appropriate for RGB-mode throughput used
// as the Russian-roulette survival estimator.
func (v Vec3) Luminance() float64 {
	return 0.2126*v.X + 0.7152*v.Y + 0.0722*v.Z
}

// GammaCorrect raises each component to 1/gamma, the display-referred
// encoding applied just before an accumulated linear radiance value is
// quantized to an 8-bit LDR channel.
func (v Vec3) GammaCorrect(gamma float64) Vec3 {
	inv := 1.0 / gamma
	return Vec3{
		X: math.Pow(math.Max(0, v.X), inv),
		Y: math.Pow(math.Max(0, v.Y), inv),
		Z: math.Pow(math.Max(0, v.Z), inv),
	}
}

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Max returns the largest component.
func (v Vec3) Max() float64 { return math.Max(v.X, math.Max(v.Y, v.Z)) }

// IsValid reports false if any component is NaN or infinite.
func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// AlmostZero reports true if every component is within eps of zero.
func (v Vec3) AlmostZero(eps float64) bool {
	return math.Abs(v.X) < eps && math.Abs(v.Y) < eps && math.Abs(v.Z) < eps
}

// Lerp linearly interpolates between two vectors.
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Multiply(1 - t).Add(b.Multiply(t))
}

// Ray is an origin plus a unit direction, with reciprocal-direction and
// origin*reciprocal caches used by AABB slab tests (spec.md §3).
type Ray struct {
	Origin      Vec3
	Direction   Vec3
	InvDir      Vec3
	OriginInvDir Vec3
	Time        float64
}

// NewRay builds a ray and precomputes its slab-test caches.
func NewRay(origin, direction Vec3) Ray {
	inv := Vec3{safeInv(direction.X), safeInv(direction.Y), safeInv(direction.Z)}
	return Ray{
		Origin:       origin,
		Direction:    direction,
		InvDir:       inv,
		OriginInvDir: origin.MultiplyVec(inv),
	}
}

// NewRayTo builds a normalized ray from origin toward target.
func NewRayTo(origin, target Vec3) Ray {
	return NewRay(origin, target.Subtract(origin).Normalize())
}

func safeInv(x float64) float64 {
	if x == 0 {
		return math.Inf(1)
	}
	return 1.0 / x
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Direction.Multiply(t)) }

// secondaryRayEpsilon nudges secondary-ray origins off the surface to avoid
// self-intersection (spec.md §3 invariant).
const secondaryRayEpsilon = 1e-3

// SpawnRay builds a secondary ray from a shading point nudged along dir.
func SpawnRay(point, dir, normal Vec3) Ray {
	return NewRay(point.Add(dir.Multiply(secondaryRayEpsilon)), dir)
}
