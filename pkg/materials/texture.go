// Package materials implements the core.Material container: textured
// parameters, emission, and dispersion bound to one of the pkg/bsdf lobes
// (spec.md §4.D: "the Material container holds one BSDF pointer, textured
// parameters, optional normal map, and dispersion coefficients").
package materials

import "github.com/df07/spectral-path-tracer/pkg/core"

// ColorSource evaluates a spatially varying or constant color parameter at
// a hit's texture coordinates.
type ColorSource interface {
	Sample(uv core.Vec2) core.Vec3
}

// Constant is a ColorSource with no spatial variation.
type Constant core.Vec3

func (c Constant) Sample(core.Vec2) core.Vec3 { return core.Vec3(c) }

// ScalarSource evaluates a spatially varying or constant scalar parameter
// (roughness, metalness) at a hit's texture coordinates.
type ScalarSource interface {
	Sample(uv core.Vec2) float64
}

// ConstantScalar is a ScalarSource with no spatial variation.
type ConstantScalar float64

func (c ConstantScalar) Sample(core.Vec2) float64 { return float64(c) }

// ImageColorSource samples a decoded bitmap (pkg/loaders) as a color
// parameter, wrapping texture coordinates and doing bilinear-free nearest
// lookup (matching the teacher's simple UV-to-pixel mapping style).
type ImageColorSource struct {
	Width, Height int
	Pixels        []core.Vec3 // row-major, linear color
}

func (t *ImageColorSource) Sample(uv core.Vec2) core.Vec3 {
	if t == nil || t.Width == 0 || t.Height == 0 {
		return core.Vec3{}
	}
	u := uv.X - floor(uv.X)
	v := uv.Y - floor(uv.Y)
	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return t.Pixels[y*t.Width+x]
}

func floor(v float64) float64 {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return float64(i)
}
