package core

import "math"

// PowerHeuristic implements the power-heuristic MIS weight with exponent 2,
// the classic Veach balance refinement (spec.md uses exponent 1 for its own
// mis(x)=x helper in §4.F; this exponent-2 variant is kept for the
// unidirectional path tracer's NEE/BSDF combination, matching the teacher).
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return (f * f) / (f*f + g*g)
}

// BalanceHeuristic implements the balance heuristic (exponent 1), which is
// spec.md §4.F's mis(x) = x convention used throughout BDPT/VCM.
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	if fPdf == 0 {
		return 0
	}
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f+g == 0 {
		return 0
	}
	return f / (f + g)
}

// Mis is the "power heuristic with exponent 1" helper named in spec.md
// §4.F: the identity function. Kept as a named symbol so the BDPT/VCM MIS
// bookkeeping reads the same as the specification's equations.
func Mis(x float64) float64 { return x }

// Combine implements spec.md §4.F's combine(a,b) = a/(a+b), guarding the
// degenerate a=b=0 case.
func Combine(a, b float64) float64 {
	if a+b == 0 {
		return 0
	}
	return a / (a + b)
}

// PdfAtoW converts an area-measure pdf to a solid-angle-measure pdf given
// the squared distance and the cosine at the far vertex (spec.md §4.F).
func PdfAtoW(pdfA, distSq, cosTheta float64) float64 {
	if cosTheta <= 0 || distSq <= 0 {
		return 0
	}
	return pdfA * distSq / cosTheta
}

// PdfWtoA converts a solid-angle-measure pdf to an area-measure pdf.
func PdfWtoA(pdfW, distSq, cosTheta float64) float64 {
	return pdfW * math.Abs(cosTheta) / distSq
}

// RandomCosineDirection draws a cosine-weighted direction in the hemisphere
// around normal from a 2D sample, used by Lambertian sampling and emission
// sampling from area lights.
func RandomCosineDirection(normal Vec3, u Vec2) Vec3 {
	r1, r2 := u.X, u.Y
	phi := 2 * math.Pi * r1
	cosTheta := math.Sqrt(1 - r2)
	sinTheta := math.Sqrt(r2)

	x := math.Cos(phi) * sinTheta
	y := math.Sin(phi) * sinTheta
	z := cosTheta

	frame := NewShadingFrame(Vec3{}, normal)
	return frame.LocalToWorld(Vec3{x, y, z}).Normalize()
}

// UniformSampleSphere draws a uniformly distributed direction on the unit
// sphere.
func UniformSampleSphere(u Vec2) Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// UniformSampleCone draws a direction within a cone of half-angle whose
// cosine is cosThetaMax, around the local +Z axis of the given frame.
func UniformSampleCone(u Vec2, cosThetaMax float64, frame ShadingFrame) Vec3 {
	cosTheta := (1 - u.X) + u.X*cosThetaMax
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	local := Vec3{math.Cos(phi) * sinTheta, math.Sin(phi) * sinTheta, cosTheta}
	return frame.LocalToWorld(local)
}

// UniformConePDF returns the pdf of UniformSampleCone's distribution.
func UniformConePDF(cosThetaMax float64) float64 {
	return 1.0 / (2 * math.Pi * (1 - cosThetaMax))
}

// SampleUniformDiskConcentric draws a point on the unit disk using Shirley's
// concentric mapping (used for camera lens sampling and infinite-light
// disk sampling, spec.md §4.C "emit").
func SampleUniformDiskConcentric(u Vec2) Vec2 {
	ux := 2*u.X - 1
	uy := 2*u.Y - 1
	if ux == 0 && uy == 0 {
		return Vec2{}
	}
	var r, theta float64
	if math.Abs(ux) > math.Abs(uy) {
		r = ux
		theta = (math.Pi / 4) * (uy / ux)
	} else {
		r = uy
		theta = (math.Pi / 2) - (math.Pi/4)*(ux/uy)
	}
	return Vec2{r * math.Cos(theta), r * math.Sin(theta)}
}

// SphereConePDF is the solid-angle pdf of sampling a sphere of the given
// radius from distance away via the cone-sampling strategy, falling back to
// uniform-on-sphere pdf when the point is inside the sphere (spec.md §4.C).
func SphereConePDF(distance, radius float64) float64 {
	if distance <= radius {
		return 1.0 / (4.0 * math.Pi * radius * radius)
	}
	sinThetaMax := radius / distance
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax*sinThetaMax))
	return UniformConePDF(cosThetaMax)
}
