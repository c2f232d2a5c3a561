package core

// Shape is anything the BVH can intersect and bound: the geometric half of
// a primitive (spec.md §4.C splits geometry from the Material/Light attached
// to it, matching the teacher's geometry/material separation).
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	BoundingBox() AABB
}

// Preprocessor is implemented by shapes and lights that need one-time setup
// after the full scene is assembled (e.g. caching surface area). Mirrors the
// teacher's geometry.Preprocessor.
type Preprocessor interface {
	Preprocess()
}

// LightSample is the result of illuminating a shading point from a light
// for next event estimation (spec.md §4.C "illuminate"): a candidate
// direction and distance, the radiance arriving along it, the solid-angle
// pdf of having chosen that direction (DirectPdfW), the joint
// position-times-direction emission pdf BDPT/VCM need to weight the
// opposite subpath direction (EmissionPdfW), and the cosine at the light
// surface.
type LightSample struct {
	Direction    Vec3
	Distance     float64
	Radiance     RayColor
	DirectPdfW   float64
	EmissionPdfW float64
	CosAtLight   float64
	IsDelta      bool
}

// EmissionSample is the result of sampling a light for forward light-path
// generation (spec.md §4.C "emit"): a point and direction to emit along,
// the emitted radiance, the area-measure pdf of the position (DirectPdfA),
// the joint position-times-direction pdf (EmissionPdfW), and the cosine at
// the light surface.
type EmissionSample struct {
	Point        Vec3
	Normal       Vec3
	Direction    Vec3
	Radiance     RayColor
	DirectPdfA   float64
	EmissionPdfW float64
	CosAtLight   float64
}

// Light is the illumination protocol every light type implements: NEE
// sampling (Illuminate), forward emission (Emit), and radiance evaluation
// when a traced ray happens to hit the light's own geometry (Radiance)
// (spec.md §4.C).
type Light interface {
	// Illuminate samples a direction from point toward the light for next
	// event estimation.
	Illuminate(point Vec3, sample Vec2, wl WavelengthBundle) LightSample
	// Emit samples a point and direction for forward light-path generation.
	Emit(posSample, dirSample Vec2, wl WavelengthBundle) EmissionSample
	// Radiance returns the emitted radiance seen by rayIn hitting hit, along
	// with the area and emission pdfs of having generated that hit via Emit
	// (for BDPT/VCM's light-hit MIS term); zero for lights with no surface a
	// camera ray could hit (point, directional, spot).
	Radiance(rayIn Ray, hit *HitRecord, wl WavelengthBundle) (radiance RayColor, directPdfA, emissionPdfW float64)
	// IsDelta reports whether the light has zero measure (point, directional,
	// spot): such lights can never be hit by a traced ray and contribute no
	// BSDF-sampling MIS strategy.
	IsDelta() bool
	// IsFinite reports whether the light is a bounded surface (false for
	// directional and background lights, spec.md §4.C).
	IsFinite() bool
}

// LightSampler picks one light among the scene's lights for NEE and forward
// emission, and reports the probability of that pick for MIS bookkeeping
// (spec.md §4.C). Concrete samplers: uniform and power-weighted.
type LightSampler interface {
	SampleLight(u float64) (light Light, pdf float64)
	LightPDF(light Light) float64
	Lights() []Light
}

// Camera turns film coordinates into primary rays and, for BDPT/light
// tracing, turns world points back into film coordinates and reports the
// pdf of having generated a given ray (spec.md §4.D, §4.F.3's "connect to
// camera" strategy).
type Camera interface {
	GenerateRay(filmX, filmY float64, lensSample Vec2) Ray
	// WorldToFilm projects a world point back onto the film plane for the
	// light tracer and BDPT's s-vertex camera connection strategy. ok is
	// false when the point falls outside the visible frustum or is behind
	// the camera.
	WorldToFilm(point Vec3) (filmX, filmY float64, ok bool)
	// PdfWe returns the (positional, directional) pdf of the camera having
	// generated a ray in the given direction, in the measure BDPT needs to
	// convert between camera subpath vertices (spec.md §4.F.3).
	PdfWe(ray Ray) (pdfPos, pdfDir float64)
	Forward() Vec3
	// Position returns the camera's lens/aperture point, needed by the
	// light tracer and BDPT's camera-connection strategy to build the
	// shadow ray from a light-subpath vertex back to the lens (spec.md
	// §4.F.4 "cast a shadow ray").
	Position() Vec3
}

// SplatRay is a film contribution that did not arise from the pixel's own
// camera ray: light-tracer paths and BDPT's camera-connection strategy both
// deposit radiance at an arbitrary film location discovered mid-walk
// (spec.md §4.F.3, §5 "splat queue").
type SplatRay struct {
	FilmX, FilmY float64
	Contribution RayColor
	// WL is the wavelength bundle Contribution was computed against. A
	// splat originates from an independent light subpath, not the camera
	// pixel's own path, so its bundle can differ (a different hero sample,
	// or a dispersive collapse the camera path never took) and must travel
	// with the contribution to convert it to tristimulus correctly.
	WL WavelengthBundle
}

// Scene bundles the BVH, lights, light sampler, and camera an integrator
// needs, and knows the finite-world radius infinite lights require (spec.md
// §4.C, §4.F.6).
type Scene interface {
	Intersect(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	IntersectShadow(ray Ray, maxDistance float64) bool
	Lights() []Light
	LightSampler() LightSampler
	Camera() Camera
	// WorldBounds returns the center and radius of a sphere enclosing all
	// finite scene geometry, used by infinite lights to bound their solid
	// angle contribution.
	WorldBounds() (center Vec3, radius float64)
	// LightForHit resolves a HitRecord whose SubShapeID is
	// LightSubObjectSentinel back to the Light whose surface was hit
	// (spec.md §3 invariant: such a hit is never evaluated through the
	// material protocol).
	LightForHit(hit *HitRecord) Light
}
