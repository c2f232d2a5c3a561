package core

// EventKind tags what kind of scattering event a BSDF sample or evaluation
// represents (spec.md §4.D). Implemented as a bitmask so aggregate labels
// (Diffuse, Glossy, Specular, Reflective, Transmissive, Any) are simple ORs.
type EventKind uint16

const (
	EventNone EventKind = 0

	DiffuseReflection EventKind = 1 << iota
	DiffuseTransmission
	GlossyReflection
	GlossyRefraction
	SpecularReflection
	SpecularRefraction
)

const (
	Diffuse      = DiffuseReflection | DiffuseTransmission
	Glossy       = GlossyReflection | GlossyRefraction
	Specular     = SpecularReflection | SpecularRefraction
	Reflective   = DiffuseReflection | GlossyReflection | SpecularReflection
	Transmissive = DiffuseTransmission | GlossyRefraction | SpecularRefraction
	AnyEvent     = Diffuse | Glossy | Specular
)

func (e EventKind) Has(flag EventKind) bool { return e&flag != 0 }
func (e EventKind) IsSpecular() bool        { return e.Has(Specular) }
func (e EventKind) IsDiffuse() bool         { return e.Has(Diffuse) }

// GrazingEpsilon is the cosine threshold below which BSDFs must return a
// zero contribution and zero pdf (spec.md §4.D edge case policy).
const GrazingEpsilon = 1e-5

// SmoothRoughnessThreshold: below this the glossy event collapses to a
// Dirac specular event (spec.md §4.D).
const SmoothRoughnessThreshold = 0.005

// BSDFSample is the result of importance-sampling an incoming direction
// given an outgoing direction, both in local tangent space (X=tangent,
// Z=normal). Weight is already multiplied by |cos(theta_i)|.
type BSDFSample struct {
	Incoming  Vec3
	Weight    RayColor
	PdfFwd    float64
	Event     EventKind
}

// IsNull reports "no valid scatter" (spec.md §4.D): the walk must terminate.
func (s BSDFSample) IsNull() bool { return s.Event == EventNone }

// BSDFEval is the result of evaluating a BSDF for a fixed (incoming,
// outgoing) pair. Zero for delta BSDFs.
type BSDFEval struct {
	Weight    RayColor
	PdfFwd    float64
	PdfRev    float64
}

// BSDF is the local-tangent-space scattering protocol of spec.md §4.D. All
// directions point away from the surface.
type BSDF interface {
	// Sample draws an incoming direction given the outgoing direction,
	// using a 3D sample (2D for direction, 1D for lobe selection).
	Sample(outgoing Vec3, sample Vec3, wl WavelengthBundle) BSDFSample
	// Evaluate returns the weight and forward/reverse solid-angle pdfs for
	// a fixed pair. Returns zero weight/pdf for delta BSDFs.
	Evaluate(incoming, outgoing Vec3, wl WavelengthBundle) BSDFEval
	// Pdf returns the forward (or, if reverse is true, reverse) sampling
	// density of incoming given outgoing.
	Pdf(incoming, outgoing Vec3, reverse bool) float64
	// IsDelta reports whether this BSDF is a Dirac distribution (cannot be
	// evaluated, only sampled).
	IsDelta() bool
}

// Material couples a BSDF to a shading frame and emission; it is the unit
// the scene's shapes reference (spec.md §3 "Material parameters").
type Material interface {
	// PrepareBSDF evaluates textured parameters at the hit and returns a
	// BSDF ready to sample/evaluate in the hit's local frame. It returns
	// only the BSDF; whether a dispersive refraction collapses the
	// wavelength bundle is decided by the caller from the sampled event.
	PrepareBSDF(hit *HitRecord, wl *WavelengthBundle) BSDF
	// IsEmissive reports whether this material ever returns non-zero
	// emission (used to flag IsLight on non-sentinel hits).
	IsEmissive() bool
	// IsDispersive reports whether a refraction through this material
	// should collapse the wavelength bundle (spec.md §4.D).
	IsDispersive() bool
	// EmittedRadiance returns the material's emission toward rayIn's
	// origin, zero if not emissive or the hit is back-facing.
	EmittedRadiance(rayIn Ray, hit *HitRecord) RayColor
}

// Emitter is implemented by materials that emit light directly (used by
// area lights wrapping an emissive material, spec.md §4.C).
type Emitter interface {
	Emit(rayIn Ray, hit *HitRecord) RayColor
}
