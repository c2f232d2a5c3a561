// Package transport holds the random-walk machinery shared by every
// integrator: path-state advancement (spec.md §4.E), the BDPT/VCM vertex
// record, and the VCM photon record (spec.md §3). Grounded on the walk
// embedded in the teacher's pkg/integrator/path_tracing.go, pulled out into
// a standalone, integrator-agnostic stepper so PT-MIS, the light tracer,
// BDPT, and VCM all advance a path the same way.
package transport

import "github.com/df07/spectral-path-tracer/pkg/core"

// VertexKind distinguishes a path's originating endpoint for MIS technique
// bookkeeping (spec.md §4.F.5).
type VertexKind uint8

const (
	CameraVertex VertexKind = iota
	LightVertexKind
)

// Vertex is one node of a stored BDPT/VCM subpath: the hit geometry, the
// BSDF prepared there, the running path throughput, and the MIS
// accumulators (dVCM/dVC/dVM) needed to fold in every alternate sampling
// technique without recomputing the whole subpath (spec.md §4.F.5, §4.F.6).
// Kept to the teacher's bdpt.Vertex field set; nothing here holds a slice
// or map, and the struct occupies 208 bytes on a 64-bit platform (72 of
// them the RayColor throughput).
type Vertex struct {
	Point      core.Vec3
	Normal     core.Vec3
	BSDF       core.BSDF
	// OutgoingLocal is the direction back toward this vertex's predecessor,
	// in the local tangent frame core.NewShadingFrame(Point, Normal)
	// reconstructs (that frame is a pure function of Point/Normal, so
	// re-deriving it later reproduces the same basis).
	OutgoingLocal core.Vec3
	Throughput    core.RayColor
	Kind       VertexKind
	IsDelta    bool
	IsInfinite bool

	// AreaPdfFwd/AreaPdfRev are the area-measure pdfs of having sampled this
	// vertex forward (from its predecessor) and in reverse (from its
	// successor), used by MIS weight recomputation (spec.md §4.F.5).
	AreaPdfFwd float64
	AreaPdfRev float64

	// dVCM/dVC/dVM are the running partial MIS sums spec.md §4.F.6 carries
	// forward along a subpath (Georgiev et al.'s VCM weighting).
	DVCM float64
	DVC  float64
	DVM  float64
}

// Photon is the VCM photon-map record stored at each light-subpath vertex
// eligible for merging (spec.md §3). Holds only what the merge step
// (`pkg/integrator/vcm.go`) needs: position, incoming direction,
// throughput, and the same dVCM/dVM accumulators as Vertex. Fields are
// unpacked (float64 vectors and a full RayColor), so the struct occupies
// 128 bytes on a 64-bit platform.
type Photon struct {
	Point      core.Vec3
	Direction  core.Vec3
	Throughput core.RayColor
	DVCM       float32
	DVM        float32
}

// Path is a stored sequence of vertices from one subpath (camera or light),
// mirroring the teacher's bdpt.Path.
type Path struct {
	Vertices []Vertex
}

func (p *Path) Length() int { return len(p.Vertices) }
