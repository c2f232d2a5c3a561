// Package scene assembles geometry, materials, and lights into the
// core.Scene the integrators drive, and loads that assembly from the JSON
// scene description of spec.md §6. Grounded on the teacher's pkg/scene
// package, but where the teacher's geometry.Shape carries a material field
// directly, this package keeps pkg/geometry shapes material-free and
// attaches material/light identity at the Primitive wrapper below.
package scene

import "github.com/df07/spectral-path-tracer/pkg/core"

// Primitive pairs a bare geometry.Shape with the material or light identity
// it carries in the scene, filling in the HitRecord fields
// (ShapeID/SubShapeID/Material/Shape) that a core.Shape on its own can't
// know (spec.md §3: "a Primitive pairs a Shape with a Material or marks it
// as a light surface").
type Primitive struct {
	Shape      core.Shape
	Material   core.Material
	Light      core.Light // non-nil when this primitive is a light's own surface
	ShapeID    int
	SubShapeID int
}

func NewPrimitive(shapeID int, shape core.Shape, material core.Material) *Primitive {
	return &Primitive{Shape: shape, Material: material, ShapeID: shapeID, SubShapeID: 0}
}

func NewLightPrimitive(shapeID int, shape core.Shape, light core.Light) *Primitive {
	return &Primitive{Shape: shape, Light: light, ShapeID: shapeID, SubShapeID: core.LightSubObjectSentinel}
}

func (p *Primitive) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	hit, ok := p.Shape.Hit(ray, tMin, tMax)
	if !ok {
		return nil, false
	}
	hit.ShapeID = p.ShapeID
	hit.SubShapeID = p.SubShapeID
	hit.Material = p.Material
	hit.Shape = p.Shape
	return hit, true
}

func (p *Primitive) BoundingBox() core.AABB { return p.Shape.BoundingBox() }
