package core

// BVHNode is one node of the bounding volume hierarchy: an internal node
// carries two children, a leaf carries its shapes directly (grounded on the
// teacher's pkg/core/bvh.go).
type BVHNode struct {
	BoundingBox AABB
	Left, Right *BVHNode
	Shapes      []Shape
}

// BVH accelerates ray/scene intersection and precomputes the finite-world
// bounds infinite lights need to convert between solid angle and area
// measure (spec.md §4.F.6).
type BVH struct {
	Root              *BVHNode
	FiniteWorldCenter Vec3
	FiniteWorldRadius float64
}

// leafThreshold mirrors the teacher's median-split leaf size: few enough
// shapes that linear search beats further subdivision.
const leafThreshold = 8

// NewBVH builds a BVH over shapes using median splits along the longest
// axis of each node's bounds -- avoids the O(n^2 log n) full-sort approach
// while still giving good ray-intersection locality.
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	center, radius := calculateFiniteWorldBounds(shapesCopy)
	return &BVH{
		Root:              buildBVH(shapesCopy, 0),
		FiniteWorldCenter: center,
		FiniteWorldRadius: radius,
	}
}

func buildBVH(shapes []Shape, depth int) *BVHNode {
	var bounds AABB
	if len(shapes) > 0 {
		bounds = shapes[0].BoundingBox()
		for i := 1; i < len(shapes); i++ {
			bounds = bounds.Union(shapes[i].BoundingBox())
		}
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: bounds, Shapes: shapes}
	}

	axis, splitPos := findBestSplit(shapes, bounds)
	if axis == -1 {
		return &BVHNode{BoundingBox: bounds, Shapes: shapes}
	}

	left, right := partitionShapes(shapes, axis, splitPos)
	if len(left) == 0 || len(right) == 0 {
		return &BVHNode{BoundingBox: bounds, Shapes: shapes}
	}

	return &BVHNode{
		BoundingBox: bounds,
		Left:        buildBVH(left, depth+1),
		Right:       buildBVH(right, depth+1),
	}
}

func findBestSplit(shapes []Shape, bounds AABB) (axis int, splitPos float64) {
	axis = bounds.LongestAxis()
	var minVal, maxVal float64
	switch axis {
	case 0:
		minVal, maxVal = bounds.Min.X, bounds.Max.X
	case 1:
		minVal, maxVal = bounds.Min.Y, bounds.Max.Y
	default:
		minVal, maxVal = bounds.Min.Z, bounds.Max.Z
	}
	if maxVal <= minVal {
		return -1, 0
	}
	return axis, (minVal + maxVal) * 0.5
}

func partitionShapes(shapes []Shape, axis int, splitPos float64) ([]Shape, []Shape) {
	var left, right []Shape
	for _, s := range shapes {
		c := s.BoundingBox().Center()
		var v float64
		switch axis {
		case 0:
			v = c.X
		case 1:
			v = c.Y
		default:
			v = c.Z
		}
		if v < splitPos {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return left, right
}

// Hit tests a ray against every shape reachable from the BVH root, returning
// the closest intersection within [tMin, tMax].
func (bvh *BVH) Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

func (bvh *BVH) hitNode(node *BVHNode, ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	if node.Shapes != nil {
		var closest *HitRecord
		hitAny := false
		closestSoFar := tMax
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
				hitAny = true
				closestSoFar = hit.Distance
				closest = hit
			}
		}
		return closest, hitAny
	}

	var closest *HitRecord
	hitAny := false
	closestSoFar := tMax
	if node.Left != nil {
		if hit, ok := bvh.hitNode(node.Left, ray, tMin, closestSoFar); ok {
			hitAny = true
			closestSoFar = hit.Distance
			closest = hit
		}
	}
	if node.Right != nil {
		if hit, ok := bvh.hitNode(node.Right, ray, tMin, closestSoFar); ok {
			hitAny = true
			closest = hit
		}
	}
	return closest, hitAny
}

// calculateFiniteWorldBounds derives a bounding sphere from shapes whose
// extent is modest, skipping background planes/quads that would otherwise
// blow the bounds out to near-infinity (spec.md §4.F.6).
func calculateFiniteWorldBounds(shapes []Shape) (Vec3, float64) {
	var bounds AABB
	has := false
	for _, s := range shapes {
		b := s.BoundingBox()
		size := b.Size()
		if size.X > 1e5 || size.Y > 1e5 || size.Z > 1e5 {
			continue
		}
		if !has {
			bounds = b
			has = true
		} else {
			bounds = bounds.Union(b)
		}
	}
	if !has {
		return Vec3{}, 0
	}
	center := bounds.Center()
	radius := bounds.Max.Subtract(center).Length()
	return center, radius
}
