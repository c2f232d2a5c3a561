package geometry

import (
	"math"
	"testing"

	"github.com/df07/spectral-path-tracer/pkg/core"
)

func TestSphere_Hit(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 0), 1.0)

	t.Run("straight through center", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
		hit, ok := s.Hit(ray, 1e-4, math.Inf(1))
		if !ok {
			t.Fatal("expected a hit")
		}
		if math.Abs(hit.Distance-4.0) > 1e-9 {
			t.Errorf("distance = %v, want 4", hit.Distance)
		}
		wantPoint := core.NewVec3(0, 0, -1)
		if hit.Point.Subtract(wantPoint).Length() > 1e-9 {
			t.Errorf("point = %v, want %v", hit.Point, wantPoint)
		}
		if !hit.FrontFace {
			t.Error("expected a front-face hit from outside the sphere")
		}
	})

	t.Run("miss", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 5, -5), core.NewVec3(0, 0, 1))
		if _, ok := s.Hit(ray, 1e-4, math.Inf(1)); ok {
			t.Error("expected a miss for a ray passing well above the sphere")
		}
	})

	t.Run("tMax excludes far intersection", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
		if _, ok := s.Hit(ray, 1e-4, 3.0); ok {
			t.Error("expected no hit when tMax is closer than the sphere")
		}
	})
}

func TestPlane_Hit(t *testing.T) {
	p := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	hit, ok := p.Hit(ray, 1e-4, math.Inf(1))
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Distance-5.0) > 1e-9 {
		t.Errorf("distance = %v, want 5", hit.Distance)
	}

	t.Run("parallel ray misses", func(t *testing.T) {
		parallel := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(1, 0, 0))
		if _, ok := p.Hit(parallel, 1e-4, math.Inf(1)); ok {
			t.Error("expected a parallel ray to miss an infinite plane")
		}
	})
}

func TestQuad_Hit(t *testing.T) {
	q := NewQuad(core.NewVec3(-1, 0, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2))

	t.Run("center hit", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
		hit, ok := q.Hit(ray, 1e-4, math.Inf(1))
		if !ok {
			t.Fatal("expected a hit through the quad's center")
		}
		if math.Abs(hit.Distance-5.0) > 1e-9 {
			t.Errorf("distance = %v, want 5", hit.Distance)
		}
	})

	t.Run("outside bounds misses", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(5, 5, 5), core.NewVec3(0, -1, 0))
		if _, ok := q.Hit(ray, 1e-4, math.Inf(1)); ok {
			t.Error("expected a ray outside the quad's u/v extent to miss")
		}
	})

	t.Run("area matches edge cross product", func(t *testing.T) {
		want := core.NewVec3(2, 0, 0).Cross(core.NewVec3(0, 0, 2)).Length()
		if math.Abs(q.Area()-want) > 1e-9 {
			t.Errorf("Area() = %v, want %v", q.Area(), want)
		}
	})
}
