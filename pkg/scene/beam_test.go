package scene

import (
	"math"
	"testing"

	"github.com/df07/go-beam-raytracer/pkg/core"
)

func TestReflectedRay(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0))
	reflected := reflectedRay(ray, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))

	expected := core.Normalize(core.NewVec3(1, 1, 0))
	if !core.ApproxEqual(reflected.Direction, expected, 1e-6) {
		t.Errorf("Expected direction %v, got %v", expected, reflected.Direction)
	}
	if reflected.Origin.Y() <= 0 {
		t.Errorf("Expected origin moved off the surface, got %v", reflected.Origin)
	}
	if d := core.Distance(reflected.Origin, core.NewVec3(1, 0, 0)); d > 4*core.Epsilon {
		t.Errorf("Expected origin within a few epsilon of the hit point, got distance %g", d)
	}
}

func TestBeamRotation(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"Along z is identity", core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1)},
		{"Anti-parallel falls back to identity", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)},
		{"Along x", core.NewVec3(1, 0, 0), core.NewVec3(1, 0, 0)},
		{"Diagonal", core.Normalize(core.NewVec3(1, 1, 1)), core.Normalize(core.NewVec3(1, 1, 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := beamRotation(tt.direction).Rotate(core.NewVec3(0, 0, 1))
			if !core.ApproxEqual(got, tt.expected, 1e-5) {
				t.Errorf("Expected +z to map to %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBeam(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 2, 3))
	const size = 10
	rays := beam(ray, size, 16, core.NewSeededSampler(3))

	if len(rays) != 16 {
		t.Fatalf("Expected 16 rays, got %d", len(rays))
	}

	// Jitter of radius r on a unit direction deviates by at most atan(r)
	maxAngle := math.Atan(beamSpread * size)
	for i, r := range rays {
		if r.Origin != ray.Origin {
			t.Errorf("Ray %d: expected shared origin, got %v", i, r.Origin)
		}
		if l := r.Direction.Len(); math.Abs(float64(l-1)) > 1e-5 {
			t.Errorf("Ray %d: expected unit direction, got length %f", i, l)
		}
		cos := math.Min(1, float64(r.Direction.Dot(ray.Direction)))
		if angle := math.Acos(cos); angle > maxAngle+1e-4 {
			t.Errorf("Ray %d: deviation %f exceeds %f", i, angle, maxAngle)
		}
	}
}
