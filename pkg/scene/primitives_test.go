package scene

import (
	"testing"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/geometry"
	"github.com/df07/go-beam-raytracer/pkg/material"
)

// planeTriangle returns the triangle (1,-1,z), (0,1,z), (-1,-1,z)
func planeTriangle(z float32) geometry.Triangle {
	return geometry.NewTriangle(
		core.NewVec3(1, -1, z),
		core.NewVec3(0, 1, z),
		core.NewVec3(-1, -1, z),
	)
}

func forwardRay() core.Ray {
	return core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))
}

func TestPrimitivesWithMaterials_Getters(t *testing.T) {
	pm := NewPrimitivesWithMaterials[geometry.Triangle]()
	pm.Add(planeTriangle(1.1), material.Material{})
	pm.Add(planeTriangle(1.0), material.NewEmissive(core.Grey(1)))

	if pm.Len() != 2 {
		t.Fatalf("Expected 2 primitives, got %d", pm.Len())
	}
	if pm.Primitive(1) != planeTriangle(1.0) {
		t.Errorf("Expected primitive 1 to be the z=1 triangle, got %v", pm.Primitive(1).Vertices())
	}
	if pm.Material(1) != material.NewEmissive(core.Grey(1)) {
		t.Errorf("Expected material 1 to be white emissive, got %+v", pm.Material(1))
	}
}

func TestPrimitivesWithMaterials_ClosestHit(t *testing.T) {
	tests := []struct {
		name      string
		triangles []geometry.Triangle
		shouldHit bool
		expected  HitResult
	}{
		{
			name:      "Empty collection",
			shouldHit: false,
		},
		{
			name: "Miss",
			triangles: []geometry.Triangle{geometry.NewTriangle(
				core.NewVec3(2, 2, 0), core.NewVec3(1.5, 2.5, 0), core.NewVec3(1, 2, 0),
			)},
			shouldHit: false,
		},
		{
			name:      "Hit",
			triangles: []geometry.Triangle{planeTriangle(0)},
			shouldHit: true,
			expected:  HitResult{Point: core.NewVec3(0, 0, 0), Index: 0},
		},
		{
			name:      "Closest of two",
			triangles: []geometry.Triangle{planeTriangle(1.1), planeTriangle(1.0)},
			shouldHit: true,
			expected:  HitResult{Point: core.NewVec3(0, 0, 1), Index: 1},
		},
		{
			name:      "First wins a tie",
			triangles: []geometry.Triangle{planeTriangle(1.0), planeTriangle(1.0)},
			shouldHit: true,
			expected:  HitResult{Point: core.NewVec3(0, 0, 1), Index: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPrimitivesWithMaterials[geometry.Triangle]()
			for _, tri := range tt.triangles {
				pm.Add(tri, material.Material{})
			}

			hit, ok := pm.ClosestHit(forwardRay())
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, ok)
			}
			if !ok {
				return
			}
			if hit.Index != tt.expected.Index {
				t.Errorf("Expected index %d, got %d", tt.expected.Index, hit.Index)
			}
			if !core.ApproxEqual(hit.Point, tt.expected.Point, 1e-6) {
				t.Errorf("Expected point %v, got %v", tt.expected.Point, hit.Point)
			}
		})
	}
}

// nanPrimitive always reports a hit at a NaN point
type nanPrimitive struct{ geometry.Triangle }

func (nanPrimitive) Intersects(core.Ray) (core.Vec3, bool) {
	nan := float32(0)
	nan /= nan
	return core.NewVec3(nan, nan, nan), true
}

func TestPrimitivesWithMaterials_ClosestHitSkipsNaN(t *testing.T) {
	pm := NewPrimitivesWithMaterials[geometry.Primitive]()
	pm.Add(nanPrimitive{}, material.Material{})
	pm.Add(planeTriangle(2), material.Material{})

	hit, ok := pm.ClosestHit(forwardRay())
	if !ok {
		t.Fatal("Expected the finite hit to be reported")
	}
	if hit.Index != 1 {
		t.Errorf("Expected index 1, got %d", hit.Index)
	}

	onlyNaN := NewPrimitivesWithMaterials[geometry.Primitive]()
	onlyNaN.Add(nanPrimitive{}, material.Material{})
	if _, ok := onlyNaN.ClosestHit(forwardRay()); ok {
		t.Error("Expected NaN-only hits to be discarded")
	}
}
