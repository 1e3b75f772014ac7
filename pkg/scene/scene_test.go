package scene

import (
	"errors"
	"testing"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/geometry"
	"github.com/df07/go-beam-raytracer/pkg/material"
)

// yellowSky is the default material of the depth 0 tests
var yellowSky = material.New(core.Grey(1), core.NewColour(1, 1, 0))

func TestScene_TraceWithoutRecursion(t *testing.T) {
	tests := []struct {
		name      string
		triangles []TriangleWithMaterial
		expected  core.Colour
	}{
		{
			name:     "Empty scene yields default diffuse",
			expected: core.NewColour(1, 1, 0),
		},
		{
			name: "Miss yields default diffuse",
			triangles: []TriangleWithMaterial{{
				Triangle: geometry.NewTriangle(core.NewVec3(2, 2, 0), core.NewVec3(1.5, 2.5, 0), core.NewVec3(1, 2, 0)),
			}},
			expected: core.NewColour(1, 1, 0),
		},
		{
			name: "Hit yields the primitive's colour",
			triangles: []TriangleWithMaterial{{
				Triangle: planeTriangle(0),
				Material: material.NewDiffuse(core.NewColour(0, 1, 0)),
			}},
			expected: core.NewColour(0, 1, 0),
		},
		{
			name: "Hit yields the closest primitive's colour",
			triangles: []TriangleWithMaterial{
				{Triangle: planeTriangle(1.1), Material: material.NewDiffuse(core.NewColour(1, 0, 0))},
				{Triangle: planeTriangle(1.0), Material: material.NewDiffuse(core.NewColour(0, 1, 0))},
			},
			expected: core.NewColour(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene(yellowSky, 0, 1)
			for _, tri := range tt.triangles {
				s.AddTriangle(tri.Triangle, tri.Material)
			}

			got := s.Trace(forwardRay(), core.NewSeededSampler(42))
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestScene_TraceBouncingRays(t *testing.T) {
	tests := []struct {
		name     string
		ray      core.Ray
		expected core.Colour
	}{
		{
			name:     "Miss",
			ray:      core.NewRay(core.NewVec3(-0.666, 0.499, 4), core.NewVec3(-0.511, 0.383, -0.768)),
			expected: core.NewColour(0, 0, 0),
		},
		{
			name:     "Yellow reflecting the sky",
			ray:      core.NewRay(core.NewVec3(0.04329888, 0.07993634, 4), core.NewVec3(0.04312106, 0.07960805, -0.9958931)),
			expected: core.NewColour(0.75, 1, 0),
		},
		{
			name:     "Red reflecting the sky",
			ray:      core.NewRay(core.NewVec3(0.333, 0.166, 4), core.NewVec3(0.312, 0.156, -0.93)),
			expected: core.NewColour(1, 0, 0),
		},
		{
			name:     "Yellow reflecting red",
			ray:      core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)),
			expected: core.NewColour(0.75, 0, 0),
		},
	}

	for seed := int64(0); seed < 10; seed++ {
		s := NewShadowScene()
		sampler := core.NewSeededSampler(seed)
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got := s.Trace(tt.ray, sampler)
				if got != tt.expected {
					t.Errorf("Seed %d: expected %v, got %v", seed, tt.expected, got)
				}
			})
		}
	}
}

func TestScene_RecursionIsBounded(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		beam  int
	}{
		{"No recursion", 0, 3},
		{"One bounce", 1, 3},
		{"Three bounces", 3, 2},
	}

	ray := core.NewRay(core.NewVec3(0, 0, -6), core.NewVec3(0.3, 0.2, 1))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene(material.Material{}, tt.depth, tt.beam)
			corridor := NewCorridorScene()
			for i := 0; i < corridor.Len(); i++ {
				s.AddTriangle(corridor.Triangles().Primitive(i), corridor.Triangles().Material(i))
			}

			_, stats := s.TraceWithStats(ray, core.NewSeededSampler(1))

			maxRays := 0
			level := 1
			for d := 0; d <= tt.depth; d++ {
				maxRays += level
				level *= tt.beam
			}
			if stats.Rays > maxRays {
				t.Errorf("Expected at most %d rays, got %d", maxRays, stats.Rays)
			}
			if stats.MaxDepth > tt.depth {
				t.Errorf("Expected recursion to stop at %d, reached %d", tt.depth, stats.MaxDepth)
			}
			if stats.Rays < 1 {
				t.Error("Expected the primary ray to be counted")
			}
		})
	}
}

func TestScene_Validate(t *testing.T) {
	tests := []struct {
		name    string
		scene   func() *Scene
		wantErr bool
	}{
		{
			name:  "Preset is valid",
			scene: NewShadowScene,
		},
		{
			name:  "Zero beam without recursion is valid",
			scene: func() *Scene { return NewScene(material.Material{}, 0, 0) },
		},
		{
			name:    "Zero beam with recursion",
			scene:   func() *Scene { return NewScene(material.Material{}, 2, 0) },
			wantErr: true,
		},
		{
			name:    "Negative depth",
			scene:   func() *Scene { return NewScene(material.Material{}, -1, 1) },
			wantErr: true,
		},
		{
			name: "Degenerate triangle",
			scene: func() *Scene {
				s := NewScene(material.Material{}, 1, 1)
				s.AddTriangle(geometry.NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)), material.Material{})
				return s
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scene().Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestScene_AddMesh(t *testing.T) {
	mesh := geometry.NewTriangleMeshFromTriangles("pair", []geometry.Triangle{planeTriangle(1), planeTriangle(2)})
	s := NewScene(material.Material{}, 0, 1)
	red := material.NewDiffuse(core.NewColour(1, 0, 0))
	s.AddMesh(mesh, red)

	if s.Len() != 2 {
		t.Fatalf("Expected 2 triangles, got %d", s.Len())
	}
	if s.Triangles().Material(1) != red {
		t.Errorf("Expected mesh material on every triangle, got %+v", s.Triangles().Material(1))
	}
}
