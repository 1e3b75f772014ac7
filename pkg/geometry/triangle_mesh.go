package geometry

import (
	"fmt"

	"github.com/df07/go-beam-raytracer/pkg/core"
)

// TriangleMesh is a named collection of triangles sharing one material in a scene
type TriangleMesh struct {
	Name      string
	triangles []Triangle
	skipped   int // Degenerate faces dropped at construction
}

// NewTriangleMesh creates a mesh from vertices and face indices.
// Each group of 3 indices forms a triangle; degenerate faces are skipped and counted.
func NewTriangleMesh(name string, vertices []core.Vec3, faces []int) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("mesh %s: face indices must be a multiple of 3, got %d", name, len(faces))
	}

	mesh := &TriangleMesh{Name: name, triangles: make([]Triangle, 0, len(faces)/3)}
	for i := 0; i < len(faces); i += 3 {
		var corners [3]core.Vec3
		for j := 0; j < 3; j++ {
			idx := faces[i+j]
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("mesh %s: face %d references vertex %d of %d", name, i/3, idx, len(vertices))
			}
			corners[j] = vertices[idx]
		}
		mesh.add(NewTriangle(corners[0], corners[1], corners[2]))
	}
	return mesh, nil
}

// NewTriangleMeshFromTriangles wraps already built triangles, skipping degenerate ones
func NewTriangleMeshFromTriangles(name string, triangles []Triangle) *TriangleMesh {
	mesh := &TriangleMesh{Name: name, triangles: make([]Triangle, 0, len(triangles))}
	for _, t := range triangles {
		mesh.add(t)
	}
	return mesh
}

func (m *TriangleMesh) add(t Triangle) {
	if t.IsDegenerate() {
		m.skipped++
		return
	}
	m.triangles = append(m.triangles, t)
}

// Triangles returns the mesh's triangles
func (m *TriangleMesh) Triangles() []Triangle {
	return m.triangles
}

// Len returns the number of usable triangles
func (m *TriangleMesh) Len() int {
	return len(m.triangles)
}

// Skipped returns how many degenerate faces were dropped
func (m *TriangleMesh) Skipped() int {
	return m.skipped
}

// Transform returns a copy of the mesh with every triangle mapped through t
func (m *TriangleMesh) Transform(t core.Mat4) *TriangleMesh {
	transformed := make([]Triangle, len(m.triangles))
	for i, tri := range m.triangles {
		transformed[i] = tri.Transform(t)
	}
	out := NewTriangleMeshFromTriangles(m.Name, transformed)
	out.skipped += m.skipped
	return out
}
