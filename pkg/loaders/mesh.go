package loaders

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/fauxgl"
	"github.com/fogleman/simplify"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/geometry"
)

// MeshOptions controls how a mesh file is prepared for tracing
type MeshOptions struct {
	Fit      bool    // Scale and centre the mesh into the [-1, 1] cube
	Simplify float64 // Keep this fraction of faces (0 or >= 1 keeps all)
}

// LoadMesh loads an OBJ, STL or PLY file as triangles
func LoadMesh(path string, opts MeshOptions) (*geometry.TriangleMesh, error) {
	startTime := time.Now()

	if opts.Simplify < 0 {
		return nil, fmt.Errorf("%w: simplify factor must not be negative, got %g", ErrInvalidDescription, opts.Simplify)
	}

	source, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh %s: %w", path, err)
	}
	if opts.Fit {
		source.BiUnitCube()
	}

	triangles := fromFauxgl(source.Triangles)
	if opts.Simplify > 0 && opts.Simplify < 1 {
		triangles = SimplifyTriangles(triangles, opts.Simplify)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	mesh := geometry.NewTriangleMeshFromTriangles(name, triangles)

	fmt.Printf("Loaded mesh %s: %d triangles (%d degenerate skipped) in %v\n",
		name, mesh.Len(), mesh.Skipped(), time.Since(startTime))
	return mesh, nil
}

// SimplifyTriangles decimates a triangle soup down to roughly factor of its faces
func SimplifyTriangles(triangles []geometry.Triangle, factor float64) []geometry.Triangle {
	input := make([]*simplify.Triangle, len(triangles))
	for i, t := range triangles {
		input[i] = simplify.NewTriangle(toSimplify(t.Vertex(0)), toSimplify(t.Vertex(1)), toSimplify(t.Vertex(2)))
	}

	output := simplify.NewMesh(input).Simplify(factor)

	result := make([]geometry.Triangle, 0, len(output.Triangles))
	for _, t := range output.Triangles {
		result = append(result, geometry.NewTriangle(fromSimplify(t.V1), fromSimplify(t.V2), fromSimplify(t.V3)))
	}
	return result
}

func fromFauxgl(triangles []*fauxgl.Triangle) []geometry.Triangle {
	result := make([]geometry.Triangle, 0, len(triangles))
	for _, t := range triangles {
		result = append(result, geometry.NewTriangle(
			fauxglPoint(t.V1.Position), fauxglPoint(t.V2.Position), fauxglPoint(t.V3.Position)))
	}
	return result
}

func fauxglPoint(v fauxgl.Vector) core.Vec3 {
	return core.NewVec3(float32(v.X), float32(v.Y), float32(v.Z))
}

func toSimplify(v core.Vec3) simplify.Vector {
	return simplify.Vector{X: float64(v.X()), Y: float64(v.Y()), Z: float64(v.Z())}
}

func fromSimplify(v simplify.Vector) core.Vec3 {
	return core.NewVec3(float32(v.X), float32(v.Y), float32(v.Z))
}
