package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-beam-raytracer/pkg/core"
)

// ErrDegenerateTriangle is returned for triangles with zero area or non-finite vertices
var ErrDegenerateTriangle = errors.New("degenerate triangle")

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	vertices [3]core.Vec3
	normal   core.Vec3 // Cached unit normal
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3) Triangle {
	t := Triangle{vertices: [3]core.Vec3{v0, v1, v2}}
	t.computeNormal()
	return t
}

// NewValidatedTriangle creates a triangle, rejecting degenerate input
func NewValidatedTriangle(v0, v1, v2 core.Vec3) (Triangle, error) {
	t := NewTriangle(v0, v1, v2)
	if t.IsDegenerate() {
		return Triangle{}, fmt.Errorf("%w: %v %v %v", ErrDegenerateTriangle, v0, v1, v2)
	}
	return t, nil
}

// computeNormal calculates and caches the triangle's normal vector
func (t *Triangle) computeNormal() {
	edge1 := t.vertices[1].Sub(t.vertices[0])
	edge2 := t.vertices[2].Sub(t.vertices[0])
	t.normal = core.Normalize(edge1.Cross(edge2))
}

// Vertex returns vertex i (0, 1 or 2)
func (t Triangle) Vertex(i int) core.Vec3 {
	return t.vertices[i]
}

// SetVertex replaces vertex i and recomputes the normal
func (t *Triangle) SetVertex(i int, p core.Vec3) {
	t.vertices[i] = p
	t.computeNormal()
}

// Vertices returns all three vertices in order
func (t Triangle) Vertices() [3]core.Vec3 {
	return t.vertices
}

// Normal returns the triangle's normal vector
func (t Triangle) Normal() core.Vec3 {
	return t.normal
}

// Size returns the length of the longest edge
func (t Triangle) Size() float32 {
	size := float32(0)
	for i := range t.vertices {
		if edge := core.Distance(t.vertices[i], t.vertices[(i+1)%3]); edge > size {
			size = edge
		}
	}
	return size
}

// IsDegenerate reports whether the triangle has no usable normal
func (t Triangle) IsDegenerate() bool {
	for _, v := range t.vertices {
		if !core.IsFinite(v) {
			return true
		}
	}
	return doubledArea(t.vertices[0], t.vertices[1], t.vertices[2]) == 0
}

// Intersects tests the ray against the triangle using the Möller-Trumbore algorithm
func (t Triangle) Intersects(ray core.Ray) (core.Vec3, bool) {
	edge1 := t.vertices[1].Sub(t.vertices[0])
	edge2 := t.vertices[2].Sub(t.vertices[0])

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// Ray lies in (or is parallel to) the triangle's plane
	if det <= core.Epsilon && det >= -core.Epsilon {
		return core.Vec3{}, false
	}

	invDet := 1 / det
	s := ray.Origin.Sub(t.vertices[0])
	u := s.Dot(h) * invDet
	q := s.Cross(edge1)
	v := ray.Direction.Dot(q) * invDet
	if u < 0 || u > 1 || v < 0 || u+v > 1 {
		return core.Vec3{}, false
	}

	tParam := edge2.Dot(q) * invDet
	if tParam < 0 {
		return core.Vec3{}, false
	}

	return ray.At(tParam), true
}

// Local2DCoordinates returns the barycentric weights of v1 and v2 at point
func (t Triangle) Local2DCoordinates(point core.Vec3) core.Vec2 {
	area := doubledArea(t.vertices[0], t.vertices[1], t.vertices[2])
	capArea := doubledArea(t.vertices[0], t.vertices[2], point)
	abp := doubledArea(t.vertices[0], t.vertices[1], point)
	return core.NewVec2(capArea/area, abp/area)
}

// Transform returns a new triangle with every vertex mapped through m
func (t Triangle) Transform(m core.Mat4) Triangle {
	return NewTriangle(
		core.TransformPoint(m, t.vertices[0]),
		core.TransformPoint(m, t.vertices[1]),
		core.TransformPoint(m, t.vertices[2]),
	)
}

// doubledArea returns twice the area of the triangle abc
func doubledArea(a, b, c core.Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Len()
}
