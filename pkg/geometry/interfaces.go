package geometry

import (
	"github.com/df07/go-beam-raytracer/pkg/core"
)

// Primitive is a surface the tracer can intersect
type Primitive interface {
	// Normal returns the unit surface normal
	Normal() core.Vec3
	// Size returns a characteristic length used to scale beam jitter
	Size() float32
	// Intersects returns the hit point of the ray, if any
	Intersects(ray core.Ray) (core.Vec3, bool)
	// Local2DCoordinates projects a point onto the primitive's own 2D frame
	Local2DCoordinates(point core.Vec3) core.Vec2
}
