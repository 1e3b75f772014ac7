package core

import "github.com/go-gl/mathgl/mgl32"

// Ray is a half-line with a unit direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray, normalizing the direction
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: Normalize(direction)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps the ray through a homogeneous 4x4 transform.
// The origin and origin+direction are transformed as points, so the same call
// serves rotations, translations, similarities and projective matrices.
func (r Ray) Transform(m Mat4) Ray {
	origin := mgl32.TransformCoordinate(r.Origin, m)
	tip := mgl32.TransformCoordinate(r.Origin.Add(r.Direction), m)
	return NewRay(origin, tip.Sub(origin))
}
