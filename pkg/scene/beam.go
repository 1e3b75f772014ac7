package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-beam-raytracer/pkg/core"
)

// beamSpread is the jitter disk radius as a fraction of the primitive's size
const beamSpread = 0.005

// reflectedRay mirrors the ray about the hit primitive's plane and moves the
// origin off the surface so the reflection cannot hit the same point again
func reflectedRay(ray core.Ray, point, normal core.Vec3) core.Ray {
	direction := core.Normalize(core.Reflect(ray.Direction, normal))
	return core.Ray{
		Origin:    point.Add(direction.Mul(2 * core.Epsilon)),
		Direction: direction,
	}
}

// beamRotation maps +z onto direction. Anti-parallel directions have no unique
// rotation and use the identity.
func beamRotation(direction core.Vec3) mgl32.Quat {
	z := core.NewVec3(0, 0, 1)
	if z.Cross(direction).Len() <= core.Epsilon {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatBetweenVectors(z, direction)
}

// beam returns count jittered copies of ray. Each direction is perturbed by a
// point on a disk of radius beamSpread*size perpendicular to the ray.
func beam(ray core.Ray, size float32, count int, sampler core.Sampler) []core.Ray {
	rotation := beamRotation(ray.Direction)
	rays := make([]core.Ray, count)
	for i := range rays {
		jitter := rotation.Rotate(core.SampleDiskOffset(sampler, beamSpread*size))
		rays[i] = core.NewRay(ray.Origin, ray.Direction.Add(jitter))
	}
	return rays
}
