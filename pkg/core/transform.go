package core

import "github.com/go-gl/mathgl/mgl32"

// Identity returns the identity transform
func Identity() Mat4 {
	return mgl32.Ident4()
}

// Rotation builds a rotation from an axis-angle vector: the rotation is by
// |axisAngle| radians about its direction. A zero vector gives the identity.
func Rotation(axisAngle Vec3) Mat4 {
	angle := axisAngle.Len()
	if angle == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(angle, axisAngle.Mul(1/angle))
}

// Translation builds a translation transform
func Translation(offset Vec3) Mat4 {
	return mgl32.Translate3D(offset[0], offset[1], offset[2])
}

// Scaling builds a uniform scaling transform
func Scaling(s float32) Mat4 {
	return mgl32.Scale3D(s, s, s)
}

// Isometry rotates then translates
func Isometry(translation, axisAngle Vec3) Mat4 {
	return Translation(translation).Mul4(Rotation(axisAngle))
}

// Similarity scales, rotates, then translates
func Similarity(translation, axisAngle Vec3, scale float32) Mat4 {
	return Isometry(translation, axisAngle).Mul4(Scaling(scale))
}

// LookAt returns the camera-to-world transform for a right-handed camera at eye
// looking at target. The camera looks down its local -z axis.
func LookAt(eye, target, up Vec3) Mat4 {
	return mgl32.LookAtV(eye, target, up).Inv()
}

// TransformPoint applies a homogeneous transform to a point, dividing by w
func TransformPoint(m Mat4, p Vec3) Vec3 {
	return mgl32.TransformCoordinate(p, m)
}
