package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec2, Vec3 and Mat4 are the mathgl single precision types used throughout the tracer
type (
	Vec2 = mgl32.Vec2
	Vec3 = mgl32.Vec3
	Vec4 = mgl32.Vec4
	Mat4 = mgl32.Mat4
)

// Epsilon is the machine epsilon of the scalar type
const Epsilon float32 = 1.0 / (1 << 23)

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Normalize returns a unit vector in the same direction, or the zero vector for zero input
func Normalize(v Vec3) Vec3 {
	length := v.Len()
	if length == 0 {
		return Vec3{}
	}
	return v.Mul(1 / length)
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Vec3) float32 {
	return a.Sub(b).Len()
}

// Reflect mirrors v about the plane with unit normal n
func Reflect(v, n Vec3) Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// IsFinite reports whether every component is neither NaN nor infinite
func IsFinite(v Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual compares two vectors component-wise within an absolute tolerance
func ApproxEqual(a, b Vec3, tolerance float32) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > float64(tolerance) {
			return false
		}
	}
	return true
}
