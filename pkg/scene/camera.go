package scene

import (
	"math"

	"github.com/df07/go-beam-raytracer/pkg/core"
)

// CameraConfig positions a perspective camera
type CameraConfig struct {
	Eye    core.Vec3 // Camera position
	Target core.Vec3 // Point the camera looks at
	Up     core.Vec3 // Up direction
	FovY   float32   // Vertical field of view in radians
	ZNear  float32   // Near clipping plane
	ZFar   float32   // Far clipping plane
}

// DefaultCameraConfig looks at the origin from 5 units down -z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Eye:    core.NewVec3(0, 0, -5),
		Target: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		FovY:   math.Pi / 2,
		ZNear:  1,
		ZFar:   1000,
	}
}

// Transform returns the camera-to-world transform applied to viewport rays
func (c CameraConfig) Transform() core.Mat4 {
	return core.LookAt(c.Eye, c.Target, c.Up)
}

// CameraOverride holds camera fields to replace; nil fields keep their base value
type CameraOverride struct {
	Eye    *core.Vec3
	Target *core.Vec3
	Up     *core.Vec3
	FovY   *float32
	ZNear  *float32
	ZFar   *float32
}

// MergeCameraConfig applies the set fields of override on top of base
func MergeCameraConfig(base CameraConfig, override CameraOverride) CameraConfig {
	result := base
	if override.Eye != nil {
		result.Eye = *override.Eye
	}
	if override.Target != nil {
		result.Target = *override.Target
	}
	if override.Up != nil {
		result.Up = *override.Up
	}
	if override.FovY != nil {
		result.FovY = *override.FovY
	}
	if override.ZNear != nil {
		result.ZNear = *override.ZNear
	}
	if override.ZFar != nil {
		result.ZFar = *override.ZFar
	}
	return result
}
