package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/geometry"
	"github.com/df07/go-beam-raytracer/pkg/material"
)

// ErrInvalidConfig is returned by Validate for scenes that cannot be traced
var ErrInvalidConfig = errors.New("invalid scene configuration")

// Scene contains the geometry and light transport settings for a render
type Scene struct {
	CameraConfig CameraConfig // Recommended camera for this scene
	ImageConfig  ImageConfig  // Recommended output settings

	defaultMaterial material.Material
	recursionDepth  int
	beamRaysCount   int
	triangles       *PrimitivesWithMaterials[geometry.Triangle]
}

// ImageConfig contains the output image settings a scene was designed for
type ImageConfig struct {
	Width   int // Image width
	Height  int // Image height
	Samples int // Viewport rays per pixel
}

// TraceStats counts the work done by TraceWithStats
type TraceStats struct {
	Rays     int // Rays traced, including the primary ray
	MaxDepth int // Deepest recursion step that hit geometry
}

// NewScene creates an empty scene. Rays that miss everything, and bounces past
// recursionDepth, take their light from defaultMaterial.
func NewScene(defaultMaterial material.Material, recursionDepth, beamRaysCount int) *Scene {
	return &Scene{
		CameraConfig:    DefaultCameraConfig(),
		ImageConfig:     DefaultImageConfig(),
		defaultMaterial: defaultMaterial,
		recursionDepth:  recursionDepth,
		beamRaysCount:   beamRaysCount,
		triangles:       NewPrimitivesWithMaterials[geometry.Triangle](),
	}
}

// DefaultImageConfig returns the output settings used when a scene specifies none
func DefaultImageConfig() ImageConfig {
	return ImageConfig{Width: 400, Height: 300, Samples: 1}
}

// AddTriangle appends a triangle with its material
func (s *Scene) AddTriangle(t geometry.Triangle, m material.Material) {
	s.triangles.Add(t, m)
}

// AddMesh appends every triangle of a mesh with a shared material
func (s *Scene) AddMesh(mesh *geometry.TriangleMesh, m material.Material) {
	for _, t := range mesh.Triangles() {
		s.triangles.Add(t, m)
	}
}

// Triangles returns the scene's primitive collection
func (s *Scene) Triangles() *PrimitivesWithMaterials[geometry.Triangle] {
	return s.triangles
}

// Len returns the number of triangles in the scene
func (s *Scene) Len() int {
	return s.triangles.Len()
}

// DefaultMaterial returns the material used for misses and exhausted recursion
func (s *Scene) DefaultMaterial() material.Material {
	return s.defaultMaterial
}

// RecursionDepth returns the maximum number of bounces
func (s *Scene) RecursionDepth() int {
	return s.recursionDepth
}

// BeamRaysCount returns the number of rays spawned per reflection
func (s *Scene) BeamRaysCount() int {
	return s.beamRaysCount
}

// SetRecursionDepth overrides the maximum number of bounces
func (s *Scene) SetRecursionDepth(depth int) {
	s.recursionDepth = depth
}

// SetBeamRaysCount overrides the number of rays spawned per reflection
func (s *Scene) SetBeamRaysCount(count int) {
	s.beamRaysCount = count
}

// Validate reports configuration the tracer cannot handle
func (s *Scene) Validate() error {
	if s.recursionDepth < 0 {
		return fmt.Errorf("%w: recursion depth %d is negative", ErrInvalidConfig, s.recursionDepth)
	}
	if s.recursionDepth > 0 && s.beamRaysCount < 1 {
		return fmt.Errorf("%w: beam rays count must be at least 1, got %d", ErrInvalidConfig, s.beamRaysCount)
	}
	for i := 0; i < s.triangles.Len(); i++ {
		if s.triangles.Primitive(i).IsDegenerate() {
			return fmt.Errorf("%w: triangle %d: %w", ErrInvalidConfig, i, geometry.ErrDegenerateTriangle)
		}
	}
	return nil
}

// Trace returns the light arriving along ray
func (s *Scene) Trace(ray core.Ray, sampler core.Sampler) core.Colour {
	return s.traceUntil(ray, 0, sampler, nil).Diffuse
}

// TraceWithStats traces like Trace and reports how much work was done
func (s *Scene) TraceWithStats(ray core.Ray, sampler core.Sampler) (core.Colour, TraceStats) {
	var stats TraceStats
	colour := s.traceUntil(ray, 0, sampler, &stats).Diffuse
	return colour, stats
}

// traceUntil follows ray at recursion step, branching into a beam on each hit
// until the recursion depth is reached
func (s *Scene) traceUntil(ray core.Ray, step int, sampler core.Sampler, stats *TraceStats) traceResult {
	if stats != nil {
		stats.Rays++
	}

	hit, ok := s.triangles.ClosestHit(ray)
	if !ok {
		return resultFromMaterial(s.defaultMaterial)
	}
	if stats != nil && step > stats.MaxDepth {
		stats.MaxDepth = step
	}

	mat := s.triangles.Material(hit.Index)
	if step >= s.recursionDepth {
		return resultFromMaterial(s.defaultMaterial).applyTo(mat)
	}

	primitive := s.triangles.Primitive(hit.Index)
	reflected := reflectedRay(ray, hit.Point, primitive.Normal())

	var incoming traceResult
	for _, beamRay := range beam(reflected, primitive.Size(), s.beamRaysCount, sampler) {
		incoming.addLight(s.traceUntil(beamRay, step+1, sampler, stats))
	}
	incoming.Emission = incoming.Emission.DivScalar(float32(s.beamRaysCount))

	return incoming.applyTo(mat)
}
