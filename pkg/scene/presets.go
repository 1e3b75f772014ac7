package scene

import (
	"math"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/geometry"
	"github.com/df07/go-beam-raytracer/pkg/material"
)

// whiteSky is the default material for presets: every miss sees unit white light
var whiteSky = material.NewEmissive(core.Grey(1))

// upTriangle is the base shape most presets are built from
func upTriangle() geometry.Triangle {
	return geometry.NewTriangle(
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(-1, 0, 0),
	)
}

// NewTrianglesScene creates four coloured triangles around the origin
func NewTrianglesScene() *Scene {
	s := NewScene(whiteSky, 2, 2)
	s.CameraConfig = DefaultCameraConfig()
	s.ImageConfig = ImageConfig{Width: 400, Height: 300, Samples: 4}

	base := upTriangle()
	scale := core.Scaling(0.2)

	s.AddTriangle(base, material.NewDiffuse(core.ColourFromRGB8(215, 225, 0)))
	s.AddTriangle(
		base.Transform(core.Translation(core.NewVec3(2.1, 0, 0)).Mul4(scale)),
		material.NewDiffuse(core.ColourFromRGB8(215, 0, 0)),
	)
	s.AddTriangle(
		base.Transform(core.Translation(core.NewVec3(-2.1, 0, 0)).Mul4(scale).Mul4(core.Rotation(core.NewVec3(0, 0, 3.14)))),
		material.NewDiffuse(core.ColourFromRGB8(0, 225, 0)),
	)
	s.AddTriangle(
		base.Transform(core.Rotation(core.NewVec3(0, 3.14/4, 0))),
		material.NewDiffuse(core.ColourFromRGB8(0, 0, 215)),
	)
	return s
}

// NewShadowScene creates a yellow triangle that shadows part of its reflection
// of a red triangle behind it
func NewShadowScene() *Scene {
	s := NewScene(whiteSky, 2, 1)
	s.CameraConfig = CameraConfig{
		Eye:    core.NewVec3(0, 0, 5),
		Target: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		FovY:   math.Pi / 3,
		ZNear:  1,
		ZFar:   100,
	}
	s.ImageConfig = ImageConfig{Width: 320, Height: 240, Samples: 4}

	for _, t := range ShadowTriangles() {
		s.AddTriangle(t.Triangle, t.Material)
	}
	return s
}

// TriangleWithMaterial pairs a triangle with its surface
type TriangleWithMaterial struct {
	Triangle geometry.Triangle
	Material material.Material
}

// ShadowTriangles returns the yellow and red triangles of the shadow scene
func ShadowTriangles() []TriangleWithMaterial {
	base := geometry.NewTriangle(
		core.NewVec3(1, -1, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(-1, -1, 0),
	)
	rotation := core.Rotation(core.NewVec3(0, math.Pi*0.1, 0))

	return []TriangleWithMaterial{
		{
			Triangle: base.Transform(rotation),
			Material: material.NewDiffuse(core.NewColour(0.75, 1, 0)),
		},
		{
			Triangle: base.Transform(rotation.Mul4(core.Translation(core.NewVec3(0.5, 0, 2)))),
			Material: material.NewDiffuse(core.NewColour(1, 0, 0)),
		},
	}
}

// NewCorridorScene creates two facing mirrors lit by an emissive ceiling
func NewCorridorScene() *Scene {
	s := NewScene(material.Material{}, 3, 2)
	s.CameraConfig = CameraConfig{
		Eye:    core.NewVec3(0, 0, -6),
		Target: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		FovY:   math.Pi / 2,
		ZNear:  0.5,
		ZFar:   100,
	}
	s.ImageConfig = ImageConfig{Width: 320, Height: 240, Samples: 2}

	ceiling := material.NewEmissive(core.NewColour(1, 0.95, 0.8))
	wall := material.NewDiffuse(core.NewColour(0.6, 0.7, 0.9))
	floor := material.NewDiffuse(core.NewColour(0.8, 0.8, 0.8))

	addQuad := func(a, b, c, d core.Vec3, m material.Material) {
		s.AddTriangle(geometry.NewTriangle(a, b, c), m)
		s.AddTriangle(geometry.NewTriangle(a, c, d), m)
	}

	const w, h, depth = 2, 1.5, 10
	addQuad(core.NewVec3(-w, h, -depth), core.NewVec3(w, h, -depth), core.NewVec3(w, h, depth), core.NewVec3(-w, h, depth), ceiling)
	addQuad(core.NewVec3(-w, -h, -depth), core.NewVec3(-w, -h, depth), core.NewVec3(w, -h, depth), core.NewVec3(w, -h, -depth), floor)
	addQuad(core.NewVec3(-w, -h, -depth), core.NewVec3(-w, h, -depth), core.NewVec3(-w, h, depth), core.NewVec3(-w, -h, depth), wall)
	addQuad(core.NewVec3(w, -h, -depth), core.NewVec3(w, -h, depth), core.NewVec3(w, h, depth), core.NewVec3(w, h, -depth), wall)
	return s
}
