package material

import (
	"github.com/df07/go-beam-raytracer/pkg/core"
)

// Material is a surface's own light output and its reflectance of incoming light
type Material struct {
	Emission core.Colour // Light emitted by the surface
	Diffuse  core.Colour // Multiplicative reflectance of incoming light
}

// New creates a material from emission and diffuse colours
func New(emission, diffuse core.Colour) Material {
	return Material{Emission: emission, Diffuse: diffuse}
}

// NewDiffuse creates a non-emitting material
func NewDiffuse(diffuse core.Colour) Material {
	return Material{Diffuse: diffuse}
}

// NewEmissive creates a light source that reflects nothing
func NewEmissive(emission core.Colour) Material {
	return Material{Emission: emission}
}

// Shade combines one bounce of incoming light with the surface: the surface's
// own emission plus its diffuse reflectance applied to the incoming energy
func (m Material) Shade(incoming core.Colour) core.Colour {
	return m.Emission.Add(m.Diffuse.Mul(incoming))
}

// IsEmissive reports whether the material emits light
func (m Material) IsEmissive() bool {
	return !m.Emission.IsBlack()
}
