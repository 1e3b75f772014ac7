package scene

import (
	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/material"
)

// traceResult is the light carried back along one traced ray
type traceResult struct {
	Emission core.Colour
	Diffuse  core.Colour
}

// resultFromMaterial takes a material's colours as-is
func resultFromMaterial(m material.Material) traceResult {
	return traceResult{Emission: m.Emission, Diffuse: m.Diffuse}
}

// addLight accumulates another result's emission; diffuse is left untouched
func (tr *traceResult) addLight(other traceResult) {
	tr.Emission = tr.Emission.Add(other.Emission)
}

// applyTo shades a surface with this result as the incoming light.
// Both channels of the outcome carry the same value.
func (tr traceResult) applyTo(m material.Material) traceResult {
	shaded := m.Shade(tr.Emission)
	return traceResult{Emission: shaded, Diffuse: shaded}
}
