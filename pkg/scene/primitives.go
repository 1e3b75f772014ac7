package scene

import (
	"math"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/geometry"
	"github.com/df07/go-beam-raytracer/pkg/material"
)

// HitResult is the closest intersection of a ray with a primitive collection
type HitResult struct {
	Point core.Vec3 // World-space intersection point
	Index int       // Stable index of the primitive that was hit
}

// entry pairs a primitive with the material it was added with
type entry[P geometry.Primitive] struct {
	primitive P
	material  material.Material
}

// PrimitivesWithMaterials is an append-only collection of primitives, each
// paired with its material. Indices are stable for the collection's lifetime.
type PrimitivesWithMaterials[P geometry.Primitive] struct {
	entries []entry[P]
}

// NewPrimitivesWithMaterials creates an empty collection
func NewPrimitivesWithMaterials[P geometry.Primitive]() *PrimitivesWithMaterials[P] {
	return &PrimitivesWithMaterials[P]{}
}

// Add appends a primitive and its material
func (pm *PrimitivesWithMaterials[P]) Add(primitive P, mat material.Material) {
	pm.entries = append(pm.entries, entry[P]{primitive: primitive, material: mat})
}

// Len returns the number of primitives
func (pm *PrimitivesWithMaterials[P]) Len() int {
	return len(pm.entries)
}

// Primitive returns the primitive at index i
func (pm *PrimitivesWithMaterials[P]) Primitive(i int) P {
	return pm.entries[i].primitive
}

// Material returns the material paired with the primitive at index i
func (pm *PrimitivesWithMaterials[P]) Material(i int) material.Material {
	return pm.entries[i].material
}

// ClosestHit scans every primitive and returns the hit nearest the ray origin.
// NaN distances are discarded; on equal distances the earlier primitive wins.
func (pm *PrimitivesWithMaterials[P]) ClosestHit(ray core.Ray) (HitResult, bool) {
	best := HitResult{Index: -1}
	bestDistance := float32(math.Inf(1))

	for i := range pm.entries {
		point, ok := pm.entries[i].primitive.Intersects(ray)
		if !ok {
			continue
		}
		distance := core.Distance(point, ray.Origin)
		if math.IsNaN(float64(distance)) {
			continue
		}
		if best.Index < 0 || distance < bestDistance {
			best = HitResult{Point: point, Index: i}
			bestDistance = distance
		}
	}

	return best, best.Index >= 0
}
