package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for the tracer.
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	// Range returns a uniform value in [lo, hi)
	Range(lo, hi float32) float32
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic source
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Range returns a uniform value in [lo, hi). An empty range yields lo.
func (r *RandomSampler) Range(lo, hi float32) float32 {
	if !(hi > lo) {
		return lo
	}
	v := lo + r.random.Float32()*(hi-lo)
	if v >= hi {
		return lo
	}
	return v
}

// SampleDiskOffset returns a point in the z=0 plane at distance r from the origin
// and angle alpha, with r drawn from [0, radius) and alpha from [0, 2π)
func SampleDiskOffset(sampler Sampler, radius float32) Vec3 {
	r := sampler.Range(0, radius)
	alpha := sampler.Range(0, 2*math.Pi)
	sin, cos := math.Sincos(float64(alpha))
	return NewVec3(r*float32(cos), r*float32(sin), 0)
}
