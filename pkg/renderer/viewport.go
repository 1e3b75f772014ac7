package renderer

import (
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"

	"github.com/df07/go-beam-raytracer/pkg/core"
)

// Noise is a 2D coherent noise source in roughly [-1, 1]
type Noise interface {
	Eval2(x, y float32) float32
}

const (
	// noiseStep is the distance between successive samples along the noise field
	noiseStep = 0.618034
	// offsetScale keeps sub-pixel offsets within half a pixel
	offsetScale = 0.5
)

// Viewport turns pixel coordinates into primary rays through a perspective projection
type Viewport struct {
	width, height float32
	projection    core.Mat4
	unprojection  core.Mat4
	pointOffsets  []core.Vec2 // Sub-pixel jitter, one per ray cast for a pixel
}

// NewViewport creates a viewport with offsets drawn from seeded OpenSimplex noise
func NewViewport(width, height int, fovy, znear, zfar float32, pointRaysCount int) *Viewport {
	return NewViewportWithNoise(width, height, fovy, znear, zfar, pointRaysCount, opensimplex.New32(0))
}

// NewViewportWithNoise creates a viewport whose offsets come from noise.
// Offset i samples the noise at i*noiseStep along each axis, so offsets differ per sample.
func NewViewportWithNoise(width, height int, fovy, znear, zfar float32, pointRaysCount int, noise Noise) *Viewport {
	w, h := float32(width), float32(height)
	projection := mgl32.Perspective(fovy, w/h, znear, zfar)

	offsets := make([]core.Vec2, pointRaysCount)
	for i := range offsets {
		t := float32(i) * noiseStep
		offsets[i] = core.NewVec2(noise.Eval2(t, 0), noise.Eval2(0, t)).Mul(offsetScale)
	}

	return &Viewport{
		width:        w,
		height:       h,
		projection:   projection,
		unprojection: projection.Inv(),
		pointOffsets: offsets,
	}
}

// Width returns the image width in pixels
func (v *Viewport) Width() float32 {
	return v.width
}

// Height returns the image height in pixels
func (v *Viewport) Height() float32 {
	return v.height
}

// Projection returns the perspective projection matrix
func (v *Viewport) Projection() core.Mat4 {
	return v.projection
}

// RaysCount returns the number of rays cast per pixel
func (v *Viewport) RaysCount() int {
	return len(v.pointOffsets)
}

// NormalizePoint maps pixel coordinates to [-0.5, 0.5] with +y up
func (v *Viewport) NormalizePoint(p core.Vec2) core.Vec2 {
	return core.NewVec2(p.X()/v.width-0.5, 0.5-p.Y()/v.height)
}

// CastRay returns one camera-space ray per sub-pixel offset. The result is the
// same on every call for a given pixel.
func (v *Viewport) CastRay(x, y int) []core.Ray {
	rays := make([]core.Ray, 0, len(v.pointOffsets))
	for ray := range v.Rays(x, y) {
		rays = append(rays, ray)
	}
	return rays
}

// Rays iterates the rays of CastRay without allocating a slice
func (v *Viewport) Rays(x, y int) iter.Seq[core.Ray] {
	return func(yield func(core.Ray) bool) {
		pixel := core.NewVec2(float32(x), float32(y))
		for _, offset := range v.pointOffsets {
			if !yield(v.unproject(v.NormalizePoint(pixel.Add(offset)))) {
				return
			}
		}
	}
}

// unproject builds the ray from the near plane to the far plane through p
func (v *Viewport) unproject(p core.Vec2) core.Ray {
	near := mgl32.TransformCoordinate(core.NewVec3(p.X(), p.Y(), -1), v.unprojection)
	far := mgl32.TransformCoordinate(core.NewVec3(p.X(), p.Y(), 1), v.unprojection)
	return core.NewRay(near, far.Sub(near))
}
