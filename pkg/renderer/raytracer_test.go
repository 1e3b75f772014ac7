package renderer

import (
	"image"
	"sync"
	"testing"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/scene"
)

// MockTracer implements Tracer for testing
type MockTracer struct {
	traceFn func(ray core.Ray) core.Colour
	mu      sync.Mutex
	rays    []core.Ray
}

func (m *MockTracer) TraceWithStats(ray core.Ray, sampler core.Sampler) (core.Colour, scene.TraceStats) {
	m.mu.Lock()
	m.rays = append(m.rays, ray)
	m.mu.Unlock()
	return m.traceFn(ray), scene.TraceStats{Rays: 1}
}

func constantTracer(c core.Colour) *MockTracer {
	return &MockTracer{traceFn: func(core.Ray) core.Colour { return c }}
}

func newTestPixelStats(width, height int) [][]PixelStats {
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}
	return pixelStats
}

func TestRaytracer_TracePixelAveragesRays(t *testing.T) {
	calls := 0
	tracer := &MockTracer{traceFn: func(core.Ray) core.Colour {
		calls++
		if calls%2 == 0 {
			return core.Grey(1)
		}
		return core.Grey(0)
	}}
	rt := NewRaytracer(tracer, NewViewport(8, 8, 1.5, 1, 100, 4), core.Identity())

	colour := rt.TracePixel(3, 3, core.NewSeededSampler(1))

	if len(tracer.rays) != 4 {
		t.Fatalf("Expected 4 traced rays, got %d", len(tracer.rays))
	}
	if colour != core.Grey(0.5) {
		t.Errorf("Expected average grey 0.5, got %v", colour)
	}
}

func TestRaytracer_AppliesCameraTransform(t *testing.T) {
	identity := constantTracer(core.Grey(0))
	moved := constantTracer(core.Grey(0))
	vp := NewViewport(8, 8, 1.5, 1, 100, 1)

	NewRaytracer(identity, vp, core.Identity()).TracePixel(2, 5, core.NewSeededSampler(1))
	NewRaytracer(moved, vp, core.Translation(core.NewVec3(0, 0, 5))).TracePixel(2, 5, core.NewSeededSampler(1))

	want := identity.rays[0].Origin.Add(core.NewVec3(0, 0, 5))
	if !core.ApproxEqual(moved.rays[0].Origin, want, 1e-4) {
		t.Errorf("Expected origin %v, got %v", want, moved.rays[0].Origin)
	}
	if !core.ApproxEqual(moved.rays[0].Direction, identity.rays[0].Direction, 1e-5) {
		t.Errorf("Translation should not change direction: %v vs %v", moved.rays[0].Direction, identity.rays[0].Direction)
	}
}

func TestRaytracer_RenderBoundsSampleRange(t *testing.T) {
	tracer := constantTracer(core.NewColour(0.2, 0.4, 0.6))
	rt := NewRaytracer(tracer, NewViewport(4, 4, 1.5, 1, 100, 5), core.Identity())
	pixelStats := newTestPixelStats(4, 4)
	bounds := image.Rect(1, 1, 3, 3)

	stats := rt.RenderBounds(bounds, pixelStats, core.NewSeededSampler(1), 1, 3)

	if stats.TotalPixels != 4 {
		t.Errorf("Expected 4 pixels, got %d", stats.TotalPixels)
	}
	if stats.TotalSamples != 8 {
		t.Errorf("Expected 8 samples, got %d", stats.TotalSamples)
	}
	if stats.TotalRays != 8 {
		t.Errorf("Expected 8 rays, got %d", stats.TotalRays)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			expected := 0
			if (image.Point{X: x, Y: y}).In(bounds) {
				expected = 2
			}
			if got := pixelStats[y][x].SampleCount; got != expected {
				t.Errorf("Pixel (%d,%d): expected %d samples, got %d", x, y, expected, got)
			}
		}
	}
}

func TestRaytracer_RenderBoundsMatchesCastRay(t *testing.T) {
	tracer := constantTracer(core.Grey(0))
	vp := NewViewport(4, 4, 1.5, 1, 100, 3)
	rt := NewRaytracer(tracer, vp, core.Identity())

	rt.RenderBounds(image.Rect(2, 1, 3, 2), newTestPixelStats(4, 4), core.NewSeededSampler(1), 0, 3)

	expected := vp.CastRay(2, 1)
	if len(tracer.rays) != len(expected) {
		t.Fatalf("Expected %d rays, got %d", len(expected), len(tracer.rays))
	}
	for i := range expected {
		if !core.ApproxEqual(tracer.rays[i].Direction, expected[i].Direction, 1e-5) {
			t.Errorf("Ray %d: expected direction %v, got %v", i, expected[i].Direction, tracer.rays[i].Direction)
		}
	}
}

func TestRaytracer_RenderPass(t *testing.T) {
	rt := NewRaytracer(constantTracer(core.NewColour(1, 0, 0)), NewViewport(6, 4, 1.5, 1, 100, 1), core.Identity())

	img := rt.RenderPass(core.NewSeededSampler(1))

	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Fatalf("Expected 6x4 image, got %v", img.Bounds())
	}
	c := img.RGBAAt(5, 3)
	if c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("Expected opaque red, got %v", c)
	}
}
