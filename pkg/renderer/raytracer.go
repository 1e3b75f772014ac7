package renderer

import (
	"image"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/scene"
)

// Tracer computes the light arriving along a world-space ray
type Tracer interface {
	TraceWithStats(ray core.Ray, sampler core.Sampler) (core.Colour, scene.TraceStats)
}

// Raytracer renders pixels by casting viewport rays through a camera into a scene
type Raytracer struct {
	tracer   Tracer
	viewport *Viewport
	camera   core.Mat4 // Camera-to-world transform
}

// NewRaytracer creates a new raytracer
func NewRaytracer(tracer Tracer, viewport *Viewport, camera core.Mat4) *Raytracer {
	return &Raytracer{
		tracer:   tracer,
		viewport: viewport,
		camera:   camera,
	}
}

// Viewport returns the viewport rays are cast from
func (rt *Raytracer) Viewport() *Viewport {
	return rt.viewport
}

// TracePixel averages the colour of every viewport ray through pixel (x, y)
func (rt *Raytracer) TracePixel(x, y int, sampler core.Sampler) core.Colour {
	var ps PixelStats
	rt.samplePixel(x, y, &ps, sampler, 0, rt.viewport.RaysCount(), &RenderStats{})
	return ps.GetColour()
}

// RenderBounds traces viewport rays [firstSample, lastSample) of every pixel
// in bounds, accumulating into pixelStats (indexed in image coordinates)
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, firstSample, lastSample int) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  lastSample,
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rt.samplePixel(x, y, &pixelStats[y][x], sampler, firstSample, lastSample, &stats)
		}
	}

	return stats
}

// samplePixel traces a range of the pixel's viewport rays
func (rt *Raytracer) samplePixel(x, y int, ps *PixelStats, sampler core.Sampler, firstSample, lastSample int, stats *RenderStats) {
	index := 0
	for ray := range rt.viewport.Rays(x, y) {
		if index >= lastSample {
			break
		}
		if index >= firstSample {
			colour, traceStats := rt.tracer.TraceWithStats(ray.Transform(rt.camera), sampler)
			ps.AddSample(colour)
			stats.TotalSamples++
			stats.TotalRays += traceStats.Rays
			stats.MaxDepth = max(stats.MaxDepth, traceStats.MaxDepth)
		}
		index++
	}
}

// RenderPass renders the whole image on the calling goroutine with one sampler
func (rt *Raytracer) RenderPass(sampler core.Sampler) *image.RGBA {
	width, height := int(rt.viewport.Width()), int(rt.viewport.Height())
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, rt.TracePixel(x, y, sampler).ToRGBA())
		}
	}

	return img
}

// PrimaryRay returns the world-space ray for the first viewport ray of pixel (x, y)
func (rt *Raytracer) PrimaryRay(x, y int) core.Ray {
	for ray := range rt.viewport.Rays(x, y) {
		return ray.Transform(rt.camera)
	}
	return core.Ray{}
}
