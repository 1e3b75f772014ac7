package renderer

import (
	"time"

	"github.com/df07/go-beam-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of viewport rays traced
	AverageSamples float64 // Average viewport rays per pixel
	MaxSamples     int     // Target viewport rays per pixel
	MinSamples     int     // Fewest viewport rays any pixel received
	MaxSamplesUsed int     // Most viewport rays any pixel received
	TotalRays      int     // Every ray traced, including beam rays
	MaxDepth       int     // Deepest bounce that hit geometry

	TotalTiles int           // Tiles the image was split into
	Workers    int           // Goroutines that rendered tiles
	Elapsed    time.Duration // Wall-clock render time
}

// Merge folds the counters of another tile's stats into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalSamples += other.TotalSamples
	s.TotalRays += other.TotalRays
	s.MaxDepth = max(s.MaxDepth, other.MaxDepth)
}

// PixelStats accumulates the traced colours of a single pixel
type PixelStats struct {
	ColourAccum core.Colour // RGB accumulator for final result
	SampleCount int         // Number of samples taken
}

// AddSample adds a new colour sample to the pixel statistics
func (ps *PixelStats) AddSample(c core.Colour) {
	ps.ColourAccum = ps.ColourAccum.Add(c)
	ps.SampleCount++
}

// GetColour returns the current average colour for this pixel
func (ps *PixelStats) GetColour() core.Colour {
	if ps.SampleCount == 0 {
		return core.Colour{}
	}
	return ps.ColourAccum.DivScalar(float32(ps.SampleCount))
}
