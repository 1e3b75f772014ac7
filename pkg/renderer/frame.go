package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/nfnt/resize"

	"github.com/df07/go-beam-raytracer/pkg/core"
	"github.com/df07/go-beam-raytracer/pkg/scene"
)

// ErrInvalidRenderConfig is returned for image settings that cannot be rendered
var ErrInvalidRenderConfig = errors.New("invalid render configuration")

// RenderConfig contains the settings for rendering a whole frame
type RenderConfig struct {
	Width       int   // Output width in pixels
	Height      int   // Output height in pixels
	Samples     int   // Viewport rays per pixel
	TileSize    int   // Tile edge length
	NumWorkers  int   // Parallel workers (0 = CPU count)
	Passes      int   // Progressive passes
	Seed        int64 // Base random seed
	Supersample int   // Render at this multiple of the output size, then downscale
}

// DefaultRenderConfig returns render settings matching a scene's recommendations
func DefaultRenderConfig(s *scene.Scene) RenderConfig {
	return RenderConfig{
		Width:       s.ImageConfig.Width,
		Height:      s.ImageConfig.Height,
		Samples:     s.ImageConfig.Samples,
		TileSize:    DefaultProgressiveConfig().TileSize,
		Passes:      1,
		Seed:        DefaultProgressiveConfig().Seed,
		Supersample: 1,
	}
}

func (c RenderConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidRenderConfig, c.Width, c.Height)
	}
	if c.Samples < 1 {
		return fmt.Errorf("%w: samples must be at least 1, got %d", ErrInvalidRenderConfig, c.Samples)
	}
	if c.Supersample < 1 {
		return fmt.Errorf("%w: supersample must be at least 1, got %d", ErrInvalidRenderConfig, c.Supersample)
	}
	return nil
}

// NewSceneRaytracer builds the viewport and camera transform for a scene at the given size
func NewSceneRaytracer(s *scene.Scene, width, height, samples int) *Raytracer {
	cam := s.CameraConfig
	viewport := NewViewport(width, height, cam.FovY, cam.ZNear, cam.ZFar, samples)
	return NewRaytracer(s, viewport, cam.Transform())
}

// Render traces a complete frame of the scene. Cancelling ctx stops rendering
// at the next pass boundary.
func Render(ctx context.Context, s *scene.Scene, config RenderConfig, logger core.Logger) (image.Image, RenderStats, error) {
	if err := config.validate(); err != nil {
		return nil, RenderStats{}, err
	}
	if err := s.Validate(); err != nil {
		return nil, RenderStats{}, err
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	start := time.Now()
	width := config.Width * config.Supersample
	height := config.Height * config.Supersample

	raytracer := NewSceneRaytracer(s, width, height, config.Samples)
	progressive := NewProgressiveRaytracer(raytracer, ProgressiveConfig{
		TileSize:       config.TileSize,
		InitialSamples: 1,
		MaxPasses:      max(1, config.Passes),
		NumWorkers:     config.NumWorkers,
		Seed:           config.Seed,
	}, logger)

	passChan, _, errChan := progressive.RenderProgressive(ctx, RenderOptions{})

	var last *PassResult
	for result := range passChan {
		last = &result
	}
	if err := <-errChan; err != nil {
		return nil, RenderStats{}, err
	}
	if last == nil {
		return nil, RenderStats{}, fmt.Errorf("render produced no passes")
	}

	stats := last.Stats
	stats.TotalTiles = len(progressive.tiles)
	stats.Workers = progressive.workerPool.GetNumWorkers()

	var img image.Image = last.Image
	if config.Supersample > 1 {
		logger.Printf("Downscaling %dx%d to %dx%d\n", width, height, config.Width, config.Height)
		img = resize.Resize(uint(config.Width), uint(config.Height), img, resize.Lanczos3)
	}

	stats.Elapsed = time.Since(start)
	return img, stats, nil
}
