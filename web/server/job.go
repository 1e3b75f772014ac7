package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-beam-raytracer/pkg/loaders"
	"github.com/df07/go-beam-raytracer/pkg/output"
	"github.com/df07/go-beam-raytracer/pkg/renderer"
	"github.com/df07/go-beam-raytracer/pkg/scene"
)

// errRenderTimeout is returned when a render exceeds the configured timeout
var errRenderTimeout = errors.New("render timeout")

// RenderJob is the body of POST /api/render. Either Scene or Description is set.
type RenderJob struct {
	Scene       string               `json:"scene"`
	Description *loaders.Description `json:"description,omitempty"`
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	Samples     int                  `json:"samples"`
	Seed        *int64               `json:"seed,omitempty"` // nil keeps the default seed
	Supersample int                  `json:"supersample"`
	Upload      bool                 `json:"upload"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	TotalRays      int     `json:"totalRays"`
	MaxDepth       int     `json:"maxDepth"`
	TotalTiles     int     `json:"totalTiles"`
	Workers        int     `json:"workers"`
	ElapsedMs      int64   `json:"elapsedMs"`
	PrimitiveCount int     `json:"primitiveCount"`
}

// RenderResponse is the reply to POST /api/render
type RenderResponse struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	Location  string `json:"location,omitempty"`
}

func newStats(stats renderer.RenderStats, s *scene.Scene) Stats {
	return Stats{
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples,
		TotalRays:      stats.TotalRays,
		MaxDepth:       stats.MaxDepth,
		TotalTiles:     stats.TotalTiles,
		Workers:        stats.Workers,
		ElapsedMs:      stats.Elapsed.Milliseconds(),
		PrimitiveCount: s.Len(),
	}
}

// handleRenderJob renders a whole frame and returns it as JSON
func (s *Server) handleRenderJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}

	var job RenderJob
	if err := json.Unmarshal(body, &job); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if job.Upload && s.upload == nil {
		writeError(w, http.StatusBadRequest, "Upload requested but no bucket is configured")
		return
	}

	sceneObj, err := s.jobScene(&job)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	config, err := jobRenderConfig(&job, sceneObj)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("Rendering %s at %dx%d with %d samples", job.sceneLabel(), config.Width, config.Height, config.Samples)

	img, stats, err := s.runRenderWithTimeout(r.Context(), sceneObj, config)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errRenderTimeout) {
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, "Render failed: "+err.Error())
		return
	}

	data, err := output.EncodePNG(img)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := RenderResponse{
		ImageData: base64.StdEncoding.EncodeToString(data),
		Stats:     newStats(stats, sceneObj),
	}
	if job.Upload {
		name := fmt.Sprintf("%s/render_%d.png", job.sceneLabel(), time.Now().UnixNano())
		location, err := s.upload.Write(r.Context(), name, img)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		response.Location = location
	}

	writeJSON(w, http.StatusOK, response)
}

func (job *RenderJob) sceneLabel() string {
	if job.Description != nil {
		if job.Description.Meta != nil && job.Description.Meta.Name != "" {
			return job.Description.Meta.Name
		}
		return "custom"
	}
	return job.Scene
}

// jobScene builds the scene from an inline description or a scene reference
func (s *Server) jobScene(job *RenderJob) (*scene.Scene, error) {
	if job.Description != nil {
		return job.Description.Build(s.config.ScenesDir)
	}
	if job.Scene == "" {
		return nil, fmt.Errorf("either scene or description is required")
	}
	return s.createScene(job.Scene)
}

// jobRenderConfig applies the job's overrides within the server's limits
func jobRenderConfig(job *RenderJob, s *scene.Scene) (renderer.RenderConfig, error) {
	config := renderer.DefaultRenderConfig(s)
	config.TileSize = DefaultTileSize
	if job.Width != 0 {
		config.Width = job.Width
	}
	if job.Height != 0 {
		config.Height = job.Height
	}
	if job.Samples != 0 {
		config.Samples = job.Samples
	}
	if job.Supersample != 0 {
		config.Supersample = job.Supersample
	}
	if job.Seed != nil {
		config.Seed = *job.Seed
	}

	if config.Width < MinDimension || config.Width > MaxDimension || config.Height < MinDimension || config.Height > MaxDimension {
		return config, fmt.Errorf("image size must be between %d and %d, got %dx%d", MinDimension, MaxDimension, config.Width, config.Height)
	}
	if config.Samples < 1 || config.Samples > MaxSamples {
		return config, fmt.Errorf("samples must be between 1 and %d, got: %d", MaxSamples, config.Samples)
	}
	if config.Supersample < 1 || config.Supersample > MaxSupersample {
		return config, fmt.Errorf("supersample must be between 1 and %d, got: %d", MaxSupersample, config.Supersample)
	}
	return config, nil
}

// runRenderWithTimeout renders on its own goroutine, turning panics into errors
func (s *Server) runRenderWithTimeout(parent context.Context, sceneObj *scene.Scene, config renderer.RenderConfig) (image.Image, renderer.RenderStats, error) {
	ctx, cancel := context.WithTimeout(parent, s.config.RenderTimeout)
	defer cancel()

	type result struct {
		img   image.Image
		stats renderer.RenderStats
		err   error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("panic in renderer: %v", r)}
			}
		}()

		img, stats, err := renderer.Render(ctx, sceneObj, config, newServerLogger())
		resChan <- result{img: img, stats: stats, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, renderer.RenderStats{}, errRenderTimeout
		}
		return nil, renderer.RenderStats{}, ctx.Err()
	case res := <-resChan:
		if errors.Is(res.err, context.DeadlineExceeded) {
			return nil, res.stats, errRenderTimeout
		}
		return res.img, res.stats, res.err
	}
}
