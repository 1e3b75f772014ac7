package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-beam-raytracer/pkg/loaders"
	"github.com/df07/go-beam-raytracer/pkg/output"
	"github.com/df07/go-beam-raytracer/pkg/scene"
)

// Request limits
const (
	DefaultTileSize      = 32
	DefaultRenderTimeout = 20 * time.Second
	MinDimension         = 16
	MaxDimension         = 2000
	MaxSamples           = 256
	MaxPasses            = 64
	MaxSupersample       = 4
)

// Config holds the web server settings
type Config struct {
	Port          int
	ScenesDir     string
	AccessKey     string        // Required in the Render-Access-Key header when set
	RenderTimeout time.Duration // Bound on a single POST render
	S3            output.S3Config
}

// Server handles web requests for the beam raytracer
type Server struct {
	config Config
	upload output.Sink // nil when no bucket is configured
}

// NewServer creates a new web server, connecting to S3 when a bucket is configured
func NewServer(config Config) (*Server, error) {
	var upload output.Sink
	if config.S3.Enabled() {
		sink, err := output.NewS3Sink(config.S3)
		if err != nil {
			return nil, err
		}
		upload = sink
	}
	return NewServerWithSink(config, upload), nil
}

// NewServerWithSink creates a server that uploads renders to sink
func NewServerWithSink(config Config, upload output.Sink) *Server {
	if config.RenderTimeout <= 0 {
		config.RenderTimeout = DefaultRenderTimeout
	}
	return &Server{config: config, upload: upload}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.requireAccessKey(s.handleRenderJob))
	mux.HandleFunc("/api/render/stream", s.requireAccessKey(s.handleRenderStream))
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// requireAccessKey rejects requests without the configured key
func (s *Server) requireAccessKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.AccessKey != "" && r.Header.Get("Render-Access-Key") != s.config.AccessKey {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.config.ScenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// SceneParams are the query parameters shared by streaming renders and inspection
type SceneParams struct {
	Scene   string
	Width   int
	Height  int
	Samples int
}

// parseCommonSceneParams parses scene parameters shared by several endpoints
func (s *Server) parseCommonSceneParams(r *http.Request, params *SceneParams) error {
	params.Scene = r.URL.Query().Get("scene")
	if params.Scene == "" {
		params.Scene = "triangles" // Default scene
	}

	var err error
	if params.Width, err = parseIntParam(r.URL.Query(), "width", 400, MinDimension, MaxDimension); err != nil {
		return err
	}
	if params.Height, err = parseIntParam(r.URL.Query(), "height", 300, MinDimension, MaxDimension); err != nil {
		return err
	}
	if params.Samples, err = parseIntParam(r.URL.Query(), "samples", 4, 1, MaxSamples); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a preset name or scene file ID
func (s *Server) createScene(ref string) (*scene.Scene, error) {
	return loaders.LoadScene(ref, s.config.ScenesDir)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
