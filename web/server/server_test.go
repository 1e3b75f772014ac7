package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-beam-raytracer/pkg/renderer"
)

var testScenesDir = filepath.Join("..", "..", "scenes")

// mockSink implements output.Sink for testing
type mockSink struct {
	names []string
}

func (m *mockSink) Write(ctx context.Context, name string, img image.Image) (string, error) {
	m.names = append(m.names, name)
	return "https://cdn.example.com/" + name, nil
}

func newTestServer(accessKey string, sink *mockSink) *Server {
	config := Config{ScenesDir: testScenesDir, AccessKey: accessKey, RenderTimeout: 30 * time.Second}
	if sink == nil {
		return NewServerWithSink(config, nil)
	}
	return NewServerWithSink(config, sink)
}

func postRender(t *testing.T, srv *Server, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body))
	for key, values := range header {
		req.Header[key] = values
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer("", nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Expected ok status, got %s", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer("", nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scenes", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response struct {
		Groups []struct {
			Name   string `json:"name"`
			Scenes []struct {
				ID string `json:"id"`
			} `json:"scenes"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	ids := map[string]bool{}
	for _, group := range response.Groups {
		for _, s := range group.Scenes {
			ids[s.ID] = true
		}
	}
	for _, id := range []string{"triangles", "shadow", "corridor", "file:mirror-box", "file:tetrahedron"} {
		if !ids[id] {
			t.Errorf("Expected scene %s in listing", id)
		}
	}
}

func TestHandleRenderJob_Preset(t *testing.T) {
	rec := postRender(t, newTestServer("", nil), `{"scene": "triangles", "width": 32, "height": 24, "samples": 1}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response RenderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	data, err := base64.StdEncoding.DecodeString(response.ImageData)
	if err != nil {
		t.Fatalf("Invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("Expected 32x24 image, got %v", img.Bounds())
	}
	if response.Stats.TotalPixels != 32*24 {
		t.Errorf("Expected %d pixels, got %d", 32*24, response.Stats.TotalPixels)
	}
	if response.Stats.PrimitiveCount != 4 {
		t.Errorf("Expected 4 primitives, got %d", response.Stats.PrimitiveCount)
	}
	if response.Location != "" {
		t.Errorf("Expected no location without upload, got %s", response.Location)
	}
}

func TestHandleRenderJob_Description(t *testing.T) {
	body := `{
		"description": {
			"meta": {"name": "inline"},
			"tracer": {"recursion_depth": 1, "beam_rays_count": 1},
			"materials": {"red": {"diffuse": "#ff0000"}},
			"triangles": [{"vertices": [[1,-1,0],[0,1,0],[-1,-1,0]], "material": "red"}]
		},
		"width": 16, "height": 16, "upload": true
	}`
	sink := &mockSink{}
	rec := postRender(t, newTestServer("", sink), body, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response RenderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(sink.names) != 1 || !strings.HasPrefix(sink.names[0], "inline/") {
		t.Errorf("Expected one upload under inline/, got %v", sink.names)
	}
	if !strings.HasPrefix(response.Location, "https://cdn.example.com/inline/") {
		t.Errorf("Expected CDN location, got %s", response.Location)
	}
	if response.Stats.PrimitiveCount != 1 {
		t.Errorf("Expected 1 primitive, got %d", response.Stats.PrimitiveCount)
	}
}

func TestHandleRenderJob_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{"scene":`, http.StatusBadRequest},
		{"missing scene", `{}`, http.StatusBadRequest},
		{"unknown scene", `{"scene": "nonexistent"}`, http.StatusBadRequest},
		{"too small", `{"scene": "triangles", "width": 4, "height": 4}`, http.StatusBadRequest},
		{"too many samples", `{"scene": "triangles", "width": 32, "height": 32, "samples": 100000}`, http.StatusBadRequest},
		{"upload without bucket", `{"scene": "triangles", "upload": true}`, http.StatusBadRequest},
		{"unknown material", `{"description": {"triangles": [{"vertices": [[1,-1,0],[0,1,0],[-1,-1,0]], "material": "x"}]}}`, http.StatusBadRequest},
	}

	srv := newTestServer("", nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postRender(t, srv, tt.body, nil)
			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleRenderJob_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer("", nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}

func TestAccessKey(t *testing.T) {
	srv := newTestServer("secret", nil)
	body := `{"scene": "triangles", "width": 16, "height": 16, "samples": 1}`

	if rec := postRender(t, srv, body, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without key, got %d", rec.Code)
	}
	if rec := postRender(t, srv, body, http.Header{"Render-Access-Key": {"wrong"}}); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with wrong key, got %d", rec.Code)
	}
	if rec := postRender(t, srv, body, http.Header{"Render-Access-Key": {"secret"}}); rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 with key, got %d", rec.Code)
	}
}

func TestRunRenderWithTimeout_Expired(t *testing.T) {
	srv := NewServerWithSink(Config{RenderTimeout: time.Nanosecond}, nil)
	sceneObj, err := srv.createScene("corridor")
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}
	config, err := jobRenderConfig(&RenderJob{Width: 400, Height: 300, Samples: 16}, sceneObj)
	if err != nil {
		t.Fatalf("Invalid config: %v", err)
	}

	if _, _, err := srv.runRenderWithTimeout(context.Background(), sceneObj, config); !errors.Is(err, errRenderTimeout) {
		t.Errorf("Expected render timeout, got %v", err)
	}
}

func TestHandleRenderStream(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/render/stream?scene=shadow&width=32&height=24&samples=2&passes=2", nil)
	newTestServer("", nil).Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Expected event stream, got %s", got)
	}
	if strings.Count(body, "event: passComplete") != 2 {
		t.Errorf("Expected 2 pass events, got body:\n%s", body)
	}
	if !strings.Contains(body, "event: tile") {
		t.Error("Expected tile events")
	}
	if !strings.Contains(body, "event: complete\ndata: Rendering completed") {
		t.Errorf("Expected completion event, got body:\n%s", body)
	}
	if strings.Contains(body, "event: error") {
		t.Errorf("Unexpected error event:\n%s", body)
	}
}

func TestHandleRenderStream_InvalidRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/render/stream?width=1", nil)
	newTestServer("", nil).Handler().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("Expected error event, got %s", rec.Body.String())
	}
}

func TestHandleInspect(t *testing.T) {
	srv := newTestServer("", nil)

	// Slightly above the image centre, the triangles preset has geometry at the origin
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect?scene=triangles&width=40&height=30&x=20&y=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var hit InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &hit); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !hit.Hit {
		t.Fatal("Expected a hit")
	}
	if hit.Distance < 3.5 || hit.Distance > 6 {
		t.Errorf("Expected distance between 3.5 and 6, got %f", hit.Distance)
	}

	// The corner looks past every triangle
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect?scene=triangles&width=40&height=30&x=0&y=0", nil))
	var miss InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &miss); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if miss.Hit {
		t.Errorf("Expected a miss at the corner, got triangle %d", miss.Index)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inspect?scene=triangles&width=40&height=30&x=40&y=0", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for out of bounds pixel, got %d", rec.Code)
	}
}

func TestJobRenderConfig_Seed(t *testing.T) {
	sceneObj, err := newTestServer("", nil).createScene("triangles")
	if err != nil {
		t.Fatalf("Failed to create scene: %v", err)
	}

	var job RenderJob
	if err := json.Unmarshal([]byte(`{"scene": "triangles"}`), &job); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	config, err := jobRenderConfig(&job, sceneObj)
	if err != nil {
		t.Fatalf("Invalid config: %v", err)
	}
	if config.Seed != renderer.DefaultProgressiveConfig().Seed {
		t.Errorf("Expected default seed, got %d", config.Seed)
	}

	if err := json.Unmarshal([]byte(`{"scene": "triangles", "seed": 0}`), &job); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	config, err = jobRenderConfig(&job, sceneObj)
	if err != nil {
		t.Fatalf("Invalid config: %v", err)
	}
	if config.Seed != 0 {
		t.Errorf("Expected seed 0, got %d", config.Seed)
	}
}

// failingBody fails every read and records whether it was closed
type failingBody struct {
	closed bool
}

func (b *failingBody) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func (b *failingBody) Close() error {
	b.closed = true
	return nil
}

func TestHandleRenderJob_ClosesBodyOnReadError(t *testing.T) {
	body := &failingBody{}
	req := httptest.NewRequest(http.MethodPost, "/api/render", nil)
	req.Body = body
	rec := httptest.NewRecorder()
	newTestServer("", nil).Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if !body.closed {
		t.Error("Expected request body to be closed")
	}
}
