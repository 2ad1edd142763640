package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/serpentine/pkg/cache"
	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/observability"
	"github.com/matzehuels/serpentine/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(pipeline.NewRunner(fc, nil, logger), logger)
}

// small keeps renders fast.
const small = "width=90&height=120&segments=15"

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"ok"`)) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPresets(t *testing.T) {
	rec := get(t, newTestServer(t), "/presets")
	var got []presetInfo
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) < 2 {
		t.Fatalf("presets = %+v", got)
	}
	defaults := 0
	for _, p := range got {
		if p.Default {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("want exactly one default preset, got %d", defaults)
	}
}

func TestRenderPNG(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/render.png?shape=42&color=7&footer=false&"+small)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	h := rec.Header()
	if h.Get("Content-Type") != "image/png" {
		t.Errorf("Content-Type = %q", h.Get("Content-Type"))
	}
	if h.Get(HeaderShapeSeed) != "42" || h.Get(HeaderColorSeed) != "7" {
		t.Errorf("seed headers = %q, %q", h.Get(HeaderShapeSeed), h.Get(HeaderColorSeed))
	}
	if h.Get(HeaderRenderID) == "" {
		t.Error("missing render ID")
	}
	if h.Get(HeaderCache) != "miss" {
		t.Errorf("X-Cache = %q, want miss", h.Get(HeaderCache))
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 90 || b.Dy() != 120 {
		t.Errorf("size = %dx%d", b.Dx(), b.Dy())
	}

	again := get(t, s, "/render.png?shape=42&color=7&footer=false&"+small)
	if again.Header().Get(HeaderCache) != "hit" {
		t.Errorf("second X-Cache = %q, want hit", again.Header().Get(HeaderCache))
	}
}

func TestRenderRandomSeedsReported(t *testing.T) {
	rec := get(t, newTestServer(t), "/render.png?grain=false&footer=false&"+small)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(HeaderShapeSeed) == "" || rec.Header().Get(HeaderShapeSeed) == "0" {
		t.Errorf("shape seed header = %q", rec.Header().Get(HeaderShapeSeed))
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}

func TestManifest(t *testing.T) {
	rec := get(t, newTestServer(t), "/manifest.json?preset=single-curve&shape=5&color=6&"+small)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var m pipeline.Manifest
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if m.Seeds.Shape != 5 || m.Seeds.Color != 6 {
		t.Errorf("seeds = %+v", m.Seeds)
	}
	if len(m.Chains) != 1 || m.Chains[0].Stats.Segments != 15 {
		t.Errorf("chains = %+v", m.Chains)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		code   errors.Code
	}{
		{"unknown preset", "preset=nope", http.StatusNotFound, errors.ErrCodeInvalidPreset},
		{"bad width", "width=wide", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad bool", "grain=maybe", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad blend", "blend=dodge", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"too large", "width=5000", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"negative segments", "segments=-3", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"zero segments", "segments=0", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"too many segments", "segments=1500", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad streams", "streams=both", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/render.png?"+tt.query)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
		})
	}
}

func TestRenderSegmentLimit(t *testing.T) {
	s := newTestServer(t)
	s.MaxSegments = 20

	if rec := get(t, s, "/render.png?width=90&height=120&segments=10"); rec.Code != http.StatusOK {
		t.Errorf("20 segments: status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if rec := get(t, s, "/render.png?width=90&height=120&segments=11"); rec.Code != http.StatusBadRequest {
		t.Errorf("22 segments: status = %d, want 400", rec.Code)
	}
}

func TestRenderTimeout(t *testing.T) {
	s := newTestServer(t)
	s.RenderTimeout = time.Nanosecond

	rec := get(t, s, "/render.png?"+small+"&shape=3&color=4")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 (%s)", rec.Code, rec.Body.String())
	}
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != errors.ErrCodeTimeout {
		t.Errorf("code = %s, want %s", body.Code, errors.ErrCodeTimeout)
	}
}

type recordingHooks struct {
	observability.NoopServerHooks
	mu        sync.Mutex
	responses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t)
	get(t, s, "/healthz")
	get(t, s, "/render.png?preset=nope")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.responses) != 2 || hooks.responses[0] != 200 || hooks.responses[1] != 404 {
		t.Errorf("responses = %v, want [200 404]", hooks.responses)
	}
}
