// Package server serves rendered images over HTTP.
//
// Routes:
//
//	GET /render.png     render (or fetch from cache) one image
//	GET /manifest.json  the manifest of the same render, without painting
//	GET /presets        preset names and descriptions
//	GET /healthz        liveness and build info
//
// /render.png and /manifest.json share their query parameters: preset,
// shape, color, width, height, segments, blend, grain, grain_style, footer
// and streams. Omitted seeds are drawn at random and reported in the
// X-Shape-Seed and X-Color-Seed headers. Requests beyond MaxDimension or
// MaxSegments are rejected with 400; a render that outlives RenderTimeout
// answers 503.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/serpentine/pkg/buildinfo"
	"github.com/matzehuels/serpentine/pkg/config"
	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/grain"
	"github.com/matzehuels/serpentine/pkg/observability"
	"github.com/matzehuels/serpentine/pkg/pipeline"
	"github.com/matzehuels/serpentine/pkg/render"
	"github.com/matzehuels/serpentine/pkg/seed"
)

// Request limits.
const (
	// DefaultMaxDimension caps the canvas size a request may ask for.
	DefaultMaxDimension = 4096
	// DefaultMaxSegments caps the total segments of all chains in a request.
	DefaultMaxSegments = 2000
	// DefaultRenderTimeout bounds the paint phase of a single request.
	DefaultRenderTimeout = 30 * time.Second
)

// Response headers.
const (
	HeaderShapeSeed = "X-Shape-Seed"
	HeaderColorSeed = "X-Color-Seed"
	HeaderRenderID  = "X-Render-ID"
	HeaderCache     = "X-Cache"
)

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router *chi.Mux

	// MaxDimension caps width and height; zero means DefaultMaxDimension.
	MaxDimension int
	// MaxSegments caps the summed segment count of all chains; zero means
	// DefaultMaxSegments.
	MaxSegments int
	// RenderTimeout bounds one /render.png request; zero means
	// DefaultRenderTimeout.
	RenderTimeout time.Duration
}

// New creates a server rendering through runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		logger: logger,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.observe)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/presets", s.handlePresets)
	s.router.Get("/render.png", s.handleRender)
	s.router.Get("/manifest.json", s.handleManifest)
}

// observe logs each request and reports it to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		dur := time.Since(start)

		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), dur)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Build: buildinfo.Get()})
}

type healthBody struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type presetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default,omitempty"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	names := config.PresetNames()
	out := make([]presetInfo, len(names))
	for i, n := range names {
		out[i] = presetInfo{Name: n, Description: config.Describe(n), Default: n == config.DefaultPreset}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.parseConfig(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}
	timeout := s.RenderTimeout
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()
	result, err := s.runner.Execute(ctx, cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	scene := result.Scene
	h := w.Header()
	setSceneHeaders(h, scene)
	h.Set("Content-Type", "image/png")
	h.Set("Content-Length", strconv.Itoa(len(result.PNG)))
	h.Set("Content-Disposition", `inline; filename="`+scene.FileName()+`"`)
	if result.CacheInfo.RenderHit {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
	}
	if !cfg.ShapeSeed.IsRandom() && !cfg.ColorSeed.IsRandom() {
		h.Set("Cache-Control", "public, max-age=31536000, immutable")
	} else {
		h.Set("Cache-Control", "no-store")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.PNG)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.parseConfig(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}
	scene, err := s.runner.Generate(r.Context(), cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	setSceneHeaders(w.Header(), scene)
	writeJSON(w, http.StatusOK, scene.Manifest())
}

func setSceneHeaders(h http.Header, scene *pipeline.Scene) {
	h.Set(HeaderShapeSeed, scene.Seeds.Shape.String())
	h.Set(HeaderColorSeed, scene.Seeds.Color.String())
	h.Set(HeaderRenderID, scene.RunID)
}

// parseConfig builds a configuration from query parameters layered on a
// preset.
func (s *Server) parseConfig(q url.Values) (config.RenderConfig, error) {
	cfg, err := config.Preset(q.Get("preset"))
	if err != nil {
		return cfg, err
	}

	var ov config.Overrides
	if v := q.Get("shape"); v != "" {
		sd := seed.Parse(v)
		ov.ShapeSeed = &sd
	}
	if v := q.Get("color"); v != "" {
		sd := seed.Parse(v)
		ov.ColorSeed = &sd
	}
	if ov.Width, err = intParam(q, "width"); err != nil {
		return cfg, err
	}
	if ov.Height, err = intParam(q, "height"); err != nil {
		return cfg, err
	}
	if ov.Segments, err = intParam(q, "segments"); err != nil {
		return cfg, err
	}
	if ov.ShowGrain, err = boolParam(q, "grain"); err != nil {
		return cfg, err
	}
	if ov.PrintFooter, err = boolParam(q, "footer"); err != nil {
		return cfg, err
	}
	if v := q.Get("blend"); v != "" {
		m, err := render.ParseBlendMode(v)
		if err != nil {
			return cfg, err
		}
		ov.Blend = &m
	}
	if v := q.Get("grain_style"); v != "" {
		st, err := grain.ParseStyle(v)
		if err != nil {
			return cfg, err
		}
		ov.GrainStyle = &st
	}
	if v := q.Get("streams"); v != "" {
		cs := config.ChainStreams(v)
		ov.ChainStreams = &cs
	}

	cfg = ov.Apply(cfg)
	limit := s.MaxDimension
	if limit <= 0 {
		limit = DefaultMaxDimension
	}
	if cfg.Width() > limit || cfg.Height() > limit {
		return cfg, errors.New(errors.ErrCodeInvalidInput,
			"canvas %dx%d exceeds the server limit of %d", cfg.Width(), cfg.Height(), limit)
	}
	maxSegments := s.MaxSegments
	if maxSegments <= 0 {
		maxSegments = DefaultMaxSegments
	}
	total := 0
	for _, ch := range cfg.Chains {
		total += ch.Segments
	}
	if total > maxSegments {
		return cfg, errors.New(errors.ErrCodeInvalidInput,
			"%d segments exceed the server limit of %d", total, maxSegments)
	}
	return cfg, nil
}

func intParam(q url.Values, name string) (*int, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be an integer", name)
	}
	return &n, nil
}

func boolParam(q url.Values, name string) (*bool, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a boolean", name)
	}
	return &b, nil
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// writeError maps coded errors to HTTP statuses. Input and configuration
// problems are the client's; everything else is ours.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	if stderrors.Is(err, context.DeadlineExceeded) {
		code = errors.ErrCodeTimeout
	}
	switch code {
	case errors.ErrCodeTimeout:
		status = http.StatusServiceUnavailable
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidSeed:
		status = http.StatusBadRequest
	case errors.ErrCodeInvalidPreset, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "error", err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
	}
	writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
