package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/serpentine/pkg/cache"
	"github.com/matzehuels/serpentine/pkg/config"
	"github.com/matzehuels/serpentine/pkg/footer"
	"github.com/matzehuels/serpentine/pkg/observability"
	"github.com/matzehuels/serpentine/pkg/palette"
	"github.com/matzehuels/serpentine/pkg/render/raster"
	"github.com/matzehuels/serpentine/pkg/seed"
)

// Result is the output of Runner.Execute.
type Result struct {
	// Scene is the generated scene. It is rebuilt on cache hits, which is
	// cheap next to painting.
	Scene *Scene

	// ConfigHash identifies the configuration without its seeds.
	ConfigHash string

	// PNG is the encoded image.
	PNG []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Manifest returns the manifest of the rendered scene.
func (r *Result) Manifest() Manifest { return r.Scene.Manifest() }

// Stats contains pipeline execution statistics.
type Stats struct {
	Chains       int
	Segments     int
	Bytes        int
	GenerateTime time.Duration
	PaintTime    time.Duration
	EncodeTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether the encoded image came from cache
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so cached images are shared between them.
//
// The Runner stores no per-render state. Multiple goroutines can safely
// use the same Runner with different configurations.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Seeds resolves random sentinels. The zero value reads crypto/rand.
	Seeds seed.Resolver
	// Footer, when nil, is loaded with the default font the first time a
	// configuration enables the footer.
	Footer *footer.Stamp

	footerOnce sync.Once
	footerErr  error
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Generate resolves the configuration's seeds and runs the pure phase.
func (r *Runner) Generate(ctx context.Context, cfg config.RenderConfig) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	provider, err := palette.ByName(cfg.Palette)
	if err != nil {
		return nil, err
	}

	seeds := r.Seeds.ResolvePair(cfg.ShapeSeed, cfg.ColorSeed)
	r.Logger.Debug("resolved seeds",
		"shape", seeds.Shape,
		"color", seeds.Color,
		"requested_shape", cfg.ShapeSeed,
		"requested_color", cfg.ColorSeed)

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, uint64(seeds.Shape), uint64(seeds.Color))
	start := time.Now()
	scene, err := Generate(cfg, seeds, provider)
	dur := time.Since(start)
	if err != nil {
		hooks.OnGenerateComplete(ctx, 0, 0, dur, err)
		return nil, fmt.Errorf("generate: %w", err)
	}
	hooks.OnGenerateComplete(ctx, len(scene.Chains), scene.Segments(), dur, nil)

	r.Logger.Info("generated scene",
		"run", scene.RunID,
		"shape", seeds.Shape,
		"color", seeds.Color,
		"chains", len(scene.Chains),
		"segments", scene.Segments(),
		"duration", dur)
	return scene, nil
}

// Execute runs the complete generate → paint → encode pipeline with caching.
// The cache key is the pair of concrete seeds plus a hash of the rest of
// the configuration, so a random run is cached under the seeds it drew.
func (r *Runner) Execute(ctx context.Context, cfg config.RenderConfig) (*Result, error) {
	result := &Result{}

	genStart := time.Now()
	scene, err := r.Generate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	result.Scene = scene
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Chains = len(scene.Chains)
	result.Stats.Segments = scene.Segments()

	result.ConfigHash, err = ConfigHash(scene.Config)
	if err != nil {
		return nil, err
	}
	keyOpts := cache.RenderKeyOpts{
		ShapeSeed:  uint64(scene.Seeds.Shape),
		ColorSeed:  uint64(scene.Seeds.Color),
		ConfigHash: result.ConfigHash,
		Format:     FormatPNG,
	}
	key := r.Keyer.RenderKey(keyOpts)

	cacheHooks := observability.Cache()
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		cacheHooks.OnCacheHit(ctx, key)
		result.PNG = data
		result.Stats.Bytes = len(data)
		result.CacheInfo.RenderHit = true
		if id, ok := r.cachedRunID(ctx, keyOpts); ok {
			scene.RunID = id
		}
		r.Logger.Info("loaded from cache", "run", scene.RunID, "file", scene.FileName(), "bytes", len(data))
		return result, nil
	} else if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	cacheHooks.OnCacheMiss(ctx, key)

	data, err := r.render(ctx, scene, result)
	if err != nil {
		return nil, err
	}
	result.PNG = data
	result.Stats.Bytes = len(data)

	if err := r.Cache.Set(ctx, key, data, cache.RenderTTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		cacheHooks.OnCacheSet(ctx, key, len(data))
	}
	if m, err := json.Marshal(scene.Manifest()); err == nil {
		_ = r.Cache.Set(ctx, r.Keyer.ManifestKey(keyOpts), m, cache.ManifestTTL)
	}
	return result, nil
}

// cachedRunID returns the run ID recorded in the manifest stored next to a
// cached image, so a cache hit reports the run that produced the pixels.
func (r *Runner) cachedRunID(ctx context.Context, opts cache.RenderKeyOpts) (string, bool) {
	data, hit, err := r.Cache.Get(ctx, r.Keyer.ManifestKey(opts))
	if err != nil || !hit {
		return "", false
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil || m.RunID == "" {
		r.Logger.Debug("cached manifest unusable", "error", err)
		return "", false
	}
	return m.RunID, true
}

// render paints and encodes scene, recording stage timings in result.
func (r *Runner) render(ctx context.Context, scene *Scene, result *Result) ([]byte, error) {
	hooks := observability.Pipeline()

	opts := PaintOptions{Label: scene.Config.Preset}
	if scene.Config.PrintFooter {
		stamp, err := r.footer()
		if err != nil {
			return nil, err
		}
		opts.Footer = stamp
	}

	surface, err := raster.New(scene.Config.Width(), scene.Config.Height())
	if err != nil {
		return nil, fmt.Errorf("paint: %w", err)
	}
	defer surface.Close()

	hooks.OnPaintStart(ctx, scene.Display.Strokes())
	paintStart := time.Now()
	err = Paint(ctx, scene, surface, opts)
	result.Stats.PaintTime = time.Since(paintStart)
	hooks.OnPaintComplete(ctx, result.Stats.PaintTime, err)
	if err != nil {
		return nil, fmt.Errorf("paint: %w", err)
	}
	r.Logger.Info("painted",
		"strokes", scene.Display.Strokes(),
		"grain", scene.Config.ShowGrain,
		"footer", scene.Config.PrintFooter,
		"duration", result.Stats.PaintTime)

	encStart := time.Now()
	data, err := surface.PNG()
	result.Stats.EncodeTime = time.Since(encStart)
	hooks.OnEncodeComplete(ctx, FormatPNG, len(data), result.Stats.EncodeTime, err)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	r.Logger.Debug("encoded", "format", FormatPNG, "bytes", len(data), "duration", result.Stats.EncodeTime)
	return data, nil
}

func (r *Runner) footer() (*footer.Stamp, error) {
	r.footerOnce.Do(func() {
		if r.Footer == nil {
			r.Footer, r.footerErr = footer.Default()
		}
	})
	return r.Footer, r.footerErr
}

// ConfigHash hashes cfg with its seeds cleared.
func ConfigHash(cfg config.RenderConfig) (string, error) {
	cfg.ShapeSeed = seed.Random()
	cfg.ColorSeed = seed.Random()
	return cache.HashJSON(cfg)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
