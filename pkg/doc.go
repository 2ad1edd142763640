// Package pkg provides the core libraries for Serpentine generative artwork.
//
// # Overview
//
// Serpentine draws chains of tangent circular arcs that alternate direction
// at every step, producing a woven "spaghetti" line. Each image is driven by
// two independent seeds: the shape seed decides geometry and the color seed
// decides the palette. Rendering is split into a pure generate phase and a
// side-effecting paint phase, so geometry and colors can be tested without a
// drawing backend.
//
// # Architecture
//
// The typical data flow through Serpentine:
//
//	RenderConfig (preset, TOML file, environment, flags)
//	         ↓
//	    [seed] package (resolve random seeds to concrete values)
//	         ↓
//	    [rng] package (one stream per seed, PCG-DXSM)
//	         ↓
//	    [geom] + [palette] packages (chains and colors, pure)
//	         ↓
//	    [render] package (immutable display list)
//	         ↓
//	    [render/raster] surface, then [grain] and [footer]
//	         ↓
//	    PNG bytes, manifest JSON
//
// # Quick Start
//
// Generate and paint a scene with fixed seeds:
//
//	import (
//	    "github.com/matzehuels/serpentine/pkg/config"
//	    "github.com/matzehuels/serpentine/pkg/palette"
//	    "github.com/matzehuels/serpentine/pkg/pipeline"
//	    "github.com/matzehuels/serpentine/pkg/render/raster"
//	    "github.com/matzehuels/serpentine/pkg/seed"
//	)
//
//	cfg, _ := config.Preset(config.PresetTwoBigCurves)
//	cfg.PrintFooter = false
//
//	scene, _ := pipeline.Generate(cfg, seed.Pair{Shape: 42, Color: 7}, palette.NewNamed())
//
//	surface, _ := raster.New(cfg.Width(), cfg.Height())
//	defer surface.Close()
//	_ = pipeline.Paint(ctx, scene, surface, pipeline.PaintOptions{})
//	png, _ := surface.PNG()
//
// Most callers use [pipeline.Runner] instead, which resolves seeds, caches
// encoded images and reports stage timings.
//
// # Main Packages
//
// ## Generation
//
// [seed] - Requested seeds (numbers, words or the random sentinel) and the
// Resolver that turns them into concrete 64-bit values.
//
// [rng] - Explicit, documented random streams. Outputs are reproducible
// bit for bit for a fixed seed and call sequence.
//
// [geom] - Chain generation: arc segments joined by the tangency rule, with
// direction alternating by segment parity. Also per-chain statistics.
//
// [palette] - Color roles and palette providers. Colors are drawn only from
// the color stream.
//
// ## Painting
//
// [render] - Blend modes, the Surface capability and the DisplayList built
// from chains. [render.Paint] replays a list onto any Surface.
//
// [render/raster] - Surface backed by a gogpu/gg raster context.
//
// [grain] - Film grain over a finished pixmap.
//
// [footer] - Seed and palette stamp along the bottom edge.
//
// ## Orchestration
//
// [pipeline] - Generate and Paint phases, scene manifests and the Runner used
// by the CLI and HTTP server.
//
// [config] - RenderConfig, presets, TOML loading, environment overrides and
// validation.
//
// ## Infrastructure
//
// [cache] - Rendered image cache with file, Redis and no-op backends.
//
// [io] - PNG and manifest files.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// [buildinfo] - Version information set at link time.
package pkg
