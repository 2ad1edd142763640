// Package pipeline provides the render pipeline for Serpentine.
//
// The pipeline is shared by the CLI and the HTTP server so both produce
// byte-identical images for the same seeds and configuration.
//
// # Architecture
//
// A render runs in two strictly separated phases:
//
//  1. Generate: resolve chains and colors from the two seeded streams and
//     freeze them into a [Scene]. Nothing is drawn.
//  2. Paint: replay the scene's display list onto a raster surface, then
//     optionally add grain and the footer.
//
// Generate is pure, so geometry and color determinism can be tested
// without any rendering backend.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	cfg, _ := config.Preset(config.PresetTwoBigCurves)
//	result, err := runner.Execute(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.PNG
//
// Run the phases individually:
//
//	scene, err := pipeline.Generate(cfg, seeds, provider)
//	surface, err := raster.New(cfg.Width(), cfg.Height())
//	err = pipeline.Paint(ctx, scene, surface, pipeline.PaintOptions{})
package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/serpentine/pkg/config"
	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/geom"
	"github.com/matzehuels/serpentine/pkg/palette"
	"github.com/matzehuels/serpentine/pkg/render"
	"github.com/matzehuels/serpentine/pkg/rng"
	"github.com/matzehuels/serpentine/pkg/seed"
)

// FormatPNG is the only encoded output format.
const FormatPNG = "png"

// Scene is the frozen output of the generate phase.
type Scene struct {
	RunID   string
	Seeds   seed.Pair
	Config  config.RenderConfig
	Colors  []palette.ColorSpec
	Chains  []geom.Chain
	Stats   []geom.Stats
	Display *render.DisplayList
}

// Background returns the background color.
func (s *Scene) Background() palette.ColorSpec { return s.Colors[0] }

// FileName returns the output file name for the scene.
func (s *Scene) FileName() string { return s.Config.FileName(s.Seeds) }

// Segments returns the total number of arcs across all chains.
func (s *Scene) Segments() int {
	n := 0
	for _, c := range s.Chains {
		n += len(c)
	}
	return n
}

// Generate runs the pure phase: it validates cfg, draws every chain from
// the shape stream and every color from the color stream, and plans the
// display list. The two streams never read each other's state.
func Generate(cfg config.RenderConfig, seeds seed.Pair, provider palette.Provider) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, errors.New(errors.ErrCodeSetup, "no palette provider")
	}

	shape := rng.New(seeds.Shape)
	chains := make([]geom.Chain, len(cfg.Chains))
	for i := range cfg.Chains {
		src := shape
		if cfg.ChainStreams == config.StreamsIndependent {
			src = shape.Derive(uint64(i))
		}
		chain, err := geom.Generate(src, cfg.ChainSpec(i))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "chain %d", i+1)
		}
		chains[i] = chain
	}

	roles := cfg.Roles()
	colors, err := palette.Colors(rng.New(seeds.Color), provider, roles)
	if err != nil {
		return nil, err
	}

	layers := make([]render.Layer, len(chains))
	for i, chain := range chains {
		layers[i] = render.Layer{
			Name:      roles[i+1].Name,
			Chain:     chain,
			Color:     colors[i+1],
			Thickness: cfg.StrokeWidth(i),
			Blend:     cfg.Chains[i].Blend,
		}
	}
	display, err := render.Plan(cfg.Width(), cfg.Height(), colors[0], layers)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	stats := make([]geom.Stats, len(chains))
	for i, chain := range chains {
		if stats[i], err = chain.Summarize(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "summarize chain %d", i+1)
		}
	}

	return &Scene{
		RunID:   uuid.NewString(),
		Seeds:   seeds,
		Config:  cfg,
		Colors:  colors,
		Chains:  chains,
		Stats:   stats,
		Display: display,
	}, nil
}
