package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/serpentine/pkg/config"
	"github.com/matzehuels/serpentine/pkg/grain"
	"github.com/matzehuels/serpentine/pkg/io"
	"github.com/matzehuels/serpentine/pkg/render"
	"github.com/matzehuels/serpentine/pkg/seed"
)

// sourceOpts select where a configuration comes from. They are shared by
// the render and seed commands.
type sourceOpts struct {
	preset string // base preset name
	config string // TOML config file, layered on its own preset key
	replay string // manifest whose seeds are reused
}

// renderOpts holds the command-line flags for the render command.
// Only flags the user set are applied on top of the configuration.
type renderOpts struct {
	sourceOpts
	output   string // output file path, or directory ending in a separator
	manifest string // manifest output path
	noCache  bool   // skip the artifact cache

	width, height int
	shapeSeed     string
	colorSeed     string
	segments      int
	baseRadius    float64
	thickness     float64
	blend         string
	grain         bool
	grainStyle    string
	footer        bool
	chainStreams  string
	palette       string
	prefix        string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an image to PNG",
		Long: `Render an image to PNG.

The configuration is assembled from a preset (or a TOML file), then the
SERPENTINE_* environment variables, then the flags given here. A seed of 0
or an omitted seed draws a random one, which is reported so the image can be
reproduced.`,
		Example: `  serpentine render
  serpentine render -s 42 -c 7 --preset single-curve
  serpentine render --config card.toml -o out/
  serpentine render --replay out/run.json --grain=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.build(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, &opts)
		},
	}

	addSourceFlags(cmd.Flags(), &opts.sourceOpts)
	addOverrideFlags(cmd.Flags(), &opts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or directory ending in / (default: <prefix>_s<shape>-c<color>.png)")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "also write a JSON manifest to this path")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func addSourceFlags(fs *pflag.FlagSet, opts *sourceOpts) {
	fs.StringVarP(&opts.preset, "preset", "p", "", "base preset (default: $SERPENTINE_PRESET or "+config.DefaultPreset+")")
	fs.StringVar(&opts.config, "config", "", "TOML config file")
	fs.StringVar(&opts.replay, "replay", "", "reuse the seeds recorded in a manifest")
}

func addOverrideFlags(fs *pflag.FlagSet, opts *renderOpts) {
	fs.IntVar(&opts.width, "width", config.DefaultWidth, "canvas width in pixels")
	fs.IntVar(&opts.height, "height", config.DefaultHeight, "canvas height in pixels")
	fs.StringVarP(&opts.shapeSeed, "shape-seed", "s", "", "shape seed: number, word, or 0 for random")
	fs.StringVarP(&opts.colorSeed, "color-seed", "c", "", "color seed: number, word, or 0 for random")
	fs.IntVar(&opts.segments, "segments", config.DefaultSegments, "arcs per chain")
	fs.Float64Var(&opts.baseRadius, "base-radius", 24, "dot size of the first chain in scale units")
	fs.Float64Var(&opts.thickness, "thickness", 1.5, "stroke width of the first chain as a multiple of its dot size")
	fs.StringVar(&opts.blend, "blend", "overlay", "blend mode for all chains: normal, overlay, screen, multiply")
	fs.BoolVar(&opts.grain, "grain", true, "add film grain")
	fs.StringVar(&opts.grainStyle, "grain-style", "parallel", "grain style: parallel, colorful, tinted, inverted")
	fs.BoolVar(&opts.footer, "footer", true, "stamp seeds and palette along the bottom edge")
	fs.StringVar(&opts.chainStreams, "chain-streams", "", "shared or independent shape streams per chain")
	fs.StringVar(&opts.palette, "palette", "", "palette provider: named or generated")
	fs.StringVar(&opts.prefix, "prefix", "", "file name prefix")
}

// load reads the base configuration: a file if given, otherwise a preset,
// then the environment, then seeds from a replayed manifest.
func (o *sourceOpts) load() (config.RenderConfig, error) {
	var (
		cfg config.RenderConfig
		err error
	)
	if o.config != "" {
		cfg, err = config.Load(o.config)
	} else {
		name := o.preset
		if name == "" {
			name = os.Getenv(config.EnvPreset)
		}
		cfg, err = config.Preset(name)
	}
	if err != nil {
		return cfg, err
	}
	if cfg, err = config.FromEnv(cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if o.replay != "" {
		m, err := io.ImportManifest(o.replay)
		if err != nil {
			return cfg, err
		}
		cfg.ShapeSeed = m.Seeds.Shape.Seed()
		cfg.ColorSeed = m.Seeds.Color.Seed()
	}
	return cfg, nil
}

// build assembles the final configuration.
func (o *renderOpts) build(fs *pflag.FlagSet) (config.RenderConfig, error) {
	cfg, err := o.load()
	if err != nil {
		return cfg, err
	}
	ov, err := o.overrides(fs)
	if err != nil {
		return cfg, err
	}
	cfg = ov.Apply(cfg)
	return cfg, cfg.Validate()
}

// overrides converts the flags that were set into config overrides.
func (o *renderOpts) overrides(fs *pflag.FlagSet) (config.Overrides, error) {
	var ov config.Overrides
	set := fs.Changed

	if set("width") {
		ov.Width = &o.width
	}
	if set("height") {
		ov.Height = &o.height
	}
	if set("shape-seed") {
		s := seed.Parse(o.shapeSeed)
		ov.ShapeSeed = &s
	}
	if set("color-seed") {
		s := seed.Parse(o.colorSeed)
		ov.ColorSeed = &s
	}
	if set("segments") {
		ov.Segments = &o.segments
	}
	if set("base-radius") {
		ov.BaseRadius = &o.baseRadius
	}
	if set("thickness") {
		ov.Thickness = &o.thickness
	}
	if set("blend") {
		m, err := render.ParseBlendMode(o.blend)
		if err != nil {
			return ov, err
		}
		ov.Blend = &m
	}
	if set("grain") {
		ov.ShowGrain = &o.grain
	}
	if set("grain-style") {
		st, err := grain.ParseStyle(o.grainStyle)
		if err != nil {
			return ov, err
		}
		ov.GrainStyle = &st
	}
	if set("footer") {
		ov.PrintFooter = &o.footer
	}
	if set("chain-streams") {
		cs := config.ChainStreams(o.chainStreams)
		ov.ChainStreams = &cs
	}
	if set("palette") {
		ov.Palette = &o.palette
	}
	if set("prefix") {
		ov.Prefix = &o.prefix
	}
	return ov, nil
}

// runRender executes the pipeline and writes the image (and manifest).
func (c *CLI) runRender(ctx context.Context, cfg config.RenderConfig, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	runLogger := quietLogger(logger, c.verbose())
	var spinner *Spinner
	if !c.verbose() {
		spinner = newSpinner(ctx, os.Stderr, "Rendering...")
		spinner.Start()
	}

	runner := c.newRunner(ctx, opts.noCache, nil, runLogger)
	defer runner.Close()

	st := startStage(logger, "render")
	result, err := runner.Execute(ctx, cfg)
	if err != nil {
		if spinner != nil {
			spinner.Fail("Render failed")
		}
		return err
	}
	scene := result.Scene

	out := outputPath(opts.output, scene.FileName())
	if spinner != nil {
		spinner.Update("Writing " + out + "...")
	}
	err = io.WritePNG(out, result.PNG)
	if err == nil && opts.manifest != "" {
		err = io.ExportManifest(scene, opts.manifest)
	}
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	st.done("file", out, "bytes", len(result.PNG), "cached", result.CacheInfo.RenderHit)

	printSuccess("Rendered %s", scene.FileName())
	printStats(result.Stats.Chains, result.Stats.Segments, result.CacheInfo.RenderHit)
	printKeyValue("shape seed", StyleNumber.Render(scene.Seeds.Shape.String()))
	printKeyValue("color seed", StyleNumber.Render(scene.Seeds.Color.String()))
	printFile(out)
	if opts.manifest != "" {
		printFile(opts.manifest)
	}
	if cfg.ShapeSeed.IsRandom() || cfg.ColorSeed.IsRandom() {
		printNextStep("Reproduce", fmt.Sprintf("%s render -s %s -c %s", appName, scene.Seeds.Shape, scene.Seeds.Color))
	}
	return nil
}

// outputPath resolves the -o flag against the generated file name.
func outputPath(output, name string) string {
	switch {
	case output == "":
		return name
	case os.IsPathSeparator(output[len(output)-1]):
		return filepath.Join(output, name)
	}
	if fi, err := os.Stat(output); err == nil && fi.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}
