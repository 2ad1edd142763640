package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/serpentine/pkg/config"
	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/grain"
	"github.com/matzehuels/serpentine/pkg/io"
	"github.com/matzehuels/serpentine/pkg/render"
	"github.com/matzehuels/serpentine/pkg/seed"
)

func buildFromArgs(t *testing.T, args ...string) (config.RenderConfig, error) {
	t.Helper()
	var opts renderOpts
	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	addSourceFlags(fs, &opts.sourceOpts)
	addOverrideFlags(fs, &opts)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return opts.build(fs)
}

func TestBuildDefaults(t *testing.T) {
	cfg, err := buildFromArgs(t)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Preset != config.DefaultPreset {
		t.Errorf("Preset = %q, want %q", cfg.Preset, config.DefaultPreset)
	}
	if !cfg.ShapeSeed.IsRandom() || !cfg.ColorSeed.IsRandom() {
		t.Error("seeds should default to random")
	}
	if len(cfg.Chains) != 2 || cfg.Chains[0].Segments != config.DefaultSegments {
		t.Errorf("chains = %+v", cfg.Chains)
	}
}

func TestBuildOverrides(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(*testing.T, config.RenderConfig)
	}{
		{
			name: "seeds",
			args: []string{"-s", "42", "-c", "blue-moon"},
			check: func(t *testing.T, c config.RenderConfig) {
				if c.ShapeSeed != seed.FromUint(42) {
					t.Errorf("ShapeSeed = %v", c.ShapeSeed)
				}
				if c.ColorSeed != seed.Parse("blue-moon") {
					t.Errorf("ColorSeed = %v", c.ColorSeed)
				}
			},
		},
		{
			name: "segments apply to every chain",
			args: []string{"--segments", "10"},
			check: func(t *testing.T, c config.RenderConfig) {
				for i, ch := range c.Chains {
					if ch.Segments != 10 {
						t.Errorf("chain %d segments = %d", i, ch.Segments)
					}
				}
			},
		},
		{
			name: "base radius applies to the first chain",
			args: []string{"--base-radius", "12"},
			check: func(t *testing.T, c config.RenderConfig) {
				if c.Chains[0].BaseRadius != 12 || c.Chains[1].BaseRadius != 8 {
					t.Errorf("base radii = %v, %v", c.Chains[0].BaseRadius, c.Chains[1].BaseRadius)
				}
			},
		},
		{
			name: "blend and grain",
			args: []string{"--blend", "screen", "--grain-style", "colorfull", "--grain=false", "--footer=false"},
			check: func(t *testing.T, c config.RenderConfig) {
				if c.Chains[1].Blend != render.BlendScreen {
					t.Errorf("Blend = %v", c.Chains[1].Blend)
				}
				if c.GrainStyle != grain.Colorful || c.ShowGrain || c.PrintFooter {
					t.Errorf("grain = %v/%v footer = %v", c.GrainStyle, c.ShowGrain, c.PrintFooter)
				}
			},
		},
		{
			name: "preset",
			args: []string{"--preset", config.PresetSingleCurve, "--width", "300", "--height", "200"},
			check: func(t *testing.T, c config.RenderConfig) {
				if len(c.Chains) != 1 {
					t.Errorf("chains = %d, want 1", len(c.Chains))
				}
				if c.Width() != 300 || c.Height() != 200 {
					t.Errorf("size = %dx%d", c.Width(), c.Height())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := buildFromArgs(t, tt.args...)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestBuildEnvironment(t *testing.T) {
	t.Setenv(config.EnvPreset, config.PresetSingleCurve)
	t.Setenv(config.EnvShapeSeed, "99")

	cfg, err := buildFromArgs(t)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Preset != config.PresetSingleCurve {
		t.Errorf("Preset = %q", cfg.Preset)
	}
	if cfg.ShapeSeed != seed.FromUint(99) {
		t.Errorf("ShapeSeed = %v", cfg.ShapeSeed)
	}

	// Flags win over the environment.
	cfg, err = buildFromArgs(t, "-s", "5")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ShapeSeed != seed.FromUint(5) {
		t.Errorf("ShapeSeed = %v, want the flag value", cfg.ShapeSeed)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown preset", []string{"--preset", "nope"}, errors.ErrCodeInvalidPreset},
		{"bad blend", []string{"--blend", "dodge"}, errors.ErrCodeInvalidConfig},
		{"bad grain style", []string{"--grain-style", "sand"}, errors.ErrCodeInvalidConfig},
		{"bad streams", []string{"--chain-streams", "both"}, errors.ErrCodeInvalidConfig},
		{"negative radius", []string{"--base-radius", "-1"}, errors.ErrCodeInvalidConfig},
		{"missing config", []string{"--config", "does-not-exist.toml"}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildFromArgs(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("build error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		output string
		want   string
	}{
		{"", "x.png"},
		{"out.png", "out.png"},
		{"renders/", filepath.Join("renders", "x.png")},
		{dir, filepath.Join(dir, "x.png")},
	}

	for _, tt := range tests {
		if got := outputPath(tt.output, "x.png"); got != tt.want {
			t.Errorf("outputPath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvCacheDir, filepath.Join(dir, "cache"))
	t.Setenv(config.EnvRedisAddr, "")

	out := filepath.Join(dir, "img.png")
	manifest := filepath.Join(dir, "run.json")

	run := func(args ...string) {
		t.Helper()
		c := New(&bytes.Buffer{}, LogInfo)
		root := c.RootCommand()
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	run("render", "-c", "7", "--width", "80", "--height", "100", "--segments", "10",
		"--footer=false", "-o", out, "--manifest", manifest)

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 100 {
		t.Errorf("size = %dx%d", b.Dx(), b.Dy())
	}

	m, err := io.ImportManifest(manifest)
	if err != nil {
		t.Fatal(err)
	}
	if m.Seeds.Color != 7 {
		t.Errorf("color seed = %d, want 7", m.Seeds.Color)
	}

	// Replaying the manifest reproduces the random shape seed.
	replayed := filepath.Join(dir, "replay") + string(filepath.Separator)
	run("render", "--replay", manifest, "--width", "80", "--height", "100", "--segments", "10",
		"--footer=false", "-o", replayed)
	if _, err := os.Stat(filepath.Join(replayed, m.File)); err != nil {
		t.Errorf("replayed render not at %s: %v", m.File, err)
	}
}
