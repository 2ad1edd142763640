package config

import (
	"slices"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/geom"
	"github.com/matzehuels/serpentine/pkg/grain"
	"github.com/matzehuels/serpentine/pkg/render"
)

// Defaults shared by the presets.
const (
	DefaultWidth    = 1311
	DefaultHeight   = 1819
	DefaultSegments = 100
	DefaultPreset   = PresetTwoBigCurves
)

// Preset names.
const (
	PresetTwoBigCurves = "two-big-curves"
	PresetSingleCurve  = "single-curve"
)

var presets = map[string]func() RenderConfig{
	PresetTwoBigCurves: twoBigCurves,
	PresetSingleCurve:  singleCurve,
}

var presetDescriptions = map[string]string{
	PresetTwoBigCurves: "a thick and a thin chain from one shape stream, both overlaid",
	PresetSingleCurve:  "one thick overlaid chain",
}

// A6 card with bleed.
func twoBigCurves() RenderConfig {
	return RenderConfig{
		Preset:     PresetTwoBigCurves,
		Dimensions: [2]int{DefaultWidth, DefaultHeight},
		Start:      [2]float64{0.5, 1.0 / 3},
		Chains: []ChainConfig{
			{
				Name:       "spaghetti 1",
				Segments:   DefaultSegments,
				BaseRadius: 24,
				Thickness:  1.5,
				Blend:      render.BlendOverlay,
				RadiusBand: geom.DefaultRadiusBand,
				AngleBand:  geom.DefaultAngleBand,
			},
			{
				Name:       "spaghetti 2",
				Segments:   DefaultSegments,
				BaseRadius: 8,
				FirstBase:  24,
				Thickness:  1,
				Blend:      render.BlendOverlay,
				RadiusBand: geom.DefaultRadiusBand,
				AngleBand:  geom.DefaultAngleBand,
			},
		},
		ChainStreams: StreamsShared,
		Palette:      "named",
		ShowGrain:    true,
		GrainStyle:   grain.Parallel,
		GrainAmount:  0.08,
		GrainDensity: 1,
		GrainSize:    1,
		PrintFooter:  true,
		Prefix:       "2bigCurves",
	}
}

func singleCurve() RenderConfig {
	c := twoBigCurves()
	c.Preset = PresetSingleCurve
	c.Chains = c.Chains[:1]
	c.Prefix = "singleCurve"
	return c
}

// Preset returns a fresh copy of the named preset.
func Preset(name string) (RenderConfig, error) {
	if name == "" {
		name = DefaultPreset
	}
	fn, ok := presets[name]
	if !ok {
		return RenderConfig{}, errors.New(errors.ErrCodeInvalidPreset,
			"unknown preset %q (available: %v)", name, PresetNames())
	}
	return fn(), nil
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Describe returns a one-line description of a preset.
func Describe(name string) string { return presetDescriptions[name] }
