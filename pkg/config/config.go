// Package config holds the immutable render configuration and its sources.
//
// A [RenderConfig] is assembled once, in this order, and then passed by
// value to every stage:
//
//  1. a preset ([Preset]),
//  2. an optional TOML file ([Load]),
//  3. environment variables ([FromEnv]),
//  4. command-line overrides ([Overrides.Apply]).
//
// Lengths in a chain are measured in scale units: one unit is 1% of the
// shorter canvas side. A chain with BaseRadius 24 on a 1311×1819 canvas
// draws radii around 24 × 13.11 px.
package config

import (
	"fmt"
	"math"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/geom"
	"github.com/matzehuels/serpentine/pkg/grain"
	"github.com/matzehuels/serpentine/pkg/palette"
	"github.com/matzehuels/serpentine/pkg/render"
	"github.com/matzehuels/serpentine/pkg/seed"
)

// Limits on accepted configurations.
const (
	MaxDimension = 16384
	MaxSegments  = 100000
	MaxChains    = 16
)

// ChainStreams selects how chains share the shape stream.
type ChainStreams string

const (
	// StreamsShared draws every chain from the one shape stream, in order.
	StreamsShared ChainStreams = "shared"
	// StreamsIndependent gives chain i its own sub-stream derived from the
	// shape seed, so editing one chain leaves the others unchanged.
	StreamsIndependent ChainStreams = "independent"
)

// ChainConfig configures one chain.
type ChainConfig struct {
	Name     string `toml:"name" json:"name"`
	Segments int    `toml:"segments" json:"segments"`
	// BaseRadius is the dot size in scale units.
	BaseRadius float64 `toml:"base_radius" json:"base_radius"`
	// FirstBase, when set, is the dot size used for the first radius only.
	FirstBase float64 `toml:"first_base,omitempty" json:"first_base,omitempty"`
	// Thickness is the stroke width as a multiple of BaseRadius.
	Thickness  float64          `toml:"thickness" json:"thickness"`
	Blend      render.BlendMode `toml:"blend" json:"blend"`
	RadiusBand geom.Band        `toml:"radius_band" json:"radius_band"`
	AngleBand  geom.Band        `toml:"angle_band" json:"angle_band"`
}

// RenderConfig is the full description of one image.
type RenderConfig struct {
	Preset     string    `toml:"preset,omitempty" json:"preset,omitempty"`
	Dimensions [2]int    `toml:"dimensions" json:"dimensions"`
	ShapeSeed  seed.Seed `toml:"shape_seed" json:"shape_seed"`
	ColorSeed  seed.Seed `toml:"color_seed" json:"color_seed"`
	// Start is the first center as fractions of width and height.
	Start        [2]float64    `toml:"start" json:"start"`
	Chains       []ChainConfig `toml:"chain" json:"chains"`
	ChainStreams ChainStreams  `toml:"chain_streams" json:"chain_streams"`
	Palette      string        `toml:"palette" json:"palette"`

	ShowGrain    bool        `toml:"show_grain" json:"show_grain"`
	GrainStyle   grain.Style `toml:"grain_style" json:"grain_style"`
	GrainAmount  float64     `toml:"grain_amount" json:"grain_amount"`
	GrainDensity float64     `toml:"grain_density" json:"grain_density"`
	GrainSize    int         `toml:"grain_size" json:"grain_size"`

	PrintFooter bool   `toml:"print_footer" json:"print_footer"`
	Prefix      string `toml:"prefix" json:"prefix"`
}

// Width returns the canvas width.
func (c RenderConfig) Width() int { return c.Dimensions[0] }

// Height returns the canvas height.
func (c RenderConfig) Height() int { return c.Dimensions[1] }

// Scale returns the size of one scale unit in pixels.
func (c RenderConfig) Scale() float64 {
	return float64(min(c.Width(), c.Height())) * 0.01
}

// StartPoint returns the first center in pixels.
func (c RenderConfig) StartPoint() geom.Point {
	return geom.Point{
		X: float64(c.Width()) * c.Start[0],
		Y: float64(c.Height()) * c.Start[1],
	}
}

// ChainSpec returns the geometry parameters of chain i.
func (c RenderConfig) ChainSpec(i int) geom.ChainSpec {
	ch := c.Chains[i]
	e := c.Scale()
	spec := geom.ChainSpec{
		Segments:   ch.Segments,
		Unit:       ch.BaseRadius * e,
		RadiusBand: ch.RadiusBand,
		AngleBand:  ch.AngleBand,
		Start:      c.StartPoint(),
	}
	if ch.FirstBase > 0 {
		spec.FirstUnit = ch.FirstBase * e
	}
	return spec
}

// StrokeWidth returns the stroke width of chain i in pixels.
func (c RenderConfig) StrokeWidth(i int) float64 {
	ch := c.Chains[i]
	return ch.Thickness * ch.BaseRadius * c.Scale()
}

// Roles lists the color slots in draw order: the background, then one
// opaque stroke color per chain.
func (c RenderConfig) Roles() []palette.Role {
	roles := make([]palette.Role, 0, len(c.Chains)+1)
	roles = append(roles, palette.Role{Name: "background"})
	for i, ch := range c.Chains {
		name := ch.Name
		if name == "" {
			name = fmt.Sprintf("chain %d", i+1)
		}
		roles = append(roles, palette.Opaque(name))
	}
	return roles
}

// GrainOptions returns the grain settings.
func (c RenderConfig) GrainOptions() grain.Options {
	opts := grain.DefaultOptions(c.GrainStyle)
	opts.Amount = c.GrainAmount
	opts.Density = c.GrainDensity
	opts.Size = c.GrainSize
	return opts
}

// FileName returns "<prefix>_s<shape>-c<color>.png".
func (c RenderConfig) FileName(seeds seed.Pair) string {
	prefix := c.Prefix
	if prefix == "" {
		prefix = "serpentine"
	}
	return fmt.Sprintf("%s_s%s-c%s.png", prefix, seeds.Shape, seeds.Color)
}

// chainDefaults fills the fields of a [[chain]] table that the file left
// out. defined holds the keys the table actually set, so an explicit zero
// is kept and later rejected by Validate.
func chainDefaults(ch *ChainConfig, defined map[string]any) {
	if _, ok := defined["segments"]; !ok {
		ch.Segments = DefaultSegments
	}
	if _, ok := defined["thickness"]; !ok {
		ch.Thickness = 1
	}
	if _, ok := defined["radius_band"]; !ok {
		ch.RadiusBand = geom.DefaultRadiusBand
	}
	if _, ok := defined["angle_band"]; !ok {
		ch.AngleBand = geom.DefaultAngleBand
	}
}

// Validate rejects configurations that cannot produce an image. It runs
// before any stream is created.
func (c RenderConfig) Validate() error {
	w, h := c.Width(), c.Height()
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return errors.New(errors.ErrCodeInvalidConfig,
			"dimensions must be within 1..%d, got %dx%d", MaxDimension, w, h)
	}
	for i, f := range c.Start {
		if err := errors.ValidateFinite(fmt.Sprintf("start[%d]", i), f); err != nil {
			return err
		}
	}
	if len(c.Chains) == 0 || len(c.Chains) > MaxChains {
		return errors.New(errors.ErrCodeInvalidConfig, "need 1..%d chains, got %d", MaxChains, len(c.Chains))
	}
	switch c.ChainStreams {
	case StreamsShared, StreamsIndependent:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"chain_streams must be %q or %q, got %q", StreamsShared, StreamsIndependent, c.ChainStreams)
	}
	if _, err := palette.ByName(c.Palette); err != nil {
		return err
	}

	for i, ch := range c.Chains {
		if ch.Segments > MaxSegments {
			return errors.New(errors.ErrCodeInvalidConfig, "chain %d: at most %d segments, got %d", i+1, MaxSegments, ch.Segments)
		}
		if err := errors.ValidatePositive(fmt.Sprintf("chain %d base radius", i+1), ch.BaseRadius); err != nil {
			return err
		}
		if err := errors.ValidatePositive(fmt.Sprintf("chain %d thickness", i+1), ch.Thickness); err != nil {
			return err
		}
		if !ch.Blend.Valid() {
			return errors.New(errors.ErrCodeInvalidConfig, "chain %d: unknown blend mode", i+1)
		}
		if err := c.ChainSpec(i).Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chain %d", i+1)
		}
		if math.IsInf(c.StrokeWidth(i), 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "chain %d: stroke width overflows", i+1)
		}
	}

	if c.ShowGrain {
		if err := c.GrainOptions().Validate(); err != nil {
			return err
		}
	}
	if c.Prefix != "" {
		if err := errors.ValidateName("prefix", c.Prefix); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "prefix")
		}
	}
	return nil
}
