package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/serpentine/pkg/errors"
)

// Swatch is one entry of a named color table.
type Swatch struct {
	Name string
	Hex  string
}

// DefaultSwatches is the table the presets draw from.
var DefaultSwatches = []Swatch{
	{"ink", "#1b1b1e"},
	{"graphite", "#3a3a40"},
	{"bone", "#efe9dc"},
	{"paper", "#f6f1e7"},
	{"sand", "#d9c6a5"},
	{"ochre", "#cc8b2f"},
	{"saffron", "#f2b134"},
	{"tangerine", "#f08a24"},
	{"vermilion", "#e34234"},
	{"brick", "#a23b2a"},
	{"rose", "#e8a0a8"},
	{"magenta", "#c2185b"},
	{"plum", "#5d2e5a"},
	{"lavender", "#b9a7d6"},
	{"ultramarine", "#2a3d9c"},
	{"cobalt", "#0047ab"},
	{"cerulean", "#2a9dd4"},
	{"teal", "#1f7a7a"},
	{"mint", "#9fd8c0"},
	{"sage", "#8fa37e"},
	{"olive", "#6b6b2a"},
	{"forest", "#1f4d3a"},
	{"slate", "#5a6b7b"},
	{"fog", "#c9ced6"},
}

// Named picks uniformly from a fixed table of swatches.
type Named struct {
	Swatches []Swatch
	// Jitter, when positive, shifts the picked color's HCL lightness by a
	// uniform amount in [-Jitter, Jitter). It costs one extra draw per pick.
	Jitter float64
}

// NewNamed returns a provider over the default table.
func NewNamed() *Named {
	return &Named{Swatches: DefaultSwatches}
}

// Pick draws one swatch. Without an alpha override the color is opaque.
func (n *Named) Pick(src Source, alpha *float64) (ColorSpec, error) {
	if len(n.Swatches) == 0 {
		return ColorSpec{}, errors.New(errors.ErrCodeSetup, "palette has no swatches")
	}
	sw := n.Swatches[src.IntN(len(n.Swatches))]
	spec := ColorSpec{Hex: sw.Hex, Name: sw.Name, Alpha: 1}
	if alpha != nil {
		spec.Alpha = *alpha
	}
	if n.Jitter <= 0 {
		return spec, nil
	}

	col, err := colorful.Hex(sw.Hex)
	if err != nil {
		return ColorSpec{}, errors.Wrap(errors.ErrCodeSetup, err, "swatch %s", sw.Name)
	}
	h, c, l := col.Hcl()
	l += src.Range(-n.Jitter, n.Jitter)
	spec.Hex = colorful.Hcl(h, c, l).Clamped().Hex()
	return spec, nil
}

// Generated produces colors directly in HCL space.
type Generated struct {
	Chroma    [2]float64
	Lightness [2]float64
}

// NewGenerated returns a provider with moderate chroma and mid lightness.
func NewGenerated() *Generated {
	return &Generated{Chroma: [2]float64{0.2, 0.7}, Lightness: [2]float64{0.3, 0.85}}
}

// Pick draws hue, chroma and lightness in that order.
func (g *Generated) Pick(src Source, alpha *float64) (ColorSpec, error) {
	h := src.Range(0, 360)
	c := src.Range(g.Chroma[0], g.Chroma[1])
	l := src.Range(g.Lightness[0], g.Lightness[1])
	col := colorful.Hcl(h, c, l).Clamped()

	spec := ColorSpec{Hex: col.Hex(), Name: "hcl", Alpha: 1}
	if alpha != nil {
		spec.Alpha = *alpha
	}
	return spec, nil
}

// ByName returns the provider registered under name.
func ByName(name string) (Provider, error) {
	switch name {
	case "", "named":
		return NewNamed(), nil
	case "generated", "hcl":
		return NewGenerated(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown palette %q (want named or generated)", name)
}
