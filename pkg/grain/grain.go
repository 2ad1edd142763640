// Package grain adds film-grain noise to a finished raster.
//
// Noise is drawn from a caller-supplied *rand.Rand, so grain is as
// reproducible as the stream behind it and never touches the streams used
// for geometry or color.
package grain

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/serpentine/pkg/errors"
)

// Style selects how noise is applied to each pixel.
type Style int

const (
	// Parallel adds the same offset to all three channels.
	Parallel Style = iota
	// Colorful offsets each channel independently.
	Colorful
	// Tinted pushes pixels along the tint color.
	Tinted
	// Inverted mixes pixels toward their inverse.
	Inverted
)

var styleNames = [...]string{
	Parallel: "parallel",
	Colorful: "colorful",
	Tinted:   "tinted",
	Inverted: "inverted",
}

var styleAliases = map[string]Style{
	"colorfull": Colorful,
	"red":       Tinted,
	"invert":    Inverted,
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "unknown"
	}
	return styleNames[s]
}

// Styles lists the canonical style names.
func Styles() []string { return append([]string(nil), styleNames[:]...) }

// ParseStyle resolves a style name or one of its aliases.
func ParseStyle(name string) (Style, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range styleNames {
		if s == n {
			return Style(i), nil
		}
	}
	if s, ok := styleAliases[n]; ok {
		return s, nil
	}
	return Parallel, errors.New(errors.ErrCodeInvalidConfig, "unknown grain style %q", name)
}

func (s Style) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Style) UnmarshalText(b []byte) error {
	v, err := ParseStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Options tune the effect.
type Options struct {
	Style Style
	// Amount is the maximum offset as a fraction of full scale.
	Amount float64
	// Density is the probability that a grain cell receives noise.
	Density float64
	// Size is the edge length of a grain cell in pixels.
	Size int
	// Tint is the direction Tinted noise pushes in. Defaults to red.
	Tint string
}

// DefaultOptions returns the settings used by the presets.
func DefaultOptions(style Style) Options {
	return Options{Style: style, Amount: 0.08, Density: 1, Size: 1, Tint: "#ff0000"}
}

// Validate checks the numeric ranges.
func (o Options) Validate() error {
	if o.Style < 0 || int(o.Style) >= len(styleNames) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown grain style %d", int(o.Style))
	}
	if err := errors.ValidateFraction("grain amount", o.Amount); err != nil {
		return err
	}
	if err := errors.ValidateFraction("grain density", o.Density); err != nil {
		return err
	}
	if o.Size < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "grain size must be at least 1, got %d", o.Size)
	}
	if o.Style == Tinted {
		if _, err := colorful.Hex(o.Tint); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "grain tint %q", o.Tint)
		}
	}
	return nil
}

// Buffer is an RGBA pixel buffer, 4 bytes per pixel in row order.
type Buffer interface {
	Width() int
	Height() int
	Data() []uint8
}

// Apply adds grain to buf in place. Alpha is left untouched.
func Apply(buf Buffer, r *rand.Rand, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if r == nil {
		return errors.New(errors.ErrCodeSetup, "grain needs a random source")
	}
	w, h, data := buf.Width(), buf.Height(), buf.Data()
	if len(data) < w*h*4 {
		return errors.New(errors.ErrCodeInternal, "pixel buffer too short: %d < %d", len(data), w*h*4)
	}

	var tint [3]float64
	if opts.Style == Tinted {
		c, _ := colorful.Hex(opts.Tint)
		tint = [3]float64{c.R, c.G, c.B}
	}

	amt := opts.Amount * 255
	for cy := 0; cy < h; cy += opts.Size {
		for cx := 0; cx < w; cx += opts.Size {
			if opts.Density < 1 && r.Float64() >= opts.Density {
				continue
			}
			var n [3]float64
			switch opts.Style {
			case Parallel, Tinted, Inverted:
				v := (r.Float64()*2 - 1) * amt
				n = [3]float64{v, v, v}
			case Colorful:
				for i := range n {
					n[i] = (r.Float64()*2 - 1) * amt
				}
			}
			fillCell(data, w, h, cx, cy, opts.Size, opts.Style, n, tint)
		}
	}
	return nil
}

func fillCell(data []uint8, w, h, cx, cy, size int, style Style, n, tint [3]float64) {
	for y := cy; y < min(cy+size, h); y++ {
		for x := cx; x < min(cx+size, w); x++ {
			i := (y*w + x) * 4
			for ch := 0; ch < 3; ch++ {
				p := float64(data[i+ch])
				switch style {
				case Tinted:
					p += n[ch] * tint[ch]
				case Inverted:
					p += (255 - 2*p) * math.Abs(n[ch]) / 255
				default:
					p += n[ch]
				}
				data[i+ch] = clampByte(p)
			}
		}
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
