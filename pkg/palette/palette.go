// Package palette draws the colors of a run from the color stream.
//
// A [Provider] turns random draws into a [ColorSpec]. [Colors] asks the
// provider once per [Role], in role order, so the sequence of colors is a
// pure function of the color seed and the role list. The shape stream is
// never passed here.
package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/serpentine/pkg/errors"
)

// Source is the subset of a random stream a provider may draw from.
type Source interface {
	Range(min, max float64) float64
	IntN(n int) int
}

// ColorSpec is a resolved color with its display name and opacity.
type ColorSpec struct {
	Hex   string  `json:"hex"`
	Name  string  `json:"name"`
	Alpha float64 `json:"alpha"`
}

// Color parses the hex value.
func (c ColorSpec) Color() (colorful.Color, error) {
	col, err := colorful.Hex(c.Hex)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "color %q", c.Name)
	}
	return col, nil
}

// RGBA returns the color as straight-alpha components in [0, 1].
// An unparseable hex yields opaque black.
func (c ColorSpec) RGBA() (r, g, b, a float64) {
	col, err := c.Color()
	if err != nil {
		return 0, 0, 0, clamp01(c.Alpha)
	}
	col = col.Clamped()
	return col.R, col.G, col.B, clamp01(c.Alpha)
}

func (c ColorSpec) String() string {
	if c.Alpha >= 1 {
		return fmt.Sprintf("%s (%s)", c.Name, c.Hex)
	}
	return fmt.Sprintf("%s (%s, α=%.2f)", c.Name, c.Hex, c.Alpha)
}

// Role names one color slot of an image. Alpha, when set, overrides the
// provider's opacity.
type Role struct {
	Name  string   `json:"name" toml:"name"`
	Alpha *float64 `json:"alpha,omitempty" toml:"alpha"`
}

// Opaque returns a role whose alpha is forced to 1.
func Opaque(name string) Role {
	one := 1.0
	return Role{Name: name, Alpha: &one}
}

// Provider picks one color per call.
type Provider interface {
	Pick(src Source, alpha *float64) (ColorSpec, error)
}

// Colors draws one color per role from src, in order.
func Colors(src Source, p Provider, roles []Role) ([]ColorSpec, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeSetup, "no palette provider configured")
	}
	out := make([]ColorSpec, 0, len(roles))
	for _, role := range roles {
		if role.Alpha != nil {
			if err := errors.ValidateFraction("alpha of "+role.Name, *role.Alpha); err != nil {
				return nil, err
			}
		}
		c, err := p.Pick(src, role.Alpha)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSetup, err, "pick color for %s", role.Name)
		}
		out = append(out, c)
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return math.Max(0, math.Min(1, v))
}
