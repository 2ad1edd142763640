package render

import (
	"strings"

	"github.com/matzehuels/serpentine/pkg/errors"
)

// BlendMode is the pixel-combination rule used when new paint lands on
// existing paint.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendOverlay
	BlendScreen
	BlendMultiply
)

var blendNames = [...]string{
	BlendNormal:   "normal",
	BlendOverlay:  "overlay",
	BlendScreen:   "screen",
	BlendMultiply: "multiply",
}

// BlendModes lists every supported mode in declaration order.
func BlendModes() []BlendMode {
	return []BlendMode{BlendNormal, BlendOverlay, BlendScreen, BlendMultiply}
}

func (m BlendMode) String() string {
	if m < 0 || int(m) >= len(blendNames) {
		return "unknown"
	}
	return blendNames[m]
}

// Valid reports whether m is a known mode.
func (m BlendMode) Valid() bool {
	return m >= 0 && int(m) < len(blendNames)
}

// ParseBlendMode resolves a mode name. "source-over" is accepted as an
// alias for normal.
func ParseBlendMode(s string) (BlendMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == "source-over" {
		return BlendNormal, nil
	}
	for i, n := range blendNames {
		if n == name {
			return BlendMode(i), nil
		}
	}
	return BlendNormal, errors.New(errors.ErrCodeInvalidConfig, "unknown blend mode %q", s)
}

func (m BlendMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown blend mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *BlendMode) UnmarshalText(b []byte) error {
	v, err := ParseBlendMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
