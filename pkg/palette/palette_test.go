package palette

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/serpentine/pkg/errors"
	"github.com/matzehuels/serpentine/pkg/rng"
)

func threeRoles() []Role {
	one := 1.0
	return []Role{
		{Name: "background"},
		{Name: "chain 1", Alpha: &one},
		{Name: "chain 2", Alpha: &one},
	}
}

func TestDefaultSwatchesParse(t *testing.T) {
	seen := map[string]bool{}
	for _, sw := range DefaultSwatches {
		if _, err := colorful.Hex(sw.Hex); err != nil {
			t.Errorf("swatch %s: %v", sw.Name, err)
		}
		if seen[sw.Name] {
			t.Errorf("duplicate swatch name %s", sw.Name)
		}
		seen[sw.Name] = true
	}
}

func TestColorsDeterministic(t *testing.T) {
	for _, p := range []Provider{NewNamed(), &Named{Swatches: DefaultSwatches, Jitter: 0.1}, NewGenerated()} {
		a, err := Colors(rng.New(7), p, threeRoles())
		if err != nil {
			t.Fatalf("Colors() error: %v", err)
		}
		b, err := Colors(rng.New(7), p, threeRoles())
		if err != nil {
			t.Fatalf("Colors() error: %v", err)
		}
		if len(a) != 3 {
			t.Fatalf("len = %d, want 3", len(a))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%T role %d: %+v != %+v", p, i, a[i], b[i])
			}
		}
	}
}

func TestColorsConsumesOnlyColorStream(t *testing.T) {
	shape := rng.New(42)
	color := rng.New(99)
	want := rng.New(42).Uint64()

	if _, err := Colors(color, NewNamed(), threeRoles()); err != nil {
		t.Fatal(err)
	}
	if shape.Draws() != 0 {
		t.Errorf("shape stream consumed %d draws", shape.Draws())
	}
	if got := shape.Uint64(); got != want {
		t.Errorf("shape stream output changed: %d != %d", got, want)
	}
	if color.Draws() != 3 {
		t.Errorf("color stream draws = %d, want 3", color.Draws())
	}
}

func TestColorsAlpha(t *testing.T) {
	half := 0.5
	got, err := Colors(rng.New(1), NewNamed(), []Role{{Name: "a"}, {Name: "b", Alpha: &half}, Opaque("c")})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 0.5, 1}
	for i, c := range got {
		if c.Alpha != want[i] {
			t.Errorf("role %d alpha = %v, want %v", i, c.Alpha, want[i])
		}
	}
}

func TestColorsErrors(t *testing.T) {
	tests := []struct {
		name  string
		p     Provider
		roles []Role
		code  errors.Code
	}{
		{"nil provider", nil, threeRoles(), errors.ErrCodeSetup},
		{"empty table", &Named{}, threeRoles(), errors.ErrCodeSetup},
		{"alpha out of range", NewNamed(), []Role{{Name: "x", Alpha: ptr(1.5)}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Colors(rng.New(1), tt.p, tt.roles)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestColorSpecRGBA(t *testing.T) {
	r, g, b, a := ColorSpec{Hex: "#ff0000", Alpha: 0.25}.RGBA()
	if r != 1 || g != 0 || b != 0 || a != 0.25 {
		t.Errorf("RGBA = %v %v %v %v", r, g, b, a)
	}
	if _, err := (ColorSpec{Hex: "nope"}).Color(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad hex error = %v", err)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "named", "generated", "hcl"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) error: %v", name, err)
		}
	}
	if _, err := ByName("rainbow"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ByName(rainbow) error = %v", err)
	}
}

func ptr(v float64) *float64 { return &v }
