package seed

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantRandom bool
		wantString string
	}{
		{"empty is sentinel", "", true, "random"},
		{"zero is sentinel", "0", true, "random"},
		{"whitespace is trimmed", "  42 ", false, "42"},
		{"number", "42", false, "42"},
		{"token", "blue-moon", false, "blue-moon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse(tt.input)
			if s.IsRandom() != tt.wantRandom {
				t.Errorf("Parse(%q).IsRandom() = %v, want %v", tt.input, s.IsRandom(), tt.wantRandom)
			}
			if s.String() != tt.wantString {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.input, s.String(), tt.wantString)
			}
		})
	}
}

func TestResolveNumeric(t *testing.T) {
	if got := Resolve(FromUint(42)); got != 42 {
		t.Errorf("Resolve(42) = %d, want 42", got)
	}
	if got := Resolve(Parse("18446744073709551615")); got != Concrete(^uint64(0)) {
		t.Errorf("Resolve(max uint64) = %d", got)
	}
}

func TestResolveTokenDeterministic(t *testing.T) {
	a := Resolve(Parse("blue-moon"))
	b := Resolve(Parse("blue-moon"))
	if a != b {
		t.Errorf("token resolution should be deterministic: %d != %d", a, b)
	}
	if a == Resolve(Parse("red-moon")) {
		t.Error("different tokens should resolve to different seeds")
	}
	if a == 0 {
		t.Error("token should never resolve to the sentinel")
	}
}

func TestResolveIdempotent(t *testing.T) {
	for _, s := range []Seed{FromUint(7), Parse("blue-moon"), Random()} {
		c := Resolve(s)
		if again := Resolve(c.Seed()); again != c {
			t.Errorf("Resolve(%d.Seed()) = %d, want %d", c, again, c)
		}
	}
}

func TestResolveSentinelUsesEntropy(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint64(0)) // rejected: zero
	_ = binary.Write(&buf, binary.LittleEndian, uint64(123456789))

	r := Resolver{Entropy: &buf}
	if got := r.Resolve(Random()); got != 123456789 {
		t.Errorf("Resolve(random) = %d, want 123456789", got)
	}
}

func TestResolveSentinelDiffers(t *testing.T) {
	seen := make(map[Concrete]bool)
	for i := 0; i < 16; i++ {
		c := Resolve(Random())
		if c == 0 {
			t.Fatal("sentinel resolved to zero")
		}
		if seen[c] {
			t.Fatalf("sentinel resolved to a repeated seed %d", c)
		}
		seen[c] = true
	}
}

func TestResolvePairIndependent(t *testing.T) {
	p := Resolver{}.ResolvePair(FromUint(1), FromUint(2))
	if p.Shape != 1 || p.Color != 2 {
		t.Errorf("ResolvePair = %+v, want {1 2}", p)
	}
}

func TestUnmarshalTOML(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantErr bool
	}{
		{"int", int64(42), "42", false},
		{"zero int", int64(0), "random", false},
		{"string", "blue-moon", "blue-moon", false},
		{"negative", int64(-1), "", true},
		{"float", 1.5, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Seed
			err := s.UnmarshalTOML(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalTOML(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && s.String() != tt.want {
				t.Errorf("UnmarshalTOML(%v) = %q, want %q", tt.input, s.String(), tt.want)
			}
		})
	}
}

func TestMarshalText(t *testing.T) {
	b, _ := Random().MarshalText()
	if string(b) != "0" {
		t.Errorf("sentinel MarshalText = %q, want \"0\"", b)
	}
	var s Seed
	if err := s.UnmarshalText([]byte("99")); err != nil || s.String() != "99" {
		t.Errorf("UnmarshalText(99) = %q, %v", s.String(), err)
	}
}
