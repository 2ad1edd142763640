// Package seed turns user-supplied seed values into concrete stream seeds.
//
// A [Seed] is what the user asked for: a number, an arbitrary string token,
// or nothing at all. The zero value (and the token "0") is the random
// sentinel: it resolves to a freshly drawn [Concrete] seed on every run, which
// is then reported so the image can be reproduced later.
//
// Resolution rules:
//   - sentinel: 64 bits from crypto/rand, never zero
//   - decimal token: the number itself ("42" resolves to 42)
//   - any other token: its xxHash64 digest ("blue-moon" is stable forever)
//
// Resolving a concrete seed is idempotent: Resolve(c.Seed()) == c.
package seed

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Seed is a requested seed. The zero value requests a random seed.
type Seed struct {
	token string
}

// Random returns the sentinel seed.
func Random() Seed { return Seed{} }

// FromUint returns a numeric seed. Zero is the sentinel.
func FromUint(n uint64) Seed {
	if n == 0 {
		return Seed{}
	}
	return Seed{token: strconv.FormatUint(n, 10)}
}

// Parse builds a seed from user text. Empty input and "0" yield the sentinel.
func Parse(s string) Seed {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return Seed{}
	}
	return Seed{token: s}
}

// IsRandom reports whether s is the sentinel.
func (s Seed) IsRandom() bool { return s.token == "" }

// String returns the token, or "random" for the sentinel.
func (s Seed) String() string {
	if s.IsRandom() {
		return "random"
	}
	return s.token
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Seed) UnmarshalText(b []byte) error {
	*s = Parse(string(b))
	return nil
}

// MarshalText implements encoding.TextMarshaler. The sentinel encodes as "0".
func (s Seed) MarshalText() ([]byte, error) {
	if s.IsRandom() {
		return []byte("0"), nil
	}
	return []byte(s.token), nil
}

// UnmarshalTOML accepts both integer and string TOML values.
func (s *Seed) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		if x < 0 {
			return fmt.Errorf("seed must not be negative: %d", x)
		}
		*s = FromUint(uint64(x))
	case string:
		*s = Parse(x)
	default:
		return fmt.Errorf("seed must be an integer or a string, got %T", v)
	}
	return nil
}

// Concrete is a resolved seed used to initialize a random stream.
type Concrete uint64

// String returns the decimal form, which Parse maps back to c.
func (c Concrete) String() string { return strconv.FormatUint(uint64(c), 10) }

// Seed returns the requested-seed form of c.
func (c Concrete) Seed() Seed { return FromUint(uint64(c)) }

// Resolver resolves seeds. Entropy is read for sentinel seeds; nil means
// crypto/rand.
type Resolver struct {
	Entropy io.Reader
}

// Resolve returns the concrete seed for s. It never fails: if the entropy
// source is exhausted or broken, crypto/rand is used instead.
func (r Resolver) Resolve(s Seed) Concrete {
	if !s.IsRandom() {
		return fromToken(s.token)
	}
	for {
		if c := r.draw(); c != 0 {
			return c
		}
	}
}

func (r Resolver) draw() Concrete {
	var buf [8]byte
	src := r.Entropy
	if src == nil {
		src = rand.Reader
	}
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		// crypto/rand.Read does not return errors on supported platforms.
		_, _ = rand.Read(buf[:])
	}
	return Concrete(binary.LittleEndian.Uint64(buf[:]))
}

// Resolve resolves s with the default crypto/rand resolver.
func Resolve(s Seed) Concrete {
	return Resolver{}.Resolve(s)
}

func fromToken(token string) Concrete {
	if n, err := strconv.ParseUint(token, 10, 64); err == nil && n != 0 {
		return Concrete(n)
	}
	h := xxhash.Sum64String(token)
	if h == 0 {
		h = 1
	}
	return Concrete(h)
}

// Pair holds the two independently resolved seeds of one run.
type Pair struct {
	Shape Concrete `json:"shape"`
	Color Concrete `json:"color"`
}

// ResolvePair resolves the shape and color seeds independently.
func (r Resolver) ResolvePair(shape, color Seed) Pair {
	return Pair{Shape: r.Resolve(shape), Color: r.Resolve(color)}
}
