package rng

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestUint64Golden(t *testing.T) {
	s := New(42)
	want := []uint64{452767645461056360, 362443410837416317, 1732401738369221806}
	for i, w := range want {
		if got := s.Uint64(); got != w {
			t.Errorf("draw %d = %d, want %d", i, got, w)
		}
	}
	if s.Draws() != 3 {
		t.Errorf("Draws() = %d, want 3", s.Draws())
	}
}

func TestRangeGolden(t *testing.T) {
	s := New(42)
	if got := s.Float64(); got != 0.02454458324200115 {
		t.Errorf("Float64() = %v, want 0.02454458324200115", got)
	}
	if got := s.Range(10, 20); got != 10.196480966716491 {
		t.Errorf("Range(10, 20) = %v, want 10.196480966716491", got)
	}
}

func TestDeterministic(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 1000; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("draw %d differs: %d != %d", i, x, y)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a, b := New(1), New(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same > 0 {
		t.Errorf("%d identical draws between seeds 1 and 2", same)
	}
}

func TestRangeBounds(t *testing.T) {
	s := New(99)
	for i := 0; i < 10000; i++ {
		v := s.Range(0.6, 1.5*math.Pi)
		if v < 0.6 || v >= 1.5*math.Pi {
			t.Fatalf("Range out of bounds: %v", v)
		}
	}
}

func TestIntN(t *testing.T) {
	s := New(5)
	counts := make([]int, 4)
	for i := 0; i < 4000; i++ {
		n := s.IntN(4)
		if n < 0 || n >= 4 {
			t.Fatalf("IntN(4) = %d", n)
		}
		counts[n]++
	}
	for i, c := range counts {
		if c < 800 {
			t.Errorf("bucket %d underfilled: %d", i, c)
		}
	}
}

func TestStreamIndependence(t *testing.T) {
	// Interleaving color draws must not change shape outputs.
	shapeA, colorA := New(42), New(7)
	var seqA []float64
	for i := 0; i < 50; i++ {
		seqA = append(seqA, shapeA.Float64())
	}
	for i := 0; i < 30; i++ {
		colorA.Float64()
	}

	shapeB, colorB := New(42), New(7)
	for i := 0; i < 30; i++ {
		colorB.Float64()
	}
	var seqB []float64
	for i := 0; i < 50; i++ {
		seqB = append(seqB, shapeB.Float64())
		colorB.Float64()
	}

	for i := range seqA {
		if seqA[i] != seqB[i] {
			t.Fatalf("shape draw %d changed with interleaving: %v != %v", i, seqA[i], seqB[i])
		}
	}
}

func TestDerive(t *testing.T) {
	s := New(42)
	a := s.Derive(1)
	if s.Draws() != 0 {
		t.Error("Derive should not consume draws")
	}
	b := New(42).Derive(1)
	if a.Uint64() != b.Uint64() {
		t.Error("Derive should be deterministic")
	}
	c := New(42).Derive(2)
	d := New(42).Derive(1)
	if c.Uint64() == d.Uint64() {
		t.Error("different indices should give different sub-streams")
	}
	if New(42).Derive(1).Seed() == 42 {
		t.Error("sub-stream should not share the parent seed")
	}
}

func TestSource(t *testing.T) {
	var _ rand.Source = New(1)
	r := rand.New(New(3))
	if v := r.IntN(10); v < 0 || v >= 10 {
		t.Errorf("rand.New(stream).IntN(10) = %d", v)
	}
}
