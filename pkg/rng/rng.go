// Package rng provides isolated, seedable pseudo-random streams.
//
// Every [Stream] owns its state; there is no package-level generator. The
// shape and color streams of a run are two separate values, so consuming
// draws from one can never shift the other.
//
// # Algorithm
//
// Outputs must be reproducible bit-for-bit across platforms and
// implementations, so the generator is spelled out here rather than
// delegated to a library default:
//
//   - State: 128-bit linear congruential generator (hi, lo), advanced as
//     state = state*M + I (mod 2^128) with
//     M = 0x2360ed051fc65da4_4385df649fccf645 and
//     I = 0x5851f42d4c957f2d_14057b7ef767814f.
//   - Output: DXSM permutation of the advanced state:
//     h ^= h>>32; h *= 0xda942042e4dd58b5; h ^= h>>48; h *= lo|1.
//   - Seeding: New(s) sets hi = s, lo = s ^ 0xdeadbeef.
//   - Floats: Float64 = (Uint64() >> 11) / 2^53, in [0, 1).
//   - Ranges: Range(a, b) = a + Float64()*(b-a), in [a, b).
//
// Stream implements math/rand/v2's Source, so rand.New(stream) can be used
// where reproducibility across implementations does not matter.
package rng

import (
	"math/bits"

	"github.com/matzehuels/serpentine/pkg/seed"
)

const (
	mulHi = 0x2360ed051fc65da4
	mulLo = 0x4385df649fccf645
	incHi = 0x5851f42d4c957f2d
	incLo = 0x14057b7ef767814f

	dxsmMul  = 0xda942042e4dd58b5
	seedSalt = 0xdeadbeef
	golden   = 0x9e3779b97f4a7c15
)

// Stream is a deterministic pseudo-random source. It is not safe for
// concurrent use.
type Stream struct {
	hi, lo uint64
	seed   seed.Concrete
	draws  uint64
}

// New returns a stream seeded with s.
func New(s seed.Concrete) *Stream {
	return &Stream{
		hi:   uint64(s),
		lo:   uint64(s) ^ seedSalt,
		seed: s,
	}
}

// Seed returns the concrete seed the stream was created with.
func (s *Stream) Seed() seed.Concrete { return s.seed }

// Draws returns the number of 64-bit values consumed so far.
func (s *Stream) Draws() uint64 { return s.draws }

// Uint64 returns the next raw 64-bit output.
func (s *Stream) Uint64() uint64 {
	// state = state*M + I mod 2^128
	hi, lo := bits.Mul64(s.lo, mulLo)
	hi += s.hi*mulLo + s.lo*mulHi
	lo, c := bits.Add64(lo, incLo, 0)
	hi, _ = bits.Add64(hi, incHi, c)
	s.hi, s.lo = hi, lo
	s.draws++

	hi ^= hi >> 32
	hi *= dxsmMul
	hi ^= hi >> 48
	hi *= lo | 1
	return hi
}

// Float64 returns a uniform value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// Range returns a uniform value in [min, max).
func (s *Stream) Range(min, max float64) float64 {
	// The conversion keeps the compiler from fusing into an FMA, which would
	// change the low bits on some architectures.
	return min + float64(s.Float64()*(max-min))
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN with non-positive n")
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Derive returns an independent sub-stream identified by index. Deriving does
// not consume draws from s, and the same (seed, index) always yields the same
// sub-stream.
func (s *Stream) Derive(index uint64) *Stream {
	return New(seed.Concrete(splitmix64(uint64(s.seed) ^ (index+1)*golden)))
}

// splitmix64 is the finalizer from Steele, Lea and Flood's SplitMix64.
func splitmix64(x uint64) uint64 {
	x += golden
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
