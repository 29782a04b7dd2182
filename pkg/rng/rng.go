// Package rng provides the seeded pseudo-random stream used for
// reproducible stipple placement.
//
// The generator is Mulberry32: a 32-bit state advanced by a Weyl
// increment and scrambled with two xor-shift-multiply rounds. It is small,
// fast and bit-for-bit reproducible across platforms, which is the only
// property the initializer needs from it. It is not suitable for anything
// security related.
package rng

// golden is the Weyl sequence increment.
const golden uint32 = 0x6D2B79F5

// Mulberry32 is a seeded stream of uniform values. The zero value is a
// valid stream seeded with 0. A Mulberry32 is not safe for concurrent use.
type Mulberry32 struct {
	state uint32
}

// New returns a stream seeded with the low 32 bits of seed.
// Negative seeds wrap the same way a two's complement int32 would.
func New(seed int64) *Mulberry32 {
	return &Mulberry32{state: uint32(seed)}
}

// Seed resets the stream to the given seed.
func (m *Mulberry32) Seed(seed int64) {
	m.state = uint32(seed)
}

// Uint32 returns the next 32-bit value of the stream.
func (m *Mulberry32) Uint32() uint32 {
	m.state += golden
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return t ^ t>>14
}

// Float64 returns the next value of the stream in [0, 1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / 4294967296
}

// Uint64 combines two consecutive draws, high word first, so the stream
// can back a math/rand/v2 Rand.
func (m *Mulberry32) Uint64() uint64 {
	hi := uint64(m.Uint32())
	return hi<<32 | uint64(m.Uint32())
}
