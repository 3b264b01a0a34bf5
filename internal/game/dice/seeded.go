package dice

import (
	"math/rand/v2"
	"sync"
)

// countingPCG counts raw 64-bit draws so a sequence can be resumed by replay.
type countingPCG struct {
	pcg   *rand.PCG
	draws uint64
}

func (c *countingPCG) Uint64() uint64 {
	c.draws++
	return c.pcg.Uint64()
}

// Seeded is a deterministic Source. Two Seeded values with the same seed
// and draw count produce the same future sequence.
type Seeded struct {
	mu   sync.Mutex
	seed int64
	src  *countingPCG
	rng  *rand.Rand
}

// NewSeeded returns a Seeded source at the start of seed's sequence.
func NewSeeded(seed int64) *Seeded {
	src := &countingPCG{pcg: rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)}
	return &Seeded{seed: seed, src: src, rng: rand.New(src)}
}

// RestoreSeeded returns a Seeded source positioned after draws raw draws.
//
// Postcondition: Draws() == draws.
func RestoreSeeded(seed int64, draws uint64) *Seeded {
	s := NewSeeded(seed)
	for s.src.draws < draws {
		s.src.Uint64()
	}
	return s
}

// Intn returns a deterministic int in [0, n).
//
// Precondition: n > 0.
func (s *Seeded) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// Seed returns the seed the sequence started from.
func (s *Seeded) Seed() int64 {
	return s.seed
}

// Draws returns the number of raw draws consumed so far.
func (s *Seeded) Draws() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.draws
}
