// Package dice supplies the reproducible randomness behind hazard checks.
package dice

import (
	"math"
	"math/rand/v2"
)

// Source yields uniform ints for chance checks. Implementations must be
// safe for concurrent use.
type Source interface {
	// Intn returns an int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// NewSeed picks a seed for a new game from the runtime's random generator.
//
// Postcondition: 1 <= seed <= math.MaxInt32.
func NewSeed() int64 {
	return rand.Int64N(math.MaxInt32) + 1
}
