package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every draw, so two sessions with the same seed
// and the same inputs stay in lockstep.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a random integer in [0, n).
func (r *RNG) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Between returns a random integer in [lo, hi].
func (r *RNG) Between(lo, hi int) int {
	if hi <= lo {
		r.pos++
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Chance returns true with the given percent probability.
func (r *RNG) Chance(percent int) bool {
	return r.Intn(100) < percent
}

// Float64 returns a random float in [0, 1).
func (r *RNG) Float64() float64 {
	r.pos++
	return r.src.Float64()
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
