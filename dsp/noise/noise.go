// Package noise provides a deterministic uniform disturbance source for
// I/Q synthesis.
package noise

import "math/rand"

// Source draws independent in-phase/quadrature noise samples from a
// seeded pseudo-random generator. Identical seed and call sequence
// reproduce identical output.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a noise source seeded with seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Sample returns an (x, y) pair drawn independently and uniformly from
// [-amplitude/2, amplitude/2).
func (s *Source) Sample(amplitude float64) (x, y float64) {
	x = (s.rng.Float64() - 0.5) * amplitude
	y = (s.rng.Float64() - 0.5) * amplitude

	return x, y
}
