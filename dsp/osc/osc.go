// Package osc provides a lookup-table complex oscillator.
//
// Tables hold one full period of a unit-amplitude complex sinusoid and
// are indexed modulo their length, so repeated sample lookups cost one
// array read instead of a trigonometric evaluation. Tables are built
// once per (frequency, sample rate) key and cached for the lifetime of
// a synthesis run.
package osc

import "math"

// Osc is a precomputed single-frequency complex oscillator.
type Osc struct {
	i, q []float64
}

// I returns the in-phase component at sample index t, in [-1, 1].
func (o *Osc) I(t uint64) float64 {
	return o.i[t%uint64(len(o.i))]
}

// Q returns the quadrature component at sample index t, in [-1, 1].
// Negative frequencies yield the conjugate rotation: Q is sign-inverted
// relative to the positive frequency of equal magnitude.
func (o *Osc) Q(t uint64) float64 {
	return o.q[t%uint64(len(o.q))]
}

// Len returns the table period in samples.
func (o *Osc) Len() int {
	return len(o.i)
}

type key struct {
	hz   int64
	rate int64
}

// Cache maps (frequency, sample rate) keys, rounded to integer Hz, to
// built oscillator tables. It is owned by a single synthesis run and is
// not safe for concurrent use.
type Cache struct {
	tables map[key]*Osc
}

// NewCache creates an empty oscillator cache.
func NewCache() *Cache {
	return &Cache{tables: make(map[key]*Osc)}
}

// Get returns the oscillator for freqHz at sampleRate, building the
// table on first use. Repeated calls with the same rounded key return
// the same table.
func (c *Cache) Get(freqHz, sampleRate float64) *Osc {
	k := key{hz: int64(math.Round(freqHz)), rate: int64(math.Round(sampleRate))}
	if o, ok := c.tables[k]; ok {
		return o
	}

	o := build(k.hz, k.rate)
	c.tables[k] = o

	return o
}

// Size returns the number of cached tables.
func (c *Cache) Size() int {
	return len(c.tables)
}

// build synthesizes one period of the complex sinusoid. The period is
// rate/gcd(|hz|, rate) samples so the table end wraps phase-continuously
// to the start.
func build(hz, rate int64) *Osc {
	if rate <= 0 || hz == 0 {
		return &Osc{i: []float64{1}, q: []float64{0}}
	}

	a := hz
	if a < 0 {
		a = -a
	}
	n := rate / gcd(a, rate)

	o := &Osc{
		i: make([]float64, n),
		q: make([]float64, n),
	}

	step := 2 * math.Pi * float64(hz) / float64(rate)
	for t := int64(0); t < n; t++ {
		s, cos := math.Sincos(step * float64(t))
		o.i[t] = cos
		o.q[t] = s
	}

	return o
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
