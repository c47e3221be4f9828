// Package envelope computes the linear ramp applied at tone boundaries
// to suppress clicks.
package envelope

// DefaultRampLen is the boundary ramp length in samples.
const DefaultRampLen = 100

// Ramp returns the envelope multiplier for sample index t of a tone
// that is total samples long: a linear ramp from 0 over the first
// rampLen samples, 1 in the steady middle, and a linear ramp back to 0
// over the last rampLen samples.
//
// When total < 2*rampLen the two ramps overlap and are still computed
// independently and multiplied, so very short tones get a non-flat,
// possibly non-monotonic envelope. That behavior is deliberate and must
// not be normalized away.
func Ramp(t, total, rampLen uint64) float64 {
	if rampLen == 0 {
		return 1
	}

	in := 1.0
	if t < rampLen {
		in = float64(t) / float64(rampLen)
	}

	out := 1.0
	if t+rampLen > total {
		out = float64(total-t) / float64(rampLen)
	}

	return in * out
}
