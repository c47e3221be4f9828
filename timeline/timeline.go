// Package timeline models the ordered sequence of timed tones that the
// synthesis engine renders, and parses the textual code describing it.
package timeline

// Tone is one timeline event: synthesize Hz for Us microseconds at DB
// dBFS. A Tone with Us == 0 is the timeline terminator and is never
// synthesized.
type Tone struct {
	Hz float64
	Us uint64
	DB int
}

// Terminator reports whether t is the end-of-timeline sentinel.
func (t Tone) Terminator() bool {
	return t.Us == 0
}

// Timeline is a finite ordered tone sequence ending in a terminator.
// It is immutable once constructed; the engine reads it front to back
// exactly once.
type Timeline []Tone

// Events returns the number of synthesizable (non-terminator) tones.
func (tl Timeline) Events() int {
	n := 0
	for _, t := range tl {
		if t.Terminator() {
			break
		}
		n++
	}

	return n
}

// Duration returns the total timeline duration in microseconds.
func (tl Timeline) Duration() uint64 {
	var us uint64
	for _, t := range tl {
		if t.Terminator() {
			break
		}
		us += t.Us
	}

	return us
}
