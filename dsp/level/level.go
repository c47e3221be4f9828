// Package level converts user-supplied level specifications into linear
// amplitude scale factors.
//
// Level arguments are sign-overloaded: a negative value is read as an
// attenuation in dBFS, a positive value as a direct linear multiplier.
// For tone levels zero falls on the dB side (0 dB, unity gain), never
// "multiplier zero". This overloading mirrors the command-line surface
// and is intentional; callers should document it on their flags.
package level

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jimilinuxguy/tx-tools/dsp/core"
)

// Noise specifications are peak-to-peak and corrected so a dBFS figure
// matches the RMS convention used for tone levels: 2*sqrt(1/2 * 3/2).
var noisePPCorrection = 2 * math.Sqrt(0.5*1.5)

// Noise converts a noise level argument to a peak-to-peak amplitude.
// Negative arguments are dBFS, non-negative arguments are direct
// multipliers; the result always carries the RMS-to-peak correction.
func Noise(arg float64) float64 {
	if arg < 0 {
		arg = core.DBToLinear(arg)
	}

	return arg * noisePPCorrection
}

// Tone converts a tone level argument to a peak amplitude. Non-positive
// arguments are dBFS (0 means unity gain), positive arguments are direct
// multipliers.
func Tone(arg float64) float64 {
	if arg <= 0 {
		return core.DBToLinear(arg)
	}

	return arg
}

// ParseNum parses a number with an optional k/M/G scale suffix, as used
// for frequencies, sample rates and durations ("10M", "2.4G", "16k").
func ParseNum(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("level: empty number")
	}

	scale := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		scale = 1e3
		s = s[:len(s)-1]
	case 'm', 'M':
		scale = 1e6
		s = s[:len(s)-1]
	case 'g', 'G':
		scale = 1e9
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("level: invalid number %q: %w", s, err)
	}

	return v * scale, nil
}
