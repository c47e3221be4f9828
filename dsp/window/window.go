// Package window generates the analysis windows used when inspecting
// generated I/Q captures.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeFlatTop
)

var cosineCoeffs = map[Type][]float64{
	TypeHann:     {0.5, -0.5},
	TypeHamming:  {0.54, -0.46},
	TypeBlackman: {0.42, -0.5, 0.08},
	TypeFlatTop:  {0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368},
}

var namesByType = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeFlatTop:     "flat-top",
}

// FromName resolves a window name as used on the command line.
func FromName(name string) (Type, error) {
	for t, n := range namesByType {
		if n == name {
			return t, nil
		}
	}

	return TypeRectangular, fmt.Errorf("window: unknown window %q", name)
}

// Name returns the command-line name of t.
func (t Type) Name() string {
	if n, ok := namesByType[t]; ok {
		return n
	}

	return "unknown"
}

// Names lists the available window names.
func Names() []string {
	return []string{"rectangular", "hann", "hamming", "blackman", "flat-top"}
}

// Generate returns symmetric window coefficients of the given length.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = eval(t, samplePosition(i, length))
	}

	return out
}

// Apply multiplies buf in-place by coeffs.
func Apply(buf, coeffs []float64) error {
	if len(buf) != len(coeffs) {
		return fmt.Errorf("window: length mismatch: %d vs %d", len(buf), len(coeffs))
	}

	vecmath.MulBlockInPlace(buf, coeffs)

	return nil
}

// CoherentGain returns the mean of the coefficients, the factor by
// which a windowed tone's spectral peak is scaled.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs))
}

func eval(t Type, x float64) float64 {
	if t == TypeRectangular {
		return 1
	}

	coeffs, ok := cosineCoeffs[t]
	if !ok {
		return 1
	}

	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}

	return float64(n) / float64(size-1)
}
