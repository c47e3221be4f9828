// Package spectrum converts complex FFT output into magnitude and power
// spectra and locates spectral peaks.
package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	n := len(in)
	out := make([]float64, n)
	scratch := make([]float64, 2*n)
	re, im := scratch[:n], scratch[n:]

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)

	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	n := len(in)
	out := make([]float64, n)
	scratch := make([]float64, 2*n)
	re, im := scratch[:n], scratch[n:]

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)

	return out
}

// Peak describes an interpolated spectral peak.
type Peak struct {
	// Bin is the fractional bin position after quadratic interpolation.
	Bin float64
	// Magnitude is the interpolated peak magnitude.
	Magnitude float64
}

// PeakBin finds the largest-magnitude bin and refines its position by
// fitting a parabola through the bin and its two neighbors (wrapping at
// the spectrum edges, as FFT bins do).
func PeakBin(mags []float64) Peak {
	if len(mags) == 0 {
		return Peak{}
	}

	k := 0
	for i, m := range mags {
		if m > mags[k] {
			k = i
		}
	}

	n := len(mags)
	a := mags[(k-1+n)%n]
	b := mags[k]
	c := mags[(k+1)%n]

	denom := a - 2*b + c
	if denom == 0 {
		return Peak{Bin: float64(k), Magnitude: b}
	}

	d := 0.5 * (a - c) / denom
	if math.Abs(d) > 1 {
		d = 0
	}

	return Peak{
		Bin:       float64(k) + d,
		Magnitude: b - 0.25*(a-c)*d,
	}
}
