// Package testutil provides shared assertion and I/Q statistics helpers
// for tests.
package testutil

import (
	"math"
	"testing"

	"github.com/jimilinuxguy/tx-tools/iq"
)

// RequireNearly fails t if got and want differ by more than eps.
func RequireNearly(t *testing.T, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, math.Abs(got-want), eps)
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// DecodeStream decodes a raw interleaved u8 I/Q stream into real
// sample values.
func DecodeStream(data []byte) []float64 {
	out := make([]float64, len(data))
	for i, b := range data {
		out[i] = iq.DecodeSample(b)
	}

	return out
}

// MeanVar returns the sample mean and variance of values.
func MeanVar(values []float64) (mean, variance float64) {
	if len(values) == 0 {
		return 0, 0
	}

	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return mean, variance
}
