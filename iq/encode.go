// Package iq implements the raw 8-bit unsigned I/Q wire format and the
// block-buffered output sink.
//
// The stream is interleaved unsigned bytes, I0 Q0 I1 Q1 ..., with no
// header or framing, interpretable directly as u8 I/Q.
package iq

import "math"

// EncodeSample quantizes a real sample, nominally in [-1, 1], to an
// unsigned byte. Out-of-range values saturate to 0 or 255.
func EncodeSample(v float64) byte {
	n := int(math.Round((v + 1.0) * 127.5))
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}

	return byte(n)
}

// DecodeSample maps an unsigned byte back to the real value at the
// center of its quantization step.
func DecodeSample(b byte) float64 {
	return float64(b)/127.5 - 1.0
}
