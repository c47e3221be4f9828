package window

import (
	"testing"

	"github.com/jimilinuxguy/tx-tools/dsp/core"
)

func TestHannEndpointsAndPeak(t *testing.T) {
	w := Generate(TypeHann, 65)

	if !core.NearlyEqual(w[0], 0, 1e-12) || !core.NearlyEqual(w[64], 0, 1e-12) {
		t.Fatalf("hann endpoints = %v, %v, want 0", w[0], w[64])
	}
	if !core.NearlyEqual(w[32], 1, 1e-12) {
		t.Fatalf("hann center = %v, want 1", w[32])
	}
}

func TestRectangular(t *testing.T) {
	for i, v := range Generate(TypeRectangular, 16) {
		if v != 1 {
			t.Fatalf("rectangular[%d] = %v, want 1", i, v)
		}
	}
}

func TestSymmetry(t *testing.T) {
	for _, typ := range []Type{TypeHann, TypeHamming, TypeBlackman, TypeFlatTop} {
		w := Generate(typ, 64)
		for i := range w {
			j := len(w) - 1 - i
			if !core.NearlyEqual(w[i], w[j], 1e-12) {
				t.Fatalf("%s not symmetric at %d: %v vs %v", typ.Name(), i, w[i], w[j])
			}
		}
	}
}

func TestApply(t *testing.T) {
	buf := []float64{2, 2, 2, 2}
	coeffs := []float64{0, 0.5, 1, 0.25}

	if err := Apply(buf, coeffs); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	want := []float64{0, 1, 2, 0.5}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	if err := Apply(buf, coeffs[:2]); err == nil {
		t.Fatal("length mismatch should error")
	}
}

func TestCoherentGain(t *testing.T) {
	if g := CoherentGain(Generate(TypeRectangular, 128)); g != 1 {
		t.Fatalf("rectangular coherent gain = %v, want 1", g)
	}

	g := CoherentGain(Generate(TypeHann, 4096))
	if !core.NearlyEqual(g, 0.5, 1e-3) {
		t.Fatalf("hann coherent gain = %v, want ~0.5", g)
	}
}

func TestFromName(t *testing.T) {
	for _, name := range Names() {
		typ, err := FromName(name)
		if err != nil {
			t.Fatalf("FromName(%q) error = %v", name, err)
		}
		if typ.Name() != name {
			t.Fatalf("round trip %q -> %q", name, typ.Name())
		}
	}

	if _, err := FromName("kaiser"); err == nil {
		t.Fatal("unknown window should error")
	}
}
