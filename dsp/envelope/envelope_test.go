package envelope

import "testing"

func TestRampInMonotone(t *testing.T) {
	const total = 1000
	prev := -1.0
	for i := uint64(0); i < DefaultRampLen; i++ {
		v := Ramp(i, total, DefaultRampLen)
		if v < prev {
			t.Fatalf("ramp-in not monotone at %d: %v < %v", i, v, prev)
		}
		if v < 0 || v > 1 {
			t.Fatalf("ramp out of range at %d: %v", i, v)
		}
		prev = v
	}
}

func TestRampOutMonotone(t *testing.T) {
	const total = 1000
	prev := 2.0
	for i := uint64(total - DefaultRampLen); i < total; i++ {
		v := Ramp(i, total, DefaultRampLen)
		if v > prev {
			t.Fatalf("ramp-out not monotone at %d: %v > %v", i, v, prev)
		}
		prev = v
	}
}

func TestSteadyMiddleIsUnity(t *testing.T) {
	const total = 1000
	for i := uint64(DefaultRampLen); i <= total-DefaultRampLen; i++ {
		if v := Ramp(i, total, DefaultRampLen); v != 1 {
			t.Fatalf("steady sample %d = %v, want 1", i, v)
		}
	}
}

func TestRampEdges(t *testing.T) {
	if v := Ramp(0, 1000, DefaultRampLen); v != 0 {
		t.Fatalf("first sample = %v, want 0", v)
	}
	if v := Ramp(999, 1000, DefaultRampLen); v != 0.01 {
		t.Fatalf("last sample = %v, want 0.01", v)
	}
}

func TestOverlappingRampsMultiply(t *testing.T) {
	// total < 2*rampLen: both ramps contribute at once. For t=50 of a
	// 120-sample tone with 100-sample ramps: in=0.5, out=0.7.
	if v := Ramp(50, 120, 100); v != 0.5*0.7 {
		t.Fatalf("overlap envelope = %v, want %v", v, 0.5*0.7)
	}
}

func TestZeroRampLen(t *testing.T) {
	if v := Ramp(0, 10, 0); v != 1 {
		t.Fatalf("zero ramp length = %v, want 1", v)
	}
}
