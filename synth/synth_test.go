package synth_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimilinuxguy/tx-tools/dsp/spectrum"
	"github.com/jimilinuxguy/tx-tools/iq"
	"github.com/jimilinuxguy/tx-tools/synth"
	"github.com/jimilinuxguy/tx-tools/timeline"
)

// pairSink records emitted sample pairs and can fire a callback per
// pair, which tests use to flip the cancellation flag mid-tone.
type pairSink struct {
	pairs  [][2]byte
	onPut  func()
	failAt int
}

func (s *pairSink) Put(i, q byte) error {
	if s.failAt > 0 && len(s.pairs)+1 >= s.failAt {
		return errors.New("sink failed")
	}
	s.pairs = append(s.pairs, [2]byte{i, q})
	if s.onPut != nil {
		s.onPut()
	}
	return nil
}

func mustParse(t *testing.T, code string) timeline.Timeline {
	t.Helper()
	tl, err := timeline.Parse(code)
	require.NoError(t, err)
	return tl
}

func TestSampleCountExact(t *testing.T) {
	cfg := synth.DefaultConfig()
	e, err := synth.New(cfg, nil)
	require.NoError(t, err)

	sink := &pairSink{}
	stats, err := e.Run(mustParse(t, "(1000)1000"), sink)
	require.NoError(t, err)

	// 1000 us at 1 MHz: exactly 1000 sample pairs.
	assert.Equal(t, uint64(1000), stats.Samples)
	assert.Len(t, sink.pairs, 1000)
	assert.Equal(t, 1, stats.Tones)
}

func TestEnvelopeRampsBoundaries(t *testing.T) {
	cfg := synth.DefaultConfig()
	cfg.NoiseSignal = 0
	e, err := synth.New(cfg, nil)
	require.NoError(t, err)

	sink := &pairSink{}
	_, err = e.Run(mustParse(t, "(1000)1000"), sink)
	require.NoError(t, err)
	require.Len(t, sink.pairs, 1000)

	dev := func(lo, hi int) float64 {
		max := 0.0
		for _, p := range sink.pairs[lo:hi] {
			for _, b := range p {
				if d := math.Abs(iq.DecodeSample(b)); d > max {
					max = d
				}
			}
		}
		return max
	}

	head := dev(0, 50)
	tail := dev(950, 1000)
	middle := dev(400, 600)

	assert.Less(t, head, middle, "ramp-in should attenuate the head")
	assert.Less(t, tail, middle, "ramp-out should attenuate the tail")
	assert.Greater(t, middle, 0.9, "steady state should reach full scale")
}

func TestNoiseOnlyBelowThreshold(t *testing.T) {
	cfg := synth.DefaultConfig()
	cfg.NoiseFloor = 0.2
	e, err := synth.New(cfg, nil)
	require.NoError(t, err)

	sink := &pairSink{}
	stats, err := e.Run(mustParse(t, "(1000)500@-30"), sink)
	require.NoError(t, err)

	assert.Equal(t, uint64(500), stats.Samples)
	require.Len(t, sink.pairs, 500)

	// Noise floor 0.2 pp: every decoded sample within +/-0.1 of zero
	// (one quantization step of slack), no oscillator contribution.
	for i, p := range sink.pairs {
		for _, b := range p {
			v := iq.DecodeSample(b)
			assert.LessOrEqual(t, math.Abs(v), 0.1+1/127.5, "sample %d", i)
		}
	}
}

func TestReproducibleWithSameSeed(t *testing.T) {
	run := func(seed int64) []byte {
		cfg := synth.DefaultConfig()
		cfg.Seed = seed
		e, err := synth.New(cfg, nil)
		require.NoError(t, err)

		var out bytes.Buffer
		w := iq.NewBlockWriter(&out, iq.WithBlockSize(512))
		_, err = e.Run(mustParse(t, "(1000)2000 _500 (2000)1000@-6"), w)
		require.NoError(t, err)
		require.NoError(t, w.Flush())
		return out.Bytes()
	}

	assert.Equal(t, run(42), run(42), "same seed must be byte-identical")
	assert.NotEqual(t, run(42), run(43), "different seeds must differ")
}

func TestCancelBeforeFirstTone(t *testing.T) {
	var flag synth.Flag
	flag.Set()

	e, err := synth.New(synth.DefaultConfig(), &flag)
	require.NoError(t, err)

	sink := &pairSink{}
	stats, err := e.Run(mustParse(t, "(1000)1000 (2000)1000"), sink)
	require.NoError(t, err)

	assert.True(t, stats.Canceled)
	assert.Zero(t, stats.Samples)
	assert.Empty(t, sink.pairs)
}

func TestCancelBetweenTones(t *testing.T) {
	var flag synth.Flag
	e, err := synth.New(synth.DefaultConfig(), &flag)
	require.NoError(t, err)

	// The flag flips during the first tone; the engine must finish that
	// tone and stop before the second.
	sink := &pairSink{}
	sink.onPut = func() { flag.Set() }

	stats, err := e.Run(mustParse(t, "(1000)1000 (2000)1000"), sink)
	require.NoError(t, err)

	assert.True(t, stats.Canceled)
	assert.Equal(t, 1, stats.Tones)
	assert.Len(t, sink.pairs, 1000, "first tone completes, second never starts")
}

func TestWriteErrorAborts(t *testing.T) {
	e, err := synth.New(synth.DefaultConfig(), nil)
	require.NoError(t, err)

	sink := &pairSink{failAt: 10}
	_, err = e.Run(mustParse(t, "(1000)1000"), sink)
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	bad := []synth.Config{
		{SampleRate: 0, Gain: 1},
		{SampleRate: 1e6, Gain: 0},
		{SampleRate: 1e6, Gain: 1, NoiseFloor: -0.1},
	}
	for _, cfg := range bad {
		_, err := synth.New(cfg, nil)
		assert.Error(t, err, "config %+v", cfg)
	}
}

// TestToneFrequencyAccuracy renders a pure tone and checks that the FFT
// peak lands on the requested bin, for positive and negative carriers.
func TestToneFrequencyAccuracy(t *testing.T) {
	const (
		rate    = 409600.0
		fftSize = 4096
		binHz   = rate / fftSize // 100 Hz
	)

	for _, freqBin := range []int{100, -100, 512} {
		cfg := synth.DefaultConfig()
		cfg.SampleRate = rate
		cfg.NoiseSignal = 0
		e, err := synth.New(cfg, nil)
		require.NoError(t, err)

		tl := timeline.Timeline{
			{Hz: float64(freqBin) * binHz, Us: 10000, DB: 0},
			{},
		}

		sink := &pairSink{}
		stats, err := e.Run(tl, sink)
		require.NoError(t, err)
		require.Equal(t, uint64(fftSize), stats.Samples)

		in := make([]complex128, fftSize)
		for i, p := range sink.pairs {
			in[i] = complex(iq.DecodeSample(p[0]), iq.DecodeSample(p[1]))
		}

		plan, err := algofft.NewPlan64(fftSize)
		require.NoError(t, err)
		out := make([]complex128, fftSize)
		require.NoError(t, plan.Forward(out, in))

		mags := spectrum.Magnitude(out)
		peak := 0
		for i, m := range mags {
			if m > mags[peak] {
				peak = i
			}
		}

		want := freqBin
		if want < 0 {
			want += fftSize
		}
		assert.Equal(t, want, peak, "carrier %v Hz", float64(freqBin)*binHz)
	}
}
