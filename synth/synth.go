// Package synth renders a tone timeline into a quantized u8 I/Q sample
// stream.
package synth

import (
	"fmt"
	"sync/atomic"

	"github.com/jimilinuxguy/tx-tools/dsp/envelope"
	"github.com/jimilinuxguy/tx-tools/dsp/level"
	"github.com/jimilinuxguy/tx-tools/dsp/noise"
	"github.com/jimilinuxguy/tx-tools/dsp/osc"
	"github.com/jimilinuxguy/tx-tools/iq"
	"github.com/jimilinuxguy/tx-tools/timeline"
)

// NoiseOnlyThresholdDB is the level below which a tone is rendered as
// noise floor only, with no oscillator contribution.
const NoiseOnlyThresholdDB = -24

// Flag is the shared cancellation flag. The signal-delivery collaborator
// is its sole writer; the engine polls it between tone events only, so
// cancellation latency is bounded by one tone's duration.
type Flag struct {
	v atomic.Bool
}

// Set requests cancellation.
func (f *Flag) Set() {
	f.v.Store(true)
}

// Canceled reports whether cancellation was requested.
func (f *Flag) Canceled() bool {
	return f != nil && f.v.Load()
}

// Config holds the immutable per-run synthesis settings.
type Config struct {
	// SampleRate is the output rate in Hz.
	SampleRate float64
	// Gain is the linear peak multiplier applied to tone samples.
	Gain float64
	// NoiseFloor is the peak-to-peak amplitude of below-threshold noise.
	NoiseFloor float64
	// NoiseSignal is the peak-to-peak amplitude of on-tone disturbance.
	NoiseSignal float64
	// Seed seeds the noise generator; identical seeds reproduce
	// identical streams.
	Seed int64
}

// DefaultConfig returns the stock generator settings: 1 MHz sample
// rate, unity gain, 0.2 peak-to-peak noise floor, 0.1 peak-to-peak
// signal noise, seed 1.
func DefaultConfig() Config {
	return Config{
		SampleRate:  1e6,
		Gain:        1.0,
		NoiseFloor:  0.2,
		NoiseSignal: 0.1,
		Seed:        1,
	}
}

// Stats summarizes a synthesis run.
type Stats struct {
	Tones    int
	Samples  uint64
	Canceled bool
}

// Sink consumes encoded I/Q byte pairs. *iq.BlockWriter implements it.
type Sink interface {
	Put(i, q byte) error
}

// Engine walks a tone timeline and pushes encoded samples to a Sink.
// The oscillator cache and noise source it owns live for one run; build
// a fresh Engine per run.
type Engine struct {
	cfg    Config
	tables *osc.Cache
	noise  *noise.Source
	cancel *Flag
}

// New creates an Engine for one synthesis run. cancel may be nil when
// the run is not cancellable.
func New(cfg Config, cancel *Flag) (*Engine, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("synth: sample rate must be > 0: %f", cfg.SampleRate)
	}
	if cfg.Gain <= 0 {
		return nil, fmt.Errorf("synth: gain must be > 0: %f", cfg.Gain)
	}
	if cfg.NoiseFloor < 0 || cfg.NoiseSignal < 0 {
		return nil, fmt.Errorf("synth: noise amplitudes must be >= 0")
	}

	return &Engine{
		cfg:    cfg,
		tables: osc.NewCache(),
		noise:  noise.NewSource(cfg.Seed),
		cancel: cancel,
	}, nil
}

// Run synthesizes tl into sink, in timeline order, until the terminator
// or cancellation. Partial output written before cancellation is
// retained. Write failures abort the run and are returned as-is.
func (e *Engine) Run(tl timeline.Timeline, sink Sink) (Stats, error) {
	var stats Stats

	for _, tone := range tl {
		if tone.Terminator() {
			break
		}
		if e.cancel.Canceled() {
			stats.Canceled = true
			break
		}

		n := e.sampleCount(tone.Us)

		var err error
		if tone.DB < NoiseOnlyThresholdDB {
			err = e.noiseTone(n, sink)
		} else {
			err = e.sineTone(tone, n, sink)
		}
		if err != nil {
			return stats, err
		}

		stats.Tones++
		stats.Samples += n
	}

	return stats, nil
}

func (e *Engine) sampleCount(us uint64) uint64 {
	return uint64(float64(us) * e.cfg.SampleRate / 1e6)
}

// noiseTone renders a below-threshold tone as floor noise only.
func (e *Engine) noiseTone(n uint64, sink Sink) error {
	for t := uint64(0); t < n; t++ {
		x, y := e.noise.Sample(e.cfg.NoiseFloor)
		if err := sink.Put(iq.EncodeSample(x), iq.EncodeSample(y)); err != nil {
			return err
		}
	}

	return nil
}

// sineTone renders an oscillator tone with boundary ramps and on-signal
// disturbance noise.
func (e *Engine) sineTone(tone timeline.Tone, n uint64, sink Sink) error {
	o := e.tables.Get(tone.Hz, e.cfg.SampleRate)
	amp := level.Tone(float64(tone.DB))

	for t := uint64(0); t < n; t++ {
		g := e.cfg.Gain * amp * envelope.Ramp(t, n, envelope.DefaultRampLen)

		x := o.I(t) * g
		y := o.Q(t) * g

		nx, ny := e.noise.Sample(e.cfg.NoiseSignal)
		x += nx
		y += ny

		if err := sink.Put(iq.EncodeSample(x), iq.EncodeSample(y)); err != nil {
			return err
		}
	}

	return nil
}
