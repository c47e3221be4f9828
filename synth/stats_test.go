package synth_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jimilinuxguy/tx-tools/internal/testutil"
	"github.com/jimilinuxguy/tx-tools/iq"
	"github.com/jimilinuxguy/tx-tools/synth"
	"github.com/jimilinuxguy/tx-tools/timeline"
)

// TestNoiseFloorStatistics checks the long-run distribution of a
// noise-only tone: centered on zero with the variance of uniform noise
// at the configured peak-to-peak amplitude.
func TestNoiseFloorStatistics(t *testing.T) {
	const floor = 0.2

	cfg := synth.DefaultConfig()
	cfg.NoiseFloor = floor
	e, err := synth.New(cfg, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	w := iq.NewBlockWriter(&out, iq.WithBlockSize(512))

	// 200 ms at 1 MHz: 200000 sample pairs, all below threshold.
	tl := timeline.Timeline{{Us: 200000, DB: -40}, {}}
	stats, err := e.Run(tl, w)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.Equal(t, uint64(200000), stats.Samples)

	samples := testutil.DecodeStream(out.Bytes())
	testutil.RequireFinite(t, samples)

	mean, variance := testutil.MeanVar(samples)

	// Uniform on [-floor/2, floor/2) has variance floor^2/12; u8
	// quantization adds (1/127.5)^2/12.
	wantVar := floor*floor/12 + 1/(127.5*127.5)/12
	testutil.RequireNearly(t, mean, 0, 1e-3)
	testutil.RequireNearly(t, variance, wantVar, wantVar*0.05)
}
