// Command iqinfo inspects a raw u8 I/Q capture and reports its spectral
// peak, used to verify generated test signals.
//
// Usage:
//
//	iqinfo [flags] file
//
// The file holds raw interleaved unsigned 8-bit I/Q samples as written
// by codegen; "-" reads from stdin.
//
// Examples:
//
//	iqinfo -s 1M burst.cu8
//	iqinfo -s 2.4M -w flat-top -F 8192 capture.cu8
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/spf13/pflag"

	"github.com/jimilinuxguy/tx-tools/dsp/core"
	"github.com/jimilinuxguy/tx-tools/dsp/level"
	"github.com/jimilinuxguy/tx-tools/dsp/spectrum"
	"github.com/jimilinuxguy/tx-tools/dsp/window"
	"github.com/jimilinuxguy/tx-tools/iq"
)

func main() {
	sampleRate := pflag.StringP("sample-rate", "s", "1000000", "capture sample rate in Hz (k/M/G suffixes ok)")
	winName := pflag.StringP("window", "w", "hann", "analysis window: "+strings.Join(window.Names(), ", "))
	fftSize := pflag.IntP("fft-size", "F", 4096, "FFT length in sample pairs")
	skip := pflag.Int("skip", 0, "sample pairs to skip before analysis")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: iqinfo [flags] file\n\n")
		fmt.Fprintf(os.Stderr, "Reports the spectral peak of a raw u8 I/Q capture; - reads stdin.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(pflag.Arg(0), *sampleRate, *winName, *fftSize, *skip); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(path, rateArg, winName string, fftSize, skip int) error {
	rate, err := level.ParseNum(rateArg)
	if err != nil || rate <= 0 {
		return fmt.Errorf("invalid sample rate %q", rateArg)
	}

	winType, err := window.FromName(winName)
	if err != nil {
		return err
	}

	if fftSize < 16 || fftSize&(fftSize-1) != 0 {
		return fmt.Errorf("fft size must be a power of two >= 16: %d", fftSize)
	}

	in, err := readPairs(path, fftSize, skip)
	if err != nil {
		return err
	}

	report(os.Stdout, analyze(in, winType, rate))

	return nil
}

// readPairs decodes fftSize sample pairs from the capture, skipping the
// first skip pairs.
func readPairs(path string, fftSize, skip int) ([]complex128, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	if skip > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(skip)*2); err != nil {
			return nil, fmt.Errorf("skip %d pairs: %w", skip, err)
		}
	}

	raw := make([]byte, fftSize*2)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("need %d sample pairs: %w", fftSize, err)
	}

	out := make([]complex128, fftSize)
	for i := range out {
		out[i] = complex(iq.DecodeSample(raw[2*i]), iq.DecodeSample(raw[2*i+1]))
	}

	return out, nil
}

type result struct {
	peakHz    float64
	peakDBFS  float64
	dcOffsetI float64
	dcOffsetQ float64
	rate      float64
	fftSize   int
	window    window.Type
}

func analyze(in []complex128, winType window.Type, rate float64) result {
	n := len(in)

	res := result{rate: rate, fftSize: n, window: winType}
	for _, c := range in {
		res.dcOffsetI += real(c) / float64(n)
		res.dcOffsetQ += imag(c) / float64(n)
	}

	coeffs := window.Generate(winType, n)
	re := make([]float64, n)
	im := make([]float64, n)
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	window.Apply(re, coeffs)
	window.Apply(im, coeffs)

	data := make([]complex128, n)
	for i := range data {
		data[i] = complex(re[i], im[i])
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return res
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, data); err != nil {
		return res
	}

	peak := spectrum.PeakBin(spectrum.Magnitude(out))

	// A full-scale complex tone peaks at n * coherent gain.
	gain := window.CoherentGain(coeffs)
	res.peakDBFS = core.LinearToDB(peak.Magnitude / (float64(n) * gain))

	bin := peak.Bin
	if bin > float64(n)/2 {
		bin -= float64(n)
	}
	res.peakHz = bin * rate / float64(n)

	return res
}

func report(w io.Writer, res result) {
	fmt.Fprintf(w, "sample rate:  %.0f Hz\n", res.rate)
	fmt.Fprintf(w, "fft size:     %d (%s window)\n", res.fftSize, res.window.Name())
	fmt.Fprintf(w, "peak:         %+.1f Hz at %.1f dBFS\n", res.peakHz, res.peakDBFS)
	fmt.Fprintf(w, "dc offset:    I %+.4f  Q %+.4f\n", res.dcOffsetI, res.dcOffsetQ)
}
