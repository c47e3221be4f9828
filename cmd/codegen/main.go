// Command codegen synthesizes a u8 I/Q sample stream from a symbolic
// tone code.
//
// Usage:
//
//	codegen [flags] output-file
//
// The output file receives raw interleaved unsigned 8-bit I/Q samples;
// "-" writes them to stdout. The tone code comes from -c, from the file
// named by -r, or from stdin.
//
// Level flags are sign-overloaded the way the classic tools are: a
// negative value is an attenuation in dBFS, a positive value a direct
// amplitude multiplier. For gain, 0 means 0 dBFS; for noise, 0 is off.
//
// Examples:
//
//	codegen -s 2.4M -c "(10k)50000 _10000 (10k)50000" burst.cu8
//	codegen -f 10k -f -10k -c "[0]500 [1]500 [0]500" -S 7 - >fsk.cu8
//	codegen -n -30 -N -40 -g -6 -r code.txt out.cu8
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jimilinuxguy/tx-tools/dsp/level"
	"github.com/jimilinuxguy/tx-tools/iq"
	"github.com/jimilinuxguy/tx-tools/synth"
	"github.com/jimilinuxguy/tx-tools/timeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		sampleRate   = pflag.StringP("sample-rate", "s", "1000000", "sample rate in Hz (k/M/G suffixes ok)")
		baseFreqs    = pflag.StringArrayP("freq", "f", nil, "base frequency for [i] tokens, repeatable")
		noiseFloor   = pflag.StringP("noise-floor", "n", "", "noise floor, dBFS if negative, else multiplier")
		noiseSignal  = pflag.StringP("noise-signal", "N", "", "noise on signal, dBFS if negative, else multiplier")
		gain         = pflag.StringP("gain", "g", "", "signal gain, dBFS if non-positive, else peak multiplier")
		blockSize    = pflag.IntP("block-size", "b", iq.DefaultBlockSize, "output block size in bytes")
		readPath     = pflag.StringP("read", "r", "", "read tone code from file, - for stdin")
		codeText     = pflag.StringP("code", "c", "", "parse the given tone code text")
		seed         = pflag.Int64P("seed", "S", 1, "random seed for reproducible output")
		flushPartial = pflag.Bool("flush-partial", true, "flush the trailing partial output block")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: codegen [flags] output-file\n\n")
		fmt.Fprintf(os.Stderr, "Generates a raw interleaved u8 I/Q stream from a symbolic tone code.\n")
		fmt.Fprintf(os.Stderr, "An output file of - writes samples to stdout.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer logger.Sync()
	log := logger.Sugar()

	if pflag.NArg() != 1 {
		pflag.Usage()
		return 2
	}
	outPath := pflag.Arg(0)

	cfg := synth.DefaultConfig()
	cfg.Seed = *seed

	if cfg.SampleRate, err = level.ParseNum(*sampleRate); err != nil || cfg.SampleRate <= 0 {
		log.Errorf("invalid sample rate %q", *sampleRate)
		return 1
	}
	if *noiseFloor != "" {
		if cfg.NoiseFloor, err = parseLevel(*noiseFloor, level.Noise); err != nil {
			log.Errorf("invalid noise floor: %v", err)
			return 1
		}
	}
	if *noiseSignal != "" {
		if cfg.NoiseSignal, err = parseLevel(*noiseSignal, level.Noise); err != nil {
			log.Errorf("invalid signal noise: %v", err)
			return 1
		}
	}
	if *gain != "" {
		if cfg.Gain, err = parseLevel(*gain, level.Tone); err != nil {
			log.Errorf("invalid gain: %v", err)
			return 1
		}
	}

	if !iq.ValidBlockSize(*blockSize) {
		log.Warnf("block size %d outside [%d, %d], falling back to %d",
			*blockSize, iq.MinBlockSize, iq.MaxBlockSize, iq.DefaultBlockSize)
		*blockSize = iq.DefaultBlockSize
	}

	base, err := parseBaseFreqs(*baseFreqs)
	if err != nil {
		log.Errorf("invalid base frequency: %v", err)
		return 1
	}

	tl, err := loadTimeline(*codeText, *readPath, base)
	if err != nil {
		log.Errorf("parse tone code: %v", err)
		return 1
	}
	log.Infof("timeline: %d tones, %d us", tl.Events(), tl.Duration())

	out, closeOut, err := openOutput(outPath)
	if err != nil {
		log.Errorf("open output: %v", err)
		return 1
	}
	defer closeOut()

	var cancel synth.Flag
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGPIPE)
	go func() {
		s := <-sigc
		log.Warnf("signal %v caught, exiting", s)
		cancel.Set()
	}()

	engine, err := synth.New(cfg, &cancel)
	if err != nil {
		log.Errorf("configure engine: %v", err)
		return 1
	}

	w := iq.NewBlockWriter(out, iq.WithBlockSize(*blockSize))

	start := time.Now()
	stats, err := engine.Run(tl, w)
	if err != nil {
		log.Errorf("synthesis failed: %v", err)
		return 1
	}
	if *flushPartial {
		if err := w.Flush(); err != nil {
			log.Errorf("flush output: %v", err)
			return 1
		}
	}

	log.Infof("wrote %d samples in %d tones, %d bytes, in %s",
		stats.Samples, stats.Tones, w.Written(), time.Since(start).Round(time.Millisecond))
	if stats.Canceled {
		log.Warnf("run canceled, output is partial")
	}

	return 0
}

// parseLevel parses a sign-overloaded level argument and converts it
// with the given calibration.
func parseLevel(arg string, convert func(float64) float64) (float64, error) {
	v, err := level.ParseNum(arg)
	if err != nil {
		return 0, err
	}

	return convert(v), nil
}

func parseBaseFreqs(args []string) ([]float64, error) {
	if len(args) == 0 {
		// Stock 2FSK pair.
		return []float64{10000, -10000}, nil
	}

	out := make([]float64, len(args))
	for i, a := range args {
		v, err := level.ParseNum(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func loadTimeline(codeText, readPath string, base []float64) (timeline.Timeline, error) {
	opt := timeline.WithBaseFreqs(base)

	if codeText != "" {
		return timeline.Parse(codeText, opt)
	}
	if readPath == "" {
		fmt.Fprintln(os.Stderr, "Reading tone code from stdin.")
		readPath = "-"
	}

	return timeline.ParseFile(readPath, opt)
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	return f, func() { f.Close() }, nil
}
