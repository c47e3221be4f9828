package timeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jimilinuxguy/tx-tools/dsp/level"
)

// Parse errors. Callers branch on these with errors.Is.
var (
	ErrEmpty  = errors.New("timeline: no tones in code")
	ErrSyntax = errors.New("timeline: syntax error")
)

// QuietDB is the level assigned to `_` gap tokens. It sits far below
// the engine's noise-only threshold, so gaps render as floor noise.
const QuietDB = -100

// Option configures parsing.
type Option func(*parser)

// WithBaseFreqs supplies the frequency table that `[i]` tokens index,
// typically collected from repeated -f flags.
func WithBaseFreqs(freqs []float64) Option {
	base := append([]float64(nil), freqs...)

	return func(p *parser) {
		p.base = base
	}
}

type parser struct {
	base []float64
}

// Parse reads a tone code text into a Timeline with its terminator
// appended.
//
// The code is a sequence of tokens separated by whitespace or commas,
// with `#` starting a comment that runs to end of line:
//
//	(freq)dur[@db]   tone at an explicit frequency in Hz
//	[i]dur[@db]      tone at the i-th base frequency
//	_dur             quiet gap (noise floor only)
//
// freq and dur accept k/M/G suffixes ("(10k)1500", "(1.5M)500@-6");
// dur is in microseconds and must be positive; db is an integer dBFS
// level defaulting to 0.
func Parse(text string, opts ...Option) (Timeline, error) {
	p := parser{}
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}

	var tl Timeline
	for _, tok := range tokenize(text) {
		tone, err := p.parseTone(tok)
		if err != nil {
			return nil, err
		}
		tl = append(tl, tone)
	}

	if len(tl) == 0 {
		return nil, ErrEmpty
	}

	return append(tl, Tone{}), nil
}

// ParseReader reads all of r and parses it as tone code.
func ParseReader(r io.Reader, opts ...Option) (Timeline, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("timeline: read code: %w", err)
	}

	return Parse(string(text), opts...)
}

// ParseFile parses the tone code in the named file, "-" meaning stdin.
func ParseFile(path string, opts ...Option) (Timeline, error) {
	if path == "" || path == "-" {
		return ParseReader(os.Stdin, opts...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("timeline: open code file: %w", err)
	}
	defer f.Close()

	return ParseReader(f, opts...)
}

func tokenize(text string) []string {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return strings.FieldsFunc(sb.String(), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	})
}

func (p *parser) parseTone(tok string) (Tone, error) {
	switch {
	case strings.HasPrefix(tok, "_"):
		if strings.ContainsRune(tok, '@') {
			return Tone{}, fmt.Errorf("%w: %q: gap tokens take no level", ErrSyntax, tok)
		}
		us, _, err := parseDuration(tok[1:], QuietDB)
		if err != nil {
			return Tone{}, fmt.Errorf("%w: %q: %v", ErrSyntax, tok, err)
		}

		return Tone{Us: us, DB: QuietDB}, nil

	case strings.HasPrefix(tok, "("):
		end := strings.IndexByte(tok, ')')
		if end < 0 {
			return Tone{}, fmt.Errorf("%w: %q: unterminated frequency", ErrSyntax, tok)
		}
		hz, err := level.ParseNum(tok[1:end])
		if err != nil {
			return Tone{}, fmt.Errorf("%w: %q: %v", ErrSyntax, tok, err)
		}
		us, db, err := parseDuration(tok[end+1:], 0)
		if err != nil {
			return Tone{}, fmt.Errorf("%w: %q: %v", ErrSyntax, tok, err)
		}

		return Tone{Hz: hz, Us: us, DB: db}, nil

	case strings.HasPrefix(tok, "["):
		end := strings.IndexByte(tok, ']')
		if end < 0 {
			return Tone{}, fmt.Errorf("%w: %q: unterminated base index", ErrSyntax, tok)
		}
		idx, err := strconv.Atoi(tok[1:end])
		if err != nil || idx < 0 || idx >= len(p.base) {
			return Tone{}, fmt.Errorf("%w: %q: no base frequency %s", ErrSyntax, tok, tok[1:end])
		}
		us, db, err := parseDuration(tok[end+1:], 0)
		if err != nil {
			return Tone{}, fmt.Errorf("%w: %q: %v", ErrSyntax, tok, err)
		}

		return Tone{Hz: p.base[idx], Us: us, DB: db}, nil

	default:
		return Tone{}, fmt.Errorf("%w: unrecognized token %q", ErrSyntax, tok)
	}
}

// parseDuration parses "dur" or "dur@db", returning the duration in
// microseconds and the level, defaulting to defDB.
func parseDuration(s string, defDB int) (uint64, int, error) {
	db := defDB
	if i := strings.IndexByte(s, '@'); i >= 0 {
		v, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid level %q", s[i+1:])
		}
		db = v
		s = s[:i]
	}

	us, err := level.ParseNum(s)
	if err != nil {
		return 0, 0, err
	}
	if us <= 0 || us != float64(uint64(us)) {
		return 0, 0, fmt.Errorf("duration must be a positive integer: %q", s)
	}

	return uint64(us), db, nil
}
