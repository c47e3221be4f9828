package iq

import (
	"fmt"
	"io"
)

// Output block size bounds in bytes.
const (
	MinBlockSize     = 512
	MaxBlockSize     = 256 * 16384
	DefaultBlockSize = 16384
)

// ValidBlockSize reports whether n is usable as an output block size:
// within [MinBlockSize, MaxBlockSize] and even, so whole sample pairs
// fit a block.
func ValidBlockSize(n int) bool {
	return n >= MinBlockSize && n <= MaxBlockSize && n%2 == 0
}

// Option configures a BlockWriter.
type Option func(*BlockWriter)

// WithBlockSize sets the block capacity in bytes. Invalid sizes are
// ignored and the default is kept; callers wanting a diagnostic should
// check ValidBlockSize first.
func WithBlockSize(n int) Option {
	return func(w *BlockWriter) {
		if ValidBlockSize(n) {
			w.buf = make([]byte, n)
		}
	}
}

// BlockWriter accumulates encoded sample bytes in a fixed-capacity
// block and writes each full block to the destination in one operation.
// A trailing partial block is written only by an explicit Flush.
type BlockWriter struct {
	dst     io.Writer
	buf     []byte
	pos     int
	written int64
	flushes int
}

// NewBlockWriter creates a BlockWriter over dst.
func NewBlockWriter(dst io.Writer, opts ...Option) *BlockWriter {
	w := &BlockWriter{
		dst: dst,
		buf: make([]byte, DefaultBlockSize),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	return w
}

// Put appends one encoded I/Q byte pair. When the pair fills the block,
// the whole block is written out and the cursor resets to zero before
// Put returns.
func (w *BlockWriter) Put(i, q byte) error {
	w.buf[w.pos] = i
	w.buf[w.pos+1] = q
	w.pos += 2

	if w.pos == len(w.buf) {
		return w.flush(w.pos)
	}

	return nil
}

// Flush writes any buffered partial block to the destination. Needed
// only for bit-exact stream duration; full blocks flush themselves.
func (w *BlockWriter) Flush() error {
	if w.pos == 0 {
		return nil
	}

	return w.flush(w.pos)
}

// BlockSize returns the configured block capacity in bytes.
func (w *BlockWriter) BlockSize() int {
	return len(w.buf)
}

// Buffered returns the number of bytes waiting in the current block.
func (w *BlockWriter) Buffered() int {
	return w.pos
}

// Written returns the total number of bytes written to the destination.
func (w *BlockWriter) Written() int64 {
	return w.written
}

// Flushes returns the number of block writes issued to the destination.
func (w *BlockWriter) Flushes() int {
	return w.flushes
}

func (w *BlockWriter) flush(n int) error {
	if _, err := w.dst.Write(w.buf[:n]); err != nil {
		return fmt.Errorf("iq: write block: %w", err)
	}

	w.written += int64(n)
	w.flushes++
	w.pos = 0

	return nil
}
