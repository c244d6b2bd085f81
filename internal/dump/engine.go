// internal/dump/engine.go
package dump

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/tamzrod/hp3457a-dumper/internal/board"
)

// Engine walks address ranges with the word-oriented PEEK command.
type Engine struct {
	q        Querier
	progress Progress
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress installs a progress observer.
func WithProgress(p Progress) Option {
	return func(e *Engine) { e.progress = p }
}

// New creates an engine reading through q.
func New(q Querier, opts ...Option) *Engine {
	e := &Engine{q: q}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Dump reads start..end (exclusive) and returns exactly end-start bytes.
// All-or-nothing: any failure aborts and no partial data is returned.
//
// PEEK p answers with bytes p and p+1 packed into one word, so an odd
// length still issues the final PEEK; the byte at end it returns is
// discarded.
func (e *Engine) Dump(ctx context.Context, start, end int) ([]byte, error) {
	if start < 0 || end > AddressSpace || start > end {
		return nil, fmt.Errorf("%w: 0x%04X-0x%04X", ErrInvalidRange, start, end)
	}

	n := end - start
	out := make([]byte, 0, n+1)

	for p := start; p < end; p += 2 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dump: aborted at 0x%04X: %w", p, err)
		}

		lo, hi, err := e.peek(p)
		if err != nil {
			return nil, err
		}
		out = append(out, lo, hi)

		if e.progress != nil {
			e.progress(min(p+2, end)-start, n)
		}
	}

	if len(out) > n {
		slog.Debug("odd range, overshoot byte discarded", "addr", fmt.Sprintf("0x%04X", end), "value", fmt.Sprintf("%02X", out[n]))
		out = out[:n]
	}
	return out, nil
}

// DumpRegion reads a whole region.
func (e *Engine) DumpRegion(ctx context.Context, r board.Region) ([]byte, error) {
	if !r.HasEnd {
		return nil, fmt.Errorf("%w: %s at 0x%04X", ErrSingleByteRegion, r.Desc, r.Start)
	}
	return e.Dump(ctx, int(r.Start), int(r.End)+1)
}

// DumpVerified reads r passes times and fails unless every pass matches
// the first. Reads are compared, never retried.
func (e *Engine) DumpVerified(ctx context.Context, r board.Region, passes int) (Result, error) {
	if passes < 1 {
		passes = 1
	}

	first, err := e.DumpRegion(ctx, r)
	if err != nil {
		return Result{}, err
	}

	for pass := 2; pass <= passes; pass++ {
		again, err := e.DumpRegion(ctx, r)
		if err != nil {
			return Result{}, err
		}
		if !bytes.Equal(first, again) {
			return Result{}, &MismatchError{Start: int(r.Start), Pass: pass, Offsets: diff(first, again)}
		}
	}

	sum := md5.Sum(first)
	return Result{
		Start:  int(r.Start),
		Data:   first,
		MD5:    hex.EncodeToString(sum[:]),
		Passes: passes,
	}, nil
}

func (e *Engine) peek(p int) (byte, byte, error) {
	cmd := fmt.Sprintf("PEEK %d", p)
	reply, err := e.q.Query(cmd)
	if err != nil {
		return 0, 0, fmt.Errorf("dump: %s: %w", cmd, err)
	}
	lo, hi, err := DecodeWord(reply)
	if err != nil {
		return 0, 0, fmt.Errorf("dump: %s: %w", cmd, err)
	}
	slog.Debug(cmd, "addr", fmt.Sprintf("0x%04X", p), "lo", fmt.Sprintf("%02X", lo), "hi", fmt.Sprintf("%02X", hi))
	return lo, hi, nil
}

// DecodeWord turns a PEEK reply into the byte at the peeked address (lo)
// and the byte after it (hi). The reply is a float string holding a
// signed 16-bit little-endian word.
func DecodeWord(reply string) (lo, hi byte, err error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil || math.IsNaN(v) {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedPeek, reply)
	}
	t := math.Trunc(v)
	if t < math.MinInt16 || t > math.MaxInt16 {
		return 0, 0, fmt.Errorf("%w: %q does not fit a signed 16-bit word", ErrMalformedPeek, reply)
	}
	w := uint16(int16(t))
	return byte(w), byte(w >> 8), nil
}

func diff(a, b []byte) []int {
	var out []int
	for i := range a {
		if i >= len(b) || a[i] != b[i] {
			out = append(out, i)
		}
	}
	return out
}
