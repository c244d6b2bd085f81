// internal/archive/format.go
package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrMalformedLine is returned for text lines not of the form "0xADDR: BYTE".
	ErrMalformedLine = errors.New("archive: malformed line")

	// ErrNotContiguous is returned when text addresses skip or repeat.
	ErrNotContiguous = errors.New("archive: addresses not contiguous")
)

// Dump is a byte sequence anchored at an address.
type Dump struct {
	Start int
	Data  []byte
}

// End returns the address after the last byte.
func (d Dump) End() int { return d.Start + len(d.Data) }

// WriteBinary writes raw bytes in address order.
func WriteBinary(w io.Writer, d Dump) error {
	_, err := w.Write(d.Data)
	return err
}

// WriteText writes one "0xADDR: BYTE" line per byte, uppercase hex.
func WriteText(w io.Writer, d Dump) error {
	bw := bufio.NewWriter(w)
	for i, b := range d.Data {
		if _, err := fmt.Fprintf(bw, "0x%04X: %02X\n", d.Start+i, b); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadText parses the text form back into a Dump.
// Blank lines are ignored; addresses must increase by one per line.
func ReadText(r io.Reader) (Dump, error) {
	var d Dump
	next := -1

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		addrStr, valStr, ok := strings.Cut(line, ":")
		if !ok {
			return Dump{}, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, lineNo, line)
		}
		addrStr = strings.TrimSpace(addrStr)
		if !strings.HasPrefix(addrStr, "0x") && !strings.HasPrefix(addrStr, "0X") {
			return Dump{}, fmt.Errorf("%w: line %d: address %q lacks 0x prefix", ErrMalformedLine, lineNo, addrStr)
		}
		addr, err := strconv.ParseUint(addrStr[2:], 16, 32)
		if err != nil {
			return Dump{}, fmt.Errorf("%w: line %d: address %q", ErrMalformedLine, lineNo, addrStr)
		}
		val, err := strconv.ParseUint(strings.TrimSpace(valStr), 16, 8)
		if err != nil {
			return Dump{}, fmt.Errorf("%w: line %d: byte %q", ErrMalformedLine, lineNo, valStr)
		}

		if next < 0 {
			d.Start = int(addr)
		} else if int(addr) != next {
			return Dump{}, fmt.Errorf("%w: line %d: got 0x%04X want 0x%04X", ErrNotContiguous, lineNo, addr, next)
		}
		next = int(addr) + 1
		d.Data = append(d.Data, byte(val))
	}
	if err := sc.Err(); err != nil {
		return Dump{}, err
	}

	return d, nil
}
