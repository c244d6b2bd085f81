// internal/archive/legacy.go
package archive

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/hp3457a-dumper/internal/dump"
)

var legacyStamp = regexp.MustCompile(`(\d+)\.txt$`)

// ConvertLegacy reads the raw log of the 2018 single-shot dumper, one
// "<decimal addr>: <decimal word>" line per address. That tool peeked
// every address, so each word also holds the next byte; odd addresses
// are skipped and even ones expanded into two bytes.
func ConvertLegacy(r io.Reader) (Dump, error) {
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

		addrStr, valStr, ok := strings.Cut(line, ": ")
		if !ok {
			return Dump{}, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, lineNo, line)
		}
		addr, err := strconv.Atoi(strings.TrimSpace(addrStr))
		if err != nil {
			return Dump{}, fmt.Errorf("%w: line %d: address %q", ErrMalformedLine, lineNo, addrStr)
		}

		if addr%2 != 0 {
			continue
		}
		if next < 0 {
			d.Start = addr
		} else if addr != next {
			return Dump{}, fmt.Errorf("%w: line %d: got %d want %d", ErrNotContiguous, lineNo, addr, next)
		}
		next = addr + 2

		lo, hi, err := dump.DecodeWord(valStr)
		if err != nil {
			return Dump{}, fmt.Errorf("archive: line %d: %w", lineNo, err)
		}
		d.Data = append(d.Data, lo, hi)
	}
	if err := sc.Err(); err != nil {
		return Dump{}, err
	}

	return d, nil
}

// LegacyTimestamp extracts the Unix timestamp embedded in legacy file
// names like 3457_DUMP_1543000000.txt.
func LegacyTimestamp(name string) (time.Time, bool) {
	m := legacyStamp.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}
