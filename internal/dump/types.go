// internal/dump/types.go
package dump

import (
	"errors"
	"fmt"
)

// AddressSpace is the end (exclusive) of the 16-bit address space.
const AddressSpace = 0x10000

var (
	// ErrSingleByteRegion is returned before any bus I/O for regions
	// without a distinct end address.
	ErrSingleByteRegion = errors.New("dump: single-byte regions are not supported")

	// ErrInvalidRange is returned for start > end or addresses outside
	// the 16-bit space.
	ErrInvalidRange = errors.New("dump: invalid address range")

	// ErrMalformedPeek is returned when a PEEK reply is not a 16-bit word.
	ErrMalformedPeek = errors.New("dump: malformed PEEK reply")
)

// Querier is the one operation the engine needs from a session.
type Querier interface {
	Query(cmd string) (string, error)
}

// Progress observes addresses processed out of total.
type Progress func(done, total int)

// MismatchError reports offsets where verification passes disagreed.
type MismatchError struct {
	Start   int
	Pass    int   // 1-based pass that differed from the first
	Offsets []int // offsets from Start
}

func (e *MismatchError) Error() string {
	first := e.Offsets[0]
	return fmt.Sprintf(
		"dump: pass %d differs from pass 1 at %d byte(s), first at 0x%04X",
		e.Pass, len(e.Offsets), e.Start+first,
	)
}

// Result is a verified dump.
type Result struct {
	Start  int
	Data   []byte
	MD5    string // hex digest of Data
	Passes int
}
