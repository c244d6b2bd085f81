// internal/errreg/decode.go
package errreg

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedRegister is returned when an ERR? reply is not a number.
var ErrMalformedRegister = errors.New("errreg: malformed error register")

// Set is a decoded error register. Only known bits are ever set.
type Set uint16

// Has reports whether f is present.
func (s Set) Has(f Flag) bool { return uint16(s)&uint16(f) != 0 }

// Empty reports whether no known flag is set.
func (s Set) Empty() bool { return s == 0 }

// Flags returns the set's members in ascending bit order.
func (s Set) Flags() []Flag {
	var out []Flag
	for _, f := range All {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s Set) String() string {
	if s.Empty() {
		return "none"
	}
	flags := s.Flags()
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = f.Description()
	}
	return strings.Join(parts, ", ")
}

// Decode parses an ERR? reply.
// The instrument reports the register as a float string ("16.00000E+0");
// it is truncated to an integer and masked. Unknown bits are dropped.
func Decode(reply string) (Set, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedRegister, reply)
	}
	reg := int64(v)
	return Set(uint16(reg) & KnownMask), nil
}
