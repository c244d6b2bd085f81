// internal/transport/resource.go
package transport

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrBadResource is returned for identifiers that are not GPIB INSTR names.
var ErrBadResource = errors.New("transport: invalid resource identifier")

// MaxPrimaryAddress is the highest GPIB primary address (31 is UNL).
const MaxPrimaryAddress = 30

var resourcePattern = regexp.MustCompile(`^GPIB(\d*)::(\d+)::INSTR$`)

// Resource is a VISA-style GPIB instrument name, e.g. GPIB0::22::INSTR.
type Resource struct {
	Board   int
	Address int
}

// ParseResource parses GPIB<board>::<addr>::INSTR. A missing board
// number means board 0.
func ParseResource(s string) (Resource, error) {
	m := resourcePattern.FindStringSubmatch(s)
	if m == nil {
		return Resource{}, fmt.Errorf("%w: %q", ErrBadResource, s)
	}

	var r Resource
	if m[1] != "" {
		b, err := strconv.Atoi(m[1])
		if err != nil {
			return Resource{}, fmt.Errorf("%w: %q", ErrBadResource, s)
		}
		r.Board = b
	}

	addr, err := strconv.Atoi(m[2])
	if err != nil || addr > MaxPrimaryAddress {
		return Resource{}, fmt.Errorf("%w: %q: primary address must be 0..%d", ErrBadResource, s, MaxPrimaryAddress)
	}
	r.Address = addr

	return r, nil
}

func (r Resource) String() string {
	return fmt.Sprintf("GPIB%d::%d::INSTR", r.Board, r.Address)
}
