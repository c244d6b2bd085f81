// internal/instrument/revision.go
package instrument

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrRevisionParse is returned when a REV? reply is not two numbers.
var ErrRevisionParse = errors.New("instrument: revision could not be parsed")

// Revision is the firmware revision reported by REV?.
type Revision struct {
	Major int
	Minor int
}

func (r Revision) String() string { return fmt.Sprintf("%d.%d", r.Major, r.Minor) }

// ParseRevision parses "major,minor", each field a float string.
func ParseRevision(reply string) (Revision, error) {
	fields := strings.Split(strings.TrimSpace(reply), ",")
	if len(fields) != 2 {
		return Revision{}, fmt.Errorf("%w: %q has %d fields", ErrRevisionParse, reply, len(fields))
	}

	var out [2]int
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Revision{}, fmt.Errorf("%w: %q", ErrRevisionParse, reply)
		}
		out[i] = int(v)
	}

	return Revision{Major: out[0], Minor: out[1]}, nil
}
