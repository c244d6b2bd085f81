// internal/board/region.go
package board

import "fmt"

// Protection classifies how a region may be accessed.
type Protection uint8

const (
	ReadOnly Protection = iota
	ReadWrite
	WriteProtected
	Unavailable

	// Composite marks a whole chip whose children carry the real
	// classification.
	Composite
)

func (p Protection) String() string {
	switch p {
	case ReadOnly:
		return "read-only"
	case ReadWrite:
		return "read-write"
	case WriteProtected:
		return "write-protected"
	case Unavailable:
		return "unavailable"
	case Composite:
		return "composite"
	default:
		return fmt.Sprintf("protection(%d)", uint8(p))
	}
}

// Region is one addressable span on a board.
// End is inclusive and only meaningful when HasEnd is set; a region
// without an end is a single byte at Start.
type Region struct {
	Desc       string
	Start      uint16
	End        uint16
	HasEnd     bool
	Protection Protection
	Parent     string // key of the enclosing region, "" for top level
}

// Span builds a region covering start..end inclusive.
func Span(desc string, start, end uint16, p Protection) Region {
	return Region{Desc: desc, Start: start, End: end, HasEnd: true, Protection: p}
}

// Byte builds a single-byte region.
func Byte(desc string, addr uint16, p Protection) Region {
	return Region{Desc: desc, Start: addr, Protection: p}
}

// Within returns a copy of r nested under parent.
func (r Region) Within(parent string) Region {
	r.Parent = parent
	return r
}

// Size is the number of bytes covered.
func (r Region) Size() int {
	if !r.HasEnd {
		return 1
	}
	return int(r.End) - int(r.Start) + 1
}

// Last is the last address covered (inclusive).
func (r Region) Last() int {
	return int(r.Start) + r.Size() - 1
}

// Equal reports whether both regions cover the same span.
func (r Region) Equal(o Region) bool {
	return r.Start == o.Start && r.Size() == o.Size()
}

// Less orders by ascending start; on equal start the larger region first,
// so a parent precedes its first child.
func (r Region) Less(o Region) bool {
	if r.Start == o.Start {
		return r.Size() > o.Size()
	}
	return r.Start < o.Start
}

// Contains reports whether o lies fully inside r.
func (r Region) Contains(o Region) bool {
	return int(o.Start) >= int(r.Start) && o.Last() <= r.Last()
}

// Overlaps reports whether r and o share at least one address.
func (r Region) Overlaps(o Region) bool {
	return !(o.Last() < int(r.Start) || int(o.Start) > r.Last())
}

func (r Region) String() string {
	if !r.HasEnd {
		return fmt.Sprintf("0x%04X (%s)", r.Start, r.Protection)
	}
	return fmt.Sprintf("0x%04X-0x%04X (%s)", r.Start, r.End, r.Protection)
}
