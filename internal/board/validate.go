// internal/board/validate.go
package board

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout wraps every region table violation.
var ErrInvalidLayout = errors.New("invalid region layout")

// Validate checks a region table.
// It performs declarative validation only and MUST NOT mutate entries.
func Validate(entries []Entry) error {
	byKey := make(map[string]Region, len(entries))

	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("%w: empty region key", ErrInvalidLayout)
		}
		if _, dup := byKey[e.Key]; dup {
			return fmt.Errorf("%w: duplicate region key %q", ErrInvalidLayout, e.Key)
		}
		if e.Region.HasEnd && e.Region.End < e.Region.Start {
			return fmt.Errorf(
				"%w: region %q ends at 0x%04X before it starts at 0x%04X",
				ErrInvalidLayout, e.Key, e.Region.End, e.Region.Start,
			)
		}
		byKey[e.Key] = e.Region
	}

	// ------------------------------------------------------------
	// PARENT CONTAINMENT
	// ------------------------------------------------------------

	for _, e := range entries {
		if e.Region.Parent == "" {
			continue
		}
		parent, ok := byKey[e.Region.Parent]
		if !ok {
			return fmt.Errorf("%w: region %q names unknown parent %q", ErrInvalidLayout, e.Key, e.Region.Parent)
		}
		if parent.Parent != "" {
			return fmt.Errorf("%w: region %q nests more than one level", ErrInvalidLayout, e.Key)
		}
		if !parent.Contains(e.Region) {
			return fmt.Errorf(
				"%w: region %q %s not inside parent %q %s",
				ErrInvalidLayout, e.Key, e.Region, e.Region.Parent, parent,
			)
		}
	}

	// ------------------------------------------------------------
	// SIBLING OVERLAP (inclusive, same parent only)
	// ------------------------------------------------------------

	type span struct {
		key    string
		region Region
	}

	// key = parent key ("" for top level)
	spans := make(map[string][]span)

	for _, e := range entries {
		existing := spans[e.Region.Parent]
		for _, s := range existing {
			if e.Region.Overlaps(s.region) {
				return fmt.Errorf(
					"%w: region %q %s overlaps with %q %s",
					ErrInvalidLayout, e.Key, e.Region, s.key, s.region,
				)
			}
		}
		spans[e.Region.Parent] = append(existing, span{key: e.Key, region: e.Region})
	}

	return nil
}
