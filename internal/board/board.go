// internal/board/board.go
package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ID identifies one of the known A1 main controller assemblies.
type ID uint8

const (
	A1_66501 ID = iota + 1 // older ROM-only board, no POKE
	A1_66511               // combined ROM, CAL-RAM inside U603
)

// ErrUnknownBoard is returned for an ID or name outside the catalog.
var ErrUnknownBoard = errors.New("board: unknown board")

func (id ID) String() string {
	switch id {
	case A1_66501:
		return "03457-66501"
	case A1_66511:
		return "03457-66511"
	default:
		return fmt.Sprintf("board(%d)", uint8(id))
	}
}

// ParseID accepts "03457-66501" or "03457_66501" style names.
func ParseID(s string) (ID, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	for _, id := range []ID{A1_66501, A1_66511} {
		if norm == id.String() {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBoard, s)
}

// Entry is one named region of a board.
type Entry struct {
	Key    string
	Region Region
}

// Board is an immutable, ordered region table.
type Board struct {
	id      ID
	entries []Entry
	byKey   map[string]int
}

// ID returns the board identity.
func (b *Board) ID() ID { return b.id }

// Name returns the HP part number.
func (b *Board) Name() string { return b.id.String() }

// Entries returns a copy of the ordered region table.
func (b *Board) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Keys returns region keys in display order.
func (b *Board) Keys() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Key
	}
	return out
}

// Lookup finds a region by key.
func (b *Board) Lookup(key string) (Region, bool) {
	i, ok := b.byKey[key]
	if !ok {
		return Region{}, false
	}
	return b.entries[i].Region, true
}

// Children returns the entries nested directly under key.
func (b *Board) Children(key string) []Entry {
	var out []Entry
	for _, e := range b.entries {
		if e.Region.Parent == key {
			out = append(out, e)
		}
	}
	return out
}

// CalRAM returns the write-protected calibration region.
func (b *Board) CalRAM() (Entry, bool) {
	for _, e := range b.entries {
		if e.Region.Protection == WriteProtected {
			return e, true
		}
	}
	return Entry{}, false
}

// Sort orders entries by Region.Less, keeping input order on full ties.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Region.Less(entries[j].Region)
	})
}

// newBoard validates and orders a region table.
func newBoard(id ID, entries []Entry) (*Board, error) {
	if err := Validate(entries); err != nil {
		return nil, fmt.Errorf("board %s: %w", id, err)
	}
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	Sort(sorted)

	b := &Board{id: id, entries: sorted, byKey: make(map[string]int, len(sorted))}
	for i, e := range sorted {
		b.byKey[e.Key] = i
	}
	return b, nil
}
