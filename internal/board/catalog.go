// internal/board/catalog.go
package board

import "fmt"

// Address maps of the two A1 boards, from the service manual schematics.

var a1_66501 = []Entry{
	{Key: "U503", Region: Span("8KiB 8-bit NMOS ROM", 0x6000, 0x7FFF, ReadOnly)},
	{Key: "U502", Region: Span("32KiB 8-bit EPROM", 0x8000, 0xFFFF, ReadOnly)},
	{Key: "U506", Region: Span("2KiB 8-bit RAM", 0x4800, 0x4FFF, ReadWrite)},
	{Key: "U511", Region: Span("2KiB 8-bit SRAM, 0.5KiB protected", 0x5000, 0x57FF, Composite)},
	{Key: "U511_RAM", Region: Span("1.5KiB 8-bit RAM in U511", 0x5000, 0x55FF, ReadWrite).Within("U511")},
	{Key: "U511_CAL_RAM", Region: Span("0.5KiB 8-bit CAL-RAM in U511", 0x5600, 0x57FF, WriteProtected).Within("U511")},
}

var a1_66511 = []Entry{
	{Key: "U602", Region: Span("64KiB 8-bit EPROM, 56KiB addressable", 0x2000, 0xFFFF, ReadOnly)},
	{Key: "U603", Region: Span("8KiB 8-bit SRAM, 8128 bytes addressable, 0.5KiB protected", 0x0040, 0x1FFF, Composite)},
	{Key: "U603_CAL_RAM", Region: Span("448 bytes 8-bit CAL-RAM in U603", 0x0040, 0x01FF, WriteProtected).Within("U603")},
	{Key: "U603_RAM", Region: Span("7.5KiB 8-bit SRAM in U603", 0x0200, 0x1FFF, ReadWrite).Within("U603")},
}

var catalog = map[ID]*Board{
	A1_66501: mustBoard(A1_66501, a1_66501),
	A1_66511: mustBoard(A1_66511, a1_66511),
}

func mustBoard(id ID, entries []Entry) *Board {
	b, err := newBoard(id, entries)
	if err != nil {
		panic(err)
	}
	return b
}

// For returns the region table of a known board.
func For(id ID) (*Board, error) {
	b, ok := catalog[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBoard, id)
	}
	return b, nil
}

// Known returns every catalogued board in ID order.
func Known() []*Board {
	return []*Board{catalog[A1_66501], catalog[A1_66511]}
}
