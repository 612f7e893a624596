package codec

import (
	"encoding/binary"
	"fmt"
)

// Layout constants. Multi-byte management fields are little-endian.
const (
	// LenFieldSize is the width of the character-count field that string
	// records carry between the tag and the payload.
	LenFieldSize = 2

	// MaxStringLen is the largest character count the length field can
	// represent. Longer strings are clamped by the writer; the count
	// never includes the trailing terminator.
	MaxStringLen = 1<<(8*LenFieldSize) - 1

	// SIDHeaderSize covers revision, sub-authority count and the 6-byte
	// identifier authority.
	SIDHeaderSize = 8

	// TableIDFieldSize is the width of the type-table id field in custom
	// records.
	TableIDFieldSize = 4

	// GUIDSize and SystemtimeSize are the fixed payload widths of the
	// corresponding kinds.
	GUIDSize       = 16
	SystemtimeSize = 16
)

// Rec is a read-only view of one decoded record. Payload and Span alias
// the underlying buffer; they are valid only until the buffer is mutated
// or released.
type Rec struct {
	Kind Kind

	// Payload holds the value bytes. For strings this excludes the
	// terminator; for SIDs it covers header plus sub-authorities; for
	// custom kinds it is exactly Table.Size bytes.
	Payload []byte

	// Span is the full descriptor range a binary consumer would hand
	// off: for strings it includes the terminator, otherwise it equals
	// Payload.
	Span []byte

	// Units is the character count of a string record.
	Units int

	// Table is set for the three custom kinds.
	Table *TypeTable
}

// Next decodes the record whose tag byte sits at off and returns the view
// plus the offset of the following record. The tag stream fully determines
// every offset, so readers never need an index.
//
// A tag outside the registry means the buffer was not produced by this
// package's writer; that is an internal invariant violation and panics,
// since correctly written buffers cannot contain such a tag.
func Next(data []byte, off uint32) (Rec, uint32) {
	k := Kind(data[off])
	if !k.Valid() {
		panic(fmt.Sprintf("codec: invalid record tag %d at offset %d", data[off], off))
	}
	spec := kindSpecs[k]

	switch k {
	case KindString:
		n := uint32(binary.LittleEndian.Uint16(data[off+1:]))
		payload := off + 1 + LenFieldSize
		next := payload + n + 1
		return Rec{
			Kind:    k,
			Payload: data[payload : payload+n],
			Span:    data[payload:next],
			Units:   int(n),
		}, next

	case KindWideString:
		n := uint32(binary.LittleEndian.Uint16(data[off+1:]))
		payload := off + 1 + LenFieldSize
		payload += Padding(payload, spec.Align)
		next := payload + 2*n + 2
		return Rec{
			Kind:    k,
			Payload: data[payload : payload+2*n],
			Span:    data[payload:next],
			Units:   int(n),
		}, next

	case KindSID:
		header := off + 1
		header += Padding(header, spec.Align)
		count := uint32(data[header+1])
		next := header + SIDHeaderSize + 4*count
		span := data[header:next]
		return Rec{Kind: k, Payload: span, Span: span}, next

	case KindCustomPOD, KindCustomValue, KindCustomShared:
		idOff := off + 1
		idOff += Padding(idOff, spec.Align)
		table := tableByID(binary.LittleEndian.Uint32(data[idOff:]))
		payload := idOff + TableIDFieldSize
		payload += Padding(payload, table.align)
		next := payload + table.size
		p := data[payload:next]
		return Rec{Kind: k, Payload: p, Span: p, Table: table}, next

	default:
		payload := off + 1
		payload += Padding(payload, spec.Align)
		next := payload + spec.Size
		p := data[payload:next]
		return Rec{Kind: k, Payload: p, Span: p}, next
	}
}
