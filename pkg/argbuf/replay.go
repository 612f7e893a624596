package argbuf

import (
	"encoding/binary"
	"math"

	"github.com/ssargent/skald/pkg/codec"
)

// Sink receives decoded arguments during typed replay, one call per
// record, in append order. String views alias the buffer and must be
// consumed before the buffer is mutated or released.
type Sink interface {
	AddBool(v bool)
	AddChar(v byte)
	AddWideChar(v uint16)
	AddInt8(v int8)
	AddInt16(v int16)
	AddInt32(v int32)
	AddInt64(v int64)
	AddUint8(v uint8)
	AddUint16(v uint16)
	AddUint32(v uint32)
	AddUint64(v uint64)
	AddFloat32(v float32)
	AddFloat64(v float64)
	AddPointer(v uintptr)

	// AddString receives the UTF-8 bytes of a narrow string, without
	// the terminator.
	AddString(view []byte)

	// AddWideString receives the little-endian UTF-16 bytes of a wide
	// string, without the terminator.
	AddWideString(view []byte)

	AddGUID(v codec.GUID)
	AddFiletime(v codec.Filetime)
	AddSystemtime(v codec.Systemtime)
	AddSID(v codec.SID)

	// AddCustom hands over a custom record's table and payload; the
	// sink picks the callback matching its flavor.
	AddCustom(t *codec.TypeTable, payload []byte)
}

// Replay walks every record in append order and pushes its decoded value
// into the sink. The traversal is a pure read: it never touches storage,
// size or flags, so replaying twice yields identical sequences.
func (b *Buffer) Replay(s Sink) {
	data := b.bytes()
	for off := uint32(0); off < b.used; {
		rec, next := codec.Next(data, off)
		switch rec.Kind {
		case codec.KindBool:
			s.AddBool(rec.Payload[0] != 0)
		case codec.KindChar:
			s.AddChar(rec.Payload[0])
		case codec.KindWideChar:
			s.AddWideChar(binary.LittleEndian.Uint16(rec.Payload))
		case codec.KindInt8:
			s.AddInt8(int8(rec.Payload[0]))
		case codec.KindInt16:
			s.AddInt16(int16(binary.LittleEndian.Uint16(rec.Payload)))
		case codec.KindInt32:
			s.AddInt32(int32(binary.LittleEndian.Uint32(rec.Payload)))
		case codec.KindInt64:
			s.AddInt64(int64(binary.LittleEndian.Uint64(rec.Payload)))
		case codec.KindUint8:
			s.AddUint8(rec.Payload[0])
		case codec.KindUint16:
			s.AddUint16(binary.LittleEndian.Uint16(rec.Payload))
		case codec.KindUint32:
			s.AddUint32(binary.LittleEndian.Uint32(rec.Payload))
		case codec.KindUint64:
			s.AddUint64(binary.LittleEndian.Uint64(rec.Payload))
		case codec.KindFloat32:
			s.AddFloat32(math.Float32frombits(binary.LittleEndian.Uint32(rec.Payload)))
		case codec.KindFloat64:
			s.AddFloat64(math.Float64frombits(binary.LittleEndian.Uint64(rec.Payload)))
		case codec.KindPointer:
			s.AddPointer(uintptr(binary.LittleEndian.Uint64(rec.Payload)))
		case codec.KindString:
			s.AddString(rec.Payload)
		case codec.KindWideString:
			s.AddWideString(rec.Payload)
		case codec.KindGUID:
			s.AddGUID(codec.DecodeGUID(rec.Payload))
		case codec.KindFiletime:
			s.AddFiletime(codec.Filetime(binary.LittleEndian.Uint64(rec.Payload)))
		case codec.KindSystemtime:
			s.AddSystemtime(codec.DecodeSystemtime(rec.Payload))
		case codec.KindSID:
			s.AddSID(codec.DecodeSID(rec.Payload))
		case codec.KindCustomPOD, codec.KindCustomValue, codec.KindCustomShared:
			s.AddCustom(rec.Table, rec.Payload)
		}
		off = next
	}
}

// ReplayBytes walks every record in append order and pushes its raw
// descriptor span into the writer: payload bytes for fixed kinds, payload
// plus terminator for strings, header plus sub-authorities for SIDs.
// Spans alias the buffer and stay valid until it is mutated or released.
// Custom records go through their table's event callback instead.
func (b *Buffer) ReplayBytes(w codec.ByteWriter) {
	data := b.bytes()
	for off := uint32(0); off < b.used; {
		rec, next := codec.Next(data, off)
		switch rec.Kind {
		case codec.KindCustomPOD, codec.KindCustomValue, codec.KindCustomShared:
			rec.Table.AppendEvent(rec.Payload, w)
		default:
			w.AddBytes(rec.Span)
		}
		off = next
	}
}
