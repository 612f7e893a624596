package argbuf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ssargent/skald/pkg/codec"
)

// Buffer accumulates a sequence of typed log arguments as self-describing
// binary records. Small argument sets live entirely in the inline array;
// once that overflows, storage moves to a reference-counted heap slab and
// never returns to inline except through Release or Move.
//
// The zero value is an empty, usable buffer. A Buffer must not be copied
// by assignment; use Clone or Move, which keep the storage reference count
// honest. A single Buffer is not safe for concurrent mutation.
type Buffer struct {
	used          uint32
	needsDeepCopy bool
	heap          *slab
	warn          WarnFunc
	inline        [InlineCapacity]byte
}

// SetWarn installs the collaborator that receives truncation warnings.
func (b *Buffer) SetWarn(fn WarnFunc) {
	b.warn = fn
}

// Size returns the number of encoded bytes currently held.
func (b *Buffer) Size() uint32 {
	return b.used
}

// Empty reports whether the buffer holds no records.
func (b *Buffer) Empty() bool {
	return b.used == 0
}

// OnHeap reports whether storage has spilled out of the inline array.
func (b *Buffer) OnHeap() bool {
	return b.heap != nil
}

func (b *Buffer) bytes() []byte {
	if b.heap != nil {
		return b.heap.data
	}
	return b.inline[:]
}

// reserve returns backing storage with room for n more bytes past used,
// growing onto (or within) the heap as needed. It panics with ErrTooLarge
// when the post-growth total would not fit the size field, and with
// ErrSharedMutation when the active slab is shared with a live clone.
//
// forceHeap sends the record straight to heap storage even if the inline
// array has room; shared-handle custom types use it so that cloning a
// buffer holding them is always a slab reference bump.
func (b *Buffer) reserve(n uint64, forceHeap bool) []byte {
	total := uint64(b.used) + n
	if total > maxSize {
		panic(ErrTooLarge)
	}
	if b.heap == nil {
		if !forceHeap && total <= InlineCapacity {
			return b.inline[:]
		}
	} else {
		if b.heap.shared() {
			panic(ErrSharedMutation)
		}
		if total <= uint64(len(b.heap.data)) {
			return b.heap.data
		}
	}

	// Grow to the next chunk boundary and transfer the existing bytes.
	// Handle-bearing payloads move with their bytes, so the transfer is
	// a flat copy regardless of content.
	size := (total + growthChunk - 1) / growthChunk * growthChunk
	if size > math.MaxUint32 {
		size = math.MaxUint32
	}
	s := newSlab(uint32(size))
	copy(s.data, b.bytes()[:b.used])
	if b.heap != nil {
		b.heap.release()
	}
	b.heap = s
	return s.data
}

// appendFixed writes the tag and padding for a fixed-size kind and returns
// the payload slice to fill in.
func (b *Buffer) appendFixed(k codec.Kind) []byte {
	spec := codec.SpecOf(k)
	pad := codec.Padding(b.used+1, spec.Align)
	total := 1 + pad + spec.Size
	data := b.reserve(uint64(total), false)
	data[b.used] = byte(k)
	start := b.used + 1 + pad
	b.used += total
	return data[start : start+spec.Size]
}

// AppendBool appends a boolean argument.
func (b *Buffer) AppendBool(v bool) {
	p := b.appendFixed(codec.KindBool)
	if v {
		p[0] = 1
	} else {
		p[0] = 0
	}
}

// AppendChar appends a single byte character.
func (b *Buffer) AppendChar(v byte) {
	b.appendFixed(codec.KindChar)[0] = v
}

// AppendWideChar appends a single UTF-16 code unit.
func (b *Buffer) AppendWideChar(v uint16) {
	binary.LittleEndian.PutUint16(b.appendFixed(codec.KindWideChar), v)
}

// AppendInt8 appends an int8 argument.
func (b *Buffer) AppendInt8(v int8) {
	b.appendFixed(codec.KindInt8)[0] = byte(v)
}

// AppendInt16 appends an int16 argument.
func (b *Buffer) AppendInt16(v int16) {
	binary.LittleEndian.PutUint16(b.appendFixed(codec.KindInt16), uint16(v))
}

// AppendInt32 appends an int32 argument.
func (b *Buffer) AppendInt32(v int32) {
	binary.LittleEndian.PutUint32(b.appendFixed(codec.KindInt32), uint32(v))
}

// AppendInt64 appends an int64 argument.
func (b *Buffer) AppendInt64(v int64) {
	binary.LittleEndian.PutUint64(b.appendFixed(codec.KindInt64), uint64(v))
}

// AppendUint8 appends a uint8 argument.
func (b *Buffer) AppendUint8(v uint8) {
	b.appendFixed(codec.KindUint8)[0] = v
}

// AppendUint16 appends a uint16 argument.
func (b *Buffer) AppendUint16(v uint16) {
	binary.LittleEndian.PutUint16(b.appendFixed(codec.KindUint16), v)
}

// AppendUint32 appends a uint32 argument.
func (b *Buffer) AppendUint32(v uint32) {
	binary.LittleEndian.PutUint32(b.appendFixed(codec.KindUint32), v)
}

// AppendUint64 appends a uint64 argument.
func (b *Buffer) AppendUint64(v uint64) {
	binary.LittleEndian.PutUint64(b.appendFixed(codec.KindUint64), v)
}

// AppendFloat32 appends a float32 argument.
func (b *Buffer) AppendFloat32(v float32) {
	binary.LittleEndian.PutUint32(b.appendFixed(codec.KindFloat32), math.Float32bits(v))
}

// AppendFloat64 appends a float64 argument.
func (b *Buffer) AppendFloat64(v float64) {
	binary.LittleEndian.PutUint64(b.appendFixed(codec.KindFloat64), math.Float64bits(v))
}

// AppendPointer appends a raw pointer value, recorded as its address.
func (b *Buffer) AppendPointer(v uintptr) {
	binary.LittleEndian.PutUint64(b.appendFixed(codec.KindPointer), uint64(v))
}

// AppendGUID appends a GUID argument.
func (b *Buffer) AppendGUID(v codec.GUID) {
	codec.PutGUID(b.appendFixed(codec.KindGUID), v)
}

// AppendFiletime appends a Filetime argument.
func (b *Buffer) AppendFiletime(v codec.Filetime) {
	binary.LittleEndian.PutUint64(b.appendFixed(codec.KindFiletime), uint64(v))
}

// AppendSystemtime appends a Systemtime argument.
func (b *Buffer) AppendSystemtime(v codec.Systemtime) {
	codec.PutSystemtime(b.appendFixed(codec.KindSystemtime), v)
}

// AppendString appends a UTF-8 string argument. Strings longer than
// codec.MaxStringLen characters are clamped; the loss is reported once
// through the warning collaborator and is otherwise not an error. The
// stored record gains a terminator byte not counted in its length.
func (b *Buffer) AppendString(s string) {
	n := len(s)
	if n > codec.MaxStringLen {
		n = codec.MaxStringLen
		b.warnTruncated("string", len(s))
	}
	total := uint32(1 + codec.LenFieldSize + n + 1)
	data := b.reserve(uint64(total), false)
	off := b.used
	data[off] = byte(codec.KindString)
	binary.LittleEndian.PutUint16(data[off+1:], uint16(n))
	copy(data[off+1+codec.LenFieldSize:], s[:n])
	data[off+1+codec.LenFieldSize+uint32(n)] = 0
	b.used += total
}

// AppendWideString appends a UTF-16 string argument, with the same
// clamping rule as AppendString. The terminator is a zero code unit.
func (b *Buffer) AppendWideString(units []uint16) {
	n := len(units)
	if n > codec.MaxStringLen {
		n = codec.MaxStringLen
		b.warnTruncated("wide string", len(units))
	}
	lenOff := b.used + 1
	payloadOff := lenOff + codec.LenFieldSize
	pad := codec.Padding(payloadOff, 2)
	total := 1 + codec.LenFieldSize + pad + 2*uint32(n) + 2
	data := b.reserve(uint64(total), false)
	data[b.used] = byte(codec.KindWideString)
	binary.LittleEndian.PutUint16(data[lenOff:], uint16(n))
	p := payloadOff + pad
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(data[p+2*uint32(i):], units[i])
	}
	binary.LittleEndian.PutUint16(data[p+2*uint32(n):], 0)
	b.used += total
}

// AppendSID appends a security identifier. The sub-authority count is
// stored only inside the SID header; readers recover the record length
// from it. A SID with more than codec.MaxSubAuthorities sub-authorities is
// malformed and panics.
func (b *Buffer) AppendSID(v codec.SID) {
	if len(v.SubAuthorities) > codec.MaxSubAuthorities {
		panic(fmt.Sprintf("argbuf: SID with %d sub-authorities", len(v.SubAuthorities)))
	}
	spec := codec.SpecOf(codec.KindSID)
	pad := codec.Padding(b.used+1, spec.Align)
	total := 1 + pad + v.EncodedSize()
	data := b.reserve(uint64(total), false)
	data[b.used] = byte(codec.KindSID)
	codec.PutSID(data[b.used+1+pad:], v)
	b.used += total
}

// AppendCustom appends a custom-type argument through its registered
// table. The payload must be exactly the table's declared size; value
// tables mark the buffer as needing deep copies, shared tables force heap
// storage so later clones stay reference bumps.
func (b *Buffer) AppendCustom(t *codec.TypeTable, payload []byte) {
	if uint32(len(payload)) != t.Size() {
		panic(fmt.Sprintf("argbuf: payload for %q is %d bytes, table declares %d",
			t.Name(), len(payload), t.Size()))
	}
	spec := codec.SpecOf(t.Kind())
	pad := codec.Padding(b.used+1, spec.Align)
	idOff := b.used + 1 + pad
	payloadPad := codec.Padding(idOff+codec.TableIDFieldSize, t.Align())
	total := 1 + pad + codec.TableIDFieldSize + payloadPad + t.Size()

	data := b.reserve(uint64(total), t.Kind() == codec.KindCustomShared)
	data[b.used] = byte(t.Kind())
	binary.LittleEndian.PutUint32(data[idOff:], t.ID())
	copy(data[idOff+codec.TableIDFieldSize+payloadPad:], payload)
	if t.Kind() == codec.KindCustomValue {
		b.needsDeepCopy = true
	}
	b.used += total
}

func (b *Buffer) warnTruncated(what string, have int) {
	if b.warn != nil {
		b.warn(fmt.Sprintf("%s argument truncated from %d to %d characters",
			what, have, codec.MaxStringLen))
	}
}
