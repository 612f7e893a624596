package argbuf

import "github.com/ssargent/skald/pkg/codec"

// Clone duplicates the buffer. Heap-backed buffers share their slab with
// the clone (a reference bump, O(1)); inline buffers are copied flat, and
// when value-tier custom records are present their clone callbacks run so
// each copy owns its handles independently. Clone never fails.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{used: b.used, needsDeepCopy: b.needsDeepCopy, warn: b.warn}
	if b.heap != nil {
		b.heap.retain()
		c.heap = b.heap
		return c
	}
	copy(c.inline[:], b.inline[:b.used])
	if b.needsDeepCopy {
		cloneHandles(c.inline[:], b.inline[:], b.used)
	}
	return c
}

// Move transfers the buffer's contents into a fresh Buffer and leaves the
// receiver valid and empty. Ownership of any custom handles moves with the
// bytes, so no per-record callbacks run; moving is never more than a flat
// transfer.
func (b *Buffer) Move() *Buffer {
	c := &Buffer{used: b.used, needsDeepCopy: b.needsDeepCopy, warn: b.warn}
	if b.heap != nil {
		c.heap = b.heap
		b.heap = nil
	} else {
		copy(c.inline[:], b.inline[:b.used])
	}
	b.used = 0
	b.needsDeepCopy = false
	return c
}

// Release discards every record and returns the buffer to empty inline
// storage. Discard callbacks for value-tier custom records run only when
// this buffer is its storage's last owner; earlier owners of a shared slab
// just drop their reference and leave the bytes alone.
func (b *Buffer) Release() {
	if b.heap != nil {
		if b.heap.release() && b.needsDeepCopy {
			discardHandles(b.heap.data, b.used)
		}
		b.heap = nil
	} else if b.needsDeepCopy {
		discardHandles(b.inline[:], b.used)
	}
	b.used = 0
	b.needsDeepCopy = false
}

// cloneHandles walks dst's tag stream, which mirrors src's byte for byte,
// and re-clones each value-tier payload so dst stops aliasing handles
// owned by src. Trivial records need nothing: the flat copy already did
// the work.
func cloneHandles(dst, src []byte, used uint32) {
	for off := uint32(0); off < used; {
		rec, next := codec.Next(dst, off)
		if rec.Kind == codec.KindCustomValue {
			srcRec, _ := codec.Next(src, off)
			rec.Table.CloneInto(rec.Payload, srcRec.Payload)
		}
		off = next
	}
}

// discardHandles walks the tag stream and runs the discard callback of
// every value-tier record. Trivial records are skipped by pure offset
// arithmetic.
func discardHandles(data []byte, used uint32) {
	for off := uint32(0); off < used; {
		rec, next := codec.Next(data, off)
		if rec.Kind == codec.KindCustomValue {
			rec.Table.Discard(rec.Payload)
		}
		off = next
	}
}
