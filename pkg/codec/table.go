package codec

import (
	"fmt"
	"sync"
)

// TextWriter receives rendered text fragments from a custom type's
// format callback.
type TextWriter interface {
	AddText(s string)
}

// ByteWriter receives raw descriptor spans from a custom type's event
// callback.
type ByteWriter interface {
	AddBytes(b []byte)
}

// Callback signatures for custom types. The payload slice is exactly the
// table's Size bytes and aliases the owning buffer.
type (
	// TextFunc renders the payload for a text consumer.
	TextFunc func(payload []byte, w TextWriter)

	// EventFunc pushes the payload's descriptor form for a binary
	// consumer.
	EventFunc func(payload []byte, w ByteWriter)

	// CloneFunc duplicates the value encoded in src into dst. dst holds
	// a flat copy of src when the callback runs; value types that encode
	// owned handles replace the handle with a fresh one.
	CloneFunc func(dst, src []byte)

	// DiscardFunc releases whatever the payload's handle owns.
	DiscardFunc func(payload []byte)
)

// TypeTable is the immutable per-type callback table referenced from
// custom records. One table is registered per concrete type and shared by
// every record of that type; records store only the table's id.
type TypeTable struct {
	id      uint32
	name    string
	kind    Kind
	size    uint32
	align   uint32
	text    TextFunc
	event   EventFunc
	clone   CloneFunc
	discard DiscardFunc
}

// ID returns the registry id stored inside records of this type.
func (t *TypeTable) ID() uint32 { return t.id }

// Name returns the type's registered name.
func (t *TypeTable) Name() string { return t.name }

// Kind returns the custom tag records of this type carry.
func (t *TypeTable) Kind() Kind { return t.kind }

// Size returns the payload width in bytes.
func (t *TypeTable) Size() uint32 { return t.size }

// Align returns the payload's alignment requirement.
func (t *TypeTable) Align() uint32 { return t.align }

// AppendText renders payload through the type's text callback.
func (t *TypeTable) AppendText(payload []byte, w TextWriter) {
	t.text(payload, w)
}

// AppendEvent pushes payload through the type's event callback.
func (t *TypeTable) AppendEvent(payload []byte, w ByteWriter) {
	t.event(payload, w)
}

// CloneInto runs the type's clone callback. dst must already hold a flat
// copy of src. No-op for types without one.
func (t *TypeTable) CloneInto(dst, src []byte) {
	if t.clone != nil {
		t.clone(dst, src)
	}
}

// Discard runs the type's discard callback, if any.
func (t *TypeTable) Discard(payload []byte) {
	if t.discard != nil {
		t.discard(payload)
	}
}

var registry struct {
	mu     sync.RWMutex
	tables []*TypeTable
	byName map[string]*TypeTable
}

// RegisterPODType registers a table for a type whose payload is plain
// bytes: flat-copyable, nothing to release. Registration is expected at
// package init time; registering a duplicate name or an invalid layout
// panics.
func RegisterPODType(name string, size, align uint32, text TextFunc, event EventFunc) *TypeTable {
	return register(&TypeTable{
		name:  name,
		kind:  KindCustomPOD,
		size:  size,
		align: align,
		text:  text,
		event: event,
	})
}

// RegisterValueType registers a table for a type whose payload encodes an
// owned handle. The clone callback runs whenever a buffer holding such a
// record is duplicated, and discard runs when the last owner releases it.
func RegisterValueType(name string, size, align uint32, text TextFunc, event EventFunc, clone CloneFunc, discard DiscardFunc) *TypeTable {
	if clone == nil || discard == nil {
		panic(fmt.Sprintf("codec: value type %q needs clone and discard callbacks", name))
	}
	return register(&TypeTable{
		name:    name,
		kind:    KindCustomValue,
		size:    size,
		align:   align,
		text:    text,
		event:   event,
		clone:   clone,
		discard: discard,
	})
}

// RegisterSharedType registers a table for a type whose payload encodes a
// handle that may be freely shared between buffer copies (immutable or
// externally owned). Buffers holding such records are placed on heap
// storage immediately so duplication stays a reference-count bump.
func RegisterSharedType(name string, size, align uint32, text TextFunc, event EventFunc) *TypeTable {
	return register(&TypeTable{
		name:  name,
		kind:  KindCustomShared,
		size:  size,
		align: align,
		text:  text,
		event: event,
	})
}

func register(t *TypeTable) *TypeTable {
	if t.name == "" {
		panic("codec: type table needs a name")
	}
	if t.size == 0 {
		panic(fmt.Sprintf("codec: type %q has zero size", t.name))
	}
	if t.align == 0 || t.align > 8 || t.align&(t.align-1) != 0 {
		panic(fmt.Sprintf("codec: type %q has unsupported alignment %d", t.name, t.align))
	}
	if t.text == nil || t.event == nil {
		panic(fmt.Sprintf("codec: type %q needs text and event callbacks", t.name))
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.byName == nil {
		registry.byName = make(map[string]*TypeTable)
	}
	if _, dup := registry.byName[t.name]; dup {
		panic(fmt.Sprintf("codec: type %q registered twice", t.name))
	}
	t.id = uint32(len(registry.tables) + 1)
	registry.tables = append(registry.tables, t)
	registry.byName[t.name] = t
	return t
}

// LookupTable returns the table registered under name, or nil.
func LookupTable(name string) *TypeTable {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.byName[name]
}

func tableByID(id uint32) *TypeTable {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	if id == 0 || int(id) > len(registry.tables) {
		panic(fmt.Sprintf("codec: unknown type table id %d", id))
	}
	return registry.tables[id-1]
}
