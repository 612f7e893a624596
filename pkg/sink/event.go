package sink

// Descriptor is one raw argument span, ready to hand to a binary event
// consumer. Data aliases the replayed buffer unless the producing custom
// callback chose otherwise, so descriptors must be consumed while the
// buffer is still alive and unmodified.
type Descriptor struct {
	Data []byte
}

// Len returns the descriptor's byte length.
func (d Descriptor) Len() int {
	return len(d.Data)
}

// EventSink collects one descriptor per replayed argument, in order. It
// implements codec.ByteWriter.
type EventSink struct {
	descs []Descriptor
}

// NewEventSink returns an empty event sink.
func NewEventSink() *EventSink {
	return &EventSink{}
}

// AddBytes appends one descriptor span.
func (e *EventSink) AddBytes(b []byte) {
	e.descs = append(e.descs, Descriptor{Data: b})
}

// Descriptors returns the collected spans in replay order.
func (e *EventSink) Descriptors() []Descriptor {
	return e.descs
}

// Sizes returns the byte length of every descriptor, in order.
func (e *EventSink) Sizes() []int {
	sizes := make([]int, len(e.descs))
	for i, d := range e.descs {
		sizes[i] = d.Len()
	}
	return sizes
}

// Reset clears the sink for reuse.
func (e *EventSink) Reset() {
	e.descs = e.descs[:0]
}
