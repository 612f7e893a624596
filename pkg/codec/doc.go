// Package codec defines the binary record format for skald argument buffers.
//
// An argument buffer is a flat byte stream of self-describing records, one
// per logged argument. The codec package owns the vocabulary of that stream:
// the Kind enum, the per-kind size and alignment specs, the padding
// arithmetic, and the traversal primitive Next that walks a stream one
// record at a time.
//
// # Record Format
//
// Every record starts with a single tag byte holding the Kind. What follows
// depends on the kind:
//
//	fixed-size kinds:   [Tag(1)][Padding][Payload(Spec.Size)]
//	strings:            [Tag(1)][Length(2)][Payload(Length)][Terminator(1)]
//	wide strings:       [Tag(1)][Length(2)][Padding][Payload(2*Length)][Terminator(2)]
//	SIDs:               [Tag(1)][Padding][Header(8)][SubAuthorities(4*count)]
//	custom kinds:       [Tag(1)][Padding][TableID(4)][Padding][Payload(table size)]
//
// All multi-byte fields are little-endian. Padding bytes realign the stream
// to the payload's natural alignment; their count is fully determined by the
// current offset and the kind's alignment, so a reader never needs to store
// it. String length fields count characters excluding the terminator, which
// caps a single string payload at 65535 characters.
//
// Because each record declares its own kind and the kind determines the
// record's extent, a stream can be traversed without any table of contents.
// Decoding is zero-copy: Next returns subslices of the input.
//
// # Custom Types
//
// Kinds beyond the built-in set are handled through TypeTable, a statically
// registered bundle of callbacks (text rendering, event encoding, optional
// clone and discard hooks) keyed by a registry id stored in the record.
// Registration happens once at startup; lookups during traversal are
// read-locked and cheap.
//
// # Error Handling
//
// Malformed streams are programming errors, not recoverable conditions:
// traversal panics on an invalid tag or an unregistered table id. Anything
// that appended to a buffer through the argbuf package cannot produce such
// a stream.
package codec
