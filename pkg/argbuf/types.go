package argbuf

// Storage tuning. The inline capacity keeps a small argument set free of
// heap allocation; growth happens in fixed chunks so repeated appends
// reallocate rarely.
const (
	// InlineCapacity is the byte capacity embedded directly in a Buffer.
	InlineCapacity = 120

	// growthChunk is the allocation granularity for heap storage.
	growthChunk = 512

	// maxSize is the largest byte count the buffer's size field can
	// represent.
	maxSize = 1<<32 - 1
)

// WarnFunc receives recoverable data-loss warnings, currently only string
// truncation. A nil WarnFunc silently drops them.
type WarnFunc func(msg string)

// Errors carried by panics. Both conditions signal misuse rather than
// runtime failures and are not meant to be recovered in normal operation.
var (
	// ErrTooLarge reports a single record whose encoding would push the
	// buffer past the maximum representable size.
	ErrTooLarge = &BufferError{"record exceeds maximum buffer size"}

	// ErrSharedMutation reports an append against heap storage that is
	// still shared with another live clone.
	ErrSharedMutation = &BufferError{"append to shared heap storage"}
)

// BufferError represents an argument buffer contract violation.
type BufferError struct {
	Message string
}

func (e *BufferError) Error() string {
	return "argbuf: " + e.Message
}
