package argbuf

import "sync/atomic"

// slab is the reference-counted heap backing array shared between clones
// of a heap-backed Buffer. Sharing is what keeps Buffer duplication O(1);
// the count is inspected before any in-place mutation, so a shared slab is
// effectively read-only.
type slab struct {
	refs atomic.Int32
	data []byte
}

func newSlab(size uint32) *slab {
	s := &slab{data: make([]byte, size)}
	s.refs.Store(1)
	return s
}

func (s *slab) retain() {
	s.refs.Add(1)
}

// release drops one reference and reports whether the caller was the last
// owner. The bytes stay reachable by the caller, so a last owner may still
// walk them to run discard callbacks.
func (s *slab) release() bool {
	return s.refs.Add(-1) == 0
}

func (s *slab) shared() bool {
	return s.refs.Load() > 1
}
