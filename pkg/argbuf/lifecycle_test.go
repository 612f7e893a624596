package argbuf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/skald/pkg/argbuf"
	"github.com/ssargent/skald/pkg/sink"
)

func TestCloneInlineDeepCopiesHandles(t *testing.T) {
	before := blobCount()

	var b argbuf.Buffer
	b.AppendInt32(7)
	b.AppendCustom(blobTable, newBlobPayload("payload"))
	require.False(t, b.OnHeap())
	require.Equal(t, before+1, blobCount())

	c := b.Clone()
	require.Equal(t, before+2, blobCount(), "inline clone duplicates owned handles")

	// Destroying the original must not affect the clone.
	b.Release()
	require.Equal(t, before+1, blobCount())

	fs := sink.NewFormatSink()
	c.Replay(fs)
	assert.Equal(t, []string{"7", "payload"}, fs.Args())

	c.Release()
	assert.Equal(t, before, blobCount(), "no cells leak after both owners release")
}

func TestCloneHeapSharesStorage(t *testing.T) {
	before := blobCount()

	var b argbuf.Buffer
	for i := 0; i < 32; i++ {
		b.AppendInt64(int64(i))
	}
	b.AppendCustom(blobTable, newBlobPayload("heap"))
	require.True(t, b.OnHeap())
	require.Equal(t, before+1, blobCount())

	c := b.Clone()
	assert.Equal(t, before+1, blobCount(), "heap clone shares the slab, no handle duplication")

	// The first release just drops a reference; the bytes and the handle
	// stay live for the surviving owner.
	b.Release()
	require.Equal(t, before+1, blobCount())

	fs := sink.NewFormatSink()
	c.Replay(fs)
	require.Len(t, fs.Args(), 33)
	assert.Equal(t, "heap", fs.Args()[32])

	c.Release()
	assert.Equal(t, before, blobCount(), "last owner runs the discard walk")
}

func TestMoveLeavesSourceEmpty(t *testing.T) {
	before := blobCount()

	var b argbuf.Buffer
	b.AppendString("moved")
	b.AppendCustom(blobTable, newBlobPayload("owned"))

	m := b.Move()
	assert.True(t, b.Empty())
	assert.Zero(t, b.Size())
	require.Equal(t, before+1, blobCount(), "moving transfers handles without duplication")

	// The moved-from buffer's release must be a no-op for the handle.
	b.Release()
	require.Equal(t, before+1, blobCount())

	fs := sink.NewFormatSink()
	m.Replay(fs)
	assert.Equal(t, []string{"moved", "owned"}, fs.Args())

	m.Release()
	assert.Equal(t, before, blobCount())
}

func TestMoveHeapTransfersSlab(t *testing.T) {
	var b argbuf.Buffer
	for i := 0; i < 64; i++ {
		b.AppendInt64(int64(i))
	}
	require.True(t, b.OnHeap())

	m := b.Move()
	assert.False(t, b.OnHeap())
	assert.True(t, b.Empty())
	assert.True(t, m.OnHeap())

	// The source is immediately reusable.
	b.AppendInt32(1)
	fs := sink.NewFormatSink()
	b.Replay(fs)
	assert.Equal(t, []string{"1"}, fs.Args())

	fs.Reset()
	m.Replay(fs)
	assert.Len(t, fs.Args(), 64)

	b.Release()
	m.Release()
}

func TestReleaseReturnsToInline(t *testing.T) {
	var b argbuf.Buffer
	for i := 0; i < 64; i++ {
		b.AppendInt64(int64(i))
	}
	require.True(t, b.OnHeap())

	b.Release()
	assert.False(t, b.OnHeap())
	assert.True(t, b.Empty())

	// A released buffer accepts appends again from inline storage.
	b.AppendInt32(9)
	assert.False(t, b.OnHeap())
	b.Release()
}

func TestCloneCarriesWarnCollaborator(t *testing.T) {
	warnings := 0

	var b argbuf.Buffer
	b.SetWarn(func(string) { warnings++ })
	c := b.Clone()
	defer b.Release()
	defer c.Release()

	c.AppendString(string(make([]byte, 70000)))
	assert.Equal(t, 1, warnings)
}
