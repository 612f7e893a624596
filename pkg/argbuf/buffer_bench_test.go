package argbuf_test

import (
	"testing"

	"github.com/ssargent/skald/pkg/argbuf"
	"github.com/ssargent/skald/pkg/sink"
)

func BenchmarkAppendSmallInline(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf argbuf.Buffer
		buf.AppendInt32(42)
		buf.AppendString("ok")
		buf.AppendBool(true)
	}
}

func BenchmarkAppendGrowToHeap(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf argbuf.Buffer
		for j := int64(0); j < 64; j++ {
			buf.AppendInt64(j)
		}
		buf.Release()
	}
}

func BenchmarkReplayFormat(b *testing.B) {
	var buf argbuf.Buffer
	buf.AppendInt32(42)
	buf.AppendString("the quick brown fox")
	buf.AppendFloat64(3.14159)
	buf.AppendWideString([]uint16{'w', 'i', 'd', 'e'})

	fs := sink.NewFormatSink()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fs.Reset()
		buf.Replay(fs)
	}
}

func BenchmarkReplayBytes(b *testing.B) {
	var buf argbuf.Buffer
	buf.AppendInt32(42)
	buf.AppendString("the quick brown fox")
	buf.AppendUint64(1 << 40)

	es := sink.NewEventSink()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		es.Reset()
		buf.ReplayBytes(es)
	}
}

func BenchmarkCloneHeapBacked(b *testing.B) {
	var buf argbuf.Buffer
	for j := int64(0); j < 64; j++ {
		buf.AppendInt64(j)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := buf.Clone()
		c.Release()
	}
}
