package codec_test

import (
	"encoding/binary"
	"fmt"

	"github.com/ssargent/skald/pkg/codec"
)

// ExampleNext walks a two-record stream built by hand: an int32 followed
// by a narrow string.
func ExampleNext() {
	data := make([]byte, 14)
	data[0] = byte(codec.KindInt32)
	binary.LittleEndian.PutUint32(data[4:], 42)
	data[8] = byte(codec.KindString)
	binary.LittleEndian.PutUint16(data[9:], 2)
	copy(data[11:], "hi")

	rec, next := codec.Next(data, 0)
	fmt.Println(rec.Kind, binary.LittleEndian.Uint32(rec.Payload))

	rec, next = codec.Next(data, next)
	fmt.Println(rec.Kind, string(rec.Payload), next)

	// Output:
	// int32 42
	// string hi 14
}

func ExamplePadding() {
	// A tag byte at offset 0 leaves the next free byte at offset 1; a
	// 4-byte-aligned payload needs three filler bytes to land on 4.
	fmt.Println(codec.Padding(1, 4))
	fmt.Println(codec.Padding(8, 4))

	// Output:
	// 3
	// 0
}

func ExampleParseGUID() {
	g, err := codec.ParseGUID("6b29fc40-ca47-1067-b31d-00dd010662da")
	if err != nil {
		panic(err)
	}
	fmt.Printf("%08x\n", g.Data1)
	fmt.Println(g)

	// Output:
	// 6b29fc40
	// 6b29fc40-ca47-1067-b31d-00dd010662da
}

func ExampleParseSID() {
	sid, err := codec.ParseSID("S-1-5-32-544")
	if err != nil {
		panic(err)
	}
	fmt.Println(len(sid.SubAuthorities), sid.EncodedSize())
	fmt.Println(sid)

	// Output:
	// 2 16
	// S-1-5-32-544
}
