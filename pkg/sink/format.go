// Package sink provides the two consumer flavors an argument buffer can
// replay into: FormatSink renders arguments as text for pattern
// substitution, EventSink collects raw byte descriptors for binary event
// consumers.
package sink

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/ssargent/skald/pkg/codec"
)

// FormatSink collects one rendered text fragment per replayed argument
// and substitutes them into a positional pattern. It implements the
// buffer's typed sink contract and codec.TextWriter.
type FormatSink struct {
	parts []string
}

// NewFormatSink returns an empty format sink.
func NewFormatSink() *FormatSink {
	return &FormatSink{}
}

// AddText appends a pre-rendered fragment. Custom type callbacks land here.
func (f *FormatSink) AddText(s string) {
	f.parts = append(f.parts, s)
}

// AddBool records a boolean argument.
func (f *FormatSink) AddBool(v bool) {
	f.AddText(strconv.FormatBool(v))
}

// AddChar records a single byte character.
func (f *FormatSink) AddChar(v byte) {
	if v >= 0x20 && v < 0x7f {
		f.AddText(string(v))
		return
	}
	f.AddText(fmt.Sprintf("\\x%02x", v))
}

// AddWideChar records a single UTF-16 code unit. Printable ASCII passes
// through directly; everything else is transcoded to UTF-8, with lone
// surrogates replaced.
func (f *FormatSink) AddWideChar(v uint16) {
	if v >= 0x20 && v < 0x7f {
		f.AddText(string(byte(v)))
		return
	}
	f.AddText(string(utf16.Decode([]uint16{v})))
}

// AddInt8 records an int8 argument.
func (f *FormatSink) AddInt8(v int8) { f.AddText(strconv.FormatInt(int64(v), 10)) }

// AddInt16 records an int16 argument.
func (f *FormatSink) AddInt16(v int16) { f.AddText(strconv.FormatInt(int64(v), 10)) }

// AddInt32 records an int32 argument.
func (f *FormatSink) AddInt32(v int32) { f.AddText(strconv.FormatInt(int64(v), 10)) }

// AddInt64 records an int64 argument.
func (f *FormatSink) AddInt64(v int64) { f.AddText(strconv.FormatInt(v, 10)) }

// AddUint8 records a uint8 argument.
func (f *FormatSink) AddUint8(v uint8) { f.AddText(strconv.FormatUint(uint64(v), 10)) }

// AddUint16 records a uint16 argument.
func (f *FormatSink) AddUint16(v uint16) { f.AddText(strconv.FormatUint(uint64(v), 10)) }

// AddUint32 records a uint32 argument.
func (f *FormatSink) AddUint32(v uint32) { f.AddText(strconv.FormatUint(uint64(v), 10)) }

// AddUint64 records a uint64 argument.
func (f *FormatSink) AddUint64(v uint64) { f.AddText(strconv.FormatUint(v, 10)) }

// AddFloat32 records a float32 argument.
func (f *FormatSink) AddFloat32(v float32) {
	f.AddText(strconv.FormatFloat(float64(v), 'g', -1, 32))
}

// AddFloat64 records a float64 argument.
func (f *FormatSink) AddFloat64(v float64) {
	f.AddText(strconv.FormatFloat(v, 'g', -1, 64))
}

// AddPointer records a pointer argument in hexadecimal.
func (f *FormatSink) AddPointer(v uintptr) {
	f.AddText("0x" + strconv.FormatUint(uint64(v), 16))
}

// AddString records a narrow string argument. The view is copied, so it
// may be consumed after the buffer changes.
func (f *FormatSink) AddString(view []byte) {
	f.AddText(string(view))
}

// AddWideString records a wide string argument, transcoding its UTF-16
// bytes to UTF-8.
func (f *FormatSink) AddWideString(view []byte) {
	units := make([]uint16, len(view)/2)
	for i := range units {
		units[i] = uint16(view[2*i]) | uint16(view[2*i+1])<<8
	}
	f.AddText(string(utf16.Decode(units)))
}

// AddGUID records a GUID argument.
func (f *FormatSink) AddGUID(v codec.GUID) { f.AddText(v.String()) }

// AddFiletime records a Filetime argument as its raw interval count.
func (f *FormatSink) AddFiletime(v codec.Filetime) {
	f.AddText(strconv.FormatUint(uint64(v), 10))
}

// AddSystemtime records a Systemtime argument.
func (f *FormatSink) AddSystemtime(v codec.Systemtime) { f.AddText(v.String()) }

// AddSID records a SID argument.
func (f *FormatSink) AddSID(v codec.SID) { f.AddText(v.String()) }

// AddCustom renders a custom record through its table's text callback.
func (f *FormatSink) AddCustom(t *codec.TypeTable, payload []byte) {
	t.AppendText(payload, f)
}

// Args returns the collected fragments in replay order.
func (f *FormatSink) Args() []string {
	return f.parts
}

// Reset clears the sink for reuse.
func (f *FormatSink) Reset() {
	f.parts = f.parts[:0]
}

// Render substitutes the collected fragments into pattern. "{}" takes
// fragments in order, "{2}" takes them by position, and doubled braces
// escape themselves. Placeholders without a matching fragment are left
// verbatim.
func (f *FormatSink) Render(pattern string) string {
	var sb strings.Builder
	sb.Grow(len(pattern))
	next := 0
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '{' && i+1 < len(pattern) && pattern[i+1] == '{':
			sb.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(pattern) && pattern[i+1] == '}':
			sb.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(pattern[i:], '}')
			if end < 0 {
				sb.WriteString(pattern[i:])
				return sb.String()
			}
			spec := pattern[i+1 : i+end]
			idx := next
			explicit := false
			if spec != "" {
				n, err := strconv.Atoi(spec)
				if err != nil {
					sb.WriteString(pattern[i : i+end+1])
					i += end + 1
					continue
				}
				idx = n
				explicit = true
			}
			if idx >= 0 && idx < len(f.parts) {
				sb.WriteString(f.parts[idx])
				if !explicit {
					next++
				}
			} else {
				sb.WriteString(pattern[i : i+end+1])
			}
			i += end + 1
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}
