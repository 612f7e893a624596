package codec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// GUID is a 128-bit globally unique identifier in its native field layout.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// String renders the GUID in the usual dashed hexadecimal form.
func (g GUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// ParseGUID parses the dashed hexadecimal form produced by String.
func ParseGUID(s string) (GUID, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 5 ||
		len(parts[0]) != 8 || len(parts[1]) != 4 || len(parts[2]) != 4 ||
		len(parts[3]) != 4 || len(parts[4]) != 12 {
		return GUID{}, fmt.Errorf("malformed GUID %q", s)
	}

	raw, err := hex.DecodeString(strings.Join(parts, ""))
	if err != nil {
		return GUID{}, fmt.Errorf("malformed GUID %q: %w", s, err)
	}

	var g GUID
	g.Data1 = binary.BigEndian.Uint32(raw[0:])
	g.Data2 = binary.BigEndian.Uint16(raw[4:])
	g.Data3 = binary.BigEndian.Uint16(raw[6:])
	copy(g.Data4[:], raw[8:16])
	return g, nil
}

// PutGUID encodes g into buf, which must be at least GUIDSize bytes.
func PutGUID(buf []byte, g GUID) {
	binary.LittleEndian.PutUint32(buf[0:], g.Data1)
	binary.LittleEndian.PutUint16(buf[4:], g.Data2)
	binary.LittleEndian.PutUint16(buf[6:], g.Data3)
	copy(buf[8:16], g.Data4[:])
}

// DecodeGUID decodes a GUID from its 16-byte payload.
func DecodeGUID(buf []byte) GUID {
	var g GUID
	g.Data1 = binary.LittleEndian.Uint32(buf[0:])
	g.Data2 = binary.LittleEndian.Uint16(buf[4:])
	g.Data3 = binary.LittleEndian.Uint16(buf[6:])
	copy(g.Data4[:], buf[8:16])
	return g
}

// Filetime is a 64-bit timestamp counting 100-nanosecond intervals since
// January 1, 1601 (UTC).
type Filetime uint64

// Systemtime is a broken-down calendar timestamp.
type Systemtime struct {
	Year         uint16
	Month        uint16
	DayOfWeek    uint16
	Day          uint16
	Hour         uint16
	Minute       uint16
	Second       uint16
	Milliseconds uint16
}

// String renders the timestamp in an ISO-like form.
func (st Systemtime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%03d",
		st.Year, st.Month, st.Day, st.Hour, st.Minute, st.Second, st.Milliseconds)
}

// PutSystemtime encodes st into buf, which must be at least SystemtimeSize bytes.
func PutSystemtime(buf []byte, st Systemtime) {
	binary.LittleEndian.PutUint16(buf[0:], st.Year)
	binary.LittleEndian.PutUint16(buf[2:], st.Month)
	binary.LittleEndian.PutUint16(buf[4:], st.DayOfWeek)
	binary.LittleEndian.PutUint16(buf[6:], st.Day)
	binary.LittleEndian.PutUint16(buf[8:], st.Hour)
	binary.LittleEndian.PutUint16(buf[10:], st.Minute)
	binary.LittleEndian.PutUint16(buf[12:], st.Second)
	binary.LittleEndian.PutUint16(buf[14:], st.Milliseconds)
}

// DecodeSystemtime decodes a Systemtime from its 16-byte payload.
func DecodeSystemtime(buf []byte) Systemtime {
	return Systemtime{
		Year:         binary.LittleEndian.Uint16(buf[0:]),
		Month:        binary.LittleEndian.Uint16(buf[2:]),
		DayOfWeek:    binary.LittleEndian.Uint16(buf[4:]),
		Day:          binary.LittleEndian.Uint16(buf[6:]),
		Hour:         binary.LittleEndian.Uint16(buf[8:]),
		Minute:       binary.LittleEndian.Uint16(buf[10:]),
		Second:       binary.LittleEndian.Uint16(buf[12:]),
		Milliseconds: binary.LittleEndian.Uint16(buf[14:]),
	}
}

// SID is a security identifier: a fixed header followed by a variable run
// of 32-bit sub-authorities. The sub-authority count inside the header is
// what makes the encoded form self-describing.
type SID struct {
	Revision            uint8
	IdentifierAuthority [6]byte
	SubAuthorities      []uint32
}

// MaxSubAuthorities is the largest sub-authority count a SID may carry.
const MaxSubAuthorities = 15

// EncodedSize returns the number of payload bytes the SID occupies.
func (s SID) EncodedSize() uint32 {
	return SIDHeaderSize + 4*uint32(len(s.SubAuthorities))
}

// String renders the SID in the conventional S-R-I-S... form.
func (s SID) String() string {
	auth := uint64(0)
	for _, b := range s.IdentifierAuthority {
		auth = auth<<8 | uint64(b)
	}
	out := fmt.Sprintf("S-%d-%d", s.Revision, auth)
	for _, sub := range s.SubAuthorities {
		out += fmt.Sprintf("-%d", sub)
	}
	return out
}

// ParseSID parses the S-R-I-S... form produced by String.
func ParseSID(s string) (SID, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 3 || parts[0] != "S" {
		return SID{}, fmt.Errorf("malformed SID %q", s)
	}

	rev, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return SID{}, fmt.Errorf("malformed SID revision in %q: %w", s, err)
	}
	auth, err := strconv.ParseUint(parts[2], 10, 48)
	if err != nil {
		return SID{}, fmt.Errorf("malformed SID authority in %q: %w", s, err)
	}

	sid := SID{Revision: uint8(rev)}
	for i := range sid.IdentifierAuthority {
		sid.IdentifierAuthority[i] = byte(auth >> (8 * (5 - i)))
	}

	subs := parts[3:]
	if len(subs) > MaxSubAuthorities {
		return SID{}, fmt.Errorf("SID %q has %d sub-authorities, maximum is %d", s, len(subs), MaxSubAuthorities)
	}
	for _, p := range subs {
		sub, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return SID{}, fmt.Errorf("malformed SID sub-authority in %q: %w", s, err)
		}
		sid.SubAuthorities = append(sid.SubAuthorities, uint32(sub))
	}
	return sid, nil
}

// PutSID encodes s into buf, which must be at least s.EncodedSize() bytes.
func PutSID(buf []byte, s SID) {
	buf[0] = s.Revision
	buf[1] = uint8(len(s.SubAuthorities))
	copy(buf[2:8], s.IdentifierAuthority[:])
	for i, sub := range s.SubAuthorities {
		binary.LittleEndian.PutUint32(buf[SIDHeaderSize+4*i:], sub)
	}
}

// DecodeSID decodes a SID from its payload. The payload length is taken
// from the count byte inside the header.
func DecodeSID(buf []byte) SID {
	s := SID{Revision: buf[0]}
	count := int(buf[1])
	copy(s.IdentifierAuthority[:], buf[2:8])
	s.SubAuthorities = make([]uint32, count)
	for i := range s.SubAuthorities {
		s.SubAuthorities[i] = binary.LittleEndian.Uint32(buf[SIDHeaderSize+4*i:])
	}
	return s
}
