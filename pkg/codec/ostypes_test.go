package codec

import (
	"reflect"
	"testing"
)

func TestGUIDRoundTrip(t *testing.T) {
	g := GUID{
		Data1: 0x6B29FC40,
		Data2: 0xCA47,
		Data3: 0x1067,
		Data4: [8]byte{0xB3, 0x1D, 0x00, 0xDD, 0x01, 0x06, 0x62, 0xDA},
	}

	buf := make([]byte, GUIDSize)
	PutGUID(buf, g)
	if got := DecodeGUID(buf); got != g {
		t.Errorf("DecodeGUID = %+v, want %+v", got, g)
	}

	want := "6b29fc40-ca47-1067-b31d-00dd010662da"
	if got := g.String(); got != want {
		t.Errorf("GUID.String() = %q, want %q", got, want)
	}
}

func TestSystemtimeRoundTrip(t *testing.T) {
	st := Systemtime{
		Year: 2026, Month: 8, DayOfWeek: 1, Day: 31,
		Hour: 13, Minute: 5, Second: 59, Milliseconds: 250,
	}

	buf := make([]byte, SystemtimeSize)
	PutSystemtime(buf, st)
	if got := DecodeSystemtime(buf); got != st {
		t.Errorf("DecodeSystemtime = %+v, want %+v", got, st)
	}

	want := "2026-08-31 13:05:59.250"
	if got := st.String(); got != want {
		t.Errorf("Systemtime.String() = %q, want %q", got, want)
	}
}

func TestParseGUID(t *testing.T) {
	g, err := ParseGUID("6b29fc40-ca47-1067-b31d-00dd010662da")
	if err != nil {
		t.Fatalf("ParseGUID: %v", err)
	}
	if got := g.String(); got != "6b29fc40-ca47-1067-b31d-00dd010662da" {
		t.Errorf("round-trip = %q", got)
	}

	for _, bad := range []string{"", "6b29fc40", "zz29fc40-ca47-1067-b31d-00dd010662da",
		"6b29fc40-ca47-1067-b31d-00dd010662"} {
		if _, err := ParseGUID(bad); err == nil {
			t.Errorf("ParseGUID(%q) accepted malformed input", bad)
		}
	}
}

func TestParseSID(t *testing.T) {
	sid, err := ParseSID("S-1-5-21-3623811015-3361044348-30300-1013")
	if err != nil {
		t.Fatalf("ParseSID: %v", err)
	}
	if got := sid.String(); got != "S-1-5-21-3623811015-3361044348-30300-1013" {
		t.Errorf("round-trip = %q", got)
	}

	for _, bad := range []string{"", "X-1-5", "S-1", "S-x-5", "S-1-5-notanumber"} {
		if _, err := ParseSID(bad); err == nil {
			t.Errorf("ParseSID(%q) accepted malformed input", bad)
		}
	}
}

func TestSIDRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		sid  SID
		str  string
	}{
		{
			name: "local system",
			sid: SID{
				Revision:            1,
				IdentifierAuthority: [6]byte{0, 0, 0, 0, 0, 5},
				SubAuthorities:      []uint32{18},
			},
			str: "S-1-5-18",
		},
		{
			name: "domain user",
			sid: SID{
				Revision:            1,
				IdentifierAuthority: [6]byte{0, 0, 0, 0, 0, 5},
				SubAuthorities:      []uint32{21, 3623811015, 3361044348, 30300, 1013},
			},
			str: "S-1-5-21-3623811015-3361044348-30300-1013",
		},
		{
			name: "no sub-authorities",
			sid: SID{
				Revision:            1,
				IdentifierAuthority: [6]byte{0, 0, 0, 0, 0, 0},
			},
			str: "S-1-0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			size := tc.sid.EncodedSize()
			if want := uint32(SIDHeaderSize + 4*len(tc.sid.SubAuthorities)); size != want {
				t.Fatalf("EncodedSize = %d, want %d", size, want)
			}

			buf := make([]byte, size)
			PutSID(buf, tc.sid)
			got := DecodeSID(buf)
			if got.Revision != tc.sid.Revision ||
				got.IdentifierAuthority != tc.sid.IdentifierAuthority {
				t.Errorf("decoded header %+v, want %+v", got, tc.sid)
			}
			if len(tc.sid.SubAuthorities) == 0 {
				if len(got.SubAuthorities) != 0 {
					t.Errorf("decoded %d sub-authorities, want none", len(got.SubAuthorities))
				}
			} else if !reflect.DeepEqual(got.SubAuthorities, tc.sid.SubAuthorities) {
				t.Errorf("decoded sub-authorities %v, want %v", got.SubAuthorities, tc.sid.SubAuthorities)
			}

			if s := tc.sid.String(); s != tc.str {
				t.Errorf("String() = %q, want %q", s, tc.str)
			}
		})
	}
}
