package codec

import (
	"strings"
	"testing"
)

func noText(payload []byte, w TextWriter) { w.AddText("x") }
func noEvent(payload []byte, w ByteWriter) { w.AddBytes(payload) }

func TestRegisterPODType(t *testing.T) {
	tbl := RegisterPODType("codec-test-pod", 8, 4, noText, noEvent)
	if tbl.ID() == 0 {
		t.Fatal("registered table has id 0")
	}
	if tbl.Kind() != KindCustomPOD {
		t.Errorf("Kind = %v, want %v", tbl.Kind(), KindCustomPOD)
	}
	if tbl.Size() != 8 || tbl.Align() != 4 {
		t.Errorf("layout = %d/%d, want 8/4", tbl.Size(), tbl.Align())
	}

	if got := LookupTable("codec-test-pod"); got != tbl {
		t.Error("LookupTable did not return the registered table")
	}
	if got := tableByID(tbl.ID()); got != tbl {
		t.Error("tableByID did not return the registered table")
	}
}

func TestRegisterValidation(t *testing.T) {
	clone := func(dst, src []byte) {}
	discard := func(payload []byte) {}

	testCases := []struct {
		name    string
		wantMsg string
		reg     func()
	}{
		{
			name:    "empty name",
			wantMsg: "needs a name",
			reg:     func() { RegisterPODType("", 4, 4, noText, noEvent) },
		},
		{
			name:    "zero size",
			wantMsg: "zero size",
			reg:     func() { RegisterPODType("codec-test-zero", 0, 4, noText, noEvent) },
		},
		{
			name:    "bad alignment",
			wantMsg: "unsupported alignment",
			reg:     func() { RegisterPODType("codec-test-align", 4, 3, noText, noEvent) },
		},
		{
			name:    "oversized alignment",
			wantMsg: "unsupported alignment",
			reg:     func() { RegisterPODType("codec-test-align16", 16, 16, noText, noEvent) },
		},
		{
			name:    "missing callbacks",
			wantMsg: "needs text and event callbacks",
			reg:     func() { RegisterPODType("codec-test-nocb", 4, 4, nil, nil) },
		},
		{
			name:    "value type without clone",
			wantMsg: "needs clone and discard",
			reg:     func() { RegisterValueType("codec-test-noclone", 4, 4, noText, noEvent, nil, discard) },
		},
		{
			name:    "value type without discard",
			wantMsg: "needs clone and discard",
			reg:     func() { RegisterValueType("codec-test-nodiscard", 4, 4, noText, noEvent, clone, nil) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("registration did not panic")
				}
				if msg, ok := r.(string); !ok || !strings.Contains(msg, tc.wantMsg) {
					t.Errorf("panic %v, want message containing %q", r, tc.wantMsg)
				}
			}()
			tc.reg()
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	RegisterSharedType("codec-test-dup", 8, 8, noText, noEvent)
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate registration did not panic")
		}
	}()
	RegisterSharedType("codec-test-dup", 8, 8, noText, noEvent)
}

func TestLookupUnknown(t *testing.T) {
	if LookupTable("codec-test-never-registered") != nil {
		t.Error("LookupTable returned a table for an unknown name")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("tableByID(0) did not panic")
		}
	}()
	tableByID(0)
}
