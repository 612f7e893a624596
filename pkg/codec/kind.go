package codec

// Kind identifies the type of a single encoded argument. It is the first
// byte of every record and the only thing a reader needs to recover the
// record's layout.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindChar
	KindWideChar
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindPointer
	KindString
	KindWideString
	KindGUID
	KindFiletime
	KindSystemtime
	KindSID
	KindCustomPOD
	KindCustomValue
	KindCustomShared

	numKinds
)

var kindNames = [numKinds]string{
	KindInvalid:      "invalid",
	KindBool:         "bool",
	KindChar:         "char",
	KindWideChar:     "wchar",
	KindInt8:         "int8",
	KindInt16:        "int16",
	KindInt32:        "int32",
	KindInt64:        "int64",
	KindUint8:        "uint8",
	KindUint16:       "uint16",
	KindUint32:       "uint32",
	KindUint64:       "uint64",
	KindFloat32:      "float32",
	KindFloat64:      "float64",
	KindPointer:      "pointer",
	KindString:       "string",
	KindWideString:   "wstring",
	KindGUID:         "guid",
	KindFiletime:     "filetime",
	KindSystemtime:   "systemtime",
	KindSID:          "sid",
	KindCustomPOD:    "custom-pod",
	KindCustomValue:  "custom-value",
	KindCustomShared: "custom-shared",
}

// String returns the kind's name for diagnostics.
func (k Kind) String() string {
	if k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is a known record tag.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < numKinds
}

// Spec describes the fixed layout properties of a kind. Size is zero for
// the variable-length kinds (strings, SID, customs), whose payload size is
// recovered from management fields inside the record itself.
type Spec struct {
	Size  uint32
	Align uint32
}

var kindSpecs = [numKinds]Spec{
	KindBool:         {Size: 1, Align: 1},
	KindChar:         {Size: 1, Align: 1},
	KindWideChar:     {Size: 2, Align: 2},
	KindInt8:         {Size: 1, Align: 1},
	KindInt16:        {Size: 2, Align: 2},
	KindInt32:        {Size: 4, Align: 4},
	KindInt64:        {Size: 8, Align: 8},
	KindUint8:        {Size: 1, Align: 1},
	KindUint16:       {Size: 2, Align: 2},
	KindUint32:       {Size: 4, Align: 4},
	KindUint64:       {Size: 8, Align: 8},
	KindFloat32:      {Size: 4, Align: 4},
	KindFloat64:      {Size: 8, Align: 8},
	KindPointer:      {Size: 8, Align: 8},
	KindString:       {Size: 0, Align: 1},
	KindWideString:   {Size: 0, Align: 2},
	KindGUID:         {Size: 16, Align: 4},
	KindFiletime:     {Size: 8, Align: 4},
	KindSystemtime:   {Size: 16, Align: 2},
	KindSID:          {Size: 0, Align: 4},
	KindCustomPOD:    {Size: 0, Align: 4},
	KindCustomValue:  {Size: 0, Align: 4},
	KindCustomShared: {Size: 0, Align: 4},
}

// SpecOf returns the layout spec for a kind.
func SpecOf(k Kind) Spec {
	return kindSpecs[k]
}

// Padding returns how many filler bytes must be skipped so that a payload
// written at offset off lands on a boundary divisible by align. Padding
// depends only on the offset, so writers and readers that walk the same
// tag stream always agree on it.
func Padding(off uint32, align uint32) uint32 {
	if align <= 1 {
		return 0
	}
	return (align - off%align) % align
}
