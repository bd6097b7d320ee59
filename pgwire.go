package pgwire

// PostgreSQL oids for built-in types.
const (
	BoolOID             = 16
	ByteaOID            = 17
	QCharOID            = 18
	NameOID             = 19
	Int8OID             = 20
	Int2OID             = 21
	Int4OID             = 23
	TextOID             = 25
	OIDOID              = 26
	TIDOID              = 27
	XIDOID              = 28
	CIDOID              = 29
	JSONOID             = 114
	PointOID            = 600
	LsegOID             = 601
	PathOID             = 602
	BoxOID              = 603
	PolygonOID          = 604
	LineOID             = 628
	CIDROID             = 650
	CIDRArrayOID        = 651
	Float4OID           = 700
	Float8OID           = 701
	UnknownOID          = 705
	CircleOID           = 718
	MacaddrOID          = 829
	InetOID             = 869
	BoolArrayOID        = 1000
	ByteaArrayOID       = 1001
	Int2ArrayOID        = 1005
	Int4ArrayOID        = 1007
	TextArrayOID        = 1009
	BPCharOID           = 1042
	VarcharOID          = 1043
	VarcharArrayOID     = 1015
	Int8ArrayOID        = 1016
	Float4ArrayOID      = 1021
	Float8ArrayOID      = 1022
	InetArrayOID        = 1041
	DateOID             = 1082
	TimeOID             = 1083
	TimestampOID        = 1114
	TimestampArrayOID   = 1115
	DateArrayOID        = 1182
	TimestamptzOID      = 1184
	TimestamptzArrayOID = 1185
	IntervalOID         = 1186
	NumericArrayOID     = 1231
	TimetzOID           = 1266
	BitOID              = 1560
	VarbitOID           = 1562
	NumericOID          = 1700
	RecordOID           = 2249
	UUIDOID             = 2950
	UUIDArrayOID        = 2951
	JSONBOID            = 3802
	Int4RangeOID        = 3904
	NumRangeOID         = 3906
	TsRangeOID          = 3908
	TstzRangeOID        = 3910
	DateRangeOID        = 3912
	Int8RangeOID        = 3926
)

// PostgreSQL format codes.
const (
	TextFormatCode   int16 = 0
	BinaryFormatCode int16 = 1
)

// Kind classifies a type descriptor.
type Kind byte

const (
	KindScalar Kind = iota
	KindArray
	KindComposite
	KindDomain
	KindEnum
	KindRange
	KindPseudo
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindComposite:
		return "composite"
	case KindDomain:
		return "domain"
	case KindEnum:
		return "enum"
	case KindRange:
		return "range"
	case KindPseudo:
		return "pseudo"
	default:
		return "invalid"
	}
}

// StructField describes one field of a composite type.
type StructField struct {
	Name string
	OID  uint32
}

// Type is an immutable descriptor of a server type: its identity, kind,
// and structural relationships. Descriptors are produced by the catalog
// layer once per distinct type and registered with a Map; they are looked
// up by OID and never mutated afterwards.
type Type struct {
	OID    uint32
	Name   string
	Schema string
	Kind   Kind

	// ElementOID is set for array and range kinds.
	ElementOID uint32

	// BaseOID is set for domain kinds. A domain shares its base type's
	// wire representation but keeps its own name and schema.
	BaseOID uint32

	// Fields is set for composite kinds, in declared order.
	Fields []StructField

	// Labels is set for enum kinds, in server-declared order. That order,
	// not the lexicographic one, defines how enum values compare.
	Labels []string
}

// QualifiedName returns the schema-qualified type name.
func (t *Type) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Codec encodes one type in one format. Implementations are pure and
// stateless: a single codec may be shared by any number of concurrent
// encode and decode calls.
type Codec interface {
	// FormatSupported reports whether the codec can transcode the given
	// format code.
	FormatSupported(format int16) bool

	// PreferredFormat returns the format the codec transcodes most
	// faithfully.
	PreferredFormat() int16

	// Encode appends the wire payload of value to buf and returns the
	// extended buffer. A nil new buffer with a nil error means SQL NULL;
	// the caller is responsible for writing the length header.
	Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) (newBuf []byte, err error)

	// Decode converts a wire payload into its Go value. A nil src means
	// SQL NULL and decodes to nil. Decode must never read past src.
	Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error)
}

// InfinityModifier marks date and timestamp values that hold the special
// infinity sentinels rather than a finite instant.
type InfinityModifier int8

const (
	Infinity         InfinityModifier = 1
	None             InfinityModifier = 0
	NegativeInfinity InfinityModifier = -Infinity
)

func (im InfinityModifier) String() string {
	switch im {
	case None:
		return "none"
	case Infinity:
		return "infinity"
	case NegativeInfinity:
		return "-infinity"
	default:
		return "invalid"
	}
}
