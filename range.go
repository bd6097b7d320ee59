package pgwire

// BoundType classifies one end of a range.
type BoundType byte

const (
	Inclusive = BoundType('i')
	Exclusive = BoundType('e')
	Unbounded = BoundType('U')
	Empty     = BoundType('E')
)

func (bt BoundType) String() string { return string(bt) }

// Range is a decoded range value. An empty range has both bound types set
// to Empty and carries no bound values. An Unbounded end carries a nil
// value.
type Range struct {
	Lower     interface{}
	Upper     interface{}
	LowerType BoundType
	UpperType BoundType
}

// EmptyRange is the canonical empty range value.
var EmptyRange = Range{LowerType: Empty, UpperType: Empty}

// IsEmpty reports whether the range contains no points.
func (r Range) IsEmpty() bool { return r.LowerType == Empty }

const (
	rangeEmpty          = 0x01
	rangeLowerInclusive = 0x02
	rangeUpperInclusive = 0x04
	rangeLowerInfinite  = 0x08
	rangeUpperInfinite  = 0x10
)

// RangeCodec transcodes a range type: a flags byte followed by zero, one
// or two length-prefixed bounds. Binary format only.
//
// Besides Range values, Encode accepts sequences of up to two elements:
// an empty sequence is the empty range, one element is a range bounded
// below only, and two elements are the lower and upper bounds with the
// server's default inclusivity (inclusive lower, exclusive upper). A nil
// element is an unbounded end.
type RangeCodec struct {
	TypeName   string
	ElementOID uint32
}

func (c *RangeCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (c *RangeCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (c *RangeCodec) rangeFromValue(value interface{}) (Range, error) {
	switch value := value.(type) {
	case Range:
		return value, nil
	case *Range:
		return *value, nil
	}

	seq, ok := asSequence(value)
	if !ok {
		return Range{}, &TypeMismatchError{TypeName: c.TypeName, Value: value, Expected: "a Range or a sequence"}
	}

	switch len(seq) {
	case 0:
		return EmptyRange, nil
	case 1:
		r := Range{Lower: seq[0], LowerType: Inclusive, UpperType: Unbounded}
		if seq[0] == nil {
			r.LowerType = Unbounded
		}
		return r, nil
	case 2:
		r := Range{Lower: seq[0], Upper: seq[1], LowerType: Inclusive, UpperType: Exclusive}
		if seq[0] == nil {
			r.LowerType = Unbounded
		}
		if seq[1] == nil {
			r.UpperType = Unbounded
		}
		return r, nil
	default:
		return Range{}, &InvalidArgumentError{Message: "expected 0, 1 or 2 elements in range"}
	}
}

func (c *RangeCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: c.TypeName, Kind: KindRange, Format: format}
	}

	r, err := c.rangeFromValue(value)
	if err != nil {
		return nil, err
	}

	if r.IsEmpty() {
		return append(buf, rangeEmpty), nil
	}

	var flags byte
	switch r.LowerType {
	case Inclusive:
		flags |= rangeLowerInclusive
	case Exclusive:
	case Unbounded:
		flags |= rangeLowerInfinite
	default:
		return nil, &InvalidArgumentError{Message: "invalid lower bound type " + r.LowerType.String()}
	}
	switch r.UpperType {
	case Inclusive:
		flags |= rangeUpperInclusive
	case Exclusive:
	case Unbounded:
		flags |= rangeUpperInfinite
	default:
		return nil, &InvalidArgumentError{Message: "invalid upper bound type " + r.UpperType.String()}
	}

	buf = append(buf, flags)

	if flags&rangeLowerInfinite == 0 {
		buf, err = m.AppendValue(c.ElementOID, BinaryFormatCode, r.Lower, buf)
		if err != nil {
			return nil, err
		}
	}
	if flags&rangeUpperInfinite == 0 {
		buf, err = m.AppendValue(c.ElementOID, BinaryFormatCode, r.Upper, buf)
		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}

func (c *RangeCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: c.TypeName, Kind: KindRange, Format: format}
	}
	if len(src) == 0 {
		return nil, &ProtocolError{Message: "range requires a flags byte"}
	}

	flags := src[0]
	rest := src[1:]

	if flags&rangeEmpty != 0 {
		return EmptyRange, nil
	}

	r := Range{LowerType: Exclusive, UpperType: Exclusive}
	if flags&rangeLowerInclusive != 0 {
		r.LowerType = Inclusive
	}
	if flags&rangeUpperInclusive != 0 {
		r.UpperType = Inclusive
	}

	var err error
	if flags&rangeLowerInfinite != 0 {
		r.LowerType = Unbounded
	} else {
		var payload []byte
		payload, rest, err = NextValue(rest)
		if err != nil {
			return nil, err
		}
		r.Lower, err = m.Decode(c.ElementOID, BinaryFormatCode, payload)
		if err != nil {
			return nil, err
		}
	}

	if flags&rangeUpperInfinite != 0 {
		r.UpperType = Unbounded
	} else {
		var payload []byte
		payload, rest, err = NextValue(rest)
		if err != nil {
			return nil, err
		}
		r.Upper, err = m.Decode(c.ElementOID, BinaryFormatCode, payload)
		if err != nil {
			return nil, err
		}
	}

	if len(rest) != 0 {
		return nil, &ProtocolError{Message: "range payload has trailing data"}
	}

	return r, nil
}
