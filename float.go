package pgwire

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/jackc/pgio"
)

// Float4Codec transcodes float4 as the raw big-endian IEEE754 bit
// pattern. NaN and the infinities round-trip exactly. Decoded values are
// float32.
type Float4Codec struct{}

func (Float4Codec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (Float4Codec) PreferredFormat() int16 { return BinaryFormatCode }

func (Float4Codec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var f float64
	switch value := value.(type) {
	case float32:
		f = float64(value)
	case float64:
		f = value
	default:
		if n, ok, err := convertToInt64(value); ok {
			if err != nil {
				return nil, err
			}
			f = float64(n)
		} else {
			return nil, &TypeMismatchError{TypeName: "float4", Value: value, Expected: "a floating point number"}
		}
	}

	// A finite float64 whose magnitude exceeds float4's exponent range
	// would silently become +/-Inf in the narrowing conversion.
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return nil, &RangeError{TypeName: "float4", Value: value, Message: "float value too large"}
	}

	switch format {
	case BinaryFormatCode:
		return pgio.AppendUint32(buf, math.Float32bits(float32(f))), nil
	case TextFormatCode:
		return appendFloatText(buf, f, 32), nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func (Float4Codec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == TextFormatCode {
		f, err := parseFloatText("float4", src, 32)
		return float32(f), err
	}
	if len(src) != 4 {
		return nil, &ProtocolError{Message: "float4 requires 4 bytes"}
	}
	return math.Float32frombits(binary.BigEndian.Uint32(src)), nil
}

// Float8Codec transcodes float8. Decoded values are float64.
type Float8Codec struct{}

func (Float8Codec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (Float8Codec) PreferredFormat() int16 { return BinaryFormatCode }

func (Float8Codec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var f float64
	switch value := value.(type) {
	case float32:
		f = float64(value)
	case float64:
		f = value
	default:
		if n, ok, err := convertToInt64(value); ok {
			if err != nil {
				return nil, err
			}
			f = float64(n)
		} else {
			return nil, &TypeMismatchError{TypeName: "float8", Value: value, Expected: "a floating point number"}
		}
	}

	switch format {
	case BinaryFormatCode:
		return pgio.AppendUint64(buf, math.Float64bits(f)), nil
	case TextFormatCode:
		return appendFloatText(buf, f, 64), nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

// appendFloatText spells the specials the way the server does.
func appendFloatText(buf []byte, f float64, bitSize int) []byte {
	switch {
	case math.IsNaN(f):
		return append(buf, "NaN"...)
	case math.IsInf(f, 1):
		return append(buf, "Infinity"...)
	case math.IsInf(f, -1):
		return append(buf, "-Infinity"...)
	}
	return append(buf, strconv.FormatFloat(f, 'f', -1, bitSize)...)
}

func (Float8Codec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == TextFormatCode {
		return parseFloatText("float8", src, 64)
	}
	if len(src) != 8 {
		return nil, &ProtocolError{Message: "float8 requires 8 bytes"}
	}
	return math.Float64frombits(binary.BigEndian.Uint64(src)), nil
}

func parseFloatText(typeName string, src []byte, bitSize int) (float64, error) {
	switch string(src) {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(string(src), bitSize)
	if err != nil {
		return 0, &ProtocolError{Message: "malformed " + typeName + " text payload: " + string(src)}
	}
	return f, nil
}
