package pgwire

import (
	"encoding/binary"
	"math"
	"math/big"
	"strconv"

	"github.com/jackc/pgio"
)

// convertToInt64 widens any Go integer input, including math/big values,
// to int64. ok is false when the input is not an integer at all; err is
// set when the input is an integer too large for any wire width.
func convertToInt64(value interface{}) (n int64, ok bool, err error) {
	switch value := value.(type) {
	case int8:
		return int64(value), true, nil
	case int16:
		return int64(value), true, nil
	case int32:
		return int64(value), true, nil
	case int64:
		return value, true, nil
	case int:
		return int64(value), true, nil
	case uint8:
		return int64(value), true, nil
	case uint16:
		return int64(value), true, nil
	case uint32:
		return int64(value), true, nil
	case uint64:
		if value > math.MaxInt64 {
			return 0, true, &OverflowError{TypeName: "int8", Value: value}
		}
		return int64(value), true, nil
	case uint:
		if uint64(value) > math.MaxInt64 {
			return 0, true, &OverflowError{TypeName: "int8", Value: value}
		}
		return int64(value), true, nil
	case *big.Int:
		if !value.IsInt64() {
			return 0, true, &OverflowError{TypeName: "int8", Value: value}
		}
		return value.Int64(), true, nil
	default:
		return 0, false, nil
	}
}

func encodeInt(typeName string, width uint, value interface{}, format int16, buf []byte) ([]byte, error) {
	n, ok, err := convertToInt64(value)
	if !ok {
		return nil, &TypeMismatchError{TypeName: typeName, Value: value, Expected: "an integer"}
	}
	if err != nil {
		// Out of int64 range entirely, so out of range for any narrower
		// target as well; re-point the error at the requested type.
		return nil, &OverflowError{TypeName: typeName, Value: value}
	}

	max := int64(1)<<(8*width-1) - 1
	min := -int64(1) << (8 * width - 1)
	if n > max || n < min {
		return nil, &OverflowError{TypeName: typeName, Value: value}
	}

	switch format {
	case BinaryFormatCode:
		switch width {
		case 2:
			return pgio.AppendInt16(buf, int16(n)), nil
		case 4:
			return pgio.AppendInt32(buf, int32(n)), nil
		default:
			return pgio.AppendInt64(buf, n), nil
		}
	case TextFormatCode:
		return append(buf, strconv.FormatInt(n, 10)...), nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func decodeIntText(typeName string, width uint, src []byte) (int64, error) {
	n, err := strconv.ParseInt(string(src), 10, int(8*width))
	if err != nil {
		return 0, &ProtocolError{Message: "malformed " + typeName + " text payload: " + string(src)}
	}
	return n, nil
}

// Int2Codec transcodes int2 as big-endian two's-complement of exactly two
// bytes. Decoded values are int16.
type Int2Codec struct{}

func (Int2Codec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (Int2Codec) PreferredFormat() int16 { return BinaryFormatCode }

func (Int2Codec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	return encodeInt("int2", 2, value, format, buf)
}

func (Int2Codec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == TextFormatCode {
		n, err := decodeIntText("int2", 2, src)
		return int16(n), err
	}
	if len(src) != 2 {
		return nil, &ProtocolError{Message: "int2 requires 2 bytes"}
	}
	return int16(binary.BigEndian.Uint16(src)), nil
}

// Int4Codec transcodes int4. Decoded values are int32.
type Int4Codec struct{}

func (Int4Codec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (Int4Codec) PreferredFormat() int16 { return BinaryFormatCode }

func (Int4Codec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	return encodeInt("int4", 4, value, format, buf)
}

func (Int4Codec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == TextFormatCode {
		n, err := decodeIntText("int4", 4, src)
		return int32(n), err
	}
	if len(src) != 4 {
		return nil, &ProtocolError{Message: "int4 requires 4 bytes"}
	}
	return int32(binary.BigEndian.Uint32(src)), nil
}

// Int8Codec transcodes int8. Decoded values are int64.
type Int8Codec struct{}

func (Int8Codec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (Int8Codec) PreferredFormat() int16 { return BinaryFormatCode }

func (Int8Codec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	return encodeInt("int8", 8, value, format, buf)
}

func (Int8Codec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == TextFormatCode {
		return decodeIntText("int8", 8, src)
	}
	if len(src) != 8 {
		return nil, &ProtocolError{Message: "int8 requires 8 bytes"}
	}
	return int64(binary.BigEndian.Uint64(src)), nil
}

// Uint32Codec transcodes the object identifier family (oid, xid, cid).
// Decoded values are uint32.
type Uint32Codec struct {
	TypeName string
}

func (Uint32Codec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (Uint32Codec) PreferredFormat() int16 { return BinaryFormatCode }

func (c Uint32Codec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var n uint32
	switch value := value.(type) {
	case uint32:
		n = value
	case uint64:
		if value > math.MaxUint32 {
			return nil, &OverflowError{TypeName: c.TypeName, Value: value}
		}
		n = uint32(value)
	case int64:
		if value < 0 || value > math.MaxUint32 {
			return nil, &OverflowError{TypeName: c.TypeName, Value: value}
		}
		n = uint32(value)
	case int:
		if value < 0 || int64(value) > math.MaxUint32 {
			return nil, &OverflowError{TypeName: c.TypeName, Value: value}
		}
		n = uint32(value)
	default:
		return nil, &TypeMismatchError{TypeName: c.TypeName, Value: value, Expected: "an unsigned integer"}
	}

	switch format {
	case BinaryFormatCode:
		return pgio.AppendUint32(buf, n), nil
	case TextFormatCode:
		return append(buf, strconv.FormatUint(uint64(n), 10)...), nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func (c Uint32Codec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == TextFormatCode {
		n, err := strconv.ParseUint(string(src), 10, 32)
		if err != nil {
			return nil, &ProtocolError{Message: "malformed " + c.TypeName + " text payload: " + string(src)}
		}
		return uint32(n), nil
	}
	if len(src) != 4 {
		return nil, &ProtocolError{Message: c.TypeName + " requires 4 bytes"}
	}
	return binary.BigEndian.Uint32(src), nil
}
