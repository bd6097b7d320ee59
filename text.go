package pgwire

import (
	"encoding/hex"
)

// TextCodec transcodes the character types (text, varchar, bpchar, name)
// as UTF-8 bytes. Only string input is accepted: raw bytes or sequences
// are a type mismatch, the error names the type actually received.
type TextCodec struct{}

func (TextCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (TextCodec) PreferredFormat() int16 { return TextFormatCode }

func (TextCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "text", Value: value, Expected: "a string"}
	}
	return append(buf, s...), nil
}

func (TextCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	return string(src), nil
}

// ByteaCodec transcodes bytea. The binary format is a pass-through of the
// raw bytes; the text format is the hex form the server emits by default.
type ByteaCodec struct{}

func (ByteaCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (ByteaCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (ByteaCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	b, ok := value.([]byte)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "bytea", Value: value, Expected: "a byte sequence"}
	}

	switch format {
	case BinaryFormatCode:
		return append(buf, b...), nil
	case TextFormatCode:
		buf = append(buf, `\x`...)
		return append(buf, hex.EncodeToString(b)...), nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func (ByteaCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if format == TextFormatCode {
		if len(src) < 2 || src[0] != '\\' || src[1] != 'x' {
			return nil, &ProtocolError{Message: "malformed bytea text payload"}
		}
		b, err := hex.DecodeString(string(src[2:]))
		if err != nil {
			return nil, &ProtocolError{Message: "malformed bytea hex payload: " + err.Error()}
		}
		return b, nil
	}

	b := make([]byte, len(src))
	copy(b, src)
	return b, nil
}

// QCharCodec transcodes the internal "char" type (a single byte).
type QCharCodec struct{}

func (QCharCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (QCharCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (QCharCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var b byte
	switch value := value.(type) {
	case byte:
		b = value
	case rune:
		if value > 255 {
			return nil, &OverflowError{TypeName: `"char"`, Value: value}
		}
		b = byte(value)
	default:
		return nil, &TypeMismatchError{TypeName: `"char"`, Value: value, Expected: "a single byte"}
	}
	return append(buf, b), nil
}

func (QCharCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if len(src) > 1 {
		return nil, &ProtocolError{Message: `"char" requires at most 1 byte`}
	}
	if len(src) == 0 {
		return byte(0), nil
	}
	return src[0], nil
}

// JSONCodec transcodes json and jsonb. The jsonb binary form carries a
// leading version byte which must be 1.
type JSONCodec struct {
	Versioned bool
}

func (JSONCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (JSONCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (c JSONCodec) typeName() string {
	if c.Versioned {
		return "jsonb"
	}
	return "json"
}

func (c JSONCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var src []byte
	switch value := value.(type) {
	case string:
		src = []byte(value)
	case []byte:
		src = value
	default:
		return nil, &TypeMismatchError{TypeName: c.typeName(), Value: value, Expected: "a JSON string or byte sequence"}
	}

	if c.Versioned && format == BinaryFormatCode {
		buf = append(buf, 1)
	}
	return append(buf, src...), nil
}

func (c JSONCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if c.Versioned && format == BinaryFormatCode {
		if len(src) == 0 || src[0] != 1 {
			return nil, &ProtocolError{Message: "unknown jsonb version"}
		}
		src = src[1:]
	}
	return string(src), nil
}
