package pgwire

import (
	"github.com/gofrs/uuid"
)

// UUIDCodec transcodes uuid as exactly 16 raw bytes in the standard field
// order. Decoded values are uuid.UUID.
type UUIDCodec struct{}

func (UUIDCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (UUIDCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (UUIDCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var u uuid.UUID
	switch value := value.(type) {
	case uuid.UUID:
		u = value
	case [16]byte:
		u = uuid.UUID(value)
	case []byte:
		if len(value) != 16 {
			return nil, &TypeMismatchError{TypeName: "uuid", Value: value, Expected: "16 bytes"}
		}
		copy(u[:], value)
	case string:
		var err error
		u, err = uuid.FromString(value)
		if err != nil {
			return nil, &TypeMismatchError{TypeName: "uuid", Value: value, Expected: "a UUID string"}
		}
	default:
		return nil, &TypeMismatchError{TypeName: "uuid", Value: value, Expected: "a UUID"}
	}

	switch format {
	case BinaryFormatCode:
		return append(buf, u[:]...), nil
	case TextFormatCode:
		return append(buf, u.String()...), nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func (UUIDCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if format == TextFormatCode {
		u, err := uuid.FromString(string(src))
		if err != nil {
			return nil, &ProtocolError{Message: "malformed uuid text payload: " + string(src)}
		}
		return u, nil
	}

	if len(src) != 16 {
		return nil, &ProtocolError{Message: "uuid requires 16 bytes"}
	}
	u, err := uuid.FromBytes(src)
	if err != nil {
		return nil, &ProtocolError{Message: "malformed uuid payload"}
	}
	return u, nil
}
