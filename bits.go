package pgwire

import (
	"encoding/binary"

	"github.com/jackc/pgio"
)

// Bits represents bit and varbit values: a bit length plus the minimum
// ceiling-byte-aligned backing bytes. Len round-trips exactly even when
// not a multiple of 8; bits past Len within the last byte are undefined
// on read and zero on the wire.
type Bits struct {
	Bytes []byte
	Len   int32
	Valid bool
}

// BitsCodec transcodes bit and varbit.
type BitsCodec struct {
	TypeName string
}

func (BitsCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (BitsCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (c BitsCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	b, ok := value.(Bits)
	if !ok {
		return nil, &TypeMismatchError{TypeName: c.TypeName, Value: value, Expected: "a bit string"}
	}
	if !b.Valid {
		return nil, nil
	}

	byteLen := int(b.Len+7) / 8
	if len(b.Bytes) < byteLen {
		return nil, &InvalidArgumentError{Message: c.TypeName + ": backing bytes shorter than bit length"}
	}

	buf = pgio.AppendInt32(buf, b.Len)
	start := len(buf)
	buf = append(buf, b.Bytes[:byteLen]...)

	// Zero-pad the undefined trailing bits of the last byte.
	if padBits := uint(byteLen*8) - uint(b.Len); padBits > 0 && byteLen > 0 {
		buf[start+byteLen-1] &= 0xFF << padBits
	}

	return buf, nil
}

func (c BitsCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if len(src) < 4 {
		return nil, &ProtocolError{Message: c.TypeName + " payload incomplete"}
	}

	bitLen := int32(binary.BigEndian.Uint32(src))
	if bitLen < 0 {
		return nil, &ProtocolError{Message: c.TypeName + " has negative bit length"}
	}
	rp := 4

	byteLen := int(bitLen+7) / 8
	if len(src[rp:]) < byteLen {
		return nil, &ProtocolError{Message: c.TypeName + " payload incomplete"}
	}

	b := make([]byte, byteLen)
	copy(b, src[rp:rp+byteLen])

	return Bits{Bytes: b, Len: bitLen, Valid: true}, nil
}
