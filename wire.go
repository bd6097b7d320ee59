package pgwire

import (
	"encoding/binary"
	"fmt"

	"github.com/jackc/pgio"
)

// Every value on the wire is an int32 length followed by exactly that many
// payload bytes. A length of -1 denotes SQL NULL and carries no payload.

const nullValueLength = -1

// AppendValue resolves the codec for oid and appends the length-prefixed
// wire form of value to buf, writing the -1 sentinel for NULL. The length
// header is backfilled over the bytes the codec actually appended, so the
// declared count always matches the payload.
func (m *Map) AppendValue(oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	if value == nil {
		return pgio.AppendInt32(buf, nullValueLength), nil
	}

	codec, err := m.ResolveCodec(oid, format)
	if err != nil {
		return nil, err
	}

	sp := len(buf)
	buf = pgio.AppendInt32(buf, nullValueLength)
	newBuf, err := codec.Encode(m, oid, format, value, buf)
	if err != nil {
		return nil, err
	}
	if newBuf == nil {
		return buf, nil
	}
	pgio.SetInt32(newBuf[sp:], int32(len(newBuf[sp:])-4))
	return newBuf, nil
}

// NextValue reads one length-prefixed value from src. It returns the
// payload (nil for the NULL sentinel) and the remaining bytes. A buffer
// too short for its own declared length is a ProtocolError: the wire
// stream is unusable and the session must be abandoned.
func NextValue(src []byte) (payload []byte, rest []byte, err error) {
	if len(src) < 4 {
		return nil, nil, &ProtocolError{Message: fmt.Sprintf("insufficient data for value header: %d bytes", len(src))}
	}

	valueLen := int(int32(binary.BigEndian.Uint32(src)))
	src = src[4:]

	if valueLen == nullValueLength {
		return nil, src, nil
	}
	if valueLen < 0 {
		return nil, nil, &ProtocolError{Message: fmt.Sprintf("invalid value length %d", valueLen)}
	}
	if len(src) < valueLen {
		return nil, nil, &ProtocolError{Message: fmt.Sprintf("value truncated: declared %d bytes, %d available", valueLen, len(src))}
	}

	return src[:valueLen], src[valueLen:], nil
}
