package pgwire

// BoolCodec transcodes bool as exactly one byte, 0 or 1.
type BoolCodec struct{}

func (BoolCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (BoolCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (BoolCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "bool", Value: value, Expected: "a boolean"}
	}

	switch format {
	case BinaryFormatCode:
		if b {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil
	case TextFormatCode:
		if b {
			return append(buf, 't'), nil
		}
		return append(buf, 'f'), nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func (BoolCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if len(src) != 1 {
		return nil, &ProtocolError{Message: "bool requires 1 byte"}
	}

	switch format {
	case TextFormatCode:
		switch src[0] {
		case 't':
			return true, nil
		case 'f':
			return false, nil
		}
	case BinaryFormatCode:
		switch src[0] {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	}

	return nil, &ProtocolError{Message: "malformed bool payload"}
}
