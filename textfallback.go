package pgwire

// TextFallbackCodec passes the server's text representation through
// unchanged in both directions. It serves unknown extension scalars and
// the unknown pseudo-type: the payload is an opaque string and only the
// caller knows what to make of it.
type TextFallbackCodec struct{}

func (TextFallbackCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (TextFallbackCodec) PreferredFormat() int16 { return TextFormatCode }

func (TextFallbackCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	switch value := value.(type) {
	case string:
		return append(buf, value...), nil
	case []byte:
		return append(buf, value...), nil
	default:
		return nil, &TypeMismatchError{TypeName: "unknown", Value: value, Expected: "a string"}
	}
}

func (TextFallbackCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	return string(src), nil
}
