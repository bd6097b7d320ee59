package pgwire

import (
	"encoding/binary"
	"reflect"
	"strings"

	"github.com/jackc/pgio"
)

// maxArrayDimensions matches the server's MAXDIM.
const maxArrayDimensions = 6

// ArrayCodec transcodes arrays of any registered element type. The binary
// form is a dimension header followed by the length-prefixed elements in
// row-major order; the text form is the brace-and-comma literal with
// element quoting. Go values are nested []interface{} with one nesting
// level per dimension, lower bounds fixed at 1.
type ArrayCodec struct {
	TypeName   string
	ElementOID uint32
}

func (c *ArrayCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (c *ArrayCodec) PreferredFormat() int16 { return BinaryFormatCode }

// asSequence reports whether value is array input. Strings and byte
// slices decode as scalars even though Go can range over them.
func asSequence(value interface{}) ([]interface{}, bool) {
	switch value := value.(type) {
	case []interface{}:
		return value, true
	case string, []byte, nil:
		return nil, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		seq := make([]interface{}, rv.Len())
		for i := range seq {
			seq[i] = rv.Index(i).Interface()
		}
		return seq, true
	}
	return nil, false
}

// inferShape walks the nested input breadth-first, recording one dimension
// length per level and flattening the elements in row-major order.
// Siblings at each level must agree on being scalar or sequence and
// sequences must have uniform length.
func (c *ArrayCodec) inferShape(seq []interface{}) (dims []int, elements []interface{}, err error) {
	dims = []int{len(seq)}
	level := seq

	for len(level) > 0 {
		_, deeper := asSequence(level[0])
		if !deeper {
			for _, sibling := range level {
				if _, ok := asSequence(sibling); ok {
					return nil, nil, &InvalidShapeError{TypeName: c.TypeName}
				}
			}
			break
		}

		if len(dims) == maxArrayDimensions {
			return nil, nil, &DimensionLimitError{TypeName: c.TypeName, Dims: len(dims) + 1}
		}

		first, _ := asSequence(level[0])
		width := len(first)
		next := make([]interface{}, 0, len(level)*width)
		for _, sibling := range level {
			sub, ok := asSequence(sibling)
			if !ok || len(sub) != width {
				return nil, nil, &InvalidShapeError{TypeName: c.TypeName}
			}
			next = append(next, sub...)
		}
		dims = append(dims, width)
		level = next
	}

	return dims, level, nil
}

func (c *ArrayCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	seq, ok := asSequence(value)
	if !ok {
		return nil, &TypeMismatchError{TypeName: c.TypeName, Value: value, Expected: "non-trivial iterable"}
	}

	dims, elements, err := c.inferShape(seq)
	if err != nil {
		return nil, err
	}

	switch format {
	case BinaryFormatCode:
		return c.encodeBinary(m, dims, elements, buf)
	case TextFormatCode:
		return c.encodeText(m, seq, buf)
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func (c *ArrayCodec) encodeBinary(m *Map, dims []int, elements []interface{}, buf []byte) ([]byte, error) {
	if len(elements) == 0 {
		buf = pgio.AppendInt32(buf, 0)
		buf = pgio.AppendInt32(buf, 0)
		return pgio.AppendUint32(buf, c.ElementOID), nil
	}

	var containsNull int32
	for _, e := range elements {
		if e == nil {
			containsNull = 1
			break
		}
	}

	buf = pgio.AppendInt32(buf, int32(len(dims)))
	buf = pgio.AppendInt32(buf, containsNull)
	buf = pgio.AppendUint32(buf, c.ElementOID)
	for _, d := range dims {
		buf = pgio.AppendInt32(buf, int32(d))
		buf = pgio.AppendInt32(buf, 1)
	}

	for i, e := range elements {
		var err error
		buf, err = m.AppendValue(c.ElementOID, BinaryFormatCode, e, buf)
		if err != nil {
			return nil, &InvalidElementError{TypeName: c.TypeName, Position: i, Err: err}
		}
	}

	return buf, nil
}

func (c *ArrayCodec) encodeText(m *Map, seq []interface{}, buf []byte) ([]byte, error) {
	position := 0
	return c.appendTextLevel(m, seq, buf, &position)
}

func (c *ArrayCodec) appendTextLevel(m *Map, level []interface{}, buf []byte, position *int) ([]byte, error) {
	buf = append(buf, '{')
	for i, e := range level {
		if i > 0 {
			buf = append(buf, ',')
		}
		if sub, ok := asSequence(e); ok {
			var err error
			buf, err = c.appendTextLevel(m, sub, buf, position)
			if err != nil {
				return nil, err
			}
			continue
		}
		if e == nil {
			buf = append(buf, "NULL"...)
			*position++
			continue
		}
		elemBuf, err := m.Encode(c.ElementOID, TextFormatCode, e, nil)
		if err != nil {
			return nil, &InvalidElementError{TypeName: c.TypeName, Position: *position, Err: err}
		}
		buf = append(buf, quoteArrayElementIfNeeded(string(elemBuf))...)
		*position++
	}
	return append(buf, '}'), nil
}

func (c *ArrayCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	switch format {
	case BinaryFormatCode:
		return c.decodeBinary(m, src)
	case TextFormatCode:
		return c.decodeText(m, string(src))
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func (c *ArrayCodec) decodeBinary(m *Map, src []byte) (interface{}, error) {
	if len(src) < 12 {
		return nil, &ProtocolError{Message: "array header requires 12 bytes"}
	}

	ndims := int(int32(binary.BigEndian.Uint32(src)))
	elemOID := binary.BigEndian.Uint32(src[8:])
	rp := 12

	if ndims == 0 {
		return []interface{}{}, nil
	}
	if ndims < 0 || ndims > maxArrayDimensions {
		return nil, &ProgramLimitExceededError{Message: "unsupported number of array dimensions"}
	}
	if len(src) < rp+ndims*8 {
		return nil, &ProtocolError{Message: "array dimension header truncated"}
	}

	// Each element carries at least a 4 byte length header, so the claimed
	// element count cannot exceed the remaining payload divided by 4.
	maxElements := int64(len(src)-rp-ndims*8) / 4
	dims := make([]int, ndims)
	elementCount := int64(1)
	for i := range dims {
		d := int32(binary.BigEndian.Uint32(src[rp:]))
		rp += 8
		if d < 0 {
			return nil, &ProtocolError{Message: "negative array dimension size"}
		}
		dims[i] = int(d)
		elementCount *= int64(d)
		if elementCount > maxElements {
			return nil, &ProtocolError{Message: "array dimensions exceed message size"}
		}
	}

	elements := make([]interface{}, 0, elementCount)
	rest := src[rp:]
	for i := 0; i < int(elementCount); i++ {
		payload, remaining, err := NextValue(rest)
		if err != nil {
			return nil, err
		}
		rest = remaining

		if payload == nil {
			elements = append(elements, nil)
			continue
		}
		v, err := m.Decode(elemOID, BinaryFormatCode, payload)
		if err != nil {
			return nil, &InvalidElementError{TypeName: c.TypeName, Position: i, Err: err}
		}
		elements = append(elements, v)
	}

	return nestElements(dims, elements), nil
}

// nestElements rebuilds the nested []interface{} structure from the flat
// row-major element list.
func nestElements(dims []int, elements []interface{}) []interface{} {
	if len(dims) == 1 {
		return elements
	}
	stride := 1
	for _, d := range dims[1:] {
		stride *= d
	}
	out := make([]interface{}, dims[0])
	for i := range out {
		out[i] = nestElements(dims[1:], elements[i*stride:(i+1)*stride])
	}
	return out
}

func (c *ArrayCodec) decodeText(m *Map, src string) (interface{}, error) {
	p := &arrayTextParser{src: src}
	v, err := p.parseLevel(m, c.ElementOID)
	if err != nil {
		return nil, &ProtocolError{Message: "malformed array literal: " + err.Error()}
	}
	p.skipWhitespace()
	if p.pos != len(p.src) {
		return nil, &ProtocolError{Message: "malformed array literal: trailing data"}
	}
	return v, nil
}

type arrayTextParser struct {
	src string
	pos int
}

type arrayParseError string

func (e arrayParseError) Error() string { return string(e) }

func (p *arrayTextParser) skipWhitespace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *arrayTextParser) parseLevel(m *Map, elemOID uint32) ([]interface{}, error) {
	p.skipWhitespace()
	if p.pos >= len(p.src) || p.src[p.pos] != '{' {
		return nil, arrayParseError("expected '{'")
	}
	p.pos++

	out := []interface{}{}
	p.skipWhitespace()
	if p.pos < len(p.src) && p.src[p.pos] == '}' {
		p.pos++
		return out, nil
	}

	for {
		p.skipWhitespace()
		if p.pos >= len(p.src) {
			return nil, arrayParseError("unterminated array")
		}

		if p.src[p.pos] == '{' {
			sub, err := p.parseLevel(m, elemOID)
			if err != nil {
				return nil, err
			}
			out = append(out, sub)
		} else {
			text, quoted, err := p.parseElementText()
			if err != nil {
				return nil, err
			}
			if !quoted && text == "NULL" {
				out = append(out, nil)
			} else {
				v, err := m.Decode(elemOID, TextFormatCode, []byte(text))
				if err != nil {
					return nil, arrayParseError(err.Error())
				}
				out = append(out, v)
			}
		}

		p.skipWhitespace()
		if p.pos >= len(p.src) {
			return nil, arrayParseError("unterminated array")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return out, nil
		default:
			return nil, arrayParseError("expected ',' or '}'")
		}
	}
}

func (p *arrayTextParser) parseElementText() (text string, quoted bool, err error) {
	if p.src[p.pos] == '"' {
		p.pos++
		var sb strings.Builder
		for p.pos < len(p.src) {
			ch := p.src[p.pos]
			switch ch {
			case '\\':
				p.pos++
				if p.pos >= len(p.src) {
					return "", true, arrayParseError("unterminated quoted element")
				}
				sb.WriteByte(p.src[p.pos])
				p.pos++
			case '"':
				p.pos++
				return sb.String(), true, nil
			default:
				sb.WriteByte(ch)
				p.pos++
			}
		}
		return "", true, arrayParseError("unterminated quoted element")
	}

	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ',', '}':
			return strings.TrimRight(p.src[start:p.pos], " \t"), false, nil
		}
		p.pos++
	}
	return "", false, arrayParseError("unterminated array")
}

func quoteArrayElement(src string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(src, `\`, `\\`), `"`, `\"`) + `"`
}

func quoteArrayElementIfNeeded(src string) string {
	if src == "" || (len(src) == 4 && strings.EqualFold(src, "null")) ||
		strings.ContainsAny(src, "{},\"\\ \t\n\r\v\f") {
		return quoteArrayElement(src)
	}
	return src
}
