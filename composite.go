package pgwire

import (
	"encoding/binary"
	"fmt"

	"github.com/jackc/pgio"
)

// Record is a decoded composite value. It is immutable and offers both a
// positional and a by-name view over the same field storage.
type Record struct {
	fields []StructField
	values []interface{}
	byName map[string]int
}

func newRecord(fields []StructField, values []interface{}) *Record {
	r := &Record{fields: fields, values: values}
	if len(fields) > 0 {
		r.byName = make(map[string]int, len(fields))
		for i, f := range fields {
			r.byName[f.Name] = i
		}
	}
	return r
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.values) }

// Index returns the i'th field value.
func (r *Record) Index(i int) interface{} { return r.values[i] }

// Get returns the field value registered under name.
func (r *Record) Get(name string) (interface{}, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Field returns the i'th field descriptor. For anonymous records the name
// is empty.
func (r *Record) Field(i int) StructField { return r.fields[i] }

// Values returns the field values in declaration order. The slice is
// shared; callers must not modify it.
func (r *Record) Values() []interface{} { return r.values }

// CompositeCodec transcodes row types: an int32 field count followed by
// each field's OID and length-prefixed value. Fields carries the
// declaration-ordered attributes from the catalog; it is nil for the
// anonymous record pseudo-type, which can be decoded (the wire carries the
// field OIDs) but never encoded.
type CompositeCodec struct {
	TypeName string
	Fields   []StructField
}

func (c *CompositeCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (c *CompositeCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (c *CompositeCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: c.TypeName, Kind: KindComposite, Format: format}
	}
	if c.Fields == nil {
		return nil, &InvalidArgumentError{Message: fmt.Sprintf("cannot encode anonymous record type %s", c.TypeName)}
	}

	values, err := c.orderedValues(value)
	if err != nil {
		return nil, err
	}

	buf = pgio.AppendInt32(buf, int32(len(c.Fields)))
	for i, f := range c.Fields {
		buf = pgio.AppendUint32(buf, f.OID)
		buf, err = m.AppendValue(f.OID, BinaryFormatCode, values[i], buf)
		if err != nil {
			return nil, &InvalidElementError{TypeName: c.TypeName, Position: i, Err: err}
		}
	}

	return buf, nil
}

// orderedValues maps the input onto the declared field order. A sequence
// binds positionally and must match the field count exactly; a map binds
// by attribute name and every key must name a declared field, with absent
// fields encoding as NULL.
func (c *CompositeCodec) orderedValues(value interface{}) ([]interface{}, error) {
	switch value := value.(type) {
	case *Record:
		if len(value.values) != len(c.Fields) {
			return nil, &InvalidArgumentError{Message: fmt.Sprintf("%s requires %d fields, got %d", c.TypeName, len(c.Fields), value.Len())}
		}
		return value.values, nil
	case map[string]interface{}:
		values := make([]interface{}, len(c.Fields))
		byName := make(map[string]int, len(c.Fields))
		for i, f := range c.Fields {
			byName[f.Name] = i
		}
		for name, v := range value {
			i, ok := byName[name]
			if !ok {
				return nil, &InvalidArgumentError{Message: fmt.Sprintf("%s has no field %q", c.TypeName, name)}
			}
			values[i] = v
		}
		return values, nil
	}

	if seq, ok := asSequence(value); ok {
		if len(seq) != len(c.Fields) {
			return nil, &InvalidArgumentError{Message: fmt.Sprintf("%s requires %d fields, got %d", c.TypeName, len(c.Fields), len(seq))}
		}
		return seq, nil
	}

	return nil, &TypeMismatchError{TypeName: c.TypeName, Value: value, Expected: "a sequence or a name-to-value map"}
}

func (c *CompositeCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: c.TypeName, Kind: KindComposite, Format: format}
	}
	if len(src) < 4 {
		return nil, &ProtocolError{Message: "composite header requires 4 bytes"}
	}

	fieldCount := int(int32(binary.BigEndian.Uint32(src)))
	if fieldCount < 0 {
		return nil, &ProtocolError{Message: "negative composite field count"}
	}
	if c.Fields != nil && fieldCount != len(c.Fields) {
		return nil, &ProtocolError{Message: fmt.Sprintf("%s declares %d fields, wire carries %d", c.TypeName, len(c.Fields), fieldCount)}
	}
	// Each field carries an OID plus a length header, so the claimed field
	// count cannot exceed the remaining payload divided by 8.
	if fieldCount > len(src[4:])/8 {
		return nil, &ProtocolError{Message: "composite field count exceeds message size"}
	}

	fields := c.Fields
	if fields == nil {
		fields = make([]StructField, fieldCount)
	}
	values := make([]interface{}, fieldCount)

	rest := src[4:]
	for i := 0; i < fieldCount; i++ {
		if len(rest) < 4 {
			return nil, &ProtocolError{Message: "composite field header truncated"}
		}
		fieldOID := binary.BigEndian.Uint32(rest)
		rest = rest[4:]

		if c.Fields == nil {
			fields[i] = StructField{OID: fieldOID}
		}

		payload, remaining, err := NextValue(rest)
		if err != nil {
			return nil, err
		}
		rest = remaining

		if payload == nil {
			continue
		}
		// The wire OID is authoritative: the server may have substituted a
		// base type for a domain attribute.
		v, err := m.Decode(fieldOID, BinaryFormatCode, payload)
		if err != nil {
			return nil, &InvalidElementError{TypeName: c.TypeName, Position: i, Err: err}
		}
		values[i] = v
	}

	if len(rest) != 0 {
		return nil, &ProtocolError{Message: "composite payload has trailing data"}
	}

	return newRecord(fields, values), nil
}
