package pgwire

import (
	"fmt"
)

// TypeMismatchError is returned when a value's Go type cannot be encoded
// into (or decoded from) the target PostgreSQL type. The caller must fix
// the value; the error is never retryable.
type TypeMismatchError struct {
	TypeName string
	Value    interface{}
	Expected string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot encode %T into %s: %s expected", e.Value, e.TypeName, e.Expected)
}

// OverflowError is returned when an integer value does not fit the wire
// width of the target type.
type OverflowError struct {
	TypeName string
	Value    interface{}
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v is out of range for %s", e.Value, e.TypeName)
}

// RangeError is returned when a floating point magnitude exceeds the
// exponent range of the target wire width.
type RangeError struct {
	TypeName string
	Value    interface{}
	Message  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s", e.TypeName, e.Message)
}

// InvalidShapeError is returned when nested array input is not
// homogeneous: siblings at the same depth must agree on being scalar vs.
// sequence and must have uniform length.
type InvalidShapeError struct {
	TypeName string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("cannot encode %s: non-homogeneous array", e.TypeName)
}

// DimensionLimitError is returned when array input nests deeper than the
// server's maximum dimensionality.
type DimensionLimitError struct {
	TypeName string
	Dims     int
}

func (e *DimensionLimitError) Error() string {
	return fmt.Sprintf("cannot encode %s: number of array dimensions (%d) exceeds the maximum supported (%d)", e.TypeName, e.Dims, maxArrayDimensions)
}

// InvalidElementError wraps an element encoding failure with the flat
// position of the offending element.
type InvalidElementError struct {
	TypeName string
	Position int
	Err      error
}

func (e *InvalidElementError) Error() string {
	return fmt.Sprintf("invalid array element at position %d for %s: %v", e.Position, e.TypeName, e.Err)
}

func (e *InvalidElementError) Unwrap() error { return e.Err }

// InvalidArgumentError is returned for wrong cardinality or format
// arguments, e.g. a 3-element sequence passed as a range, or an override
// registration on a non-scalar type.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

// UnsupportedEncodingError is returned when a format is not available for
// a type kind, e.g. the text format for composite or range types. The
// call can never succeed; it is not retried.
type UnsupportedEncodingError struct {
	TypeName string
	Kind     Kind
	Format   int16
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("%s encoding of %s type %s is not supported", formatName(e.Format), e.Kind, e.TypeName)
}

// CodecNotFoundError is returned by ResolveCodec when no codec can serve
// the requested type and format.
type CodecNotFoundError struct {
	OID    uint32
	Format int16
}

func (e *CodecNotFoundError) Error() string {
	return fmt.Sprintf("no codec for type OID %d in %s format", e.OID, formatName(e.Format))
}

// UnknownTypeError is returned when no descriptor is registered for an
// OID.
type UnknownTypeError struct {
	OID uint32
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type OID %d", e.OID)
}

// ProtocolError indicates malformed or truncated wire bytes. It is fatal
// to the session: it means a wire-format or version mismatch, and is never
// retried or partially recovered.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string { return e.Message }

// ProgramLimitExceededError is returned when server-reported data exceeds
// what the protocol representation can express, e.g. an array with more
// dimensions than the maximum.
type ProgramLimitExceededError struct {
	Message string
}

func (e *ProgramLimitExceededError) Error() string { return e.Message }

func formatName(format int16) string {
	switch format {
	case TextFormatCode:
		return "text"
	case BinaryFormatCode:
		return "binary"
	default:
		return fmt.Sprintf("format(%d)", format)
	}
}
