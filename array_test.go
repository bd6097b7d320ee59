package pgwire_test

import (
	"testing"

	"github.com/pgkit/pgwire"
	"github.com/stretchr/testify/require"
)

func TestArrayRoundTripOneDimension(t *testing.T) {
	m := pgwire.NewMap()

	for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
		got := roundTrip(t, m, pgwire.Int4ArrayOID, format, []interface{}{int32(1), int32(2), int32(3)})
		require.Equal(t, []interface{}{int32(1), int32(2), int32(3)}, got)
	}
}

func TestArrayRoundTripTwoDimensions(t *testing.T) {
	m := pgwire.NewMap()

	value := []interface{}{
		[]interface{}{int32(1), int32(2)},
		[]interface{}{int32(4), int32(5)},
		[]interface{}{int32(6), int32(7)},
	}

	got := roundTrip(t, m, pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, value)
	require.Equal(t, value, got)
}

func TestArrayNullElements(t *testing.T) {
	m := pgwire.NewMap()

	value := []interface{}{"a", nil, "c"}
	for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
		got := roundTrip(t, m, pgwire.TextArrayOID, format, value)
		require.Equal(t, value, got)
	}
}

func TestArrayEmpty(t *testing.T) {
	m := pgwire.NewMap()

	for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
		got := roundTrip(t, m, pgwire.Int4ArrayOID, format, []interface{}{})
		require.Equal(t, []interface{}{}, got)
	}
}

func TestArrayTextQuoting(t *testing.T) {
	m := pgwire.NewMap()

	value := []interface{}{`plain`, `two words`, "tab\there", `with,comma`, `with"quote`, `with\backslash`, `NULL`, ``}
	buf, err := m.Encode(pgwire.TextArrayOID, pgwire.TextFormatCode, value, nil)
	require.NoError(t, err)
	require.Equal(t, "{plain,\"two words\",\"tab\there\",\"with,comma\",\"with\\\"quote\",\"with\\\\backslash\",\"NULL\",\"\"}", string(buf))

	got, err := m.Decode(pgwire.TextArrayOID, pgwire.TextFormatCode, buf)
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func TestArrayRejectsScalar(t *testing.T) {
	m := pgwire.NewMap()

	for _, v := range []interface{}{int32(1), "text", []byte{1, 2}} {
		_, err := m.Encode(pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, v, nil)
		var mismatchErr *pgwire.TypeMismatchError
		require.ErrorAs(t, err, &mismatchErr, "%T", v)
		require.Contains(t, err.Error(), "non-trivial iterable expected")
	}
}

func TestArrayRejectsRaggedShape(t *testing.T) {
	m := pgwire.NewMap()

	tests := [][]interface{}{
		{int32(1), []interface{}{int32(1)}},
		{[]interface{}{int32(1)}, int32(2)},
		{[]interface{}{int32(1), int32(2)}, []interface{}{int32(3)}},
	}

	for _, value := range tests {
		_, err := m.Encode(pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, value, nil)
		var shapeErr *pgwire.InvalidShapeError
		require.ErrorAs(t, err, &shapeErr, "%v", value)
		require.Contains(t, err.Error(), "non-homogeneous")
	}
}

func TestArrayDimensionLimit(t *testing.T) {
	m := pgwire.NewMap()

	value := interface{}(int32(1))
	for i := 0; i < 7; i++ {
		value = []interface{}{value}
	}

	_, err := m.Encode(pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, value, nil)
	var dimErr *pgwire.DimensionLimitError
	require.ErrorAs(t, err, &dimErr)
}

func TestArraySixDimensionsAllowed(t *testing.T) {
	m := pgwire.NewMap()

	value := interface{}(int32(1))
	for i := 0; i < 6; i++ {
		value = []interface{}{value}
	}

	got := roundTrip(t, m, pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, value)
	require.Equal(t, value, got)
}

func TestArrayInvalidElementPosition(t *testing.T) {
	m := pgwire.NewMap()

	_, err := m.Encode(pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, []interface{}{int32(1), "bad", int32(3)}, nil)
	var elemErr *pgwire.InvalidElementError
	require.ErrorAs(t, err, &elemErr)
	require.Equal(t, 1, elemErr.Position)
}

func TestArrayDecodeTooManyServerDimensions(t *testing.T) {
	m := pgwire.NewMap()

	src := []byte{
		0, 0, 0, 7, // ndims
		0, 0, 0, 0, // flags
		0, 0, 0, 23, // element oid
	}
	_, err := m.Decode(pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, src)
	var limitErr *pgwire.ProgramLimitExceededError
	require.ErrorAs(t, err, &limitErr)
}

func TestArrayDecodeMalformedDimensions(t *testing.T) {
	m := pgwire.NewMap()

	negativeDim := []byte{
		0, 0, 0, 1, // ndims
		0, 0, 0, 0, // flags
		0, 0, 0, 23, // element oid
		0xff, 0xff, 0xff, 0xff, // dim size -1
		0, 0, 0, 1, // lower bound
	}
	_, err := m.Decode(pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, negativeDim)
	var protoErr *pgwire.ProtocolError
	require.ErrorAs(t, err, &protoErr)

	// Two maximal dimensions whose product dwarfs the payload.
	oversized := []byte{
		0, 0, 0, 2, // ndims
		0, 0, 0, 0, // flags
		0, 0, 0, 23, // element oid
		0x7f, 0xff, 0xff, 0xff, // dim 0 size
		0, 0, 0, 1, // lower bound
		0x7f, 0xff, 0xff, 0xff, // dim 1 size
		0, 0, 0, 1, // lower bound
	}
	_, err = m.Decode(pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, oversized)
	require.ErrorAs(t, err, &protoErr)

	// A single dimension claiming more elements than the payload holds.
	truncated := []byte{
		0, 0, 0, 1, // ndims
		0, 0, 0, 0, // flags
		0, 0, 0, 23, // element oid
		0, 0, 0, 3, // dim size
		0, 0, 0, 1, // lower bound
	}
	_, err = m.Decode(pgwire.Int4ArrayOID, pgwire.BinaryFormatCode, truncated)
	require.ErrorAs(t, err, &protoErr)
}

func TestArrayTypedSliceInput(t *testing.T) {
	m := pgwire.NewMap()

	got := roundTrip(t, m, pgwire.Int8ArrayOID, pgwire.BinaryFormatCode, []int64{10, 20})
	require.Equal(t, []interface{}{int64(10), int64(20)}, got)
}
