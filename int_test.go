package pgwire_test

import (
	"math"
	"testing"

	"github.com/pgkit/pgwire"
	"github.com/stretchr/testify/require"
)

func TestIntRoundTrip(t *testing.T) {
	m := pgwire.NewMap()

	tests := []struct {
		oid      uint32
		value    interface{}
		expected interface{}
	}{
		{pgwire.Int2OID, int16(0), int16(0)},
		{pgwire.Int2OID, int16(math.MaxInt16), int16(math.MaxInt16)},
		{pgwire.Int2OID, int16(math.MinInt16), int16(math.MinInt16)},
		{pgwire.Int2OID, int(42), int16(42)},
		{pgwire.Int4OID, int32(math.MaxInt32), int32(math.MaxInt32)},
		{pgwire.Int4OID, int32(math.MinInt32), int32(math.MinInt32)},
		{pgwire.Int4OID, int64(7), int32(7)},
		{pgwire.Int8OID, int64(math.MaxInt64), int64(math.MaxInt64)},
		{pgwire.Int8OID, int64(math.MinInt64), int64(math.MinInt64)},
		{pgwire.Int8OID, uint32(math.MaxUint32), int64(math.MaxUint32)},
	}

	for _, tt := range tests {
		for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
			require.Equal(t, tt.expected, roundTrip(t, m, tt.oid, format, tt.value))
		}
	}
}

func TestIntOverflow(t *testing.T) {
	m := pgwire.NewMap()

	tests := []struct {
		oid   uint32
		value interface{}
	}{
		{pgwire.Int2OID, int32(math.MaxInt16 + 1)},
		{pgwire.Int2OID, int32(math.MinInt16 - 1)},
		{pgwire.Int4OID, int64(math.MaxInt32 + 1)},
		{pgwire.Int4OID, int64(math.MinInt32 - 1)},
		{pgwire.Int8OID, uint64(math.MaxInt64 + 1)},
	}

	for _, tt := range tests {
		_, err := m.Encode(tt.oid, pgwire.BinaryFormatCode, tt.value, nil)
		var overflowErr *pgwire.OverflowError
		require.ErrorAs(t, err, &overflowErr, "%T %v", tt.value, tt.value)
	}
}

func TestIntRejectsNonInteger(t *testing.T) {
	m := pgwire.NewMap()

	_, err := m.Encode(pgwire.Int4OID, pgwire.BinaryFormatCode, "7", nil)
	var mismatchErr *pgwire.TypeMismatchError
	require.ErrorAs(t, err, &mismatchErr)
}

func TestIntDecodeWrongLength(t *testing.T) {
	m := pgwire.NewMap()

	_, err := m.Decode(pgwire.Int4OID, pgwire.BinaryFormatCode, []byte{0, 0, 1})
	var protoErr *pgwire.ProtocolError
	require.ErrorAs(t, err, &protoErr)
}
