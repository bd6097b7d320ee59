package pgwire_test

import (
	"math/big"
	"testing"

	"github.com/cockroachdb/apd/v2"
	"github.com/pgkit/pgwire"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundTripKeepsScale(t *testing.T) {
	m := pgwire.NewMap()

	// String round trips must preserve the display scale digit for digit.
	tests := []string{
		"0",
		"1",
		"-1",
		"1000000000.23111",
		"-1000000000.23111",
		"0.00000000000000",
		"4.42",
		"10000",
		"9999e-8",
		"1.0E-1000",
		"3.14159265358979323846264338327950",
		"123456789012345678901234567890.1234567890",
	}

	for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
		for _, s := range tests {
			want, _, err := apd.NewFromString(s)
			require.NoError(t, err)

			got := roundTrip(t, m, pgwire.NumericOID, format, s)
			d, ok := got.(*apd.Decimal)
			require.True(t, ok, "decoded %T for %q", got, s)
			require.Equal(t, want.String(), d.String(), "format %d", format)
			require.Equal(t, want.Exponent, d.Exponent, "format %d input %q", format, s)
		}
	}
}

func TestNumericPositiveExponentExpands(t *testing.T) {
	m := pgwire.NewMap()

	// The wire scale cannot be negative, so 1E+1000 comes back as the
	// expanded integer, same value with exponent zero.
	want, _, err := apd.NewFromString("1E+1000")
	require.NoError(t, err)

	got := roundTrip(t, m, pgwire.NumericOID, pgwire.BinaryFormatCode, "1E+1000").(*apd.Decimal)
	require.Zero(t, got.Exponent)
	require.Zero(t, want.Cmp(got))
}

func TestNumericSpecialValues(t *testing.T) {
	m := pgwire.NewMap()

	for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
		got := roundTrip(t, m, pgwire.NumericOID, format, "NaN").(*apd.Decimal)
		require.Equal(t, apd.NaN, got.Form)

		got = roundTrip(t, m, pgwire.NumericOID, format, "Infinity").(*apd.Decimal)
		require.Equal(t, apd.Infinite, got.Form)
		require.False(t, got.Negative)

		got = roundTrip(t, m, pgwire.NumericOID, format, "-Infinity").(*apd.Decimal)
		require.Equal(t, apd.Infinite, got.Form)
		require.True(t, got.Negative)
	}
}

func TestNumericExactZeroWire(t *testing.T) {
	m := pgwire.NewMap()

	// Exact zero carries no digit groups, only the scale.
	buf, err := m.Encode(pgwire.NumericOID, pgwire.BinaryFormatCode, "0.00000000000000", nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 14}, buf)
}

func TestNumericAcceptsIntegers(t *testing.T) {
	m := pgwire.NewMap()

	got := roundTrip(t, m, pgwire.NumericOID, pgwire.BinaryFormatCode, int64(-12345)).(*apd.Decimal)
	require.Equal(t, "-12345", got.String())

	b, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	got = roundTrip(t, m, pgwire.NumericOID, pgwire.BinaryFormatCode, b).(*apd.Decimal)
	require.Equal(t, "123456789012345678901234567890", got.String())
}

func TestNumericRejectsNonNumber(t *testing.T) {
	m := pgwire.NewMap()

	for _, v := range []interface{}{"not a number", true, []byte{1}} {
		_, err := m.Encode(pgwire.NumericOID, pgwire.BinaryFormatCode, v, nil)
		var mismatchErr *pgwire.TypeMismatchError
		require.ErrorAs(t, err, &mismatchErr, "%T", v)
	}
}
