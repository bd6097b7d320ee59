package shopspringnumeric_test

import (
	"testing"

	"github.com/cockroachdb/apd/v2"
	"github.com/pgkit/pgwire"
	"github.com/pgkit/pgwire/ext/shopspringnumeric"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRegisterOverridesTextFormat(t *testing.T) {
	m := pgwire.NewMap()
	require.NoError(t, shopspringnumeric.Register(m))

	d := decimal.RequireFromString("1234.5678")
	buf, err := m.Encode(pgwire.NumericOID, pgwire.TextFormatCode, d, nil)
	require.NoError(t, err)
	require.Equal(t, "1234.5678", string(buf))

	got, err := m.Decode(pgwire.NumericOID, pgwire.TextFormatCode, buf)
	require.NoError(t, err)
	require.True(t, d.Equal(got.(decimal.Decimal)))

	// The binary format keeps the built-in codec.
	gotBinary, err := m.Decode(pgwire.NumericOID, pgwire.BinaryFormatCode, mustEncodeBinary(t, m, "42.5"))
	require.NoError(t, err)
	require.IsType(t, &apd.Decimal{}, gotBinary)

	m.RemoveOverride(pgwire.NumericOID, "pg_catalog")
	gotText, err := m.Decode(pgwire.NumericOID, pgwire.TextFormatCode, []byte("42.5"))
	require.NoError(t, err)
	require.IsType(t, &apd.Decimal{}, gotText)
}

func mustEncodeBinary(t *testing.T, m *pgwire.Map, s string) []byte {
	t.Helper()
	buf, err := m.Encode(pgwire.NumericOID, pgwire.BinaryFormatCode, s, nil)
	require.NoError(t, err)
	return buf
}

func TestEncodeAcceptsCommonInputs(t *testing.T) {
	m := pgwire.NewMap()
	require.NoError(t, shopspringnumeric.Register(m))

	for _, v := range []interface{}{
		decimal.New(425, -1),
		"42.5",
		int64(42),
		float64(42.5),
	} {
		_, err := m.Encode(pgwire.NumericOID, pgwire.TextFormatCode, v, nil)
		require.NoError(t, err, "%T", v)
	}

	_, err := m.Encode(pgwire.NumericOID, pgwire.TextFormatCode, true, nil)
	require.Error(t, err)
}
