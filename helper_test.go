package pgwire_test

import (
	"testing"

	"github.com/pgkit/pgwire"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, m *pgwire.Map, oid uint32, format int16, value interface{}) interface{} {
	t.Helper()
	buf, err := m.Encode(oid, format, value, nil)
	require.NoError(t, err)
	decoded, err := m.Decode(oid, format, buf)
	require.NoError(t, err)
	return decoded
}
