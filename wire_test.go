package pgwire_test

import (
	"encoding/binary"
	"testing"

	"github.com/pgkit/pgwire"
	"github.com/stretchr/testify/require"
)

func TestAppendValueFramesPayload(t *testing.T) {
	m := pgwire.NewMap()

	buf, err := m.AppendValue(pgwire.Int4OID, pgwire.BinaryFormatCode, int32(42), nil)
	require.NoError(t, err)
	require.Len(t, buf, 8)
	require.EqualValues(t, 4, int32(binary.BigEndian.Uint32(buf)))
	require.EqualValues(t, 42, int32(binary.BigEndian.Uint32(buf[4:])))

	payload, rest, err := pgwire.NextValue(buf)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, buf[4:], payload)
}

func TestAppendValueNull(t *testing.T) {
	m := pgwire.NewMap()

	buf, err := m.AppendValue(pgwire.Int4OID, pgwire.BinaryFormatCode, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, buf)

	payload, rest, err := pgwire.NextValue(buf)
	require.NoError(t, err)
	require.Nil(t, payload)
	require.Empty(t, rest)
}

func TestNextValueLeavesRest(t *testing.T) {
	m := pgwire.NewMap()

	var buf []byte
	var err error
	for _, v := range []int32{1, 2, 3} {
		buf, err = m.AppendValue(pgwire.Int4OID, pgwire.BinaryFormatCode, v, buf)
		require.NoError(t, err)
	}

	for i := 0; i < 3; i++ {
		var payload []byte
		payload, buf, err = pgwire.NextValue(buf)
		require.NoError(t, err)
		require.Len(t, payload, 4)
	}
	require.Empty(t, buf)
}

func TestNextValueTruncated(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
	}{
		{name: "short header", src: []byte{0, 0}},
		{name: "declared longer than available", src: []byte{0, 0, 0, 10, 1, 2}},
		{name: "negative non-null length", src: []byte{0xff, 0xff, 0xff, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := pgwire.NextValue(tt.src)
			var protoErr *pgwire.ProtocolError
			require.ErrorAs(t, err, &protoErr)
		})
	}
}
