package pgwire_test

import (
	"testing"
	"time"

	"github.com/pgkit/pgwire"
	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	m := pgwire.NewMap()

	dates := []time.Time{
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		time.Date(1600, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
		for _, d := range dates {
			got := roundTrip(t, m, pgwire.DateOID, format, d).(pgwire.Date)
			require.True(t, got.Valid)
			require.True(t, got.Time.Equal(d), "format %d: %v != %v", format, got.Time, d)
		}
	}
}

func TestDateInfinity(t *testing.T) {
	m := pgwire.NewMap()

	for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
		got := roundTrip(t, m, pgwire.DateOID, format, pgwire.Infinity).(pgwire.Date)
		require.Equal(t, pgwire.Infinity, got.InfinityModifier)

		got = roundTrip(t, m, pgwire.DateOID, format, pgwire.NegativeInfinity).(pgwire.Date)
		require.Equal(t, pgwire.NegativeInfinity, got.InfinityModifier)
	}
}

func TestDateInfinityWire(t *testing.T) {
	m := pgwire.NewMap()

	buf, err := m.Encode(pgwire.DateOID, pgwire.BinaryFormatCode, pgwire.Infinity, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x7f, 0xff, 0xff, 0xff}, buf)

	buf, err = m.Encode(pgwire.DateOID, pgwire.BinaryFormatCode, pgwire.NegativeInfinity, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x80, 0x00, 0x00, 0x00}, buf)
}

func TestTimestampRoundTrip(t *testing.T) {
	m := pgwire.NewMap()

	times := []time.Time{
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 30, 12, 34, 56, 789000*1000, time.UTC),
		time.Date(1969, 7, 20, 20, 17, 40, 0, time.UTC),
	}

	for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
		for _, ts := range times {
			got := roundTrip(t, m, pgwire.TimestampOID, format, ts).(pgwire.Timestamp)
			require.True(t, got.Time.Equal(ts), "format %d: %v != %v", format, got.Time, ts)
		}
	}
}

func TestTimestampDiscardsZone(t *testing.T) {
	m := pgwire.NewMap()

	zone := time.FixedZone("plus5", 5*3600)
	in := time.Date(2026, 8, 30, 12, 0, 0, 0, zone)

	got := roundTrip(t, m, pgwire.TimestampOID, pgwire.BinaryFormatCode, in).(pgwire.Timestamp)
	// The wall clock reading survives; the zone does not shift it.
	require.Equal(t, 12, got.Time.Hour())
	require.Equal(t, time.UTC, got.Time.Location())
}

func TestTimestamptzNormalizesToUTC(t *testing.T) {
	m := pgwire.NewMap()

	zone := time.FixedZone("minus3", -3*3600)
	in := time.Date(2026, 8, 30, 12, 0, 0, 0, zone)

	got := roundTrip(t, m, pgwire.TimestamptzOID, pgwire.BinaryFormatCode, in).(pgwire.Timestamp)
	require.True(t, got.Time.Equal(in))
	require.Equal(t, time.UTC, got.Time.Location())
}

func TestTimestampInfinity(t *testing.T) {
	m := pgwire.NewMap()

	for _, oid := range []uint32{pgwire.TimestampOID, pgwire.TimestamptzOID} {
		got := roundTrip(t, m, oid, pgwire.BinaryFormatCode, pgwire.Infinity).(pgwire.Timestamp)
		require.Equal(t, pgwire.Infinity, got.InfinityModifier)

		got = roundTrip(t, m, oid, pgwire.BinaryFormatCode, pgwire.NegativeInfinity).(pgwire.Timestamp)
		require.Equal(t, pgwire.NegativeInfinity, got.InfinityModifier)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	m := pgwire.NewMap()

	in := pgwire.Time{Microseconds: 12*3600*1000000 + 30*60*1000000, Valid: true}
	got := roundTrip(t, m, pgwire.TimeOID, pgwire.BinaryFormatCode, in)
	require.Equal(t, in, got)

	_, err := m.Encode(pgwire.TimeOID, pgwire.BinaryFormatCode, pgwire.Time{Microseconds: 25 * 3600 * 1000000, Valid: true}, nil)
	var overflowErr *pgwire.OverflowError
	require.ErrorAs(t, err, &overflowErr)
}

func TestTimetzOffsetSign(t *testing.T) {
	m := pgwire.NewMap()

	in := pgwire.TimeTZ{Microseconds: 3600 * 1000000, OffsetSeconds: 2 * 3600, Valid: true}
	buf, err := m.Encode(pgwire.TimetzOID, pgwire.BinaryFormatCode, in, nil)
	require.NoError(t, err)
	require.Len(t, buf, 12)
	// The wire offset counts seconds west of UTC.
	require.Equal(t, []byte{0xff, 0xff, 0xe3, 0xe0}, buf[8:])

	got, err := m.Decode(pgwire.TimetzOID, pgwire.BinaryFormatCode, buf)
	require.NoError(t, err)
	require.Equal(t, in, got)
}

func TestIntervalRoundTrip(t *testing.T) {
	m := pgwire.NewMap()

	in := pgwire.Interval{Months: 14, Days: 3, Microseconds: 3*3600*1000000 + 42, Valid: true}
	got := roundTrip(t, m, pgwire.IntervalOID, pgwire.BinaryFormatCode, in)
	require.Equal(t, in, got)
}
