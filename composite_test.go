package pgwire_test

import (
	"testing"

	"github.com/pgkit/pgwire"
	"github.com/stretchr/testify/require"
)

func registerPersonType(m *pgwire.Map) uint32 {
	const oid = 100500
	m.RegisterType(&pgwire.Type{
		OID:    oid,
		Name:   "person",
		Schema: "public",
		Kind:   pgwire.KindComposite,
		Fields: []pgwire.StructField{
			{Name: "id", OID: pgwire.Int8OID},
			{Name: "name", OID: pgwire.TextOID},
			{Name: "score", OID: pgwire.Float8OID},
		},
	})
	return oid
}

func TestCompositeRoundTripPositional(t *testing.T) {
	m := pgwire.NewMap()
	oid := registerPersonType(m)

	got := roundTrip(t, m, oid, pgwire.BinaryFormatCode, []interface{}{int64(1), "ada", float64(9.5)})
	r, ok := got.(*pgwire.Record)
	require.True(t, ok)
	require.Equal(t, 3, r.Len())
	require.Equal(t, int64(1), r.Index(0))
	require.Equal(t, "ada", r.Index(1))
	require.Equal(t, 9.5, r.Index(2))

	name, ok := r.Get("name")
	require.True(t, ok)
	require.Equal(t, "ada", name)

	_, ok = r.Get("missing")
	require.False(t, ok)
}

func TestCompositeEncodeFromMap(t *testing.T) {
	m := pgwire.NewMap()
	oid := registerPersonType(m)

	got := roundTrip(t, m, oid, pgwire.BinaryFormatCode, map[string]interface{}{
		"name": "grace",
		"id":   int64(2),
	})
	r := got.(*pgwire.Record)
	require.Equal(t, int64(2), r.Index(0))
	require.Equal(t, "grace", r.Index(1))
	require.Nil(t, r.Index(2))
}

func TestCompositeEncodeUnknownField(t *testing.T) {
	m := pgwire.NewMap()
	oid := registerPersonType(m)

	_, err := m.Encode(oid, pgwire.BinaryFormatCode, map[string]interface{}{"nope": 1}, nil)
	var argErr *pgwire.InvalidArgumentError
	require.ErrorAs(t, err, &argErr)
}

func TestCompositeEncodeWrongArity(t *testing.T) {
	m := pgwire.NewMap()
	oid := registerPersonType(m)

	_, err := m.Encode(oid, pgwire.BinaryFormatCode, []interface{}{int64(1)}, nil)
	var argErr *pgwire.InvalidArgumentError
	require.ErrorAs(t, err, &argErr)
}

func TestCompositeNullField(t *testing.T) {
	m := pgwire.NewMap()
	oid := registerPersonType(m)

	got := roundTrip(t, m, oid, pgwire.BinaryFormatCode, []interface{}{int64(1), nil, float64(0)})
	r := got.(*pgwire.Record)
	require.Nil(t, r.Index(1))
}

func TestAnonymousRecordDecodeOnly(t *testing.T) {
	m := pgwire.NewMap()

	// Build a two-field record payload by hand: the wire carries the
	// field OIDs, so decode needs no catalog fields.
	typed := registerPersonType(m)
	buf, err := m.Encode(typed, pgwire.BinaryFormatCode, []interface{}{int64(7), "x", float64(1)}, nil)
	require.NoError(t, err)

	got, err := m.Decode(pgwire.RecordOID, pgwire.BinaryFormatCode, buf)
	require.NoError(t, err)
	r := got.(*pgwire.Record)
	require.Equal(t, int64(7), r.Index(0))
	require.Equal(t, "x", r.Index(1))
	require.EqualValues(t, pgwire.Int8OID, r.Field(0).OID)
	require.Empty(t, r.Field(0).Name)

	_, err = m.Encode(pgwire.RecordOID, pgwire.BinaryFormatCode, []interface{}{int64(7)}, nil)
	var argErr *pgwire.InvalidArgumentError
	require.ErrorAs(t, err, &argErr)
}

func TestAnonymousRecordRejectsOversizedFieldCount(t *testing.T) {
	m := pgwire.NewMap()

	// A header claiming 2^31-1 fields with no payload behind it.
	src := []byte{0x7f, 0xff, 0xff, 0xff}
	_, err := m.Decode(pgwire.RecordOID, pgwire.BinaryFormatCode, src)
	var protoErr *pgwire.ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestCompositeNested(t *testing.T) {
	m := pgwire.NewMap()
	person := registerPersonType(m)
	m.RegisterType(&pgwire.Type{
		OID:    100501,
		Name:   "team",
		Schema: "public",
		Kind:   pgwire.KindComposite,
		Fields: []pgwire.StructField{
			{Name: "label", OID: pgwire.TextOID},
			{Name: "lead", OID: person},
		},
	})

	got := roundTrip(t, m, 100501, pgwire.BinaryFormatCode, []interface{}{
		"core",
		[]interface{}{int64(3), "lin", float64(7)},
	})
	r := got.(*pgwire.Record)
	require.Equal(t, "core", r.Index(0))
	lead := r.Index(1).(*pgwire.Record)
	require.Equal(t, "lin", lead.Index(1))
}
