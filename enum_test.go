package pgwire_test

import (
	"testing"

	"github.com/pgkit/pgwire"
	"github.com/stretchr/testify/require"
)

func registerMoodType(m *pgwire.Map) uint32 {
	const oid = 100600
	m.RegisterType(&pgwire.Type{
		OID:    oid,
		Name:   "mood",
		Schema: "public",
		Kind:   pgwire.KindEnum,
		Labels: []string{"sad", "ok", "happy"},
	})
	return oid
}

func TestEnumRoundTrip(t *testing.T) {
	m := pgwire.NewMap()
	oid := registerMoodType(m)

	for _, format := range []int16{pgwire.TextFormatCode, pgwire.BinaryFormatCode} {
		got := roundTrip(t, m, oid, format, "happy")
		require.Equal(t, "happy", got)
	}
}

func TestEnumRejectsUnknownLabel(t *testing.T) {
	m := pgwire.NewMap()
	oid := registerMoodType(m)

	_, err := m.Encode(oid, pgwire.TextFormatCode, "ecstatic", nil)
	var argErr *pgwire.InvalidArgumentError
	require.ErrorAs(t, err, &argErr)

	_, err = m.Encode(oid, pgwire.TextFormatCode, 3, nil)
	var mismatchErr *pgwire.TypeMismatchError
	require.ErrorAs(t, err, &mismatchErr)
}

func TestEnumDeclarationOrder(t *testing.T) {
	c := pgwire.NewEnumCodec([]string{"sad", "ok", "happy"})

	// Declaration order wins over the lexicographic one.
	cmp, err := c.Compare("happy", "ok")
	require.NoError(t, err)
	require.Equal(t, 1, cmp)

	cmp, err = c.Compare("sad", "happy")
	require.NoError(t, err)
	require.Equal(t, -1, cmp)

	cmp, err = c.Compare("ok", "ok")
	require.NoError(t, err)
	require.Equal(t, 0, cmp)

	_, err = c.Compare("ok", "nope")
	require.Error(t, err)

	rank, ok := c.Rank("happy")
	require.True(t, ok)
	require.Equal(t, 2, rank)

	labels := []string{"happy", "sad", "ok"}
	c.SortLabels(labels)
	require.Equal(t, []string{"sad", "ok", "happy"}, labels)
}
