package pgwire_test

import (
	"testing"

	"github.com/jackc/pgproto3/v2"
	"github.com/pgkit/pgwire"
	"github.com/stretchr/testify/require"
)

func TestStatementDescription(t *testing.T) {
	m := pgwire.NewMap()

	paramDesc := &pgproto3.ParameterDescription{
		ParameterOIDs: []uint32{pgwire.Int8OID, pgwire.TextOID, 424242},
	}
	rowDesc := &pgproto3.RowDescription{
		Fields: []pgproto3.FieldDescription{
			{Name: []byte("id"), DataTypeOID: pgwire.Int8OID},
			{Name: []byte("name"), DataTypeOID: pgwire.TextOID},
		},
	}

	sd := pgwire.NewStatementDescription(m, "stmt_1", "select id, name from users where id = $1", paramDesc, rowDesc)

	params := sd.Parameters()
	require.Len(t, params, 3)
	require.Equal(t, "int8", params[0].Name)
	require.Equal(t, "text", params[1].Name)
	require.Nil(t, params[2])
	require.Equal(t, []uint32{pgwire.Int8OID, pgwire.TextOID, 424242}, sd.ParameterOIDs())

	attrs := sd.Attributes()
	require.Len(t, attrs, 2)
	require.Equal(t, "id", attrs[0].Name)
	require.Equal(t, 0, attrs[0].Position)
	require.Equal(t, "int8", attrs[0].Type.Name)
	require.Equal(t, "name", attrs[1].Name)
	require.Equal(t, 1, attrs[1].Position)
}

func TestStatementDescriptionNoRows(t *testing.T) {
	m := pgwire.NewMap()

	sd := pgwire.NewStatementDescription(m, "stmt_2", "insert into t values ($1)", &pgproto3.ParameterDescription{ParameterOIDs: []uint32{pgwire.Int4OID}}, nil)
	require.Empty(t, sd.Attributes())
	require.Len(t, sd.Parameters(), 1)
}
