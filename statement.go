package pgwire

import (
	"github.com/jackc/pgproto3/v2"
)

// AttributeDescription describes one output column of a prepared
// statement: its name, its resolved type descriptor and its zero-based
// position in the row.
type AttributeDescription struct {
	Name     string
	Type     *Type
	Position int
}

// StatementDescription carries the typed shape of a prepared statement:
// the parameter types in order and the output attributes. Unknown OIDs
// resolve to nil descriptors; their values still round-trip through the
// text fallback.
type StatementDescription struct {
	Name       string
	SQL        string
	parameters []*Type
	paramOIDs  []uint32
	attributes []AttributeDescription
}

// NewStatementDescription resolves the server's Describe response against
// the registry. rowDesc may be nil for statements that return no rows.
func NewStatementDescription(m *Map, name, sql string, paramDesc *pgproto3.ParameterDescription, rowDesc *pgproto3.RowDescription) *StatementDescription {
	sd := &StatementDescription{Name: name, SQL: sql}

	if paramDesc != nil {
		sd.paramOIDs = make([]uint32, len(paramDesc.ParameterOIDs))
		sd.parameters = make([]*Type, len(paramDesc.ParameterOIDs))
		for i, oid := range paramDesc.ParameterOIDs {
			sd.paramOIDs[i] = oid
			if t, err := m.TypeForOID(oid); err == nil {
				sd.parameters[i] = t
			}
		}
	}

	if rowDesc != nil {
		sd.attributes = make([]AttributeDescription, len(rowDesc.Fields))
		for i := range rowDesc.Fields {
			f := &rowDesc.Fields[i]
			attr := AttributeDescription{Name: string(f.Name), Position: i}
			if t, err := m.TypeForOID(f.DataTypeOID); err == nil {
				attr.Type = t
			}
			sd.attributes[i] = attr
		}
	}

	return sd
}

// Parameters returns the resolved parameter type descriptors in order.
func (sd *StatementDescription) Parameters() []*Type { return sd.parameters }

// ParameterOIDs returns the raw parameter OIDs in order.
func (sd *StatementDescription) ParameterOIDs() []uint32 { return sd.paramOIDs }

// Attributes returns the output column descriptions in order.
func (sd *StatementDescription) Attributes() []AttributeDescription { return sd.attributes }
