// Package shopspringnumeric registers a codec override that transcodes
// the numeric type through github.com/shopspring/decimal values.
package shopspringnumeric

import (
	"github.com/pgkit/pgwire"
	"github.com/shopspring/decimal"
)

// Register installs a text-format override on the numeric type so that
// Decode returns decimal.Decimal and Encode accepts it. RemoveOverride on
// the numeric OID restores the built-in codec.
func Register(m *pgwire.Map) error {
	return m.RegisterOverride(pgwire.NumericOID, "pg_catalog", pgwire.TextFormatCode, encode, decode)
}

func encode(value interface{}, buf []byte) ([]byte, error) {
	var d decimal.Decimal
	switch value := value.(type) {
	case decimal.Decimal:
		d = value
	case *decimal.Decimal:
		if value == nil {
			return nil, nil
		}
		d = *value
	case decimal.NullDecimal:
		if !value.Valid {
			return nil, nil
		}
		d = value.Decimal
	case string:
		var err error
		d, err = decimal.NewFromString(value)
		if err != nil {
			return nil, err
		}
	case int64:
		d = decimal.New(value, 0)
	case float64:
		d = decimal.NewFromFloat(value)
	default:
		return nil, &pgwire.TypeMismatchError{TypeName: "numeric", Value: value, Expected: "a decimal.Decimal"}
	}
	return append(buf, d.String()...), nil
}

func decode(src []byte) (interface{}, error) {
	return decimal.NewFromString(string(src))
}
