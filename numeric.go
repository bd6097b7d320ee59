package pgwire

import (
	"encoding/binary"
	"math/big"

	"github.com/cockroachdb/apd/v2"
	"github.com/jackc/pgio"
)

// PostgreSQL internal numeric storage uses 16-bit "digits" with base of 10,000
const nbase = 10000

const (
	pgNumericNaN     = 0x00000000c0000000
	pgNumericNaNSign = 0xc000

	pgNumericPosInf     = 0x00000000d0000000
	pgNumericPosInfSign = 0xd000

	pgNumericNegInf     = 0x00000000f0000000
	pgNumericNegInfSign = 0xf000
)

var big0 = big.NewInt(0)
var big1 = big.NewInt(1)
var big10 = big.NewInt(10)
var big100 = big.NewInt(100)
var big1000 = big.NewInt(1000)

var bigNBase = big.NewInt(nbase)
var bigNBaseX2 = big.NewInt(nbase * nbase)
var bigNBaseX3 = big.NewInt(nbase * nbase * nbase)
var bigNBaseX4 = big.NewInt(nbase * nbase * nbase * nbase)

// NumericCodec transcodes numeric with exact precision. Values are
// *apd.Decimal: the coefficient/exponent pair carries the display scale
// through the round trip, including for exact zero.
type NumericCodec struct{}

func (NumericCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (NumericCodec) PreferredFormat() int16 { return BinaryFormatCode }

func convertToDecimal(value interface{}) (*apd.Decimal, error) {
	switch value := value.(type) {
	case *apd.Decimal:
		return value, nil
	case apd.Decimal:
		return &value, nil
	case string:
		d, _, err := apd.NewFromString(value)
		if err != nil {
			return nil, &TypeMismatchError{TypeName: "numeric", Value: value, Expected: "a decimal number"}
		}
		return d, nil
	default:
		if n, ok, err := convertToInt64(value); ok {
			if err != nil {
				if b, isBig := value.(*big.Int); isBig {
					d := new(apd.Decimal)
					d.Coeff.Abs(b)
					d.Negative = b.Sign() < 0
					return d, nil
				}
				return nil, err
			}
			return apd.New(n, 0), nil
		}
		return nil, &TypeMismatchError{TypeName: "numeric", Value: value, Expected: "a decimal number"}
	}
}

func (NumericCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	d, err := convertToDecimal(value)
	if err != nil {
		return nil, err
	}

	if format == TextFormatCode {
		switch d.Form {
		case apd.NaN, apd.NaNSignaling:
			return append(buf, "NaN"...), nil
		case apd.Infinite:
			if d.Negative {
				return append(buf, "-Infinity"...), nil
			}
			return append(buf, "Infinity"...), nil
		}
		return append(buf, d.String()...), nil
	}
	if format != BinaryFormatCode {
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}

	switch d.Form {
	case apd.NaN, apd.NaNSignaling:
		return pgio.AppendUint64(buf, pgNumericNaN), nil
	case apd.Infinite:
		if d.Negative {
			return pgio.AppendUint64(buf, pgNumericNegInf), nil
		}
		return pgio.AppendUint64(buf, pgNumericPosInf), nil
	}

	var dscale int16
	if d.Exponent < 0 {
		dscale = int16(-d.Exponent)
	}

	// Exact zero is special-cased: no digit groups at all, only the
	// display scale survives on the wire.
	if d.Coeff.Sign() == 0 {
		buf = pgio.AppendInt16(buf, 0)
		buf = pgio.AppendInt16(buf, 0)
		buf = pgio.AppendInt16(buf, 0)
		buf = pgio.AppendInt16(buf, dscale)
		return buf, nil
	}

	var sign int16
	if d.Negative {
		sign = 16384
	}

	absInt := new(big.Int).Abs(&d.Coeff)
	wholePart := &big.Int{}
	fracPart := &big.Int{}
	remainder := &big.Int{}

	// Normalize absInt and exp to where exp is always a multiple of 4.
	// This makes converting to 16-bit base 10,000 digits easier.
	exp := d.Exponent
	switch ((exp % 4) + 4) % 4 {
	case 1:
		exp--
		absInt.Mul(absInt, big10)
	case 2:
		exp -= 2
		absInt.Mul(absInt, big100)
	case 3:
		exp -= 3
		absInt.Mul(absInt, big1000)
	}

	if exp < 0 {
		divisor := new(big.Int).Exp(big10, big.NewInt(int64(-exp)), nil)
		wholePart.DivMod(absInt, divisor, fracPart)
		fracPart.Add(fracPart, divisor)
	} else {
		wholePart = absInt
	}

	var wholeDigits, fracDigits []int16

	for wholePart.Cmp(big0) != 0 {
		wholePart.DivMod(wholePart, bigNBase, remainder)
		wholeDigits = append(wholeDigits, int16(remainder.Int64()))
	}

	if fracPart.Cmp(big0) != 0 {
		for fracPart.Cmp(big1) != 0 {
			fracPart.DivMod(fracPart, bigNBase, remainder)
			fracDigits = append(fracDigits, int16(remainder.Int64()))
		}
	}

	buf = pgio.AppendInt16(buf, int16(len(wholeDigits)+len(fracDigits)))

	var weight int16
	if len(wholeDigits) > 0 {
		weight = int16(len(wholeDigits) - 1)
		if exp > 0 {
			weight += int16(exp / 4)
		}
	} else {
		weight = int16(exp/4) - 1 + int16(len(fracDigits))
	}
	buf = pgio.AppendInt16(buf, weight)
	buf = pgio.AppendInt16(buf, sign)
	buf = pgio.AppendInt16(buf, dscale)

	for i := len(wholeDigits) - 1; i >= 0; i-- {
		buf = pgio.AppendInt16(buf, wholeDigits[i])
	}
	for i := len(fracDigits) - 1; i >= 0; i-- {
		buf = pgio.AppendInt16(buf, fracDigits[i])
	}

	return buf, nil
}

func (NumericCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if format == TextFormatCode {
		switch string(src) {
		case "NaN":
			return &apd.Decimal{Form: apd.NaN}, nil
		case "Infinity":
			return &apd.Decimal{Form: apd.Infinite}, nil
		case "-Infinity":
			return &apd.Decimal{Form: apd.Infinite, Negative: true}, nil
		}
		d, _, err := apd.NewFromString(string(src))
		if err != nil {
			return nil, &ProtocolError{Message: "malformed numeric text payload: " + string(src)}
		}
		return d, nil
	}
	if format != BinaryFormatCode {
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}

	if len(src) < 8 {
		return nil, &ProtocolError{Message: "numeric payload incomplete"}
	}

	rp := 0
	ndigits := binary.BigEndian.Uint16(src[rp:])
	rp += 2
	weight := int16(binary.BigEndian.Uint16(src[rp:]))
	rp += 2
	sign := binary.BigEndian.Uint16(src[rp:])
	rp += 2
	dscale := int16(binary.BigEndian.Uint16(src[rp:]))
	rp += 2

	switch sign {
	case pgNumericNaNSign:
		return &apd.Decimal{Form: apd.NaN}, nil
	case pgNumericPosInfSign:
		return &apd.Decimal{Form: apd.Infinite}, nil
	case pgNumericNegInfSign:
		return &apd.Decimal{Form: apd.Infinite, Negative: true}, nil
	}

	d := new(apd.Decimal)
	d.Exponent = -int32(dscale)
	d.Negative = sign != 0

	if ndigits == 0 {
		return d, nil
	}

	if len(src[rp:]) < int(ndigits)*2 {
		return nil, &ProtocolError{Message: "numeric payload incomplete"}
	}

	digitsEnd := rp + int(ndigits)*2

	accum := &d.Coeff
	for i := 0; i < int(ndigits+3)/4; i++ {
		int64accum, bytesRead, digitsRead := nbaseDigitsToInt64(src[rp:digitsEnd])
		rp += bytesRead

		if i > 0 {
			var mul *big.Int
			switch digitsRead {
			case 1:
				mul = bigNBase
			case 2:
				mul = bigNBaseX2
			case 3:
				mul = bigNBaseX3
			case 4:
				mul = bigNBaseX4
			default:
				return nil, &ProtocolError{Message: "numeric payload corrupted"}
			}
			accum.Mul(accum, mul)
		}

		accum.Add(accum, big.NewInt(int64accum))
	}

	// The digit groups place the value at 10^exp; rescale the coefficient
	// so the stored exponent is exactly -dscale. The shift's divide branch
	// is exact on well-formed payloads: the last group only carries zeros
	// below the display scale.
	exp := (int32(weight) - int32(ndigits) + 1) * 4
	shift := exp + int32(dscale)
	if shift > 0 {
		mul := new(big.Int).Exp(big10, big.NewInt(int64(shift)), nil)
		accum.Mul(accum, mul)
	} else if shift < 0 {
		div := new(big.Int).Exp(big10, big.NewInt(int64(-shift)), nil)
		rem := &big.Int{}
		accum.DivMod(accum, div, rem)
		if rem.Sign() != 0 {
			return nil, &ProtocolError{Message: "numeric payload has digits below its display scale"}
		}
	}

	return d, nil
}

func nbaseDigitsToInt64(src []byte) (accum int64, bytesRead, digitsRead int) {
	digits := len(src) / 2
	if digits > 4 {
		digits = 4
	}

	rp := 0
	for i := 0; i < digits; i++ {
		if i > 0 {
			accum *= nbase
		}
		accum += int64(binary.BigEndian.Uint16(src[rp:]))
		rp += 2
	}

	return accum, rp, digits
}
