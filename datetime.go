package pgwire

import (
	"encoding/binary"
	"time"

	"github.com/jackc/pgio"
)

const (
	microsecFromUnixEpochToY2K = 946684800 * 1000000

	negativeInfinityMicrosecondOffset = -9223372036854775808
	infinityMicrosecondOffset         = 9223372036854775807

	negativeInfinityDayOffset = -2147483648
	infinityDayOffset         = 2147483647
)

const (
	pgDateFormat        = "2006-01-02"
	pgTimestampFormat   = "2006-01-02 15:04:05.999999"
	pgTimestamptzFormat = "2006-01-02 15:04:05.999999-07:00:00"
)

// Date represents a PostgreSQL date. The infinity sentinels decode to the
// InfinityModifier, not to a finite calendar date, and encode back to the
// exact sentinel magnitude.
type Date struct {
	Time             time.Time
	InfinityModifier InfinityModifier
	Valid            bool
}

// Timestamp represents timestamp and timestamptz values. For timestamp
// the wall-clock reading is taken as is; for timestamptz Time is a
// UTC-normalized instant.
type Timestamp struct {
	Time             time.Time
	InfinityModifier InfinityModifier
	Valid            bool
}

// Time represents a time of day as microseconds since midnight.
type Time struct {
	Microseconds int64
	Valid        bool
}

// TimeTZ is a time of day paired with a zone offset. OffsetSeconds is the
// conventional east-positive UTC offset; the wire stores seconds west of
// UTC and the codec negates at the boundary.
type TimeTZ struct {
	Microseconds  int64
	OffsetSeconds int32
	Valid         bool
}

// DateCodec transcodes date as an int32 count of days since 2000-01-01.
type DateCodec struct{}

func (DateCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (DateCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (DateCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var d Date
	switch value := value.(type) {
	case Date:
		d = value
	case time.Time:
		d = Date{Time: value, Valid: true}
	case InfinityModifier:
		d = Date{InfinityModifier: value, Valid: true}
	default:
		return nil, &TypeMismatchError{TypeName: "date", Value: value, Expected: "a date"}
	}
	if !d.Valid {
		return nil, nil
	}

	if format == TextFormatCode {
		switch d.InfinityModifier {
		case Infinity:
			return append(buf, "infinity"...), nil
		case NegativeInfinity:
			return append(buf, "-infinity"...), nil
		}
		return append(buf, d.Time.Format(pgDateFormat)...), nil
	}

	var daysSinceDateEpoch int32
	switch d.InfinityModifier {
	case None:
		tUnix := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC).Unix()
		dateEpoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
		secSinceDateEpoch := tUnix - dateEpoch
		daysSinceDateEpoch = int32(secSinceDateEpoch / 86400)
	case Infinity:
		daysSinceDateEpoch = infinityDayOffset
	case NegativeInfinity:
		daysSinceDateEpoch = negativeInfinityDayOffset
	}

	return pgio.AppendInt32(buf, daysSinceDateEpoch), nil
}

func (DateCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if format == TextFormatCode {
		switch string(src) {
		case "infinity":
			return Date{InfinityModifier: Infinity, Valid: true}, nil
		case "-infinity":
			return Date{InfinityModifier: NegativeInfinity, Valid: true}, nil
		}
		t, err := time.ParseInLocation(pgDateFormat, string(src), time.UTC)
		if err != nil {
			return nil, &ProtocolError{Message: "malformed date text payload: " + string(src)}
		}
		return Date{Time: t, Valid: true}, nil
	}

	if len(src) != 4 {
		return nil, &ProtocolError{Message: "date requires 4 bytes"}
	}

	dayOffset := int32(binary.BigEndian.Uint32(src))
	switch dayOffset {
	case infinityDayOffset:
		return Date{InfinityModifier: Infinity, Valid: true}, nil
	case negativeInfinityDayOffset:
		return Date{InfinityModifier: NegativeInfinity, Valid: true}, nil
	}

	return Date{Time: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(dayOffset)), Valid: true}, nil
}

// discardTimeZone reinterprets t's wall-clock reading as UTC. timestamp
// has no zone on the wire; whatever zone the caller's value carries must
// not shift the stored instant.
func discardTimeZone(t time.Time) time.Time {
	if t.Location() != time.UTC {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t
}

// TimestampCodec transcodes timestamp as an int64 count of microseconds
// since 2000-01-01 00:00:00.
type TimestampCodec struct{}

func (TimestampCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (TimestampCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (TimestampCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	ts, err := convertToTimestamp("timestamp", value)
	if err != nil {
		return nil, err
	}
	if !ts.Valid {
		return nil, nil
	}

	if format == TextFormatCode {
		switch ts.InfinityModifier {
		case Infinity:
			return append(buf, "infinity"...), nil
		case NegativeInfinity:
			return append(buf, "-infinity"...), nil
		}
		t := discardTimeZone(ts.Time)
		return append(buf, t.Truncate(time.Microsecond).Format(pgTimestampFormat)...), nil
	}

	var microsecSinceY2K int64
	switch ts.InfinityModifier {
	case None:
		t := discardTimeZone(ts.Time)
		microsecSinceUnixEpoch := t.Unix()*1000000 + int64(t.Nanosecond())/1000
		microsecSinceY2K = microsecSinceUnixEpoch - microsecFromUnixEpochToY2K
	case Infinity:
		microsecSinceY2K = infinityMicrosecondOffset
	case NegativeInfinity:
		microsecSinceY2K = negativeInfinityMicrosecondOffset
	}

	return pgio.AppendInt64(buf, microsecSinceY2K), nil
}

func (TimestampCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if format == TextFormatCode {
		return parseTextTimestamp("timestamp", pgTimestampFormat, src)
	}

	return decodeBinaryTimestamp("timestamp", src)
}

func convertToTimestamp(typeName string, value interface{}) (Timestamp, error) {
	switch value := value.(type) {
	case Timestamp:
		return value, nil
	case time.Time:
		return Timestamp{Time: value, Valid: true}, nil
	case InfinityModifier:
		return Timestamp{InfinityModifier: value, Valid: true}, nil
	default:
		return Timestamp{}, &TypeMismatchError{TypeName: typeName, Value: value, Expected: "a timestamp"}
	}
}

func parseTextTimestamp(typeName, layout string, src []byte) (interface{}, error) {
	switch string(src) {
	case "infinity":
		return Timestamp{InfinityModifier: Infinity, Valid: true}, nil
	case "-infinity":
		return Timestamp{InfinityModifier: NegativeInfinity, Valid: true}, nil
	}
	t, err := time.ParseInLocation(layout, string(src), time.UTC)
	if err != nil {
		return nil, &ProtocolError{Message: "malformed " + typeName + " text payload: " + string(src)}
	}
	return Timestamp{Time: t, Valid: true}, nil
}

func decodeBinaryTimestamp(typeName string, src []byte) (interface{}, error) {
	if len(src) != 8 {
		return nil, &ProtocolError{Message: typeName + " requires 8 bytes"}
	}

	microsecSinceY2K := int64(binary.BigEndian.Uint64(src))
	switch microsecSinceY2K {
	case infinityMicrosecondOffset:
		return Timestamp{InfinityModifier: Infinity, Valid: true}, nil
	case negativeInfinityMicrosecondOffset:
		return Timestamp{InfinityModifier: NegativeInfinity, Valid: true}, nil
	}

	t := time.Unix(
		microsecFromUnixEpochToY2K/1000000+microsecSinceY2K/1000000,
		(microsecFromUnixEpochToY2K%1000000*1000)+(microsecSinceY2K%1000000*1000),
	).UTC()
	return Timestamp{Time: t, Valid: true}, nil
}

// TimestamptzCodec transcodes timestamptz. The wire value is the same
// microsecond offset as timestamp, but it denotes a UTC-normalized
// instant rather than a zoneless reading.
type TimestamptzCodec struct{}

func (TimestamptzCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (TimestamptzCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (TimestamptzCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	ts, err := convertToTimestamp("timestamptz", value)
	if err != nil {
		return nil, err
	}
	if !ts.Valid {
		return nil, nil
	}

	if format == TextFormatCode {
		switch ts.InfinityModifier {
		case Infinity:
			return append(buf, "infinity"...), nil
		case NegativeInfinity:
			return append(buf, "-infinity"...), nil
		}
		return append(buf, ts.Time.UTC().Truncate(time.Microsecond).Format(pgTimestamptzFormat)...), nil
	}

	var microsecSinceY2K int64
	switch ts.InfinityModifier {
	case None:
		t := ts.Time.UTC()
		microsecSinceUnixEpoch := t.Unix()*1000000 + int64(t.Nanosecond())/1000
		microsecSinceY2K = microsecSinceUnixEpoch - microsecFromUnixEpochToY2K
	case Infinity:
		microsecSinceY2K = infinityMicrosecondOffset
	case NegativeInfinity:
		microsecSinceY2K = negativeInfinityMicrosecondOffset
	}

	return pgio.AppendInt64(buf, microsecSinceY2K), nil
}

func (TimestamptzCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}

	if format == TextFormatCode {
		switch string(src) {
		case "infinity":
			return Timestamp{InfinityModifier: Infinity, Valid: true}, nil
		case "-infinity":
			return Timestamp{InfinityModifier: NegativeInfinity, Valid: true}, nil
		}
		// The zone suffix varies with the server's current offset.
		for _, layout := range []string{pgTimestamptzFormat, "2006-01-02 15:04:05.999999-07:00", "2006-01-02 15:04:05.999999-07"} {
			if t, err := time.Parse(layout, string(src)); err == nil {
				return Timestamp{Time: t.UTC(), Valid: true}, nil
			}
		}
		return nil, &ProtocolError{Message: "malformed timestamptz text payload: " + string(src)}
	}

	return decodeBinaryTimestamp("timestamptz", src)
}

// TimeCodec transcodes time as an int64 count of microseconds since
// midnight.
type TimeCodec struct{}

func (TimeCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (TimeCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (TimeCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var t Time
	switch value := value.(type) {
	case Time:
		t = value
	case time.Duration:
		t = Time{Microseconds: int64(value) / 1000, Valid: true}
	default:
		return nil, &TypeMismatchError{TypeName: "time", Value: value, Expected: "a time of day"}
	}
	if !t.Valid {
		return nil, nil
	}
	if t.Microseconds < 0 || t.Microseconds > 24*60*60*1000000 {
		return nil, &OverflowError{TypeName: "time", Value: t.Microseconds}
	}
	return pgio.AppendInt64(buf, t.Microseconds), nil
}

func (TimeCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if len(src) != 8 {
		return nil, &ProtocolError{Message: "time requires 8 bytes"}
	}
	return Time{Microseconds: int64(binary.BigEndian.Uint64(src)), Valid: true}, nil
}

// TimetzCodec transcodes timetz: a time-of-day plus a signed zone offset.
// The wire offset field counts seconds west of UTC.
type TimetzCodec struct{}

func (TimetzCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (TimetzCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (TimetzCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	t, ok := value.(TimeTZ)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "timetz", Value: value, Expected: "a time of day with zone"}
	}
	if !t.Valid {
		return nil, nil
	}
	if t.Microseconds < 0 || t.Microseconds > 24*60*60*1000000 {
		return nil, &OverflowError{TypeName: "timetz", Value: t.Microseconds}
	}
	buf = pgio.AppendInt64(buf, t.Microseconds)
	buf = pgio.AppendInt32(buf, -t.OffsetSeconds)
	return buf, nil
}

func (TimetzCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if len(src) != 12 {
		return nil, &ProtocolError{Message: "timetz requires 12 bytes"}
	}
	return TimeTZ{
		Microseconds:  int64(binary.BigEndian.Uint64(src)),
		OffsetSeconds: -int32(binary.BigEndian.Uint32(src[8:])),
		Valid:         true,
	}, nil
}
