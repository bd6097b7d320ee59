package pgwire

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgio"
)

// Interval represents a PostgreSQL interval as its three independently
// signed wire fields. The codec performs no normalization across the
// units: "5 years 1 month" stays 61 months, never a day count.
type Interval struct {
	Microseconds int64
	Days         int32
	Months       int32
	Valid        bool
}

// IntervalCodec transcodes interval as int64 microseconds, int32 days,
// int32 months.
type IntervalCodec struct{}

func (IntervalCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (IntervalCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (IntervalCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var iv Interval
	switch value := value.(type) {
	case Interval:
		iv = value
	case time.Duration:
		iv = Interval{Microseconds: int64(value) / 1000, Valid: true}
	default:
		return nil, &TypeMismatchError{TypeName: "interval", Value: value, Expected: "an interval"}
	}
	if !iv.Valid {
		return nil, nil
	}

	switch format {
	case BinaryFormatCode:
		buf = pgio.AppendInt64(buf, iv.Microseconds)
		buf = pgio.AppendInt32(buf, iv.Days)
		buf = pgio.AppendInt32(buf, iv.Months)
		return buf, nil
	case TextFormatCode:
		if iv.Months != 0 {
			buf = append(buf, strconv.FormatInt(int64(iv.Months), 10)...)
			buf = append(buf, " mon "...)
		}
		if iv.Days != 0 {
			buf = append(buf, strconv.FormatInt(int64(iv.Days), 10)...)
			buf = append(buf, " day "...)
		}
		absMicroseconds := iv.Microseconds
		if absMicroseconds < 0 {
			absMicroseconds = -absMicroseconds
			buf = append(buf, '-')
		}
		hours := absMicroseconds / microsecondsPerHour
		minutes := absMicroseconds % microsecondsPerHour / microsecondsPerMinute
		seconds := absMicroseconds % microsecondsPerMinute / microsecondsPerSecond
		microseconds := absMicroseconds % microsecondsPerSecond

		buf = append(buf, timeSegment(hours)...)
		buf = append(buf, ':')
		buf = append(buf, timeSegment(minutes)...)
		buf = append(buf, ':')
		buf = append(buf, timeSegment(seconds)...)
		if microseconds != 0 {
			buf = append(buf, '.')
			buf = append(buf, strconv.FormatInt(1000000+microseconds, 10)[1:]...)
		}
		return buf, nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

const (
	microsecondsPerSecond = 1000000
	microsecondsPerMinute = 60 * microsecondsPerSecond
	microsecondsPerHour   = 60 * microsecondsPerMinute
)

func timeSegment(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) < 2 {
		s = "0" + s
	}
	return s
}

func (IntervalCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == TextFormatCode {
		return parseTextInterval(string(src))
	}
	if len(src) != 16 {
		return nil, &ProtocolError{Message: "interval requires 16 bytes"}
	}
	return Interval{
		Microseconds: int64(binary.BigEndian.Uint64(src)),
		Days:         int32(binary.BigEndian.Uint32(src[8:])),
		Months:       int32(binary.BigEndian.Uint32(src[12:])),
		Valid:        true,
	}, nil
}

// parseTextInterval handles the server's default interval output:
// optional "N year[s]", "N mon[s]", "N day[s]" terms followed by an
// optional [-]HH:MM:SS[.ffffff] clock part. Year and month terms combine
// into the months field; days stay days.
func parseTextInterval(s string) (interface{}, error) {
	iv := Interval{Valid: true}
	parts := strings.Fields(s)

	malformed := func() (interface{}, error) {
		return nil, &ProtocolError{Message: "malformed interval text payload: " + s}
	}

	i := 0
	for i+1 < len(parts) {
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil {
			return malformed()
		}
		switch strings.TrimSuffix(parts[i+1], "s") {
		case "year":
			iv.Months += int32(n) * 12
		case "mon":
			iv.Months += int32(n)
		case "day":
			iv.Days += int32(n)
		default:
			return malformed()
		}
		i += 2
	}

	if i < len(parts) {
		clock := parts[i]
		negative := strings.HasPrefix(clock, "-")
		clock = strings.TrimPrefix(clock, "-")

		hms := strings.Split(clock, ":")
		if len(hms) != 3 {
			return malformed()
		}
		hours, err1 := strconv.ParseInt(hms[0], 10, 64)
		minutes, err2 := strconv.ParseInt(hms[1], 10, 64)
		seconds, err3 := strconv.ParseFloat(hms[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return malformed()
		}

		usec := hours*microsecondsPerHour + minutes*microsecondsPerMinute + int64(seconds*microsecondsPerSecond+0.5)
		if negative {
			usec = -usec
		}
		iv.Microseconds = usec
	}

	return iv, nil
}
