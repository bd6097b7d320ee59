package pgwire

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgio"
)

// Vec2 is a point in a two dimensional plane.
type Vec2 struct {
	X float64
	Y float64
}

// Line represents a line in the form Ax + By + C = 0.
type Line struct {
	A, B, C float64
}

// Lseg is a finite line segment.
type Lseg struct {
	P [2]Vec2
}

// Box is a rectangle given by two opposite corners.
type Box struct {
	P [2]Vec2
}

// Path is an open or closed sequence of points.
type Path struct {
	P      []Vec2
	Closed bool
}

// Polygon is a closed sequence of points.
type Polygon struct {
	P []Vec2
}

// Circle is a center point and a radius.
type Circle struct {
	P Vec2
	R float64
}

func appendVec2(buf []byte, p Vec2) []byte {
	buf = pgio.AppendUint64(buf, math.Float64bits(p.X))
	return pgio.AppendUint64(buf, math.Float64bits(p.Y))
}

func decodeVec2(src []byte) Vec2 {
	return Vec2{
		X: math.Float64frombits(binary.BigEndian.Uint64(src)),
		Y: math.Float64frombits(binary.BigEndian.Uint64(src[8:])),
	}
}

func appendTextVec2(buf []byte, p Vec2) []byte {
	buf = append(buf, '(')
	buf = strconv.AppendFloat(buf, p.X, 'f', -1, 64)
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, p.Y, 'f', -1, 64)
	return append(buf, ')')
}

// PointCodec transcodes point as two float64 coordinates. Values are Vec2.
type PointCodec struct{}

func (PointCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (PointCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (PointCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	var p Vec2
	switch value := value.(type) {
	case Vec2:
		p = value
	case [2]float64:
		p = Vec2{X: value[0], Y: value[1]}
	default:
		return nil, &TypeMismatchError{TypeName: "point", Value: value, Expected: "a Vec2"}
	}

	switch format {
	case BinaryFormatCode:
		return appendVec2(buf, p), nil
	case TextFormatCode:
		return appendTextVec2(buf, p), nil
	default:
		return nil, &InvalidArgumentError{Message: "unknown format code"}
	}
}

func (PointCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format == TextFormatCode {
		p, err := parseTextVec2(string(src))
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	if len(src) != 16 {
		return nil, &ProtocolError{Message: "point requires 16 bytes"}
	}
	return decodeVec2(src), nil
}

func parseTextVec2(src string) (Vec2, error) {
	s := strings.TrimSpace(src)
	if len(s) < 5 || s[0] != '(' || s[len(s)-1] != ')' {
		return Vec2{}, &ProtocolError{Message: "point requires the form (x,y)"}
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return Vec2{}, &ProtocolError{Message: "point requires the form (x,y)"}
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Vec2{}, &ProtocolError{Message: "invalid point coordinate: " + parts[0]}
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Vec2{}, &ProtocolError{Message: "invalid point coordinate: " + parts[1]}
	}
	return Vec2{X: x, Y: y}, nil
}

// LineCodec transcodes line as the three coefficients of Ax + By + C = 0.
type LineCodec struct{}

func (LineCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (LineCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (LineCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	line, ok := value.(Line)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "line", Value: value, Expected: "a Line"}
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "line", Kind: KindScalar, Format: format}
	}
	buf = pgio.AppendUint64(buf, math.Float64bits(line.A))
	buf = pgio.AppendUint64(buf, math.Float64bits(line.B))
	return pgio.AppendUint64(buf, math.Float64bits(line.C)), nil
}

func (LineCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "line", Kind: KindScalar, Format: format}
	}
	if len(src) != 24 {
		return nil, &ProtocolError{Message: "line requires 24 bytes"}
	}
	return Line{
		A: math.Float64frombits(binary.BigEndian.Uint64(src)),
		B: math.Float64frombits(binary.BigEndian.Uint64(src[8:])),
		C: math.Float64frombits(binary.BigEndian.Uint64(src[16:])),
	}, nil
}

// LsegCodec transcodes lseg as two points.
type LsegCodec struct{}

func (LsegCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (LsegCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (LsegCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	lseg, ok := value.(Lseg)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "lseg", Value: value, Expected: "an Lseg"}
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "lseg", Kind: KindScalar, Format: format}
	}
	buf = appendVec2(buf, lseg.P[0])
	return appendVec2(buf, lseg.P[1]), nil
}

func (LsegCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "lseg", Kind: KindScalar, Format: format}
	}
	if len(src) != 32 {
		return nil, &ProtocolError{Message: "lseg requires 32 bytes"}
	}
	return Lseg{P: [2]Vec2{decodeVec2(src), decodeVec2(src[16:])}}, nil
}

// BoxCodec transcodes box as two corner points.
type BoxCodec struct{}

func (BoxCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (BoxCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (BoxCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	box, ok := value.(Box)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "box", Value: value, Expected: "a Box"}
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "box", Kind: KindScalar, Format: format}
	}
	buf = appendVec2(buf, box.P[0])
	return appendVec2(buf, box.P[1]), nil
}

func (BoxCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "box", Kind: KindScalar, Format: format}
	}
	if len(src) != 32 {
		return nil, &ProtocolError{Message: "box requires 32 bytes"}
	}
	return Box{P: [2]Vec2{decodeVec2(src), decodeVec2(src[16:])}}, nil
}

// PathCodec transcodes path: a closed flag byte, a point count, then the
// points.
type PathCodec struct{}

func (PathCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (PathCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (PathCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	path, ok := value.(Path)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "path", Value: value, Expected: "a Path"}
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "path", Kind: KindScalar, Format: format}
	}
	var closed byte
	if path.Closed {
		closed = 1
	}
	buf = append(buf, closed)
	buf = pgio.AppendInt32(buf, int32(len(path.P)))
	for _, p := range path.P {
		buf = appendVec2(buf, p)
	}
	return buf, nil
}

func (PathCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "path", Kind: KindScalar, Format: format}
	}
	if len(src) < 5 {
		return nil, &ProtocolError{Message: "path header requires 5 bytes"}
	}
	closed := src[0] == 1
	pointCount := int(binary.BigEndian.Uint32(src[1:]))
	if len(src) != 5+pointCount*16 {
		return nil, &ProtocolError{Message: "path payload length mismatch"}
	}
	points := make([]Vec2, pointCount)
	rp := 5
	for i := range points {
		points[i] = decodeVec2(src[rp:])
		rp += 16
	}
	return Path{P: points, Closed: closed}, nil
}

// PolygonCodec transcodes polygon: a point count followed by the points.
type PolygonCodec struct{}

func (PolygonCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (PolygonCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (PolygonCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	polygon, ok := value.(Polygon)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "polygon", Value: value, Expected: "a Polygon"}
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "polygon", Kind: KindScalar, Format: format}
	}
	buf = pgio.AppendInt32(buf, int32(len(polygon.P)))
	for _, p := range polygon.P {
		buf = appendVec2(buf, p)
	}
	return buf, nil
}

func (PolygonCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "polygon", Kind: KindScalar, Format: format}
	}
	if len(src) < 4 {
		return nil, &ProtocolError{Message: "polygon header requires 4 bytes"}
	}
	pointCount := int(binary.BigEndian.Uint32(src))
	if len(src) != 4+pointCount*16 {
		return nil, &ProtocolError{Message: "polygon payload length mismatch"}
	}
	points := make([]Vec2, pointCount)
	rp := 4
	for i := range points {
		points[i] = decodeVec2(src[rp:])
		rp += 16
	}
	return Polygon{P: points}, nil
}

// CircleCodec transcodes circle as a center point and a radius.
type CircleCodec struct{}

func (CircleCodec) FormatSupported(format int16) bool {
	return format == BinaryFormatCode
}

func (CircleCodec) PreferredFormat() int16 { return BinaryFormatCode }

func (CircleCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	circle, ok := value.(Circle)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "circle", Value: value, Expected: "a Circle"}
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "circle", Kind: KindScalar, Format: format}
	}
	buf = appendVec2(buf, circle.P)
	return pgio.AppendUint64(buf, math.Float64bits(circle.R)), nil
}

func (CircleCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if format != BinaryFormatCode {
		return nil, &UnsupportedEncodingError{TypeName: "circle", Kind: KindScalar, Format: format}
	}
	if len(src) != 24 {
		return nil, &ProtocolError{Message: "circle requires 24 bytes"}
	}
	return Circle{
		P: decodeVec2(src),
		R: math.Float64frombits(binary.BigEndian.Uint64(src[16:])),
	}, nil
}
