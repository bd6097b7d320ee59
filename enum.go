package pgwire

import (
	"fmt"
	"sort"
)

// EnumCodec transcodes an enum type. The wire form is the label text in
// both formats. The codec carries the server's declaration order of the
// labels, which defines the type's comparison semantics independently of
// byte order.
type EnumCodec struct {
	labels []string
	rank   map[string]int
}

// NewEnumCodec builds a codec from the catalog's declaration-ordered
// labels.
func NewEnumCodec(labels []string) *EnumCodec {
	c := &EnumCodec{
		labels: labels,
		rank:   make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		c.rank[l] = i
	}
	return c
}

func (c *EnumCodec) FormatSupported(format int16) bool {
	return format == TextFormatCode || format == BinaryFormatCode
}

func (c *EnumCodec) PreferredFormat() int16 { return TextFormatCode }

// Labels returns the labels in declaration order. The slice is shared;
// callers must not modify it.
func (c *EnumCodec) Labels() []string { return c.labels }

// Rank returns the declaration position of label.
func (c *EnumCodec) Rank(label string) (int, bool) {
	i, ok := c.rank[label]
	return i, ok
}

// Compare orders two labels by declaration position the way the server
// orders enum values. Unknown labels report an error.
func (c *EnumCodec) Compare(a, b string) (int, error) {
	ra, ok := c.rank[a]
	if !ok {
		return 0, &InvalidArgumentError{Message: fmt.Sprintf("invalid enum label %q", a)}
	}
	rb, ok := c.rank[b]
	if !ok {
		return 0, &InvalidArgumentError{Message: fmt.Sprintf("invalid enum label %q", b)}
	}
	switch {
	case ra < rb:
		return -1, nil
	case ra > rb:
		return 1, nil
	default:
		return 0, nil
	}
}

// SortLabels sorts labels in place by declaration order. Unknown labels
// sort last.
func (c *EnumCodec) SortLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		ri, iok := c.rank[labels[i]]
		rj, jok := c.rank[labels[j]]
		if iok != jok {
			return iok
		}
		return ri < rj
	})
}

func (c *EnumCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	label, ok := value.(string)
	if !ok {
		return nil, &TypeMismatchError{TypeName: "enum", Value: value, Expected: "a string"}
	}
	if _, ok := c.rank[label]; !ok {
		return nil, &InvalidArgumentError{Message: fmt.Sprintf("invalid enum label %q", label)}
	}
	return append(buf, label...), nil
}

func (c *EnumCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	return string(src), nil
}
