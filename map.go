package pgwire

import (
	"context"
	"fmt"
	"sync"
)

// EncodeFunc is the encoder half of a user-registered codec override. It
// appends the wire payload of value to buf. Returning a nil buffer with a
// nil error means SQL NULL.
type EncodeFunc func(value interface{}, buf []byte) ([]byte, error)

// DecodeFunc is the decoder half of a user-registered codec override.
type DecodeFunc func(src []byte) (interface{}, error)

type overrideKey struct {
	oid    uint32
	schema string
}

type overrideEntry struct {
	codecs map[int16]*overrideCodec
}

type composedKey struct {
	oid    uint32
	format int16
}

type composedEntry struct {
	codec      Codec
	generation uint64
}

// Map is a connection-scoped codec registry. It holds the type descriptor
// table, the built-in scalar codecs, lazily composed codecs for container
// kinds, and user-registered overrides.
//
// Resolution is frequent and registration is rare, so Map uses a
// single-writer, multiple-reader lock. Codecs returned by ResolveCodec
// remain safe to use after subsequent registrations; they simply may no
// longer be the active codec for their type.
type Map struct {
	mu sync.RWMutex

	types       map[uint32]*Type
	typesByName map[string]*Type
	scalars     map[uint32]Codec

	overrides map[overrideKey]*overrideEntry
	composed  map[composedKey]*composedEntry

	// generation is bumped on every override registration or removal.
	// Composed codecs cache the generation they were built under and are
	// rebuilt lazily when stale, so a stale composite can never serve a
	// child that has since been overridden.
	generation uint64

	logger Logger
}

// NewMap returns a Map with descriptors and codecs for all built-in
// PostgreSQL types registered.
func NewMap() *Map {
	m := &Map{
		types:       make(map[uint32]*Type, 128),
		typesByName: make(map[string]*Type, 128),
		scalars:     make(map[uint32]Codec, 64),
		overrides:   make(map[overrideKey]*overrideEntry),
		composed:    make(map[composedKey]*composedEntry),
	}
	registerDefaults(m)
	return m
}

// SetLogger installs a logger for registry diagnostics. A nil logger
// silences them.
func (m *Map) SetLogger(l Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = l
}

// RegisterType adds a descriptor to the table. Descriptors are immutable:
// registering a descriptor with an OID that is already present replaces
// the table entry wholesale and invalidates composed codecs, it never
// mutates the previous descriptor.
func (m *Map) RegisterType(t *Type) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.types[t.OID] = t
	m.typesByName[t.QualifiedName()] = t
	m.generation++
}

// registerScalarCodec binds a built-in codec to an OID. Only used during
// default registration.
func (m *Map) registerScalarCodec(oid uint32, c Codec) {
	m.scalars[oid] = c
}

// TypeForOID returns the descriptor registered for oid.
func (m *Map) TypeForOID(oid uint32) (*Type, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.typeForOIDLocked(oid)
}

func (m *Map) typeForOIDLocked(oid uint32) (*Type, error) {
	t, ok := m.types[oid]
	if !ok {
		return nil, &UnknownTypeError{OID: oid}
	}
	return t, nil
}

// TypeForName returns the descriptor registered under a schema-qualified
// or bare name.
func (m *Map) TypeForName(name string) (*Type, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.typesByName[name]
	return t, ok
}

// ResolveCodec returns the active codec for (oid, format). Priority order:
// a registered override, a composed codec for container kinds, a built-in
// scalar codec, and finally the text fallback for types that support
// free-form text. If none apply the error is a CodecNotFoundError.
func (m *Map) ResolveCodec(oid uint32, format int16) (Codec, error) {
	if format != TextFormatCode && format != BinaryFormatCode {
		return nil, &InvalidArgumentError{Message: fmt.Sprintf("unknown format code: %v", format)}
	}

	m.mu.RLock()
	t := m.types[oid]

	if t != nil {
		if entry, ok := m.overrides[overrideKey{oid: oid, schema: t.Schema}]; ok {
			if oc, ok := entry.codecs[format]; ok {
				m.mu.RUnlock()
				return oc, nil
			}
		}

		switch t.Kind {
		case KindArray, KindComposite, KindDomain, KindEnum, KindRange:
			if entry, ok := m.composed[composedKey{oid: oid, format: format}]; ok && entry.generation == m.generation {
				m.mu.RUnlock()
				return entry.codec, nil
			}
			m.mu.RUnlock()
			return m.buildComposedCodec(t, format)
		}
	}

	c, ok := m.scalars[oid]
	m.mu.RUnlock()
	if ok {
		if !c.FormatSupported(format) {
			return nil, &CodecNotFoundError{OID: oid, Format: format}
		}
		return c, nil
	}

	// Unknown extension scalar: pass the server's text representation
	// through unchanged.
	if t == nil || t.Kind == KindScalar || t.Kind == KindPseudo {
		return TextFallbackCodec{}, nil
	}

	return nil, &CodecNotFoundError{OID: oid, Format: format}
}

// buildComposedCodec assembles a codec for a container kind from the
// descriptor graph and caches it under the current generation.
func (m *Map) buildComposedCodec(t *Type, format int16) (Codec, error) {
	var c Codec

	switch t.Kind {
	case KindArray:
		c = &ArrayCodec{TypeName: t.QualifiedName(), ElementOID: t.ElementOID}
	case KindComposite:
		if format == TextFormatCode {
			return nil, &UnsupportedEncodingError{TypeName: t.QualifiedName(), Kind: t.Kind, Format: format}
		}
		c = &CompositeCodec{TypeName: t.QualifiedName(), Fields: t.Fields}
	case KindDomain:
		// A domain has no wire representation of its own; its codec is the
		// base type's codec verbatim. The domain keeps its own name for
		// metadata purposes (see Type.BaseOID).
		base, err := m.ResolveCodec(t.BaseOID, format)
		if err != nil {
			return nil, err
		}
		return base, nil
	case KindEnum:
		c = NewEnumCodec(t.Labels)
	case KindRange:
		if format == TextFormatCode {
			return nil, &UnsupportedEncodingError{TypeName: t.QualifiedName(), Kind: t.Kind, Format: format}
		}
		c = &RangeCodec{TypeName: t.QualifiedName(), ElementOID: t.ElementOID}
	default:
		return nil, &CodecNotFoundError{OID: t.OID, Format: format}
	}

	if !c.FormatSupported(format) {
		return nil, &UnsupportedEncodingError{TypeName: t.QualifiedName(), Kind: t.Kind, Format: format}
	}

	m.mu.Lock()
	m.composed[composedKey{oid: t.OID, format: format}] = &composedEntry{codec: c, generation: m.generation}
	m.mu.Unlock()

	return c, nil
}

// RegisterOverride installs a custom encoder/decoder pair as the active
// codec for (oid, schema, format). Only scalar, domain and enum leaves may
// be overridden; arrays, composites and ranges compose their element
// codecs and picking them apart from user code is not supported.
// Registering on a domain overrides encoding for the domain's own name and
// leaves the base type's codec untouched.
//
// Registration atomically replaces the prior entry and evicts every cached
// composed codec, so subsequent resolutions rebuild with the new override.
func (m *Map) RegisterOverride(oid uint32, schema string, format int16, enc EncodeFunc, dec DecodeFunc) error {
	if format != TextFormatCode && format != BinaryFormatCode {
		return &InvalidArgumentError{Message: fmt.Sprintf("unknown format code: %v", format)}
	}
	if enc == nil || dec == nil {
		return &InvalidArgumentError{Message: "both encoder and decoder are required"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.typeForOIDLocked(oid)
	if err != nil {
		return err
	}

	switch t.Kind {
	case KindScalar, KindDomain, KindEnum, KindPseudo:
	default:
		return &InvalidArgumentError{Message: fmt.Sprintf("cannot use custom codec on non-scalar type %s", t.QualifiedName())}
	}

	key := overrideKey{oid: oid, schema: schema}
	entry, ok := m.overrides[key]
	if !ok {
		entry = &overrideEntry{codecs: make(map[int16]*overrideCodec, 2)}
		m.overrides[key] = entry
	}
	entry.codecs[format] = &overrideCodec{format: format, encode: enc, decode: dec}

	m.generation++

	m.logLocked(LogLevelDebug, "registered codec override", map[string]interface{}{
		"oid": oid, "schema": schema, "format": formatName(format),
	})

	return nil
}

// RegisterOverrideDeprecated is the backward-compatible boolean-flag form
// of RegisterOverride: binary true selects the binary format, false the
// text format.
//
// Deprecated: use RegisterOverride with an explicit format code.
func (m *Map) RegisterOverrideDeprecated(oid uint32, schema string, binary bool, enc EncodeFunc, dec DecodeFunc) error {
	format := TextFormatCode
	if binary {
		format = BinaryFormatCode
	}

	m.mu.RLock()
	m.logLocked(LogLevelWarn, "RegisterOverrideDeprecated is deprecated, use RegisterOverride with a format code", map[string]interface{}{
		"oid": oid, "schema": schema, "format": formatName(format),
	})
	m.mu.RUnlock()

	return m.RegisterOverride(oid, schema, format, enc, dec)
}

// RemoveOverride removes every override registered for (oid, schema) and
// evicts composed codecs that may have captured it. Subsequent
// resolutions return the original built-in or composed codec.
func (m *Map) RemoveOverride(oid uint32, schema string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := overrideKey{oid: oid, schema: schema}
	if _, ok := m.overrides[key]; !ok {
		return
	}
	delete(m.overrides, key)
	m.generation++

	m.logLocked(LogLevelDebug, "removed codec override", map[string]interface{}{
		"oid": oid, "schema": schema,
	})
}

func (m *Map) logLocked(level LogLevel, msg string, data map[string]interface{}) {
	if m.logger == nil {
		return
	}
	m.logger.Log(context.Background(), level, msg, data)
}

// Encode resolves the codec for (oid, format) and appends the bare wire
// payload of value to buf. A nil returned buffer with a nil error means
// SQL NULL. See AppendValue for the length-prefixed form.
func (m *Map) Encode(oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	codec, err := m.ResolveCodec(oid, format)
	if err != nil {
		return nil, err
	}
	return codec.Encode(m, oid, format, value, buf)
}

// Decode resolves the codec for (oid, format) and converts a bare wire
// payload into its Go value. A nil src decodes to nil.
func (m *Map) Decode(oid uint32, format int16, src []byte) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	codec, err := m.ResolveCodec(oid, format)
	if err != nil {
		return nil, err
	}
	return codec.Decode(m, oid, format, src)
}

// overrideCodec adapts a user-supplied encoder/decoder pair to the Codec
// interface for a single format.
type overrideCodec struct {
	format int16
	encode EncodeFunc
	decode DecodeFunc
}

func (c *overrideCodec) FormatSupported(format int16) bool { return format == c.format }

func (c *overrideCodec) PreferredFormat() int16 { return c.format }

func (c *overrideCodec) Encode(m *Map, oid uint32, format int16, value interface{}, buf []byte) ([]byte, error) {
	if format != c.format {
		return nil, &CodecNotFoundError{OID: oid, Format: format}
	}
	return c.encode(value, buf)
}

func (c *overrideCodec) Decode(m *Map, oid uint32, format int16, src []byte) (interface{}, error) {
	if format != c.format {
		return nil, &CodecNotFoundError{OID: oid, Format: format}
	}
	if src == nil {
		return nil, nil
	}
	return c.decode(src)
}
