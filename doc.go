// Package pgwire converts between Go values and the PostgreSQL wire
// representations of the server's data types.
/*
pgwire is the codec layer of a PostgreSQL client. It consumes already
resolved type descriptors (see Type) and produces codecs that translate
values to and from the server's length-prefixed binary and text formats.

The central object is Map. A Map holds the descriptor table, the built-in
scalar codecs, lazily composed codecs for arrays, composites, domains,
enums and ranges, and any user-registered overrides. Codecs themselves are
stateless and safe for concurrent use; Map serializes override registration
against resolution internally.

Use ResolveCodec to obtain a codec for a type and format, or the Encode and
Decode convenience methods to transcode in one call. RegisterOverride
installs a custom encoder/decoder pair for a scalar, domain or enum type
and invalidates any cached composed codec that referenced it.

pgwire does not open connections, execute SQL, or query the catalog. Those
concerns belong to the surrounding driver; this package only sees bytes and
descriptors.
*/
package pgwire
