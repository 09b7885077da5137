// Package types defines the compiled type structures for reflection-driven
// encoding.
//
// CompiledType holds the wire shape chosen for a Go type together with the
// compiled plans of its elements, fields or union cases. By compiling type
// metadata once, the transcoder avoids repeated reflection analysis during
// hot paths.
//
// # Key Types
//
//   - CompiledType: Cached type metadata
//   - Kind: Wire shape discriminator (primitive, seq, map, struct, enum, etc.)
//
// This package is internal to the transcoder.
package types
