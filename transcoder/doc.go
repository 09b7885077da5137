// Package transcoder maps Go values onto the varcodec wire format.
//
// It offers two routes. The reflection route compiles a Go type once into
// a CompiledType and then walks values of that type through a
// codec.Encoder or codec.Decoder. The dynamic route takes a WIT type from
// go.bytecodealliance.org/wit and moves loosely typed values (maps, slices,
// JSON-style numbers) through the same encoder and decoder.
//
// # Type Mapping
//
//	Go type                  Wire shape
//	──────────────────────────────────────────────
//	bool                     bool
//	uint8 / int8             u8 / i8
//	uint16..uint64, uint     unsigned varint
//	int16..int64, int        signed varint
//	float32 / float64        f32 / f64
//	int32 tagged "char"      char
//	string                   string
//	[]byte                   bytes
//	[]T                      seq
//	[N]T                     tuple
//	map[K]V                  map (ordered keys are sorted)
//	*T                       option
//	struct{}                 unit
//	struct                   struct (exported fields, declaration order)
//	registered interface     enum
//	codec.Encodable+Decodable  the type's own methods
//
// Channels, functions, complex numbers and unregistered interfaces have no
// fixed shape and fail to compile with a type_unknown error.
//
// # Struct Tags
//
//	Name  string `varcodec:"name"`     // name used in error paths
//	Cache []byte `varcodec:"-"`        // not encoded
//	Sep   rune   `varcodec:"sep,char"` // encoded as a char, not an i32
//
// # Unions
//
// Interfaces become tagged unions once registered:
//
//	c.RegisterUnion((*Shape)(nil), Circle{}, Rect{}, Empty{})
//
// The order of the variants fixes their wire indices.
//
// # Dynamic Values
//
//	EncodeValue(e, witType, map[string]any{"x": 3.0, "y": -42})
//	v, err := DecodeValue(d, witType)
//
// # Thread Safety
//
// Compiler and CompiledType are safe for concurrent use. Encoder and
// Decoder hold only a compiler reference and may be shared.
package transcoder
