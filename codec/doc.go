// Package codec implements the varcodec binary format: a compact encoding
// that carries no type names or tags beyond length prefixes and variant
// indices. The decoder must know the shape it expects.
//
// # Traversal Protocol
//
// Values drive the codec themselves. A type implements Encodable to push
// its contents into an Encoder and Decodable to pull them from a Decoder:
//
//	type Point struct{ X, Y int32 }
//
//	func (p Point) Encode(e *codec.Encoder) error {
//		return e.Struct(
//			codec.Field{Name: "x", Value: codec.I32(p.X)},
//			codec.Field{Name: "y", Value: codec.I32(p.Y)},
//		)
//	}
//
//	func (p *Point) Decode(d *codec.Decoder) error {
//		return d.Struct(
//			codec.DecodeField{Name: "x", Value: (*codec.I32)(&p.X)},
//			codec.DecodeField{Name: "y", Value: (*codec.I32)(&p.Y)},
//		)
//	}
//
// Field names only appear in error paths. The scalar wrapper types (Bool,
// I32, String, ...) adapt plain values to the protocol.
//
// # Wire Format
//
//	bool         1 byte, nonzero is true
//	u8, i8       1 byte
//	u16..u64     unsigned varint, bounded to the width
//	i16..i64     signed varint, bounded to the width
//	f32, f64     4 or 8 bytes, big-endian IEEE-754
//	char         UTF-8, no prefix
//	string       varint length ++ UTF-8 bytes
//	bytes        varint length ++ raw bytes
//	option       0x00 | 0x01 ++ value
//	unit         nothing
//	seq          varint length ++ elements
//	map          varint length ++ (key ++ value) pairs
//	tuple/struct fields in order, no prefix
//	enum         varint variant index ++ payload
//
// # Borrowing
//
// Decoder.String and Decoder.Blob return views into the input unless
// Config.CopyPayloads is set. The input must outlive and must not be
// modified under any value decoded from it.
//
// # Limits
//
// Config.MaxDepth bounds nesting and Config.MaxLength bounds decoded length
// prefixes. DefaultConfig sets both; the zero Config sets neither.
package codec
