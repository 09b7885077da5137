// Package varcodec is a compact, schema-less binary format. Values carry no
// type information on the wire: both sides agree on the shape out of band,
// either through Go types or through WIT type descriptions.
//
// # Architecture Overview
//
//	varcodec/            Reflection-driven Marshal/Unmarshal and dynamic values
//	├── codec/           Encoder, Decoder and the traversal protocol
//	├── transcoder/      Compiles Go types and WIT types into codec calls
//	├── varint/          Variable-length integer engine
//	├── errors/          Structured error types for debugging
//	└── cmd/varcodec/    Command-line encoder, decoder and wire inspector
//
// # Quick Start
//
//	type Point struct {
//	    X uint16
//	    Y int32
//	}
//
//	data, err := varcodec.Marshal(Point{X: 300, Y: -42})
//	// data = 82 2c 6a
//
//	var p Point
//	err = varcodec.Unmarshal(data, &p)
//
// # Wire Format
//
//   - bool, u8, i8: one byte
//   - u16..u64, i16..i64: varint, most significant group first
//   - f32, f64: IEEE 754, big-endian
//   - char: UTF-8
//   - string, bytes: varint length, then the bytes
//   - option: 00 for none, 01 followed by the value
//   - seq, map: varint count, then the elements or key/value pairs
//   - tuple, struct: members in order with no prefix
//   - enum: varint case index, then the payload
//
// Integers are not zig-zag encoded. Signed varints spend the second bit of
// the first byte on the sign, so -42 is the single byte 6a.
//
// # Dynamic Values
//
// When no Go type describes the data, a WIT type does:
//
//	t := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
//	    {Name: "id", Type: wit.U64{}},
//	    {Name: "tags", Type: &wit.TypeDef{Kind: &wit.List{Type: wit.String{}}}},
//	}}}
//	data, err := varcodec.MarshalValue(t, map[string]any{
//	    "id":   uint64(7),
//	    "tags": []any{"a", "b"},
//	})
//
// # Unions
//
// Interfaces have no static shape. Register the concrete types an interface
// may hold before encoding or decoding it:
//
//	varcodec.RegisterUnion((*Shape)(nil), Circle(0), Rect{}, Empty{})
//
// # Limits
//
// The package-level functions use codec.DefaultConfig, which caps nesting
// depth and length prefixes so hostile input cannot exhaust memory. Use New
// with a custom codec.Config to change them.
package varcodec
