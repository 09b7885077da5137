package codec

// Encodable is implemented by values that write themselves to an Encoder.
type Encodable interface {
	Encode(e *Encoder) error
}

// Decodable is implemented by values that fill themselves from a Decoder.
// Implementations use pointer receivers.
type Decodable interface {
	Decode(d *Decoder) error
}

// EncodeFunc adapts an ordinary function to Encodable.
type EncodeFunc func(e *Encoder) error

// Encode calls f(e).
func (f EncodeFunc) Encode(e *Encoder) error {
	return f(e)
}

// DecodeFunc adapts an ordinary function to Decodable.
type DecodeFunc func(d *Decoder) error

// Decode calls f(d).
func (f DecodeFunc) Decode(d *Decoder) error {
	return f(d)
}

// Field is one named member of a struct on the encode side. The name only
// appears in error paths; it is never written.
type Field struct {
	Name  string
	Value Encodable
}

// DecodeField is one named member of a struct on the decode side.
type DecodeField struct {
	Name  string
	Value Decodable
}

// Payload is the shape of a tagged-union variant. It is one of
// UnitPayload, NewtypePayload, TuplePayload or StructPayload.
type Payload interface {
	payload()
}

// UnitPayload is a variant with no data. Only the index is written.
type UnitPayload struct{}

// NewtypePayload is a variant wrapping exactly one value.
type NewtypePayload struct {
	Value Encodable
}

// TuplePayload is a variant holding positional values.
type TuplePayload []Encodable

// StructPayload is a variant holding named fields.
type StructPayload []Field

func (UnitPayload) payload()    {}
func (NewtypePayload) payload() {}
func (TuplePayload) payload()   {}
func (StructPayload) payload()  {}
