package codec

import (
	"github.com/wippyai/varcodec/errors"
	"github.com/wippyai/varcodec/internal/wire"
)

// UnknownLength is passed to Seq or Map when the number of elements is not
// known in advance. The format requires a length prefix, so such containers
// fail with a length-required error.
const UnknownLength = -1

// Encoder writes values to an owned output buffer. It is the write half of
// the traversal protocol: scalar methods append directly, container methods
// write their framing and call back into the value for the contents.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	w        *wire.Writer
	depth    int
	maxDepth int
}

// NewEncoder creates an Encoder with DefaultConfig that appends to buf.
func NewEncoder(buf []byte) *Encoder {
	return newEncoder(DefaultConfig(), buf)
}

func newEncoder(cfg Config, buf []byte) *Encoder {
	return &Encoder{
		w:        wire.NewWriter(buf),
		maxDepth: cfg.MaxDepth,
	}
}

// Bytes returns the encoded output.
func (e *Encoder) Bytes() []byte {
	return e.w.Bytes()
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return e.w.Len()
}

// Grow reserves room for at least n more bytes.
func (e *Encoder) Grow(n int) {
	e.w.Grow(n)
}

// Bool writes a boolean as 0x00 or 0x01.
func (e *Encoder) Bool(v bool) { e.w.Bool(v) }

// U8 writes one raw byte.
func (e *Encoder) U8(v uint8) { e.w.Byte(v) }

// I8 writes one two's complement byte.
func (e *Encoder) I8(v int8) { e.w.I8(v) }

// U16 writes an unsigned varint.
func (e *Encoder) U16(v uint16) { e.w.Uint(uint64(v)) }

// U32 writes an unsigned varint.
func (e *Encoder) U32(v uint32) { e.w.Uint(uint64(v)) }

// U64 writes an unsigned varint.
func (e *Encoder) U64(v uint64) { e.w.Uint(v) }

// I16 writes a signed varint.
func (e *Encoder) I16(v int16) { e.w.Int(int64(v)) }

// I32 writes a signed varint.
func (e *Encoder) I32(v int32) { e.w.Int(int64(v)) }

// I64 writes a signed varint.
func (e *Encoder) I64(v int64) { e.w.Int(v) }

// F32 writes 4 big-endian bytes.
func (e *Encoder) F32(v float32) { e.w.F32(v) }

// F64 writes 8 big-endian bytes.
func (e *Encoder) F64(v float64) { e.w.F64(v) }

// Char writes the UTF-8 encoding of r. Surrogates and values outside the
// Unicode range are rejected.
func (e *Encoder) Char(r rune) error { return e.w.Char(r) }

// String writes a length-prefixed string. The bytes of s are written as
// given; callers holding arbitrary bytes should use Blob.
func (e *Encoder) String(s string) { e.w.String(s) }

// Blob writes a length-prefixed raw byte sequence.
func (e *Encoder) Blob(p []byte) { e.w.ByteString(p) }

// Unit writes nothing.
func (e *Encoder) Unit() {}

// None writes an absent optional value.
func (e *Encoder) None() { e.w.Byte(0) }

// Some writes a present optional value followed by v.
func (e *Encoder) Some(v Encodable) error {
	e.w.Byte(1)
	if err := e.nested(v); err != nil {
		return annotate(errors.PhaseEncode, err, "[some]")
	}
	return nil
}

// Seq writes a length-prefixed sequence of n elements, calling fn once per
// index in order. n must be known; UnknownLength fails.
func (e *Encoder) Seq(n int, fn func(e *Encoder, i int) error) error {
	if n < 0 {
		return errors.LengthRequired(nil, "seq")
	}
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	e.w.Uint(uint64(n))
	for i := 0; i < n; i++ {
		if err := fn(e, i); err != nil {
			return annotate(errors.PhaseEncode, err, indexSegment(i))
		}
	}
	return nil
}

// MapEncoder writes the entries of a map opened with Encoder.Map.
type MapEncoder struct {
	e     *Encoder
	count int
}

// Entry writes one key followed by its value.
func (m *MapEncoder) Entry(key, value Encodable) error {
	i := m.count
	m.count++
	if err := m.e.encode(key); err != nil {
		return annotate(errors.PhaseEncode, err, entrySegment(i), "key")
	}
	if err := m.e.encode(value); err != nil {
		return annotate(errors.PhaseEncode, err, entrySegment(i), "value")
	}
	return nil
}

// Map writes a length-prefixed map of n entries. fn must call Entry exactly
// n times; entries are written in the order given.
func (e *Encoder) Map(n int, fn func(m *MapEncoder) error) error {
	if n < 0 {
		return errors.LengthRequired(nil, "map")
	}
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	e.w.Uint(uint64(n))
	m := &MapEncoder{e: e}
	if err := fn(m); err != nil {
		return err
	}
	if m.count != n {
		return errors.New(errors.PhaseEncode, errors.KindMessage).
			Shape("map").
			Detail("declared %d entries, wrote %d", n, m.count).
			Build()
	}
	return nil
}

// Tuple writes each value in order with no length prefix.
func (e *Encoder) Tuple(values ...Encodable) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()
	return e.tuple(values)
}

// Struct writes each field value in order with no length prefix or names.
func (e *Encoder) Struct(fields ...Field) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()
	return e.fields(fields)
}

// Variant writes a tagged-union value: the variant index, then the payload.
func (e *Encoder) Variant(index uint32, p Payload) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	e.w.Uint(uint64(index))
	var err error
	switch p := p.(type) {
	case nil, UnitPayload:
	case NewtypePayload:
		err = e.encode(p.Value)
	case TuplePayload:
		err = e.tuple(p)
	case StructPayload:
		err = e.fields(p)
	default:
		err = errors.Unsupported(errors.PhaseEncode, nil, "unknown payload type")
	}
	if err != nil {
		return annotate(errors.PhaseEncode, err, variantSegment(index))
	}
	return nil
}

// Any always fails: the format cannot describe a value whose shape is only
// known at run time.
func (e *Encoder) Any(v any) error {
	return errors.TypeUnknown(errors.PhaseEncode, nil, typeName(v))
}

func (e *Encoder) tuple(values []Encodable) error {
	for i, v := range values {
		if err := e.encode(v); err != nil {
			return annotate(errors.PhaseEncode, err, positionSegment(i))
		}
	}
	return nil
}

func (e *Encoder) fields(fields []Field) error {
	for i, f := range fields {
		if err := e.encode(f.Value); err != nil {
			return annotate(errors.PhaseEncode, err, fieldSegment(f.Name, i))
		}
	}
	return nil
}

func (e *Encoder) nested(v Encodable) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()
	return e.encode(v)
}

// encode runs v, rejecting a nil value or a nil EncodeFunc.
func (e *Encoder) encode(v Encodable) error {
	if f, ok := v.(EncodeFunc); v == nil || (ok && f == nil) {
		return errors.TypeUnknown(errors.PhaseEncode, nil, "nil")
	}
	return v.Encode(e)
}

func (e *Encoder) enter() error {
	e.depth++
	if e.maxDepth > 0 && e.depth > e.maxDepth {
		e.depth--
		Logger().Warn("encode nesting limit reached", zapDepth(e.maxDepth))
		return errors.DepthExceeded(errors.PhaseEncode, e.maxDepth)
	}
	return nil
}

func (e *Encoder) leave() {
	e.depth--
}
