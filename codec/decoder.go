package codec

import (
	"strconv"
	"strings"
	"unsafe"

	"github.com/wippyai/varcodec/errors"
	"github.com/wippyai/varcodec/internal/wire"
	"github.com/wippyai/varcodec/varint"
)

// Decoder reads values from a borrowed input slice. It is the read half of
// the traversal protocol and mirrors Encoder method for method.
//
// The cursor only moves forward. After any error the Decoder must not be
// used again.
type Decoder struct {
	r         *wire.Reader
	depth     int
	maxDepth  int
	maxLength uint64
	copy      bool
}

// NewDecoder creates a Decoder with DefaultConfig over data.
func NewDecoder(data []byte) *Decoder {
	return newDecoder(DefaultConfig(), data)
}

func newDecoder(cfg Config, data []byte) *Decoder {
	return &Decoder{
		r:         wire.NewReader(data),
		maxDepth:  cfg.MaxDepth,
		maxLength: cfg.MaxLength,
		copy:      cfg.CopyPayloads,
	}
}

// Offset returns the number of input bytes consumed.
func (d *Decoder) Offset() int {
	return d.r.Position()
}

// Remaining returns the unread input.
func (d *Decoder) Remaining() []byte {
	return d.r.Remaining()
}

// Bool reads one byte; any nonzero value is true.
func (d *Decoder) Bool() (bool, error) { return d.r.Bool() }

// U8 reads one raw byte.
func (d *Decoder) U8() (uint8, error) { return d.r.ReadByte() }

// I8 reads one two's complement byte.
func (d *Decoder) I8() (int8, error) { return d.r.I8() }

// U16 reads an unsigned varint bounded to 16 bits.
func (d *Decoder) U16() (uint16, error) {
	v, err := d.r.Uint(varint.MaxU16)
	return uint16(v), err
}

// U32 reads an unsigned varint bounded to 32 bits.
func (d *Decoder) U32() (uint32, error) {
	v, err := d.r.Uint(varint.MaxU32)
	return uint32(v), err
}

// U64 reads an unsigned varint.
func (d *Decoder) U64() (uint64, error) {
	return d.r.Uint(varint.NoLimit)
}

// I16 reads a signed varint bounded to 16 bits.
func (d *Decoder) I16() (int16, error) {
	v, err := d.r.Int(varint.MaxI16)
	return int16(v), err
}

// I32 reads a signed varint bounded to 32 bits.
func (d *Decoder) I32() (int32, error) {
	v, err := d.r.Int(varint.MaxI32)
	return int32(v), err
}

// I64 reads a signed varint.
func (d *Decoder) I64() (int64, error) {
	return d.r.Int(varint.NoSignedLimit)
}

// F32 reads 4 big-endian bytes.
func (d *Decoder) F32() (float32, error) { return d.r.F32() }

// F64 reads 8 big-endian bytes.
func (d *Decoder) F64() (float64, error) { return d.r.F64() }

// Char reads one UTF-8 encoded Unicode scalar value.
func (d *Decoder) Char() (rune, error) { return d.r.Char() }

// String reads a length-prefixed UTF-8 string. Unless the Decoder copies
// payloads, the result shares memory with the input, which must not be
// modified while the string is in use.
func (d *Decoder) String() (string, error) {
	p, err := d.r.String(d.maxLength)
	if err != nil || len(p) == 0 {
		return "", err
	}
	if d.copy {
		return strings.Clone(unsafe.String(unsafe.SliceData(p), len(p))), nil
	}
	return unsafe.String(unsafe.SliceData(p), len(p)), nil
}

// Blob reads a length-prefixed byte sequence. Unless the Decoder copies
// payloads, the result is a view into the input.
func (d *Decoder) Blob() ([]byte, error) {
	p, err := d.r.ByteString(d.maxLength)
	if err != nil {
		return nil, err
	}
	if d.copy {
		return append([]byte(nil), p...), nil
	}
	return p, nil
}

// Unit reads nothing.
func (d *Decoder) Unit() error { return nil }

// Option reads the presence byte and, when it is nonzero, decodes v.
// It reports whether a value was present.
func (d *Decoder) Option(v Decodable) (bool, error) {
	present, err := d.r.Bool()
	if err != nil || !present {
		return false, err
	}
	if err := d.nested(v); err != nil {
		return true, annotate(errors.PhaseDecode, err, "[some]")
	}
	return true, nil
}

// Seq reads a length prefix and calls fn once per element with the element
// index and the total count. It returns the count.
func (d *Decoder) Seq(fn func(d *Decoder, i, n int) error) (int, error) {
	n, err := d.r.Length(d.maxLength)
	if err != nil {
		return 0, err
	}
	if err := d.enter(); err != nil {
		return 0, err
	}
	defer d.leave()

	for i := 0; i < n; i++ {
		if err := fn(d, i, n); err != nil {
			return n, annotate(errors.PhaseDecode, err, indexSegment(i))
		}
	}
	return n, nil
}

// Map reads an entry count and calls fn once per entry. fn reads the key
// and then the value.
func (d *Decoder) Map(fn func(d *Decoder, i, n int) error) (int, error) {
	n, err := d.r.Length(d.maxLength)
	if err != nil {
		return 0, err
	}
	if err := d.enter(); err != nil {
		return 0, err
	}
	defer d.leave()

	for i := 0; i < n; i++ {
		if err := fn(d, i, n); err != nil {
			return n, annotate(errors.PhaseDecode, err, entrySegment(i))
		}
	}
	return n, nil
}

// Tuple decodes each value in order. The arity comes from the caller.
func (d *Decoder) Tuple(values ...Decodable) error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	return d.tuple(values)
}

// Struct decodes each field in declared order.
func (d *Decoder) Struct(fields ...DecodeField) error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	return d.fields(fields)
}

// Enum reads a variant index and hands fn a VariantDecoder positioned at
// the payload.
func (d *Decoder) Enum(fn func(index uint32, v *VariantDecoder) error) error {
	index, err := d.r.Uint(varint.MaxU32)
	if err != nil {
		return err
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()

	v := &VariantDecoder{d: d, index: uint32(index)}
	if err := fn(v.index, v); err != nil {
		return annotate(errors.PhaseDecode, err, variantSegment(v.index))
	}
	return nil
}

// Identifier always fails: field and variant names are never encoded.
func (d *Decoder) Identifier() (string, error) {
	return "", errors.IdentifierUnknown(d.Offset())
}

// Any always fails: the input does not describe its own shape.
func (d *Decoder) Any() (any, error) {
	return nil, d.typeUnknown()
}

// Skip always fails: a value cannot be skipped without knowing its shape.
func (d *Decoder) Skip() error {
	return d.typeUnknown()
}

func (d *Decoder) typeUnknown() *errors.Error {
	err := errors.TypeUnknown(errors.PhaseDecode, nil, "")
	err.Detail += " (offset " + strconv.Itoa(d.Offset()) + ")"
	return err
}

func (d *Decoder) tuple(values []Decodable) error {
	for i, v := range values {
		if err := v.Decode(d); err != nil {
			return annotate(errors.PhaseDecode, err, positionSegment(i))
		}
	}
	return nil
}

func (d *Decoder) fields(fields []DecodeField) error {
	for i, f := range fields {
		if err := f.Value.Decode(d); err != nil {
			return annotate(errors.PhaseDecode, err, fieldSegment(f.Name, i))
		}
	}
	return nil
}

func (d *Decoder) nested(v Decodable) error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	return v.Decode(d)
}

func (d *Decoder) decode(v Decodable) error {
	if v == nil {
		return errors.TypeUnknown(errors.PhaseDecode, nil, "nil")
	}
	return v.Decode(d)
}

func (d *Decoder) enter() error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		d.depth--
		Logger().Warn("decode nesting limit reached",
			zapDepth(d.maxDepth),
			zapOffset(d.Offset()),
		)
		return errors.DepthExceeded(errors.PhaseDecode, d.maxDepth)
	}
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

// VariantDecoder reads the payload of one tagged-union value. Exactly one
// of its methods should be called, matching the shape of the variant.
type VariantDecoder struct {
	d     *Decoder
	index uint32
	read  bool
}

// Index returns the variant index read from the input.
func (v *VariantDecoder) Index() uint32 {
	return v.index
}

// Unit accepts a variant with no payload.
func (v *VariantDecoder) Unit() error {
	return v.claim()
}

// Newtype decodes a single-value payload into x.
func (v *VariantDecoder) Newtype(x Decodable) error {
	if err := v.claim(); err != nil {
		return err
	}
	return x.Decode(v.d)
}

// Tuple decodes a positional payload.
func (v *VariantDecoder) Tuple(values ...Decodable) error {
	if err := v.claim(); err != nil {
		return err
	}
	return v.d.tuple(values)
}

// Struct decodes a named-field payload.
func (v *VariantDecoder) Struct(fields ...DecodeField) error {
	if err := v.claim(); err != nil {
		return err
	}
	return v.d.fields(fields)
}

// Invalid returns the error for an index that matches none of the
// type's cases.
func (v *VariantDecoder) Invalid(cases int) error {
	return errors.InvalidVariant(errors.PhaseDecode, nil, v.index, cases)
}

func (v *VariantDecoder) claim() error {
	if v.read {
		return errors.Messagef(errors.PhaseDecode, "payload of variant %d read twice", v.index)
	}
	v.read = true
	return nil
}
