package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wippyai/varcodec/errors"
	"github.com/wippyai/varcodec/varint"
)

// Reader is a cursor over a borrowed input slice. Every successful read
// advances the position; reads never copy.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte offset into the input.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Remaining returns the unread part of the input.
func (r *Reader) Remaining() []byte {
	return r.data[r.pos:]
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.Truncated(r.pos, 1, 0)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// Next returns the next n bytes as a sub-slice of the input. The result
// aliases the input and has its capacity clipped to n.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, errors.Truncated(r.pos, n, r.Len())
	}
	p := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return p, nil
}

// Bool reads one byte; any nonzero value is true.
func (r *Reader) Bool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

// I8 reads one two's complement byte.
func (r *Reader) I8() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

// Uint reads an unsigned varint whose magnitude must not exceed max.
func (r *Reader) Uint(max uint64) (uint64, error) {
	v, n, err := varint.Uint(r.data[r.pos:], max)
	if err != nil {
		return 0, r.wrapError(err)
	}
	r.pos += n
	return v, nil
}

// Int reads a signed varint bounded by max (see varint.Int).
func (r *Reader) Int(max int64) (int64, error) {
	v, n, err := varint.Int(r.data[r.pos:], max)
	if err != nil {
		return 0, r.wrapError(err)
	}
	r.pos += n
	return v, nil
}

// F32 reads a big-endian IEEE-754 single.
func (r *Reader) F32() (float32, error) {
	p, err := r.Next(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p)), nil
}

// F64 reads a big-endian IEEE-754 double.
func (r *Reader) F64() (float64, error) {
	p, err := r.Next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
}

// Char reads one UTF-8 encoded scalar. The sequence length comes from the
// lead byte.
func (r *Reader) Char() (rune, error) {
	if r.Len() == 0 {
		return 0, errors.Truncated(r.pos, 1, 0)
	}
	lead := r.data[r.pos]
	var n int
	switch {
	case lead <= 0x7f:
		n = 1
	case lead >= 0xc0 && lead <= 0xdf:
		n = 2
	case lead >= 0xe0 && lead <= 0xef:
		n = 3
	case lead >= 0xf0 && lead <= 0xf7:
		n = 4
	default:
		return 0, r.invalidUTF8(r.data[r.pos : r.pos+1])
	}
	if r.Len() < n {
		return 0, errors.Truncated(r.pos, n, r.Len())
	}
	seq := r.data[r.pos : r.pos+n]
	ch, size := utf8.DecodeRune(seq)
	if size != n {
		return 0, r.invalidUTF8(seq)
	}
	r.pos += n
	return ch, nil
}

// Length reads a length prefix bounded by limit (0 means unbounded).
func (r *Reader) Length(limit uint64) (int, error) {
	start := r.pos
	if limit == 0 || limit > math.MaxInt {
		limit = math.MaxInt
	}
	n, err := r.Uint(varint.NoLimit)
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, errors.New(errors.PhaseDecode, errors.KindIntegerOverflow).
			Shape("length").
			Value(n).
			Detail("length %d at offset %d exceeds limit %d", n, start, limit).
			Build()
	}
	return int(n), nil
}

// String reads a length-prefixed UTF-8 string and returns its bytes,
// borrowed from the input.
func (r *Reader) String(limit uint64) ([]byte, error) {
	n, err := r.Length(limit)
	if err != nil {
		return nil, err
	}
	if n > r.Len() {
		return nil, errors.Truncated(r.pos, n, r.Len())
	}
	p := r.data[r.pos : r.pos+n : r.pos+n]
	if !utf8.Valid(p) {
		return nil, r.invalidUTF8(p)
	}
	r.pos += n
	return p, nil
}

// ByteString reads a length-prefixed raw byte sequence, borrowed from the
// input.
func (r *Reader) ByteString(limit uint64) ([]byte, error) {
	n, err := r.Length(limit)
	if err != nil {
		return nil, err
	}
	return r.Next(n)
}

func (r *Reader) invalidUTF8(p []byte) error {
	err := errors.InvalidUTF8(errors.PhaseDecode, nil, p)
	err.Detail += fmt.Sprintf(" at offset %d", r.pos)
	return err
}

func (r *Reader) wrapError(err error) error {
	if e, ok := err.(*errors.Error); ok {
		e.Detail = fmt.Sprintf("%s at offset %d", e.Detail, r.pos)
		return e
	}
	return fmt.Errorf("at offset %d: %w", r.pos, err)
}
