package wire

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/wippyai/varcodec/errors"
	"github.com/wippyai/varcodec/varint"
)

// Writer appends scalar encodings to an owned, growable buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer that appends to buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Grow ensures room for n more bytes without reallocating.
func (w *Writer) Grow(n int) {
	if cap(w.buf)-len(w.buf) < n {
		grown := make([]byte, len(w.buf), 2*cap(w.buf)+n)
		copy(grown, w.buf)
		w.buf = grown
	}
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf = append(w.buf, b)
}

// WriteBytes writes raw bytes with no framing.
func (w *Writer) WriteBytes(data []byte) {
	w.buf = append(w.buf, data...)
}

// Bool writes 0x01 for true and 0x00 for false.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// I8 writes the two's complement byte of v.
func (w *Writer) I8(v int8) {
	w.buf = append(w.buf, byte(v))
}

// Uint writes an unsigned varint.
func (w *Writer) Uint(v uint64) {
	w.buf = varint.AppendUint(w.buf, v)
}

// Int writes a signed varint.
func (w *Writer) Int(v int64) {
	w.buf = varint.AppendInt(w.buf, v)
}

// F32 writes the IEEE-754 bit pattern of v, big-endian.
func (w *Writer) F32(v float32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, math.Float32bits(v))
}

// F64 writes the IEEE-754 bit pattern of v, big-endian.
func (w *Writer) F64(v float64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// Char writes the UTF-8 encoding of r with no length prefix.
func (w *Writer) Char(r rune) error {
	if !utf8.ValidRune(r) {
		return errors.InvalidRune(errors.PhaseEncode, nil, r)
	}
	w.buf = utf8.AppendRune(w.buf, r)
	return nil
}

// String writes a length-prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.buf = varint.AppendUint(w.buf, uint64(len(s)))
	w.buf = append(w.buf, s...)
}

// ByteString writes a length-prefixed raw byte sequence.
func (w *Writer) ByteString(data []byte) {
	w.buf = varint.AppendUint(w.buf, uint64(len(data)))
	w.buf = append(w.buf, data...)
}
