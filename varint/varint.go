package varint

import (
	"math"
	"strconv"

	"github.com/wippyai/varcodec/errors"
)

const (
	continuation = 0x80
	signBit      = 0x40

	groupMask      = 0x7f
	firstSignedMax = 0x3f

	// MaxLen is the longest encoding of a 64-bit value, signed or unsigned.
	MaxLen = 10
)

// Bounds for the narrower widths that route through the 64-bit path.
const (
	NoLimit  = math.MaxUint64
	MaxU8    = math.MaxUint8
	MaxU16   = math.MaxUint16
	MaxU32   = math.MaxUint32

	NoSignedLimit = math.MaxInt64
	MaxI16        = math.MaxInt16
	MaxI32        = math.MaxInt32
)

// minInt64Prefix is the magnitude accumulated from the first nine bytes of
// the encoding of math.MinInt64 (C1 80 80 80 80 80 80 80 80 00).
const minInt64Prefix = 1 << 56

// AppendUint appends the encoding of v to dst. Groups of 7 bits go out most
// significant first; every byte but the last has the continuation bit set.
func AppendUint(dst []byte, v uint64) []byte {
	var stack [MaxLen]byte
	n := 0
	for v&^groupMask != 0 {
		stack[n] = byte(v & groupMask)
		n++
		v >>= 7
	}
	first := byte(v)
	if n > 0 {
		first |= continuation
	}
	dst = append(dst, first)
	return unwind(dst, stack[:n])
}

// AppendInt appends the encoding of v to dst. The first byte carries the
// continuation bit, the sign bit and the top 6 bits of the magnitude.
func AppendInt(dst []byte, v int64) []byte {
	var sign byte
	mag := uint64(v)
	if v < 0 {
		sign = signBit
		// Two's complement negation also yields 1<<63 for math.MinInt64.
		mag = -mag
	}

	var stack [MaxLen]byte
	n := 0
	for mag&^firstSignedMax != 0 {
		stack[n] = byte(mag & groupMask)
		n++
		mag >>= 7
	}
	first := byte(mag) | sign
	if n > 0 {
		first |= continuation
	}
	dst = append(dst, first)
	return unwind(dst, stack[:n])
}

// unwind pops the pushed groups, most recently pushed first.
func unwind(dst, stack []byte) []byte {
	for i := len(stack) - 1; i >= 0; i-- {
		b := stack[i]
		if i > 0 {
			b |= continuation
		}
		dst = append(dst, b)
	}
	return dst
}

// Uint decodes an unsigned value from the front of buf. It returns the value
// and the number of bytes consumed. Any magnitude above max fails with an
// integer overflow error, as does a value that does not fit in 64 bits.
func Uint(buf []byte, max uint64) (uint64, int, error) {
	if len(buf) == 0 {
		return 0, 0, truncated(0)
	}
	b := buf[0]
	n := 1
	v := uint64(b & groupMask)
	more := b&continuation != 0
	for more {
		if n >= len(buf) {
			return 0, n, truncated(n)
		}
		b = buf[n]
		n++
		more = b&continuation != 0
		if v > math.MaxUint64>>7 {
			return 0, n, errors.New(errors.PhaseDecode, errors.KindIntegerOverflow).
				Shape("u64").
				Detail("varint exceeds 64 bits after %d bytes", n).
				Build()
		}
		v = v<<7 | uint64(b&groupMask)
		if v > max {
			return 0, n, errors.Overflow(errors.PhaseDecode, nil, v, unsignedName(max))
		}
	}
	return v, n, nil
}

// Int decodes a signed value from the front of buf. Negative magnitudes may
// reach max+1 so that the minimum of the bounded width still decodes.
func Int(buf []byte, max int64) (int64, int, error) {
	if len(buf) == 0 {
		return 0, 0, truncated(0)
	}
	b := buf[0]
	n := 1
	more := b&continuation != 0
	negative := b&signBit != 0
	v := int64(b & firstSignedMax)
	for more {
		if n >= len(buf) {
			return 0, n, truncated(n)
		}
		b = buf[n]
		n++
		group := int64(b & groupMask)
		more = b&continuation != 0
		// The magnitude of math.MinInt64 is not representable; its only
		// encoding is recognised by its last byte.
		if !more && negative && group == 0 && v == minInt64Prefix {
			return math.MinInt64, n, nil
		}
		if v > math.MaxInt64>>7 {
			return 0, n, errors.New(errors.PhaseDecode, errors.KindIntegerOverflow).
				Shape("i64").
				Detail("varint magnitude exceeds 63 bits after %d bytes", n).
				Build()
		}
		v = v<<7 | group
		if (negative && v-1 > max) || (!negative && v > max) {
			if negative {
				return 0, n, errors.Overflow(errors.PhaseDecode, nil, "-"+strconv.FormatInt(v, 10), signedName(max))
			}
			return 0, n, errors.Overflow(errors.PhaseDecode, nil, v, signedName(max))
		}
	}
	if negative {
		v = -v
	}
	return v, n, nil
}

// UintLen returns the number of bytes AppendUint writes for v.
func UintLen(v uint64) int {
	n := 1
	for v&^groupMask != 0 {
		v >>= 7
		n++
	}
	return n
}

// IntLen returns the number of bytes AppendInt writes for v.
func IntLen(v int64) int {
	mag := uint64(v)
	if v < 0 {
		mag = -mag
	}
	n := 1
	for mag&^firstSignedMax != 0 {
		mag >>= 7
		n++
	}
	return n
}

func truncated(n int) *errors.Error {
	return errors.New(errors.PhaseDecode, errors.KindValueTruncated).
		Detail("varint truncated after %d bytes", n).
		Build()
}

func unsignedName(max uint64) string {
	switch max {
	case MaxU8:
		return "u8"
	case MaxU16:
		return "u16"
	case MaxU32:
		return "u32"
	case NoLimit:
		return "u64"
	}
	return "integer bounded by " + strconv.FormatUint(max, 10)
}

func signedName(max int64) string {
	switch max {
	case math.MaxInt8:
		return "i8"
	case MaxI16:
		return "i16"
	case MaxI32:
		return "i32"
	case NoSignedLimit:
		return "i64"
	}
	return "integer bounded by " + strconv.FormatInt(max, 10)
}
