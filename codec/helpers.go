package codec

import (
	"cmp"
	"maps"
	"slices"

	"github.com/wippyai/varcodec/errors"
)

// EncodeSlice writes s as a length-prefixed sequence.
func EncodeSlice[T any](e *Encoder, s []T, enc func(e *Encoder, v T) error) error {
	return e.Seq(len(s), func(e *Encoder, i int) error {
		return enc(e, s[i])
	})
}

// DecodeSlice reads a length-prefixed sequence. An empty sequence decodes
// to an empty, non-nil slice.
func DecodeSlice[T any](d *Decoder, dec func(d *Decoder) (T, error)) ([]T, error) {
	var out []T
	n, err := d.Seq(func(d *Decoder, i, n int) error {
		if out == nil {
			out = make([]T, n)
		}
		v, err := dec(d)
		if err != nil {
			return err
		}
		out[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		out = []T{}
	}
	return out, nil
}

// EncodeMap writes m in Go's map iteration order, which varies between
// runs. Use EncodeSortedMap when the output must be reproducible.
func EncodeMap[K comparable, V any](e *Encoder, m map[K]V, encKey func(*Encoder, K) error, encVal func(*Encoder, V) error) error {
	return e.Map(len(m), func(me *MapEncoder) error {
		for k, v := range m {
			if err := me.Entry(bind(encKey, k), bind(encVal, v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// EncodeSortedMap writes m with keys in ascending order.
func EncodeSortedMap[K cmp.Ordered, V any](e *Encoder, m map[K]V, encKey func(*Encoder, K) error, encVal func(*Encoder, V) error) error {
	keys := slices.Sorted(maps.Keys(m))
	return e.Map(len(keys), func(me *MapEncoder) error {
		for _, k := range keys {
			if err := me.Entry(bind(encKey, k), bind(encVal, m[k])); err != nil {
				return err
			}
		}
		return nil
	})
}

// DecodeMap reads a length-prefixed map. A repeated key keeps the last
// value read.
func DecodeMap[K comparable, V any](d *Decoder, decKey func(*Decoder) (K, error), decVal func(*Decoder) (V, error)) (map[K]V, error) {
	var out map[K]V
	_, err := d.Map(func(d *Decoder, i, n int) error {
		if out == nil {
			out = make(map[K]V, n)
		}
		k, err := decKey(d)
		if err != nil {
			return annotate(errors.PhaseDecode, err, "key")
		}
		v, err := decVal(d)
		if err != nil {
			return annotate(errors.PhaseDecode, err, "value")
		}
		out[k] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = map[K]V{}
	}
	return out, nil
}

// EncodeOption writes nil as an absent value and anything else as present.
func EncodeOption[T any](e *Encoder, v *T, enc func(*Encoder, T) error) error {
	if v == nil {
		e.None()
		return nil
	}
	return e.Some(bind(enc, *v))
}

// DecodeOption reads an optional value, returning nil when it is absent.
func DecodeOption[T any](d *Decoder, dec func(*Decoder) (T, error)) (*T, error) {
	var out *T
	_, err := d.Option(DecodeFunc(func(d *Decoder) error {
		v, err := dec(d)
		if err != nil {
			return err
		}
		out = &v
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func bind[T any](enc func(*Encoder, T) error, v T) Encodable {
	return EncodeFunc(func(e *Encoder) error {
		return enc(e, v)
	})
}
