package transcoder

import (
	"cmp"
	"reflect"
	"slices"
	"strings"

	"github.com/wippyai/varcodec/codec"
	"github.com/wippyai/varcodec/errors"
)

// Encoder writes arbitrary Go values through a codec.Encoder using
// compiled plans.
type Encoder struct {
	compiler *Compiler
}

func NewEncoder() *Encoder {
	return &Encoder{
		compiler: NewCompiler(),
	}
}

func NewEncoderWithCompiler(c *Compiler) *Encoder {
	return &Encoder{compiler: c}
}

// Encode writes v to e. A non-nil pointer at the top level is followed, so
// Encode(e, &x) and Encode(e, x) produce the same bytes.
func (enc *Encoder) Encode(e *codec.Encoder, v any) error {
	if v == nil {
		return errors.TypeUnknown(errors.PhaseEncode, nil, "nil")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return errors.TypeUnknown(errors.PhaseEncode, nil, rv.Type().String())
		}
		rv = rv.Elem()
	}
	ct, err := enc.compiler.Compile(rv.Type())
	if err != nil {
		return err
	}
	return encodeValue(e, ct, rv)
}

// Value adapts v to codec.Encodable. Compile errors surface when the value
// is encoded.
func (c *Compiler) Value(v any) codec.Encodable {
	enc := Encoder{compiler: c}
	return codec.EncodeFunc(func(e *codec.Encoder) error {
		return enc.Encode(e, v)
	})
}

// Marshal encodes v with the default codec configuration.
func (c *Compiler) Marshal(v any) ([]byte, error) {
	return codec.Marshal(c.Value(v))
}

func encodeValue(e *codec.Encoder, ct *CompiledType, v reflect.Value) error {
	switch ct.Kind {
	case KindBool:
		e.Bool(v.Bool())
	case KindU8:
		e.U8(uint8(v.Uint()))
	case KindI8:
		e.I8(int8(v.Int()))
	case KindU16:
		e.U16(uint16(v.Uint()))
	case KindI16:
		e.I16(int16(v.Int()))
	case KindU32:
		e.U32(uint32(v.Uint()))
	case KindI32:
		e.I32(int32(v.Int()))
	case KindU64:
		e.U64(v.Uint())
	case KindI64:
		e.I64(v.Int())
	case KindF32:
		e.F32(float32(v.Float()))
	case KindF64:
		e.F64(v.Float())
	case KindChar:
		return e.Char(rune(v.Int()))
	case KindString:
		e.String(v.String())
	case KindBytes:
		e.Blob(v.Bytes())
	case KindUnit:
		e.Unit()
	case KindSeq:
		return encodeSeq(e, ct, v)
	case KindTuple:
		elems := make([]codec.Encodable, ct.Len)
		for i := range elems {
			elems[i] = encodable(ct.Elem, v.Index(i))
		}
		return e.Tuple(elems...)
	case KindMap:
		return encodeMap(e, ct, v)
	case KindOption:
		if v.IsNil() {
			e.None()
			return nil
		}
		return e.Some(encodable(ct.Elem, v.Elem()))
	case KindStruct:
		return e.Struct(encodeFields(ct, v)...)
	case KindUnion:
		return encodeUnion(e, ct, v)
	case KindCustom:
		return asEncodable(v).Encode(e)
	default:
		return errors.Unsupported(errors.PhaseEncode, nil, "unhandled kind "+ct.Kind.String())
	}
	return nil
}

func encodeSeq(e *codec.Encoder, ct *CompiledType, v reflect.Value) error {
	n := v.Len()
	if size := ct.Elem.MinSize(); size > 0 {
		e.Grow(n * size)
	}
	return e.Seq(n, func(e *codec.Encoder, i int) error {
		return encodeValue(e, ct.Elem, v.Index(i))
	})
}

func encodeMap(e *codec.Encoder, ct *CompiledType, v reflect.Value) error {
	entries := getEntries()
	defer putEntries(entries)

	iter := v.MapRange()
	for iter.Next() {
		*entries = append(*entries, mapEntry{key: iter.Key(), value: iter.Value()})
	}
	if ct.SortKeys {
		slices.SortFunc(*entries, func(a, b mapEntry) int {
			return compareKeys(a.key, b.key)
		})
	}

	return e.Map(len(*entries), func(m *codec.MapEncoder) error {
		for _, entry := range *entries {
			if err := m.Entry(encodable(ct.Key, entry.key), encodable(ct.Elem, entry.value)); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeUnion(e *codec.Encoder, ct *CompiledType, v reflect.Value) error {
	if v.IsNil() {
		err := errors.TypeUnknown(errors.PhaseEncode, nil, ct.GoType.String())
		err.Detail = "nil union value"
		return err
	}
	inner := v.Elem()
	idx := ct.CaseIndex(inner.Type())
	if idx < 0 {
		return errors.TypeMismatch(errors.PhaseEncode, nil, inner.Type().String(), "variant of "+ct.GoType.String())
	}

	cs := ct.Cases[idx]
	var payload codec.Payload
	switch cs.Shape {
	case shapeUnit:
		payload = codec.UnitPayload{}
	case shapeStruct:
		payload = codec.StructPayload(encodeFields(cs.Type, inner))
	default:
		payload = codec.NewtypePayload{Value: encodable(cs.Type, inner)}
	}
	return e.Variant(uint32(idx), payload)
}

func encodeFields(ct *CompiledType, v reflect.Value) []codec.Field {
	fields := make([]codec.Field, len(ct.Fields))
	for i, f := range ct.Fields {
		fields[i] = codec.Field{
			Name:  f.Name,
			Value: encodable(f.Type, v.Field(f.Index)),
		}
	}
	return fields
}

func encodable(ct *CompiledType, v reflect.Value) codec.Encodable {
	return codec.EncodeFunc(func(e *codec.Encoder) error {
		return encodeValue(e, ct, v)
	})
}

func asEncodable(v reflect.Value) codec.Encodable {
	if enc, ok := v.Interface().(codec.Encodable); ok {
		return enc
	}
	if v.CanAddr() {
		return v.Addr().Interface().(codec.Encodable)
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface().(codec.Encodable)
}

// compareKeys orders map keys of the kinds accepted by isOrdered.
func compareKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.String:
		return strings.Compare(a.String(), b.String())
	}
	return 0
}
