package transcoder

import (
	stderrors "errors"
	"reflect"

	"github.com/wippyai/varcodec/codec"
	"github.com/wippyai/varcodec/errors"
)

// Decoder fills arbitrary Go values from a codec.Decoder using compiled
// plans.
type Decoder struct {
	compiler *Compiler
}

func NewDecoder() *Decoder {
	return &Decoder{
		compiler: NewCompiler(),
	}
}

func NewDecoderWithCompiler(c *Compiler) *Decoder {
	return &Decoder{compiler: c}
}

// Decode reads one value into the variable ptr points to. On failure the
// target keeps whatever was decoded before the error for scalars and
// structs; sequences, maps and options are only replaced once complete.
func (dec *Decoder) Decode(d *codec.Decoder, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			GoType(typeName(ptr)).
			Detail("decode target must be a non-nil pointer").
			Build()
	}
	rv = rv.Elem()
	ct, err := dec.compiler.Compile(rv.Type())
	if err != nil {
		return err
	}
	return decodeValue(d, ct, rv)
}

// Target adapts ptr to codec.Decodable.
func (c *Compiler) Target(ptr any) codec.Decodable {
	dec := Decoder{compiler: c}
	return codec.DecodeFunc(func(d *codec.Decoder) error {
		return dec.Decode(d, ptr)
	})
}

// Unmarshal decodes data into ptr with the default codec configuration.
func (c *Compiler) Unmarshal(data []byte, ptr any) error {
	return codec.Unmarshal(data, c.Target(ptr))
}

func decodeValue(d *codec.Decoder, ct *CompiledType, v reflect.Value) error {
	switch ct.Kind {
	case KindBool:
		b, err := d.Bool()
		if err != nil {
			return err
		}
		v.SetBool(b)
	case KindU8:
		x, err := d.U8()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case KindI8:
		x, err := d.I8()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case KindU16:
		x, err := d.U16()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case KindI16:
		x, err := d.I16()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case KindU32:
		x, err := d.U32()
		if err != nil {
			return err
		}
		v.SetUint(uint64(x))
	case KindI32:
		x, err := d.I32()
		if err != nil {
			return err
		}
		v.SetInt(int64(x))
	case KindU64:
		x, err := d.U64()
		if err != nil {
			return err
		}
		// uint is narrower than 64 bits on some platforms
		if v.OverflowUint(x) {
			return errors.Overflow(errors.PhaseDecode, nil, x, ct.GoType.String())
		}
		v.SetUint(x)
	case KindI64:
		x, err := d.I64()
		if err != nil {
			return err
		}
		if v.OverflowInt(x) {
			return errors.Overflow(errors.PhaseDecode, nil, x, ct.GoType.String())
		}
		v.SetInt(x)
	case KindF32:
		x, err := d.F32()
		if err != nil {
			return err
		}
		v.SetFloat(float64(x))
	case KindF64:
		x, err := d.F64()
		if err != nil {
			return err
		}
		v.SetFloat(x)
	case KindChar:
		r, err := d.Char()
		if err != nil {
			return err
		}
		v.SetInt(int64(r))
	case KindString:
		s, err := d.String()
		if err != nil {
			return err
		}
		v.SetString(s)
	case KindBytes:
		b, err := d.Blob()
		if err != nil {
			return err
		}
		v.SetBytes(b)
	case KindUnit:
		return d.Unit()
	case KindSeq:
		return decodeSeq(d, ct, v)
	case KindTuple:
		elems := make([]codec.Decodable, ct.Len)
		for i := range elems {
			elems[i] = decodable(ct.Elem, v.Index(i))
		}
		return d.Tuple(elems...)
	case KindMap:
		return decodeMap(d, ct, v)
	case KindOption:
		return decodeOption(d, ct, v)
	case KindStruct:
		return d.Struct(decodeFields(ct, v)...)
	case KindUnion:
		return decodeUnion(d, ct, v)
	case KindCustom:
		return v.Addr().Interface().(codec.Decodable).Decode(d)
	default:
		return errors.Unsupported(errors.PhaseDecode, nil, "unhandled kind "+ct.Kind.String())
	}
	return nil
}

func decodeSeq(d *codec.Decoder, ct *CompiledType, v reflect.Value) error {
	var out reflect.Value
	n, err := d.Seq(func(d *codec.Decoder, i, n int) error {
		if i == 0 {
			if err := checkRoom(d, n, ct.Elem.MinSize()); err != nil {
				return err
			}
			out = reflect.MakeSlice(ct.GoType, n, n)
		}
		return decodeValue(d, ct.Elem, out.Index(i))
	})
	if err != nil {
		return err
	}
	if n == 0 {
		out = reflect.MakeSlice(ct.GoType, 0, 0)
	}
	v.Set(out)
	return nil
}

func decodeMap(d *codec.Decoder, ct *CompiledType, v reflect.Value) error {
	var out reflect.Value
	n, err := d.Map(func(d *codec.Decoder, i, n int) error {
		if i == 0 {
			if err := checkRoom(d, n, ct.Key.MinSize()+ct.Elem.MinSize()); err != nil {
				return err
			}
			out = reflect.MakeMapWithSize(ct.GoType, n)
		}
		key := reflect.New(ct.Key.GoType).Elem()
		if err := decodeValue(d, ct.Key, key); err != nil {
			return prepend(err, "key")
		}
		val := reflect.New(ct.Elem.GoType).Elem()
		if err := decodeValue(d, ct.Elem, val); err != nil {
			return prepend(err, "value")
		}
		out.SetMapIndex(key, val)
		return nil
	})
	if err != nil {
		return err
	}
	if n == 0 {
		out = reflect.MakeMap(ct.GoType)
	}
	v.Set(out)
	return nil
}

func decodeOption(d *codec.Decoder, ct *CompiledType, v reflect.Value) error {
	present, err := d.Option(codec.DecodeFunc(func(d *codec.Decoder) error {
		p := reflect.New(ct.Elem.GoType)
		if err := decodeValue(d, ct.Elem, p.Elem()); err != nil {
			return err
		}
		v.Set(p)
		return nil
	}))
	if err != nil {
		return err
	}
	if !present {
		v.SetZero()
	}
	return nil
}

func decodeUnion(d *codec.Decoder, ct *CompiledType, v reflect.Value) error {
	return d.Enum(func(index uint32, vd *codec.VariantDecoder) error {
		if uint64(index) >= uint64(len(ct.Cases)) {
			return vd.Invalid(len(ct.Cases))
		}
		cs := ct.Cases[index]
		val := reflect.New(cs.GoType).Elem()

		var err error
		switch cs.Shape {
		case shapeUnit:
			err = vd.Unit()
		case shapeStruct:
			err = vd.Struct(decodeFields(cs.Type, val)...)
		default:
			err = vd.Newtype(decodable(cs.Type, val))
		}
		if err != nil {
			return err
		}
		v.Set(val)
		return nil
	})
}

func decodeFields(ct *CompiledType, v reflect.Value) []codec.DecodeField {
	fields := make([]codec.DecodeField, len(ct.Fields))
	for i, f := range ct.Fields {
		fields[i] = codec.DecodeField{
			Name:  f.Name,
			Value: decodable(f.Type, v.Field(f.Index)),
		}
	}
	return fields
}

func decodable(ct *CompiledType, v reflect.Value) codec.Decodable {
	return codec.DecodeFunc(func(d *codec.Decoder) error {
		return decodeValue(d, ct, v)
	})
}

// checkRoom rejects a length prefix that the remaining input cannot hold
// before anything is allocated for it.
func checkRoom(d *codec.Decoder, n, minSize int) error {
	have := len(d.Remaining())
	if minSize == 0 || n <= have/minSize {
		return nil
	}
	return errors.New(errors.PhaseDecode, errors.KindValueTruncated).
		Detail("%d elements of at least %d bytes at offset %d, have %d bytes", n, minSize, d.Offset(), have).
		Build()
}

// prepend returns a copy of err with segment in front of its path. Errors
// without a phase are left for the codec to annotate.
func prepend(err error, segment string) error {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Phase != "" {
		return e.Clone().Prepend(segment)
	}
	return err
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
