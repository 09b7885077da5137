package transcoder

import (
	"math"
	"reflect"
	"unicode/utf8"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/varcodec/codec"
	"github.com/wippyai/varcodec/errors"
	"github.com/wippyai/varcodec/transcoder/internal/coerce"
	"github.com/wippyai/varcodec/transcoder/internal/layout"
)

var witSizes = layout.NewCalculator()

// EncodeValue writes a dynamic Go value laid out by a WIT type. Values use
// the same shapes DecodeValue produces:
//
//	record   map[string]any keyed by field name
//	tuple    []any (or any slice or array of matching length)
//	list     any slice; list<u8> also accepts []byte
//	option   nil for none, otherwise the value or a pointer to it
//	result   map[string]any with exactly one of "ok" or "err"
//	variant  map[string]any with exactly one case name
//	enum     case name or index
//	flags    map[string]bool (or map[string]any of bools) or the bit set
//	         as an integer
//
// Numbers may be any Go numeric type, including integral float64 values
// produced by JSON decoding, as long as they fit the declared width.
func EncodeValue(e *codec.Encoder, t wit.Type, v any) error {
	switch t := t.(type) {
	case wit.Bool:
		b, ok := v.(bool)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), "bool")
		}
		e.Bool(b)
	case wit.U8:
		x, err := uintOf(v, math.MaxUint8, "u8")
		if err != nil {
			return err
		}
		e.U8(uint8(x))
	case wit.U16:
		x, err := uintOf(v, math.MaxUint16, "u16")
		if err != nil {
			return err
		}
		e.U16(uint16(x))
	case wit.U32:
		x, err := uintOf(v, math.MaxUint32, "u32")
		if err != nil {
			return err
		}
		e.U32(uint32(x))
	case wit.U64:
		x, err := uintOf(v, math.MaxUint64, "u64")
		if err != nil {
			return err
		}
		e.U64(x)
	case wit.S8:
		x, err := intOf(v, math.MinInt8, math.MaxInt8, "i8")
		if err != nil {
			return err
		}
		e.I8(int8(x))
	case wit.S16:
		x, err := intOf(v, math.MinInt16, math.MaxInt16, "i16")
		if err != nil {
			return err
		}
		e.I16(int16(x))
	case wit.S32:
		x, err := intOf(v, math.MinInt32, math.MaxInt32, "i32")
		if err != nil {
			return err
		}
		e.I32(int32(x))
	case wit.S64:
		x, err := intOf(v, math.MinInt64, math.MaxInt64, "i64")
		if err != nil {
			return err
		}
		e.I64(x)
	case wit.F32:
		f, ok := coerce.Float(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), "f32")
		}
		e.F32(float32(f))
	case wit.F64:
		f, ok := coerce.Float(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), "f64")
		}
		e.F64(f)
	case wit.Char:
		r, err := runeOf(v)
		if err != nil {
			return err
		}
		return e.Char(r)
	case wit.String:
		s, ok := v.(string)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), "string")
		}
		e.String(s)
	case *wit.TypeDef:
		return encodeTypeDef(e, t, v)
	default:
		return errors.Unsupported(errors.PhaseEncode, nil, "WIT type "+typeName(t))
	}
	return nil
}

func encodeTypeDef(e *codec.Encoder, t *wit.TypeDef, v any) error {
	switch kind := t.Kind.(type) {
	case *wit.Record:
		m, ok := v.(map[string]any)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), "record as map[string]any")
		}
		fields := make([]codec.Field, len(kind.Fields))
		for i, f := range kind.Fields {
			fv, exists := m[f.Name]
			if !exists {
				return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
					Path(f.Name).
					Shape("record").
					Detail("missing field %q", f.Name).
					Build()
			}
			fields[i] = codec.Field{Name: f.Name, Value: dynamic(f.Type, fv)}
		}
		return e.Struct(fields...)

	case *wit.List:
		if _, isByte := kind.Type.(wit.U8); isByte {
			if b, ok := v.([]byte); ok {
				e.Blob(b)
				return nil
			}
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), "list")
		}
		if size := witSizes.Calculate(kind.Type); size.Fixed && size.MinSize > 0 {
			e.Grow(rv.Len() * size.MinSize)
		}
		return e.Seq(rv.Len(), func(e *codec.Encoder, i int) error {
			return EncodeValue(e, kind.Type, rv.Index(i).Interface())
		})

	case *wit.Tuple:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), "tuple")
		}
		if rv.Len() != len(kind.Types) {
			return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
				GoType(coerce.TypeName(v)).
				Shape("tuple").
				Detail("tuple has %d elements, value has %d", len(kind.Types), rv.Len()).
				Build()
		}
		elems := make([]codec.Encodable, len(kind.Types))
		for i, et := range kind.Types {
			elems[i] = dynamic(et, rv.Index(i).Interface())
		}
		return e.Tuple(elems...)

	case *wit.Option:
		if v == nil {
			e.None()
			return nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				e.None()
				return nil
			}
			v = rv.Elem().Interface()
		}
		return e.Some(dynamic(kind.Type, v))

	case *wit.Result:
		m, ok := v.(map[string]any)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), "map[string]any with ok/err")
		}
		okVal, hasOK := m["ok"]
		errVal, hasErr := m["err"]
		switch {
		case hasOK && !hasErr:
			return e.Variant(0, casePayload(kind.OK, okVal))
		case hasErr && !hasOK:
			return e.Variant(1, casePayload(kind.Err, errVal))
		}
		return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			Shape("result").
			Detail("result value must have exactly one of 'ok' or 'err'").
			Build()

	case *wit.Variant:
		m, ok := v.(map[string]any)
		if !ok || len(m) != 1 {
			return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
				GoType(coerce.TypeName(v)).
				Shape("variant").
				Detail("variant value must be a map with exactly one case name").
				Build()
		}
		for i, c := range kind.Cases {
			if cv, exists := m[c.Name]; exists {
				return e.Variant(uint32(i), casePayload(c.Type, cv))
			}
		}
		for name := range m {
			return errors.New(errors.PhaseEncode, errors.KindInvalidVariant).
				Shape("variant").
				Detail("unknown case %q", name).
				Build()
		}

	case *wit.Enum:
		index, err := enumIndex(kind, v)
		if err != nil {
			return err
		}
		return e.Variant(index, codec.UnitPayload{})

	case *wit.Flags:
		if len(kind.Flags) > 64 {
			return errors.Unsupported(errors.PhaseEncode, nil, "flags with more than 64 members")
		}
		bits, err := flagBits(kind, v)
		if err != nil {
			return err
		}
		e.U64(bits)

	case *wit.Own, *wit.Borrow:
		return errors.Unsupported(errors.PhaseEncode, nil, "resource handles have no byte representation")

	case wit.Type:
		return EncodeValue(e, kind, v)

	default:
		return errors.Unsupported(errors.PhaseEncode, nil, "WIT type "+typeName(kind))
	}
	return nil
}

// DecodeValue reads one value laid out by a WIT type. Records and variants
// become maps, tuples and lists []any, list<u8> []byte, enums the case index
// as uint32 and flags the bit set as uint64.
func DecodeValue(d *codec.Decoder, t wit.Type) (any, error) {
	switch t := t.(type) {
	case wit.Bool:
		return d.Bool()
	case wit.U8:
		return d.U8()
	case wit.U16:
		return d.U16()
	case wit.U32:
		return d.U32()
	case wit.U64:
		return d.U64()
	case wit.S8:
		return d.I8()
	case wit.S16:
		return d.I16()
	case wit.S32:
		return d.I32()
	case wit.S64:
		return d.I64()
	case wit.F32:
		return d.F32()
	case wit.F64:
		return d.F64()
	case wit.Char:
		return d.Char()
	case wit.String:
		return d.String()
	case *wit.TypeDef:
		return decodeTypeDef(d, t)
	}
	return nil, errors.Unsupported(errors.PhaseDecode, nil, "WIT type "+typeName(t))
}

func decodeTypeDef(d *codec.Decoder, t *wit.TypeDef) (any, error) {
	switch kind := t.Kind.(type) {
	case *wit.Record:
		out := make(map[string]any, len(kind.Fields))
		fields := make([]codec.DecodeField, len(kind.Fields))
		for i, f := range kind.Fields {
			fields[i] = codec.DecodeField{Name: f.Name, Value: dynamicTarget(f.Type, func(v any) {
				out[f.Name] = v
			})}
		}
		if err := d.Struct(fields...); err != nil {
			return nil, err
		}
		return out, nil

	case *wit.List:
		if _, isByte := kind.Type.(wit.U8); isByte {
			return d.Blob()
		}
		var out []any
		_, err := d.Seq(func(d *codec.Decoder, i, n int) error {
			if i == 0 {
				if err := checkRoom(d, n, witSizes.Calculate(kind.Type).MinSize); err != nil {
					return err
				}
				out = make([]any, n)
			}
			v, err := DecodeValue(d, kind.Type)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = []any{}
		}
		return out, nil

	case *wit.Tuple:
		out := make([]any, len(kind.Types))
		elems := make([]codec.Decodable, len(kind.Types))
		for i, et := range kind.Types {
			elems[i] = dynamicTarget(et, func(v any) {
				out[i] = v
			})
		}
		if err := d.Tuple(elems...); err != nil {
			return nil, err
		}
		return out, nil

	case *wit.Option:
		var out any
		_, err := d.Option(dynamicTarget(kind.Type, func(v any) {
			out = v
		}))
		if err != nil {
			return nil, err
		}
		return out, nil

	case *wit.Result:
		var out map[string]any
		err := d.Enum(func(index uint32, vd *codec.VariantDecoder) error {
			name, payload := "ok", kind.OK
			switch index {
			case 0:
			case 1:
				name, payload = "err", kind.Err
			default:
				return vd.Invalid(2)
			}
			v, err := decodeCase(vd, payload)
			if err != nil {
				return err
			}
			out = map[string]any{name: v}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil

	case *wit.Variant:
		var out map[string]any
		err := d.Enum(func(index uint32, vd *codec.VariantDecoder) error {
			if uint64(index) >= uint64(len(kind.Cases)) {
				return vd.Invalid(len(kind.Cases))
			}
			c := kind.Cases[index]
			v, err := decodeCase(vd, c.Type)
			if err != nil {
				return err
			}
			out = map[string]any{c.Name: v}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil

	case *wit.Enum:
		var out uint32
		err := d.Enum(func(index uint32, vd *codec.VariantDecoder) error {
			if uint64(index) >= uint64(len(kind.Cases)) {
				return vd.Invalid(len(kind.Cases))
			}
			out = index
			return vd.Unit()
		})
		if err != nil {
			return nil, err
		}
		return out, nil

	case *wit.Flags:
		if len(kind.Flags) > 64 {
			return nil, errors.Unsupported(errors.PhaseDecode, nil, "flags with more than 64 members")
		}
		bits, err := d.U64()
		if err != nil {
			return nil, err
		}
		if n := len(kind.Flags); n < 64 && bits>>n != 0 {
			return nil, errors.Overflow(errors.PhaseDecode, nil, bits, "flags")
		}
		return bits, nil

	case *wit.Own, *wit.Borrow:
		return nil, errors.Unsupported(errors.PhaseDecode, nil, "resource handles have no byte representation")

	case wit.Type:
		return DecodeValue(d, kind)
	}
	return nil, errors.Unsupported(errors.PhaseDecode, nil, "WIT type "+typeName(t.Kind))
}

// Dynamic adapts a dynamic value to codec.Encodable.
func Dynamic(t wit.Type, v any) codec.Encodable {
	return dynamic(t, v)
}

// DynamicTarget adapts out to codec.Decodable. The decoded value is stored
// in *out only when decoding succeeds.
func DynamicTarget(t wit.Type, out *any) codec.Decodable {
	return dynamicTarget(t, func(v any) { *out = v })
}

func dynamic(t wit.Type, v any) codec.Encodable {
	return codec.EncodeFunc(func(e *codec.Encoder) error {
		return EncodeValue(e, t, v)
	})
}

func dynamicTarget(t wit.Type, set func(v any)) codec.Decodable {
	return codec.DecodeFunc(func(d *codec.Decoder) error {
		v, err := DecodeValue(d, t)
		if err != nil {
			return err
		}
		set(v)
		return nil
	})
}

// casePayload builds the payload of a result or variant case. A case
// without a type carries no data.
func casePayload(t wit.Type, v any) codec.Payload {
	if t == nil {
		return codec.UnitPayload{}
	}
	return codec.NewtypePayload{Value: dynamic(t, v)}
}

func decodeCase(vd *codec.VariantDecoder, t wit.Type) (any, error) {
	if t == nil {
		return nil, vd.Unit()
	}
	var out any
	err := vd.Newtype(dynamicTarget(t, func(v any) {
		out = v
	}))
	return out, err
}

func enumIndex(kind *wit.Enum, v any) (uint32, error) {
	if name, ok := v.(string); ok {
		for i, c := range kind.Cases {
			if c.Name == name {
				return uint32(i), nil
			}
		}
		return 0, errors.New(errors.PhaseEncode, errors.KindInvalidVariant).
			Shape("enum").
			Detail("unknown case %q", name).
			Build()
	}
	index, err := uintOf(v, math.MaxUint32, "enum")
	if err != nil {
		return 0, err
	}
	if index >= uint64(len(kind.Cases)) {
		return 0, errors.InvalidVariant(errors.PhaseEncode, nil, uint32(index), len(kind.Cases))
	}
	return uint32(index), nil
}

func flagBits(kind *wit.Flags, v any) (uint64, error) {
	if m, ok := v.(map[string]bool); ok {
		var bits uint64
		for i, f := range kind.Flags {
			if m[f.Name] {
				bits |= 1 << uint(i)
			}
		}
		return bits, nil
	}
	if m, ok := v.(map[string]any); ok {
		var bits uint64
		for i, f := range kind.Flags {
			set, present := m[f.Name]
			if !present {
				continue
			}
			b, ok := set.(bool)
			if !ok {
				return 0, errors.TypeMismatch(errors.PhaseEncode, []string{f.Name}, coerce.TypeName(set), "bool")
			}
			if b {
				bits |= 1 << uint(i)
			}
		}
		return bits, nil
	}
	bits, err := uintOf(v, math.MaxUint64, "flags")
	if err != nil {
		return 0, err
	}
	if n := len(kind.Flags); n < 64 && bits>>n != 0 {
		return 0, errors.Overflow(errors.PhaseEncode, nil, bits, "flags")
	}
	return bits, nil
}

func uintOf(v any, max uint64, shape string) (uint64, error) {
	if x, ok := coerce.Uint(v, max); ok {
		return x, nil
	}
	if _, numeric := coerce.Float(v); numeric {
		return 0, errors.Overflow(errors.PhaseEncode, nil, v, shape)
	}
	return 0, errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), shape)
}

func intOf(v any, min, max int64, shape string) (int64, error) {
	if x, ok := coerce.Int(v, min, max); ok {
		return x, nil
	}
	if _, numeric := coerce.Float(v); numeric {
		return 0, errors.Overflow(errors.PhaseEncode, nil, v, shape)
	}
	return 0, errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), shape)
}

// runeOf accepts a rune or a string holding exactly one character.
func runeOf(v any) (rune, error) {
	switch c := v.(type) {
	case rune:
		return c, nil
	case string:
		r, size := utf8.DecodeRuneInString(c)
		if size > 0 && size == len(c) && r != utf8.RuneError {
			return r, nil
		}
	}
	return 0, errors.TypeMismatch(errors.PhaseEncode, nil, coerce.TypeName(v), "char")
}
