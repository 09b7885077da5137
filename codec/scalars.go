package codec

// Scalar wrappers let plain values take part in Tuple, Struct and variant
// payloads. Each type encodes with the matching Encoder method and decodes
// through a pointer.
type (
	Bool   bool
	U8     uint8
	I8     int8
	U16    uint16
	I16    int16
	U32    uint32
	I32    int32
	U64    uint64
	I64    int64
	F32    float32
	F64    float64
	Char   rune
	String string
	Blob   []byte
	Unit   struct{}
)

func (v Bool) Encode(e *Encoder) error {
	e.Bool(bool(v))
	return nil
}

func (v U8) Encode(e *Encoder) error {
	e.U8(uint8(v))
	return nil
}

func (v I8) Encode(e *Encoder) error {
	e.I8(int8(v))
	return nil
}

func (v U16) Encode(e *Encoder) error {
	e.U16(uint16(v))
	return nil
}

func (v I16) Encode(e *Encoder) error {
	e.I16(int16(v))
	return nil
}

func (v U32) Encode(e *Encoder) error {
	e.U32(uint32(v))
	return nil
}

func (v I32) Encode(e *Encoder) error {
	e.I32(int32(v))
	return nil
}

func (v U64) Encode(e *Encoder) error {
	e.U64(uint64(v))
	return nil
}

func (v I64) Encode(e *Encoder) error {
	e.I64(int64(v))
	return nil
}

func (v F32) Encode(e *Encoder) error {
	e.F32(float32(v))
	return nil
}

func (v F64) Encode(e *Encoder) error {
	e.F64(float64(v))
	return nil
}

func (v Char) Encode(e *Encoder) error {
	return e.Char(rune(v))
}

func (v String) Encode(e *Encoder) error {
	e.String(string(v))
	return nil
}

func (v Blob) Encode(e *Encoder) error {
	e.Blob(v)
	return nil
}

func (Unit) Encode(*Encoder) error {
	return nil
}

func (v *Bool) Decode(d *Decoder) error {
	return decodeInto((*bool)(v), d.Bool)
}

func (v *U8) Decode(d *Decoder) error {
	return decodeInto((*uint8)(v), d.U8)
}

func (v *I8) Decode(d *Decoder) error {
	return decodeInto((*int8)(v), d.I8)
}

func (v *U16) Decode(d *Decoder) error {
	return decodeInto((*uint16)(v), d.U16)
}

func (v *I16) Decode(d *Decoder) error {
	return decodeInto((*int16)(v), d.I16)
}

func (v *U32) Decode(d *Decoder) error {
	return decodeInto((*uint32)(v), d.U32)
}

func (v *I32) Decode(d *Decoder) error {
	return decodeInto((*int32)(v), d.I32)
}

func (v *U64) Decode(d *Decoder) error {
	return decodeInto((*uint64)(v), d.U64)
}

func (v *I64) Decode(d *Decoder) error {
	return decodeInto((*int64)(v), d.I64)
}

func (v *F32) Decode(d *Decoder) error {
	return decodeInto((*float32)(v), d.F32)
}

func (v *F64) Decode(d *Decoder) error {
	return decodeInto((*float64)(v), d.F64)
}

func (v *Char) Decode(d *Decoder) error {
	return decodeInto((*rune)(v), d.Char)
}

func (v *String) Decode(d *Decoder) error {
	return decodeInto((*string)(v), d.String)
}

func (v *Blob) Decode(d *Decoder) error {
	return decodeInto((*[]byte)(v), d.Blob)
}

func (*Unit) Decode(*Decoder) error {
	return nil
}

// decodeInto stores the result of read in dst. dst is left untouched on
// error.
func decodeInto[T any](dst *T, read func() (T, error)) error {
	v, err := read()
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
