package types

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindF32
	KindF64
	KindChar
	KindString
	KindBytes
	KindUnit
	KindSeq
	KindMap
	KindOption
	KindTuple
	KindStruct
	KindUnion
	KindCustom
)

var kindNames = [...]string{
	KindBool:   "bool",
	KindU8:     "u8",
	KindI8:     "i8",
	KindU16:    "u16",
	KindI16:    "i16",
	KindU32:    "u32",
	KindI32:    "i32",
	KindU64:    "u64",
	KindI64:    "i64",
	KindF32:    "f32",
	KindF64:    "f64",
	KindChar:   "char",
	KindString: "string",
	KindBytes:  "bytes",
	KindUnit:   "unit",
	KindSeq:    "seq",
	KindMap:    "map",
	KindOption: "option",
	KindTuple:  "tuple",
	KindStruct: "struct",
	KindUnion:  "enum",
	KindCustom: "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsPrimitive() bool {
	return k <= KindChar
}

// MinSize returns the fewest bytes any value of this kind occupies on the
// wire. Composite kinds report the size of their framing only.
func (k Kind) MinSize() int {
	switch k {
	case KindF32:
		return 4
	case KindF64:
		return 8
	case KindUnit, KindTuple, KindStruct, KindCustom:
		return 0
	default:
		// One byte: raw 8-bit values, the first varint byte, a length
		// prefix, a presence byte or a variant index.
		return 1
	}
}
