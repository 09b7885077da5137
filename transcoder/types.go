package transcoder

import (
	"github.com/wippyai/varcodec/transcoder/internal/types"
)

type TypeKind = types.Kind

const (
	KindBool   = types.KindBool
	KindU8     = types.KindU8
	KindI8     = types.KindI8
	KindU16    = types.KindU16
	KindI16    = types.KindI16
	KindU32    = types.KindU32
	KindI32    = types.KindI32
	KindU64    = types.KindU64
	KindI64    = types.KindI64
	KindF32    = types.KindF32
	KindF64    = types.KindF64
	KindChar   = types.KindChar
	KindString = types.KindString
	KindBytes  = types.KindBytes
	KindUnit   = types.KindUnit
	KindSeq    = types.KindSeq
	KindMap    = types.KindMap
	KindOption = types.KindOption
	KindTuple  = types.KindTuple
	KindStruct = types.KindStruct
	KindUnion  = types.KindUnion
	KindCustom = types.KindCustom
)

type CompiledType = types.CompiledType
type CompiledField = types.Field
type CompiledCase = types.Case

const (
	shapeUnit    = types.ShapeUnit
	shapeNewtype = types.ShapeNewtype
	shapeStruct  = types.ShapeStruct
)
