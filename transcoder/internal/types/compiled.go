package types

import (
	"reflect"
)

// CompiledType is the cached encoding plan for one Go type.
type CompiledType struct {
	GoType reflect.Type
	Elem   *CompiledType // seq and tuple elements, option payload, map value
	Key    *CompiledType // map key
	Fields []Field
	Cases  []Case
	Len    int // tuple arity
	Kind   Kind

	// SortKeys is set for maps whose key type has a natural order, so the
	// encoding does not depend on map iteration order.
	SortKeys bool
}

// Field is one encoded struct field, in declaration order.
type Field struct {
	Type  *CompiledType
	Name  string
	Index int
}

// Shape is the payload form of a union case.
type Shape uint8

const (
	ShapeUnit Shape = iota
	ShapeNewtype
	ShapeStruct
)

// Case is one variant of a registered union. Its position in
// CompiledType.Cases is the variant index.
type Case struct {
	Type   *CompiledType
	GoType reflect.Type
	Shape  Shape
}

func (ct *CompiledType) IsPrimitive() bool {
	return ct.Kind.IsPrimitive()
}

// MinSize returns the fewest bytes a value of this type occupies on the
// wire. Decoders use it to reject length prefixes the remaining input
// cannot possibly satisfy before allocating.
func (ct *CompiledType) MinSize() int {
	switch ct.Kind {
	case KindStruct:
		n := 0
		for _, f := range ct.Fields {
			n += f.Type.MinSize()
		}
		return n
	case KindTuple:
		return ct.Len * ct.Elem.MinSize()
	default:
		return ct.Kind.MinSize()
	}
}

// CaseIndex returns the variant index for a concrete Go type, or -1.
func (ct *CompiledType) CaseIndex(t reflect.Type) int {
	for i, c := range ct.Cases {
		if c.GoType == t {
			return i
		}
	}
	return -1
}
