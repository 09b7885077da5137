package types

import (
	"reflect"
	"testing"
)

func TestCompiledTypeIsPrimitive(t *testing.T) {
	primitiveType := &CompiledType{Kind: KindU32}
	if !primitiveType.IsPrimitive() {
		t.Error("u32 should be primitive")
	}

	stringType := &CompiledType{Kind: KindString}
	if stringType.IsPrimitive() {
		t.Error("string should not be primitive")
	}
}

func TestCompiledTypeMinSize(t *testing.T) {
	f64 := &CompiledType{Kind: KindF64}
	u8 := &CompiledType{Kind: KindU8}

	tests := []struct {
		name string
		ct   *CompiledType
		want int
	}{
		{"primitive", u8, 1},
		{"struct sums fields", &CompiledType{
			Kind:   KindStruct,
			Fields: []Field{{Type: f64}, {Type: u8}, {Type: &CompiledType{Kind: KindUnit}}},
		}, 9},
		{"empty struct", &CompiledType{Kind: KindStruct}, 0},
		{"tuple multiplies", &CompiledType{Kind: KindTuple, Len: 3, Elem: f64}, 24},
		{"seq counts prefix only", &CompiledType{Kind: KindSeq, Elem: f64}, 1},
		{"option counts presence only", &CompiledType{Kind: KindOption, Elem: f64}, 1},
		{"nested struct", &CompiledType{
			Kind: KindStruct,
			Fields: []Field{{Type: &CompiledType{
				Kind:   KindStruct,
				Fields: []Field{{Type: f64}},
			}}},
		}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ct.MinSize(); got != tt.want {
				t.Errorf("MinSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompiledTypeMinSizeRecursive(t *testing.T) {
	// type Node struct { Val uint8; Next *Node }
	node := &CompiledType{Kind: KindStruct}
	node.Fields = []Field{
		{Name: "Val", Type: &CompiledType{Kind: KindU8}},
		{Name: "Next", Type: &CompiledType{Kind: KindOption, Elem: node}},
	}
	if got := node.MinSize(); got != 2 {
		t.Errorf("MinSize() = %d, want 2", got)
	}
}

func TestCaseIndex(t *testing.T) {
	type a struct{}
	type b struct{ X int }

	ct := &CompiledType{
		Kind: KindUnion,
		Cases: []Case{
			{GoType: reflect.TypeOf(a{}), Shape: ShapeUnit},
			{GoType: reflect.TypeOf(b{}), Shape: ShapeStruct},
		},
	}

	if got := ct.CaseIndex(reflect.TypeOf(b{})); got != 1 {
		t.Errorf("CaseIndex(b) = %d, want 1", got)
	}
	if got := ct.CaseIndex(reflect.TypeOf(0)); got != -1 {
		t.Errorf("CaseIndex(int) = %d, want -1", got)
	}
}
