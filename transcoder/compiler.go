package transcoder

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/varcodec/codec"
	"github.com/wippyai/varcodec/errors"
)

var (
	encodableType = reflect.TypeFor[codec.Encodable]()
	decodableType = reflect.TypeFor[codec.Decodable]()
)

// Compiler turns Go types into cached encoding plans. It is safe for
// concurrent use.
type Compiler struct {
	cache  sync.Map // reflect.Type -> *CompiledType
	mu     sync.Mutex
	unions map[reflect.Type][]reflect.Type
}

func NewCompiler() *Compiler {
	return &Compiler{
		unions: make(map[reflect.Type][]reflect.Type),
	}
}

// RegisterUnion binds an interface type to an ordered list of concrete
// variant types. iface is a nil pointer to the interface, for example
// (*Shape)(nil); each variant is a value of a type that implements it with
// value receivers. A variant's position in the list is its wire index.
//
// Zero-field struct variants encode as unit variants, other structs as
// struct variants and any other type as a newtype variant. A union must be
// registered before any type that contains it is compiled.
func (c *Compiler) RegisterUnion(iface any, variants ...any) error {
	it := reflect.TypeOf(iface)
	if it == nil || it.Kind() != reflect.Pointer || it.Elem().Kind() != reflect.Interface {
		return errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
			GoType(typeName(iface)).
			Shape("enum").
			Detail("union must be registered with a nil interface pointer such as (*Shape)(nil)").
			Build()
	}
	it = it.Elem()
	if len(variants) == 0 {
		return errors.Unsupported(errors.PhaseCompile, []string{it.String()}, "union has no variants")
	}

	cases := make([]reflect.Type, 0, len(variants))
	for i, v := range variants {
		vt := reflect.TypeOf(v)
		if vt == nil {
			return errors.TypeUnknown(errors.PhaseCompile, []string{it.String(), "#" + strconv.Itoa(i)}, "nil")
		}
		if !vt.Implements(it) {
			return errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
				Path(it.String()).
				GoType(vt.String()).
				Detail("variant %d does not implement %s", i, it).
				Build()
		}
		for _, prev := range cases {
			if prev == vt {
				return errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
					Path(it.String()).
					GoType(vt.String()).
					Detail("variant %d repeats an earlier variant", i).
					Build()
			}
		}
		cases = append(cases, vt)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.unions[it]; exists {
		return errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
			GoType(it.String()).
			Detail("union already registered").
			Build()
	}
	c.unions[it] = cases
	return nil
}

// Compile returns the plan for goType, compiling and caching it on first
// use.
func (c *Compiler) Compile(goType reflect.Type) (*CompiledType, error) {
	if goType == nil {
		return nil, errors.TypeUnknown(errors.PhaseCompile, nil, "nil")
	}
	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*CompiledType), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*CompiledType), nil
	}

	// pending holds every type reached in this run, including placeholders
	// for types still being filled in, so recursive types terminate.
	pending := make(map[reflect.Type]*CompiledType)
	ct, err := c.compile(goType, pending, nil)
	if err != nil {
		return nil, err
	}
	for t, p := range pending {
		c.cache.Store(t, p)
		Logger().Debug("compiled type",
			zap.Stringer("type", t),
			zap.Stringer("kind", p.Kind),
		)
	}
	return ct, nil
}

func (c *Compiler) compile(goType reflect.Type, pending map[reflect.Type]*CompiledType, path []string) (*CompiledType, error) {
	if ct, ok := pending[goType]; ok {
		return ct, nil
	}
	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*CompiledType), nil
	}

	ct := &CompiledType{GoType: goType}
	pending[goType] = ct
	if err := c.fill(ct, pending, path); err != nil {
		return nil, err
	}
	return ct, nil
}

func (c *Compiler) fill(ct *CompiledType, pending map[reflect.Type]*CompiledType, path []string) error {
	goType := ct.GoType
	if isCustom(goType) {
		ct.Kind = KindCustom
		return nil
	}

	switch goType.Kind() {
	case reflect.Bool:
		ct.Kind = KindBool
	case reflect.Uint8:
		ct.Kind = KindU8
	case reflect.Int8:
		ct.Kind = KindI8
	case reflect.Uint16:
		ct.Kind = KindU16
	case reflect.Int16:
		ct.Kind = KindI16
	case reflect.Uint32:
		ct.Kind = KindU32
	case reflect.Int32:
		ct.Kind = KindI32
	case reflect.Uint64, reflect.Uint:
		ct.Kind = KindU64
	case reflect.Int64, reflect.Int:
		ct.Kind = KindI64
	case reflect.Float32:
		ct.Kind = KindF32
	case reflect.Float64:
		ct.Kind = KindF64
	case reflect.String:
		ct.Kind = KindString
	case reflect.Slice:
		if goType.Elem().Kind() == reflect.Uint8 && !isCustom(goType.Elem()) {
			ct.Kind = KindBytes
			return nil
		}
		return c.fillElem(ct, KindSeq, pending, path)
	case reflect.Array:
		ct.Len = goType.Len()
		return c.fillElem(ct, KindTuple, pending, path)
	case reflect.Pointer:
		return c.fillElem(ct, KindOption, pending, path)
	case reflect.Map:
		key, err := c.compile(goType.Key(), pending, appendPath(path, "[key]"))
		if err != nil {
			return err
		}
		ct.Key = key
		ct.SortKeys = isOrdered(goType.Key().Kind())
		return c.fillElem(ct, KindMap, pending, path)
	case reflect.Struct:
		return c.fillStruct(ct, pending, path)
	case reflect.Interface:
		return c.fillUnion(ct, pending, path)
	default:
		// chan, func, complex, uintptr, unsafe.Pointer
		return errors.TypeUnknown(errors.PhaseCompile, path, goType.String())
	}
	return nil
}

func (c *Compiler) fillElem(ct *CompiledType, kind TypeKind, pending map[reflect.Type]*CompiledType, path []string) error {
	segment := "[elem]"
	if kind == KindOption {
		segment = "[some]"
	}
	elem, err := c.compile(ct.GoType.Elem(), pending, appendPath(path, segment))
	if err != nil {
		return err
	}
	ct.Kind = kind
	ct.Elem = elem
	return nil
}

func (c *Compiler) fillStruct(ct *CompiledType, pending map[reflect.Type]*CompiledType, path []string) error {
	goType := ct.GoType
	if goType.NumField() == 0 {
		ct.Kind = KindUnit
		return nil
	}

	ct.Kind = KindStruct
	fields := make([]CompiledField, 0, goType.NumField())
	for i := 0; i < goType.NumField(); i++ {
		sf := goType.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := parseTag(sf.Tag.Get("varcodec"))
		if tag.skip {
			continue
		}
		name := sf.Name
		if tag.name != "" {
			name = tag.name
		}
		fieldPath := appendPath(path, name)

		var fieldType *CompiledType
		if tag.char {
			if sf.Type.Kind() != reflect.Int32 {
				return errors.TypeMismatch(errors.PhaseCompile, fieldPath, sf.Type.String(), "char")
			}
			fieldType = &CompiledType{GoType: sf.Type, Kind: KindChar}
		} else {
			var err error
			fieldType, err = c.compile(sf.Type, pending, fieldPath)
			if err != nil {
				return err
			}
		}

		fields = append(fields, CompiledField{
			Name:  name,
			Index: i,
			Type:  fieldType,
		})
	}
	ct.Fields = fields
	return nil
}

func (c *Compiler) fillUnion(ct *CompiledType, pending map[reflect.Type]*CompiledType, path []string) error {
	variants, ok := c.unions[ct.GoType]
	if !ok {
		err := errors.TypeUnknown(errors.PhaseCompile, path, ct.GoType.String())
		err.Detail = "interface is not a registered union"
		return err
	}

	ct.Kind = KindUnion
	cases := make([]CompiledCase, len(variants))
	for i, vt := range variants {
		caseType, err := c.compile(vt, pending, appendPath(path, "variant("+strconv.Itoa(i)+")"))
		if err != nil {
			return err
		}
		shape := shapeNewtype
		switch caseType.Kind {
		case KindUnit:
			shape = shapeUnit
		case KindStruct:
			shape = shapeStruct
		}
		cases[i] = CompiledCase{
			Type:   caseType,
			GoType: vt,
			Shape:  shape,
		}
	}
	ct.Cases = cases
	return nil
}

// isCustom reports whether values of t drive the codec themselves.
func isCustom(t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return false
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(encodableType) && pt.Implements(decodableType)
}

func isOrdered(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	}
	return false
}

type fieldTag struct {
	name string
	skip bool
	char bool
}

// parseTag reads a `varcodec:"name,char"` struct tag. "-" skips the field;
// "char" encodes an int32 field as a Unicode scalar value. The name only
// affects error paths.
func parseTag(tag string) fieldTag {
	if tag == "-" {
		return fieldTag{skip: true}
	}
	var ft fieldTag
	for _, part := range strings.Split(tag, ",") {
		switch {
		case part == "char":
			ft.char = true
		case part != "" && ft.name == "":
			ft.name = part
		}
	}
	return ft
}

func appendPath(path []string, segment string) []string {
	return append(path[:len(path):len(path)], segment)
}
