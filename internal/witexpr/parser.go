package witexpr

import (
	"fmt"

	"go.bytecodealliance.org/wit"
)

// Parse reads a single WIT type expression such as
//
//	record { id: u64, tags: list<string>, owner: option<string> }
//
// Anonymous records, variants, enums and flags use a brace-delimited body in
// place of a named declaration. Trailing commas are accepted.
func Parse(input string) (wit.Type, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok != nil {
		return nil, errorAt(tok.Col, "unexpected %q after type", tok.Value)
	}
	return t, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) next() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) expect(typ tokenType) (*token, error) {
	t := p.next()
	if t == nil {
		return nil, fmt.Errorf("unexpected end of input, expected %v", typ)
	}
	if t.Type != typ {
		return nil, errorAt(t.Col, "expected %v, got %q", typ, t.Value)
	}
	return t, nil
}

func (p *parser) expectPunct(value string) error {
	t := p.next()
	if t == nil {
		return fmt.Errorf("unexpected end of input, expected %q", value)
	}
	if t.Type != tokPunct || t.Value != value {
		return errorAt(t.Col, "expected %q, got %q", value, t.Value)
	}
	return nil
}

// accept consumes the punctuation value if it is next.
func (p *parser) accept(value string) bool {
	if t := p.peek(); t != nil && t.Type == tokPunct && t.Value == value {
		p.pos++
		return true
	}
	return false
}

var primitives = map[string]wit.Type{
	"bool":    wit.Bool{},
	"u8":      wit.U8{},
	"u16":     wit.U16{},
	"u32":     wit.U32{},
	"u64":     wit.U64{},
	"s8":      wit.S8{},
	"s16":     wit.S16{},
	"s32":     wit.S32{},
	"s64":     wit.S64{},
	"f32":     wit.F32{},
	"f64":     wit.F64{},
	"float32": wit.F32{},
	"float64": wit.F64{},
	"char":    wit.Char{},
	"string":  wit.String{},
}

func (p *parser) parseType() (wit.Type, error) {
	t, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if prim, ok := primitives[t.Value]; ok {
		return prim, nil
	}

	var kind wit.TypeDefKind
	switch t.Value {
	case "list":
		elem, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		kind = &wit.List{Type: elem}
	case "option":
		elem, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		kind = &wit.Option{Type: elem}
	case "tuple":
		types, err := p.parseTypeList()
		if err != nil {
			return nil, err
		}
		kind = &wit.Tuple{Types: types}
	case "result":
		kind, err = p.parseResult()
	case "record":
		kind, err = p.parseRecord()
	case "variant":
		kind, err = p.parseVariant()
	case "enum":
		var names []string
		names, err = p.parseNames()
		cases := make([]wit.EnumCase, len(names))
		for i, n := range names {
			cases[i] = wit.EnumCase{Name: n}
		}
		kind = &wit.Enum{Cases: cases}
	case "flags":
		var names []string
		names, err = p.parseNames()
		flags := make([]wit.Flag, len(names))
		for i, n := range names {
			flags[i] = wit.Flag{Name: n}
		}
		kind = &wit.Flags{Flags: flags}
	default:
		return nil, errorAt(t.Col, "unknown type %q", t.Value)
	}
	if err != nil {
		return nil, err
	}
	return &wit.TypeDef{Kind: kind}, nil
}

// parseParam reads "<T>".
func (p *parser) parseParam() (wit.Type, error) {
	if err := p.expectPunct("<"); err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(">"); err != nil {
		return nil, err
	}
	return t, nil
}

// parseTypeList reads "<T, U, ...>" with at least one member.
func (p *parser) parseTypeList() ([]wit.Type, error) {
	if err := p.expectPunct("<"); err != nil {
		return nil, err
	}
	var types []wit.Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		if p.accept(">") {
			return types, nil
		}
		if err := p.expectPunct(","); err != nil {
			return nil, err
		}
	}
}

// parseResult reads the optional "<T, E>" of a result. "_" in the ok
// position means no ok payload; a missing error type means no error payload.
func (p *parser) parseResult() (*wit.Result, error) {
	r := &wit.Result{}
	if !p.accept("<") {
		return r, nil
	}

	if t := p.peek(); t != nil && t.Type == tokIdent && t.Value == "_" {
		p.pos++
	} else {
		ok, err := p.parseType()
		if err != nil {
			return nil, err
		}
		r.OK = ok
	}

	if p.accept(",") {
		errType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		r.Err = errType
	}
	if err := p.expectPunct(">"); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *parser) parseRecord() (*wit.Record, error) {
	r := &wit.Record{}
	err := p.parseBody(func() error {
		name, err := p.expect(tokIdent)
		if err != nil {
			return err
		}
		if err := p.expectPunct(":"); err != nil {
			return err
		}
		t, err := p.parseType()
		if err != nil {
			return err
		}
		r.Fields = append(r.Fields, wit.Field{Name: name.Value, Type: t})
		return nil
	})
	return r, err
}

func (p *parser) parseVariant() (*wit.Variant, error) {
	v := &wit.Variant{}
	err := p.parseBody(func() error {
		name, err := p.expect(tokIdent)
		if err != nil {
			return err
		}
		c := wit.Case{Name: name.Value}
		if p.accept("(") {
			t, err := p.parseType()
			if err != nil {
				return err
			}
			c.Type = t
			if err := p.expectPunct(")"); err != nil {
				return err
			}
		}
		v.Cases = append(v.Cases, c)
		return nil
	})
	return v, err
}

func (p *parser) parseNames() ([]string, error) {
	var names []string
	err := p.parseBody(func() error {
		name, err := p.expect(tokIdent)
		if err != nil {
			return err
		}
		names = append(names, name.Value)
		return nil
	})
	return names, err
}

// parseBody reads "{ item, item, ... }", calling item for each member. The
// body must not be empty.
func (p *parser) parseBody(item func() error) error {
	if err := p.expectPunct("{"); err != nil {
		return err
	}
	for {
		if err := item(); err != nil {
			return err
		}
		if p.accept("}") {
			return nil
		}
		if err := p.expectPunct(","); err != nil {
			return err
		}
		if p.accept("}") {
			return nil
		}
	}
}

func errorAt(col int, format string, args ...any) error {
	return fmt.Errorf("col %d: %s", col, fmt.Sprintf(format, args...))
}
