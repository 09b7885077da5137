package layout

import (
	"sync"

	"go.bytecodealliance.org/wit"
)

// Info describes how many bytes a WIT type occupies on the wire.
type Info struct {
	// MinSize is the fewest bytes any value of the type can take.
	MinSize int
	// Fixed is set when every value takes exactly MinSize bytes.
	Fixed bool
}

// Calculator computes wire sizes for WIT types, caching type definitions.
// It is safe for concurrent use.
type Calculator struct {
	mu    sync.RWMutex
	cache map[*wit.TypeDef]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*wit.TypeDef]Info),
	}
}

func (c *Calculator) Calculate(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.Bool, wit.U8, wit.S8:
		return Info{MinSize: 1, Fixed: true}
	case wit.F32:
		return Info{MinSize: 4, Fixed: true}
	case wit.F64:
		return Info{MinSize: 8, Fixed: true}
	case wit.U16, wit.S16, wit.U32, wit.S32, wit.U64, wit.S64, wit.Char, wit.String:
		// varints, UTF-8 and length prefixes all take at least one byte
		return Info{MinSize: 1}
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return Info{}
	}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) Info {
	c.mu.RLock()
	cached, ok := c.cache[t]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	var info Info

	switch kind := t.Kind.(type) {
	case *wit.Record:
		types := make([]wit.Type, len(kind.Fields))
		for i, f := range kind.Fields {
			types[i] = f.Type
		}
		info = c.sequence(types)
	case *wit.Tuple:
		info = c.sequence(kind.Types)
	case *wit.Variant:
		types := make([]wit.Type, len(kind.Cases))
		for i, cs := range kind.Cases {
			types[i] = cs.Type
		}
		info = c.tagged(types)
	case *wit.Result:
		info = c.tagged([]wit.Type{kind.OK, kind.Err})
	case *wit.Enum:
		info = Info{MinSize: 1, Fixed: len(kind.Cases) <= 128}
	case *wit.List, *wit.Option, *wit.Flags:
		info = Info{MinSize: 1}
	case wit.Type:
		info = c.Calculate(kind)
	default:
		info = Info{}
	}

	c.mu.Lock()
	c.cache[t] = info
	c.mu.Unlock()
	return info
}

// sequence sizes values laid out back to back with no prefix.
func (c *Calculator) sequence(types []wit.Type) Info {
	info := Info{Fixed: true}
	for _, t := range types {
		elem := c.Calculate(t)
		info.MinSize += elem.MinSize
		info.Fixed = info.Fixed && elem.Fixed
	}
	return info
}

// tagged sizes a varint case index followed by the payload of one case. A
// nil case type carries no payload.
func (c *Calculator) tagged(cases []wit.Type) Info {
	if len(cases) == 0 {
		return Info{}
	}

	smallest := -1
	fixed := len(cases) <= 128
	size := -1
	for _, t := range cases {
		var payload Info
		if t != nil {
			payload = c.Calculate(t)
		} else {
			payload = Info{Fixed: true}
		}
		if smallest < 0 || payload.MinSize < smallest {
			smallest = payload.MinSize
		}
		if !payload.Fixed || (size >= 0 && size != payload.MinSize) {
			fixed = false
		}
		size = payload.MinSize
	}

	return Info{
		MinSize: 1 + smallest,
		Fixed:   fixed,
	}
}
