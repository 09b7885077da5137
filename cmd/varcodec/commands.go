package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/varcodec"
	"github.com/wippyai/varcodec/varint"
)

func encodeCmd(c *varcodec.Codec, t wit.Type, args []string, stdin io.Reader, stdout io.Writer, raw bool) error {
	input, err := argOrStdin(args, stdin)
	if err != nil {
		return err
	}
	value, err := parseJSON(input)
	if err != nil {
		return err
	}
	data, err := c.MarshalValue(t, value)
	if err != nil {
		return err
	}
	if raw {
		_, err = stdout.Write(data)
		return err
	}
	_, err = fmt.Fprintln(stdout, hex.EncodeToString(data))
	return err
}

func decodeCmd(c *varcodec.Codec, t wit.Type, args []string, stdin io.Reader, stdout io.Writer, raw bool) error {
	var data []byte
	if raw {
		var err error
		if data, err = io.ReadAll(stdin); err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	} else {
		input, err := argOrStdin(args, stdin)
		if err != nil {
			return err
		}
		if data, err = parseHex(string(input)); err != nil {
			return err
		}
	}

	value, err := c.UnmarshalValue(data, t)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(toJSON(t, value), "", "  ")
	if err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}

func varintCmd(args []string, signed bool, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("varint: no numbers given")
	}
	for _, arg := range args {
		var buf []byte
		if signed {
			v, err := strconv.ParseInt(arg, 0, 64)
			if err != nil {
				return fmt.Errorf("parse %q: %w", arg, err)
			}
			buf = varint.AppendInt(nil, v)
		} else {
			v, err := strconv.ParseUint(arg, 0, 64)
			if err != nil {
				return fmt.Errorf("parse %q: %w", arg, err)
			}
			buf = varint.AppendUint(nil, v)
		}
		if _, err := fmt.Fprintf(stdout, "%s\t% x\n", arg, buf); err != nil {
			return err
		}
	}
	return nil
}

// argOrStdin joins the positional arguments, or reads stdin when there are
// none.
func argOrStdin(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) > 0 {
		return []byte(strings.Join(args, " ")), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// parseHex accepts hex digits with optional whitespace and an optional 0x
// prefix, e.g. "82 2c 6a" or "0x822c6a".
func parseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return data, nil
}

// parseJSON decodes a single JSON value, keeping integers exact.
func parseJSON(input []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parse JSON: unexpected data after value")
	}
	return fromJSON(v), nil
}

// fromJSON replaces json.Number with int64, uint64 or float64, whichever
// holds the number exactly.
func fromJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(string(x), 10, 64); err == nil {
			return u
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = fromJSON(e)
		}
	case []any:
		for i, e := range x {
			x[i] = fromJSON(e)
		}
	}
	return v
}

// toJSON reshapes a decoded value so that encoding the JSON output with the
// same type reproduces the input. Chars become strings, enums their case
// name, flags an object of booleans and list<u8> an array of numbers.
func toJSON(t wit.Type, v any) any {
	switch t := t.(type) {
	case wit.Char:
		if r, ok := v.(rune); ok {
			return string(r)
		}
	case wit.F32:
		if f, ok := v.(float32); ok {
			return jsonFloat(float64(f), v)
		}
	case wit.F64:
		if f, ok := v.(float64); ok {
			return jsonFloat(f, v)
		}
	case *wit.TypeDef:
		return kindToJSON(t.Kind, v)
	}
	return v
}

func kindToJSON(kind wit.TypeDefKind, v any) any {
	switch k := kind.(type) {
	case *wit.Record:
		if m, ok := v.(map[string]any); ok {
			for _, f := range k.Fields {
				m[f.Name] = toJSON(f.Type, m[f.Name])
			}
		}
	case *wit.List:
		if b, ok := v.([]byte); ok {
			out := make([]int, len(b))
			for i, x := range b {
				out[i] = int(x)
			}
			return out
		}
		if s, ok := v.([]any); ok {
			for i := range s {
				s[i] = toJSON(k.Type, s[i])
			}
		}
	case *wit.Tuple:
		if s, ok := v.([]any); ok && len(s) == len(k.Types) {
			for i := range s {
				s[i] = toJSON(k.Types[i], s[i])
			}
		}
	case *wit.Option:
		if v != nil {
			return toJSON(k.Type, v)
		}
	case *wit.Result:
		if m, ok := v.(map[string]any); ok {
			if x, ok := m["ok"]; ok {
				m["ok"] = toJSON(k.OK, x)
			}
			if x, ok := m["err"]; ok {
				m["err"] = toJSON(k.Err, x)
			}
		}
	case *wit.Variant:
		if m, ok := v.(map[string]any); ok {
			for _, c := range k.Cases {
				if x, ok := m[c.Name]; ok {
					m[c.Name] = toJSON(c.Type, x)
				}
			}
		}
	case *wit.Enum:
		if i, ok := v.(uint32); ok && int(i) < len(k.Cases) {
			return k.Cases[i].Name
		}
	case *wit.Flags:
		if bits, ok := v.(uint64); ok {
			out := make(map[string]bool, len(k.Flags))
			for i, f := range k.Flags {
				out[f.Name] = bits&(1<<uint(i)) != 0
			}
			return out
		}
	case wit.Type:
		return toJSON(k, v)
	}
	return v
}

// jsonFloat spells out values JSON has no literal for.
func jsonFloat(f float64, v any) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return v
}
