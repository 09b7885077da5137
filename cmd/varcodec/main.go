package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/varcodec"
	"github.com/wippyai/varcodec/codec"
	"github.com/wippyai/varcodec/internal/witexpr"
)

const usage = `Usage: varcodec <command> [flags] [input]

Commands:
  encode  -t TYPE [JSON]   encode a JSON value (argument or stdin) and print hex
  decode  -t TYPE [HEX]    decode hex (argument or stdin) and print JSON
  varint  [-s] N...        print the varint encoding of each number
  inspect -t TYPE [HEX]    decode interactively while typing hex

TYPE is a WIT type expression, for example:
  "record { id: u64, tags: list<string>, owner: option<string> }"

Run "varcodec <command> -h" for the flags of a command.
`

var errUsage = errors.New("invalid usage")

type options struct {
	typeExpr  string
	maxLength uint64
	maxDepth  int
	raw       bool
	copy      bool
	signed    bool
	verbose   bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	case "encode", "decode", "varint", "inspect":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}

	var opts options
	fs := newFlagSet(cmd, &opts, stderr)
	if err := fs.Parse(rest); err != nil {
		return err
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	varcodec.SetLogger(logger)

	if cmd == "varint" {
		return varintCmd(fs.Args(), opts.signed, stdout)
	}

	if opts.typeExpr == "" {
		fmt.Fprintf(stderr, "%s: missing --type\n\n", cmd)
		fs.PrintDefaults()
		return errUsage
	}
	t, err := witexpr.Parse(opts.typeExpr)
	if err != nil {
		return fmt.Errorf("parse type: %w", err)
	}

	cfg := codec.Config{
		MaxDepth:     opts.maxDepth,
		MaxLength:    opts.maxLength,
		CopyPayloads: opts.copy,
	}
	c := varcodec.New(cfg)

	switch cmd {
	case "encode":
		return encodeCmd(c, t, fs.Args(), stdin, stdout, opts.raw)
	case "decode":
		return decodeCmd(c, t, fs.Args(), stdin, stdout, opts.raw)
	default:
		return inspectCmd(cfg, t, fs.Args())
	}
}

func newFlagSet(cmd string, opts *options, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log codec activity to stderr")

	if cmd == "varint" {
		fs.BoolVarP(&opts.signed, "signed", "s", false, "use the signed encoding")
		return fs
	}

	fs.StringVarP(&opts.typeExpr, "type", "t", "", "WIT type expression describing the value")
	fs.IntVar(&opts.maxDepth, "max-depth", codec.DefaultMaxDepth, "container nesting limit, 0 disables")
	fs.Uint64Var(&opts.maxLength, "max-length", codec.DefaultMaxLength, "length prefix limit, 0 disables")
	switch cmd {
	case "encode":
		fs.BoolVar(&opts.raw, "raw", false, "write binary output instead of hex")
	case "decode":
		fs.BoolVar(&opts.raw, "raw", false, "read binary input instead of hex")
		fs.BoolVar(&opts.copy, "copy", false, "copy decoded payloads out of the input buffer")
	}
	return fs
}

// typeString renders t back as a WIT type expression.
func typeString(t wit.Type) string {
	switch v := t.(type) {
	case nil:
		return "_"
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return kindString(v.Kind)
	default:
		return fmt.Sprintf("%T", t)
	}
}

func kindString(kind wit.TypeDefKind) string {
	switch k := kind.(type) {
	case *wit.List:
		return "list<" + typeString(k.Type) + ">"
	case *wit.Option:
		return "option<" + typeString(k.Type) + ">"
	case *wit.Tuple:
		return "tuple<" + joinTypes(k.Types) + ">"
	case *wit.Result:
		switch {
		case k.OK == nil && k.Err == nil:
			return "result"
		case k.Err == nil:
			return "result<" + typeString(k.OK) + ">"
		default:
			return "result<" + typeString(k.OK) + ", " + typeString(k.Err) + ">"
		}
	case *wit.Record:
		parts := make([]string, len(k.Fields))
		for i, f := range k.Fields {
			parts[i] = f.Name + ": " + typeString(f.Type)
		}
		return body("record", parts)
	case *wit.Variant:
		parts := make([]string, len(k.Cases))
		for i, c := range k.Cases {
			parts[i] = c.Name
			if c.Type != nil {
				parts[i] += "(" + typeString(c.Type) + ")"
			}
		}
		return body("variant", parts)
	case *wit.Enum:
		parts := make([]string, len(k.Cases))
		for i, c := range k.Cases {
			parts[i] = c.Name
		}
		return body("enum", parts)
	case *wit.Flags:
		parts := make([]string, len(k.Flags))
		for i, f := range k.Flags {
			parts[i] = f.Name
		}
		return body("flags", parts)
	case wit.Type:
		return typeString(k)
	}
	return fmt.Sprintf("%T", kind)
}

func joinTypes(types []wit.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = typeString(t)
	}
	return strings.Join(parts, ", ")
}

func body(keyword string, parts []string) string {
	return keyword + " { " + strings.Join(parts, ", ") + " }"
}
