package varcodec

import (
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/varcodec/codec"
	"github.com/wippyai/varcodec/transcoder"
)

// Codec pairs a codec configuration with a type compiler. Unions registered
// on one Codec are invisible to others. A Codec is safe for concurrent use.
type Codec struct {
	compiler *transcoder.Compiler
	cfg      codec.Config
}

// New creates a Codec with the given limits.
func New(cfg codec.Config) *Codec {
	return &Codec{
		compiler: transcoder.NewCompiler(),
		cfg:      cfg,
	}
}

// Config returns the limits the Codec was created with.
func (c *Codec) Config() codec.Config {
	return c.cfg
}

// RegisterUnion declares the concrete types that may be stored in an
// interface. iface must be a nil pointer to the interface, e.g.
// (*Shape)(nil). Variant indices follow argument order.
func (c *Codec) RegisterUnion(iface any, variants ...any) error {
	return c.compiler.RegisterUnion(iface, variants...)
}

// Marshal encodes v using its Go type as the schema.
func (c *Codec) Marshal(v any) ([]byte, error) {
	return c.cfg.Marshal(c.compiler.Value(v))
}

// Append encodes v at the end of dst.
func (c *Codec) Append(dst []byte, v any) ([]byte, error) {
	return c.cfg.Append(dst, c.compiler.Value(v))
}

// Unmarshal decodes data into the variable ptr points to.
func (c *Codec) Unmarshal(data []byte, ptr any) error {
	return c.cfg.Unmarshal(data, c.compiler.Target(ptr))
}

// MarshalValue encodes a dynamic value laid out by a WIT type.
func (c *Codec) MarshalValue(t wit.Type, v any) ([]byte, error) {
	return c.cfg.Marshal(transcoder.Dynamic(t, v))
}

// UnmarshalValue decodes one value laid out by a WIT type.
func (c *Codec) UnmarshalValue(data []byte, t wit.Type) (any, error) {
	var out any
	if err := c.cfg.Unmarshal(data, transcoder.DynamicTarget(t, &out)); err != nil {
		return nil, err
	}
	return out, nil
}

var std = New(codec.DefaultConfig())

// RegisterUnion registers a union on the package-level Codec.
func RegisterUnion(iface any, variants ...any) error {
	return std.RegisterUnion(iface, variants...)
}

// Marshal encodes v with the package-level Codec.
func Marshal(v any) ([]byte, error) {
	return std.Marshal(v)
}

// Unmarshal decodes data into ptr with the package-level Codec.
func Unmarshal(data []byte, ptr any) error {
	return std.Unmarshal(data, ptr)
}

// MarshalValue encodes a dynamic value with the package-level Codec.
func MarshalValue(t wit.Type, v any) ([]byte, error) {
	return std.MarshalValue(t, v)
}

// UnmarshalValue decodes a dynamic value with the package-level Codec.
func UnmarshalValue(data []byte, t wit.Type) (any, error) {
	return std.UnmarshalValue(data, t)
}

// SetLogger routes the codec and transcoder debug logs to l. A nil l
// silences both.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	codec.SetLogger(l)
	transcoder.SetLogger(l.Named("transcoder"))
}
