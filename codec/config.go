package codec

import "github.com/wippyai/varcodec/errors"

// Default safety limits for untrusted input.
const (
	DefaultMaxDepth  = 256
	DefaultMaxLength = 1 << 27
)

// Config holds the limits and decode mode shared by an Encoder/Decoder pair.
// The zero value disables every limit and borrows decoded payloads.
type Config struct {
	// MaxDepth bounds container nesting on both encode and decode.
	// 0 disables the check.
	MaxDepth int

	// MaxLength bounds every decoded length prefix (sequence, map, string
	// and byte payloads). 0 disables the check.
	MaxLength uint64

	// CopyPayloads makes the Decoder return owned copies of strings and
	// byte payloads instead of views into the input.
	CopyPayloads bool
}

// DefaultConfig returns the configuration used by the package-level
// Marshal and Unmarshal.
func DefaultConfig() Config {
	return Config{
		MaxDepth:  DefaultMaxDepth,
		MaxLength: DefaultMaxLength,
	}
}

// NewEncoder creates an Encoder that appends to buf.
func (c Config) NewEncoder(buf []byte) *Encoder {
	return newEncoder(c, buf)
}

// NewDecoder creates a Decoder over data. Borrowed results alias data.
func (c Config) NewDecoder(data []byte) *Decoder {
	return newDecoder(c, data)
}

// Marshal encodes v into a freshly allocated buffer.
func (c Config) Marshal(v Encodable) ([]byte, error) {
	return c.Append(nil, v)
}

// Append encodes v at the end of dst and returns the extended buffer.
// On error dst is returned unchanged.
func (c Config) Append(dst []byte, v Encodable) ([]byte, error) {
	e := c.NewEncoder(dst)
	if err := e.encode(v); err != nil {
		return dst, topLevel(errors.PhaseEncode, err)
	}
	return e.Bytes(), nil
}

// Unmarshal decodes data into v. Bytes after the value are ignored.
func (c Config) Unmarshal(data []byte, v Decodable) error {
	d := c.NewDecoder(data)
	if err := d.decode(v); err != nil {
		err = topLevel(errors.PhaseDecode, err)
		Logger().Debug("decode failed",
			zapKind(err),
			zapOffset(d.Offset()),
		)
		return err
	}
	if d.Offset() < len(data) {
		debugf("unmarshal left %d trailing bytes", len(data)-d.Offset())
	}
	return nil
}

// Marshal encodes v with DefaultConfig.
func Marshal(v Encodable) ([]byte, error) {
	return DefaultConfig().Marshal(v)
}

// Append encodes v at the end of dst with DefaultConfig.
func Append(dst []byte, v Encodable) ([]byte, error) {
	return DefaultConfig().Append(dst, v)
}

// Unmarshal decodes data into v with DefaultConfig.
func Unmarshal(data []byte, v Decodable) error {
	return DefaultConfig().Unmarshal(data, v)
}
