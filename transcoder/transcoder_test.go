package transcoder_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wippyai/varcodec/codec"
	varcodecerrors "github.com/wippyai/varcodec/errors"
	"github.com/wippyai/varcodec/transcoder"
)

type Shape interface{ isShape() }

type (
	Circle   float64
	Rect     struct{ W, H int32 }
	Empty    struct{}
	triangle struct{}
)

func (Circle) isShape()   {}
func (Rect) isShape()     {}
func (Empty) isShape()    {}
func (triangle) isShape() {}

type Point struct {
	X uint16
	Y int32
}

type Holder struct {
	S Shape `varcodec:"shape"`
}

// Celsius stores tenths of a degree as a signed varint.
type Celsius float64

func (c Celsius) Encode(e *codec.Encoder) error {
	e.I32(int32(math.Round(float64(c) * 10)))
	return nil
}

func (c *Celsius) Decode(d *codec.Decoder) error {
	v, err := d.I32()
	if err != nil {
		return err
	}
	*c = Celsius(float64(v) / 10)
	return nil
}

type Document struct {
	ID      uint64
	Title   string `varcodec:"title"`
	Tags    []string
	Counts  map[string]int
	Parent  *uint32
	Body    []byte
	Sep     rune `varcodec:"sep,char"`
	Grid    [2][2]uint8
	Shape   Shape
	History []Shape
	Temp    Celsius
	Version codec.U32
	Flag    bool
	Ratio   float32
	Small   int8
	Cache   string `varcodec:"-"`
	hidden  int
}

func newCompiler(t testing.TB) *transcoder.Compiler {
	t.Helper()
	c := transcoder.NewCompiler()
	if err := c.RegisterUnion((*Shape)(nil), Circle(0), Rect{}, Empty{}); err != nil {
		t.Fatalf("RegisterUnion: %v", err)
	}
	return c
}

func sampleDocument() Document {
	parent := uint32(7)
	return Document{
		ID:      1 << 40,
		Title:   "varcodec",
		Tags:    []string{"binary", "compact"},
		Counts:  map[string]int{"reads": 300, "writes": -2},
		Parent:  &parent,
		Body:    []byte{0xde, 0xad, 0xbe, 0xef},
		Sep:     '→',
		Grid:    [2][2]uint8{{1, 2}, {3, 4}},
		Shape:   Rect{W: 2, H: 3},
		History: []Shape{Circle(1.5), Empty{}, Rect{W: -1, H: 1 << 20}},
		Temp:    21.5,
		Version: 3,
		Flag:    true,
		Ratio:   0.25,
		Small:   -128,
	}
}

func TestMarshalBytes(t *testing.T) {
	c := newCompiler(t)

	type glyph struct {
		R rune `varcodec:",char"`
	}
	type code struct{ R rune }
	type opt struct{ P *uint32 }
	seven := uint32(7)
	point := Point{X: 3, Y: -42}

	tests := []struct {
		name  string
		value any
		want  []byte
	}{
		{"struct", point, []byte{0x03, 0x6a}},
		{"pointer followed", &point, []byte{0x03, 0x6a}},
		{"bool", true, []byte{0x01}},
		{"string", "hi", []byte{0x02, 0x68, 0x69}},
		{"bytes", []byte{1, 2, 3}, []byte{0x03, 0x01, 0x02, 0x03}},
		{"seq", []uint16{1, 300}, []byte{0x02, 0x01, 0x82, 0x2c}},
		{"array", [2]uint8{7, 8}, []byte{0x07, 0x08}},
		{"sorted map", map[string]int{"b": 2, "a": 1}, []byte{0x02, 0x01, 0x61, 0x01, 0x01, 0x62, 0x02}},
		{"none", opt{}, []byte{0x00}},
		{"some", opt{P: &seven}, []byte{0x01, 0x07}},
		{"char tag", glyph{R: 'é'}, []byte{0xc3, 0xa9}},
		{"rune as i32", code{R: 'é'}, []byte{0x81, 0x69}},
		{"custom", Celsius(21.5), []byte{0x81, 0x57}},
		{"unit", struct{}{}, nil},
		{"newtype variant", Holder{S: Circle(1.5)}, []byte{0x00, 0x3f, 0xf8, 0, 0, 0, 0, 0, 0}},
		{"struct variant", Holder{S: Rect{W: 2, H: 3}}, []byte{0x01, 0x02, 0x03}},
		{"unit variant", Holder{S: Empty{}}, []byte{0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Marshal = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	c := newCompiler(t)
	want := sampleDocument()
	want.Cache = "not encoded"

	data, err := c.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Document
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want.Cache = ""
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(Document{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDeterministicEncoding(t *testing.T) {
	c := newCompiler(t)
	counts := map[string]int{}
	for i := range 50 {
		counts[strings.Repeat("k", i+1)] = i
	}
	doc := sampleDocument()
	doc.Counts = counts

	first, err := c.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := c.Marshal(doc)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("encoding changed between runs")
		}
	}
}

func TestNaNMapKeys(t *testing.T) {
	c := newCompiler(t)
	in := map[float64]int32{math.NaN(): 1, 2: 3}

	data, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// NaN sorts first; its value comes from the iterator, not a lookup.
	want := []byte{
		0x02,
		0x7f, 0xf8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x01,
		0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03,
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("Marshal = % x, want % x", data, want)
	}

	var out map[float64]int32
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 2 || out[2] != 3 {
		t.Fatalf("Unmarshal = %v", out)
	}
	for k, v := range out {
		if math.IsNaN(k) && v != 1 {
			t.Errorf("NaN entry = %d, want 1", v)
		}
	}
}

func TestUnionRoundTrip(t *testing.T) {
	c := newCompiler(t)
	want := []Shape{Circle(-0.5), Rect{W: 10, H: -10}, Empty{}}

	data, err := c.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got []Shape
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeReplacesContainers(t *testing.T) {
	c := newCompiler(t)

	type state struct {
		Items  []string
		Lookup map[uint8]bool
		Opt    *int64
	}
	stale := int64(9)
	got := state{
		Items:  []string{"old", "older"},
		Lookup: map[uint8]bool{1: true},
		Opt:    &stale,
	}

	// empty seq, empty map, none
	if err := c.Unmarshal([]byte{0x00, 0x00, 0x00}, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Items == nil || len(got.Items) != 0 {
		t.Errorf("Items = %#v, want empty non-nil slice", got.Items)
	}
	if got.Lookup == nil || len(got.Lookup) != 0 {
		t.Errorf("Lookup = %#v, want empty non-nil map", got.Lookup)
	}
	if got.Opt != nil {
		t.Errorf("Opt = %v, want nil", *got.Opt)
	}
}

func TestEncodeErrors(t *testing.T) {
	c := newCompiler(t)

	tests := []struct {
		name  string
		value any
		kind  *varcodecerrors.Error
		path  string
	}{
		{"nil", nil, varcodecerrors.ErrTypeUnknown, ""},
		{"nil pointer", (*Point)(nil), varcodecerrors.ErrTypeUnknown, ""},
		{"channel", make(chan int), varcodecerrors.ErrTypeUnknown, ""},
		{"unregistered variant", Holder{S: triangle{}}, varcodecerrors.ErrTypeMismatch, "shape"},
		{"nil union", Holder{}, varcodecerrors.ErrTypeUnknown, "shape"},
		{"invalid char", struct {
			R rune `varcodec:"r,char"`
		}{R: 0xD800}, varcodecerrors.ErrInvalidUTF8, "r"},
		{"nested path", map[string][]Holder{"k": {{S: Empty{}}, {S: triangle{}}}}, varcodecerrors.ErrTypeMismatch, "{0}.value.[1].shape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Marshal(tt.value)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("err = %v, want kind %s", err, tt.kind.Kind)
			}
			var e *varcodecerrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if got := strings.Join(e.Path, "."); got != tt.path {
				t.Errorf("Path = %q, want %q", got, tt.path)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	c := newCompiler(t)

	tests := []struct {
		name   string
		data   []byte
		target any
		kind   *varcodecerrors.Error
	}{
		{"not a pointer", []byte{0x00}, Point{}, varcodecerrors.ErrTypeMismatch},
		{"nil pointer", []byte{0x00}, (*Point)(nil), varcodecerrors.ErrTypeMismatch},
		{"unknown variant", []byte{0x05}, new(Holder), varcodecerrors.ErrInvalidVariant},
		{"length beyond input", []byte{0x8f, 0xff, 0xff, 0x7f}, new([]uint64), varcodecerrors.ErrValueTruncated},
		{"floats beyond input", []byte{0x02, 0, 0, 0, 0, 0, 0, 0, 0}, new([]float64), varcodecerrors.ErrValueTruncated},
		{"map beyond input", []byte{0x03, 0x01, 0x61}, new(map[string]bool), varcodecerrors.ErrValueTruncated},
		{"u16 overflow", []byte{0x84, 0x80, 0x00}, new(uint16), varcodecerrors.ErrIntegerOverflow},
		{"invalid utf8", []byte{0x01, 0xff}, new(string), varcodecerrors.ErrInvalidUTF8},
		{"truncated struct", []byte{0x03}, new(Point), varcodecerrors.ErrValueTruncated},
		{"unregistered interface", []byte{0x00}, new(any), varcodecerrors.ErrTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Unmarshal(tt.data, tt.target)
			if !errors.Is(err, tt.kind) {
				t.Errorf("err = %v, want kind %s", err, tt.kind.Kind)
			}
		})
	}
}

// strictByte rejects every decode with the same shared error value.
type strictByte uint8

var errStrict = varcodecerrors.Messagef(varcodecerrors.PhaseDecode, "strict")

func (b strictByte) Encode(e *codec.Encoder) error {
	e.U8(uint8(b))
	return nil
}

func (b *strictByte) Decode(*codec.Decoder) error {
	return errStrict
}

func TestDecodeErrorDoesNotMutateSharedError(t *testing.T) {
	c := newCompiler(t)
	data, err := c.Marshal(map[string]strictByte{"a": 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	for range 3 {
		var out map[string]strictByte
		err := c.Unmarshal(data, &out)
		var e *varcodecerrors.Error
		if !errors.As(err, &e) {
			t.Fatalf("expected *Error, got %v", err)
		}
		if got := strings.Join(e.Path, "."); got != "{0}.value" {
			t.Errorf("Path = %q, want {0}.value", got)
		}
	}
	if len(errStrict.Path) != 0 {
		t.Errorf("shared error gained path %v", errStrict.Path)
	}
}

func TestDecodeErrorPath(t *testing.T) {
	c := newCompiler(t)

	// tags has one valid string, then a string with an invalid byte
	var doc struct {
		ID   uint64
		Tags []string `varcodec:"tags"`
	}
	err := c.Unmarshal([]byte{0x01, 0x02, 0x01, 0x61, 0x01, 0xff}, &doc)
	var e *varcodecerrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %v", err)
	}
	if got := strings.Join(e.Path, "."); got != "tags.[1]" {
		t.Errorf("Path = %q, want tags.[1]", got)
	}
	if doc.Tags != nil {
		t.Errorf("Tags = %v, a failed sequence should not be stored", doc.Tags)
	}
}

func TestDepthLimit(t *testing.T) {
	type chain struct{ Next *chain }
	c := transcoder.NewCompiler()

	var head *chain
	for range 300 {
		head = &chain{Next: head}
	}
	if _, err := c.Marshal(head); !errors.Is(err, varcodecerrors.ErrDepthExceeded) {
		t.Errorf("Marshal err = %v, want depth_exceeded", err)
	}

	data := append(bytes.Repeat([]byte{0x01}, 300), 0x00)
	var got chain
	if err := c.Unmarshal(data, &got); !errors.Is(err, varcodecerrors.ErrDepthExceeded) {
		t.Errorf("Unmarshal err = %v, want depth_exceeded", err)
	}

	cfg := codec.DefaultConfig()
	cfg.MaxDepth = 0
	if err := cfg.Unmarshal(data, c.Target(&got)); err != nil {
		t.Errorf("Unmarshal without limit: %v", err)
	}
}

func TestBorrowedPayloads(t *testing.T) {
	c := transcoder.NewCompiler()
	type payload struct {
		S string
		B []byte
	}

	data := []byte{0x02, 'h', 'i', 0x01, 0x07}
	var borrowed payload
	if err := c.Unmarshal(data, &borrowed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	cfg := codec.DefaultConfig()
	cfg.CopyPayloads = true
	var copied payload
	if err := cfg.Unmarshal(data, c.Target(&copied)); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	data[4] = 0x09
	if borrowed.B[0] != 0x09 {
		t.Error("default decoding should borrow byte payloads from the input")
	}
	if copied.B[0] != 0x07 || copied.S != "hi" {
		t.Errorf("copied payload changed with the input: %+v", copied)
	}
}

func TestEncoderDecoderTypes(t *testing.T) {
	c := newCompiler(t)
	enc := transcoder.NewEncoderWithCompiler(c)
	dec := transcoder.NewDecoderWithCompiler(c)

	e := codec.NewEncoder(nil)
	if err := enc.Encode(e, Point{X: 1, Y: 2}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := enc.Encode(e, Holder{S: Empty{}}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d := codec.NewDecoder(e.Bytes())
	var p Point
	var h Holder
	if err := dec.Decode(d, &p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := dec.Decode(d, &h); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p != (Point{X: 1, Y: 2}) || h.S != (Empty{}) {
		t.Errorf("got %+v %+v", p, h)
	}
	if len(d.Remaining()) != 0 {
		t.Errorf("%d bytes left over", len(d.Remaining()))
	}
}

func TestMixedWithHandWrittenCodec(t *testing.T) {
	c := newCompiler(t)

	// reflection values compose with hand-written containers
	data, err := codec.Marshal(codec.EncodeFunc(func(e *codec.Encoder) error {
		return e.Tuple(codec.String("p"), c.Value(Point{X: 3, Y: -42}))
	}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := []byte{0x01, 0x70, 0x03, 0x6a}; !bytes.Equal(data, want) {
		t.Errorf("Marshal = % x, want % x", data, want)
	}

	var name codec.String
	var p Point
	err = codec.Unmarshal(data, codec.DecodeFunc(func(d *codec.Decoder) error {
		return d.Tuple(&name, c.Target(&p))
	}))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if name != "p" || p != (Point{X: 3, Y: -42}) {
		t.Errorf("got %q %+v", name, p)
	}
}
