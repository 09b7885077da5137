package varcodec_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/varcodec"
	"github.com/wippyai/varcodec/codec"
	varcodecerrors "github.com/wippyai/varcodec/errors"
)

type Point struct {
	X uint16
	Y int32
}

type Event interface{ isEvent() }

type (
	Opened struct{ At uint64 }
	Closed struct{}
)

func (Opened) isEvent() {}
func (Closed) isEvent() {}

type Log struct {
	Entries []Event
}

func TestMarshal(t *testing.T) {
	data, err := varcodec.Marshal(Point{X: 300, Y: -42})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := []byte{0x82, 0x2c, 0x6a}
	if !bytes.Equal(data, want) {
		t.Errorf("Marshal = % x, want % x", data, want)
	}

	var p Point
	if err := varcodec.Unmarshal(data, &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p != (Point{X: 300, Y: -42}) {
		t.Errorf("Unmarshal = %+v", p)
	}
}

func TestCodec_Append(t *testing.T) {
	c := varcodec.New(codec.DefaultConfig())
	buf, err := c.Append([]byte{0xff}, uint32(300))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if want := []byte{0xff, 0x82, 0x2c}; !bytes.Equal(buf, want) {
		t.Errorf("Append = % x, want % x", buf, want)
	}
}

func TestCodec_UnionsAreScoped(t *testing.T) {
	registered := varcodec.New(codec.DefaultConfig())
	if err := registered.RegisterUnion((*Event)(nil), Opened{}, Closed{}); err != nil {
		t.Fatalf("RegisterUnion failed: %v", err)
	}

	in := Log{Entries: []Event{Opened{At: 5}, Closed{}}}
	data, err := registered.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	// count 2, variant 0 {At: 5}, variant 1
	if want := []byte{0x02, 0x00, 0x05, 0x01}; !bytes.Equal(data, want) {
		t.Errorf("Marshal = % x, want % x", data, want)
	}

	var out Log
	if err := registered.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	other := varcodec.New(codec.DefaultConfig())
	if _, err := other.Marshal(in); !errors.Is(err, varcodecerrors.ErrTypeUnknown) {
		t.Errorf("unregistered union: got %v, want type_unknown", err)
	}
}

func TestCodec_Limits(t *testing.T) {
	strict := varcodec.New(codec.Config{MaxLength: 2})
	data, err := strict.Marshal([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out []string
	err = strict.Unmarshal(data, &out)
	if !errors.Is(err, varcodecerrors.ErrIntegerOverflow) {
		t.Fatalf("Unmarshal over limit: got %v, want integer_overflow", err)
	}
	if out != nil {
		t.Errorf("target should be untouched, got %v", out)
	}

	if err := varcodec.Unmarshal(data, &out); err != nil {
		t.Fatalf("default limits should accept 3 elements: %v", err)
	}
	if got := strict.Config().MaxLength; got != 2 {
		t.Errorf("Config().MaxLength = %d, want 2", got)
	}
}

func TestMarshalValue(t *testing.T) {
	typ := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "id", Type: wit.U64{}},
		{Name: "tags", Type: &wit.TypeDef{Kind: &wit.List{Type: wit.String{}}}},
	}}}

	data, err := varcodec.MarshalValue(typ, map[string]any{
		"id":   float64(300),
		"tags": []any{"a"},
	})
	if err != nil {
		t.Fatalf("MarshalValue failed: %v", err)
	}
	want := []byte{0x82, 0x2c, 0x01, 0x01, 'a'}
	if !bytes.Equal(data, want) {
		t.Errorf("MarshalValue = % x, want % x", data, want)
	}

	got, err := varcodec.UnmarshalValue(data, typ)
	if err != nil {
		t.Fatalf("UnmarshalValue failed: %v", err)
	}
	wantValue := map[string]any{"id": uint64(300), "tags": []any{"a"}}
	if diff := cmp.Diff(wantValue, got); diff != "" {
		t.Errorf("UnmarshalValue mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalValue_Error(t *testing.T) {
	got, err := varcodec.UnmarshalValue([]byte{0x05, 'a'}, wit.String{})
	if !errors.Is(err, varcodecerrors.ErrValueTruncated) {
		t.Fatalf("got %v, want value_truncated", err)
	}
	if got != nil {
		t.Errorf("value on error = %v, want nil", got)
	}
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	varcodec.SetLogger(zap.New(core))
	t.Cleanup(func() { varcodec.SetLogger(zap.NewNop()) })

	c := varcodec.New(codec.DefaultConfig())
	if _, err := c.Marshal(Point{}); err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if logs.FilterMessage("compiled type").Len() == 0 {
		t.Error("expected a compiled type debug entry")
	}
}

func TestSetLogger_Nil(t *testing.T) {
	varcodec.SetLogger(nil)
	t.Cleanup(func() { varcodec.SetLogger(zap.NewNop()) })

	if _, err := varcodec.New(codec.DefaultConfig()).Marshal(Point{X: 1}); err != nil {
		t.Fatalf("Marshal after SetLogger(nil) failed: %v", err)
	}
}
