package codec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wippyai/varcodec/codec"
)

func FuzzDecodeRecord(f *testing.F) {
	for _, r := range []Record{
		{Shape: ShapeBox{S: Empty{}}},
		{ID: 1, Name: "x", Tags: []string{"a"}, Attrs: map[string]int32{"k": -5}, Shape: ShapeBox{S: Rect{W: 1, H: 2}}},
		{Payload: []byte{1, 2, 3}, Shape: ShapeBox{S: Labeled{Text: "t", Size: 9}}, Initial: '😀'},
	} {
		data, err := codec.Marshal(r)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(data)
	}
	// Add truncated and malformed data
	f.Add([]byte{0x80})
	f.Add([]byte{0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0x0f})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		// Fuzzing should not panic
		var first Record
		if err := codec.Unmarshal(data, &first); err != nil {
			return
		}

		// Whatever decodes must re-encode to something that decodes the same.
		again, err := codec.Marshal(first)
		if err != nil {
			t.Fatalf("re-encode decoded record: %v", err)
		}
		var second Record
		if err := codec.Unmarshal(again, &second); err != nil {
			t.Fatalf("decode re-encoded record: %v", err)
		}
		if diff := cmp.Diff(first, second, cmpopts.EquateEmpty(), cmpopts.EquateNaNs()); diff != "" {
			t.Errorf("unstable round trip (-first +second):\n%s", diff)
		}
	})
}

func FuzzDecoderScalars(f *testing.F) {
	f.Add([]byte{0xc1, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00})
	f.Add([]byte{0xa0, 0xc6, 0xc9})
	f.Add([]byte{0xf0, 0x9f, 0x98, 0x80})

	f.Fuzz(func(t *testing.T, data []byte) {
		d := codec.NewDecoder(data)
		reads := []func() error{
			func() error {
				_, err := d.I16()
				return err
			},
			func() error {
				_, err := d.Char()
				return err
			},
			func() error {
				_, err := d.U64()
				return err
			},
			func() error {
				_, err := d.String()
				return err
			},
			func() error {
				_, err := d.F32()
				return err
			},
		}
		for _, read := range reads {
			before := d.Offset()
			if err := read(); err != nil {
				return
			}
			if d.Offset() <= before || d.Offset() > len(data) {
				t.Fatalf("offset moved from %d to %d (input %d bytes)", before, d.Offset(), len(data))
			}
		}
	})
}
