package transcoder_test

import (
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/varcodec/codec"
	"github.com/wippyai/varcodec/transcoder"
)

func BenchmarkMarshal_Document(b *testing.B) {
	c := newCompiler(b)
	doc := sampleDocument()
	if _, err := c.Marshal(doc); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Marshal(doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshal_Document(b *testing.B) {
	c := newCompiler(b)
	data, err := c.Marshal(sampleDocument())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var doc Document
		if err := c.Unmarshal(data, &doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshal_Floats(b *testing.B) {
	c := transcoder.NewCompiler()
	values := make([]float64, 1024)
	for i := range values {
		values[i] = float64(i) / 3
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Marshal(values); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeValue_Record(b *testing.B) {
	recordType := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "id", Type: wit.U64{}},
		{Name: "name", Type: wit.String{}},
		{Name: "score", Type: wit.F64{}},
	}}}
	value := map[string]any{"id": 42.0, "name": "bench", "score": 0.5}
	enc := codec.EncodeFunc(func(e *codec.Encoder) error {
		return transcoder.EncodeValue(e, recordType, value)
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Marshal(enc); err != nil {
			b.Fatal(err)
		}
	}
}
