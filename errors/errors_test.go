package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindTypeMismatch,
				Path:   []string{"user", "address", "zip"},
				GoType: "string",
				Shape:  "u32",
				Detail: "cannot convert",
			},
			contains: []string{"[decode]", "type_mismatch", "user.address.zip", "string", "u32", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindValueTruncated,
			},
			contains: []string{"[decode]", "value_truncated"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindMessage,
				Detail: "rejected",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[encode]", "message", "rejected", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Message(PhaseEncode, cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindIntegerOverflow,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindIntegerOverflow}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindIntegerOverflow}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindValueTruncated}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrIntegerOverflow) {
		t.Error("phase-less sentinel should match on kind")
	}
	if errors.Is(err, ErrValueTruncated) {
		t.Error("sentinel of another kind should not match")
	}
}

func TestError_Prepend(t *testing.T) {
	err := Truncated(4, 2, 1)
	err.Prepend("[1]")
	err.Prepend("items")

	if got := strings.Join(err.Path, "."); got != "items.[1]" {
		t.Errorf("Path = %q, want items.[1]", got)
	}
	if !strings.Contains(err.Error(), "at items.[1]") {
		t.Errorf("message %q should contain path", err.Error())
	}
}

func TestError_Clone(t *testing.T) {
	orig := Truncated(4, 2, 1)
	orig.Prepend("items")

	c := orig.Clone()
	c.Prepend("outer")

	if got := strings.Join(orig.Path, "."); got != "items" {
		t.Errorf("original Path = %q, want items", got)
	}
	if got := strings.Join(c.Path, "."); got != "outer.items" {
		t.Errorf("clone Path = %q, want outer.items", got)
	}
	if !errors.Is(c, orig) {
		t.Error("clone should match the original's phase and kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindTypeMismatch).
		Path("user", "name").
		GoType("string").
		Shape("u32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "int").
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.GoType != "string" {
		t.Errorf("GoType = %v, want 'string'", err.GoType)
	}
	if err.Shape != "u32" {
		t.Errorf("Shape = %v, want 'u32'", err.Shape)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got int" {
		t.Errorf("Detail = %v, want 'expected string, got int'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		want string
	}{
		{"Messagef", Messagef(PhaseEncode, "bad %s", "value"), KindMessage, "bad value"},
		{"Truncated", Truncated(7, 4, 2), KindValueTruncated, "offset 7"},
		{"LengthRequired", LengthRequired(nil, "seq"), KindLengthRequired, "unknown length"},
		{"TypeUnknown", TypeUnknown(PhaseDecode, nil, "interface {}"), KindTypeUnknown, "interface {}"},
		{"IdentifierUnknown", IdentifierUnknown(3), KindIdentifierUnknown, "offset 3"},
		{"Overflow", Overflow(PhaseDecode, nil, uint64(40000), "i16"), KindIntegerOverflow, "40000"},
		{"InvalidUTF8", InvalidUTF8(PhaseDecode, nil, []byte{0xff, 0xfe}), KindInvalidUTF8, "fffe"},
		{"InvalidRune", InvalidRune(PhaseEncode, nil, 0xD800), KindInvalidUTF8, "0xd800"},
		{"TypeMismatch", TypeMismatch(PhaseEncode, nil, "int", "string"), KindTypeMismatch, "Go type int"},
		{"InvalidVariant", InvalidVariant(PhaseDecode, nil, 5, 3), KindInvalidVariant, "index 5"},
		{"DepthExceeded", DepthExceeded(PhaseDecode, 8), KindDepthExceeded, "8 levels"},
		{"Unsupported", Unsupported(PhaseCompile, nil, "channels"), KindUnsupported, "channels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("message %q should contain %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestLargeUTF8Preview(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = 0xff
	}
	err := InvalidUTF8(PhaseDecode, nil, data)
	if strings.Count(err.Detail, "ff") != 32 {
		t.Errorf("preview should be limited to 32 bytes: %s", err.Detail)
	}
}
