// Package errors provides structured error types for the varcodec module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: container path, Go type, expected wire shape,
// and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindIntegerOverflow).
//		Path("items", "[3]").
//		GoType("int16").
//		Detail("magnitude 40000 exceeds 32767").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(offset, 4, 2)
//	err := errors.TypeUnknown(errors.PhaseDecode, path, "interface {}")
//
// Every error kind has a phase-less sentinel, so callers can match on kind alone:
//
//	if errors.Is(err, varcodecerrors.ErrValueTruncated) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
