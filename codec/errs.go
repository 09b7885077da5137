package codec

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/varcodec/errors"
)

// annotate prepends path segments to err, converting foreign errors into
// message errors first so the segments have somewhere to live.
func annotate(phase errors.Phase, err error, segments ...string) error {
	return asError(phase, err).Prepend(segments...)
}

func asError(phase errors.Phase, err error) *errors.Error {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return errors.Message(phase, err)
	}
	// Sentinels and error values returned by user code may be shared;
	// annotate a copy.
	c := e.Clone()
	if c.Phase == "" {
		c.Phase = phase
	}
	return c
}

// topLevel guarantees that every error leaving the package is an *errors.Error.
func topLevel(phase errors.Phase, err error) error {
	return asError(phase, err)
}

func indexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

func entrySegment(i int) string {
	return "{" + strconv.Itoa(i) + "}"
}

func positionSegment(i int) string {
	return "#" + strconv.Itoa(i)
}

func variantSegment(index uint32) string {
	return "variant(" + strconv.FormatUint(uint64(index), 10) + ")"
}

func fieldSegment(name string, i int) string {
	if name == "" {
		return positionSegment(i)
	}
	return name
}

func zapKind(err error) zap.Field {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return zap.String("kind", string(e.Kind))
	}
	return zap.Skip()
}

func zapOffset(offset int) zap.Field {
	return zap.Int("offset", offset)
}

func zapDepth(limit int) zap.Field {
	return zap.Int("max_depth", limit)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
