package coerce

import (
	"math"
	"reflect"
)

// Uint converts an integer, or a float holding an integral value (as JSON
// decoding produces), to uint64. It fails for negative values, for values
// above max and for non-numeric input.
func Uint(value any, max uint64) (uint64, bool) {
	var v uint64
	switch n := value.(type) {
	case uint8:
		v = uint64(n)
	case uint16:
		v = uint64(n)
	case uint32:
		v = uint64(n)
	case uint64:
		v = n
	case uint:
		v = uint64(n)
	case int8, int16, int32, int64, int:
		i := reflect.ValueOf(n).Int()
		if i < 0 {
			return 0, false
		}
		v = uint64(i)
	case float32:
		return floatToUint(float64(n), max)
	case float64:
		return floatToUint(n, max)
	default:
		return 0, false
	}
	if v > max {
		return 0, false
	}
	return v, true
}

// Int converts an integer, or a float holding an integral value, to int64.
// It fails for values outside [min, max] and for non-numeric input.
func Int(value any, min, max int64) (int64, bool) {
	var v int64
	switch n := value.(type) {
	case int8:
		v = int64(n)
	case int16:
		v = int64(n)
	case int32:
		v = int64(n)
	case int64:
		v = n
	case int:
		v = int64(n)
	case uint8, uint16, uint32, uint64, uint:
		u := reflect.ValueOf(n).Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		v = int64(u)
	case float32:
		return floatToInt(float64(n), min, max)
	case float64:
		return floatToInt(n, min, max)
	default:
		return 0, false
	}
	if v < min || v > max {
		return 0, false
	}
	return v, true
}

// Float converts any numeric value to float64. Integers that float64
// cannot represent exactly are rounded.
func Float(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int8, int16, int32, int64, int:
		return float64(reflect.ValueOf(n).Int()), true
	case uint8, uint16, uint32, uint64, uint:
		return float64(reflect.ValueOf(n).Uint()), true
	}
	return 0, false
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

func floatToUint(f float64, max uint64) (uint64, bool) {
	// 1<<64 is exact in float64; anything at or above it does not fit.
	if f < 0 || f >= 1<<64 || f != math.Trunc(f) {
		return 0, false
	}
	v := uint64(f)
	if v > max {
		return 0, false
	}
	return v, true
}

func floatToInt(f float64, min, max int64) (int64, bool) {
	if f < -1<<63 || f >= 1<<63 || f != math.Trunc(f) {
		return 0, false
	}
	v := int64(f)
	if v < min || v > max {
		return 0, false
	}
	return v, true
}
