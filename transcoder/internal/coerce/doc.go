// Package coerce converts loosely typed numeric values, such as the float64
// numbers produced by JSON decoding, to the exact widths a schema asks for.
//
// This package is internal to the transcoder.
package coerce
