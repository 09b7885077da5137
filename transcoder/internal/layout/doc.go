// Package layout computes wire sizes for WIT types.
//
// Decoders use the minimum size to reject a length prefix the remaining
// input cannot satisfy before allocating for it. Encoders use fixed sizes to
// grow the output buffer once for a whole list.
//
// # Size Rules
//   - bool, u8, s8: 1 byte; f32: 4; f64: 8
//   - other integers, char, string, list, option, flags: at least 1 byte
//   - records and tuples: sum of their members
//   - variants and results: 1-byte index plus the smallest payload
//
// This package is internal to the transcoder.
package layout
