// Package varint implements the variable-length integer format shared by
// lengths, variant indices and integer scalars.
//
// Values are split into 7-bit groups transmitted most significant group
// first. Every byte except the last has the continuation bit (0x80) set:
//
//	unsigned 40000  → 82 B8 40
//
// Signed values reserve bit 0x40 of the first byte as a sign flag, so the
// first byte holds only 6 magnitude bits:
//
//	signed -42      → 6A
//	signed 9001     → 80 C6 29
//	signed MinInt64 → C1 80 80 80 80 80 80 80 80 00
//
// Decoders take an upper bound so 16- and 32-bit targets share the 64-bit
// path; magnitudes beyond the bound fail with an integer overflow error.
package varint
