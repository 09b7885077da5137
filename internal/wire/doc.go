// Package wire implements the scalar layer of the varcodec format.
//
// Writer appends to an owned buffer; Reader walks a borrowed input and hands
// out sub-slices of it without copying. Integers go through the varint
// package, floats are big-endian IEEE-754 bit patterns, and strings and byte
// sequences carry an unsigned varint length prefix.
package wire
