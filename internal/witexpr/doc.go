// Package witexpr parses inline WIT type expressions into
// go.bytecodealliance.org/wit types, so command-line tools can name a wire
// shape without a WIT package on disk.
//
//	list<tuple<string, s64>>
//	result<_, string>
//	record { id: u64, owner: option<string> }
//	variant { closed, moved(tuple<s32, s32>) }
//	enum { red, green, blue }
//	flags { read, write, exec }
//
// This package is internal to the module.
package witexpr
