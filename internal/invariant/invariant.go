// Package invariant provides contract assertions for the parser and
// formatter internals.
//
// All functions panic on violation. A violated contract is a programming
// error in this codebase (a parser loop that stopped making progress, a
// node builder dispatched at the wrong token), never a problem with the
// user's input.
package invariant

import "fmt"

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
// Use this for loop progress checks and state consistency.
//
//	before := stream.Remaining()
//	subtree := parseGroup(ctx, stream, ...)
//	invariant.Invariant(stream.Remaining() < before, "parsed an empty subtree")
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

func fail(kind, format string, args ...interface{}) {
	panic(fmt.Sprintf("%s VIOLATION: %s", kind, fmt.Sprintf(format, args...)))
}
