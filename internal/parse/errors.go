package parse

import (
	"fmt"
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/lexer"
)

// ParseError is a fatal parse error. It aborts the parse of the current
// file; there is no partial-tree recovery.
type ParseError struct {
	// Location
	Position lexer.Position

	// Core error info
	Message string // clear, specific: "unmatched parenthesis"
	Context string // what we were parsing: "parenthetical group"

	// What went wrong
	Expected []lexer.TokenType // what tokens would be valid here
	Got      lexer.TokenType   // what we found instead

	// How to fix it
	Suggestion string // actionable fix: "add ')' to close the group"
	Example    string // valid syntax: "if(FOO AND (BAR OR BAZ))"
}

// Error implements the error interface
func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&sb, " while parsing %s", e.Context)
	}
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, t := range e.Expected {
			names[i] = t.String()
		}
		fmt.Fprintf(&sb, " (expected %s, got %s)", strings.Join(names, " or "), e.Got)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "\n  suggestion: %s", e.Suggestion)
	}
	if e.Example != "" {
		fmt.Fprintf(&sb, "\n  example: %s", e.Example)
	}
	return sb.String()
}

// raise aborts the current parse with a fatal error. The panic is recovered
// at the Parse entry points and surfaced as an ordinary error return.
func raise(err *ParseError) {
	panic(err)
}

// raiseEmptySubtree aborts the parse when a dispatched sub-parser consumed
// zero tokens. With a well-formed grammar table this cannot happen; letting
// the loop continue would never terminate, so it is fatal rather than a
// diagnostic.
func raiseEmptySubtree(tok lexer.Token) {
	raise(&ParseError{
		Position: tok.Position,
		Message:  "internal: argument dispatch consumed no tokens",
		Context:  "argument tree",
		Got:      tok.Type,
		Suggestion: "this indicates a defective command grammar; " +
			"check any additional_commands overrides",
	})
}
