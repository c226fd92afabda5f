package parse

import (
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/lexer"
)

// Breaker decides whether the next unconsumed token must terminate the
// current group and return control to the caller. Breakers compose by
// stacking: an inner parser inherits every outer breaker plus its own, so a
// token that would terminate any ancestor also terminates the innermost
// group.
type Breaker interface {
	ShouldBreak(tok lexer.Token) bool
}

// KwargBreaker matches a bare word (case-insensitive) from a fixed keyword
// or flag vocabulary of an enclosing scope.
type KwargBreaker struct {
	words map[string]struct{}
}

// NewKwargBreaker builds a breaker over the given (already normalized or
// not) word vocabulary.
func NewKwargBreaker(words ...string) KwargBreaker {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToUpper(w)] = struct{}{}
	}
	return KwargBreaker{words: set}
}

// ShouldBreak implements Breaker
func (b KwargBreaker) ShouldBreak(tok lexer.Token) bool {
	word := normalizedWord(tok)
	if word == "" {
		return false
	}
	_, ok := b.words[word]
	return ok
}

// ParenBreaker matches the right parenthesis that closes the current group
type ParenBreaker struct{}

// ShouldBreak implements Breaker
func (ParenBreaker) ShouldBreak(tok lexer.Token) bool {
	return tok.Type == lexer.RPAREN
}

// shouldBreak reports whether any breaker on the stack matches the token
func shouldBreak(tok lexer.Token, breakstack []Breaker) bool {
	for _, b := range breakstack {
		if b.ShouldBreak(tok) {
			return true
		}
	}
	return false
}

// extend returns a new breakstack with b pushed on top. The input stack is
// copied so sibling parsers never observe each other's breakers.
func extend(breakstack []Breaker, b Breaker) []Breaker {
	out := make([]Breaker, len(breakstack), len(breakstack)+1)
	copy(out, breakstack)
	return append(out, b)
}

// normalizedWord returns the case-folded spelling of a token that can act
// as a keyword or flag, or "" for any other token kind.
func normalizedWord(tok lexer.Token) string {
	if tok.Type != lexer.WORD && tok.Type != lexer.UNQUOTED_LITERAL {
		return ""
	}
	return strings.ToUpper(string(tok.Text))
}
