package parse

import (
	"github.com/cmkfmt/cmkfmt/internal/invariant"
	"github.com/cmkfmt/cmkfmt/internal/lexer"
)

// TokenStream is a destructive front-consumption cursor over an immutable
// token slice. Sub-parsers receive the stream by pointer: tokens consumed by
// a callee vanish for every caller, which is exactly the ownership transfer
// the recursive descent relies on.
type TokenStream struct {
	tokens []lexer.Token
	pos    int
}

// NewStream wraps a token slice. The slice must not be mutated afterwards.
func NewStream(tokens []lexer.Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// HasMore reports whether unconsumed tokens remain. The trailing EOF token
// does not count: a stream positioned at EOF is exhausted.
func (s *TokenStream) HasMore() bool {
	return s.pos < len(s.tokens) && s.tokens[s.pos].Type != lexer.EOF
}

// Peek returns the next unconsumed token without consuming it. At the end of
// the stream it returns the EOF token, whose position points one past the
// last byte of input.
func (s *TokenStream) Peek() lexer.Token {
	if s.pos < len(s.tokens) {
		return s.tokens[s.pos]
	}
	last := lexer.Position{Line: 1, Column: 1}
	if len(s.tokens) > 0 {
		last = s.tokens[len(s.tokens)-1].Position
	}
	return lexer.Token{Type: lexer.EOF, Position: last}
}

// PeekAt returns the token n places ahead of the cursor (Peek is PeekAt(0))
func (s *TokenStream) PeekAt(n int) lexer.Token {
	if s.pos+n < len(s.tokens) {
		return s.tokens[s.pos+n]
	}
	return lexer.Token{Type: lexer.EOF, Position: s.Peek().Position}
}

// Pop consumes and returns the next token
func (s *TokenStream) Pop() lexer.Token {
	invariant.Precondition(s.HasMore(), "pop from exhausted token stream")
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

// Remaining returns the number of unconsumed tokens. Used by callers to
// verify that a dispatched sub-parser made progress.
func (s *TokenStream) Remaining() int {
	return len(s.tokens) - s.pos
}
