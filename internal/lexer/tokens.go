package lexer

// TokenType classifies a lexical token in a cmake listfile
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Structure
	NEWLINE    // \n or \r\n
	WHITESPACE // spaces and tabs, never mixed with newlines
	LPAREN     // (
	RPAREN     // )

	// Comments
	COMMENT         // # line comment
	BRACKET_COMMENT // #[[ ... ]] or #[=[ ... ]=]
	FORMAT_OFF      // "# cmkfmt: off" directive comment
	FORMAT_ON       // "# cmkfmt: on" directive comment

	// Arguments
	WORD             // identifier-shaped argument: add_library, PUBLIC
	STRING           // "quoted argument" with backslash escapes
	BRACKET_ARGUMENT // [[ ... ]] or [=[ ... ]=]
	NUMBER           // 123, -7, +42
	DEREF            // ${variable}
	UNQUOTED_LITERAL // anything else up to whitespace or parens
)

// Token is an immutable lexical unit. Text is the exact source spelling;
// concatenating the Text of every token in a stream reproduces the input
// byte-for-byte.
type Token struct {
	Type     TokenType
	Text     []byte
	Position Position
}

// String returns the token text (for testing and debugging)
func (t Token) String() string {
	return string(t.Text)
}

// Position represents a position in the source code
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case NEWLINE:
		return "NEWLINE"
	case WHITESPACE:
		return "WHITESPACE"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case COMMENT:
		return "COMMENT"
	case BRACKET_COMMENT:
		return "BRACKET_COMMENT"
	case FORMAT_OFF:
		return "FORMAT_OFF"
	case FORMAT_ON:
		return "FORMAT_ON"
	case WORD:
		return "WORD"
	case STRING:
		return "STRING"
	case BRACKET_ARGUMENT:
		return "BRACKET_ARGUMENT"
	case NUMBER:
		return "NUMBER"
	case DEREF:
		return "DEREF"
	case UNQUOTED_LITERAL:
		return "UNQUOTED_LITERAL"
	default:
		return "UNKNOWN"
	}
}

// IsWhitespace reports whether the type is a whitespace or newline token.
// These are interleaved verbatim into the parse tree, never discarded.
func (t TokenType) IsWhitespace() bool {
	return t == WHITESPACE || t == NEWLINE
}

// IsComment reports whether the type is one of the comment token types
func (t TokenType) IsComment() bool {
	return t == COMMENT || t == BRACKET_COMMENT
}
