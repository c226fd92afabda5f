// Package lexer tokenizes cmake listfiles. Every byte of the input ends up
// in exactly one token, so the token stream can reproduce the source exactly.
package lexer

import (
	"bytes"
	"strings"
)

// ASCII character lookup tables for fast classification
var (
	isSpace    [128]bool // blank characters, excluding newlines
	isDigit    [128]bool
	isWordChar [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isSpace[i] = ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v'
		isDigit[i] = '0' <= ch && ch <= '9'
		isWordChar[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') ||
			isDigit[i] || ch == '_'
	}
}

// Lexer scans a cmake listfile into tokens
type Lexer struct {
	input  []byte
	pos    int // byte offset of the next unread character
	line   int // 1-based line of the next unread character
	column int // 1-based column of the next unread character
}

// New creates a Lexer over the given source bytes
func New(source []byte) *Lexer {
	return &Lexer{input: source, line: 1, column: 1}
}

// Tokenize scans the entire source and returns the token stream, terminated
// by an EOF token. The concatenated Text of all tokens equals the source.
func Tokenize(source []byte) []Token {
	l := New(source)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// Next returns the next token in the stream
func (l *Lexer) Next() Token {
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Position: l.position()}
	}

	ch := l.input[l.pos]
	switch {
	case ch == '\n' || (ch == '\r' && l.peekAt(1) == '\n'):
		return l.scanNewline()
	case ch < 128 && isSpace[ch]:
		return l.scanWhitespace()
	case ch == '(':
		return l.emit(LPAREN, l.pos+1)
	case ch == ')':
		return l.emit(RPAREN, l.pos+1)
	case ch == '#':
		return l.scanComment()
	case ch == '"':
		return l.scanQuoted()
	default:
		if open := bracketOpenLen(l.input[l.pos:]); open > 0 {
			return l.scanBracketArgument(open)
		}
		return l.scanArgumentRun()
	}
}

// position returns the source position of the next unread character
func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// emit produces a token of the given type spanning [l.pos, end) and
// advances the cursor, updating line/column bookkeeping.
func (l *Lexer) emit(typ TokenType, end int) Token {
	tok := Token{Type: typ, Text: l.input[l.pos:end], Position: l.position()}
	for l.pos < end {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
	return tok
}

func (l *Lexer) scanNewline() Token {
	end := l.pos + 1
	if l.input[l.pos] == '\r' {
		end++ // \r\n
	}
	return l.emit(NEWLINE, end)
}

func (l *Lexer) scanWhitespace() Token {
	end := l.pos
	for end < len(l.input) && l.input[end] < 128 && isSpace[l.input[end]] {
		end++
	}
	return l.emit(WHITESPACE, end)
}

// scanComment scans a line comment, a bracket comment, or one of the
// formatter directive comments ("# cmkfmt: off" / "# cmkfmt: on").
func (l *Lexer) scanComment() Token {
	if open := bracketOpenLen(l.input[l.pos+1:]); open > 0 {
		if end, ok := bracketClose(l.input, l.pos+1+open, open); ok {
			return l.emit(BRACKET_COMMENT, end)
		}
		// Unterminated bracket comment swallows the rest of the file,
		// which is also what cmake does.
		return l.emit(BRACKET_COMMENT, len(l.input))
	}

	end := l.pos
	for end < len(l.input) && l.input[end] != '\n' {
		if l.input[end] == '\r' && end+1 < len(l.input) && l.input[end+1] == '\n' {
			break
		}
		end++
	}

	typ := COMMENT
	switch directive(l.input[l.pos:end]) {
	case "off":
		typ = FORMAT_OFF
	case "on":
		typ = FORMAT_ON
	}
	return l.emit(typ, end)
}

// scanQuoted scans a double-quoted argument; cmake has no other quote
// character. Backslash escapes the next character; quoted arguments may span
// multiple lines.
func (l *Lexer) scanQuoted() Token {
	end := l.pos + 1
	for end < len(l.input) {
		switch l.input[end] {
		case '\\':
			end += 2
			continue
		case '"':
			return l.emit(STRING, end+1)
		}
		end++
	}
	// Unterminated string: emit what we have as ILLEGAL so the caller can
	// point at the opening quote.
	return l.emit(ILLEGAL, len(l.input))
}

func (l *Lexer) scanBracketArgument(open int) Token {
	if end, ok := bracketClose(l.input, l.pos+open, open); ok {
		return l.emit(BRACKET_ARGUMENT, end)
	}
	return l.emit(ILLEGAL, len(l.input))
}

// scanArgumentRun scans a maximal run of characters that are not blanks,
// newlines, or parentheses, then classifies the whole run.
func (l *Lexer) scanArgumentRun() Token {
	end := l.pos
	for end < len(l.input) {
		ch := l.input[end]
		if ch == '(' || ch == ')' || ch == '\n' || (ch < 128 && isSpace[ch]) {
			break
		}
		if ch == '\r' && end+1 < len(l.input) && l.input[end+1] == '\n' {
			break
		}
		end++
	}
	return l.emit(classifyRun(l.input[l.pos:end]), end)
}

// classifyRun assigns WORD/NUMBER/DEREF to runs with the matching shape and
// UNQUOTED_LITERAL to everything else.
func classifyRun(run []byte) TokenType {
	switch {
	case isNumber(run):
		return NUMBER
	case isDeref(run):
		return DEREF
	case isWord(run):
		return WORD
	default:
		return UNQUOTED_LITERAL
	}
}

func isNumber(run []byte) bool {
	if len(run) > 0 && (run[0] == '-' || run[0] == '+') {
		run = run[1:]
	}
	if len(run) == 0 {
		return false
	}
	for _, ch := range run {
		if ch >= 128 || !isDigit[ch] {
			return false
		}
	}
	return true
}

func isDeref(run []byte) bool {
	if len(run) < 4 || run[0] != '$' || run[1] != '{' || run[len(run)-1] != '}' {
		return false
	}
	for _, ch := range run[2 : len(run)-1] {
		if ch >= 128 || !isWordChar[ch] {
			return false
		}
	}
	return true
}

func isWord(run []byte) bool {
	if len(run) == 0 || (run[0] < 128 && isDigit[run[0]]) {
		return false
	}
	for _, ch := range run {
		if ch >= 128 || !isWordChar[ch] {
			return false
		}
	}
	return true
}

// bracketOpenLen returns the length of a bracket opener "[=*[" at the start
// of the slice, or zero if there is none.
func bracketOpenLen(s []byte) int {
	if len(s) == 0 || s[0] != '[' {
		return 0
	}
	i := 1
	for i < len(s) && s[i] == '=' {
		i++
	}
	if i < len(s) && s[i] == '[' {
		return i + 1
	}
	return 0
}

// bracketClose finds the end offset (exclusive) of the matching "]=*]"
// closer for an opener of the given length starting at from.
func bracketClose(input []byte, from, openLen int) (int, bool) {
	closer := append(append([]byte("]"), bytes.Repeat([]byte("="), openLen-2)...), ']')
	idx := bytes.Index(input[from:], closer)
	if idx < 0 {
		return 0, false
	}
	return from + idx + len(closer), true
}

// directive extracts the formatter directive from a line comment, e.g.
// "# cmkfmt: off" yields "off". Returns "" for ordinary comments.
func directive(comment []byte) string {
	text := strings.TrimLeft(string(comment), "#")
	text = strings.TrimSpace(text)
	rest, ok := strings.CutPrefix(text, "cmkfmt:")
	if !ok {
		return ""
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Directive is the exported form of directive, used by the parser to detect
// sortable/unsortable annotations on positional groups.
func Directive(tok Token) string {
	if tok.Type != COMMENT && tok.Type != FORMAT_OFF && tok.Type != FORMAT_ON {
		return ""
	}
	return directive(tok.Text)
}
