package parse

import (
	"github.com/cmkfmt/cmkfmt/internal/cmds"
	"github.com/cmkfmt/cmkfmt/internal/invariant"
	"github.com/cmkfmt/cmkfmt/internal/lexer"
)

// genericSpec is the fallback grammar for commands without a registered
// spec: any number of positional arguments, no keywords.
var genericSpec = cmds.Standard(cmds.ZeroOrMore, nil)

// Parse tokenizes the source and parses it into a BODY tree. Fatal parse
// errors (*ParseError) abort the parse and discard the partial tree.
func Parse(source []byte, ctx *Context) (*TreeNode, error) {
	return ParseTokens(lexer.Tokenize(source), ctx)
}

// ParseTokens parses a pre-lexed token stream. The stream must be whole: it
// is consumed front-to-back in a single pass.
func ParseTokens(tokens []lexer.Token, ctx *Context) (tree *TreeNode, err error) {
	if ctx == nil {
		ctx = NewContext(nil, nil)
	}
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*ParseError); ok {
				tree = nil
				err = perr
				return
			}
			panic(r)
		}
	}()
	ts := NewStream(tokens)
	tree = parseBody(ctx, ts)
	return tree, nil
}

// parseBody parses a whole listfile: statements, comments, blank runs, and
// verbatim format-off regions.
func parseBody(ctx *Context, ts *TokenStream) *TreeNode {
	tree := newNode(NodeBody)
	for ts.HasMore() {
		before := ts.Remaining()
		tok := ts.Peek()
		switch {
		case tok.Type.IsWhitespace():
			tree.appendToken(ts.Pop())
		case tok.Type == lexer.FORMAT_OFF:
			tree.appendNode(parseOnOff(ts))
		case tok.Type == lexer.FORMAT_ON:
			// A stray "on" directive with no matching "off" is just a comment
			tree.appendNode(consumeComment(ts))
		case tok.Type.IsComment():
			tree.appendNode(consumeComment(ts))
		case tok.Type == lexer.WORD:
			tree.appendNode(parseStatement(ctx, ts))
		default:
			raise(&ParseError{
				Position:   tok.Position,
				Message:    "expected a command name",
				Context:    "listfile body",
				Expected:   []lexer.TokenType{lexer.WORD},
				Got:        tok.Type,
				Suggestion: "statements have the form command_name(arguments)",
				Example:    "add_library(foo foo.cc)",
			})
		}
		invariant.Invariant(ts.Remaining() < before, "body parser made no progress at %v", ts.Peek().Position)
	}
	return tree
}

// parseStatement parses one command invocation: the name, the opening
// paren, the argument tree per the command's registered grammar, and the
// closing paren.
func parseStatement(ctx *Context, ts *TokenStream) *TreeNode {
	invariant.Precondition(ts.Peek().Type == lexer.WORD, "statement must start at a command name")

	tree := newNode(NodeStatement)
	funname := newNode(NodeFunName)
	nameTok := ts.Pop()
	funname.Token = &nameTok
	funname.appendToken(nameTok)
	tree.appendNode(funname)

	// cmake allows blanks between the name and the paren
	for ts.HasMore() && ts.Peek().Type == lexer.WHITESPACE {
		tree.appendToken(ts.Pop())
	}

	if got := ts.Peek(); got.Type != lexer.LPAREN {
		raise(&ParseError{
			Position:   got.Position,
			Message:    "missing opening parenthesis",
			Context:    "statement",
			Expected:   []lexer.TokenType{lexer.LPAREN},
			Got:        got.Type,
			Suggestion: "add '(' after the command name",
			Example:    "add_library(foo foo.cc)",
		})
	}
	lparen := newNode(NodeLParen)
	lparen.appendToken(ts.Pop())
	tree.appendNode(lparen)

	spec, ok := ctx.DB.Lookup(string(nameTok.Text))
	if !ok {
		spec = genericSpec
	}
	tree.appendNode(parseSpec(ctx, ts, spec, []Breaker{ParenBreaker{}}))

	if got := ts.Peek(); got.Type != lexer.RPAREN {
		raise(&ParseError{
			Position:   got.Position,
			Message:    "unmatched parenthesis",
			Context:    "statement " + string(nameTok.Text),
			Expected:   []lexer.TokenType{lexer.RPAREN},
			Got:        got.Type,
			Suggestion: "add ')' to close the statement",
			Example:    "add_library(foo foo.cc)",
		})
	}
	rparen := newNode(NodeRParen)
	rparen.appendToken(ts.Pop())
	tree.appendNode(rparen)

	consumeTrailingComment(ts, tree)
	return tree
}

// parseOnOff collects the verbatim region between a format-off directive
// and the next format-on directive (or end of input). Nothing inside is
// interpreted; the formatter emits the region byte-for-byte.
func parseOnOff(ts *TokenStream) *TreeNode {
	invariant.Precondition(ts.Peek().Type == lexer.FORMAT_OFF, "onoff region must start at a format-off directive")

	tree := newNode(NodeOnOff)
	tree.appendToken(ts.Pop())
	for ts.HasMore() {
		tok := ts.Pop()
		tree.appendToken(tok)
		if tok.Type == lexer.FORMAT_ON {
			break
		}
	}
	return tree
}

// ArgTree returns the argument tree of a statement node, or nil
func (n *TreeNode) ArgTree() *TreeNode {
	if n.Kind != NodeStatement {
		return nil
	}
	for _, c := range n.Children {
		if c.Node != nil && c.Node.Kind == NodeArgGroup {
			return c.Node
		}
	}
	return nil
}
