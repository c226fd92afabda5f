package parse

import "github.com/cmkfmt/cmkfmt/internal/lexer"

// commentToken reports whether a token reads as a comment inside a
// statement's argument list. Format directives open verbatim regions only at
// body level; between arguments they are ordinary comments.
func commentToken(t lexer.TokenType) bool {
	return t.IsComment() || t == lexer.FORMAT_OFF || t == lexer.FORMAT_ON
}

// consumeComment wraps the next token, which must be a comment, in a
// COMMENT node.
func consumeComment(ts *TokenStream) *TreeNode {
	node := newNode(NodeComment)
	node.appendToken(ts.Pop())
	return node
}

// consumeTrailingComment attaches a comment that sits on the same line
// immediately after whatever node just closed (an argument, a parenthetical
// group, a statement). The comment, and the blank run before it, become
// children of that node so they travel with it during re-flow.
func consumeTrailingComment(ts *TokenStream, node *TreeNode) {
	next := ts.Peek()
	switch {
	case next.Type.IsComment():
		node.appendNode(consumeComment(ts))
	case next.Type == lexer.WHITESPACE && ts.PeekAt(1).Type.IsComment():
		node.appendToken(ts.Pop())
		node.appendNode(consumeComment(ts))
	}
}
