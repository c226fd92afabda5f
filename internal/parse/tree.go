// Package parse turns a cmake token stream into a concrete syntax tree.
// The tree is lossless: every token of the input, including whitespace and
// comments, appears exactly once as a leaf, so concatenating the leaves of
// any subtree reproduces the exact source text that subtree covers.
package parse

import (
	"fmt"
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/cmds"
	"github.com/cmkfmt/cmkfmt/internal/lexer"
)

// NodeKind identifies the syntactic role of a TreeNode
type NodeKind int

const (
	NodeBody       NodeKind = iota // whole-file sequence of statements
	NodeStatement                  // command invocation: name ( args )
	NodeFunName                    // the command-name token of a statement
	NodeArgGroup                   // argument tree of a statement or keyword
	NodeKwargGroup                 // keyword plus its value subtree
	NodePargGroup                  // run of positional arguments
	NodeParenGroup                 // parenthesized boolean sub-expression
	NodeKeyword                    // a single keyword token
	NodeArgument                   // a value-bearing positional argument
	NodeFlag                       // a zero-width positional marker
	NodeComment                    // a comment not attached to an argument
	NodeLParen                     // left parenthesis of a group
	NodeRParen                     // right parenthesis of a group
	NodeOnOff                      // verbatim region between format directives
)

// String returns a string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case NodeBody:
		return "BODY"
	case NodeStatement:
		return "STATEMENT"
	case NodeFunName:
		return "FUNNAME"
	case NodeArgGroup:
		return "ARGGROUP"
	case NodeKwargGroup:
		return "KWARGGROUP"
	case NodePargGroup:
		return "PARGGROUP"
	case NodeParenGroup:
		return "PARENGROUP"
	case NodeKeyword:
		return "KEYWORD"
	case NodeArgument:
		return "ARGUMENT"
	case NodeFlag:
		return "FLAG"
	case NodeComment:
		return "COMMENT"
	case NodeLParen:
		return "LPAREN"
	case NodeRParen:
		return "RPAREN"
	case NodeOnOff:
		return "ONOFF"
	default:
		return "UNKNOWN"
	}
}

// Child is one ordered slot of a TreeNode: exactly one of Node or Token is
// set. Raw tokens appear at whatever depth they were encountered.
type Child struct {
	Node  *TreeNode
	Token *lexer.Token
}

// PositionalSpec records the arity and flag vocabulary a positional group
// was parsed under. The layout engine uses it to re-flow the group.
type PositionalSpec struct {
	NPArgs cmds.Arity
	Flags  []string
}

// TreeNode is a node of the concrete syntax tree. One tagged type covers
// every kind; the payload fields below are meaningful only for the kinds
// noted. Nodes are built once during the parse and never restructured, the
// only later mutation is the Sortable annotation.
type TreeNode struct {
	Kind     NodeKind
	Children []Child

	// Token is the defining token for NodeFunName and NodeKeyword
	Token *lexer.Token

	// Positional-group payload
	Sortable bool
	Spec     PositionalSpec

	// Keyword-group payload
	Keyword *TreeNode // the KEYWORD node
	Body    *TreeNode // value subtree, nil when the value list is empty

	// Standard-argument-tree views: ordered sub-lists of Children
	PargGroups  []*TreeNode
	KwargGroups []*TreeNode
}

func newNode(kind NodeKind) *TreeNode {
	return &TreeNode{Kind: kind}
}

// appendToken adds a raw token leaf at this node's depth
func (n *TreeNode) appendToken(tok lexer.Token) {
	t := tok
	n.Children = append(n.Children, Child{Token: &t})
}

// appendNode adds a nested node
func (n *TreeNode) appendNode(child *TreeNode) {
	n.Children = append(n.Children, Child{Node: child})
}

// Tokens returns every leaf token reachable from this subtree, in document
// order.
func (n *TreeNode) Tokens() []lexer.Token {
	var out []lexer.Token
	n.walkTokens(&out)
	return out
}

func (n *TreeNode) walkTokens(out *[]lexer.Token) {
	for _, c := range n.Children {
		if c.Token != nil {
			*out = append(*out, *c.Token)
		} else if c.Node != nil {
			c.Node.walkTokens(out)
		}
	}
}

// SemanticTokens returns the subtree's tokens with whitespace and comments
// stripped.
func (n *TreeNode) SemanticTokens() []lexer.Token {
	var out []lexer.Token
	for _, tok := range n.Tokens() {
		if tok.Type.IsWhitespace() || tok.Type.IsComment() ||
			tok.Type == lexer.FORMAT_OFF || tok.Type == lexer.FORMAT_ON {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Spelling reconstructs the exact source text covered by this subtree
func (n *TreeNode) Spelling() string {
	var sb strings.Builder
	for _, tok := range n.Tokens() {
		sb.Write(tok.Text)
	}
	return sb.String()
}

// Location returns the position of the first semantic token of the subtree,
// falling back to the first token of any kind.
func (n *TreeNode) Location() lexer.Position {
	if sem := n.SemanticTokens(); len(sem) > 0 {
		return sem[0].Position
	}
	if all := n.Tokens(); len(all) > 0 {
		return all[0].Position
	}
	return lexer.Position{Line: 1, Column: 1}
}

// Name returns the command name of a NodeStatement or the defining token
// text of a NodeFunName/NodeKeyword; empty otherwise.
func (n *TreeNode) Name() string {
	if n.Token != nil {
		return string(n.Token.Text)
	}
	if n.Kind == NodeStatement {
		for _, c := range n.Children {
			if c.Node != nil && c.Node.Kind == NodeFunName {
				return c.Node.Name()
			}
		}
	}
	return ""
}

// Statements returns the statement nodes directly under a BODY node
func (n *TreeNode) Statements() []*TreeNode {
	var out []*TreeNode
	for _, c := range n.Children {
		if c.Node != nil && c.Node.Kind == NodeStatement {
			out = append(out, c.Node)
		}
	}
	return out
}

// String renders an indented dump of the subtree for debugging and tests
func (n *TreeNode) String() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *TreeNode) dump(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s%s\n", indent, n.Kind)
	for _, c := range n.Children {
		if c.Token != nil {
			if c.Token.Type.IsWhitespace() {
				continue
			}
			fmt.Fprintf(sb, "%s  %s %q\n", indent, c.Token.Type, string(c.Token.Text))
		} else if c.Node != nil {
			c.Node.dump(sb, depth+1)
		}
	}
}
