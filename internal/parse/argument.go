package parse

import (
	"sort"
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/cmds"
	"github.com/cmkfmt/cmkfmt/internal/invariant"
	"github.com/cmkfmt/cmkfmt/internal/lexer"
	"github.com/cmkfmt/cmkfmt/internal/lint"
)

// parseSpec interprets a grammar descriptor. This is the single generic
// interpreter behind every keyword table entry: grammars are data, not
// callables.
func parseSpec(ctx *Context, ts *TokenStream, spec *cmds.Spec, breakstack []Breaker) *TreeNode {
	switch spec.Kind {
	case cmds.SpecPositional:
		return parsePositionalGroup(ctx, ts, spec.NPArgs, spec.NormalizedFlags(), breakstack, spec.Sortable)
	case cmds.SpecConditional:
		return parseConditionalGroup(ctx, ts, breakstack)
	default:
		return parseStandardArgTree(ctx, ts, spec, breakstack)
	}
}

// parseStandardArgTree parses the argument list of a standard command:
//
//	command_name(parg1 parg2 parg3...
//	        KEYWORD1 kwarg1 kwarg2...
//	        KEYWORD2 kwarg3 kwarg4...
//	        FLAG1 FLAG2 FLAG3)
//
// The loop starts out dispatching to the positional parser. When the next
// word matches a keyword of this grammar it dispatches to the keyword-group
// parser instead; flags are not dispatched here, the positional parser
// consumes them and tags them FLAG.
func parseStandardArgTree(ctx *Context, ts *TokenStream, spec *cmds.Spec, breakstack []Breaker) *TreeNode {
	tree := newNode(NodeArgGroup)

	for ts.HasMore() && ts.Peek().Type.IsWhitespace() {
		tree.appendToken(ts.Pop())
	}

	flags := spec.NormalizedFlags()
	kwargNames := spec.KwargNames()
	// Keywords of the current grammar bound both sub-parsers; flags
	// additionally bound keyword bodies but not positional runs, where they
	// are consumed as FLAG-tagged positionals.
	kwargBreakstack := extend(breakstack, NewKwargBreaker(append(append([]string{}, kwargNames...), flags...)...))
	positionalBreakstack := extend(breakstack, NewKwargBreaker(kwargNames...))

	for ts.HasMore() {
		// Break if the next token belongs to a parent parser: a keyword of
		// something higher on the stack, or the closer of a parent group.
		if shouldBreak(ts.Peek(), breakstack) {
			break
		}

		if ts.Peek().Type.IsWhitespace() {
			tree.appendToken(ts.Pop())
			continue
		}

		if commentToken(ts.Peek().Type) {
			tree.appendNode(consumeComment(ts))
			continue
		}

		before := ts.Remaining()
		word := normalizedWord(ts.Peek())
		if sub, ok := spec.KwargSpec(word); ok {
			subtree := parseKeywordGroup(ctx, ts, word, sub, kwargBreakstack)
			tree.KwargGroups = append(tree.KwargGroups, subtree)
			tree.appendNode(subtree)
		} else {
			subtree := parsePositionalGroup(ctx, ts, spec.NPArgs, flags, positionalBreakstack, false)
			tree.PargGroups = append(tree.PargGroups, subtree)
			tree.appendNode(subtree)
		}
		if ts.Remaining() >= before {
			raiseEmptySubtree(ts.Peek())
		}
	}
	return tree
}

// parsePositionalGroup consumes a contiguous run of positional arguments
// bounded by the arity. Flags from the active vocabulary are consumed here
// as zero-width positionals tagged FLAG.
func parsePositionalGroup(ctx *Context, ts *TokenStream, npargs cmds.Arity, flags []string, breakstack []Breaker, sortable bool) *TreeNode {
	tree := newNode(NodePargGroup)
	tree.Sortable = sortable
	tree.Spec = PositionalSpec{NPArgs: npargs, Flags: flags}

	// Strip any preceding whitespace. Usually already done by the caller,
	// but keyword sub-parsers land here with the separator still pending.
	for ts.HasMore() && ts.Peek().Type.IsWhitespace() {
		tree.appendToken(ts.Pop())
	}

	// A directive comment as the first non-whitespace token annotates the
	// group's sortability. The comment token itself is consumed by the loop
	// below like any other comment.
	switch lexer.Directive(ts.Peek()) {
	case "sortable", "sort":
		tree.Sortable = true
	case "unsortable", "unsort":
		tree.Sortable = false
	}

	nconsumed := 0
	for ts.HasMore() {
		if npargs.Full(nconsumed) {
			break
		}

		if shouldBreak(ts.Peek(), breakstack) {
			// An exact arity means the group is still owed arguments, so a
			// keyword match from a parent parser does not break it; the
			// token is consumed as a positional value instead. This keeps
			// ``install(RUNTIME COMPONENT runtime)`` parsing: the second
			// "runtime" is a value, not the RUNTIME keyword. The group
			// still stops at a right parenthesis.
			if !npargs.IsExact() {
				break
			}
			if ts.Peek().Type == lexer.RPAREN {
				break
			}
		}

		// cmake tolerates a parenthetical group in a positional run even
		// where the command grammar has no say about it, so we accept it
		// leniently too.
		if ts.Peek().Type == lexer.LPAREN {
			tree.appendNode(parseParenGroup(ctx, ts, breakstack))
			continue
		}

		if ts.Peek().Type.IsWhitespace() {
			tree.appendToken(ts.Pop())
			continue
		}

		if commentToken(ts.Peek().Type) {
			before := ts.Remaining()
			child := consumeComment(ts)
			invariant.Invariant(ts.Remaining() < before, "comment consumed no tokens")
			tree.appendNode(child)
			continue
		}

		var child *TreeNode
		if wordInSet(normalizedWord(ts.Peek()), flags) {
			child = newNode(NodeFlag)
		} else {
			child = newNode(NodeArgument)
		}
		child.appendToken(ts.Pop())
		consumeTrailingComment(ts, child)
		tree.appendNode(child)
		nconsumed++
	}
	return tree
}

// parseKeywordGroup consumes one keyword token and delegates the value list
// to the keyword's registered sub-grammar. A keyword with an empty value
// list is legal (for example a keyword immediately followed by a sibling
// keyword); in that case no body is attached.
func parseKeywordGroup(ctx *Context, ts *TokenStream, word string, sub *cmds.Spec, breakstack []Breaker) *TreeNode {
	invariant.Precondition(normalizedWord(ts.Peek()) == word,
		"dispatched wrong kwarg parse: have %q, want %q", ts.Peek().String(), word)

	tree := newNode(NodeKwargGroup)
	keyword := newNode(NodeKeyword)
	tok := ts.Pop()
	keyword.Token = &tok
	keyword.appendToken(tok)
	tree.Keyword = keyword
	tree.appendNode(keyword)

	for ts.HasMore() && ts.Peek().Type.IsWhitespace() {
		tree.appendToken(ts.Pop())
	}

	before := ts.Remaining()
	subtree := parseSpec(ctx, ts, sub, breakstack)
	if ts.Remaining() < before {
		tree.Body = subtree
		tree.appendNode(subtree)
	}
	return tree
}

// parseParenGroup consumes a parenthetical sub-expression: a left paren, a
// conditional body bounded by a fresh paren breaker, and the matching right
// paren. A missing or mismatched closer is a fatal parse error.
func parseParenGroup(ctx *Context, ts *TokenStream, breakstack []Breaker) *TreeNode {
	invariant.Precondition(ts.Peek().Type == lexer.LPAREN, "paren group must start at a left paren")

	tree := newNode(NodeParenGroup)
	lparen := newNode(NodeLParen)
	lparen.appendToken(ts.Pop())
	tree.appendNode(lparen)

	tree.appendNode(parseConditionalGroup(ctx, ts, []Breaker{ParenBreaker{}}))

	if got := ts.Peek(); got.Type != lexer.RPAREN {
		raise(&ParseError{
			Position:   got.Position,
			Message:    "unmatched parenthesis",
			Context:    "parenthetical group",
			Expected:   []lexer.TokenType{lexer.RPAREN},
			Got:        got.Type,
			Suggestion: "add ')' to close the group",
			Example:    "if(FOO AND (BAR OR BAZ))",
		})
	}
	rparen := newNode(NodeRParen)
	rparen.appendToken(ts.Pop())
	tree.appendNode(rparen)

	// Groups have closing punctuation, so a trailing comment is
	// unambiguously theirs.
	consumeTrailingComment(ts, tree)
	return tree
}

// conditionalFlags is the operator vocabulary of cmake boolean expressions.
// The operators are flags, not keywords: ``A STREQUAL B`` stays three flat
// positional tokens rather than becoming a binary-expression node.
var conditionalFlags = []string{
	"COMMAND",
	"DEFINED",
	"EQUAL",
	"EXISTS",
	"GREATER",
	"GREATER_EQUAL",
	"IN_LIST",
	"IS_ABSOLUTE",
	"IS_DIRECTORY",
	"IS_NEWER_THAN",
	"IS_SYMLINK",
	"LESS",
	"LESS_EQUAL",
	"MATCHES",
	"NOT",
	"POLICY",
	"STREQUAL",
	"STRGREATER",
	"STRLESS",
	"TARGET",
	"TEST",
	"VERSION_EQUAL",
	"VERSION_GREATER",
	"VERSION_LESS",
}

// parseConditionalGroup parses the boolean argument lists of flow-control
// commands:
//
//	while(CONDITION1 AND (CONDITION2 OR CONDITION3)
//	      OR (CONDITION4 AND CONDITION5))
//
// AND and OR are keywords whose sub-grammar is another conditional group,
// so chains nest right-recursively through the keyword dispatch.
func parseConditionalGroup(ctx *Context, ts *TokenStream, breakstack []Breaker) *TreeNode {
	tree := newNode(NodeArgGroup)

	for ts.HasMore() && ts.Peek().Type.IsWhitespace() {
		tree.appendToken(ts.Pop())
	}

	childBreakstack := extend(breakstack, NewKwargBreaker("AND", "OR"))

	for ts.HasMore() {
		if shouldBreak(ts.Peek(), breakstack) {
			break
		}

		if ts.Peek().Type.IsWhitespace() {
			tree.appendToken(ts.Pop())
			continue
		}

		if commentToken(ts.Peek().Type) {
			tree.appendNode(consumeComment(ts))
			continue
		}

		if ts.Peek().Type == lexer.LPAREN {
			tree.appendNode(parseParenGroup(ctx, ts, breakstack))
			continue
		}

		before := ts.Remaining()
		word := normalizedWord(ts.Peek())
		if word == "AND" || word == "OR" {
			subtree := parseKeywordGroup(ctx, ts, word, cmds.Conditional(), childBreakstack)
			if ts.Remaining() >= before {
				raiseEmptySubtree(ts.Peek())
			}
			tree.KwargGroups = append(tree.KwargGroups, subtree)
			tree.appendNode(subtree)
			continue
		}

		subtree := parsePositionalGroup(ctx, ts, cmds.OneOrMore, conditionalFlags, childBreakstack, false)
		if ts.Remaining() >= before {
			raiseEmptySubtree(ts.Peek())
		}
		tree.PargGroups = append(tree.PargGroups, subtree)
		tree.appendNode(subtree)
	}
	return tree
}

// CheckRequiredKwargs verifies that every required keyword was supplied to
// this argument tree. required maps the normalized keyword to the lint id
// to report when it is missing. Each missing keyword is recorded exactly
// once, attributed to the location of the tree's first semantic token, in a
// deterministic order.
func (n *TreeNode) CheckRequiredKwargs(sink *lint.Sink, required map[string]string) {
	remaining := make(map[string]string, len(required))
	for word, id := range required {
		remaining[strings.ToUpper(word)] = id
	}
	for _, group := range n.KwargGroups {
		if group.Keyword != nil && group.Keyword.Token != nil {
			delete(remaining, strings.ToUpper(string(group.Keyword.Token.Text)))
		}
	}
	if len(remaining) == 0 {
		return
	}

	location := n.Location()
	type missing struct{ id, word string }
	missingKwargs := make([]missing, 0, len(remaining))
	for word, id := range remaining {
		missingKwargs = append(missingKwargs, missing{id: id, word: word})
	}
	sort.Slice(missingKwargs, func(i, j int) bool {
		if missingKwargs[i].id != missingKwargs[j].id {
			return missingKwargs[i].id < missingKwargs[j].id
		}
		return missingKwargs[i].word < missingKwargs[j].word
	})
	for _, m := range missingKwargs {
		sink.Record(m.id, m.word, location)
	}
}

func wordInSet(word string, set []string) bool {
	if word == "" {
		return false
	}
	for _, w := range set {
		if w == word {
			return true
		}
	}
	return false
}
