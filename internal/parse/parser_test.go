package parse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmkfmt/cmkfmt/internal/cmds"
	"github.com/cmkfmt/cmkfmt/internal/lexer"
)

// parseString parses input with the builtin grammar database and fails the
// test on a fatal parse error.
func parseString(t *testing.T, input string) *TreeNode {
	t.Helper()
	tree, err := Parse([]byte(input), nil)
	require.NoError(t, err, "parse %q", input)
	return tree
}

// semanticStrings returns the spellings of a subtree's semantic tokens
func semanticStrings(n *TreeNode) []string {
	var out []string
	for _, tok := range n.SemanticTokens() {
		out = append(out, tok.String())
	}
	return out
}

// childKinds returns the node kinds of the non-token children of a node
func childKinds(n *TreeNode) []NodeKind {
	var out []NodeKind
	for _, c := range n.Children {
		if c.Node != nil {
			out = append(out, c.Node.Kind)
		}
	}
	return out
}

func TestSimpleStatement(t *testing.T) {
	tree := parseString(t, "add_library(foo foo.cc bar.cc)\n")
	stmts := tree.Statements()
	require.Len(t, stmts, 1)
	assert.Equal(t, "add_library", stmts[0].Name())

	argTree := stmts[0].ArgTree()
	require.NotNil(t, argTree)
	require.Len(t, argTree.PargGroups, 1)
	assert.Empty(t, argTree.KwargGroups)

	if diff := cmp.Diff([]string{"foo", "foo.cc", "bar.cc"}, semanticStrings(argTree.PargGroups[0])); diff != "" {
		t.Errorf("positional group mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"add_library(foo foo.cc)\n",
		"cmake_minimum_required(VERSION 3.16)\nproject(demo VERSION 1.2.3 LANGUAGES C CXX)\n",
		"# leading comment\n\nset(srcs\n    a.cc # trailing note\n    b.cc)\n",
		"if(FOO AND (BAR OR BAZ))\n  add_subdirectory(sub)\nendif()\n",
		"install(TARGETS foo\n        RUNTIME DESTINATION bin\n        LIBRARY DESTINATION lib)\n",
		"# cmkfmt: off\n   weird(  spacing )\n# cmkfmt: on\nset(x y)\n",
		"add_custom_command(\n  OUTPUT out.txt\n  COMMAND gen --flag # why\n  VERBATIM)\n",
		"set(multi \"line one\nline two\")\n",
		"file(WRITE out.txt [=[bracket ]] content]=])\n",
	}
	for _, input := range inputs {
		tree := parseString(t, input)
		assert.Equal(t, input, tree.Spelling(), "round trip of %q", input)
	}
}

func TestFlagsAreTaggedNotDispatched(t *testing.T) {
	tree := parseString(t, "add_library(foo STATIC a.cc)")
	argTree := tree.Statements()[0].ArgTree()

	// Flags do not break positional runs: one group, with STATIC tagged FLAG
	require.Len(t, argTree.PargGroups, 1)
	group := argTree.PargGroups[0]
	assert.Equal(t, []NodeKind{NodeArgument, NodeFlag, NodeArgument}, childKinds(group))
}

func TestKeywordPrecedence(t *testing.T) {
	db := cmds.Default()
	db.Add("cmd", cmds.Standard(cmds.ZeroOrMore, map[string]*cmds.Spec{
		"FOO": cmds.Positional(cmds.ZeroOrMore),
	}))
	tree, err := Parse([]byte("cmd(a b FOO c d)"), NewContext(db, nil))
	require.NoError(t, err)

	argTree := tree.Statements()[0].ArgTree()
	require.Len(t, argTree.PargGroups, 1)
	require.Len(t, argTree.KwargGroups, 1)

	assert.Equal(t, []string{"a", "b"}, semanticStrings(argTree.PargGroups[0]))

	kwarg := argTree.KwargGroups[0]
	require.NotNil(t, kwarg.Keyword)
	assert.Equal(t, "FOO", kwarg.Keyword.Name())
	require.NotNil(t, kwarg.Body)
	assert.Equal(t, []string{"c", "d"}, semanticStrings(kwarg.Body))
}

func TestKeywordWithEmptyBody(t *testing.T) {
	db := cmds.Default()
	db.Add("cmd", cmds.Standard(cmds.ZeroOrMore, map[string]*cmds.Spec{
		"FOO": cmds.Positional(cmds.ZeroOrMore),
		"BAR": cmds.Positional(cmds.ZeroOrMore),
	}))
	tree, err := Parse([]byte("cmd(FOO BAR baz)"), NewContext(db, nil))
	require.NoError(t, err)

	argTree := tree.Statements()[0].ArgTree()
	require.Len(t, argTree.KwargGroups, 2)

	// FOO is immediately followed by BAR, so it gets no body
	assert.Equal(t, "FOO", argTree.KwargGroups[0].Keyword.Name())
	assert.Nil(t, argTree.KwargGroups[0].Body)
	assert.Equal(t, "BAR", argTree.KwargGroups[1].Keyword.Name())
	require.NotNil(t, argTree.KwargGroups[1].Body)
	assert.Equal(t, []string{"baz"}, semanticStrings(argTree.KwargGroups[1].Body))
}

func TestExactArityBoundsGroups(t *testing.T) {
	db := cmds.Default()
	db.Add("two", cmds.Standard(cmds.Exactly(2), nil))
	tree, err := Parse([]byte("two(a b c d)"), NewContext(db, nil))
	require.NoError(t, err)

	argTree := tree.Statements()[0].ArgTree()
	require.Len(t, argTree.PargGroups, 2)
	assert.Equal(t, []string{"a", "b"}, semanticStrings(argTree.PargGroups[0]))
	assert.Equal(t, []string{"c", "d"}, semanticStrings(argTree.PargGroups[1]))
}

func TestExactArityKeywordValueBeforeCloser(t *testing.T) {
	// "runtime" spells the same as the sibling RUNTIME keyword. The exact
	// arity of COMPONENT must consume it as a value rather than breaking.
	tree := parseString(t, "install(RUNTIME COMPONENT runtime)")
	argTree := tree.Statements()[0].ArgTree()

	require.Len(t, argTree.KwargGroups, 1)
	runtime := argTree.KwargGroups[0]
	assert.Equal(t, "RUNTIME", runtime.Keyword.Name())
	require.NotNil(t, runtime.Body)

	require.Len(t, runtime.Body.KwargGroups, 1)
	component := runtime.Body.KwargGroups[0]
	assert.Equal(t, "COMPONENT", component.Keyword.Name())
	require.NotNil(t, component.Body)
	assert.Equal(t, []string{"runtime"}, semanticStrings(component.Body))
}

func TestTrailingCommentTravelsWithArgument(t *testing.T) {
	tree := parseString(t, "set(a b # note\n    c)")
	argTree := tree.Statements()[0].ArgTree()
	require.Len(t, argTree.PargGroups, 1)

	group := argTree.PargGroups[0]
	var bNode *TreeNode
	for _, c := range group.Children {
		if c.Node != nil && c.Node.Kind == NodeArgument && c.Node.Spelling() == "b # note" {
			bNode = c.Node
		}
	}
	require.NotNil(t, bNode, "comment should be attached to argument b:\n%s", group)
}

func TestSortableDirective(t *testing.T) {
	db := cmds.Default()
	db.Add("cmd", cmds.Standard(cmds.ZeroOrMore, map[string]*cmds.Spec{
		"SRCS": cmds.Positional(cmds.ZeroOrMore),
	}))

	tree, err := Parse([]byte("cmd(SRCS # cmkfmt: sortable\n    b a)"), NewContext(db, nil))
	require.NoError(t, err)
	body := tree.Statements()[0].ArgTree().KwargGroups[0].Body
	require.NotNil(t, body)
	assert.True(t, body.Sortable)

	// An unsortable directive overrides a spec that defaults to sortable
	tree = parseString(t, "target_link_libraries(foo PRIVATE # cmkfmt: unsortable\n    z a)")
	body = tree.Statements()[0].ArgTree().KwargGroups[0].Body
	require.NotNil(t, body)
	assert.False(t, body.Sortable)
}

func TestSpecDefaultSortable(t *testing.T) {
	tree := parseString(t, "target_link_libraries(foo PRIVATE z a)")
	body := tree.Statements()[0].ArgTree().KwargGroups[0].Body
	require.NotNil(t, body)
	assert.True(t, body.Sortable)
}

func TestDirectiveBetweenArgumentsIsComment(t *testing.T) {
	// A format directive between arguments does not open a verbatim region;
	// it must surface as a COMMENT node, never as an argument value.
	for _, directive := range []string{"off", "on"} {
		input := "set(a # cmkfmt: " + directive + "\n    b)"
		tree := parseString(t, input)
		argTree := tree.Statements()[0].ArgTree()
		require.Len(t, argTree.PargGroups, 1, "input %q", input)

		group := argTree.PargGroups[0]
		assert.Equal(t, []NodeKind{NodeArgument, NodeComment, NodeArgument},
			childKinds(group), "input %q", input)
		assert.Equal(t, []string{"a", "b"}, semanticStrings(group), "input %q", input)
		assert.Equal(t, input, tree.Spelling(), "round trip of %q", input)
	}
}

func TestConditionalGroupShape(t *testing.T) {
	tree := parseString(t, "if(A AND (B OR C))\nendif()\n")
	argTree := tree.Statements()[0].ArgTree()
	require.NotNil(t, argTree)
	assert.Equal(t, NodeArgGroup, argTree.Kind)

	require.Len(t, argTree.PargGroups, 1)
	assert.Equal(t, []NodeKind{NodeArgument}, childKinds(argTree.PargGroups[0]))
	assert.Equal(t, []string{"A"}, semanticStrings(argTree.PargGroups[0]))

	require.Len(t, argTree.KwargGroups, 1)
	and := argTree.KwargGroups[0]
	assert.Equal(t, "AND", and.Keyword.Name())
	require.NotNil(t, and.Body)
	require.Equal(t, []NodeKind{NodeParenGroup}, childKinds(and.Body))

	var paren *TreeNode
	for _, c := range and.Body.Children {
		if c.Node != nil && c.Node.Kind == NodeParenGroup {
			paren = c.Node
		}
	}
	require.NotNil(t, paren)
	assert.Equal(t, []NodeKind{NodeLParen, NodeArgGroup, NodeRParen}, childKinds(paren))

	var inner *TreeNode
	for _, c := range paren.Children {
		if c.Node != nil && c.Node.Kind == NodeArgGroup {
			inner = c.Node
		}
	}
	require.NotNil(t, inner)
	require.Len(t, inner.PargGroups, 1)
	assert.Equal(t, []string{"B"}, semanticStrings(inner.PargGroups[0]))
	require.Len(t, inner.KwargGroups, 1)
	or := inner.KwargGroups[0]
	assert.Equal(t, "OR", or.Keyword.Name())
	require.NotNil(t, or.Body)
	assert.Equal(t, []string{"C"}, semanticStrings(or.Body))
}

func TestFormatOffRegion(t *testing.T) {
	input := "# cmkfmt: off\n   ugly( x )\n# cmkfmt: on\nset(y z)\n"
	tree := parseString(t, input)

	var onoff *TreeNode
	for _, c := range tree.Children {
		if c.Node != nil && c.Node.Kind == NodeOnOff {
			onoff = c.Node
		}
	}
	require.NotNil(t, onoff)
	assert.Equal(t, "# cmkfmt: off\n   ugly( x )\n# cmkfmt: on", onoff.Spelling())
	assert.Equal(t, input, tree.Spelling())
	// The statement after the region parses normally
	require.Len(t, tree.Statements(), 1)
	assert.Equal(t, "set", tree.Statements()[0].Name())
}

func TestUnknownCommandFallsBack(t *testing.T) {
	tree := parseString(t, "my_custom_thing(a b c)")
	argTree := tree.Statements()[0].ArgTree()
	require.Len(t, argTree.PargGroups, 1)
	assert.Equal(t, []string{"a", "b", "c"}, semanticStrings(argTree.PargGroups[0]))
}

func TestStatementTrailingComment(t *testing.T) {
	tree := parseString(t, "set(x y) # done\n")
	stmt := tree.Statements()[0]
	assert.True(t, strings.HasSuffix(stmt.Spelling(), "# done"))
}

func TestCaseInsensitiveKeywords(t *testing.T) {
	tree := parseString(t, "install(targets foo destination bin)")
	argTree := tree.Statements()[0].ArgTree()
	require.Len(t, argTree.KwargGroups, 2)
	assert.Equal(t, "targets", argTree.KwargGroups[0].Keyword.Name())
	assert.Equal(t, "destination", argTree.KwargGroups[1].Keyword.Name())
}

func TestParseTerminatesOnOddShapes(t *testing.T) {
	inputs := []string{
		"foo()",
		"foo( )",
		"foo(())",
		"if((A))\nendif()",
		"set()",
		"foreach(x IN LISTS a b)\nendforeach()",
		"cmake_minimum_required(VERSION 3.10 FATAL_ERROR)",
	}
	for _, input := range inputs {
		tree := parseString(t, input)
		assert.Equal(t, input, tree.Spelling(), "round trip of %q", input)
	}
}

func TestStreamOwnershipTransfers(t *testing.T) {
	tokens := lexer.Tokenize([]byte("set(a b)"))
	ts := NewStream(tokens)
	require.True(t, ts.HasMore())
	first := ts.Pop()
	assert.Equal(t, "set", first.String())
	assert.Equal(t, len(tokens)-1, ts.Remaining())
}
