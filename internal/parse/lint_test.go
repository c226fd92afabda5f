package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmkfmt/cmkfmt/internal/lint"
)

func TestCheckRequiredKwargsMissing(t *testing.T) {
	tree := parseString(t, "add_test(COMMAND foo)")
	argTree := tree.Statements()[0].ArgTree()

	var sink lint.Sink
	argTree.CheckRequiredKwargs(&sink, map[string]string{
		"NAME":    "E1125",
		"COMMAND": "E1125",
	})

	records := sink.Records()
	require.Len(t, records, 1, "one record per missing keyword, none for present ones")
	assert.Equal(t, "E1125", records[0].ID)
	assert.Equal(t, "NAME", records[0].Payload)

	// Located at the statement's first semantic token
	assert.Equal(t, 1, records[0].Position.Line)
	assert.Equal(t, 10, records[0].Position.Column)
}

func TestCheckRequiredKwargsAllPresent(t *testing.T) {
	tree := parseString(t, "add_test(NAME foo COMMAND bar)")
	argTree := tree.Statements()[0].ArgTree()

	var sink lint.Sink
	argTree.CheckRequiredKwargs(&sink, map[string]string{
		"NAME":    "E1125",
		"COMMAND": "E1125",
	})
	assert.True(t, sink.Empty())
}

func TestCheckRequiredKwargsDeterministicOrder(t *testing.T) {
	tree := parseString(t, "cmd(x)")
	argTree := tree.Statements()[0].ArgTree()

	// Run several times: the emission order must not depend on map iteration
	for i := 0; i < 8; i++ {
		var sink lint.Sink
		argTree.CheckRequiredKwargs(&sink, map[string]string{
			"CCC": "E2000",
			"AAA": "E2000",
			"BBB": "E1000",
		})
		records := sink.Records()
		require.Len(t, records, 3)
		assert.Equal(t, "BBB", records[0].Payload)
		assert.Equal(t, "AAA", records[1].Payload)
		assert.Equal(t, "CCC", records[2].Payload)
	}
}

func TestNilSinkIsSafe(t *testing.T) {
	tree := parseString(t, "cmd(x)")
	argTree := tree.Statements()[0].ArgTree()
	assert.NotPanics(t, func() {
		argTree.CheckRequiredKwargs(nil, map[string]string{"NAME": "E1125"})
	})
}
