package cmds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArity(t *testing.T) {
	tests := []struct {
		input string
		want  Arity
	}{
		{"?", ZeroOrOne},
		{"*", ZeroOrMore},
		{"+", OneOrMore},
		{"0", Exactly(0)},
		{"1", Exactly(1)},
		{"12", Exactly(12)},
	}
	for _, tc := range tests {
		got, err := ParseArity(tc.input)
		require.NoError(t, err, "ParseArity(%q)", tc.input)
		assert.Equal(t, tc.want, got, "ParseArity(%q)", tc.input)
	}

	for _, bad := range []string{"", "x", "-1", "1.5", "**"} {
		_, err := ParseArity(bad)
		assert.Error(t, err, "ParseArity(%q)", bad)
	}
}

func TestArityFull(t *testing.T) {
	assert.False(t, ZeroOrMore.Full(0))
	assert.False(t, ZeroOrMore.Full(100))
	assert.False(t, OneOrMore.Full(100))

	assert.False(t, ZeroOrOne.Full(0))
	assert.True(t, ZeroOrOne.Full(1))

	two := Exactly(2)
	assert.False(t, two.Full(0))
	assert.False(t, two.Full(1))
	assert.True(t, two.Full(2))
	assert.True(t, Exactly(0).Full(0))
}

func TestArityString(t *testing.T) {
	assert.Equal(t, "?", ZeroOrOne.String())
	assert.Equal(t, "*", ZeroOrMore.String())
	assert.Equal(t, "+", OneOrMore.String())
	assert.Equal(t, "3", Exactly(3).String())
}

func TestNormalizedFlags(t *testing.T) {
	spec := Standard(ZeroOrMore, nil, "Static", "shared")
	assert.Equal(t, []string{"STATIC", "SHARED"}, spec.NormalizedFlags())
}

func TestKwargSpecLookup(t *testing.T) {
	spec := Standard(ZeroOrMore, map[string]*Spec{
		"DESTINATION": Positional(Exactly(1)),
	})
	sub, ok := spec.KwargSpec("DESTINATION")
	require.True(t, ok)
	assert.Equal(t, SpecPositional, sub.Kind)

	_, ok = spec.KwargSpec("NOPE")
	assert.False(t, ok)
}
