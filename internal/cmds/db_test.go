package cmds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupIsCaseInsensitive(t *testing.T) {
	db := Default()
	for _, name := range []string{"add_library", "ADD_LIBRARY", "Add_Library"} {
		spec, ok := db.Lookup(name)
		require.True(t, ok, "Lookup(%q)", name)
		assert.Equal(t, SpecStandard, spec.Kind)
	}
	_, ok := db.Lookup("no_such_command")
	assert.False(t, ok)
}

func TestFlowControlUsesConditionalGrammar(t *testing.T) {
	db := Default()
	for _, name := range []string{"if", "elseif", "while"} {
		spec, ok := db.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, SpecConditional, spec.Kind, name)
	}
}

func TestInstallGrammarNesting(t *testing.T) {
	db := Default()
	install, ok := db.Lookup("install")
	require.True(t, ok)

	runtime, ok := install.KwargSpec("RUNTIME")
	require.True(t, ok)
	component, ok := runtime.KwargSpec("COMPONENT")
	require.True(t, ok)
	assert.Equal(t, Exactly(1), component.NPArgs)
}

func TestSortableSpecs(t *testing.T) {
	db := Default()
	tll, ok := db.Lookup("target_link_libraries")
	require.True(t, ok)
	private, ok := tll.KwargSpec("PRIVATE")
	require.True(t, ok)
	assert.True(t, private.Sortable)
}

func TestAddOverridesBuiltin(t *testing.T) {
	db := Default()
	db.Add("Add_Library", Standard(Exactly(1), nil))
	spec, ok := db.Lookup("add_library")
	require.True(t, ok)
	assert.Equal(t, Exactly(1), spec.NPArgs)
}

func TestKnownNames(t *testing.T) {
	db := Default()
	assert.True(t, db.Known("set"))
	assert.False(t, db.Known("frobnicate"))
	assert.Contains(t, db.Names(), "add_library")
}
