package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmkfmt/cmkfmt/internal/parse"
)

func writeListfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "CMakeLists.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestFormatInPlace(t *testing.T) {
	path := writeListfile(t, "set( a   b )\n")
	require.NoError(t, runCLI("-i", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "set(a b)\n", string(data))
}

func TestCheckMode(t *testing.T) {
	unformatted := writeListfile(t, "set( a  b )\n")
	assert.Error(t, runCLI("--check", unformatted))

	formatted := writeListfile(t, "set(a b)\n")
	assert.NoError(t, runCLI("--check", formatted))
}

func TestConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cmkfmt.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("command_case: upper\n"), 0o644))

	path := writeListfile(t, "set(a b)\n")
	require.NoError(t, runCLI("-c", cfgPath, "-i", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SET(a b)\n", string(data))
}

func TestLineWidthOverride(t *testing.T) {
	path := writeListfile(t, "set(sources aaaa.cc bbbb.cc cccc.cc dddd.cc)\n")
	require.NoError(t, runCLI("-i", "--line-width", "20", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"set(sources\n  aaaa.cc\n  bbbb.cc\n  cccc.cc\n  dddd.cc)\n",
		string(data))
}

func TestParseErrorSurfacesFileName(t *testing.T) {
	path := writeListfile(t, "set(a\n")
	err := runCLI("--check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CMakeLists.txt")
}

func TestBadConfigValue(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cmkfmt.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"command_case": "shouty"}`), 0o644))
	assert.Error(t, runCLI("-c", cfgPath, writeListfile(t, "set(a b)\n")))
}

func TestIsListfile(t *testing.T) {
	assert.True(t, isListfile("CMakeLists.txt"))
	assert.True(t, isListfile("sub/dir/CMakeLists.txt"))
	assert.True(t, isListfile("helpers.cmake"))
	assert.False(t, isListfile("main.cc"))
	assert.False(t, isListfile("cmake"))
}

func TestDumpNode(t *testing.T) {
	tree, err := parse.Parse([]byte("set(a b)\n"), nil)
	require.NoError(t, err)

	dump := dumpNode(tree)
	assert.Equal(t, "BODY", dump.Kind)
	require.NotEmpty(t, dump.Children)

	stmt := dump.Children[0].Node
	require.NotNil(t, stmt)
	assert.Equal(t, "STATEMENT", stmt.Kind)
}
