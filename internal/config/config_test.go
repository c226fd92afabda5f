package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmkfmt/cmkfmt/internal/cmds"
	"github.com/cmkfmt/cmkfmt/internal/lint"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "cmkfmt.yaml", `
line_width: 100
tab_size: 4
dangle_parens: true
command_case: lower
`)
	var sink lint.Sink
	cfg, err := Load(path, &sink)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.LineWidth)
	assert.Equal(t, 4, cfg.TabSize)
	assert.True(t, cfg.DangleParens)
	assert.Equal(t, "lower", cfg.CommandCase)
	// Untouched fields keep their defaults
	assert.Equal(t, 3, cfg.MaxSubargsPerLine)
	assert.True(t, cfg.Autosort)
	assert.True(t, sink.Empty())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "cmkfmt.toml", `
line_width = 120
autosort = false

[additional_commands.my_command]
pargs = "1"
flags = ["FAST", "SLOW"]

[additional_commands.my_command.kwargs]
SOURCES = "*"
DESTINATION = "1"
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.LineWidth)
	assert.False(t, cfg.Autosort)

	cs, ok := cfg.AdditionalCommands["my_command"]
	require.True(t, ok)
	spec, err := cs.Spec()
	require.NoError(t, err)
	assert.Equal(t, cmds.Exactly(1), spec.NPArgs)
	assert.Equal(t, []string{"FAST", "SLOW"}, spec.Flags)

	sources, ok := spec.KwargSpec("SOURCES")
	require.True(t, ok)
	assert.Equal(t, cmds.ZeroOrMore, sources.NPArgs)
	dest, ok := spec.KwargSpec("DESTINATION")
	require.True(t, ok)
	assert.Equal(t, cmds.Exactly(1), dest.NPArgs)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "cmkfmt.json", `{
  "line_ending": "windows",
  "keyword_case": "upper"
}`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "\r\n", cfg.EOL("\n"))
	assert.Equal(t, "upper", cfg.KeywordCase)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "cmkfmt.ini", "line_width = 100\n")
	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestUnknownKeySuggestion(t *testing.T) {
	var sink lint.Sink
	cfg, err := FromMap(map[string]any{"line_widht": 100}, &sink)
	require.NoError(t, err)
	// The key is skipped, not applied
	assert.Equal(t, 80, cfg.LineWidth)

	records := sink.Records()
	require.Len(t, records, 1)
	assert.Equal(t, LintUnknownKey, records[0].ID)
	assert.Contains(t, records[0].Payload, "line_widht")
	assert.Contains(t, records[0].Payload, `did you mean "line_width"`)
}

func TestSchemaRejectsBadEnum(t *testing.T) {
	_, err := FromMap(map[string]any{"command_case": "sarcastic"}, nil)
	assert.Error(t, err)
}

func TestSchemaRejectsBadType(t *testing.T) {
	_, err := FromMap(map[string]any{"line_width": "wide"}, nil)
	assert.Error(t, err)
}

func TestBooleanStringSpellings(t *testing.T) {
	var sink lint.Sink
	cfg, err := FromMap(map[string]any{"dangle_parens": "yes", "autosort": "nope"}, &sink)
	require.NoError(t, err)
	assert.True(t, cfg.DangleParens)
	assert.False(t, cfg.Autosort)
	assert.True(t, sink.Empty())
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"y", "Yes", "T", "true", "1", "yup", "YEAH", "yada"} {
		assert.True(t, ParseBool(s, nil), s)
	}
	for _, s := range []string{"n", "No", "F", "false", "0", "nope", "NAH", "nada"} {
		assert.False(t, ParseBool(s, nil), s)
	}

	var sink lint.Sink
	assert.False(t, ParseBool("maybe", &sink))
	records := sink.Records()
	require.Len(t, records, 1)
	assert.Equal(t, LintAmbiguousBool, records[0].ID)
	assert.Contains(t, records[0].Payload, "maybe")
}

func TestResolveForCommand(t *testing.T) {
	cfg, err := FromMap(map[string]any{
		"line_width": 100,
		"per_command": map[string]any{
			"Install": map[string]any{"line_width": 60, "dangle_parens": true},
		},
	}, nil)
	require.NoError(t, err)

	resolved, err := cfg.ResolveForCommand("INSTALL", nil)
	require.NoError(t, err)
	assert.Equal(t, 60, resolved.LineWidth)
	assert.True(t, resolved.DangleParens)
	// Base config is untouched
	assert.Equal(t, 100, cfg.LineWidth)
	assert.False(t, cfg.DangleParens)

	// Commands without overrides resolve to the base config
	same, err := cfg.ResolveForCommand("set", nil)
	require.NoError(t, err)
	assert.Same(t, cfg, same)
}

func TestResolveForCommandRejectsBadOverride(t *testing.T) {
	cfg := Default()
	cfg.PerCommand = map[string]map[string]any{
		"set": {"command_case": "sarcastic"},
	}
	_, err := cfg.ResolveForCommand("set", nil)
	assert.Error(t, err)
}

func TestApplyTo(t *testing.T) {
	cfg := Default()
	cfg.AdditionalCommands = map[string]CommandSpec{
		"my_command": {
			PArgs: "2",
			Kwargs: map[string]any{
				"DEPENDS": "*",
				"INSTALL": map[string]any{
					"pargs":  "1",
					"kwargs": map[string]any{"DESTINATION": "1"},
				},
			},
		},
	}

	db := cmds.Default()
	require.NoError(t, cfg.ApplyTo(db))

	spec, ok := db.Lookup("my_command")
	require.True(t, ok)
	assert.Equal(t, cmds.Exactly(2), spec.NPArgs)

	install, ok := spec.KwargSpec("INSTALL")
	require.True(t, ok)
	dest, ok := install.KwargSpec("DESTINATION")
	require.True(t, ok)
	assert.Equal(t, cmds.Exactly(1), dest.NPArgs)
}

func TestEOL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "\n", cfg.EOL("\r\n"))

	cfg.LineEnding = "auto"
	assert.Equal(t, "\r\n", cfg.EOL("\r\n"))
	assert.Equal(t, "\n", cfg.EOL("\n"))
	assert.Equal(t, "\n", cfg.EOL(""))
}
