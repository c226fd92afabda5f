// Package config holds the formatter's configuration: layout knobs, case
// normalization, user command grammars, and per-command overrides. Files are
// accepted in YAML, TOML, or JSON, validated against one schema.
package config

import (
	"fmt"
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/lint"
)

// Config is the effective configuration for one format run
type Config struct {
	// How wide to allow formatted lines
	LineWidth int

	// How many spaces per indentation level
	TabSize int

	// Max values on one line before a positional group wraps
	MaxSubargsPerLine int

	// Blank between a flow-control name and its paren: "if (" vs "if("
	SeparateCtrlNameWithSpace bool

	// Blank between other command names and their paren
	SeparateFnNameWithSpace bool

	// Put the closing paren of a wrapped statement on its own line
	DangleParens bool

	// "unix", "windows", or "auto" (keep what the file uses)
	LineEnding string

	// "lower", "upper", "canonical", or "unchanged"
	CommandCase string

	// "lower", "upper", or "unchanged"
	KeywordCase string

	// Alphabetize sortable positional groups
	Autosort bool

	// User grammar table merged over the builtin command database
	AdditionalCommands map[string]CommandSpec

	// Per-command config overrides, keyed by lowercase command name. Values
	// are raw key/value pairs applied over the base config.
	PerCommand map[string]map[string]any
}

// CommandSpec is the user-facing shape of one additional_commands entry
type CommandSpec struct {
	PArgs  string
	Flags  []string
	Kwargs map[string]any // arity spelling, or a nested spec map
}

// Default returns the builtin configuration
func Default() *Config {
	return &Config{
		LineWidth:         80,
		TabSize:           2,
		MaxSubargsPerLine: 3,
		LineEnding:        "unix",
		CommandCase:       "canonical",
		KeywordCase:       "unchanged",
		Autosort:          true,
	}
}

// Validate checks the enum-valued fields
func (c *Config) Validate() error {
	switch c.LineEnding {
	case "unix", "windows", "auto":
	default:
		return fmt.Errorf("invalid line_ending %q: want unix, windows, or auto", c.LineEnding)
	}
	switch c.CommandCase {
	case "lower", "upper", "canonical", "unchanged":
	default:
		return fmt.Errorf("invalid command_case %q: want lower, upper, canonical, or unchanged", c.CommandCase)
	}
	switch c.KeywordCase {
	case "lower", "upper", "unchanged":
	default:
		return fmt.Errorf("invalid keyword_case %q: want lower, upper, or unchanged", c.KeywordCase)
	}
	if c.LineWidth < 1 {
		return fmt.Errorf("invalid line_width %d", c.LineWidth)
	}
	if c.TabSize < 1 {
		return fmt.Errorf("invalid tab_size %d", c.TabSize)
	}
	return nil
}

// EOL returns the line terminator to emit. detected is the terminator found
// in the input, used when line_ending is "auto".
func (c *Config) EOL(detected string) string {
	switch c.LineEnding {
	case "windows":
		return "\r\n"
	case "auto":
		if detected == "\r\n" {
			return "\r\n"
		}
		return "\n"
	default:
		return "\n"
	}
}

// ResolveForCommand returns the configuration in effect for one command:
// the base config with any per_command overrides applied. The receiver is
// not modified. Ambiguous boolean spellings in the overrides are reported
// through sink, matching the loader.
func (c *Config) ResolveForCommand(name string, sink *lint.Sink) (*Config, error) {
	overrides, ok := c.PerCommand[strings.ToLower(name)]
	if !ok {
		return c, nil
	}
	resolved := *c
	for key, value := range overrides {
		if err := assign(&resolved, key, value, sink); err != nil {
			return nil, fmt.Errorf("per_command %q: %w", name, err)
		}
	}
	if err := resolved.Validate(); err != nil {
		return nil, fmt.Errorf("per_command %q: %w", name, err)
	}
	return &resolved, nil
}
