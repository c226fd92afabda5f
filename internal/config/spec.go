package config

import (
	"fmt"
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/cmds"
)

// Spec converts a user command description into a grammar descriptor.
// Kwarg values are either an arity spelling ("2", "?", "*", "+") or a
// nested table with the same pargs/flags/kwargs shape, so grammars nest
// to any depth.
func (cs CommandSpec) Spec() (*cmds.Spec, error) {
	npargs := cmds.ZeroOrMore
	if cs.PArgs != "" {
		parsed, err := cmds.ParseArity(cs.PArgs)
		if err != nil {
			return nil, err
		}
		npargs = parsed
	}

	kwargs := make(map[string]*cmds.Spec, len(cs.Kwargs))
	for name, value := range cs.Kwargs {
		sub, err := kwargSpec(name, value)
		if err != nil {
			return nil, err
		}
		kwargs[strings.ToUpper(name)] = sub
	}
	if len(kwargs) == 0 {
		kwargs = nil
	}
	return cmds.Standard(npargs, kwargs, cs.Flags...), nil
}

func kwargSpec(name string, value any) (*cmds.Spec, error) {
	switch v := value.(type) {
	case string:
		arity, err := cmds.ParseArity(v)
		if err != nil {
			return nil, fmt.Errorf("kwarg %q: %w", name, err)
		}
		return cmds.Positional(arity), nil
	case float64:
		return cmds.Positional(cmds.Exactly(int(v))), nil
	case map[string]any:
		nested, err := decodeCommandSpecs(map[string]any{name: v})
		if err != nil {
			return nil, err
		}
		return nested[name].Spec()
	default:
		return nil, fmt.Errorf("kwarg %q: want an arity or a table, got %T", name, value)
	}
}

// ApplyTo merges the user grammar table over db. Entries replace builtin
// grammars of the same name.
func (c *Config) ApplyTo(db *cmds.DB) error {
	for name, cs := range c.AdditionalCommands {
		spec, err := cs.Spec()
		if err != nil {
			return fmt.Errorf("additional_commands %q: %w", name, err)
		}
		db.Add(name, spec)
	}
	return nil
}
