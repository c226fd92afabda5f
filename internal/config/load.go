package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/cmkfmt/cmkfmt/internal/lexer"
	"github.com/cmkfmt/cmkfmt/internal/lint"
)

// LintUnknownKey is recorded for configuration keys the schema does not
// know. The key is skipped, not fatal: configs are shared across formatter
// versions.
const LintUnknownKey = "C0101"

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "line_width": {"type": "integer", "minimum": 1},
    "tab_size": {"type": "integer", "minimum": 1},
    "max_subargs_per_line": {"type": "integer", "minimum": 1},
    "separate_ctrl_name_with_space": {"type": ["boolean", "string"]},
    "separate_fn_name_with_space": {"type": ["boolean", "string"]},
    "dangle_parens": {"type": ["boolean", "string"]},
    "line_ending": {"enum": ["unix", "windows", "auto"]},
    "command_case": {"enum": ["lower", "upper", "canonical", "unchanged"]},
    "keyword_case": {"enum": ["lower", "upper", "unchanged"]},
    "autosort": {"type": ["boolean", "string"]},
    "additional_commands": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "pargs": {"type": ["string", "integer"]},
          "flags": {"type": "array", "items": {"type": "string"}},
          "kwargs": {"type": "object"}
        },
        "additionalProperties": false
      }
    },
    "per_command": {
      "type": "object",
      "additionalProperties": {"type": "object"}
    }
  }
}`

var configSchema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

var knownKeys = []string{
	"line_width",
	"tab_size",
	"max_subargs_per_line",
	"separate_ctrl_name_with_space",
	"separate_fn_name_with_space",
	"dangle_parens",
	"line_ending",
	"command_case",
	"keyword_case",
	"autosort",
	"additional_commands",
	"per_command",
}

// Load reads a configuration file, choosing the decoder by extension:
// .yaml/.yml, .toml, or .json.
func Load(path string, sink *lint.Sink) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported config format %q: want .yaml, .toml, or .json", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg, err := FromMap(raw, sink)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromMap builds a Config from decoded key/value pairs. Values are
// schema-checked first; unknown keys are reported through sink with a
// closest-match hint and otherwise ignored.
func FromMap(raw map[string]any, sink *lint.Sink) (*Config, error) {
	// Round-trip through JSON so every decoder's types (yaml ints, toml
	// int64s) normalize to what the schema validator expects.
	doc, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	if err := configSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := Default()
	for key, value := range doc {
		if !isKnownKey(key) {
			sink.Record(LintUnknownKey, unknownKeyHint(key), lexer.Position{})
			continue
		}
		if err := assign(cfg, key, value, sink); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalize(raw map[string]any) (map[string]any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return doc, nil
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

func unknownKeyHint(key string) string {
	best, bestDist := "", -1
	for _, candidate := range knownKeys {
		d := fuzzy.LevenshteinDistance(strings.ToLower(key), candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	// A distant best match is noise, not a typo
	if bestDist < 0 || bestDist > len(best)/2 {
		return fmt.Sprintf("unknown configuration key %q", key)
	}
	return fmt.Sprintf("unknown configuration key %q (did you mean %q?)", key, best)
}

// assign sets one configuration field from a loosely typed value
func assign(cfg *Config, key string, value any, sink *lint.Sink) error {
	switch key {
	case "line_width":
		return setInt(&cfg.LineWidth, key, value)
	case "tab_size":
		return setInt(&cfg.TabSize, key, value)
	case "max_subargs_per_line":
		return setInt(&cfg.MaxSubargsPerLine, key, value)
	case "separate_ctrl_name_with_space":
		return setBool(&cfg.SeparateCtrlNameWithSpace, key, value, sink)
	case "separate_fn_name_with_space":
		return setBool(&cfg.SeparateFnNameWithSpace, key, value, sink)
	case "dangle_parens":
		return setBool(&cfg.DangleParens, key, value, sink)
	case "autosort":
		return setBool(&cfg.Autosort, key, value, sink)
	case "line_ending":
		return setString(&cfg.LineEnding, key, value)
	case "command_case":
		return setString(&cfg.CommandCase, key, value)
	case "keyword_case":
		return setString(&cfg.KeywordCase, key, value)
	case "additional_commands":
		specs, err := decodeCommandSpecs(value)
		if err != nil {
			return err
		}
		cfg.AdditionalCommands = specs
		return nil
	case "per_command":
		overrides, err := decodePerCommand(value)
		if err != nil {
			return err
		}
		cfg.PerCommand = overrides
		return nil
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
}

func setInt(dst *int, key string, value any) error {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("%s: want an integer, got %v", key, value)
		}
		*dst = int(v)
	case int:
		*dst = v
	case int64:
		*dst = int(v)
	default:
		return fmt.Errorf("%s: want an integer, got %T", key, value)
	}
	return nil
}

func setBool(dst *bool, key string, value any, sink *lint.Sink) error {
	switch v := value.(type) {
	case bool:
		*dst = v
	case string:
		*dst = ParseBool(v, sink)
	default:
		return fmt.Errorf("%s: want a boolean, got %T", key, value)
	}
	return nil
}

func setString(dst *string, key string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s: want a string, got %T", key, value)
	}
	*dst = s
	return nil
}

func decodeCommandSpecs(value any) (map[string]CommandSpec, error) {
	table, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("additional_commands: want a table, got %T", value)
	}
	specs := make(map[string]CommandSpec, len(table))
	for name, entry := range table {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("additional_commands %q: want a table, got %T", name, entry)
		}
		var cs CommandSpec
		for field, v := range fields {
			switch field {
			case "pargs":
				switch pv := v.(type) {
				case string:
					cs.PArgs = pv
				case float64:
					cs.PArgs = fmt.Sprintf("%d", int(pv))
				default:
					return nil, fmt.Errorf("additional_commands %q: pargs: want a string or integer, got %T", name, v)
				}
			case "flags":
				items, ok := v.([]any)
				if !ok {
					return nil, fmt.Errorf("additional_commands %q: flags: want a list, got %T", name, v)
				}
				for _, item := range items {
					flag, ok := item.(string)
					if !ok {
						return nil, fmt.Errorf("additional_commands %q: flags: want strings, got %T", name, item)
					}
					cs.Flags = append(cs.Flags, flag)
				}
			case "kwargs":
				kwargs, ok := v.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("additional_commands %q: kwargs: want a table, got %T", name, v)
				}
				cs.Kwargs = kwargs
			default:
				return nil, fmt.Errorf("additional_commands %q: unknown field %q", name, field)
			}
		}
		specs[name] = cs
	}
	return specs, nil
}

func decodePerCommand(value any) (map[string]map[string]any, error) {
	table, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("per_command: want a table, got %T", value)
	}
	overrides := make(map[string]map[string]any, len(table))
	for name, entry := range table {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("per_command %q: want a table, got %T", name, entry)
		}
		overrides[strings.ToLower(name)] = fields
	}
	return overrides, nil
}
