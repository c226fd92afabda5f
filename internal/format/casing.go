package format

import (
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/cmds"
)

// flow-control command names, which take separate_ctrl_name_with_space and
// drive the indentation stack
var ctrlNames = map[string]struct{}{
	"if":          {},
	"elseif":      {},
	"else":        {},
	"endif":       {},
	"while":       {},
	"endwhile":    {},
	"foreach":     {},
	"endforeach":  {},
	"function":    {},
	"endfunction": {},
	"macro":       {},
	"endmacro":    {},
	"block":       {},
	"endblock":    {},
}

var indentAfter = map[string]struct{}{
	"if":       {},
	"elseif":   {},
	"else":     {},
	"while":    {},
	"foreach":  {},
	"function": {},
	"macro":    {},
	"block":    {},
}

var dedentBefore = map[string]struct{}{
	"elseif":      {},
	"else":        {},
	"endif":       {},
	"endwhile":    {},
	"endforeach":  {},
	"endfunction": {},
	"endmacro":    {},
	"endblock":    {},
}

func isCtrl(name string) bool {
	_, ok := ctrlNames[strings.ToLower(name)]
	return ok
}

// commandCase normalizes a command name. "canonical" lowercases names the
// grammar database knows and leaves user commands alone.
func commandCase(name, mode string, db *cmds.DB) string {
	switch mode {
	case "lower":
		return strings.ToLower(name)
	case "upper":
		return strings.ToUpper(name)
	case "canonical":
		if db.Known(name) {
			return strings.ToLower(name)
		}
		return name
	default:
		return name
	}
}

// keywordCase normalizes a keyword or flag spelling
func keywordCase(word, mode string) string {
	switch mode {
	case "lower":
		return strings.ToLower(word)
	case "upper":
		return strings.ToUpper(word)
	default:
		return word
	}
}
