package config

import (
	"fmt"
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/lexer"
	"github.com/cmkfmt/cmkfmt/internal/lint"
)

// LintAmbiguousBool is recorded when a boolean config value is spelled with
// a string that matches neither vocabulary.
const LintAmbiguousBool = "C0102"

var (
	truthy = []string{"y", "yes", "t", "true", "1", "yup", "yeah", "yada"}
	falsey = []string{"n", "no", "f", "false", "0", "nope", "nah", "nada"}
)

// ParseBool interprets the loose boolean vocabulary accepted in config
// files. A string matching neither list is reported through sink and
// evaluates to false.
func ParseBool(s string, sink *lint.Sink) bool {
	lower := strings.ToLower(s)
	for _, w := range truthy {
		if lower == w {
			return true
		}
	}
	for _, w := range falsey {
		if lower == w {
			return false
		}
	}
	sink.Record(LintAmbiguousBool,
		fmt.Sprintf("ambiguous truthiness of %q evaluates to false", s),
		lexer.Position{})
	return false
}
