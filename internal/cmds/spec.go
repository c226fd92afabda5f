// Package cmds holds the grammar database for cmake commands. A command's
// argument shape is described by a data-only Spec tree; the parser
// interprets these descriptors, it never calls into this package.
package cmds

import (
	"fmt"
	"strconv"
	"strings"
)

// ArityKind distinguishes exact positional counts from the open-ended forms
type ArityKind int

const (
	ArityExact      ArityKind = iota // exactly N
	ArityZeroOrOne                   // "?"
	ArityZeroOrMore                  // "*"
	ArityOneOrMore                   // "+"
)

// Arity bounds how many positional values a group may consume
type Arity struct {
	Kind  ArityKind
	Count int // meaningful only for ArityExact
}

// Arity constructors
var (
	ZeroOrOne  = Arity{Kind: ArityZeroOrOne}
	ZeroOrMore = Arity{Kind: ArityZeroOrMore}
	OneOrMore  = Arity{Kind: ArityOneOrMore}
)

// Exactly returns an exact-count arity
func Exactly(n int) Arity {
	return Arity{Kind: ArityExact, Count: n}
}

// ParseArity converts the compact spelling used in configuration files:
// a non-negative integer, "?", "*", or "+".
func ParseArity(s string) (Arity, error) {
	switch s {
	case "?":
		return ZeroOrOne, nil
	case "*":
		return ZeroOrMore, nil
	case "+":
		return OneOrMore, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Arity{}, fmt.Errorf("invalid arity %q: want ?, *, + or a non-negative integer", s)
	}
	return Exactly(n), nil
}

// IsExact reports whether the arity names an exact positional count
func (a Arity) IsExact() bool {
	return a.Kind == ArityExact
}

// Full reports whether consumed positional values already satisfy the arity,
// i.e. whether a positional group must stop consuming.
func (a Arity) Full(consumed int) bool {
	switch a.Kind {
	case ArityExact:
		return consumed >= a.Count
	case ArityZeroOrOne:
		return consumed >= 1
	default:
		return false
	}
}

// String returns the compact spelling of the arity
func (a Arity) String() string {
	switch a.Kind {
	case ArityZeroOrOne:
		return "?"
	case ArityZeroOrMore:
		return "*"
	case ArityOneOrMore:
		return "+"
	default:
		return fmt.Sprintf("%d", a.Count)
	}
}

// SpecKind selects which parser interprets a Spec
type SpecKind int

const (
	// SpecStandard parses positional arguments, keyword groups, and flags
	SpecStandard SpecKind = iota
	// SpecPositional parses a bare positional group (used for keyword bodies)
	SpecPositional
	// SpecConditional parses the boolean AND/OR grammar of flow-control
	// commands such as if() and while()
	SpecConditional
)

// Spec describes the argument grammar of one command or of one keyword's
// value list. Kwargs values are themselves Specs, so grammars nest.
type Spec struct {
	Kind     SpecKind
	NPArgs   Arity
	Kwargs   map[string]*Spec
	Flags    []string
	Sortable bool // positional values may be reordered by the formatter
}

// Positional is shorthand for a positional-only Spec
func Positional(npargs Arity, flags ...string) *Spec {
	return &Spec{Kind: SpecPositional, NPArgs: npargs, Flags: flags}
}

// SortablePositional is a positional Spec whose values the formatter may sort
func SortablePositional(npargs Arity, flags ...string) *Spec {
	return &Spec{Kind: SpecPositional, NPArgs: npargs, Flags: flags, Sortable: true}
}

// Standard builds a standard argument-tree Spec
func Standard(npargs Arity, kwargs map[string]*Spec, flags ...string) *Spec {
	return &Spec{Kind: SpecStandard, NPArgs: npargs, Kwargs: kwargs, Flags: flags}
}

// Conditional is the Spec for boolean flow-control argument lists
func Conditional() *Spec {
	return &Spec{Kind: SpecConditional}
}

// KwargSpec returns the sub-grammar registered for the given normalized
// keyword, if any.
func (s *Spec) KwargSpec(word string) (*Spec, bool) {
	sub, ok := s.Kwargs[word]
	return sub, ok
}

// KwargNames returns the normalized keyword vocabulary of this Spec
func (s *Spec) KwargNames() []string {
	names := make([]string, 0, len(s.Kwargs))
	for name := range s.Kwargs {
		names = append(names, name)
	}
	return names
}

// NormalizedFlags returns the flag vocabulary in normalized (upper) case
func (s *Spec) NormalizedFlags() []string {
	flags := make([]string, len(s.Flags))
	for i, f := range s.Flags {
		flags[i] = strings.ToUpper(f)
	}
	return flags
}
