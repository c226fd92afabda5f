package format

import (
	"sort"
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/config"
	"github.com/cmkfmt/cmkfmt/internal/parse"
)

// item is one positional value ready for layout: the (case-normalized)
// spelling plus any comment that must stay on its line.
type item struct {
	text    string
	comment string
}

func (it item) width() int {
	return len(it.text)
}

// multiline reports whether the item cannot share a line with anything else
func (it item) multiline() bool {
	return it.comment != "" || strings.Contains(it.text, "\n")
}

// inlineNode renders a subtree as a one-line fragment. ok is false when the
// subtree holds comments or multi-line literals, which force vertical
// layout regardless of width.
func (f *Formatter) inlineNode(n *parse.TreeNode, rcfg *config.Config) (string, bool) {
	switch n.Kind {
	case parse.NodeArgGroup:
		var parts []string
		for _, c := range n.Children {
			if c.Node == nil {
				continue
			}
			if c.Node.Kind == parse.NodeComment {
				return "", false
			}
			s, ok := f.inlineNode(c.Node, rcfg)
			if !ok {
				return "", false
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), true

	case parse.NodePargGroup:
		items := f.pargItems(n, rcfg)
		var parts []string
		for _, it := range items {
			if it.multiline() {
				return "", false
			}
			parts = append(parts, it.text)
		}
		return strings.Join(parts, " "), true

	case parse.NodeKwargGroup:
		kw := keywordCase(n.Keyword.Name(), rcfg.KeywordCase)
		if n.Body == nil {
			return kw, true
		}
		body, ok := f.inlineNode(n.Body, rcfg)
		if !ok {
			return "", false
		}
		if body == "" {
			return kw, true
		}
		return kw + " " + body, true

	case parse.NodeParenGroup:
		var inner string
		for _, c := range n.Children {
			if c.Node == nil {
				continue
			}
			switch c.Node.Kind {
			case parse.NodeLParen, parse.NodeRParen:
			case parse.NodeComment:
				return "", false
			default:
				s, ok := f.inlineNode(c.Node, rcfg)
				if !ok {
					return "", false
				}
				inner = s
			}
		}
		return "(" + inner + ")", true

	default:
		return "", false
	}
}

// pargItems extracts the layout items of a positional group, applying flag
// case normalization and, when the group is sortable and autosort is on,
// alphabetical order. Groups holding comments or nested parens are never
// reordered.
func (f *Formatter) pargItems(n *parse.TreeNode, rcfg *config.Config) []item {
	var items []item
	sortSafe := true
	for _, c := range n.Children {
		if c.Node == nil {
			continue
		}
		switch c.Node.Kind {
		case parse.NodeArgument:
			text, comment := argParts(c.Node)
			if comment != "" {
				sortSafe = false
			}
			items = append(items, item{text: text, comment: comment})
		case parse.NodeFlag:
			text, comment := argParts(c.Node)
			if comment != "" {
				sortSafe = false
			}
			items = append(items, item{text: keywordCase(text, rcfg.KeywordCase), comment: comment})
		case parse.NodeComment:
			sortSafe = false
			items = append(items, item{comment: strings.TrimRight(c.Node.Spelling(), " \t")})
		case parse.NodeParenGroup:
			sortSafe = false
			if s, ok := f.inlineNode(c.Node, rcfg); ok {
				items = append(items, item{text: s})
			} else {
				items = append(items, item{text: c.Node.Spelling()})
			}
		}
	}
	if n.Sortable && rcfg.Autosort && sortSafe {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].text < items[j].text
		})
	}
	return items
}

// argParts splits an ARGUMENT or FLAG node into its value spelling and the
// attached trailing comment, if any.
func argParts(n *parse.TreeNode) (text, comment string) {
	for _, c := range n.Children {
		if c.Token != nil && !c.Token.Type.IsWhitespace() && text == "" {
			text = string(c.Token.Text)
		}
		if c.Node != nil && c.Node.Kind == parse.NodeComment {
			comment = strings.TrimRight(c.Node.Spelling(), " \t")
		}
	}
	return text, comment
}

// pargLines lays out a positional group vertically. Groups within the
// subarg budget pack onto shared lines up to the width limit; larger groups
// get one value per line.
func (f *Formatter) pargLines(n *parse.TreeNode, indent string, rcfg *config.Config) []string {
	items := f.pargItems(n, rcfg)
	onePerLine := len(items) > rcfg.MaxSubargsPerLine

	var lines []string
	cur := ""
	flush := func() {
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
	}
	for _, it := range items {
		if it.text == "" {
			// standalone comment
			flush()
			lines = append(lines, indent+it.comment)
			continue
		}
		line := indent + it.text
		if it.comment != "" {
			line += " " + it.comment
		}
		if onePerLine || it.multiline() {
			flush()
			lines = append(lines, line)
			continue
		}
		if cur == "" {
			cur = line
		} else if len(cur)+1+it.width() <= rcfg.LineWidth {
			cur += " " + it.text
		} else {
			flush()
			cur = line
		}
	}
	flush()
	return lines
}

// kwargLines lays out one keyword group: the keyword and its values on a
// shared line when they fit, otherwise the keyword alone with the values
// indented beneath it.
func (f *Formatter) kwargLines(n *parse.TreeNode, indent string, rcfg *config.Config) []string {
	kw := keywordCase(n.Keyword.Name(), rcfg.KeywordCase)
	if n.Body == nil {
		return []string{indent + kw}
	}
	if body, ok := f.inlineNode(n.Body, rcfg); ok {
		line := indent + kw
		if body != "" {
			line += " " + body
		}
		if len(line) <= rcfg.LineWidth {
			return []string{line}
		}
	}

	lines := []string{indent + kw}
	inner := indent + strings.Repeat(" ", rcfg.TabSize)
	lines = append(lines, f.groupLines(n.Body, inner, rcfg)...)
	return lines
}

// groupLines lays out the elements of an argument group (or a bare
// positional group) vertically, preserving their order.
func (f *Formatter) groupLines(n *parse.TreeNode, indent string, rcfg *config.Config) []string {
	if n.Kind == parse.NodePargGroup {
		return f.pargLines(n, indent, rcfg)
	}

	var lines []string
	for _, c := range n.Children {
		if c.Node == nil {
			continue
		}
		switch c.Node.Kind {
		case parse.NodeComment:
			lines = append(lines, indent+strings.TrimRight(c.Node.Spelling(), " \t"))
		case parse.NodePargGroup:
			lines = append(lines, f.pargLines(c.Node, indent, rcfg)...)
		case parse.NodeKwargGroup:
			lines = append(lines, f.kwargLines(c.Node, indent, rcfg)...)
		case parse.NodeParenGroup:
			lines = append(lines, f.parenLines(c.Node, indent, rcfg)...)
		}
	}
	return lines
}

// parenLines lays out a parenthetical sub-expression that did not fit on
// one line.
func (f *Formatter) parenLines(n *parse.TreeNode, indent string, rcfg *config.Config) []string {
	if s, ok := f.inlineNode(n, rcfg); ok && len(indent)+len(s) <= rcfg.LineWidth {
		return []string{indent + s}
	}

	lines := []string{indent + "("}
	inner := indent + strings.Repeat(" ", rcfg.TabSize)
	var trailing string
	for _, c := range n.Children {
		if c.Node == nil {
			continue
		}
		switch c.Node.Kind {
		case parse.NodeLParen, parse.NodeRParen:
		case parse.NodeComment:
			trailing = strings.TrimRight(c.Node.Spelling(), " \t")
		default:
			lines = append(lines, f.groupLines(c.Node, inner, rcfg)...)
		}
	}
	closer := indent + ")"
	if trailing != "" {
		closer += " " + trailing
	}
	return append(lines, closer)
}
