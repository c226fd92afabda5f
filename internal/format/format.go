// Package format re-flows a parsed listfile into canonical layout. A
// statement is rendered on one line when it fits the configured width and
// holds no comments, and wrapped vertically otherwise; whitespace between
// statements is normalized but blank-line structure is kept.
package format

import (
	"bytes"
	"strings"

	"github.com/cmkfmt/cmkfmt/internal/cmds"
	"github.com/cmkfmt/cmkfmt/internal/config"
	"github.com/cmkfmt/cmkfmt/internal/lexer"
	"github.com/cmkfmt/cmkfmt/internal/lint"
	"github.com/cmkfmt/cmkfmt/internal/parse"
)

// maximum consecutive blank lines kept between statements
const maxBlankLines = 2

// Formatter renders listfiles under one configuration
type Formatter struct {
	cfg  *config.Config
	db   *cmds.DB
	sink *lint.Sink
}

// New returns a Formatter. A nil cfg means defaults; a nil db means the
// builtin command database. Diagnostics raised while formatting are
// recorded into sink.
func New(cfg *config.Config, db *cmds.DB, sink *lint.Sink) *Formatter {
	if cfg == nil {
		cfg = config.Default()
	}
	if db == nil {
		db = cmds.Default()
	}
	return &Formatter{cfg: cfg, db: db, sink: sink}
}

// Format parses source and renders it in canonical layout
func (f *Formatter) Format(source []byte) (string, error) {
	tree, err := parse.Parse(source, parse.NewContext(f.db, f.sink))
	if err != nil {
		return "", err
	}
	return f.render(tree, detectEOL(source))
}

// Check reports whether source is already formatted
func (f *Formatter) Check(source []byte) (bool, error) {
	formatted, err := f.Format(source)
	if err != nil {
		return false, err
	}
	return formatted == string(source), nil
}

func detectEOL(source []byte) string {
	if bytes.Contains(source, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

func (f *Formatter) render(body *parse.TreeNode, detected string) (string, error) {
	eol := f.cfg.EOL(detected)
	var buf strings.Builder

	depth := 0
	newlines := 0
	emitted := false
	for _, c := range body.Children {
		if c.Token != nil {
			if c.Token.Type == lexer.NEWLINE {
				newlines++
			}
			continue
		}
		node := c.Node
		if node == nil {
			continue
		}

		if emitted {
			blanks := newlines - 1
			if blanks > maxBlankLines {
				blanks = maxBlankLines
			}
			for i := 0; i < blanks; i++ {
				buf.WriteString(eol)
			}
		}
		newlines = 0
		emitted = true

		switch node.Kind {
		case parse.NodeComment:
			writeLine(&buf, indentFor(depth, f.cfg.TabSize)+strings.TrimRight(node.Spelling(), " \t"), eol)
		case parse.NodeOnOff:
			buf.WriteString(node.Spelling())
			buf.WriteString(eol)
		case parse.NodeStatement:
			name := strings.ToLower(node.Name())
			if _, ok := dedentBefore[name]; ok && depth > 0 {
				depth--
			}
			lines, err := f.statementLines(node, depth)
			if err != nil {
				return "", err
			}
			for _, line := range lines {
				writeLine(&buf, line, eol)
			}
			if _, ok := indentAfter[name]; ok {
				depth++
			}
		}
	}
	return buf.String(), nil
}

func writeLine(buf *strings.Builder, line, eol string) {
	buf.WriteString(line)
	buf.WriteString(eol)
}

func indentFor(depth, tabSize int) string {
	return strings.Repeat(" ", depth*tabSize)
}

// statementLines renders one statement, one-line when it fits and vertical
// otherwise, under the per-command resolved configuration.
func (f *Formatter) statementLines(stmt *parse.TreeNode, depth int) ([]string, error) {
	name := stmt.Name()
	rcfg, err := f.cfg.ResolveForCommand(name, f.sink)
	if err != nil {
		return nil, err
	}

	display := commandCase(name, rcfg.CommandCase, f.db)
	sep := ""
	if isCtrl(name) {
		if rcfg.SeparateCtrlNameWithSpace {
			sep = " "
		}
	} else if rcfg.SeparateFnNameWithSpace {
		sep = " "
	}

	indent := indentFor(depth, rcfg.TabSize)
	argTree := stmt.ArgTree()
	trailing := statementComment(stmt)

	if args, ok := f.inlineNode(argTree, rcfg); ok && !strings.Contains(args, "\n") {
		line := indent + display + sep + "(" + args + ")"
		if len(line) <= rcfg.LineWidth {
			if trailing != "" {
				line += " " + trailing
			}
			return []string{line}, nil
		}
	}

	head := indent + display + sep + "("
	childIndent := indent + strings.Repeat(" ", rcfg.TabSize)
	glines := f.groupLines(argTree, childIndent, rcfg)

	var lines []string
	if len(glines) > 0 {
		// Pull the first wrapped line up next to the opening paren when it
		// fits, the conventional cmake continuation shape.
		first := head + strings.TrimLeft(glines[0], " ")
		if len(first) <= rcfg.LineWidth && !strings.Contains(glines[0], "\n") {
			lines = append([]string{first}, glines[1:]...)
		} else {
			lines = append([]string{head}, glines...)
		}
	} else {
		lines = []string{head}
	}

	if rcfg.DangleParens {
		lines = append(lines, indent+")")
	} else {
		lines[len(lines)-1] += ")"
	}
	if trailing != "" {
		lines[len(lines)-1] += " " + trailing
	}
	return lines, nil
}

// statementComment returns the comment trailing a statement's closing
// paren, if any.
func statementComment(stmt *parse.TreeNode) string {
	for _, c := range stmt.Children {
		if c.Node != nil && c.Node.Kind == parse.NodeComment {
			return strings.TrimRight(c.Node.Spelling(), " \t")
		}
	}
	return ""
}
