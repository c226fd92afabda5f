package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/cmkfmt/cmkfmt/internal/cmds"
	"github.com/cmkfmt/cmkfmt/internal/lexer"
	"github.com/cmkfmt/cmkfmt/internal/lint"
	"github.com/cmkfmt/cmkfmt/internal/parse"
)

// cstDump is the serialized shape of a syntax-tree node
type cstDump struct {
	Kind     string     `json:"kind" cbor:"kind"`
	Sortable bool       `json:"sortable,omitempty" cbor:"sortable,omitempty"`
	Children []cstChild `json:"children,omitempty" cbor:"children,omitempty"`
}

// cstChild is one ordered slot: a leaf token or a nested node
type cstChild struct {
	Token *tokenDump `json:"token,omitempty" cbor:"token,omitempty"`
	Node  *cstDump   `json:"node,omitempty" cbor:"node,omitempty"`
}

type tokenDump struct {
	Type   string `json:"type" cbor:"type"`
	Text   string `json:"text" cbor:"text"`
	Line   int    `json:"line" cbor:"line"`
	Column int    `json:"column" cbor:"column"`
}

func newParseCmd() *cobra.Command {
	var outputFormat string

	parseCmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a listfile and dump its syntax tree",
		Long: "Parses without reformatting and writes the concrete syntax tree\n" +
			"to stdout, for debugging grammars and directives.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(path, outputFormat)
		},
	}
	parseCmd.Flags().StringVar(&outputFormat, "format", "json", "Output encoding: json or cbor")
	return parseCmd
}

func runParse(path, outputFormat string) error {
	source, err := readInput(path)
	if err != nil {
		return err
	}

	var sink lint.Sink
	tree, err := parse.Parse(source, parse.NewContext(cmds.Default(), &sink))
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(path), err)
	}
	defer reportLint(&sink)

	dump := dumpNode(tree)
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dump)
	case "cbor":
		// Canonical encoding keeps dumps byte-stable across runs, so they
		// can be diffed and cached.
		encMode, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return err
		}
		data, err := encMode.Marshal(dump)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q: want json or cbor", outputFormat)
	}
}

func dumpNode(n *parse.TreeNode) *cstDump {
	dump := &cstDump{
		Kind:     n.Kind.String(),
		Sortable: n.Sortable,
	}
	for _, c := range n.Children {
		switch {
		case c.Token != nil:
			dump.Children = append(dump.Children, cstChild{Token: dumpToken(*c.Token)})
		case c.Node != nil:
			dump.Children = append(dump.Children, cstChild{Node: dumpNode(c.Node)})
		}
	}
	return dump
}

func dumpToken(tok lexer.Token) *tokenDump {
	return &tokenDump{
		Type:   tok.Type.String(),
		Text:   string(tok.Text),
		Line:   tok.Position.Line,
		Column: tok.Position.Column,
	}
}
