// Command cmkfmt formats cmake listfiles. It reads files (or stdin), parses
// them into a lossless syntax tree, and re-emits them in canonical layout.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmkfmt/cmkfmt/internal/cmds"
	"github.com/cmkfmt/cmkfmt/internal/config"
	"github.com/cmkfmt/cmkfmt/internal/format"
	"github.com/cmkfmt/cmkfmt/internal/lint"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	inPlace    bool
	check      bool
	lineWidth  int
	tabSize    int
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:   "cmkfmt [files...]",
		Short: "Format cmake listfiles",
		Long: "cmkfmt parses cmake listfiles and reprints them in a canonical\n" +
			"layout. Without --in-place or --check the result goes to stdout.\n" +
			"Use '-' (or pipe input) to read from stdin.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a .yaml, .toml, or .json configuration file")
	rootCmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "Rewrite files instead of printing to stdout")
	rootCmd.Flags().BoolVar(&opts.check, "check", false, "Exit nonzero if any file is not formatted; write nothing")
	rootCmd.Flags().IntVar(&opts.lineWidth, "line-width", 0, "Override the configured line width")
	rootCmd.Flags().IntVar(&opts.tabSize, "tab-size", 0, "Override the configured indent size")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newWatchCmd())
	return rootCmd
}

// loadConfig builds the effective configuration for one invocation: the
// config file if given, with any command-line overrides on top.
func loadConfig(cmd *cobra.Command, opts rootOptions, sink *lint.Sink) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath, sink)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("line-width") {
		cfg.LineWidth = opts.lineWidth
	}
	if cmd.Flags().Changed("tab-size") {
		cfg.TabSize = opts.tabSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFormatter(cmd *cobra.Command, opts rootOptions, sink *lint.Sink) (*format.Formatter, error) {
	cfg, err := loadConfig(cmd, opts, sink)
	if err != nil {
		return nil, err
	}
	db := cmds.Default()
	if err := cfg.ApplyTo(db); err != nil {
		return nil, err
	}
	return format.New(cfg, db, sink), nil
}

func runFormat(cmd *cobra.Command, args []string, opts rootOptions) error {
	var sink lint.Sink
	formatter, err := newFormatter(cmd, opts, &sink)
	if err != nil {
		return err
	}
	defer reportLint(&sink)

	if len(args) == 0 {
		if !hasPipedInput() {
			return fmt.Errorf("no input files (pipe a listfile or pass paths)")
		}
		args = []string{"-"}
	}

	unformatted := 0
	for _, path := range args {
		source, err := readInput(path)
		if err != nil {
			return err
		}
		formatted, err := formatter.Format(source)
		if err != nil {
			return fmt.Errorf("%s: %w", displayName(path), err)
		}

		switch {
		case opts.check:
			if formatted != string(source) {
				fmt.Fprintf(os.Stderr, "%s: not formatted\n", displayName(path))
				unformatted++
			}
		case opts.inPlace && path != "-":
			if formatted != string(source) {
				if err := writeFileLike(path, []byte(formatted)); err != nil {
					return err
				}
			}
		default:
			if _, err := io.WriteString(os.Stdout, formatted); err != nil {
				return err
			}
		}
	}

	if unformatted > 0 {
		return fmt.Errorf("%d file(s) not formatted", unformatted)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeFileLike rewrites path preserving its permission bits
func writeFileLike(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}

func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}

func reportLint(sink *lint.Sink) {
	for _, record := range sink.Records() {
		fmt.Fprintln(os.Stderr, record)
	}
}

// hasPipedInput detects if there's data piped to stdin
func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
