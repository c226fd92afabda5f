package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/cmkfmt/cmkfmt/internal/format"
	"github.com/cmkfmt/cmkfmt/internal/lint"
)

func newWatchCmd() *cobra.Command {
	var opts rootOptions

	watchCmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Reformat listfiles in a directory tree as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			opts.configPath, _ = cmd.Flags().GetString("config")
			return runWatch(cmd, root, opts)
		},
	}
	return watchCmd
}

// isListfile matches the files cmake reads: CMakeLists.txt and *.cmake
func isListfile(path string) bool {
	base := filepath.Base(path)
	return base == "CMakeLists.txt" || strings.HasSuffix(base, ".cmake")
}

func runWatch(cmd *cobra.Command, root string, opts rootOptions) error {
	var sink lint.Sink
	formatter, err := newFormatter(cmd, opts, &sink)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch every directory under root; fsnotify watches are not recursive
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "watching %s\n", root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						fmt.Fprintf(os.Stderr, "%s: %v\n", event.Name, err)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isListfile(event.Name) {
				continue
			}
			if err := reformatInPlace(formatter, event.Name); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", event.Name, err)
			}
			reportLint(&sink)
			sink = lint.Sink{}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}
}

func reformatInPlace(formatter *format.Formatter, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	formatted, err := formatter.Format(source)
	if err != nil {
		return err
	}
	if formatted == string(source) {
		return nil
	}
	if err := writeFileLike(path, []byte(formatted)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "formatted %s\n", path)
	return nil
}
