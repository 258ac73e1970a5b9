package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sparkfmt/sparkfmt/internal/formatter"
	"github.com/sparkfmt/sparkfmt/internal/notebook"
	"github.com/spf13/cobra"
)

// debounceDelay coalesces editor save bursts into one format pass.
const debounceDelay = 200 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and format notebooks on save",
		Long: `Watch a directory tree and rewrite the SQL in any .ipynb or .py
file that changes. Runs until interrupted.`,
		Example: `  sparkfmt watch notebooks/`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline(cmd)
			if err != nil {
				return err
			}
			return runWatch(cmd, pipeline, args[0])
		},
	}
}

func runWatch(cmd *cobra.Command, pipeline *formatter.Pipeline, dir string) error {
	logger := GetLogger(cmd.Context())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for notebook changes. Press Ctrl+C to stop.\n", dir)
	return watchLoop(cmd.Context(), watcher, func(path string) {
		if err := formatOnSave(cmd, pipeline, path); err != nil {
			logger.Error("format on save failed", "path", path, "error", err)
		}
	})
}

// watchLoop consumes watcher events, debouncing per path.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, format func(path string)) error {
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			ext := filepath.Ext(event.Name)
			if ext != ".ipynb" && ext != ".py" {
				continue
			}
			path := event.Name
			if t, exists := timers[path]; exists {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounceDelay, func() { format(path) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// watchDirRecursive adds dir and its subdirectories to the watcher,
// skipping hidden directories.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

func formatOnSave(cmd *cobra.Command, pipeline *formatter.Pipeline, path string) error {
	if filepath.Ext(path) == ".ipynb" {
		nb, err := notebook.Load(path)
		if err != nil {
			return err
		}
		changed, err := nb.FormatCells(pipeline.FormatCell)
		if err != nil {
			return err
		}
		if changed == 0 {
			return nil
		}
		if err := nb.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cell(s) formatted\n", path, changed)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, changed := pipeline.FormatCell(string(data))
	if !changed {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: formatted\n", path)
	return nil
}
