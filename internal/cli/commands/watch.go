package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounceDelay batches bursts of filesystem events (editors typically emit
// several per save) into one reformat pass.
const debounceDelay = 250 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Watch directories and reformat SQL files on change",
		Long: `Watch one or more directories (default: current directory) and rewrite
any .sql file into canonical form whenever it changes.

A file that is already canonical is left untouched, so the rewrite loop
terminates: formatting is idempotent.`,
		Example: `  # Watch the current directory
  sqleaner watch

  # Watch specific directories
  sqleaner watch queries/ migrations/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args)
		},
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range args {
		if err := watchDir(watcher, dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx.Logger.Info("watching for changes", "paths", strings.Join(args, ", "))
	watchLoop(ctx, watcher, cmdCtx)
	return nil
}

// watchDir recursively adds a directory tree to the watcher, skipping
// hidden directories.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// watchLoop handles filesystem events until the context is cancelled.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, cmdCtx *CommandContext) {
	var debounceTimer *time.Timer
	pending := make(map[string]struct{})

	for {
		var debounced <-chan time.Time
		if debounceTimer != nil {
			debounced = debounceTimer.C
		}

		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".sql") {
				// New directories need watching too.
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watchDir(watcher, event.Name)
					}
				}
				continue
			}
			pending[event.Name] = struct{}{}
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(debounceDelay)
			} else {
				debounceTimer.Reset(debounceDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			cmdCtx.Logger.Warn("watch error", "error", err)

		case <-debounced:
			debounceTimer = nil
			for path := range pending {
				delete(pending, path)
				reformatFile(path, cmdCtx)
			}
		}
	}
}

// reformatFile rewrites one file in place if it is not already canonical.
func reformatFile(path string, cmdCtx *CommandContext) {
	src, err := os.ReadFile(path)
	if err != nil {
		cmdCtx.Logger.Warn("read failed", "file", path, "error", err)
		return
	}

	res, err := cmdCtx.Engine.FormatSQL(string(src))
	if err != nil {
		cmdCtx.Logger.Warn("format failed", "file", path, "error", err)
		return
	}
	if res.Output == string(src) {
		return
	}

	if err := os.WriteFile(path, []byte(res.Output), 0o644); err != nil {
		cmdCtx.Logger.Warn("write failed", "file", path, "error", err)
		return
	}
	cmdCtx.Logger.Info("reformatted", "file", path)
}
