package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grindlemire/go-classes/internal/watch"
)

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate Go code whenever a .classes file changes",
		Long: `Generate every .classes file below dir (default ".") and keep watching,
regenerating a file when it changes and removing its output when it is
deleted. Stops on interrupt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return a.runWatch(cmd.Context(), root)
		},
	}
}

func (a *app) runWatch(ctx context.Context, root string) error {
	if err := a.runGenerate(ctx, []string{root + "/..."}); err != nil {
		// A broken file must not stop the watcher from starting.
		a.logger.Error("initial generate failed", "error", err)
	}

	match, skipDir := a.watchFilters(root)
	w, err := watch.New(watch.Config{
		Root:     root,
		Match:    match,
		SkipDir:  skipDir,
		Debounce: a.cfg.Watch.Debounce,
		Logger:   a.logger,
	})
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	for ev := range w.Events() {
		a.handleWatchEvent(ev)
	}
	w.Wait()

	a.logger.Info("watcher stopped")
	return nil
}

func (a *app) handleWatchEvent(ev watch.Event) {
	outputPath := a.cfg.OutputPath(ev.Path)

	if ev.Operation == watch.OpDelete {
		err := os.Remove(outputPath)
		switch {
		case err == nil:
			a.logger.Info("removed", "output", outputPath)
		case !errors.Is(err, fs.ErrNotExist):
			a.logger.Error("remove failed", "output", outputPath, "error", err)
		}
		return
	}

	if err := a.generateFile(ev.Path, outputPath); err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", ev.Path, err)
		return
	}
	a.logger.Info("generated", "input", ev.Rel, "output", outputPath, "op", ev.Operation)
}

// watchFilters adapts the config patterns, which are relative to the working
// directory, to the root-relative paths the watcher reports.
func (a *app) watchFilters(root string) (match, skipDir func(rel string) bool) {
	match = func(rel string) bool {
		return a.cfg.Match(filepath.Join(root, rel))
	}
	skipDir = func(rel string) bool {
		return a.cfg.Excluded(filepath.Join(root, rel))
	}
	return match, skipDir
}
