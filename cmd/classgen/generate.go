package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/go-classes/internal/classgen"
)

func generateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [path...]",
		Short: "Generate Go code from .classes files",
		Example: `  classgen generate ./...          Recursively process all .classes files
  classgen generate ./ui           Process files in a directory
  classgen generate button.classes Process a specific file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd.Context(), defaultPaths(args))
		},
	}
}

// runGenerate compiles every collected file, writing outputs next to the inputs.
func (a *app) runGenerate(ctx context.Context, paths []string) error {
	files, err := collectFiles(a.cfg, paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", sourceExt)
	}

	a.logger.Debug("found input files", "count", len(files))

	errs := a.forEachFile(ctx, files, func(_ int, inputPath string) error {
		outputPath := a.cfg.OutputPath(inputPath)
		a.logger.Debug("generating", "input", inputPath, "output", outputPath)
		return a.generateFile(inputPath, outputPath)
	})
	if err := a.report(files, errs); err != nil {
		return err
	}

	a.logger.Debug("generated files", "count", len(files))
	return nil
}

// forEachFile runs fn over files with at most generate.jobs in flight and
// returns the per-file errors in input order.
func (a *app) forEachFile(ctx context.Context, files []string, fn func(i int, path string) error) []error {
	errs := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Generate.Jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(i, path)
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

// report prints the per-file errors and summarizes them.
func (a *app) report(files []string, errs []error) error {
	var errorCount int
	for i, err := range errs {
		if err == nil {
			continue
		}
		fmt.Fprintf(a.stderr, "%s: %v\n", files[i], err)
		errorCount++
	}
	if errorCount > 0 {
		return fmt.Errorf("%d file(s) had errors", errorCount)
	}
	return nil
}

// compileFile reads and compiles a .classes file, logging any warnings.
func (a *app) compileFile(inputPath string, skipImports bool) (*classgen.Result, error) {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	res, err := classgen.Compile(filepath.Base(inputPath), string(source), classgen.Options{
		RuntimeImport:  a.cfg.RuntimeImport,
		WarnConditions: a.cfg.Static.WarnConditions,
		SkipImports:    skipImports,
	})
	if res != nil {
		for _, w := range res.Warnings {
			a.logger.Warn(w.Message, "file", inputPath, "line", w.Pos.Line, "hint", w.Hint)
		}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// generateFile compiles a .classes file and writes the generated Go file.
func (a *app) generateFile(inputPath, outputPath string) error {
	res, err := a.compileFile(inputPath, a.cfg.Generate.SkipImports)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, res.Code, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
