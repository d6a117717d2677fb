package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grindlemire/go-classes/internal/formatter"
)

func fmtCmd(a *app) *cobra.Command {
	var (
		stdout bool
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [path...]",
		Short: "Format .classes files",
		Example: `  classgen fmt ./...                Format all .classes files recursively
  classgen fmt --check ./...        Check formatting without modifying
  classgen fmt --stdout ui.classes  Print formatted output to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(a.cfg, defaultPaths(args))
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no %s files found", sourceExt)
			}

			fmtr := formatter.New()
			fmtr.RuntimeImport = a.cfg.RuntimeImport

			switch {
			case check:
				return a.runFmtCheck(cmd.Context(), fmtr, files)
			case stdout:
				return a.runFmtStdout(fmtr, files)
			default:
				return a.runFmtInPlace(cmd.Context(), fmtr, files)
			}
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print formatted output instead of rewriting files")
	cmd.Flags().BoolVar(&check, "check", false, "Report unformatted files and exit 1 without modifying them")

	return cmd
}

func formatFile(fmtr *formatter.Formatter, path string) (formatter.FormatResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return formatter.FormatResult{}, fmt.Errorf("reading file: %w", err)
	}
	return fmtr.FormatWithResult(filepath.Base(path), string(source))
}

// runFmtInPlace formats files in place, modifying them on disk.
func (a *app) runFmtInPlace(ctx context.Context, fmtr *formatter.Formatter, files []string) error {
	changed := make([]bool, len(files))
	errs := a.forEachFile(ctx, files, func(i int, path string) error {
		res, err := formatFile(fmtr, path)
		if err != nil {
			return err
		}
		if !res.Changed {
			return nil
		}
		if err := os.WriteFile(path, []byte(res.Content), 0o644); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
		changed[i] = true
		return nil
	})

	for i, path := range files {
		if changed[i] {
			fmt.Fprintf(a.stdout, "Formatted: %s\n", path)
		}
	}
	return a.report(files, errs)
}

// runFmtCheck lists files that are not formatted.
func (a *app) runFmtCheck(ctx context.Context, fmtr *formatter.Formatter, files []string) error {
	unformatted := make([]bool, len(files))
	errs := a.forEachFile(ctx, files, func(i int, path string) error {
		res, err := formatFile(fmtr, path)
		if err != nil {
			return err
		}
		unformatted[i] = res.Changed
		return nil
	})
	if err := a.report(files, errs); err != nil {
		return err
	}

	var count int
	for i, path := range files {
		if unformatted[i] {
			fmt.Fprintln(a.stdout, path)
			count++
		}
	}
	if count > 0 {
		return fmt.Errorf("%d file(s) not formatted", count)
	}
	return nil
}

// runFmtStdout formats files and prints them to stdout.
func (a *app) runFmtStdout(fmtr *formatter.Formatter, files []string) error {
	errs := make([]error, len(files))
	for i, path := range files {
		res, err := formatFile(fmtr, path)
		if err != nil {
			errs[i] = err
			continue
		}
		fmt.Fprint(a.stdout, res.Content)
	}
	return a.report(files, errs)
}
