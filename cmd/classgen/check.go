package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [path...]",
		Short: "Check .classes files without generating code",
		Long: `Parse and analyze .classes files, reporting every invalid, duplicate or
HTML unsafe class name and every malformed condition. Nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd.Context(), defaultPaths(args))
		},
	}
}

func (a *app) runCheck(ctx context.Context, paths []string) error {
	files, err := collectFiles(a.cfg, paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", sourceExt)
	}

	a.logger.Debug("checking files", "count", len(files))

	// Generation runs too so static tables are built, but imports are not
	// resolved since the output is discarded.
	errs := a.forEachFile(ctx, files, func(_ int, path string) error {
		_, err := a.compileFile(path, true)
		return err
	})
	if err := a.report(files, errs); err != nil {
		return err
	}

	a.logger.Debug("all files passed checks", "count", len(files))
	return nil
}
