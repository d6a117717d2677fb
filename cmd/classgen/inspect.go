package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grindlemire/go-classes/internal/classgen"
)

func inspectCmd(a *app) *cobra.Command {
	var maxRows int

	cmd := &cobra.Command{
		Use:   "inspect [path...]",
		Short: "Print the analyzed segments of each class set",
		Long: `Print each class set after analysis: merged literal runs, conditional
flags in bit order and, for @static sets, the enumerated lookup table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(a.cfg, defaultPaths(args))
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no %s files found", sourceExt)
			}

			errs := make([]error, len(files))
			for i, path := range files {
				errs[i] = a.inspectFile(a.stdout, path, maxRows)
			}
			return a.report(files, errs)
		},
	}

	cmd.Flags().IntVar(&maxRows, "max-rows", 64, "Maximum table rows printed per @static set")

	return cmd
}

func (a *app) inspectFile(w io.Writer, path string, maxRows int) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	file, err := classgen.Parse(filepath.Base(path), string(source))
	if err != nil {
		return err
	}

	analyzer := classgen.NewAnalyzer()
	analyzer.RuntimeImport = a.cfg.RuntimeImport
	analyzer.WarnConditions = a.cfg.Static.WarnConditions
	if err := analyzer.Analyze(file); err != nil {
		return err
	}

	for _, set := range file.Sets {
		printSet(w, path, set, maxRows)
	}
	return nil
}

func printSet(w io.Writer, path string, set *classgen.ClassSet, maxRows int) {
	plan := set.Plan
	k := plan.Flags()
	fmt.Fprintf(w, "%s: %s %s (%d flags)\n", path, set.Mode, set.Name, k)

	for _, seg := range plan.Segments() {
		if seg.Flag < 0 {
			fmt.Fprintf(w, "  literal  %q\n", seg.Text)
			continue
		}
		cond := ""
		if seg.Flag < len(set.Flags) && set.Flags[seg.Flag].Condition != nil {
			cond = set.Flags[seg.Flag].Condition.Code
		}
		fmt.Fprintf(w, "  flag %-3d %q when %s\n", seg.Flag, seg.Text, cond)
	}

	if set.Mode != classgen.ModeStatic && k > 0 {
		return
	}

	rows := uint64(1) << k
	shown := rows
	if maxRows >= 0 && uint64(maxRows) < rows {
		shown = uint64(maxRows)
	}
	fmt.Fprintf(w, "  table (%d rows)\n", rows)

	flags := make([]bool, k)
	for mask := range shown {
		for i := range flags {
			flags[i] = mask&(1<<i) != 0
		}
		fmt.Fprintf(w, "    %0*b %q\n", max(k, 1), mask, plan.Render(flags...))
	}
	if shown < rows {
		fmt.Fprintf(w, "    ... %d more\n", rows-shown)
	}
}
