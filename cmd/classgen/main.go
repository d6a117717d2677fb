// Package main provides the classgen CLI, the compiler for .classes files.
//
// Usage:
//
//	classgen generate [path...]    Generate Go code from .classes files
//	classgen check [path...]       Check .classes files without generating
//	classgen fmt [path...]         Format .classes files
//	classgen inspect [path...]     Print the analyzed segments of each class set
//	classgen watch [dir]           Regenerate on change
//
// Examples:
//
//	classgen generate ./...        Recursively find and compile all .classes files
//	classgen generate ./ui         Process a specific directory
//	classgen check button.classes  Check syntax without generating
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grindlemire/go-classes/internal/config"
)

const (
	version = "0.1.0"
	appName = "classgen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer

	logFile *os.File
}

// closeLog closes the --log-file target, if any. It is safe to call twice.
func (a *app) closeLog() {
	if a.logFile == nil {
		return
	}
	_ = a.logFile.Close()
	a.logFile = nil
}

func rootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	var (
		configPath string
		logLevel   string
		logPath    string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Compiler for .classes class-list declarations",
		Long: `classgen compiles .classes files into Go code that renders CSS class lists.

Static class runs are merged at compile time, invalid, duplicate and HTML unsafe
class names are rejected before any code is written, and @static sets are
enumerated into lookup tables.

For more information, see https://github.com/grindlemire/go-classes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logLevel = "debug"
			}
			a.stdout = cmd.OutOrStdout()
			a.stderr = cmd.ErrOrStderr()

			if logPath == "" {
				logPath = os.Getenv(logFileEnv)
			}
			logOut := a.stderr
			if logPath != "" {
				f, err := openLogFile(logPath)
				if err != nil {
					return err
				}
				a.logFile = f
				logOut = f
				// Finalizers run after Execute whether or not the command failed.
				cobra.OnFinalize(a.closeLog)
			}
			a.logger = newLogger(logOut, logLevel)
			slog.SetDefault(a.logger)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default "+config.FileName+" if present)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logPath, "log-file", "", "Append logs to this file instead of stderr (default $"+logFileEnv+")")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (same as --log-level debug)")

	cmd.AddCommand(
		generateCmd(a),
		checkCmd(a),
		fmtCmd(a),
		inspectCmd(a),
		watchCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
			},
		},
	)

	return cmd
}

func newLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// defaultPaths returns the current directory when no paths were given.
func defaultPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
