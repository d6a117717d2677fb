package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindlemire/go-classes/internal/config"
	"github.com/grindlemire/go-classes/internal/formatter"
)

const buttonSource = `package ui

@classes Button(active bool) {
	"btn",
	"btn-primary",
	"btn-active": active,
}
`

const navSource = `package ui

@static Nav(open bool) {
	"nav",
	"nav-open": open,
}
`

// testApp returns an app writing into buffers, rooted in a fresh temporary
// working directory.
func testApp(t *testing.T) (*app, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Chdir(t.TempDir())

	cfg := config.DefaultConfig()
	cfg.Generate.SkipImports = true

	var stdout, stderr bytes.Buffer
	return &app{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		stdout: &stdout,
		stderr: &stderr,
	}, &stdout, &stderr
}

func newTestFormatter(a *app) *formatter.Formatter {
	f := formatter.New()
	f.RuntimeImport = a.cfg.RuntimeImport
	return f
}

func writeFiles(t *testing.T, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestCollectFiles(t *testing.T) {
	type tc struct {
		paths []string
		want  []string
	}

	tests := map[string]tc{
		"recursive": {
			paths: []string{"./..."},
			want: []string{
				"button.classes",
				filepath.Join("ui", "card.classes"),
				filepath.Join("ui", "nested", "tab.classes"),
			},
		},
		"recursive subdir": {
			paths: []string{"ui/..."},
			want: []string{
				filepath.Join("ui", "card.classes"),
				filepath.Join("ui", "nested", "tab.classes"),
			},
		},
		"directory is not recursive": {
			paths: []string{"ui"},
			want:  []string{filepath.Join("ui", "card.classes")},
		},
		"explicit file": {
			paths: []string{filepath.Join("ui", "testdata", "bad.classes")},
			want:  []string{filepath.Join("ui", "testdata", "bad.classes")},
		},
		"duplicates removed": {
			paths: []string{"button.classes", "./button.classes", "."},
			want:  []string{"button.classes"},
		},
		"non classes file ignored": {
			paths: []string{"notes.txt"},
			want:  nil,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, _, _ := testApp(t)
			writeFiles(t, map[string]string{
				"button.classes":          buttonSource,
				"notes.txt":               "x",
				"ui/card.classes":         buttonSource,
				"ui/nested/tab.classes":   buttonSource,
				"ui/testdata/bad.classes": "bad",
				"vendor/lib/lib.classes":  buttonSource,
				".hidden/secret.classes":  buttonSource,
			})

			got, err := collectFiles(a.cfg, tt.paths)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectFiles_MissingPath(t *testing.T) {
	a, _, _ := testApp(t)

	_, err := collectFiles(a.cfg, []string{"missing.classes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat missing.classes")
}

func TestRunGenerate(t *testing.T) {
	a, _, _ := testApp(t)
	writeFiles(t, map[string]string{
		"button.classes":     buttonSource,
		"ui/nav-bar.classes": navSource,
	})

	require.NoError(t, a.runGenerate(context.Background(), []string{"./..."}))

	button, err := os.ReadFile("button_classes.go")
	require.NoError(t, err)
	assert.Contains(t, string(button), "// Code generated by classgen generate. DO NOT EDIT.")
	assert.Contains(t, string(button), `classes.Literal("btn", "btn-primary"),`)
	assert.Contains(t, string(button), "func Button(active bool) classes.Set {")

	nav, err := os.ReadFile(filepath.Join("ui", "nav_bar_classes.go"))
	require.NoError(t, err)
	assert.Contains(t, string(nav), "classes.MustTable(")
	assert.Contains(t, string(nav), `"nav nav-open",`)
}

func TestRunGenerate_Errors(t *testing.T) {
	a, _, stderr := testApp(t)
	writeFiles(t, map[string]string{
		"good.classes": buttonSource,
		"bad.classes": `package ui

@classes Bad() {
	"btn",
	"btn",
}
`,
	})

	err := a.runGenerate(context.Background(), []string{"."})
	require.Error(t, err)
	assert.Equal(t, "1 file(s) had errors", err.Error())
	assert.Contains(t, stderr.String(), "bad.classes")
	assert.Contains(t, stderr.String(), `duplicate class "btn"`)

	_, err = os.Stat("good_classes.go")
	require.NoError(t, err)
	_, err = os.Stat("bad_classes.go")
	assert.True(t, os.IsNotExist(err))
}

func TestRunGenerate_NoFiles(t *testing.T) {
	a, _, _ := testApp(t)

	err := a.runGenerate(context.Background(), []string{"./..."})
	require.Error(t, err)
	assert.Equal(t, "no .classes files found", err.Error())
}

func TestRunCheck(t *testing.T) {
	type tc struct {
		source  string
		wantErr string
	}

	tests := map[string]tc{
		"valid": {
			source: buttonSource,
		},
		"unsafe class": {
			source: `package ui

@classes Link() {
	"a<b",
}
`,
			wantErr: "HTML unsafe",
		},
		"invalid condition": {
			source: `package ui

@classes Link(on bool) {
	"link",
	"link-on": on &&,
}
`,
			wantErr: "invalid condition",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, _, stderr := testApp(t)
			writeFiles(t, map[string]string{"x.classes": tt.source})

			err := a.runCheck(context.Background(), []string{"x.classes"})
			if tt.wantErr == "" {
				require.NoError(t, err)
				_, statErr := os.Stat("x_classes.go")
				assert.True(t, os.IsNotExist(statErr), "check must not write output")
				return
			}
			require.Error(t, err)
			assert.Contains(t, stderr.String(), tt.wantErr)
		})
	}
}

func TestFmtCommands(t *testing.T) {
	unformatted := "package ui\n@classes Button(active bool) {\"btn\",\"btn-active\":active}\n"

	t.Run("check reports unformatted files", func(t *testing.T) {
		a, stdout, _ := testApp(t)
		writeFiles(t, map[string]string{"x.classes": unformatted, "y.classes": buttonSource})

		err := a.runFmtCheck(context.Background(), newTestFormatter(a), []string{"x.classes", "y.classes"})
		require.Error(t, err)
		assert.Equal(t, "x.classes\n", stdout.String())
	})

	t.Run("in place rewrites files", func(t *testing.T) {
		a, stdout, _ := testApp(t)
		writeFiles(t, map[string]string{"x.classes": unformatted})

		require.NoError(t, a.runFmtInPlace(context.Background(), newTestFormatter(a), []string{"x.classes"}))
		assert.Equal(t, "Formatted: x.classes\n", stdout.String())

		got, err := os.ReadFile("x.classes")
		require.NoError(t, err)
		assert.Contains(t, string(got), "\t\"btn-active\": active,\n")

		stdout.Reset()
		require.NoError(t, a.runFmtCheck(context.Background(), newTestFormatter(a), []string{"x.classes"}))
		assert.Empty(t, stdout.String())
	})

	t.Run("stdout leaves files alone", func(t *testing.T) {
		a, stdout, _ := testApp(t)
		writeFiles(t, map[string]string{"x.classes": unformatted})

		require.NoError(t, a.runFmtStdout(newTestFormatter(a), []string{"x.classes"}))
		assert.Contains(t, stdout.String(), "@classes Button(active bool) {")

		got, err := os.ReadFile("x.classes")
		require.NoError(t, err)
		assert.Equal(t, unformatted, string(got))
	})
}

func TestInspect(t *testing.T) {
	a, _, _ := testApp(t)
	writeFiles(t, map[string]string{"nav.classes": navSource, "button.classes": buttonSource})

	var out bytes.Buffer
	require.NoError(t, a.inspectFile(&out, "nav.classes", 64))
	assert.Contains(t, out.String(), "nav.classes: @static Nav (1 flags)")
	assert.Contains(t, out.String(), `  literal  "nav"`)
	assert.Contains(t, out.String(), `"nav-open" when open`)
	assert.Contains(t, out.String(), "  table (2 rows)")
	assert.Contains(t, out.String(), `    0 "nav"`)
	assert.Contains(t, out.String(), `    1 "nav nav-open"`)

	out.Reset()
	require.NoError(t, a.inspectFile(&out, "button.classes", 64))
	assert.Contains(t, out.String(), `  literal  "btn btn-primary"`)
	assert.NotContains(t, out.String(), "table")
}

func TestRootCmd_Version(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "classgen version "+version+"\n", out.String())
}

func TestRootCmd_BadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFiles(t, map[string]string{config.FileName: "generate:\n  jobs: 0\n"})

	cmd := rootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"check"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate.jobs")
}

func TestRootCmd_LogFile(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFiles(t, map[string]string{"button.classes": buttonSource})
	logPath := filepath.Join("logs", "classgen.log")

	cmd := rootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"check", "-v", "--log-file", logPath, "."})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=DEBUG")
	assert.Contains(t, string(data), "checking files")
}

func TestRootCmd_LogFileClosedOnError(t *testing.T) {
	t.Chdir(t.TempDir())
	logPath := "classgen.log"

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"check", "-v", "--log-file", logPath, "missing.classes"})

	require.Error(t, cmd.Execute())
	assert.Nil(t, a.logFile)

	_, err := os.Stat(logPath)
	require.NoError(t, err)
}

func TestWatchFilters(t *testing.T) {
	type tc struct {
		root     string
		rel      string
		wantFile bool
		wantSkip bool
	}

	tests := map[string]tc{
		"plain file under root":          {root: "ui", rel: "card.classes", wantFile: true},
		"prefixed exclude applies":      {root: "ui", rel: "legacy/old.classes", wantSkip: true},
		"prefixed exclude other root":   {root: "web", rel: "legacy/old.classes", wantFile: true},
		"default exclude still applies": {root: ".", rel: "vendor/x/y.classes", wantSkip: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, _, _ := testApp(t)
			a.cfg.Exclude = append(a.cfg.Exclude, "ui/legacy/**")

			match, skipDir := a.watchFilters(tt.root)
			assert.Equal(t, tt.wantFile, match(tt.rel))
			assert.Equal(t, tt.wantSkip, skipDir(filepath.Dir(tt.rel)))
		})
	}
}
