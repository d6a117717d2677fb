package classgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_DynamicGolden(t *testing.T) {
	input := `package ui

import "strings"

// Button renders button classes.
@classes Button(active bool, size string) {
	"btn",
	"btn-primary",
	"btn-active": active,
	"btn-lg": strings.EqualFold(size, "lg"),
}
`
	want := `// Code generated by classgen generate. DO NOT EDIT.
// Source: button.classes

package ui

import (
	"strings"

	classes "github.com/grindlemire/go-classes"
)

var __classes_Button = classes.MustPlan(
	classes.Literal("btn", "btn-primary"),
	classes.Flag("btn-active"),
	classes.Flag("btn-lg"),
)

// Button renders button classes.
func Button(active bool, size string) classes.Set {
	var __flags [2]bool
	__flags[0] = active
	__flags[1] = strings.EqualFold(size, "lg")
	return __classes_Button.Bind(__flags[:]...)
}
`

	out, err := parseAndGenerateSkipImports("button.classes", input)
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
}

func TestGenerator_Sets(t *testing.T) {
	type tc struct {
		input           string
		wantContains    []string
		wantNotContains []string
	}

	tests := map[string]tc{
		"static set enumerates table": {
			input: `package ui
@static Nav(open bool, dark bool) {
	"nav",
	"nav-open": open,
	"nav-dark": dark,
}`,
			wantContains: []string{
				"var __classes_Nav = classes.MustTable(",
				"classes.MustPlan(",
				`classes.Literal("nav"),`,
				`classes.Flag("nav-open"),`,
				`classes.Flag("nav-dark"),`,
				`"nav",`,
				`"nav nav-open",`,
				`"nav nav-dark",`,
				`"nav nav-open nav-dark",`,
				"// 00",
				"// 11",
				"func Nav(open bool, dark bool) classes.StaticSet {",
				"var __mask uint64",
				"if open {\n\t\t__mask |= 1 << 0\n\t}",
				"if dark {\n\t\t__mask |= 1 << 1\n\t}",
				"return __classes_Nav.Lookup(__mask)",
			},
			wantNotContains: []string{"__flags", "Bind("},
		},
		"unconditional dynamic set becomes a table": {
			input: `package ui
@classes Card() { "card", "shadow" }`,
			wantContains: []string{
				"var __classes_Card = classes.MustTable(",
				`classes.Literal("card", "shadow"),`,
				`"card shadow",`,
				"func Card() classes.StaticSet {",
				"return __classes_Card.Lookup(0)",
			},
			wantNotContains: []string{"__mask", "__flags"},
		},
		"folded conditions are resolved at generation time": {
			input: `package ui
@classes Debug(on bool) {
	"base",
	"always": true,
	"never": !true,
	"maybe": on,
}`,
			wantContains: []string{
				`classes.Literal("base", "always"),`,
				`classes.Flag("maybe"),`,
				"var __flags [1]bool",
				"__flags[0] = on",
			},
			wantNotContains: []string{`"never"`},
		},
		"literal runs between conditionals": {
			input: `package ui
@classes Row(a, b bool) { "row", "x": a, "mid", "end", "y": b, "tail" }`,
			wantContains: []string{
				`classes.Literal("row"),`,
				`classes.Flag("x"),`,
				`classes.Literal("mid", "end"),`,
				`classes.Flag("y"),`,
				`classes.Literal("tail"),`,
				"__flags[0] = a",
				"__flags[1] = b",
			},
		},
		"brace conditions are parenthesized in static sets": {
			input: `package ui
@static P(p Point) { "origin": p == Point{} }`,
			wantContains: []string{"if (p == Point{}) {"},
		},
		"multiple sets keep order": {
			input: `package ui
@classes First(a bool) { "a": a }
@static Second(b bool) { "b": b }`,
			wantContains: []string{
				"func First(a bool) classes.Set {",
				"func Second(b bool) classes.StaticSet {",
			},
		},
		"detached comment is not a doc comment": {
			input: `package ui
// unrelated

@classes A() { "a" }`,
			wantNotContains: []string{"// unrelated"},
		},
		"existing runtime import is not duplicated": {
			input: `package ui
import classes "github.com/grindlemire/go-classes"
@classes A() { "a" }`,
			wantContains: []string{`classes "github.com/grindlemire/go-classes"`},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := parseAndGenerateSkipImports("test.classes", tt.input)
			require.NoError(t, err)
			code := string(out)
			for _, want := range tt.wantContains {
				assert.Contains(t, code, want)
			}
			for _, notWant := range tt.wantNotContains {
				assert.NotContains(t, code, notWant)
			}
		})
	}
}

func TestGenerator_RuntimeImportOnce(t *testing.T) {
	out, err := parseAndGenerateSkipImports("test.classes", `package ui
import classes "github.com/grindlemire/go-classes"
@classes A() { "a" }`)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(out), `"github.com/grindlemire/go-classes"`))
}

func TestGenerator_CustomRuntimeImport(t *testing.T) {
	res, err := Compile("test.classes", `package ui
@classes A(on bool) { "a": on }`, Options{
		RuntimeImport: "example.com/fork/classes",
		SkipImports:   true,
	})
	require.NoError(t, err)
	assert.Contains(t, string(res.Code), `classes "example.com/fork/classes"`)
	assert.NotContains(t, string(res.Code), "grindlemire")
}

func TestGenerator_RequiresAnalysis(t *testing.T) {
	file, err := Parse("test.classes", `package ui
@classes A() { "a" }`)
	require.NoError(t, err)

	gen := NewGenerator()
	gen.SkipImports = true
	_, err = gen.Generate(file, "test.classes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class set A has not been analyzed")
}

func TestCompile_ReportsWarnings(t *testing.T) {
	res, err := Compile("test.classes", staticSet("@static", 4), Options{
		WarnConditions: 3,
		SkipImports:    true,
	})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.NotEmpty(t, res.Code)
}

func TestCompile_AnalysisError(t *testing.T) {
	res, err := Compile("test.classes", `package ui
@classes A() { "a", "a" }`, Options{SkipImports: true})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Nil(t, res.Code)
	assert.Contains(t, err.Error(), `duplicate class "a"`)
}

func TestGenerator_SkipTables(t *testing.T) {
	file, err := Parse("test.classes", staticSet("@static", 24)+`
@static Fixed() {
	"fixed",
}
`)
	require.NoError(t, err)
	require.NoError(t, NewAnalyzer().Analyze(file))

	gen := NewGenerator()
	gen.SkipImports = true
	gen.SkipTables = true
	out, err := gen.Generate(file, "test.classes")
	require.NoError(t, err)

	code := string(out)
	assert.Contains(t, code, "var __classes_S = classes.MustPlan(")
	assert.Contains(t, code, "func S(on bool) classes.Set {")
	assert.Contains(t, code, "var __flags [24]bool")
	assert.NotContains(t, code, "__classes_S = classes.MustTable(")
	// sets without conditions keep their one-entry table
	assert.Contains(t, code, "var __classes_Fixed = classes.MustTable(")
}
