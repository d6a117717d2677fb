package classgen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"

	"golang.org/x/tools/imports"

	classes "github.com/grindlemire/go-classes"
)

// Generator transforms an analyzed AST into Go source code.
type Generator struct {
	buf        bytes.Buffer
	indent     int
	sourceFile string // original .classes filename for header comment

	// RuntimeImport is the import path of the classes runtime package.
	RuntimeImport string

	// SkipImports uses format.Source instead of imports.Process (faster for tests)
	SkipImports bool

	// SkipTables emits @static sets in the dynamic form instead of
	// enumerating their tables. The output references the same identifiers
	// and imports, which is all import resolution needs.
	SkipTables bool
}

// NewGenerator creates a new code generator.
func NewGenerator() *Generator {
	return &Generator{RuntimeImport: DefaultRuntimeImport}
}

// Generate produces Go source code from an analyzed AST. Every set must carry
// the plan attached by the Analyzer.
func (g *Generator) Generate(file *File, sourceFile string) ([]byte, error) {
	g.buf.Reset()
	g.indent = 0
	g.sourceFile = sourceFile

	for _, set := range file.Sets {
		if set.Plan == nil {
			return nil, fmt.Errorf("class set %s has not been analyzed", set.Name)
		}
	}

	g.generateHeader()
	g.writef("package %s\n\n", file.Package)
	g.generateImports(file.Imports)

	for _, set := range file.Sets {
		if err := g.generateSet(set); err != nil {
			return nil, err
		}
	}

	// For tests: just format without import processing (much faster)
	if g.SkipImports {
		return format.Source(g.buf.Bytes())
	}

	// For production: format and drop unused imports with goimports
	return imports.Process(g.sourceFile, g.buf.Bytes(), nil)
}

// GenerateString is a convenience method that returns the generated code as a string.
func (g *Generator) GenerateString(file *File, sourceFile string) (string, error) {
	data, err := g.Generate(file, sourceFile)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// generateHeader writes the "DO NOT EDIT" comment.
func (g *Generator) generateHeader() {
	g.writeln("// Code generated by classgen generate. DO NOT EDIT.")
	if g.sourceFile != "" {
		g.writef("// Source: %s\n", g.sourceFile)
	}
	g.writeln("")
}

// generateImports writes the import block, adding the runtime import when
// the file does not already declare it.
func (g *Generator) generateImports(imps []Import) {
	var others []Import
	for _, imp := range imps {
		if imp.Path == g.RuntimeImport && (imp.Alias == "" || imp.Alias == runtimeName) {
			continue
		}
		others = append(others, imp)
	}

	g.writeln("import (")
	g.indent++
	for _, imp := range others {
		if imp.Alias != "" {
			g.writef("%s %q\n", imp.Alias, imp.Path)
		} else {
			g.writef("%q\n", imp.Path)
		}
	}
	if len(others) > 0 {
		g.writeln("")
	}
	g.writef("%s %q\n", runtimeName, g.RuntimeImport)
	g.indent--
	g.writeln(")")
	g.writeln("")
}

// varName returns the package-level variable holding a set's plan or table.
func varName(set *ClassSet) string {
	return "__classes_" + set.Name
}

func (g *Generator) generateSet(set *ClassSet) error {
	// A set without conditions always renders the same string, so it is
	// served from a one-entry table regardless of its declared mode.
	if set.Plan.Flags() == 0 || (set.Mode == ModeStatic && !g.SkipTables) {
		return g.generateStaticSet(set)
	}
	g.generateDynamicSet(set)
	return nil
}

// generateDynamicSet emits a plan variable and a function that evaluates
// each condition in declaration order before binding the flags.
//
//	func Button(active bool) classes.Set {
//		var __flags [1]bool
//		__flags[0] = active
//		return __classes_Button.Bind(__flags[:]...)
//	}
func (g *Generator) generateDynamicSet(set *ClassSet) {
	name := varName(set)
	g.writef("var %s = ", name)
	g.generatePlan(set.Plan, ")")
	g.writeln("")

	g.generateDoc(set)
	g.writef("func %s(%s) %s.Set {\n", set.Name, paramList(set.Params), runtimeName)
	g.indent++
	g.writef("var __flags [%d]bool\n", len(set.Flags))
	for i, entry := range set.Flags {
		g.writef("__flags[%d] = %s\n", i, entry.Condition.Code)
	}
	g.writef("return %s.Bind(__flags[:]...)\n", name)
	g.indent--
	g.writeln("}")
	g.writeln("")
}

// generateStaticSet emits a table enumerated at generation time and a
// function that builds the mask and looks it up.
//
//	func Nav(open bool) classes.StaticSet {
//		var __mask uint64
//		if open {
//			__mask |= 1 << 0
//		}
//		return __classes_Nav.Lookup(__mask)
//	}
func (g *Generator) generateStaticSet(set *ClassSet) error {
	table, err := classes.BuildTable(set.Plan)
	if err != nil {
		return fmt.Errorf("class set %s: %w", set.Name, err)
	}

	name := varName(set)
	k := set.Plan.Flags()

	g.writef("var %s = %s.MustTable(\n", name, runtimeName)
	g.indent++
	g.writeIndent()
	g.generatePlan(set.Plan, "),")
	for mask := range uint64(table.Len()) {
		if k == 0 {
			g.writef("%q,\n", table.Lookup(mask).Render())
			continue
		}
		g.writef("%q, // %0*b\n", table.Lookup(mask).Render(), k, mask)
	}
	g.indent--
	g.writeln(")")
	g.writeln("")

	g.generateDoc(set)
	g.writef("func %s(%s) %s.StaticSet {\n", set.Name, paramList(set.Params), runtimeName)
	g.indent++
	if k == 0 {
		g.writef("return %s.Lookup(0)\n", name)
	} else {
		g.writeln("var __mask uint64")
		for i, entry := range set.Flags {
			g.writef("if %s {\n", ifCondition(entry.Condition.Code))
			g.indent++
			g.writef("__mask |= 1 << %d\n", i)
			g.indent--
			g.writeln("}")
		}
		g.writef("return %s.Lookup(__mask)\n", name)
	}
	g.indent--
	g.writeln("}")
	g.writeln("")
	return nil
}

// generatePlan writes a classes.MustPlan call reproducing the plan's
// segments, ending with closing and a newline. The caller positions the
// first line.
func (g *Generator) generatePlan(plan *classes.Plan, closing string) {
	g.buf.WriteString(runtimeName + ".MustPlan(\n")
	g.indent++
	for _, seg := range plan.Segments() {
		if seg.Kind == classes.Conditional {
			g.writef("%s.Flag(%q),\n", runtimeName, seg.Text)
			continue
		}
		quoted := make([]string, len(seg.Classes))
		for i, class := range seg.Classes {
			quoted[i] = fmt.Sprintf("%q", class)
		}
		g.writef("%s.Literal(%s),\n", runtimeName, strings.Join(quoted, ", "))
	}
	g.indent--
	g.writeln(closing)
}

// generateDoc carries the comment group directly above a set over to the
// generated function.
func (g *Generator) generateDoc(set *ClassSet) {
	doc := docComments(set)
	if len(doc) == 0 {
		return
	}
	for _, c := range doc {
		g.writeln(c.Text)
	}
}

// docComments returns the comments that end on the line immediately above
// the set, without a blank line in between.
func docComments(set *ClassSet) []*Comment {
	if set.LeadingComments == nil {
		return nil
	}
	groups := groupComments(set.LeadingComments.List)
	last := groups[len(groups)-1]
	if last.EndLine() != set.Position.Line-1 {
		return nil
	}
	return last.List
}

func paramList(params []*Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Type
	}
	return strings.Join(parts, ", ")
}

// ifCondition parenthesizes conditions containing braces, which Go would
// otherwise read as the start of the if body.
func ifCondition(code string) string {
	if strings.ContainsAny(code, "{}") {
		return "(" + code + ")"
	}
	return code
}

// writef writes a formatted string with indentation.
func (g *Generator) writef(format string, args ...any) {
	g.writeIndent()
	fmt.Fprintf(&g.buf, format, args...)
}

// writeln writes a line with indentation.
func (g *Generator) writeln(s string) {
	if s == "" {
		g.buf.WriteByte('\n')
		return
	}
	g.writeIndent()
	g.buf.WriteString(s)
	g.buf.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (g *Generator) writeIndent() {
	for i := 0; i < g.indent; i++ {
		g.buf.WriteByte('\t')
	}
}

// Options configures Compile.
type Options struct {
	RuntimeImport  string
	WarnConditions int
	SkipImports    bool
}

// Result is the output of Compile.
type Result struct {
	Code     []byte
	File     *File
	Warnings []*Error
}

// Compile parses, analyzes and generates code for a .classes source in one step.
func Compile(filename, source string, opts Options) (*Result, error) {
	file, err := Parse(filename, source)
	if err != nil {
		return nil, err
	}

	analyzer := NewAnalyzer()
	if opts.RuntimeImport != "" {
		analyzer.RuntimeImport = opts.RuntimeImport
	}
	analyzer.WarnConditions = opts.WarnConditions
	if err := analyzer.Analyze(file); err != nil {
		return &Result{File: file, Warnings: analyzer.Warnings()}, err
	}

	gen := NewGenerator()
	gen.RuntimeImport = analyzer.RuntimeImport
	gen.SkipImports = opts.SkipImports
	code, err := gen.Generate(file, filename)
	if err != nil {
		return nil, err
	}
	return &Result{Code: code, File: file, Warnings: analyzer.Warnings()}, nil
}

// ParseAndGenerate parses source code and generates Go code in one step
// with the default options.
func ParseAndGenerate(filename, source string) ([]byte, error) {
	return parseAndGenerate(filename, source, false)
}

// parseAndGenerateSkipImports is like ParseAndGenerate but uses format.Source
// instead of imports.Process. This is much faster for tests.
func parseAndGenerateSkipImports(filename, source string) ([]byte, error) {
	return parseAndGenerate(filename, source, true)
}

func parseAndGenerate(filename, source string, skipImports bool) ([]byte, error) {
	res, err := Compile(filename, source, Options{
		WarnConditions: DefaultWarnConditions,
		SkipImports:    skipImports,
	})
	if err != nil {
		return nil, err
	}
	return res.Code, nil
}
