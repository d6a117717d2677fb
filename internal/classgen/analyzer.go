package classgen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	classes "github.com/grindlemire/go-classes"
)

// DefaultRuntimeImport is the import path of the classes runtime package.
const DefaultRuntimeImport = "github.com/grindlemire/go-classes"

// DefaultWarnConditions is the static set size above which the Analyzer
// warns about the size of the enumerated table.
const DefaultWarnConditions = 8

// runtimeName is the package name generated code uses for the runtime import.
const runtimeName = "classes"

// Analyzer performs semantic analysis on parsed .classes files.
// Every set is run through the runtime analysis so generated code can only
// ever construct valid plans, and conditions are checked as Go expressions.
type Analyzer struct {
	errors   *ErrorList
	warnings *ErrorList

	// RuntimeImport is the import path generated code uses for the runtime.
	RuntimeImport string
	// WarnConditions is the number of conditions above which a @static set
	// produces a warning. Zero disables the warning.
	WarnConditions int
}

// NewAnalyzer creates a new semantic analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		errors:         NewErrorList(),
		warnings:       NewErrorList(),
		RuntimeImport:  DefaultRuntimeImport,
		WarnConditions: DefaultWarnConditions,
	}
}

// Warnings returns the warnings produced by the last call to Analyze.
func (a *Analyzer) Warnings() []*Error {
	return a.warnings.Errors()
}

// Analyze validates file and annotates every class set with its plan and
// flag order. It returns an *ErrorList when any set is invalid.
func (a *Analyzer) Analyze(file *File) error {
	a.errors = NewErrorList()
	a.warnings = NewErrorList()

	a.checkImports(file)

	seen := make(map[string]Position, len(file.Sets))
	for _, set := range file.Sets {
		if prev, ok := seen[set.Name]; ok {
			a.errors.Add(NewErrorWithHint(set.Position,
				fmt.Sprintf("class set %s redeclared", set.Name),
				"previous declaration at "+prev.String()))
		} else {
			seen[set.Name] = set.Position
		}
		a.analyzeSet(set)
	}

	a.errors.Sort()
	a.warnings.Sort()
	return a.errors.Err()
}

// checkImports rejects imports that would shadow the runtime package name.
func (a *Analyzer) checkImports(file *File) {
	for _, imp := range file.Imports {
		if imp.Alias == runtimeName && imp.Path != a.RuntimeImport {
			a.errors.Add(NewErrorWithHint(imp.Position,
				fmt.Sprintf("import name %s is reserved for %s", runtimeName, a.RuntimeImport),
				"choose a different alias"))
		}
	}
}

func (a *Analyzer) analyzeSet(set *ClassSet) {
	set.Plan = nil
	set.Flags = nil

	shadowed := a.checkParams(set)

	entries := make([]classes.Entry, len(set.Entries))
	valid := true
	for i, e := range set.Entries {
		name := e.Class.Value
		if e.Condition == nil {
			entries[i] = classes.Class(name)
			continue
		}

		expr, err := parser.ParseExpr(e.Condition.Code)
		if err != nil {
			a.errors.Add(NewErrorWithHint(e.Condition.Position,
				fmt.Sprintf("invalid condition for %q: %s", name, firstParseError(err)),
				"conditions must be Go boolean expressions"))
			entries[i] = classes.Positional(name)
			valid = false
			continue
		}

		if enabled, ok := foldCondition(expr, shadowed); ok {
			entries[i] = classes.If(name, enabled)
			continue
		}
		entries[i] = classes.Positional(name)
	}

	plan, err := classes.Analyze(entries...)
	if err != nil {
		a.addClassErrors(set, err)
		return
	}
	if !valid {
		return
	}

	for i, e := range entries {
		if e.Conditional() {
			set.Flags = append(set.Flags, set.Entries[i])
		}
	}
	set.Plan = plan

	if set.Mode != ModeStatic {
		return
	}
	switch k := plan.Flags(); {
	case k > classes.MaxStaticConditions:
		a.errors.Add(NewErrorWithHint(set.Position,
			fmt.Sprintf("static class set %s has %d conditional classes, at most %d are supported", set.Name, k, classes.MaxStaticConditions),
			"use @classes instead"))
		set.Plan = nil
		set.Flags = nil
	case a.WarnConditions > 0 && k > a.WarnConditions:
		a.warnings.Add(&Error{
			Pos:      set.Position,
			Message:  fmt.Sprintf("static class set %s has %d conditional classes and enumerates %d combinations", set.Name, k, 1<<k),
			Hint:     "consider @classes",
			Severity: SeverityWarning,
		})
	}
}

// checkParams reports duplicate and reserved parameter names and returns the
// names that shadow the predeclared booleans.
func (a *Analyzer) checkParams(set *ClassSet) map[string]bool {
	shadowed := make(map[string]bool)
	seen := make(map[string]bool, len(set.Params))
	for _, param := range set.Params {
		switch {
		case seen[param.Name] && param.Name != "_":
			a.errors.AddErrorf(param.Position, "duplicate parameter %s in %s", param.Name, set.Name)
		case strings.HasPrefix(param.Name, "__"):
			a.errors.AddErrorf(param.Position, "parameter %s: names beginning with __ are reserved for generated code", param.Name)
		}
		seen[param.Name] = true
		if param.Name == "true" || param.Name == "false" {
			shadowed[param.Name] = true
		}
	}
	return shadowed
}

// addClassErrors re-positions runtime analysis errors onto the class literals
// they refer to.
func (a *Analyzer) addClassErrors(set *ClassSet, err error) {
	var list *classes.ErrorList
	if !errors.As(err, &list) {
		a.errors.AddErrorf(set.Position, "%s: %v", set.Name, err)
		return
	}

	for _, e := range list.Errors() {
		if e.Index < 0 || e.Index >= len(set.Entries) {
			a.errors.AddErrorf(set.Position, "%s: %v", set.Name, e)
			continue
		}
		pos := set.Entries[e.Index].Class.Position

		switch {
		case errors.Is(e, classes.ErrDuplicateClass):
			prev := set.Entries[e.Previous].Class.Position
			a.errors.Add(NewErrorWithHint(pos,
				fmt.Sprintf("duplicate class %q in %s", e.Class, set.Name),
				"previous occurrence at "+prev.String()))
		case errors.Is(e, classes.ErrEmptyClass):
			a.errors.Add(NewError(pos, e.Kind.Error()))
		case e.Offset >= 0:
			a.errors.Add(NewErrorWithHint(pos,
				fmt.Sprintf("%v: %q", e.Kind, e.Class),
				fmt.Sprintf("byte %q at offset %d", e.Class[e.Offset:e.Offset+1], e.Offset)))
		default:
			a.errors.Add(NewErrorf(pos, "%v: %q", e.Kind, e.Class))
		}
	}
}

// foldCondition reports the value of a condition that is known without
// running it: the literals true and false, possibly parenthesized or negated.
func foldCondition(expr ast.Expr, shadowed map[string]bool) (value, ok bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		if shadowed[e.Name] {
			return false, false
		}
		switch e.Name {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	case *ast.ParenExpr:
		return foldCondition(e.X, shadowed)
	case *ast.UnaryExpr:
		if e.Op == token.NOT {
			v, ok := foldCondition(e.X, shadowed)
			return !v, ok
		}
	}
	return false, false
}

// firstParseError trims a go/parser error list to its first message.
func firstParseError(err error) string {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return list[0].Msg
	}
	return err.Error()
}
