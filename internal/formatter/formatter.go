package formatter

import (
	"github.com/grindlemire/go-classes/internal/classgen"
)

// Formatter formats .classes source code.
type Formatter struct {
	// IndentString is the string used for indentation (default: tab).
	IndentString string
	// FixImports drops unused imports and adds missing standard library
	// imports by running the generated code through goimports.
	FixImports bool
	// RuntimeImport is the runtime import path used when fixing imports.
	RuntimeImport string
}

// New creates a new Formatter with default settings.
func New() *Formatter {
	return &Formatter{
		IndentString:  "\t",
		FixImports:    true,
		RuntimeImport: classgen.DefaultRuntimeImport,
	}
}

// Format parses and reformats the given .classes source code.
// Returns the formatted code and any error encountered during parsing.
func (f *Formatter) Format(filename, source string) (string, error) {
	file, err := classgen.Parse(filename, source)
	if err != nil {
		return "", err
	}

	if f.FixImports {
		fixImports(file, filename, f.RuntimeImport)
	}

	return newPrinter(f.IndentString).PrintFile(file), nil
}

// FormatResult contains the result of formatting a file.
type FormatResult struct {
	// Content is the formatted content.
	Content string
	// Changed indicates if the content was different from the original.
	Changed bool
}

// FormatWithResult formats the source and indicates if it changed.
func (f *Formatter) FormatWithResult(filename, source string) (FormatResult, error) {
	formatted, err := f.Format(filename, source)
	if err != nil {
		return FormatResult{}, err
	}

	return FormatResult{
		Content: formatted,
		Changed: formatted != source,
	}, nil
}
