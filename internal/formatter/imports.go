package formatter

import (
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/grindlemire/go-classes/internal/classgen"
)

// fixImports generates Go code from the AST, lets goimports resolve the
// imports the conditions need, then copies the result back into the AST.
// Files that do not analyze cleanly keep their imports unchanged.
func fixImports(file *classgen.File, filename, runtimeImport string) {
	goFilename := strings.TrimSuffix(filename, ".classes") + "_classes.go"

	analyzer := classgen.NewAnalyzer()
	analyzer.RuntimeImport = runtimeImport
	if err := analyzer.Analyze(file); err != nil {
		return
	}

	gen := classgen.NewGenerator()
	gen.RuntimeImport = runtimeImport
	gen.SkipTables = true
	goCode, err := gen.Generate(file, goFilename)
	if err != nil {
		return
	}

	imports, err := extractImports(goCode, runtimeImport)
	if err != nil {
		return
	}

	// Keep trailing comments on imports that survive.
	comments := make(map[string]*classgen.CommentGroup, len(file.Imports))
	for _, imp := range file.Imports {
		comments[imp.Path] = imp.TrailingComments
	}
	for i := range imports {
		imports[i].TrailingComments = comments[imports[i].Path]
	}
	file.Imports = imports
}

// extractImports parses Go source code and extracts its import declarations,
// leaving out the runtime import the generator adds on its own.
func extractImports(goCode []byte, runtimeImport string) ([]classgen.Import, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", goCode, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}

	var result []classgen.Import
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, err
		}
		alias := ""
		if imp.Name != nil {
			alias = imp.Name.Name
		}
		if path == runtimeImport && (alias == "" || alias == "classes") {
			continue
		}
		result = append(result, classgen.Import{Alias: alias, Path: path})
	}

	return result, nil
}
