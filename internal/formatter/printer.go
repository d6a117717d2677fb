package formatter

import (
	"go/format"
	"strings"

	"github.com/grindlemire/go-classes/internal/classgen"
)

// printer generates formatted .classes source code from an AST.
type printer struct {
	indent string
	depth  int
	buf    strings.Builder
}

// newPrinter creates a new printer with the given settings.
func newPrinter(indent string) *printer {
	return &printer{
		indent: indent,
	}
}

// PrintFile formats an entire .classes file.
func (p *printer) PrintFile(file *classgen.File) string {
	p.buf.Reset()

	p.printLeadingComments(file.LeadingComments, file.Position.Line)

	p.write("package ")
	p.write(file.Package)
	p.newline()

	if len(file.Imports) > 0 {
		p.newline()
		p.printImports(file.Imports)
	}

	for _, set := range file.Sets {
		p.newline()
		p.printClassSet(set)
	}

	if len(file.OrphanComments) > 0 {
		p.newline()
		p.printOrphanComments(file.OrphanComments)
	}

	return p.buf.String()
}

// printImports outputs import declarations.
func (p *printer) printImports(imports []classgen.Import) {
	if len(imports) == 1 {
		p.write("import ")
		p.printImportSpec(imports[0])
		p.newline()
		return
	}

	p.write("import (")
	p.newline()
	p.depth++
	for _, imp := range imports {
		p.writeIndent()
		p.printImportSpec(imp)
		p.newline()
	}
	p.depth--
	p.write(")")
	p.newline()
}

func (p *printer) printImportSpec(imp classgen.Import) {
	if imp.Alias != "" {
		p.write(imp.Alias)
		p.write(" ")
	}
	p.write(`"`)
	p.write(imp.Path)
	p.write(`"`)
	p.printTrailingComment(imp.TrailingComments)
}

// printClassSet outputs a @classes or @static declaration with one entry
// per line.
func (p *printer) printClassSet(set *classgen.ClassSet) {
	p.printLeadingComments(set.LeadingComments, set.Position.Line)

	p.write(set.Mode.String())
	p.write(" ")
	p.write(set.Name)
	p.write("(")
	for i, param := range set.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name)
		p.write(" ")
		p.write(param.Type)
	}
	p.write(") {")

	if len(set.Entries) == 0 && set.TrailingComments == nil && len(set.OrphanComments) == 0 {
		p.write("}")
		p.newline()
		return
	}

	p.printTrailingComment(set.TrailingComments)
	p.newline()

	p.depth++
	prevEnd := 0
	for i, entry := range set.Entries {
		if i > 0 && startLine(entry) > prevEnd+1 {
			p.newline()
		}
		p.printEntry(entry)
		prevEnd = endLine(entry)
	}
	if len(set.OrphanComments) > 0 {
		if len(set.Entries) > 0 && set.OrphanComments[0].List[0].Position.Line > prevEnd+1 {
			p.newline()
		}
		p.printOrphanComments(set.OrphanComments)
	}
	p.depth--

	p.write("}")
	p.newline()
}

// printEntry outputs `"class": condition,` with its comments.
func (p *printer) printEntry(entry *classgen.Entry) {
	p.printLeadingComments(entry.LeadingComments, entry.Position.Line)
	p.writeIndent()
	p.write(entry.Class.Source)
	if entry.Condition != nil {
		p.write(": ")
		cond := formatCondition(entry.Condition.Code)
		p.write(strings.ReplaceAll(cond, "\n", "\n"+strings.Repeat(p.indent, p.depth)))
	}
	p.write(",")
	p.printTrailingComment(entry.TrailingComments)
	p.newline()
}

// formatCondition gofmts a condition. Conditions that do not parse are
// printed as written; the analyzer reports them.
func formatCondition(code string) string {
	code = strings.TrimSpace(code)
	if out, err := format.Source([]byte(code)); err == nil {
		code = strings.TrimSpace(string(out))
	}
	return formatInlineBlockComments(code)
}

// startLine returns the first source line of an entry, including its
// leading comments.
func startLine(entry *classgen.Entry) int {
	if entry.LeadingComments != nil && len(entry.LeadingComments.List) > 0 {
		return entry.LeadingComments.List[0].Position.Line
	}
	return entry.Position.Line
}

// endLine returns the last source line of an entry.
func endLine(entry *classgen.Entry) int {
	if entry.Condition != nil {
		return entry.Condition.Position.Line + strings.Count(entry.Condition.Code, "\n")
	}
	return entry.Position.Line + strings.Count(entry.Class.Source, "\n")
}

// Helper methods

func (p *printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *printer) newline() {
	p.buf.WriteByte('\n')
}

func (p *printer) writeIndent() {
	for i := 0; i < p.depth; i++ {
		p.buf.WriteString(p.indent)
	}
}
