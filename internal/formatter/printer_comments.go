package formatter

import (
	"strings"

	"github.com/grindlemire/go-classes/internal/classgen"
)

// formatBlockComment formats a block comment with proper spacing.
// Single-line: /*text*/ -> /* text */
// Multi-line: formats with /* and */ on their own lines
func formatBlockComment(text string) string {
	if !strings.HasPrefix(text, "/*") || !strings.HasSuffix(text, "*/") {
		return text
	}

	var contentLines []string
	for line := range strings.SplitSeq(text[2:len(text)-2], "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			contentLines = append(contentLines, trimmed)
		}
	}

	switch len(contentLines) {
	case 0:
		return "/* */"
	case 1:
		return "/* " + contentLines[0] + " */"
	}

	var result strings.Builder
	result.WriteString("/*\n")
	for _, line := range contentLines {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString("*/")
	return result.String()
}

// formatLineComment ensures a space after // if not already present.
func formatLineComment(text string) string {
	if !strings.HasPrefix(text, "//") {
		return text
	}
	content := text[2:]
	if content == "" || content[0] == ' ' || content[0] == '\t' {
		return text
	}
	return "// " + content
}

func formatComment(c *classgen.Comment) string {
	if c.IsBlock {
		return formatBlockComment(c.Text)
	}
	return formatLineComment(c.Text)
}

// formatInlineBlockComments formats any block comments within Go code,
// leaving string literals untouched.
func formatInlineBlockComments(code string) string {
	var result strings.Builder
	i := 0

	for i < len(code) {
		switch {
		case i+1 < len(code) && code[i] == '/' && code[i+1] == '*':
			start := i
			i += 2
			for i+1 < len(code) && !(code[i] == '*' && code[i+1] == '/') {
				i++
			}
			if i+1 < len(code) {
				i += 2 // skip */
			}
			result.WriteString(formatBlockComment(code[start:i]))
		case code[i] == '"' || code[i] == '`' || code[i] == '\'':
			quote := code[i]
			result.WriteByte(code[i])
			i++
			for i < len(code) && code[i] != quote {
				if code[i] == '\\' && quote != '`' && i+1 < len(code) {
					result.WriteByte(code[i])
					i++
				}
				result.WriteByte(code[i])
				i++
			}
			if i < len(code) {
				result.WriteByte(code[i])
				i++
			}
		default:
			result.WriteByte(code[i])
			i++
		}
	}

	return result.String()
}

// printLeadingComments outputs comments before a node starting on nodeLine,
// one per line, keeping a single blank line wherever the source had one or more.
func (p *printer) printLeadingComments(cg *classgen.CommentGroup, nodeLine int) {
	if cg == nil || len(cg.List) == 0 {
		return
	}
	for i, c := range cg.List {
		if i > 0 && c.Position.Line > cg.List[i-1].EndLine+1 {
			p.newline()
		}
		p.writeIndent()
		p.write(formatComment(c))
		p.newline()
	}
	// Detached comments stay detached.
	if nodeLine > cg.EndLine()+1 {
		p.newline()
	}
}

// printTrailingComment outputs a trailing comment on the same line as a node.
func (p *printer) printTrailingComment(cg *classgen.CommentGroup) {
	if cg == nil || len(cg.List) == 0 {
		return
	}
	for _, c := range cg.List {
		p.write(" ")
		p.write(formatComment(c))
	}
}

// printOrphanComments outputs comment groups not attached to any node, with
// blank lines between groups.
func (p *printer) printOrphanComments(groups []*classgen.CommentGroup) {
	for i, cg := range groups {
		if i > 0 {
			p.newline()
		}
		for _, c := range cg.List {
			p.writeIndent()
			p.write(formatComment(c))
			p.newline()
		}
	}
}
