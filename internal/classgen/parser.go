package classgen

// Parser parses .classes source files into an AST.
type Parser struct {
	lexer           *Lexer
	current         Token
	peek            Token
	errors          *ErrorList
	pendingComments []*Comment // Comments collected since last attachment
}

// NewParser creates a new Parser for the given lexer.
func NewParser(lexer *Lexer) *Parser {
	p := &Parser{
		lexer:  lexer,
		errors: NewErrorList(),
	}
	// Read two tokens to initialize current and peek
	p.advance()
	p.advance()
	return p
}

// Parse is a convenience wrapper that lexes and parses source in one step.
func Parse(filename, source string) (*File, error) {
	return NewParser(NewLexer(filename, source)).ParseFile()
}

// Errors returns any errors encountered during parsing.
func (p *Parser) Errors() *ErrorList {
	return p.errors
}

func (p *Parser) advance() {
	p.current = p.peek
	p.peek = p.lexer.Next()
}

func (p *Parser) advanceSkipNewlines() {
	p.advance()
	p.skipNewlines()
}

func (p *Parser) skipNewlines() {
	for p.current.Type == TokenNewline {
		p.advance()
	}
}

// position returns the current token's position.
func (p *Parser) position() Position {
	return Position{
		File:   p.lexer.filename,
		Line:   p.current.Line,
		Column: p.current.Column,
	}
}

// expect checks if the current token matches the expected type and advances.
// Returns true if matched, false otherwise (and records an error).
func (p *Parser) expect(typ TokenType) bool {
	if p.current.Type == typ {
		p.advance()
		return true
	}
	p.errors.AddErrorf(p.position(), "expected %s, got %s", typ, p.current.Type)
	return false
}

// synchronize skips tokens until the next class set declaration.
func (p *Parser) synchronize() {
	for p.current.Type != TokenEOF {
		switch p.current.Type {
		case TokenAtClasses, TokenAtStatic:
			return
		}
		p.advance()
	}
}

// collectPendingComments moves comments from the lexer into the parser's buffer.
func (p *Parser) collectPendingComments() {
	p.pendingComments = append(p.pendingComments, p.lexer.ConsumeComments()...)
}

// commentsBefore removes and returns the pending comments that start before
// the given source offset. The lexer runs one token ahead of the parser, so
// comments are split by offset rather than by arrival.
func (p *Parser) commentsBefore(offset int) []*Comment {
	p.collectPendingComments()
	n := 0
	for n < len(p.pendingComments) && p.pendingComments[n].Offset < offset {
		n++
	}
	taken := p.pendingComments[:n:n]
	p.pendingComments = p.pendingComments[n:]
	return taken
}

// dropComments discards pending comments inside [start, end). Those are part
// of captured Go source and must not be attached a second time.
func (p *Parser) dropComments(start, end int) {
	p.collectPendingComments()
	kept := p.pendingComments[:0]
	for _, c := range p.pendingComments {
		if c.Offset < start || c.Offset >= end {
			kept = append(kept, c)
		}
	}
	p.pendingComments = kept
}

// leadingComments returns every pending comment before offset as one group.
func (p *Parser) leadingComments(offset int) *CommentGroup {
	comments := p.commentsBefore(offset)
	if len(comments) == 0 {
		return nil
	}
	return &CommentGroup{List: comments}
}

// trailingCommentOnLine takes the pending comments that start on line.
func (p *Parser) trailingCommentOnLine(line int) *CommentGroup {
	p.collectPendingComments()
	n := 0
	for n < len(p.pendingComments) && p.pendingComments[n].Position.Line == line {
		n++
	}
	if n == 0 {
		return nil
	}
	trailing := p.pendingComments[:n:n]
	p.pendingComments = p.pendingComments[n:]
	return &CommentGroup{List: trailing}
}

// groupComments groups comments into CommentGroups based on blank lines.
// Adjacent comments (no blank line between) form a group.
func groupComments(comments []*Comment) []*CommentGroup {
	if len(comments) == 0 {
		return nil
	}

	var groups []*CommentGroup
	current := []*Comment{comments[0]}

	for i := 1; i < len(comments); i++ {
		c := comments[i]
		if c.Position.Line > comments[i-1].EndLine+1 {
			groups = append(groups, &CommentGroup{List: current})
			current = []*Comment{c}
			continue
		}
		current = append(current, c)
	}

	return append(groups, &CommentGroup{List: current})
}

// ParseFile parses a complete .classes file into a File AST node.
func (p *Parser) ParseFile() (*File, error) {
	file := &File{}

	p.skipNewlines()

	file.LeadingComments = p.leadingComments(p.current.StartPos)
	file.Position = p.position()

	file.Package = p.parsePackage()
	if file.Package == "" {
		p.mergeLexerErrors()
		return nil, p.errors.Err()
	}

	p.skipNewlines()

	file.Imports = p.parseImports()

	for p.current.Type != TokenEOF {
		p.skipNewlines()
		if p.current.Type == TokenEOF {
			break
		}

		leading := p.leadingComments(p.current.StartPos)

		switch p.current.Type {
		case TokenAtClasses, TokenAtStatic:
			set := p.parseClassSet()
			if set == nil {
				p.synchronize()
				continue
			}
			set.LeadingComments = leading
			file.Sets = append(file.Sets, set)
		default:
			p.errors.AddErrorf(p.position(), "unexpected token %s, expected @classes or @static", p.current.Type)
			p.advance()
			p.synchronize()
		}
	}

	p.collectPendingComments()
	file.OrphanComments = groupComments(p.pendingComments)
	p.pendingComments = nil

	p.mergeLexerErrors()
	return file, p.errors.Err()
}

func (p *Parser) mergeLexerErrors() {
	for _, err := range p.lexer.Errors().Errors() {
		p.errors.Add(err)
	}
	p.errors.Sort()
}

// parsePackage parses "package <name>".
func (p *Parser) parsePackage() string {
	if p.current.Type != TokenPackage {
		p.errors.AddError(p.position(), "expected 'package' declaration")
		return ""
	}
	p.advance()

	if p.current.Type != TokenIdent {
		p.errors.AddError(p.position(), "expected package name")
		return ""
	}
	name := p.current.Literal
	p.advanceSkipNewlines()
	return name
}

// parseImports parses import statements.
// Supports:
//   - import "path"
//   - import alias "path"
//   - import ( "path1"; "path2" )
//   - import ( alias "path" )
func (p *Parser) parseImports() []Import {
	var imports []Import

	for p.current.Type == TokenImport {
		p.advance() // consume 'import'

		if p.current.Type == TokenLParen {
			p.advance()
			p.skipNewlines()

			for p.current.Type != TokenRParen && p.current.Type != TokenEOF {
				if imp := p.parseSingleImport(); imp != nil {
					imports = append(imports, *imp)
				} else {
					p.advance()
				}
				if p.current.Type == TokenSemicolon {
					p.advance()
				}
				p.skipNewlines()
			}
			p.expect(TokenRParen)
		} else if imp := p.parseSingleImport(); imp != nil {
			imports = append(imports, *imp)
		}
		p.skipNewlines()
	}

	return imports
}

// parseSingleImport parses a single import: [alias] "path"
func (p *Parser) parseSingleImport() *Import {
	pos := p.position()
	var alias string

	if p.current.Type == TokenIdent || p.current.Type == TokenDot {
		alias = p.current.Literal
		p.advance()
	}

	if p.current.Type != TokenString && p.current.Type != TokenRawString {
		p.errors.AddError(p.position(), "expected import path string")
		return nil
	}

	path := p.current.Literal
	line := p.current.Line
	p.advance()

	return &Import{
		Alias:            alias,
		Path:             path,
		Position:         pos,
		TrailingComments: p.trailingCommentOnLine(line),
	}
}
