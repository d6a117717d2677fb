package classgen

import (
	"strings"
)

// parseClassSet parses a set declaration:
//
//	@classes Name(params) { "class", "class": cond, ... }
//	@static Name(params) { ... }
func (p *Parser) parseClassSet() *ClassSet {
	set := &ClassSet{Position: p.position()}
	if p.current.Type == TokenAtStatic {
		set.Mode = ModeStatic
	}
	p.advance()

	if p.current.Type != TokenIdent {
		p.errors.AddErrorf(p.position(), "expected class set name after %s", set.Mode)
		return nil
	}
	set.Name = p.current.Literal
	p.advance()

	if !p.expect(TokenLParen) {
		return nil
	}
	set.Params = p.parseParams()
	if !p.expect(TokenRParen) {
		return nil
	}

	p.skipNewlines()
	openLine := p.current.Line
	if !p.expect(TokenLBrace) {
		return nil
	}
	set.TrailingComments = p.trailingCommentOnLine(openLine)

	for {
		p.skipNewlines()
		if p.current.Type == TokenRBrace || p.current.Type == TokenEOF {
			break
		}

		leading := p.leadingComments(p.current.StartPos)
		entry, endLine := p.parseEntry()
		if entry == nil {
			p.skipEntry()
			continue
		}
		entry.LeadingComments = leading

		switch p.current.Type {
		case TokenComma:
			p.advance()
		case TokenNewline, TokenRBrace:
		default:
			p.errors.AddErrorf(p.position(), "expected ',', newline or '}' after entry, got %s", p.current.Type)
			p.skipEntry()
		}
		entry.TrailingComments = p.trailingCommentOnLine(endLine)
		set.Entries = append(set.Entries, entry)
	}

	set.OrphanComments = groupComments(p.commentsBefore(p.current.StartPos))

	if !p.expect(TokenRBrace) {
		return nil
	}
	return set
}

// skipEntry advances past a malformed entry to the next entry boundary.
func (p *Parser) skipEntry() {
	for {
		switch p.current.Type {
		case TokenEOF, TokenRBrace, TokenNewline:
			return
		case TokenComma:
			p.advance()
			return
		}
		p.advance()
	}
}

// parseEntry parses `"class"` or `"class": condition`. It returns the entry
// and the line it ends on, which is where a trailing comment may follow.
func (p *Parser) parseEntry() (*Entry, int) {
	pos := p.position()

	if p.current.Type != TokenString && p.current.Type != TokenRawString {
		p.errors.AddErrorf(pos, "expected class name string, got %s", p.current.Type)
		return nil, 0
	}

	source := p.current.Source(p.lexer.source)
	entry := &Entry{
		Class: &StringLit{
			Value:    p.current.Literal,
			Source:   source,
			Position: pos,
		},
		Position: pos,
	}
	endLine := pos.Line + strings.Count(source, "\n")
	p.advance()

	if p.current.Type != TokenColon {
		return entry, endLine
	}
	p.advance()

	cond := p.parseCondition()
	if cond == nil {
		return nil, 0
	}
	entry.Condition = cond
	return entry, cond.Position.Line + strings.Count(cond.Code, "\n")
}

// parseCondition captures a Go expression as raw source. The expression ends
// at the first comma, newline or '}' outside any brackets; go/parser checks it
// during analysis.
func (p *Parser) parseCondition() *GoExpr {
	switch p.current.Type {
	case TokenComma, TokenNewline, TokenRBrace, TokenEOF:
		p.errors.AddErrorf(p.position(), "expected condition after ':', got %s", p.current.Type)
		return nil
	}

	pos := p.position()
	start := p.current.StartPos
	end := start
	depth := 0

loop:
	for p.current.Type != TokenEOF {
		switch p.current.Type {
		case TokenComma, TokenNewline, TokenRBrace:
			if depth == 0 {
				break loop
			}
		}

		switch p.current.Type {
		case TokenLParen, TokenLBracket, TokenLBrace:
			depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			depth--
			if depth < 0 {
				p.errors.AddErrorf(p.position(), "unbalanced %s in condition", p.current.Type)
				return nil
			}
		}

		if p.current.Type != TokenNewline {
			end = p.current.EndPos
		}
		p.advance()
	}

	if depth > 0 {
		p.errors.AddError(pos, "unterminated condition: unmatched brackets")
		return nil
	}

	p.dropComments(start, end)
	return &GoExpr{
		Code:     p.lexer.SourceRange(start, end),
		Position: pos,
	}
}

// parseParams parses a parameter list. Go's grouped form `a, b bool` is
// accepted; names without a type take the type of the next typed parameter.
func (p *Parser) parseParams() []*Param {
	var (
		params  []*Param
		untyped []*Param
	)

	p.skipNewlines()
	for p.current.Type != TokenRParen && p.current.Type != TokenEOF {
		param := p.parseParam()
		if param == nil {
			return params
		}
		params = append(params, param)

		if param.Type == "" {
			untyped = append(untyped, param)
		} else {
			for _, u := range untyped {
				u.Type = param.Type
			}
			untyped = nil
		}

		if p.current.Type != TokenComma {
			break
		}
		p.advance()
		p.skipNewlines()
	}
	p.skipNewlines()

	for _, u := range untyped {
		p.errors.AddErrorf(u.Position, "missing type for parameter %s", u.Name)
	}
	return params
}

// parseParam parses a single parameter: name [Type]
func (p *Parser) parseParam() *Param {
	pos := p.position()

	if p.current.Type != TokenIdent {
		p.errors.AddError(pos, "expected parameter name")
		return nil
	}

	name := p.current.Literal
	p.advance()

	param := &Param{Name: name, Position: pos}
	if p.current.Type != TokenComma {
		param.Type = p.parseType()
		if param.Type == "" {
			p.errors.AddErrorf(pos, "missing type for parameter %s", name)
			return nil
		}
	}
	return param
}

// parseType parses a Go type expression by capturing raw source.
// This handles all Go types including generics, channels, and function signatures.
func (p *Parser) parseType() string {
	startPos := p.current.StartPos
	end := startPos
	depth := 0 // track [], (), {}

	for p.current.Type != TokenEOF {
		switch p.current.Type {
		case TokenComma, TokenRParen:
			if depth == 0 {
				return strings.TrimSpace(p.lexer.SourceRange(startPos, end))
			}
		case TokenNewline:
			if depth == 0 {
				return strings.TrimSpace(p.lexer.SourceRange(startPos, end))
			}
		}

		switch p.current.Type {
		case TokenLBracket, TokenLParen, TokenLBrace:
			depth++
		case TokenRBracket, TokenRParen, TokenRBrace:
			depth--
		}
		if p.current.Type != TokenNewline {
			end = p.current.EndPos
		}
		p.advance()
	}

	return strings.TrimSpace(p.lexer.SourceRange(startPos, end))
}
