package classgen

import (
	"unicode"
)

// skipWhitespaceAndCollectComments skips spaces, tabs, and collects comments (but not newlines).
func (l *Lexer) skipWhitespaceAndCollectComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
		case '/':
			switch l.peekChar() {
			case '/':
				l.collectLineComment()
			case '*':
				l.collectBlockComment()
			default:
				return
			}
		default:
			return
		}
	}
}

// collectLineComment reads a // comment and adds it to pendingComments.
func (l *Lexer) collectLineComment() {
	startPos := l.pos
	startLine := l.line
	startCol := l.column

	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.pendingComments = append(l.pendingComments, &Comment{
		Text:     l.source[startPos:l.pos],
		Position: Position{File: l.filename, Line: startLine, Column: startCol},
		Offset:   startPos,
		EndLine:  l.line,
	})
}

// collectBlockComment reads a /* */ comment and adds it to pendingComments.
func (l *Lexer) collectBlockComment() {
	startPos := l.pos
	startLine := l.line
	startCol := l.column

	l.readChar() // skip /
	l.readChar() // skip *

	for {
		if l.ch == 0 {
			l.errors.AddError(Position{File: l.filename, Line: startLine, Column: startCol}, "unterminated block comment")
			return
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip *
			l.readChar() // skip /
			break
		}
		l.readChar()
	}

	l.pendingComments = append(l.pendingComments, &Comment{
		Text:     l.source[startPos:l.pos],
		Position: Position{File: l.filename, Line: startLine, Column: startCol},
		Offset:   startPos,
		EndLine:  l.line,
		IsBlock:  true,
	})
}

// ConsumeComments returns and clears pending comments.
// Called by parser after each node is parsed.
func (l *Lexer) ConsumeComments() []*Comment {
	comments := l.pendingComments
	l.pendingComments = nil
	return comments
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() Token {
	startPos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	literal := l.source[startPos:l.pos]
	return l.makeToken(LookupIdent(literal), literal)
}

// readAtKeyword reads a @-prefixed DSL keyword.
func (l *Lexer) readAtKeyword() Token {
	l.readChar() // consume @

	startPos := l.pos
	for isLetter(l.ch) {
		l.readChar()
	}
	keyword := l.source[startPos:l.pos]

	switch keyword {
	case "classes":
		return l.makeToken(TokenAtClasses, "@classes")
	case "static":
		return l.makeToken(TokenAtStatic, "@static")
	default:
		l.errors.AddErrorf(l.position(), "unknown @ keyword: @%s", keyword)
		return l.makeToken(TokenError, "@"+keyword)
	}
}

// isLetter returns true if the rune is a letter or underscore.
func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

// isDigit returns true if the rune is a digit.
func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}
