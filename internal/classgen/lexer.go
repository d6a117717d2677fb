package classgen

import (
	"unicode/utf8"
)

// Lexer tokenizes .classes source files.
type Lexer struct {
	filename string
	source   string
	pos      int  // current position in source
	readPos  int  // next position to read
	ch       rune // current character
	line     int  // current line (1-based)
	column   int  // current column (1-based)

	tokenLine     int
	tokenColumn   int
	tokenStartPos int

	// Comments collected since last ConsumeComments() call
	pendingComments []*Comment

	errors *ErrorList
}

// NewLexer creates a new Lexer for the given source.
func NewLexer(filename, source string) *Lexer {
	l := &Lexer{
		filename: filename,
		source:   source,
		line:     1,
		column:   0,
		errors:   NewErrorList(),
	}
	l.readChar()
	return l
}

// Errors returns any errors encountered during lexing.
func (l *Lexer) Errors() *ErrorList {
	return l.errors
}

// Filename returns the name used in positions reported by the lexer.
func (l *Lexer) Filename() string {
	return l.filename
}

// readChar advances to the next character in the source.
func (l *Lexer) readChar() {
	prevWasNewline := l.ch == '\n'

	if l.readPos >= len(l.source) {
		l.ch = 0 // EOF
		l.pos = l.readPos
	} else {
		r, size := utf8.DecodeRuneInString(l.source[l.readPos:])
		l.ch = r
		l.pos = l.readPos
		l.readPos += size
	}

	if prevWasNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.readPos:])
	return r
}

func (l *Lexer) startToken() {
	l.tokenLine = l.line
	l.tokenColumn = l.column
	l.tokenStartPos = l.pos
}

func (l *Lexer) makeToken(typ TokenType, literal string) Token {
	return Token{
		Type:     typ,
		Literal:  literal,
		Line:     l.tokenLine,
		Column:   l.tokenColumn,
		StartPos: l.tokenStartPos,
		EndPos:   l.pos,
	}
}

// position returns the start of the current token.
func (l *Lexer) position() Position {
	return Position{
		File:   l.filename,
		Line:   l.tokenLine,
		Column: l.tokenColumn,
	}
}

// single consumes one character and returns it as a token of typ.
func (l *Lexer) single(typ TokenType) Token {
	lit := string(l.ch)
	l.readChar()
	return l.makeToken(typ, lit)
}

// Next returns the next token from the source.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndCollectComments()

	l.startToken()

	switch l.ch {
	case 0:
		return l.makeToken(TokenEOF, "")
	case '\n':
		return l.single(TokenNewline)
	case '(':
		return l.single(TokenLParen)
	case ')':
		return l.single(TokenRParen)
	case '{':
		return l.single(TokenLBrace)
	case '}':
		return l.single(TokenRBrace)
	case '[':
		return l.single(TokenLBracket)
	case ']':
		return l.single(TokenRBracket)
	case ',':
		return l.single(TokenComma)
	case ';':
		return l.single(TokenSemicolon)
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		if l.peekChar() == '.' {
			// Variadic parameter types: ...T
			start := l.pos
			for l.ch == '.' {
				l.readChar()
			}
			return l.makeToken(TokenOperator, l.source[start:l.pos])
		}
		return l.single(TokenDot)
	case ':':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.makeToken(TokenOperator, ":=")
		}
		return l.single(TokenColon)
	case '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '=', '!', '~':
		return l.readOperator()
	case '@':
		return l.readAtKeyword()
	case '"':
		return l.readString()
	case '\'':
		return l.readRune()
	case '`':
		return l.readRawString()
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}

		ch := l.ch
		l.readChar()
		l.errors.AddErrorf(l.position(), "unexpected character %q", ch)
		return l.makeToken(TokenError, string(ch))
	}
}

// readOperator reads the longest run of operator characters. Conditions are
// re-parsed by go/parser, so the lexer only has to find where they end.
func (l *Lexer) readOperator() Token {
	start := l.pos
	for isOperatorChar(l.ch) {
		// Stop before a comment opener so it is collected as a comment.
		if l.ch == '/' && (l.peekChar() == '/' || l.peekChar() == '*') && l.pos > start {
			break
		}
		l.readChar()
	}
	return l.makeToken(TokenOperator, l.source[start:l.pos])
}

func isOperatorChar(ch rune) bool {
	switch ch {
	case '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '=', '!', '~':
		return true
	}
	return false
}

// SourceRange extracts a substring of the original source from start to end positions.
// Used by the parser to capture raw Go code without tokenization.
func (l *Lexer) SourceRange(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(l.source) {
		end = len(l.source)
	}
	if start >= end {
		return ""
	}
	return l.source[start:end]
}

// SourcePos returns the current position in the source string.
func (l *Lexer) SourcePos() int {
	return l.pos
}
