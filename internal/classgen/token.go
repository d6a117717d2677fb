package classgen

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Special tokens
	TokenEOF     TokenType = iota // end of file
	TokenError                    // lexer error
	TokenNewline                  // newline

	// Keywords
	TokenPackage // package
	TokenImport  // import

	// DSL keywords (@ prefixed)
	TokenAtClasses // @classes
	TokenAtStatic  // @static

	// Literals
	TokenIdent     // identifier
	TokenInt       // integer literal: 123
	TokenFloat     // float literal: 1.23
	TokenString    // string literal: "..."
	TokenRawString // raw string literal: `...`
	TokenRune      // rune literal: 'x'

	// Punctuation
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenComma     // ,
	TokenDot       // .
	TokenColon     // :
	TokenSemicolon // ;

	// TokenOperator covers the Go operators that only appear inside
	// conditions and parameter types: + - * / % & | ^ < > = ! ~ and their
	// compound forms.
	TokenOperator
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenError:     "Error",
	TokenNewline:   "Newline",
	TokenPackage:   "package",
	TokenImport:    "import",
	TokenAtClasses: "@classes",
	TokenAtStatic:  "@static",
	TokenIdent:     "Ident",
	TokenInt:       "Int",
	TokenFloat:     "Float",
	TokenString:    "String",
	TokenRawString: "RawString",
	TokenRune:      "Rune",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenComma:     ",",
	TokenDot:       ".",
	TokenColon:     ":",
	TokenSemicolon: ";",
	TokenOperator:  "Operator",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Token represents a lexical token with its type, literal value, and source position.
type Token struct {
	Type     TokenType
	Literal  string
	Line     int
	Column   int
	StartPos int // byte offset in source where token starts
	EndPos   int // byte offset just past the token
}

// Source returns the token exactly as written in src.
func (t Token) Source(src string) string {
	if t.StartPos < 0 || t.EndPos > len(src) || t.StartPos > t.EndPos {
		return ""
	}
	return src[t.StartPos:t.EndPos]
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("%s at %d:%d", t.Type, t.Line, t.Column)
	}
	lit := t.Literal
	if len(lit) > 20 {
		lit = lit[:17] + "..."
	}
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, lit, t.Line, t.Column)
}

// Position represents a source code location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// String returns a formatted position string.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

var keywords = map[string]TokenType{
	"package": TokenPackage,
	"import":  TokenImport,
}

// LookupIdent returns the token type for an identifier,
// checking if it's a keyword first.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
