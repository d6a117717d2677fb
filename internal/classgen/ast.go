package classgen

import (
	"strings"

	classes "github.com/grindlemire/go-classes"
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	node()         // marker method to ensure type safety
	Pos() Position // returns the source position of the node
}

// Comment represents a single comment (line or block).
type Comment struct {
	Text     string   // Raw text including delimiters (// or /* */)
	Position Position // Start position
	Offset   int      // Byte offset of the comment in the source
	EndLine  int      // End line (for multi-line block comments)
	IsBlock  bool     // true for /* */ comments, false for // comments
}

// CommentGroup represents a sequence of comments with no blank lines between them.
type CommentGroup struct {
	List []*Comment
}

// Text returns the text of the comment group, with comment markers removed
// and lines joined with newlines.
func (g *CommentGroup) Text() string {
	if g == nil || len(g.List) == 0 {
		return ""
	}
	var lines []string
	for _, c := range g.List {
		text := c.Text
		if c.IsBlock {
			text = strings.TrimPrefix(text, "/*")
			text = strings.TrimSuffix(text, "*/")
		} else {
			text = strings.TrimPrefix(text, "//")
		}
		lines = append(lines, strings.TrimSpace(text))
	}
	return strings.Join(lines, "\n")
}

// EndLine returns the last line covered by the group.
func (g *CommentGroup) EndLine() int {
	if g == nil || len(g.List) == 0 {
		return 0
	}
	return g.List[len(g.List)-1].EndLine
}

// File represents a complete .classes source file.
type File struct {
	Package  string
	Imports  []Import
	Sets     []*ClassSet
	Position Position
	// Comment fields
	LeadingComments *CommentGroup   // Comments before package declaration
	OrphanComments  []*CommentGroup // Comments not attached to any node
}

func (f *File) node()        {}
func (f *File) Pos() Position { return f.Position }

// Import represents a Go import statement.
type Import struct {
	Alias    string // optional alias (empty if none)
	Path     string // import path
	Position Position
	// Comment fields
	TrailingComments *CommentGroup // Inline comment on import line
}

func (i *Import) node()        {}
func (i *Import) Pos() Position { return i.Position }

// Mode selects the runtime shape a class set compiles to.
type Mode int

const (
	// ModeDynamic sets evaluate their conditions into a classes.Set.
	ModeDynamic Mode = iota
	// ModeStatic sets look up a pre-rendered table and return a classes.StaticSet.
	ModeStatic
)

// String returns the DSL keyword for the mode.
func (m Mode) String() string {
	if m == ModeStatic {
		return "@static"
	}
	return "@classes"
}

// ClassSet represents a @classes or @static declaration.
type ClassSet struct {
	Name     string
	Mode     Mode
	Params   []*Param
	Entries  []*Entry
	Position Position
	// Comment fields
	LeadingComments  *CommentGroup   // Doc comments before the declaration
	TrailingComments *CommentGroup   // Comments on the same line after the opening {
	OrphanComments   []*CommentGroup // Comments before the closing } not attached to an entry

	// Set by the Analyzer.
	Plan  *classes.Plan
	Flags []*Entry // entries owning a flag, in flag order
}

func (s *ClassSet) node()        {}
func (s *ClassSet) Pos() Position { return s.Position }

// Param represents a function parameter.
type Param struct {
	Name     string
	Type     string
	Position Position
}

func (p *Param) node()        {}
func (p *Param) Pos() Position { return p.Position }

// Entry is one class declaration inside a set, optionally guarded by a
// Go boolean expression.
type Entry struct {
	Class     *StringLit
	Condition *GoExpr // nil for unconditional classes
	Position  Position
	// Comment fields
	LeadingComments  *CommentGroup
	TrailingComments *CommentGroup
}

func (e *Entry) node()        {}
func (e *Entry) Pos() Position { return e.Position }

// StringLit represents a string literal.
type StringLit struct {
	Value    string // decoded value
	Source   string // text as written, including quotes
	Position Position
}

func (s *StringLit) node()        {}
func (s *StringLit) Pos() Position { return s.Position }

// GoExpr represents an embedded Go expression.
type GoExpr struct {
	Code     string
	Position Position
}

func (g *GoExpr) node()        {}
func (g *GoExpr) Pos() Position { return g.Position }
