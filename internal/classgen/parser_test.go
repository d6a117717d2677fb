package classgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Package(t *testing.T) {
	file, err := Parse("test.classes", "package ui\n")
	require.NoError(t, err)
	assert.Equal(t, "ui", file.Package)
	assert.Empty(t, file.Imports)
	assert.Empty(t, file.Sets)
}

func TestParser_MissingPackage(t *testing.T) {
	_, err := Parse("test.classes", `@classes A() {}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 'package' declaration")
}

func TestParser_Imports(t *testing.T) {
	type tc struct {
		input    string
		expected []Import
	}

	tests := map[string]tc{
		"single": {
			input: "package x\nimport \"strings\"\n",
			expected: []Import{
				{Path: "strings"},
			},
		},
		"aliased": {
			input: "package x\nimport str \"strings\"\n",
			expected: []Import{
				{Alias: "str", Path: "strings"},
			},
		},
		"grouped": {
			input: "package x\nimport (\n\t\"strings\"\n\tm \"example.com/model\"\n)\n",
			expected: []Import{
				{Path: "strings"},
				{Alias: "m", Path: "example.com/model"},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			file, err := Parse("test.classes", tt.input)
			require.NoError(t, err)
			require.Len(t, file.Imports, len(tt.expected))
			for i, want := range tt.expected {
				assert.Equal(t, want.Alias, file.Imports[i].Alias)
				assert.Equal(t, want.Path, file.Imports[i].Path)
			}
		})
	}
}

func TestParser_ClassSet(t *testing.T) {
	type entry struct {
		class string
		cond  string
	}
	type tc struct {
		input   string
		name    string
		mode    Mode
		params  []Param
		entries []entry
	}

	tests := map[string]tc{
		"empty set": {
			input: `package x
@classes Empty() {}`,
			name: "Empty",
			mode: ModeDynamic,
		},
		"unconditional entries": {
			input: `package x
@classes Card() {
	"card",
	"shadow",
}`,
			name:    "Card",
			mode:    ModeDynamic,
			entries: []entry{{class: "card"}, {class: "shadow"}},
		},
		"conditions and params": {
			input: `package x
@classes Button(active bool, size string) {
	"btn",
	"btn-active": active,
	"btn-lg": size == "lg",
}`,
			name: "Button",
			mode: ModeDynamic,
			params: []Param{
				{Name: "active", Type: "bool"},
				{Name: "size", Type: "string"},
			},
			entries: []entry{
				{class: "btn"},
				{class: "btn-active", cond: "active"},
				{class: "btn-lg", cond: `size == "lg"`},
			},
		},
		"static without trailing comma": {
			input: `package x
@static Nav(open bool) {
	"nav"
	"nav-open": open
}`,
			name:   "Nav",
			mode:   ModeStatic,
			params: []Param{{Name: "open", Type: "bool"}},
			entries: []entry{
				{class: "nav"},
				{class: "nav-open", cond: "open"},
			},
		},
		"single line": {
			input: `package x
@classes Tag(on bool) { "tag", "on": on }`,
			name:   "Tag",
			params: []Param{{Name: "on", Type: "bool"}},
			entries: []entry{
				{class: "tag"},
				{class: "on", cond: "on"},
			},
		},
		"grouped params": {
			input: `package x
@classes Pair(a, b bool, items []string) { "x": a && b }`,
			name: "Pair",
			params: []Param{
				{Name: "a", Type: "bool"},
				{Name: "b", Type: "bool"},
				{Name: "items", Type: "[]string"},
			},
			entries: []entry{{class: "x", cond: "a && b"}},
		},
		"complex types": {
			input: `package x
@classes F(fn func(int) bool, m map[string]bool, opts ...string) { "f": fn(1) }`,
			name: "F",
			params: []Param{
				{Name: "fn", Type: "func(int) bool"},
				{Name: "m", Type: "map[string]bool"},
				{Name: "opts", Type: "...string"},
			},
			entries: []entry{{class: "f", cond: "fn(1)"}},
		},
		"brackets keep commas": {
			input: `package x
@classes G(m map[string]bool) {
	"g": has(m, "a", "b"),
	"h": m[key(1, 2)],
}`,
			name:   "G",
			params: []Param{{Name: "m", Type: "map[string]bool"}},
			entries: []entry{
				{class: "g", cond: `has(m, "a", "b")`},
				{class: "h", cond: "m[key(1, 2)]"},
			},
		},
		"multi-line condition": {
			input: `package x
@classes M(a, b bool) {
	"m": all(
		a,
		b,
	),
}`,
			name:   "M",
			params: []Param{{Name: "a", Type: "bool"}, {Name: "b", Type: "bool"}},
			entries: []entry{
				{class: "m", cond: "all(\n\t\ta,\n\t\tb,\n\t)"},
			},
		},
		"function literal": {
			input: `package x
@classes L() {
	"l": func() bool { return true }(),
}`,
			name:    "L",
			entries: []entry{{class: "l", cond: "func() bool { return true }()"}},
		},
		"raw string class": {
			input: "package x\n@classes R() { `md:flex` }",
			name:    "R",
			entries: []entry{{class: "md:flex"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			file, err := Parse("test.classes", tt.input)
			require.NoError(t, err)
			require.Len(t, file.Sets, 1)

			set := file.Sets[0]
			assert.Equal(t, tt.name, set.Name)
			assert.Equal(t, tt.mode, set.Mode)

			require.Len(t, set.Params, len(tt.params))
			for i, want := range tt.params {
				assert.Equal(t, want.Name, set.Params[i].Name)
				assert.Equal(t, want.Type, set.Params[i].Type)
			}

			require.Len(t, set.Entries, len(tt.entries))
			for i, want := range tt.entries {
				got := set.Entries[i]
				assert.Equal(t, want.class, got.Class.Value)
				if want.cond == "" {
					assert.Nil(t, got.Condition)
					continue
				}
				require.NotNil(t, got.Condition)
				assert.Equal(t, want.cond, got.Condition.Code)
			}
		})
	}
}

func TestParser_Positions(t *testing.T) {
	input := `package x

@classes Button(active bool) {
	"btn",
	"btn-active": active,
}`
	file, err := Parse("button.classes", input)
	require.NoError(t, err)
	set := file.Sets[0]

	assert.Equal(t, Position{File: "button.classes", Line: 3, Column: 1}, set.Position)
	assert.Equal(t, Position{File: "button.classes", Line: 4, Column: 2}, set.Entries[0].Class.Position)
	assert.Equal(t, Position{File: "button.classes", Line: 5, Column: 2}, set.Entries[1].Class.Position)
	assert.Equal(t, Position{File: "button.classes", Line: 5, Column: 16}, set.Entries[1].Condition.Position)
	assert.Equal(t, `"btn-active"`, set.Entries[1].Class.Source)
}

func TestParser_Comments(t *testing.T) {
	input := `// Header comment
package x

// Button is the primary action.
@classes Button(active bool) { // opening
	// base classes
	"btn", // always
	"btn-active": active // when pressed
	// dangling
}

// end of file`

	file, err := Parse("test.classes", input)
	require.NoError(t, err)

	require.NotNil(t, file.LeadingComments)
	assert.Equal(t, "Header comment", file.LeadingComments.Text())

	set := file.Sets[0]
	require.NotNil(t, set.LeadingComments)
	assert.Equal(t, "Button is the primary action.", set.LeadingComments.Text())
	require.NotNil(t, set.TrailingComments)
	assert.Equal(t, "opening", set.TrailingComments.Text())

	require.Len(t, set.Entries, 2)
	require.NotNil(t, set.Entries[0].LeadingComments)
	assert.Equal(t, "base classes", set.Entries[0].LeadingComments.Text())
	require.NotNil(t, set.Entries[0].TrailingComments)
	assert.Equal(t, "always", set.Entries[0].TrailingComments.Text())

	assert.Nil(t, set.Entries[1].LeadingComments)
	require.NotNil(t, set.Entries[1].TrailingComments)
	assert.Equal(t, "when pressed", set.Entries[1].TrailingComments.Text())
	assert.Equal(t, "active", set.Entries[1].Condition.Code)

	require.Len(t, set.OrphanComments, 1)
	assert.Equal(t, "dangling", set.OrphanComments[0].Text())

	require.Len(t, file.OrphanComments, 1)
	assert.Equal(t, "end of file", file.OrphanComments[0].Text())
}

func TestParser_CommentInsideCondition(t *testing.T) {
	input := `package x
@classes C(a, b bool) {
	"c": pick(a, /* second */ b),
}`
	file, err := Parse("test.classes", input)
	require.NoError(t, err)

	entry := file.Sets[0].Entries[0]
	assert.Equal(t, "pick(a, /* second */ b)", entry.Condition.Code)
	assert.Nil(t, entry.TrailingComments)
	assert.Empty(t, file.Sets[0].OrphanComments)
	assert.Empty(t, file.OrphanComments)
}

func TestParser_MultipleSets(t *testing.T) {
	input := `package x

@classes A() { "a" }

@static B(on bool) { "b": on }
`
	file, err := Parse("test.classes", input)
	require.NoError(t, err)
	require.Len(t, file.Sets, 2)
	assert.Equal(t, "A", file.Sets[0].Name)
	assert.Equal(t, ModeDynamic, file.Sets[0].Mode)
	assert.Equal(t, "B", file.Sets[1].Name)
	assert.Equal(t, ModeStatic, file.Sets[1].Mode)
}

func TestParser_Errors(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"missing name": {
			input: "package x\n@classes () {}",
			want:  "expected class set name after @classes",
		},
		"missing condition": {
			input: "package x\n@classes A(on bool) { \"a\": , }",
			want:  "expected condition after ':', got ,",
		},
		"non-string class": {
			input: "package x\n@classes A() { btn }",
			want:  "expected class name string, got Ident",
		},
		"missing separator": {
			input: "package x\n@classes A() { \"a\" \"b\" }",
			want:  "expected ',', newline or '}' after entry, got String",
		},
		"unbalanced paren": {
			input: "package x\n@classes A(on bool) { \"a\": on) }",
			want:  "unbalanced ) in condition",
		},
		"unterminated condition": {
			input: "package x\n@classes A(on bool) { \"a\": f(on",
			want:  "unterminated condition",
		},
		"top level garbage": {
			input: "package x\nfunc A() {}",
			want:  "unexpected token Ident, expected @classes or @static",
		},
		"missing param type": {
			input: "package x\n@classes A(on) {}",
			want:  "missing type for parameter on",
		},
		"lexer error merged": {
			input: "package x\n@classes A() { \"a }",
			want:  "unterminated string literal",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("test.classes", tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParser_RecoversAfterBadSet(t *testing.T) {
	input := `package x
@classes () {}
@classes Good() { "ok" }
`
	file, err := Parse("test.classes", input)
	require.Error(t, err)
	require.NotNil(t, file)
	require.Len(t, file.Sets, 1)
	assert.Equal(t, "Good", file.Sets[0].Name)
}
