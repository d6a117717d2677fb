package classes

import (
	"fmt"
	"iter"
	"sync"
)

// Static renders a declaration by table lookup. Every combination of the
// conditional classes is rendered once, the first time the table is needed;
// afterwards a call evaluates the conditions into a bitmask and indexes the
// table.
//
// The table has 2^k entries for k conditional classes. Only use Static when k
// is small or every combination is actually reachable.
type Static struct {
	plan  *Plan
	conds []Condition
	table func() *Table
}

// CompileStatic analyzes entries and returns a static renderer. It fails like
// Compile, and additionally when there are more than MaxStaticConditions
// conditional classes.
func CompileStatic(entries ...Entry) (*Static, error) {
	plan, conds, err := analyze(entries, false)
	if err != nil {
		return nil, err
	}
	if err := checkStaticFlags(plan); err != nil {
		return nil, err
	}
	return &Static{
		plan:  plan,
		conds: conds,
		table: sync.OnceValue(func() *Table { return buildTable(plan) }),
	}, nil
}

// MustCompileStatic is like CompileStatic but panics on error.
func MustCompileStatic(entries ...Entry) *Static {
	s, err := CompileStatic(entries...)
	if err != nil {
		panic(fmt.Sprintf("classes: %v", err))
	}
	return s
}

// Plan returns the analyzed declaration.
func (s *Static) Plan() *Plan {
	return s.plan
}

// Table returns the lookup table, building it on first use.
func (s *Static) Table() *Table {
	return s.table()
}

// Eval evaluates every condition exactly once, in declaration order, and
// returns the pre-rendered set selected by the resulting mask.
func (s *Static) Eval() StaticSet {
	var mask uint64
	for i, cond := range s.conds {
		if cond() {
			mask |= 1 << uint(i)
		}
	}
	return s.table().Lookup(mask)
}

// Render returns the pre-rendered classes for the current conditions.
func (s *Static) Render() string {
	return s.Eval().Render()
}

// String implements fmt.Stringer by rendering.
func (s *Static) String() string {
	return s.Render()
}

// IsEnabled evaluates the conditions and decodes the resulting mask.
func (s *Static) IsEnabled(class string) (enabled, declared bool) {
	return s.Eval().IsEnabled(class)
}

// All yields the enabled classes for the current conditions.
func (s *Static) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for class := range s.Eval().All() {
			if !yield(class) {
				return
			}
		}
	}
}
