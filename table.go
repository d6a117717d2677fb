package classes

import (
	"fmt"
	"slices"
)

// MaxStaticConditions is the largest number of conditional classes a Table
// can index. The table holds 2^k strings, so the practical limit is usually
// much lower; choosing k is left to the caller.
const MaxStaticConditions = 30

// Table holds the rendered output for every combination of a plan's flags,
// indexed by bitmask. A Table is immutable and safe for concurrent use.
type Table struct {
	plan     *Plan
	rendered []string
}

// BuildTable enumerates all 2^k flag assignments of p and renders each one.
func BuildTable(p *Plan) (*Table, error) {
	if err := checkStaticFlags(p); err != nil {
		return nil, err
	}
	return buildTable(p), nil
}

func buildTable(p *Plan) *Table {
	size := 1 << p.flags
	t := &Table{
		plan:     p,
		rendered: make([]string, size),
	}
	for mask := range size {
		t.rendered[mask] = p.render(func(flag int) bool {
			return mask&(1<<flag) != 0
		})
	}
	return t
}

func checkStaticFlags(p *Plan) error {
	if p.flags <= MaxStaticConditions {
		return nil
	}
	err := newError(ErrTooManyConditions, "")
	errs := &ErrorList{}
	errs.Add(err)
	return errs
}

// NewTable wraps strings that were rendered ahead of time, typically by
// classgen. rendered[mask] must be exactly the render of p for mask; every
// entry is checked against the plan, so a table can only ever return
// validated classes. The strings are copied.
func NewTable(p *Plan, rendered ...string) (*Table, error) {
	if err := checkStaticFlags(p); err != nil {
		return nil, err
	}
	if want := 1 << p.flags; len(rendered) != want {
		return nil, fmt.Errorf("classes: table for %d flags needs %d entries, got %d", p.flags, want, len(rendered))
	}
	for mask, s := range rendered {
		if !p.renders(s, func(flag int) bool { return mask&(1<<flag) != 0 }) {
			return nil, fmt.Errorf("classes: table entry %d is %q, which is not the render of its plan for mask %0*b", mask, s, max(p.flags, 1), mask)
		}
	}
	return &Table{plan: p, rendered: slices.Clone(rendered)}, nil
}

// MustTable is like NewTable but panics on error. It is intended for
// package-level variables in generated code.
func MustTable(p *Plan, rendered ...string) *Table {
	t, err := NewTable(p, rendered...)
	if err != nil {
		panic(fmt.Sprintf("classes: invalid table: %v", err))
	}
	return t
}

// Plan returns the plan the table was built from.
func (t *Table) Plan() *Plan {
	return t.plan
}

// Len returns the number of entries, 2^k.
func (t *Table) Len() int {
	return len(t.rendered)
}

// Lookup returns the pre-rendered set for mask. mask must be below Len.
func (t *Table) Lookup(mask uint64) StaticSet {
	_ = t.rendered[mask]
	return StaticSet{table: t, mask: mask}
}

// Bind packs already evaluated flags into a mask and looks it up. It panics if
// the number of flags is wrong.
func (t *Table) Bind(flags ...bool) StaticSet {
	if len(flags) != t.plan.flags {
		panic(fmt.Sprintf("classes: Bind expects %d flags, got %d", t.plan.flags, len(flags)))
	}
	var mask uint64
	for i, on := range flags {
		if on {
			mask |= 1 << uint(i)
		}
	}
	return t.Lookup(mask)
}
