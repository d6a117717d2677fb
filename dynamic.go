package classes

import (
	"fmt"
	"iter"
)

// Dynamic renders a declaration by evaluating its conditions on every call.
// Consecutive unconditional classes are pre-joined, so rendering only does
// work proportional to the number of conditional classes.
type Dynamic struct {
	plan  *Plan
	conds []Condition
}

// Compile analyzes entries and returns a dynamic renderer. Any invalid,
// duplicate or nil-condition entry fails the whole declaration; the error is
// an *ErrorList naming every offending entry.
func Compile(entries ...Entry) (*Dynamic, error) {
	plan, conds, err := analyze(entries, false)
	if err != nil {
		return nil, err
	}
	return &Dynamic{plan: plan, conds: conds}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(entries ...Entry) *Dynamic {
	d, err := Compile(entries...)
	if err != nil {
		panic(fmt.Sprintf("classes: %v", err))
	}
	return d
}

// Plan returns the analyzed declaration.
func (d *Dynamic) Plan() *Plan {
	return d.plan
}

// Eval evaluates every condition exactly once, in declaration order, and
// returns the resulting set.
func (d *Dynamic) Eval() Set {
	flags := make([]bool, len(d.conds))
	for i, cond := range d.conds {
		flags[i] = cond()
	}
	return Set{plan: d.plan, flags: flags}
}

// Render evaluates the conditions and renders the enabled classes.
func (d *Dynamic) Render() string {
	return d.Eval().Render()
}

// String implements fmt.Stringer by rendering.
func (d *Dynamic) String() string {
	return d.Render()
}

// IsEnabled reports whether class is currently enabled. Only the condition
// guarding class is evaluated. declared is false for unknown classes.
func (d *Dynamic) IsEnabled(class string) (enabled, declared bool) {
	seg, declared := d.plan.lookup(class)
	if seg == nil {
		return false, declared
	}
	if seg.Kind == LiteralRun {
		return true, true
	}
	return d.conds[seg.Flag](), true
}

// All yields the enabled classes in declaration order. Conditions are
// evaluated lazily as the iteration reaches them, once per iteration; an
// early break leaves the remaining conditions unevaluated.
func (d *Dynamic) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := range d.plan.segments {
			seg := &d.plan.segments[i]
			if seg.Kind == Conditional && !d.conds[seg.Flag]() {
				continue
			}
			for _, class := range seg.Classes {
				if !yield(class) {
					return
				}
			}
		}
	}
}
