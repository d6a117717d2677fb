package classes

import (
	"fmt"
	"iter"
	"math/bits"
)

// Classes is an evaluated set of classes. Both Set and StaticSet implement it.
type Classes interface {
	fmt.Stringer

	// Render joins the enabled classes with single spaces, in declaration order.
	Render() string

	// TryString returns the rendered classes when that does not require
	// building a new string. It succeeds whenever at most one literal run or
	// conditional class is enabled.
	TryString() (string, bool)

	// Len returns the number of enabled classes.
	Len() int

	// All yields the enabled classes in declaration order.
	All() iter.Seq[string]

	// IsEnabled reports whether class is enabled. declared is false when
	// class was never part of the declaration.
	IsEnabled(class string) (enabled, declared bool)
}

var (
	_ Classes = Set{}
	_ Classes = StaticSet{}
)

// Set is a class set whose conditions have been evaluated. The zero Set is empty.
type Set struct {
	plan  *Plan
	flags []bool
}

func (s Set) enabled(flag int) bool {
	return s.flags[flag]
}

// Render implements Classes.
func (s Set) Render() string {
	if s.plan == nil {
		return ""
	}
	return s.plan.render(s.enabled)
}

// String implements fmt.Stringer.
func (s Set) String() string {
	return s.Render()
}

// TryString implements Classes.
func (s Set) TryString() (string, bool) {
	if s.plan == nil {
		return "", true
	}
	return s.plan.tryString(s.enabled)
}

// Len implements Classes.
func (s Set) Len() int {
	if s.plan == nil {
		return 0
	}
	n := s.plan.fixed
	for _, on := range s.flags {
		if on {
			n++
		}
	}
	return n
}

// All implements Classes.
func (s Set) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if s.plan == nil {
			return
		}
		s.plan.each(s.enabled, yield)
	}
}

// ClassSet returns the enabled classes as a slice.
func (s Set) ClassSet() []string {
	out := make([]string, 0, s.Len())
	for class := range s.All() {
		out = append(out, class)
	}
	return out
}

// IsEnabled implements Classes.
func (s Set) IsEnabled(class string) (enabled, declared bool) {
	if s.plan == nil {
		return false, false
	}
	seg, declared := s.plan.lookup(class)
	if seg == nil {
		return false, declared
	}
	if seg.Kind == LiteralRun {
		return true, true
	}
	return s.flags[seg.Flag], true
}

// StaticSet is a pre-rendered class set selected from a Table. The zero
// StaticSet is empty.
type StaticSet struct {
	table *Table
	mask  uint64
}

func (s StaticSet) enabled(flag int) bool {
	return s.mask&(1<<uint(flag)) != 0
}

// Render implements Classes. It never allocates.
func (s StaticSet) Render() string {
	if s.table == nil {
		return ""
	}
	return s.table.rendered[s.mask]
}

// String implements fmt.Stringer.
func (s StaticSet) String() string {
	return s.Render()
}

// TryString implements Classes. It always succeeds.
func (s StaticSet) TryString() (string, bool) {
	return s.Render(), true
}

// Len implements Classes.
func (s StaticSet) Len() int {
	if s.table == nil {
		return 0
	}
	return s.table.plan.fixed + bits.OnesCount64(s.mask)
}

// All implements Classes.
func (s StaticSet) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if s.table == nil {
			return
		}
		s.table.plan.each(s.enabled, yield)
	}
}

// ClassSet returns the enabled classes as a slice.
func (s StaticSet) ClassSet() []string {
	out := make([]string, 0, s.Len())
	for class := range s.All() {
		out = append(out, class)
	}
	return out
}

// IsEnabled implements Classes by decoding the mask.
func (s StaticSet) IsEnabled(class string) (enabled, declared bool) {
	if s.table == nil {
		return false, false
	}
	seg, declared := s.table.plan.lookup(class)
	if seg == nil {
		return false, declared
	}
	if seg.Kind == LiteralRun {
		return true, true
	}
	return s.enabled(seg.Flag), true
}

// Mask returns the bitmask that selected this set: bit i is set when the
// i-th conditional class is enabled.
func (s StaticSet) Mask() uint64 {
	return s.mask
}
