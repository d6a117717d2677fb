package classes

import (
	"fmt"
	"slices"
	"strings"
)

// SegmentKind distinguishes merged literal runs from conditional classes.
type SegmentKind uint8

const (
	// LiteralRun is one or more consecutive unconditional classes, pre-joined.
	LiteralRun SegmentKind = iota
	// Conditional is a single class guarded by a condition.
	Conditional
)

// String returns a human-readable name for the segment kind.
func (k SegmentKind) String() string {
	switch k {
	case LiteralRun:
		return "LiteralRun"
	case Conditional:
		return "Conditional"
	default:
		return fmt.Sprintf("SegmentKind(%d)", k)
	}
}

// Segment is one unit of an analyzed declaration.
type Segment struct {
	Kind SegmentKind
	// Text is the rendered form: the classes of a literal run joined by a
	// single space, or the class of a conditional segment.
	Text string
	// Classes lists the classes covered by the segment, in order.
	Classes []string
	// Flag is the bit position of a conditional segment, -1 for literal runs.
	Flag int
}

// Literal returns a literal run segment for use with NewPlan.
func Literal(classes ...string) Segment {
	return Segment{
		Kind:    LiteralRun,
		Text:    strings.Join(classes, " "),
		Classes: classes,
		Flag:    -1,
	}
}

// Flag returns a conditional segment for use with NewPlan. Flags are
// numbered by NewPlan in order of appearance.
func Flag(class string) Segment {
	return Segment{
		Kind:    Conditional,
		Text:    class,
		Classes: []string{class},
		Flag:    -1,
	}
}

// Plan is the immutable result of analysis: a sequence of segments in which
// no two literal runs are adjacent and every conditional segment owns one flag.
// A Plan is safe for concurrent use.
type Plan struct {
	segments []Segment
	flags    int

	// index maps every declared class to its segment, or -1 when the class
	// was folded away as always disabled.
	index map[string]int

	fixed    int // classes inside literal runs
	maxBytes int // length of the render with every flag set
}

func newPlan(segments []Segment, entries []Entry) *Plan {
	p := &Plan{
		segments: segments,
		index:    make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if e.state == knownFalse {
			p.index[e.class] = -1
		}
	}

	for i, seg := range segments {
		if seg.Kind == Conditional {
			p.flags++
		} else {
			p.fixed += len(seg.Classes)
		}
		for _, class := range seg.Classes {
			p.index[class] = i
		}
		if i > 0 {
			p.maxBytes++
		}
		p.maxBytes += len(seg.Text)
	}

	return p
}

// NewPlan builds a plan from pre-partitioned segments, as emitted by classgen.
// The segments are flattened back into entries and re-analyzed, so adjacent
// literal runs are merged and every class is validated again.
func NewPlan(segments ...Segment) (*Plan, error) {
	var entries []Entry
	for _, seg := range segments {
		switch seg.Kind {
		case LiteralRun:
			if len(seg.Classes) == 0 {
				// Surfaces as ErrEmptyClass at this position.
				entries = append(entries, Class(""))
			}
			for _, class := range seg.Classes {
				entries = append(entries, Class(class))
			}
		case Conditional:
			entries = append(entries, Positional(seg.Text))
		default:
			return nil, fmt.Errorf("classes: unknown segment kind %s", seg.Kind)
		}
	}

	plan, _, err := analyze(entries, true)
	return plan, err
}

// MustPlan is like NewPlan but panics on error. It is intended for
// package-level variables in generated code.
func MustPlan(segments ...Segment) *Plan {
	p, err := NewPlan(segments...)
	if err != nil {
		panic(fmt.Sprintf("classes: invalid plan: %v", err))
	}
	return p
}

// Segments returns a copy of the plan's segments.
func (p *Plan) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	for i, seg := range p.segments {
		seg.Classes = slices.Clone(seg.Classes)
		out[i] = seg
	}
	return out
}

// Flags returns the number of conditional segments.
func (p *Plan) Flags() int {
	return p.flags
}

// Classes returns every class that can ever be enabled, in declaration order.
func (p *Plan) Classes() []string {
	out := make([]string, 0, p.fixed+p.flags)
	for _, seg := range p.segments {
		out = append(out, seg.Classes...)
	}
	return out
}

// Bind returns the class set for already evaluated flags, one per
// conditional segment in order. The flags are copied, so later changes to the
// slice do not affect the set. It panics if the number of flags is wrong.
func (p *Plan) Bind(flags ...bool) Set {
	if len(flags) != p.flags {
		panic(fmt.Sprintf("classes: Bind expects %d flags, got %d", p.flags, len(flags)))
	}
	return Set{plan: p, flags: slices.Clone(flags)}
}

// Render renders the plan for the given flags. See Bind.
func (p *Plan) Render(flags ...bool) string {
	return p.Bind(flags...).Render()
}

// lookup resolves a class to its segment. declared is false for classes that
// were never part of the declaration.
func (p *Plan) lookup(class string) (seg *Segment, declared bool) {
	i, ok := p.index[class]
	if !ok {
		return nil, false
	}
	if i < 0 {
		return nil, true
	}
	return &p.segments[i], true
}

// render joins the texts of the enabled segments. When at most one segment is
// enabled its pre-built text is returned as is. enabled is consulted twice per
// segment and must not have side effects.
func (p *Plan) render(enabled func(flag int) bool) string {
	first, count := -1, 0
	for i := range p.segments {
		seg := &p.segments[i]
		if seg.Kind == Conditional && !enabled(seg.Flag) {
			continue
		}
		if first < 0 {
			first = i
		}
		count++
	}

	switch count {
	case 0:
		return ""
	case 1:
		return p.segments[first].Text
	}

	var sb strings.Builder
	sb.Grow(p.maxBytes)
	for i := first; i < len(p.segments); i++ {
		seg := &p.segments[i]
		if seg.Kind == Conditional && !enabled(seg.Flag) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// tryString returns the rendered form when it is a single pre-built segment
// text (or empty), without allocating.
func (p *Plan) tryString(enabled func(flag int) bool) (string, bool) {
	rendered := ""
	for i := range p.segments {
		seg := &p.segments[i]
		if seg.Kind == Conditional && !enabled(seg.Flag) {
			continue
		}
		if rendered != "" {
			return "", false
		}
		rendered = seg.Text
	}
	return rendered, true
}

// renders reports whether s is what render would return for enabled,
// without building the string.
func (p *Plan) renders(s string, enabled func(flag int) bool) bool {
	first := true
	for i := range p.segments {
		seg := &p.segments[i]
		if seg.Kind == Conditional && !enabled(seg.Flag) {
			continue
		}
		if !first {
			if !strings.HasPrefix(s, " ") {
				return false
			}
			s = s[1:]
		}
		if !strings.HasPrefix(s, seg.Text) {
			return false
		}
		s = s[len(seg.Text):]
		first = false
	}
	return s == ""
}

// each yields the enabled classes in order, stopping early when yield returns false.
func (p *Plan) each(enabled func(flag int) bool, yield func(string) bool) {
	for i := range p.segments {
		seg := &p.segments[i]
		if seg.Kind == Conditional && !enabled(seg.Flag) {
			continue
		}
		for _, class := range seg.Classes {
			if !yield(class) {
				return
			}
		}
	}
}
