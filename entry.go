package classes

// Condition reports whether a conditional class is enabled. Conditions may
// have side effects; renderers call each one at most once per operation and
// always in declaration order.
type Condition func() bool

// known is what analysis can tell about an entry's condition without running it.
type known uint8

const (
	knownMaybe known = iota
	knownTrue
	knownFalse
)

// Entry is one declared class with its optional condition.
type Entry struct {
	class string
	cond  Condition
	state known

	// positional marks conditionals whose value is supplied as a flag at
	// bind time rather than by a Condition.
	positional bool
}

// Class declares an unconditional class.
func Class(name string) Entry {
	return Entry{class: name, state: knownTrue}
}

// When declares a class that is enabled whenever cond returns true.
func When(name string, cond Condition) Entry {
	return Entry{class: name, cond: cond, state: knownMaybe}
}

// If declares a class whose condition is already known. An enabled class is
// treated as unconditional and a disabled one is dropped during analysis,
// though it still counts for duplicate detection.
func If(name string, enabled bool) Entry {
	if enabled {
		return Entry{class: name, state: knownTrue}
	}
	return Entry{class: name, state: knownFalse}
}

// Positional declares a conditional class whose value is supplied as a flag
// to Plan.Bind or Table.Bind instead of by a Condition. Compile and
// CompileStatic reject positional entries; use Analyze.
func Positional(name string) Entry {
	return Entry{class: name, state: knownMaybe, positional: true}
}

// Name returns the declared class name.
func (e Entry) Name() string {
	return e.class
}

// Conditional reports whether the entry needs a condition evaluated at render time.
func (e Entry) Conditional() bool {
	return e.state == knownMaybe
}
