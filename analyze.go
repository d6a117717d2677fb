package classes

import "strings"

// Analyze runs the analysis pipeline over a declaration without binding any
// conditions: validation, duplicate detection, known-condition folding and run
// partitioning. Every failing entry is reported; the returned error is an
// *ErrorList.
func Analyze(entries ...Entry) (*Plan, error) {
	plan, _, err := analyze(entries, true)
	return plan, err
}

// analyze is the shared pipeline behind Compile, CompileStatic and NewPlan.
// The returned conditions are indexed by segment flag. Positional entries are
// only accepted when the caller binds flags itself.
func analyze(entries []Entry, positional bool) (*Plan, []Condition, error) {
	if err := checkEntries(entries, positional); err != nil {
		return nil, nil, err
	}
	segments, conds := partition(entries)
	return newPlan(segments, entries), conds, nil
}

// checkEntries validates every class and rejects duplicates. Duplicates are
// detected before folding, so a class disabled by If still collides.
func checkEntries(entries []Entry, positional bool) error {
	errs := &ErrorList{}
	seen := make(map[string]int, len(entries))

	for i, e := range entries {
		if err := validateClass(e.class); err != nil {
			err.Index = i
			errs.Add(err)
			continue
		}

		if prev, ok := seen[e.class]; ok {
			err := newError(ErrDuplicateClass, e.class)
			err.Index = i
			err.Previous = prev
			errs.Add(err)
			continue
		}
		seen[e.class] = i

		if e.state == knownMaybe && e.cond == nil && !(positional && e.positional) {
			err := newError(ErrNilCondition, e.class)
			err.Index = i
			errs.Add(err)
		}
	}

	return errs.Err()
}

// partition merges maximal runs of unconditional entries into literal runs and
// turns every conditional entry into its own segment. Entries known to be
// disabled are dropped.
func partition(entries []Entry) ([]Segment, []Condition) {
	var (
		segments []Segment
		conds    []Condition
		pending  []string
	)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		segments = append(segments, Segment{
			Kind:    LiteralRun,
			Text:    strings.Join(pending, " "),
			Classes: pending,
			Flag:    -1,
		})
		pending = nil
	}

	for _, e := range entries {
		switch e.state {
		case knownFalse:
			continue
		case knownTrue:
			pending = append(pending, e.class)
		default:
			flush()
			segments = append(segments, Segment{
				Kind:    Conditional,
				Text:    e.class,
				Classes: []string{e.class},
				Flag:    len(conds),
			})
			conds = append(conds, e.cond)
		}
	}
	flush()

	return segments, conds
}
