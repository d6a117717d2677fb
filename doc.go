// Package classes builds CSS class attribute values from a declared list of
// class names, each optionally guarded by a condition.
//
// A declaration is analyzed once, when it is compiled: every class is
// validated, duplicates are rejected, and consecutive unconditional classes
// are merged into a single pre-joined literal. Rendering then only has to
// look at the conditional classes.
//
//	btn := classes.MustCompile(
//		classes.Class("btn"),
//		classes.Class("btn-primary"),
//		classes.When("btn-active", func() bool { return active }),
//	)
//	btn.Render() // "btn btn-primary btn-active" when active
//
// [CompileStatic] goes further and renders every combination of the
// conditional classes up front. At call time the conditions are packed into
// a bitmask and the result is a single table lookup.
//
// The classgen command (cmd/classgen) performs the same analysis at build time
// on .classes files and writes Go source that uses [Plan] and [Table] directly.
package classes
