package classes

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every analysis failure wraps exactly one of these, so callers
// can match with errors.Is.
var (
	ErrEmptyClass               = errors.New("class name must not be empty")
	ErrNonPrintableOrWhitespace = errors.New("class name must be printable ascii without whitespace")
	ErrUnsafeHTML               = errors.New(`class name must not include HTML unsafe characters: <>&'"`)
	ErrDuplicateClass           = errors.New("duplicate class name")
	ErrNilCondition             = errors.New("conditional class has a nil condition")
	ErrTooManyConditions        = errors.New("too many conditional classes for a static table")
)

// Error describes a single analysis failure.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind error
	// Class is the offending class name.
	Class string
	// Index is the position of the offending entry in the declaration, or -1.
	Index int
	// Previous is the index of the earlier declaration for duplicates, or -1.
	Previous int
	// Offset is the byte offset of the offending character within Class, or -1.
	Offset int
}

func newError(kind error, class string) *Error {
	return &Error{Kind: kind, Class: class, Index: -1, Previous: -1, Offset: -1}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Index >= 0 {
		fmt.Fprintf(&sb, "entry %d: ", e.Index)
	}
	sb.WriteString(e.Kind.Error())
	if e.Kind != ErrEmptyClass && e.Kind != ErrTooManyConditions {
		fmt.Fprintf(&sb, " %q", e.Class)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&sb, " (byte %q at offset %d)", e.Class[e.Offset:e.Offset+1], e.Offset)
	}
	if e.Previous >= 0 {
		fmt.Fprintf(&sb, " (previous occurrence at entry %d)", e.Previous)
	}
	return sb.String()
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// ErrorList collects every failure found while analyzing a declaration.
type ErrorList struct {
	errors []*Error
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.errors = append(el.errors, err)
}

// Len returns the number of errors.
func (el *ErrorList) Len() int {
	return len(el.errors)
}

// HasErrors returns true if there are any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.errors) > 0
}

// Errors returns a copy of the error slice.
func (el *ErrorList) Errors() []*Error {
	result := make([]*Error, len(el.errors))
	copy(result, el.errors)
	return result
}

// Error implements the error interface, returning all errors joined by newlines.
func (el *ErrorList) Error() string {
	if len(el.errors) == 1 {
		return el.errors[0].Error()
	}

	var sb strings.Builder
	for i, err := range el.errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (el *ErrorList) Unwrap() []error {
	errs := make([]error, len(el.errors))
	for i, err := range el.errors {
		errs[i] = err
	}
	return errs
}

// Err returns nil if there are no errors, otherwise returns the ErrorList as an error.
func (el *ErrorList) Err() error {
	if len(el.errors) == 0 {
		return nil
	}
	return el
}
