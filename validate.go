package classes

// ValidateClass reports whether class can be used as a class name.
//
// A class must be non-empty and consist only of printable, non-whitespace
// ASCII (0x21 through 0x7E), excluding the HTML unsafe characters < > & ' ".
// The first offending byte decides which error kind is returned.
func ValidateClass(class string) error {
	if err := validateClass(class); err != nil {
		return err
	}
	return nil
}

// validateClass returns a concrete *Error so callers can fill in the entry index.
func validateClass(class string) *Error {
	if class == "" {
		return newError(ErrEmptyClass, class)
	}

	for i := 0; i < len(class); i++ {
		c := class[i]
		var kind error
		switch {
		case c <= ' ' || c > '~':
			kind = ErrNonPrintableOrWhitespace
		case isUnsafeHTML(c):
			kind = ErrUnsafeHTML
		default:
			continue
		}
		err := newError(kind, class)
		err.Offset = i
		return err
	}

	return nil
}

func isUnsafeHTML(c byte) bool {
	switch c {
	case '<', '>', '&', '\'', '"':
		return true
	}
	return false
}
