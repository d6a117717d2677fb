// Package formatter provides a code formatter for .classes declaration files.
//
// It parses .classes source, normalizes whitespace, indentation and entry
// separators, then pretty-prints the result. Used by the "classgen fmt" command.
package formatter
